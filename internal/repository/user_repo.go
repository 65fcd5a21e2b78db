package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/hoodieacademy/academy-backend/internal/domain"
)

// UserRepository handles user record data access
type UserRepository interface {
	// FindByWallet returns the user for a wallet address, nil if absent
	FindByWallet(wallet string) (*domain.User, error)
	// Create inserts a new user record
	Create(user *domain.User) error
	// Top returns the highest-XP users for the leaderboard
	Top(limit int) ([]domain.User, error)
	// Count returns the total number of users
	Count() (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByWallet(wallet string) (*domain.User, error) {
	var user domain.User
	err := r.db.Where("wallet_address = ?", wallet).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Create(user *domain.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) Top(limit int) ([]domain.User, error) {
	var users []domain.User
	err := r.db.
		Order("total_xp DESC, created_at ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

func (r *userRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&domain.User{}).Count(&count).Error
	return count, err
}
