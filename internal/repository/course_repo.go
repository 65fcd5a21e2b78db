package repository

import (
	"gorm.io/gorm"

	"github.com/hoodieacademy/academy-backend/internal/domain"
)

// CourseRepository handles course completion data access
type CourseRepository interface {
	// ListByWallet returns a wallet's course completions, newest first
	ListByWallet(wallet string) ([]domain.CourseCompletion, error)
	// SumXP totals the XP granted for a wallet's completed courses
	SumXP(wallet string) (int, error)
	// Record inserts a completion row
	Record(completion *domain.CourseCompletion) error
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) ListByWallet(wallet string) ([]domain.CourseCompletion, error) {
	var completions []domain.CourseCompletion
	err := r.db.
		Where("wallet_address = ?", wallet).
		Order("completed_at DESC").
		Find(&completions).Error
	return completions, err
}

func (r *courseRepository) SumXP(wallet string) (int, error) {
	var total int64
	err := r.db.Model(&domain.CourseCompletion{}).
		Select("COALESCE(SUM(xp_awarded), 0)").
		Where("wallet_address = ?", wallet).
		Scan(&total).Error
	return int(total), err
}

func (r *courseRepository) Record(completion *domain.CourseCompletion) error {
	return r.db.Create(completion).Error
}
