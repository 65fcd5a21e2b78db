package repository

import (
	"gorm.io/gorm"

	"github.com/hoodieacademy/academy-backend/internal/domain"
)

// BountyRepository handles bounty submission data access
type BountyRepository interface {
	// ListByWallet returns a wallet's bounty submissions, newest first
	ListByWallet(wallet string) ([]domain.BountySubmission, error)
	// SumXP totals the XP granted for a wallet's bounty submissions
	SumXP(wallet string) (int, error)
	// Record inserts a submission row
	Record(submission *domain.BountySubmission) error
}

type bountyRepository struct {
	db *gorm.DB
}

// NewBountyRepository creates a new BountyRepository
func NewBountyRepository(db *gorm.DB) BountyRepository {
	return &bountyRepository{db: db}
}

func (r *bountyRepository) ListByWallet(wallet string) ([]domain.BountySubmission, error) {
	var submissions []domain.BountySubmission
	err := r.db.
		Where("wallet_address = ?", wallet).
		Order("submitted_at DESC").
		Find(&submissions).Error
	return submissions, err
}

func (r *bountyRepository) SumXP(wallet string) (int, error) {
	var total int64
	err := r.db.Model(&domain.BountySubmission{}).
		Select("COALESCE(SUM(xp_awarded), 0)").
		Where("wallet_address = ?", wallet).
		Scan(&total).Error
	return int(total), err
}

func (r *bountyRepository) Record(submission *domain.BountySubmission) error {
	return r.db.Create(submission).Error
}
