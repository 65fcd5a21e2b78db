package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/hoodieacademy/academy-backend/internal/domain"
)

// ActivityRepository handles read access to the append-only XP ledger.
// Writes go through AwardRepository so they stay inside the award
// transaction.
type ActivityRepository interface {
	// FindByReference returns the prior award for (wallet, action, referenceID), nil if none
	FindByReference(wallet, action, referenceID string) (*domain.ActivityRecord, error)
	// CountTodayForAction counts today's ledger rows for (wallet, action)
	CountTodayForAction(wallet, action string) (int64, error)
	// LastForAction returns the most recent ledger row for (wallet, action), nil if none
	LastForAction(wallet, action string) (*domain.ActivityRecord, error)
	// SumXPToday sums today's granted XP for a wallet across all XP categories
	SumXPToday(wallet string) (int, error)
	// Recent returns the latest XP ledger rows for a wallet, newest first
	Recent(wallet string, limit int) ([]domain.ActivityRecord, error)
}

type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

// startOfToday returns server-local midnight
func startOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func (r *activityRepository) FindByReference(wallet, action, referenceID string) (*domain.ActivityRecord, error) {
	var rec domain.ActivityRecord
	err := r.db.
		Where("wallet_address = ? AND action = ? AND reference_id = ?", wallet, action, referenceID).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *activityRepository) CountTodayForAction(wallet, action string) (int64, error) {
	var count int64
	err := r.db.Model(&domain.ActivityRecord{}).
		Where("wallet_address = ? AND action = ? AND created_at >= ?", wallet, action, startOfToday()).
		Count(&count).Error
	return count, err
}

func (r *activityRepository) LastForAction(wallet, action string) (*domain.ActivityRecord, error) {
	var rec domain.ActivityRecord
	err := r.db.
		Where("wallet_address = ? AND action = ?", wallet, action).
		Order("created_at DESC").
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *activityRepository) SumXPToday(wallet string) (int, error) {
	return sumXPToday(r.db, wallet)
}

// sumXPToday is shared with the award transaction, which re-runs the sum
// under the user row lock.
func sumXPToday(tx *gorm.DB, wallet string) (int, error) {
	var total int64
	err := tx.Model(&domain.ActivityRecord{}).
		Select("COALESCE(SUM(xp_amount), 0)").
		Where("wallet_address = ? AND activity_type IN ? AND created_at >= ?",
			wallet, domain.XPActivityTypes, startOfToday()).
		Scan(&total).Error
	return int(total), err
}

func (r *activityRepository) Recent(wallet string, limit int) ([]domain.ActivityRecord, error) {
	var recs []domain.ActivityRecord
	err := r.db.
		Where("wallet_address = ? AND activity_type IN ?", wallet, domain.XPActivityTypes).
		Order("created_at DESC").
		Limit(limit).
		Find(&recs).Error
	return recs, err
}
