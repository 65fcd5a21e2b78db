package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hoodieacademy/academy-backend/internal/domain"
)

var (
	// ErrDuplicateReference means the (wallet, action, reference_id) ledger
	// row already exists; the unique index caught a concurrent or repeated award
	ErrDuplicateReference = errors.New("duplicate award reference")
	// ErrDailyCapReached means the wallet has no XP headroom left today
	ErrDailyCapReached = errors.New("daily xp cap reached")
)

// AwardGrant is a fully-validated XP grant ready to be applied
type AwardGrant struct {
	Wallet       string
	DisplayName  string // used only when the user is created lazily
	Action       string
	ActivityType string
	ReferenceID  *string
	Amount       int
	DailyCap     int // 0 disables the daily cap for this grant
	Reason       string
	Metadata     *string
}

// AwardReceipt reports what the transaction actually did
type AwardReceipt struct {
	GrantedXP     int
	Capped        bool
	PreviousXP    int
	NewXP         int
	PreviousLevel int
	NewLevel      int
	LevelUp       bool
	EarnedToday   int // includes this grant
	UserCreated   bool
	Record        *domain.ActivityRecord
}

// AwardRepository owns the atomic XP award write. The ledger insert and the
// user XP update commit or fail together, so the unique reference index can
// never be bypassed by a race between check and write.
type AwardRepository interface {
	Apply(grant AwardGrant) (*AwardReceipt, error)
}

type awardRepository struct {
	db *gorm.DB
}

// NewAwardRepository creates a new AwardRepository
func NewAwardRepository(db *gorm.DB) AwardRepository {
	return &awardRepository{db: db}
}

func (r *awardRepository) Apply(grant AwardGrant) (*AwardReceipt, error) {
	receipt := &AwardReceipt{}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		// Lock the user row so concurrent awards to the same wallet
		// serialize. SQLite (tests) is single-writer and rejects
		// FOR UPDATE, so the clause is MySQL-only.
		q := tx.Where("wallet_address = ?", grant.Wallet)
		if tx.Dialector.Name() == "mysql" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var user domain.User
		err := q.First(&user).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			user = domain.User{
				WalletAddress: grant.Wallet,
				DisplayName:   grant.DisplayName,
				TotalXP:       0,
				Level:         1,
			}
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			receipt.UserCreated = true
		case err != nil:
			return err
		}

		granted := grant.Amount
		earnedToday := 0
		if grant.DailyCap > 0 {
			earnedToday, err = sumXPToday(tx, grant.Wallet)
			if err != nil {
				return err
			}
			headroom := grant.DailyCap - earnedToday
			if headroom <= 0 {
				return ErrDailyCapReached
			}
			if granted > headroom {
				granted = headroom
				receipt.Capped = true
			}
		}

		newXP := user.TotalXP + granted
		newLevel := domain.LevelForXP(newXP)

		record := &domain.ActivityRecord{
			WalletAddress: grant.Wallet,
			ActivityType:  grant.ActivityType,
			Action:        grant.Action,
			ReferenceID:   grant.ReferenceID,
			XPAmount:      granted,
			PreviousXP:    user.TotalXP,
			NewXP:         newXP,
			PreviousLevel: user.Level,
			NewLevel:      newLevel,
			LevelUp:       newLevel > user.Level,
			Reason:        grant.Reason,
			Metadata:      grant.Metadata,
		}
		if err := tx.Create(record).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateReference
			}
			return err
		}

		if err := tx.Model(&domain.User{}).
			Where("wallet_address = ?", grant.Wallet).
			Updates(map[string]interface{}{
				"total_xp": newXP,
				"level":    newLevel,
			}).Error; err != nil {
			return err
		}

		receipt.GrantedXP = granted
		receipt.PreviousXP = user.TotalXP
		receipt.NewXP = newXP
		receipt.PreviousLevel = user.Level
		receipt.NewLevel = newLevel
		receipt.LevelUp = newLevel > user.Level
		receipt.EarnedToday = earnedToday + granted
		receipt.Record = record
		return nil
	})
	if err != nil {
		return nil, err
	}

	return receipt, nil
}
