package domain

import "time"

// Bounty submission statuses
const (
	BountyStatusSubmitted = "submitted"
	BountyStatusWinner    = "winner"
	BountyStatusRejected  = "rejected"
)

// BountySubmission records a bounty entry and any XP granted for it
type BountySubmission struct {
	ID            uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	WalletAddress string    `gorm:"column:wallet_address;type:varchar(64);index" json:"wallet_address"`
	BountyID      string    `gorm:"column:bounty_id;type:varchar(100)" json:"bounty_id"`
	BountyTitle   string    `gorm:"column:bounty_title;type:varchar(255)" json:"bounty_title"`
	Status        string    `gorm:"column:status;type:varchar(20);default:'submitted'" json:"status"`
	Placement     int       `gorm:"column:placement;default:0" json:"placement"`
	XPAwarded     int       `gorm:"column:xp_awarded" json:"xp_awarded"`
	SubmittedAt   time.Time `gorm:"column:submitted_at;autoCreateTime" json:"submitted_at"`
}

func (BountySubmission) TableName() string { return "bounty_submissions" }
