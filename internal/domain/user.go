package domain

import "time"

// User represents an academy member, keyed by wallet address
type User struct {
	ID            uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	WalletAddress string    `gorm:"column:wallet_address;type:varchar(64);uniqueIndex" json:"wallet_address"`
	DisplayName   string    `gorm:"column:display_name;type:varchar(100)" json:"display_name"`
	Squad         *string   `gorm:"column:squad;type:varchar(50)" json:"squad,omitempty"`
	TotalXP       int       `gorm:"column:total_xp;default:0" json:"total_xp"`
	Level         int       `gorm:"column:level;default:1" json:"level"`
	IsAdmin       bool      `gorm:"column:is_admin;default:false" json:"is_admin"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }

// XPPerLevel is the flat amount of XP required to advance one level
const XPPerLevel = 1000

// LevelForXP derives the level for a cumulative XP total
func LevelForXP(totalXP int) int {
	if totalXP < 0 {
		return 1
	}
	return totalXP/XPPerLevel + 1
}

// DefaultDisplayName derives a display name from a wallet address
// for lazily-created users (e.g. "User ABCD1234")
func DefaultDisplayName(wallet string) string {
	if len(wallet) <= 8 {
		return "User " + wallet
	}
	return "User " + wallet[:8]
}
