package domain

import "time"

// CourseCompletion records a finished course and the XP granted for it
type CourseCompletion struct {
	ID            uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	WalletAddress string    `gorm:"column:wallet_address;type:varchar(64);index" json:"wallet_address"`
	CourseID      string    `gorm:"column:course_id;type:varchar(100)" json:"course_id"`
	CourseTitle   string    `gorm:"column:course_title;type:varchar(255)" json:"course_title"`
	XPAwarded     int       `gorm:"column:xp_awarded" json:"xp_awarded"`
	CompletedAt   time.Time `gorm:"column:completed_at;autoCreateTime" json:"completed_at"`
}

func (CourseCompletion) TableName() string { return "course_completions" }
