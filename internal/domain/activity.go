package domain

import (
	"encoding/json"
	"time"
)

// Activity categories. Every XP grant appends exactly one record with one
// of these types; daily-cap math sums across all of them.
const (
	ActivityXPAwarded        = "xp_awarded"
	ActivityXPBounty         = "xp_bounty"
	ActivityCourseCompletion = "course_completion"
	ActivityDailyLoginBonus  = "daily_login_bonus"
)

// XPActivityTypes lists every category that counts toward a user's XP total
var XPActivityTypes = []string{
	ActivityXPAwarded,
	ActivityXPBounty,
	ActivityCourseCompletion,
	ActivityDailyLoginBonus,
}

// ActivityRecord is an immutable log entry written for every XP grant.
// ReferenceID is nullable so the (wallet, action, reference_id) unique
// index only guards idempotent awards; rows without a reference never
// collide.
type ActivityRecord struct {
	ID            uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	WalletAddress string    `gorm:"column:wallet_address;type:varchar(64);index;uniqueIndex:idx_award_ref,priority:1" json:"wallet_address"`
	ActivityType  string    `gorm:"column:activity_type;type:varchar(32);index" json:"activity_type"`
	Action        string    `gorm:"column:action;type:varchar(64);index;uniqueIndex:idx_award_ref,priority:2" json:"action"`
	ReferenceID   *string   `gorm:"column:reference_id;type:varchar(128);uniqueIndex:idx_award_ref,priority:3" json:"reference_id,omitempty"`
	XPAmount      int       `gorm:"column:xp_amount" json:"xp_amount"`
	PreviousXP    int       `gorm:"column:previous_xp" json:"previous_xp"`
	NewXP         int       `gorm:"column:new_xp" json:"new_xp"`
	PreviousLevel int       `gorm:"column:previous_level" json:"previous_level"`
	NewLevel      int       `gorm:"column:new_level" json:"new_level"`
	LevelUp       bool      `gorm:"column:level_up;default:false" json:"level_up"`
	Reason        string    `gorm:"column:reason;type:varchar(255)" json:"reason"`
	Metadata      *string   `gorm:"column:metadata;type:json" json:"metadata,omitempty"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
}

func (ActivityRecord) TableName() string { return "activity_log" }

// DecodeMetadata unmarshals the metadata bag, returning an empty map when absent
func (r *ActivityRecord) DecodeMetadata() map[string]interface{} {
	out := map[string]interface{}{}
	if r.Metadata == nil || *r.Metadata == "" {
		return out
	}
	_ = json.Unmarshal([]byte(*r.Metadata), &out)
	return out
}

// EncodeMetadata serializes a metadata bag for storage
func EncodeMetadata(m map[string]interface{}) (*string, error) {
	if len(m) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	s := string(data)
	return &s, nil
}
