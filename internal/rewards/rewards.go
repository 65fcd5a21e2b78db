// Package rewards holds the static action-to-XP policy table. The table is
// fixed at compile time; nothing mutates it after init.
package rewards

import (
	"sort"
	"strings"
)

// Reward categories
const (
	CategoryLearning     = "learning"
	CategoryAchievement  = "achievement"
	CategoryEngagement   = "engagement"
	CategoryContribution = "contribution"
	CategorySocial       = "social"
)

// Reward is the per-action award policy
type Reward struct {
	Action        string  `json:"action"`
	XP            int     `json:"xp"`
	Category      string  `json:"category"`
	Description   string  `json:"description"`
	Enabled       bool    `json:"enabled"`
	MaxPerDay     int     `json:"max_per_day,omitempty"`    // 0 = unlimited
	CooldownHours float64 `json:"cooldown_hours,omitempty"` // 0 = none
}

var table = map[string]Reward{
	"FEEDBACK_SUBMITTED":    {Action: "FEEDBACK_SUBMITTED", XP: 10, Category: CategoryContribution, Description: "Submitted feedback", Enabled: true, MaxPerDay: 5},
	"FEEDBACK_APPROVED":     {Action: "FEEDBACK_APPROVED", XP: 50, Category: CategoryContribution, Description: "Feedback approved", Enabled: true},
	"FEEDBACK_IMPLEMENTED":  {Action: "FEEDBACK_IMPLEMENTED", XP: 100, Category: CategoryContribution, Description: "Feedback implemented", Enabled: true},
	"FEEDBACK_UPVOTED":      {Action: "FEEDBACK_UPVOTED", XP: 2, Category: CategoryEngagement, Description: "Feedback received an upvote", Enabled: true, MaxPerDay: 20},
	"COURSE_STARTED":        {Action: "COURSE_STARTED", XP: 5, Category: CategoryLearning, Description: "Started a course", Enabled: true},
	"COURSE_COMPLETED":      {Action: "COURSE_COMPLETED", XP: 100, Category: CategoryLearning, Description: "Completed a course", Enabled: true},
	"EXAM_PASSED":           {Action: "EXAM_PASSED", XP: 150, Category: CategoryAchievement, Description: "Passed an exam", Enabled: true},
	"EXAM_PERFECT_SCORE":    {Action: "EXAM_PERFECT_SCORE", XP: 50, Category: CategoryAchievement, Description: "Perfect exam score", Enabled: true},
	"BOUNTY_SUBMITTED":      {Action: "BOUNTY_SUBMITTED", XP: 10, Category: CategoryContribution, Description: "Submitted a bounty entry", Enabled: true},
	"BOUNTY_WINNER_FIRST":   {Action: "BOUNTY_WINNER_FIRST", XP: 250, Category: CategoryAchievement, Description: "Bounty winner - 1st place", Enabled: true},
	"BOUNTY_WINNER_SECOND":  {Action: "BOUNTY_WINNER_SECOND", XP: 100, Category: CategoryAchievement, Description: "Bounty winner - 2nd place", Enabled: true},
	"BOUNTY_WINNER_THIRD":   {Action: "BOUNTY_WINNER_THIRD", XP: 50, Category: CategoryAchievement, Description: "Bounty winner - 3rd place", Enabled: true},
	"DAILY_LOGIN":           {Action: "DAILY_LOGIN", XP: 5, Category: CategoryEngagement, Description: "Daily login bonus", Enabled: true, MaxPerDay: 1},
	"FIRST_LOGIN":           {Action: "FIRST_LOGIN", XP: 25, Category: CategoryEngagement, Description: "First login", Enabled: true},
	"STREAK_7_DAYS":         {Action: "STREAK_7_DAYS", XP: 50, Category: CategoryEngagement, Description: "7-day login streak", Enabled: true},
	"STREAK_30_DAYS":        {Action: "STREAK_30_DAYS", XP: 200, Category: CategoryEngagement, Description: "30-day login streak", Enabled: true},
	"PROFILE_COMPLETED":     {Action: "PROFILE_COMPLETED", XP: 20, Category: CategoryEngagement, Description: "Completed profile", Enabled: true},
	"REFERRAL_SIGNUP":       {Action: "REFERRAL_SIGNUP", XP: 100, Category: CategorySocial, Description: "Referred a new member", Enabled: true},
	"SQUAD_JOINED":          {Action: "SQUAD_JOINED", XP: 30, Category: CategorySocial, Description: "Joined a squad", Enabled: true},
	"CHAT_MESSAGE_SENT":     {Action: "CHAT_MESSAGE_SENT", XP: 1, Category: CategoryEngagement, Description: "Sent a chat message", Enabled: true, MaxPerDay: 50},
	"HELPFUL_VOTE":          {Action: "HELPFUL_VOTE", XP: 3, Category: CategorySocial, Description: "Received a helpful vote", Enabled: true, MaxPerDay: 10},
	"SOCIAL_POST_CREATED":   {Action: "SOCIAL_POST_CREATED", XP: 1, Category: CategoryEngagement, Description: "Created a post", Enabled: true, MaxPerDay: 10},
	"SOCIAL_COMMENT_POSTED": {Action: "SOCIAL_COMMENT_POSTED", XP: 3, Category: CategoryEngagement, Description: "Posted a comment", Enabled: true, MaxPerDay: 20},
	"SOCIAL_POST_LIKED":     {Action: "SOCIAL_POST_LIKED", XP: 1, Category: CategorySocial, Description: "Post received a like", Enabled: true, MaxPerDay: 50},
	"EVENT_PARTICIPATION":   {Action: "EVENT_PARTICIPATION", XP: 75, Category: CategoryEngagement, Description: "Participated in an event", Enabled: true},
	"SPECIAL_ACHIEVEMENT":   {Action: "SPECIAL_ACHIEVEMENT", XP: 250, Category: CategoryAchievement, Description: "Special achievement", Enabled: true},
	"ADMIN_BONUS":           {Action: "ADMIN_BONUS", XP: 0, Category: CategoryAchievement, Description: "Admin bonus", Enabled: true},
}

// Lookup returns the reward policy for an action key.
// Action keys are matched case-insensitively.
func Lookup(action string) (Reward, bool) {
	r, ok := table[strings.ToUpper(strings.TrimSpace(action))]
	return r, ok
}

// IsEnabled reports whether an action exists and is enabled
func IsEnabled(action string) bool {
	r, ok := Lookup(action)
	return ok && r.Enabled
}

// AmountFor returns the base XP amount for an action, 0 if unknown
func AmountFor(action string) int {
	r, ok := Lookup(action)
	if !ok {
		return 0
	}
	return r.XP
}

// All returns every reward policy, sorted by action key
func All() []Reward {
	out := make([]Reward, 0, len(table))
	for _, r := range table {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Action < out[j].Action })
	return out
}
