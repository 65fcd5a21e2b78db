package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/hoodieacademy/academy-backend/internal/common"
	"github.com/hoodieacademy/academy-backend/internal/domain"
)

// historyLimit caps how many ledger rows a summary returns
const historyLimit = 100

// XP sources derived from ledger categories for display
const (
	XPSourceCourse     = "course"
	XPSourceBounty     = "bounty"
	XPSourceDailyLogin = "daily_login"
	XPSourceAdminAward = "admin_award"
	XPSourceOther      = "other"
)

// XPSummaryOptions toggles the optional summary sections
type XPSummaryOptions struct {
	IncludeHistory  bool
	IncludeCourses  bool
	IncludeBounties bool
}

// HistoryEntry is one ledger row prepared for display
type HistoryEntry struct {
	ID        uint64    `json:"id"`
	Action    string    `json:"action"`
	Source    string    `json:"source"`
	XPAmount  int       `json:"xp_amount"`
	Reason    string    `json:"reason"`
	LevelUp   bool      `json:"level_up"`
	CreatedAt time.Time `json:"created_at"`
}

// XPSummary is the read-side aggregation for a wallet
type XPSummary struct {
	Exists          bool    `json:"exists"`
	WalletAddress   string  `json:"wallet_address"`
	DisplayName     string  `json:"display_name,omitempty"`
	Squad           *string `json:"squad,omitempty"`
	TotalXP         int     `json:"total_xp"`
	Level           int     `json:"level"`
	XPInLevel       int     `json:"xp_in_level"`
	XPToNextLevel   int     `json:"xp_to_next_level"`
	ProgressPercent int     `json:"progress_percent"`

	History   []HistoryEntry `json:"history,omitempty"`
	Breakdown map[string]int `json:"breakdown,omitempty"`

	Courses  []domain.CourseCompletion `json:"courses,omitempty"`
	CourseXP int                       `json:"course_xp,omitempty"`

	Bounties []domain.BountySubmission `json:"bounties,omitempty"`
	BountyXP int                       `json:"bounty_xp,omitempty"`
}

// GetXPSummary aggregates a wallet's XP state for display. An unknown
// wallet yields a zero-state summary with Exists=false, not an error:
// summaries are queried for users who may not have earned anything yet.
func (s *XPService) GetXPSummary(wallet string, opts XPSummaryOptions) (*XPSummary, error) {
	wallet = strings.TrimSpace(wallet)
	if wallet == "" {
		return nil, common.ErrInvalidInput
	}

	user, err := s.users.FindByWallet(wallet)
	if err != nil {
		return nil, fmt.Errorf("user lookup: %w", err)
	}
	if user == nil {
		return &XPSummary{
			WalletAddress: wallet,
			Level:         1,
			XPToNextLevel: domain.XPPerLevel,
		}, nil
	}

	xpInLevel := user.TotalXP % domain.XPPerLevel
	summary := &XPSummary{
		Exists:          true,
		WalletAddress:   user.WalletAddress,
		DisplayName:     user.DisplayName,
		Squad:           user.Squad,
		TotalXP:         user.TotalXP,
		Level:           user.Level,
		XPInLevel:       xpInLevel,
		XPToNextLevel:   domain.XPPerLevel - xpInLevel,
		ProgressPercent: xpInLevel * 100 / domain.XPPerLevel,
	}

	if opts.IncludeHistory {
		records, err := s.activity.Recent(wallet, historyLimit)
		if err != nil {
			return nil, fmt.Errorf("history: %w", err)
		}
		summary.History = make([]HistoryEntry, len(records))
		summary.Breakdown = map[string]int{}
		for i, rec := range records {
			source := deriveSource(&rec)
			summary.History[i] = HistoryEntry{
				ID:        rec.ID,
				Action:    rec.Action,
				Source:    source,
				XPAmount:  rec.XPAmount,
				Reason:    rec.Reason,
				LevelUp:   rec.LevelUp,
				CreatedAt: rec.CreatedAt,
			}
			summary.Breakdown[source] += rec.XPAmount
		}
	}

	if opts.IncludeCourses {
		courses, err := s.courses.ListByWallet(wallet)
		if err != nil {
			return nil, fmt.Errorf("courses: %w", err)
		}
		courseXP, err := s.courses.SumXP(wallet)
		if err != nil {
			return nil, fmt.Errorf("course xp: %w", err)
		}
		summary.Courses = courses
		summary.CourseXP = courseXP
	}

	if opts.IncludeBounties {
		bounties, err := s.bounties.ListByWallet(wallet)
		if err != nil {
			return nil, fmt.Errorf("bounties: %w", err)
		}
		bountyXP, err := s.bounties.SumXP(wallet)
		if err != nil {
			return nil, fmt.Errorf("bounty xp: %w", err)
		}
		summary.Bounties = bounties
		summary.BountyXP = bountyXP
	}

	return summary, nil
}

// deriveSource infers a display source from the ledger category. Rows in
// the generic xp_awarded category split on the recorded metadata source.
func deriveSource(rec *domain.ActivityRecord) string {
	switch rec.ActivityType {
	case domain.ActivityCourseCompletion:
		return XPSourceCourse
	case domain.ActivityXPBounty:
		return XPSourceBounty
	case domain.ActivityDailyLoginBonus:
		return XPSourceDailyLogin
	}

	if src, ok := rec.DecodeMetadata()["source"].(string); ok && src == SourceAdmin {
		return XPSourceAdminAward
	}
	return XPSourceOther
}
