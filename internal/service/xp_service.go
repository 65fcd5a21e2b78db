package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/hoodieacademy/academy-backend/internal/common"
	"github.com/hoodieacademy/academy-backend/internal/domain"
	"github.com/hoodieacademy/academy-backend/internal/repository"
	"github.com/hoodieacademy/academy-backend/internal/rewards"
	"github.com/hoodieacademy/academy-backend/pkg/cache"
	"github.com/hoodieacademy/academy-backend/pkg/logger"
)

// DailyXPCap is the fixed ceiling on XP any wallet can earn per calendar day
const DailyXPCap = 300

// AwardOutcome tags the result of an award attempt. Callers must handle
// every variant; HTTP status mapping lives in the handler layer.
type AwardOutcome string

// Award outcomes
const (
	OutcomeSuccess         AwardOutcome = "success"
	OutcomeDuplicate       AwardOutcome = "duplicate"
	OutcomeLimitReached    AwardOutcome = "limit_reached"
	OutcomeCooldownActive  AwardOutcome = "cooldown_active"
	OutcomeDailyCapReached AwardOutcome = "daily_cap_reached"
	OutcomeUnknownAction   AwardOutcome = "unknown_action"
	OutcomeActionDisabled  AwardOutcome = "action_disabled"
	OutcomeInvalidAmount   AwardOutcome = "invalid_amount"
	OutcomeUnauthorized    AwardOutcome = "unauthorized"
)

// Manual award sources
const (
	SourceCourse     = "course"
	SourceBounty     = "bounty"
	SourceDailyLogin = "daily_login"
	SourceAdmin      = "admin"
	SourceOther      = "other"
)

// manualCategories maps a manual award source to its ledger category
var manualCategories = map[string]string{
	SourceCourse:     domain.ActivityCourseCompletion,
	SourceBounty:     domain.ActivityXPBounty,
	SourceDailyLogin: domain.ActivityDailyLoginBonus,
	SourceAdmin:      domain.ActivityXPAwarded,
	SourceOther:      domain.ActivityXPAwarded,
}

// AwardRequest is the input to AwardXP
type AwardRequest struct {
	WalletAddress      string
	Action             string
	ReferenceID        string
	CustomAmount       *int // replaces the config base amount when set
	Metadata           map[string]interface{}
	SkipDuplicateCheck bool
}

// DailyProgress summarizes how much of today's XP cap a wallet has used
type DailyProgress struct {
	EarnedToday int  `json:"earned_today"`
	DailyCap    int  `json:"daily_cap"`
	Remaining   int  `json:"remaining"`
	PercentUsed int  `json:"percent_used"`
	CapReached  bool `json:"cap_reached"`
}

// AwardResult is the tagged outcome of an award attempt
type AwardResult struct {
	Outcome AwardOutcome `json:"outcome"`
	Message string       `json:"message"`

	// Success fields
	GrantedXP     int            `json:"granted_xp,omitempty"`
	Capped        bool           `json:"capped,omitempty"`
	PreviousXP    int            `json:"previous_xp,omitempty"`
	NewXP         int            `json:"new_xp,omitempty"`
	PreviousLevel int            `json:"previous_level,omitempty"`
	NewLevel      int            `json:"new_level,omitempty"`
	LevelUp       bool           `json:"level_up,omitempty"`
	DailyProgress *DailyProgress `json:"daily_progress,omitempty"`

	// Rejection details
	PriorAwardAt   *time.Time `json:"prior_award_at,omitempty"`
	CountToday     int        `json:"count_today,omitempty"`
	MaxPerDay      int        `json:"max_per_day,omitempty"`
	RemainingHours int        `json:"remaining_hours,omitempty"`

	// Non-fatal post-award problems (e.g. completion record write failed)
	Warning string `json:"warning,omitempty"`
}

// XPService is the XP award and leveling engine
type XPService struct {
	users    repository.UserRepository
	activity repository.ActivityRepository
	awards   repository.AwardRepository
	courses  repository.CourseRepository
	bounties repository.BountyRepository
	cache    cache.Service

	// lookup resolves action keys to reward policy; swapped in tests
	lookup func(string) (rewards.Reward, bool)
}

// NewXPService creates a new XPService
func NewXPService(
	users repository.UserRepository,
	activity repository.ActivityRepository,
	awards repository.AwardRepository,
	courses repository.CourseRepository,
	bounties repository.BountyRepository,
	cacheSvc cache.Service,
) *XPService {
	return &XPService{
		users:    users,
		activity: activity,
		awards:   awards,
		courses:  courses,
		bounties: bounties,
		cache:    cacheSvc,
		lookup:   rewards.Lookup,
	}
}

// AwardXP evaluates and applies a configured-action XP grant.
// Checks run in order and short-circuit: duplicate reference, per-action
// daily limit, cooldown, then the global daily cap. The cap partially
// grants when headroom remains. A storage failure returns a non-nil error.
func (s *XPService) AwardXP(req AwardRequest) (*AwardResult, error) {
	wallet := strings.TrimSpace(req.WalletAddress)
	if wallet == "" {
		return nil, common.ErrInvalidInput
	}

	reward, ok := s.lookup(req.Action)
	if !ok {
		return &AwardResult{
			Outcome: OutcomeUnknownAction,
			Message: fmt.Sprintf("unknown action %q", req.Action),
		}, nil
	}
	if !reward.Enabled {
		return &AwardResult{
			Outcome: OutcomeActionDisabled,
			Message: fmt.Sprintf("action %s is disabled", reward.Action),
		}, nil
	}

	amount := reward.XP
	if req.CustomAmount != nil {
		amount = *req.CustomAmount
	}
	if amount <= 0 {
		return &AwardResult{
			Outcome: OutcomeInvalidAmount,
			Message: "resolved XP amount must be positive",
		}, nil
	}

	refID := strings.TrimSpace(req.ReferenceID)

	// Duplicate check. The unique ledger index inside the award transaction
	// is the authority; this read exists to return the prior timestamp.
	if refID != "" && !req.SkipDuplicateCheck {
		prior, err := s.activity.FindByReference(wallet, reward.Action, refID)
		if err != nil {
			return nil, fmt.Errorf("duplicate check: %w", err)
		}
		if prior != nil {
			return s.duplicateResult(prior), nil
		}
	}

	// Per-action daily limit
	if reward.MaxPerDay > 0 {
		count, err := s.activity.CountTodayForAction(wallet, reward.Action)
		if err != nil {
			return nil, fmt.Errorf("daily limit check: %w", err)
		}
		if count >= int64(reward.MaxPerDay) {
			return &AwardResult{
				Outcome:    OutcomeLimitReached,
				Message:    fmt.Sprintf("daily limit reached for %s (%d/%d)", reward.Action, count, reward.MaxPerDay),
				CountToday: int(count),
				MaxPerDay:  reward.MaxPerDay,
			}, nil
		}
	}

	// Cooldown
	if reward.CooldownHours > 0 {
		last, err := s.activity.LastForAction(wallet, reward.Action)
		if err != nil {
			return nil, fmt.Errorf("cooldown check: %w", err)
		}
		if last != nil {
			elapsed := time.Since(last.CreatedAt).Hours()
			if elapsed < reward.CooldownHours {
				return &AwardResult{
					Outcome:        OutcomeCooldownActive,
					Message:        fmt.Sprintf("cooldown active for %s", reward.Action),
					RemainingHours: int(math.Ceil(reward.CooldownHours - elapsed)),
				}, nil
			}
		}
	}

	var ref *string
	if refID != "" {
		ref = &refID
	}
	metadata, err := domain.EncodeMetadata(req.Metadata)
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}

	receipt, err := s.awards.Apply(repository.AwardGrant{
		Wallet:       wallet,
		DisplayName:  domain.DefaultDisplayName(wallet),
		Action:       reward.Action,
		ActivityType: domain.ActivityXPAwarded,
		ReferenceID:  ref,
		Amount:       amount,
		DailyCap:     DailyXPCap,
		Reason:       reward.Description,
		Metadata:     metadata,
	})
	switch {
	case errors.Is(err, repository.ErrDailyCapReached):
		progress, perr := s.GetDailyProgress(wallet)
		if perr != nil {
			progress = zeroProgress()
		}
		return &AwardResult{
			Outcome:       OutcomeDailyCapReached,
			Message:       fmt.Sprintf("daily %d XP cap reached", DailyXPCap),
			DailyProgress: progress,
		}, nil
	case errors.Is(err, repository.ErrDuplicateReference):
		if req.SkipDuplicateCheck {
			// Privileged re-award: the ledger index still holds the
			// original reference, so the repeat row goes in without one
			// and keeps the reference in its metadata.
			return s.reAward(wallet, reward, amount, refID, req.Metadata)
		}
		// Lost the race to a concurrent identical award
		prior, perr := s.activity.FindByReference(wallet, reward.Action, refID)
		if perr != nil || prior == nil {
			return &AwardResult{Outcome: OutcomeDuplicate, Message: "XP already awarded for this reference"}, nil
		}
		return s.duplicateResult(prior), nil
	case err != nil:
		return nil, fmt.Errorf("apply award: %w", err)
	}

	result := s.successResult(receipt)
	result.Warning = s.afterAward(wallet, reward.Action, receipt, req.Metadata)
	return result, nil
}

// reAward applies a repeat grant for an already-used reference
func (s *XPService) reAward(wallet string, reward rewards.Reward, amount int, refID string, metadata map[string]interface{}) (*AwardResult, error) {
	meta := map[string]interface{}{"re_award_reference": refID}
	for k, v := range metadata {
		meta[k] = v
	}
	encoded, err := domain.EncodeMetadata(meta)
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}

	receipt, err := s.awards.Apply(repository.AwardGrant{
		Wallet:       wallet,
		DisplayName:  domain.DefaultDisplayName(wallet),
		Action:       reward.Action,
		ActivityType: domain.ActivityXPAwarded,
		Amount:       amount,
		DailyCap:     DailyXPCap,
		Reason:       reward.Description,
		Metadata:     encoded,
	})
	switch {
	case errors.Is(err, repository.ErrDailyCapReached):
		progress, perr := s.GetDailyProgress(wallet)
		if perr != nil {
			progress = zeroProgress()
		}
		return &AwardResult{
			Outcome:       OutcomeDailyCapReached,
			Message:       fmt.Sprintf("daily %d XP cap reached", DailyXPCap),
			DailyProgress: progress,
		}, nil
	case err != nil:
		return nil, fmt.Errorf("apply re-award: %w", err)
	}

	result := s.successResult(receipt)
	result.Warning = s.afterAward(wallet, reward.Action, receipt, metadata)
	return result, nil
}

// ManualAwardRequest is the input to AwardManualXP
type ManualAwardRequest struct {
	TargetWallet string
	Amount       int
	Source       string
	Reason       string
	AwardedBy    string
}

// AwardManualXP applies an admin- or system-sourced grant outside the
// configured action table. Admin-sourced grants require the awarding
// wallet to carry the admin flag and are exempt from the daily cap;
// every other source stays capped.
func (s *XPService) AwardManualXP(req ManualAwardRequest) (*AwardResult, error) {
	wallet := strings.TrimSpace(req.TargetWallet)
	if wallet == "" {
		return nil, common.ErrInvalidInput
	}
	if req.Amount <= 0 {
		return &AwardResult{
			Outcome: OutcomeInvalidAmount,
			Message: "XP amount must be positive",
		}, nil
	}

	source := strings.ToLower(strings.TrimSpace(req.Source))
	category, ok := manualCategories[source]
	if !ok {
		return nil, fmt.Errorf("%w: unknown source %q", common.ErrInvalidInput, req.Source)
	}

	dailyCap := DailyXPCap
	if source == SourceAdmin {
		awardedBy := strings.TrimSpace(req.AwardedBy)
		if awardedBy == "" {
			return &AwardResult{
				Outcome: OutcomeUnauthorized,
				Message: "admin awards require the awarding wallet",
			}, nil
		}
		admin, err := s.users.FindByWallet(awardedBy)
		if err != nil {
			return nil, fmt.Errorf("admin lookup: %w", err)
		}
		if admin == nil || !admin.IsAdmin {
			return &AwardResult{
				Outcome: OutcomeUnauthorized,
				Message: "awarding wallet lacks admin privilege",
			}, nil
		}
		dailyCap = 0 // admins may exceed the daily cap
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = "Manual XP award"
	}
	meta := map[string]interface{}{"source": source}
	if req.AwardedBy != "" {
		meta["awarded_by"] = req.AwardedBy
	}
	metadata, err := domain.EncodeMetadata(meta)
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}

	receipt, err := s.awards.Apply(repository.AwardGrant{
		Wallet:       wallet,
		DisplayName:  domain.DefaultDisplayName(wallet),
		Action:       "MANUAL_" + strings.ToUpper(source),
		ActivityType: category,
		Amount:       req.Amount,
		DailyCap:     dailyCap,
		Reason:       reason,
		Metadata:     metadata,
	})
	switch {
	case errors.Is(err, repository.ErrDailyCapReached):
		progress, perr := s.GetDailyProgress(wallet)
		if perr != nil {
			progress = zeroProgress()
		}
		return &AwardResult{
			Outcome:       OutcomeDailyCapReached,
			Message:       fmt.Sprintf("daily %d XP cap reached", DailyXPCap),
			DailyProgress: progress,
		}, nil
	case err != nil:
		return nil, fmt.Errorf("apply manual award: %w", err)
	}

	result := s.successResult(receipt)
	s.invalidateCaches(wallet)
	return result, nil
}

// GetDailyProgress reports today's XP usage for a wallet. A storage
// failure degrades to the all-zero default: this value feeds best-effort
// UI display and must never fail the caller. The outage is still logged.
func (s *XPService) GetDailyProgress(wallet string) (*DailyProgress, error) {
	ctx := context.Background()

	var cached DailyProgress
	if s.cache != nil && s.cache.GetDailyProgress(ctx, wallet, &cached) == nil {
		return &cached, nil
	}

	earned, err := s.activity.SumXPToday(wallet)
	if err != nil {
		logger.GetLogger().Warn().
			Err(err).
			Str("wallet", wallet).
			Msg("daily progress unavailable, returning zero default")
		return zeroProgress(), nil
	}

	progress := progressFor(earned)
	if s.cache != nil {
		_ = s.cache.SetDailyProgress(ctx, wallet, progress)
	}
	return progress, nil
}

func (s *XPService) duplicateResult(prior *domain.ActivityRecord) *AwardResult {
	at := prior.CreatedAt
	return &AwardResult{
		Outcome:      OutcomeDuplicate,
		Message:      "XP already awarded for this reference",
		PriorAwardAt: &at,
	}
}

func (s *XPService) successResult(receipt *repository.AwardReceipt) *AwardResult {
	return &AwardResult{
		Outcome:       OutcomeSuccess,
		Message:       fmt.Sprintf("awarded %d XP", receipt.GrantedXP),
		GrantedXP:     receipt.GrantedXP,
		Capped:        receipt.Capped,
		PreviousXP:    receipt.PreviousXP,
		NewXP:         receipt.NewXP,
		PreviousLevel: receipt.PreviousLevel,
		NewLevel:      receipt.NewLevel,
		LevelUp:       receipt.LevelUp,
		DailyProgress: progressFor(receipt.EarnedToday),
	}
}

// afterAward performs post-commit bookkeeping. The XP award has already
// committed; failures here are reported as a warning, never rolled back.
func (s *XPService) afterAward(wallet, action string, receipt *repository.AwardReceipt, metadata map[string]interface{}) string {
	var warning string

	switch action {
	case "COURSE_COMPLETED":
		if courseID, ok := stringField(metadata, "course_id"); ok {
			err := s.courses.Record(&domain.CourseCompletion{
				WalletAddress: wallet,
				CourseID:      courseID,
				CourseTitle:   stringFieldOr(metadata, "course_title", courseID),
				XPAwarded:     receipt.GrantedXP,
			})
			if err != nil {
				warning = "course completion record failed: " + err.Error()
			}
		}
	case "BOUNTY_SUBMITTED":
		if bountyID, ok := stringField(metadata, "bounty_id"); ok {
			err := s.bounties.Record(&domain.BountySubmission{
				WalletAddress: wallet,
				BountyID:      bountyID,
				BountyTitle:   stringFieldOr(metadata, "bounty_title", bountyID),
				Status:        domain.BountyStatusSubmitted,
				XPAwarded:     receipt.GrantedXP,
			})
			if err != nil {
				warning = "bounty submission record failed: " + err.Error()
			}
		}
	}

	if warning != "" {
		logger.GetLogger().Warn().
			Str("wallet", wallet).
			Str("action", action).
			Msg(warning)
	}

	s.invalidateCaches(wallet)
	return warning
}

func (s *XPService) invalidateCaches(wallet string) {
	if s.cache == nil {
		return
	}
	ctx := context.Background()
	_ = s.cache.InvalidateUser(ctx, wallet)
	_ = s.cache.InvalidateLeaderboard(ctx)
}

func progressFor(earned int) *DailyProgress {
	remaining := DailyXPCap - earned
	if remaining < 0 {
		remaining = 0
	}
	return &DailyProgress{
		EarnedToday: earned,
		DailyCap:    DailyXPCap,
		Remaining:   remaining,
		PercentUsed: int(math.Round(float64(earned) / float64(DailyXPCap) * 100)),
		CapReached:  earned >= DailyXPCap,
	}
}

func zeroProgress() *DailyProgress {
	return &DailyProgress{DailyCap: DailyXPCap, Remaining: DailyXPCap}
}

func stringField(m map[string]interface{}, key string) (string, bool) {
	if m == nil {
		return "", false
	}
	v, ok := m[key].(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func stringFieldOr(m map[string]interface{}, key, fallback string) string {
	if v, ok := stringField(m, key); ok {
		return v
	}
	return fallback
}
