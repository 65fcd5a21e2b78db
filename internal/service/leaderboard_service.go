package service

import (
	"context"
	"fmt"

	"github.com/hoodieacademy/academy-backend/internal/repository"
	"github.com/hoodieacademy/academy-backend/pkg/cache"
)

const (
	defaultLeaderboardLimit = 50
	maxLeaderboardLimit     = 200
)

// LeaderboardEntry is one ranked row
type LeaderboardEntry struct {
	Rank          int     `json:"rank"`
	WalletAddress string  `json:"wallet_address"`
	DisplayName   string  `json:"display_name"`
	Squad         *string `json:"squad,omitempty"`
	TotalXP       int     `json:"total_xp"`
	Level         int     `json:"level"`
}

// Leaderboard is the ranked user list plus population size
type Leaderboard struct {
	Entries    []LeaderboardEntry `json:"entries"`
	TotalUsers int64              `json:"total_users"`
}

// LeaderboardService ranks users by total XP
type LeaderboardService struct {
	users repository.UserRepository
	cache cache.Service
}

// NewLeaderboardService creates a new LeaderboardService
func NewLeaderboardService(users repository.UserRepository, cacheSvc cache.Service) *LeaderboardService {
	return &LeaderboardService{users: users, cache: cacheSvc}
}

// GetLeaderboard returns the top users by total XP. Results are cached
// briefly; ties rank by account age (older first, matching the query order).
func (s *LeaderboardService) GetLeaderboard(limit int) (*Leaderboard, error) {
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	if limit > maxLeaderboardLimit {
		limit = maxLeaderboardLimit
	}

	ctx := context.Background()
	var cached Leaderboard
	if s.cache != nil && s.cache.GetLeaderboard(ctx, limit, &cached) == nil {
		return &cached, nil
	}

	users, err := s.users.Top(limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard query: %w", err)
	}
	total, err := s.users.Count()
	if err != nil {
		return nil, fmt.Errorf("user count: %w", err)
	}

	board := &Leaderboard{
		Entries:    make([]LeaderboardEntry, len(users)),
		TotalUsers: total,
	}
	for i, u := range users {
		board.Entries[i] = LeaderboardEntry{
			Rank:          i + 1,
			WalletAddress: u.WalletAddress,
			DisplayName:   u.DisplayName,
			Squad:         u.Squad,
			TotalXP:       u.TotalXP,
			Level:         u.Level,
		}
	}

	if s.cache != nil {
		_ = s.cache.SetLeaderboard(ctx, limit, board)
	}
	return board, nil
}
