package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoodieacademy/academy-backend/internal/domain"
)

func TestFindByReference(t *testing.T) {
	db := newTestDB(t)
	repo := NewActivityRepository(db)

	require.NoError(t, db.Create(&domain.ActivityRecord{
		WalletAddress: "w1",
		ActivityType:  domain.ActivityXPAwarded,
		Action:        "BOUNTY_SUBMITTED",
		ReferenceID:   strPtr("bounty-42"),
		XPAmount:      10,
	}).Error)

	rec, err := repo.FindByReference("w1", "BOUNTY_SUBMITTED", "bounty-42")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 10, rec.XPAmount)

	missing, err := repo.FindByReference("w1", "BOUNTY_SUBMITTED", "bounty-43")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCountTodayForAction(t *testing.T) {
	db := newTestDB(t)
	repo := NewActivityRepository(db)

	for i := 0; i < 2; i++ {
		require.NoError(t, db.Create(&domain.ActivityRecord{
			WalletAddress: "w2",
			ActivityType:  domain.ActivityXPAwarded,
			Action:        "CHAT_MESSAGE_SENT",
			XPAmount:      1,
		}).Error)
	}
	// yesterday's row must not count
	require.NoError(t, db.Create(&domain.ActivityRecord{
		WalletAddress: "w2",
		ActivityType:  domain.ActivityXPAwarded,
		Action:        "CHAT_MESSAGE_SENT",
		XPAmount:      1,
		CreatedAt:     time.Now().Add(-26 * time.Hour),
	}).Error)

	count, err := repo.CountTodayForAction("w2", "CHAT_MESSAGE_SENT")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestSumXPToday(t *testing.T) {
	db := newTestDB(t)
	repo := NewActivityRepository(db)

	rows := []domain.ActivityRecord{
		{WalletAddress: "w3", ActivityType: domain.ActivityXPAwarded, Action: "A", XPAmount: 100},
		{WalletAddress: "w3", ActivityType: domain.ActivityXPBounty, Action: "B", XPAmount: 50},
		{WalletAddress: "w3", ActivityType: domain.ActivityDailyLoginBonus, Action: "C", XPAmount: 5},
		// other wallet, excluded
		{WalletAddress: "w4", ActivityType: domain.ActivityXPAwarded, Action: "A", XPAmount: 999},
		// yesterday, excluded
		{WalletAddress: "w3", ActivityType: domain.ActivityXPAwarded, Action: "A", XPAmount: 300,
			CreatedAt: time.Now().Add(-26 * time.Hour)},
	}
	for i := range rows {
		require.NoError(t, db.Create(&rows[i]).Error)
	}

	total, err := repo.SumXPToday("w3")
	require.NoError(t, err)
	assert.Equal(t, 155, total)

	empty, err := repo.SumXPToday("nobody")
	require.NoError(t, err)
	assert.Equal(t, 0, empty)
}

func TestRecentOrdering(t *testing.T) {
	db := newTestDB(t)
	repo := NewActivityRepository(db)

	base := time.Now().Add(-1 * time.Hour)
	for i := 0; i < 5; i++ {
		require.NoError(t, db.Create(&domain.ActivityRecord{
			WalletAddress: "w5",
			ActivityType:  domain.ActivityXPAwarded,
			Action:        "COURSE_STARTED",
			XPAmount:      5,
			CreatedAt:     base.Add(time.Duration(i) * time.Minute),
		}).Error)
	}

	recs, err := repo.Recent("w5", 3)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.True(t, recs[0].CreatedAt.After(recs[1].CreatedAt))
	assert.True(t, recs[1].CreatedAt.After(recs[2].CreatedAt))
}
