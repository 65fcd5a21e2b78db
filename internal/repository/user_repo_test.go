package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoodieacademy/academy-backend/internal/domain"
)

func TestFindByWalletAbsent(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	user, err := repo.FindByWallet("unseen")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestTopOrdersByXP(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	seed := []domain.User{
		{WalletAddress: "low", DisplayName: "Low", TotalXP: 100, Level: 1},
		{WalletAddress: "high", DisplayName: "High", TotalXP: 2500, Level: 3},
		{WalletAddress: "mid", DisplayName: "Mid", TotalXP: 1200, Level: 2},
	}
	for i := range seed {
		require.NoError(t, repo.Create(&seed[i]))
	}

	top, err := repo.Top(2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "high", top[0].WalletAddress)
	assert.Equal(t, "mid", top[1].WalletAddress)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
