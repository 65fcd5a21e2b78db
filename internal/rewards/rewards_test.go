package rewards

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name     string
		action   string
		wantOK   bool
		wantXP   int
		wantCat  string
		wantMax  int
	}{
		{"exact match", "DAILY_LOGIN", true, 5, CategoryEngagement, 1},
		{"lowercase match", "daily_login", true, 5, CategoryEngagement, 1},
		{"mixed case match", "Course_Completed", true, 100, CategoryLearning, 0},
		{"surrounding whitespace", "  EXAM_PASSED ", true, 150, CategoryAchievement, 0},
		{"unknown action", "NOT_A_REAL_ACTION", false, 0, "", 0},
		{"empty action", "", false, 0, "", 0},
		{"admin bonus is variable", "ADMIN_BONUS", true, 0, CategoryAchievement, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := Lookup(tt.action)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantXP, r.XP)
				assert.Equal(t, tt.wantCat, r.Category)
				assert.Equal(t, tt.wantMax, r.MaxPerDay)
			}
		})
	}
}

func TestIsEnabled(t *testing.T) {
	assert.True(t, IsEnabled("FEEDBACK_SUBMITTED"))
	assert.False(t, IsEnabled("DOES_NOT_EXIST"))
}

func TestAmountFor(t *testing.T) {
	assert.Equal(t, 250, AmountFor("BOUNTY_WINNER_FIRST"))
	assert.Equal(t, 0, AmountFor("NOPE"))
}

func TestAllSortedAndComplete(t *testing.T) {
	all := All()
	assert.Len(t, all, 27)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].Action, all[i].Action)
	}
	// every entry must round-trip through Lookup
	for _, r := range all {
		got, ok := Lookup(r.Action)
		assert.True(t, ok)
		assert.Equal(t, r, got)
	}
}

func TestDailyLimitedActions(t *testing.T) {
	limited := map[string]int{
		"FEEDBACK_SUBMITTED":    5,
		"FEEDBACK_UPVOTED":      20,
		"DAILY_LOGIN":           1,
		"CHAT_MESSAGE_SENT":     50,
		"HELPFUL_VOTE":          10,
		"SOCIAL_POST_CREATED":   10,
		"SOCIAL_COMMENT_POSTED": 20,
		"SOCIAL_POST_LIKED":     50,
	}
	for action, max := range limited {
		r, ok := Lookup(action)
		assert.True(t, ok, action)
		assert.Equal(t, max, r.MaxPerDay, action)
	}
}
