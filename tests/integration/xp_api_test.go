package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/hoodieacademy/academy-backend/internal/domain"
	"github.com/hoodieacademy/academy-backend/internal/handler"
	"github.com/hoodieacademy/academy-backend/internal/repository"
	"github.com/hoodieacademy/academy-backend/internal/routes"
	"github.com/hoodieacademy/academy-backend/internal/service"
	"github.com/hoodieacademy/academy-backend/pkg/cache"
	"github.com/hoodieacademy/academy-backend/pkg/jwt"
)

// XPAPISuite is an integration test suite for the XP engine endpoints
type XPAPISuite struct {
	suite.Suite
	db         *gorm.DB
	router     *gin.Engine
	jwtManager *jwt.Manager
}

func TestXPAPISuite(t *testing.T) {
	suite.Run(t, new(XPAPISuite))
}

// SetupTest rebuilds the stack per test: award limits are per-day, so
// tests must not share ledger state.
func (s *XPAPISuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	// Use SQLite for tests (no external DB dependency)
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	s.Require().NoError(err)
	s.Require().NoError(db.AutoMigrate(
		&domain.User{},
		&domain.ActivityRecord{},
		&domain.CourseCompletion{},
		&domain.BountySubmission{},
	))
	s.db = db

	s.jwtManager = jwt.NewManager("test-secret-key-for-integration-tests", 900)

	userRepo := repository.NewUserRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	awardRepo := repository.NewAwardRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	bountyRepo := repository.NewBountyRepository(db)

	cacheSvc := cache.NewService(nil)
	xpSvc := service.NewXPService(userRepo, activityRepo, awardRepo, courseRepo, bountyRepo, cacheSvc)
	leaderboardSvc := service.NewLeaderboardService(userRepo, cacheSvc)

	s.router = gin.New()
	routes.Setup(s.router, handler.NewXPHandler(xpSvc), handler.NewUserHandler(userRepo, leaderboardSvc), s.jwtManager)
}

type envelope struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data"`
	Error   map[string]interface{} `json:"error"`
}

func (s *XPAPISuite) request(method, path string, body interface{}, token string) (*httptest.ResponseRecorder, envelope) {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func (s *XPAPISuite) award(wallet, action, refID string) (*httptest.ResponseRecorder, envelope) {
	return s.request(http.MethodPost, "/api/v1/xp/auto-reward", map[string]interface{}{
		"walletAddress": wallet,
		"action":        action,
		"referenceId":   refID,
	}, "")
}

func (s *XPAPISuite) seedAdmin(wallet string) string {
	s.Require().NoError(s.db.Create(&domain.User{
		WalletAddress: wallet,
		DisplayName:   "Admin",
		Level:         1,
		IsAdmin:       true,
	}).Error)
	token, err := s.jwtManager.GenerateToken(wallet, true)
	s.Require().NoError(err)
	return token
}

func (s *XPAPISuite) TestAutoRewardSuccess() {
	w, env := s.award("wallet-1", "COURSE_COMPLETED", "course-1")

	s.Equal(http.StatusOK, w.Code)
	s.True(env.Success)
	s.Equal("success", env.Data["outcome"])
	s.EqualValues(100, env.Data["granted_xp"])
	s.EqualValues(100, env.Data["new_xp"])
	s.EqualValues(1, env.Data["new_level"])

	progress, ok := env.Data["daily_progress"].(map[string]interface{})
	s.Require().True(ok)
	s.EqualValues(100, progress["earned_today"])
	s.EqualValues(200, progress["remaining"])
}

func (s *XPAPISuite) TestAutoRewardUnknownAction() {
	w, env := s.award("wallet-1", "NOT_A_THING", "")

	s.Equal(http.StatusBadRequest, w.Code)
	s.False(env.Success)
}

func (s *XPAPISuite) TestAutoRewardMissingFields() {
	w, _ := s.request(http.MethodPost, "/api/v1/xp/auto-reward", map[string]interface{}{
		"walletAddress": "wallet-1",
	}, "")

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *XPAPISuite) TestAutoRewardDuplicateReference() {
	w, _ := s.award("wallet-1", "COURSE_COMPLETED", "course-1")
	s.Equal(http.StatusOK, w.Code)

	w, env := s.award("wallet-1", "COURSE_COMPLETED", "course-1")
	s.Equal(http.StatusConflict, w.Code)
	s.False(env.Success)
	s.Equal("duplicate", env.Data["outcome"])
	s.NotEmpty(env.Data["prior_award_at"])
}

func (s *XPAPISuite) TestAutoRewardDailyLimit() {
	w, _ := s.award("wallet-1", "DAILY_LOGIN", "day-1")
	s.Equal(http.StatusOK, w.Code)

	w, env := s.award("wallet-1", "DAILY_LOGIN", "day-2")
	s.Equal(http.StatusTooManyRequests, w.Code)
	s.Equal("limit_reached", env.Data["outcome"])
	s.EqualValues(1, env.Data["max_per_day"])
}

func (s *XPAPISuite) TestAutoRewardDailyCap() {
	w, _ := s.award("wallet-1", "EXAM_PASSED", "exam-1") // 150
	s.Equal(http.StatusOK, w.Code)
	w, _ = s.award("wallet-1", "COURSE_COMPLETED", "course-1") // 250
	s.Equal(http.StatusOK, w.Code)

	// 250 earned, 50 headroom: a 250 XP award comes back capped to 50
	w, env := s.award("wallet-1", "SPECIAL_ACHIEVEMENT", "ach-1")
	s.Equal(http.StatusOK, w.Code)
	s.EqualValues(50, env.Data["granted_xp"])
	s.Equal(true, env.Data["capped"])

	// Cap exhausted: further awards are rejected outright
	w, env = s.award("wallet-1", "FEEDBACK_APPROVED", "fb-1")
	s.Equal(http.StatusTooManyRequests, w.Code)
	s.Equal("daily_cap_reached", env.Data["outcome"])

	progress, ok := env.Data["daily_progress"].(map[string]interface{})
	s.Require().True(ok)
	s.Equal(true, progress["cap_reached"])
}

func (s *XPAPISuite) TestManualAwardRequiresToken() {
	w, _ := s.request(http.MethodPost, "/api/v1/xp", map[string]interface{}{
		"targetWallet": "wallet-1",
		"xpAmount":     100,
		"source":       "admin",
	}, "")

	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *XPAPISuite) TestManualAwardAdminSourceForbidden() {
	s.Require().NoError(s.db.Create(&domain.User{
		WalletAddress: "plain-wallet",
		DisplayName:   "Plain",
		Level:         1,
	}).Error)
	token, err := s.jwtManager.GenerateToken("plain-wallet", false)
	s.Require().NoError(err)

	w, env := s.request(http.MethodPost, "/api/v1/xp", map[string]interface{}{
		"targetWallet": "wallet-1",
		"xpAmount":     100,
		"source":       "admin",
		"awardedBy":    "plain-wallet",
	}, token)

	s.Equal(http.StatusForbidden, w.Code)
	s.False(env.Success)
}

func (s *XPAPISuite) TestManualAwardAdminBypassesCap() {
	token := s.seedAdmin("admin-wallet")

	w, env := s.request(http.MethodPost, "/api/v1/xp", map[string]interface{}{
		"targetWallet": "wallet-1",
		"xpAmount":     1500,
		"source":       "admin",
		"reason":       "Hackathon grand prize",
		"awardedBy":    "admin-wallet",
	}, token)

	s.Equal(http.StatusOK, w.Code)
	s.True(env.Success)
	s.EqualValues(1500, env.Data["granted_xp"])
	s.EqualValues(2, env.Data["new_level"])
	s.Equal(true, env.Data["level_up"])
}

func (s *XPAPISuite) TestManualAwardUnknownSource() {
	token := s.seedAdmin("admin-wallet")

	w, _ := s.request(http.MethodPost, "/api/v1/xp", map[string]interface{}{
		"targetWallet": "wallet-1",
		"xpAmount":     100,
		"source":       "lottery",
	}, token)

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *XPAPISuite) TestSummaryUnknownWallet() {
	w, env := s.request(http.MethodGet, "/api/v1/xp?wallet=ghost", nil, "")

	s.Equal(http.StatusOK, w.Code)
	s.True(env.Success)
	s.Equal(false, env.Data["exists"])
	s.EqualValues(0, env.Data["total_xp"])
	s.EqualValues(1, env.Data["level"])
}

func (s *XPAPISuite) TestSummaryWithHistory() {
	w, _ := s.award("wallet-1", "COURSE_COMPLETED", "course-1")
	s.Equal(http.StatusOK, w.Code)

	w, env := s.request(http.MethodGet, "/api/v1/xp?wallet=wallet-1&includeHistory=true", nil, "")
	s.Equal(http.StatusOK, w.Code)
	s.Equal(true, env.Data["exists"])
	s.EqualValues(100, env.Data["total_xp"])
	s.EqualValues(900, env.Data["xp_to_next_level"])

	history, ok := env.Data["history"].([]interface{})
	s.Require().True(ok)
	s.Len(history, 1)
}

func (s *XPAPISuite) TestSummaryMissingWallet() {
	w, _ := s.request(http.MethodGet, "/api/v1/xp", nil, "")
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *XPAPISuite) TestGetAutoRewardActionConfig() {
	w, env := s.request(http.MethodGet, "/api/v1/xp/auto-reward?action=COURSE_COMPLETED", nil, "")

	s.Equal(http.StatusOK, w.Code)
	s.EqualValues(100, env.Data["xp"])

	w, _ = s.request(http.MethodGet, "/api/v1/xp/auto-reward?action=NOT_A_THING", nil, "")
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *XPAPISuite) TestGetAutoRewardProgress() {
	w, _ := s.award("wallet-1", "EXAM_PASSED", "exam-1")
	s.Equal(http.StatusOK, w.Code)

	w, env := s.request(http.MethodGet, "/api/v1/xp/auto-reward?wallet=wallet-1", nil, "")
	s.Equal(http.StatusOK, w.Code)
	s.EqualValues(150, env.Data["earned_today"])
	s.EqualValues(300, env.Data["daily_cap"])
}

func (s *XPAPISuite) TestGetUser() {
	w, _ := s.request(http.MethodGet, "/api/v1/users/ghost", nil, "")
	s.Equal(http.StatusNotFound, w.Code)

	_, _ = s.award("wallet-1", "COURSE_COMPLETED", "course-1")

	w, env := s.request(http.MethodGet, "/api/v1/users/wallet-1", nil, "")
	s.Equal(http.StatusOK, w.Code)
	s.Equal("wallet-1", env.Data["wallet_address"])
	s.EqualValues(100, env.Data["total_xp"])
}

func (s *XPAPISuite) TestLeaderboardOrdering() {
	for i, action := range []string{"EXAM_PASSED", "COURSE_COMPLETED", "FEEDBACK_APPROVED"} {
		wallet := fmt.Sprintf("wallet-%d", i+1)
		w, _ := s.award(wallet, action, "ref-1")
		s.Equal(http.StatusOK, w.Code)
	}

	w, env := s.request(http.MethodGet, "/api/v1/leaderboard?limit=2", nil, "")
	s.Equal(http.StatusOK, w.Code)
	s.EqualValues(3, env.Data["total_users"])

	entries, ok := env.Data["entries"].([]interface{})
	s.Require().True(ok)
	s.Require().Len(entries, 2)

	first, ok := entries[0].(map[string]interface{})
	s.Require().True(ok)
	s.Equal("wallet-1", first["wallet_address"])
	s.EqualValues(150, first["total_xp"])
	s.EqualValues(1, first["rank"])
}
