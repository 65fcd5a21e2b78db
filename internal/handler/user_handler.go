package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hoodieacademy/academy-backend/internal/common"
	"github.com/hoodieacademy/academy-backend/internal/repository"
	"github.com/hoodieacademy/academy-backend/internal/service"
)

// UserHandler handles user profile and leaderboard endpoints
type UserHandler struct {
	users       repository.UserRepository
	leaderboard *service.LeaderboardService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users repository.UserRepository, leaderboard *service.LeaderboardService) *UserHandler {
	return &UserHandler{users: users, leaderboard: leaderboard}
}

// GetUser godoc
// @Summary Public profile for a wallet
// @Tags users
// @Produce json
// @Param wallet path string true "wallet address"
// @Success 200 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Router /api/v1/users/{wallet} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	wallet := c.Param("wallet")

	user, err := h.users.FindByWallet(wallet)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to load user", err)
		return
	}
	if user == nil {
		common.ErrorResponse(c, http.StatusNotFound, "user not found", nil)
		return
	}

	common.Success(c, user)
}

// GetLeaderboard godoc
// @Summary Top users by total XP
// @Tags users
// @Produce json
// @Param limit query int false "number of entries" default(50)
// @Success 200 {object} common.APIResponse
// @Router /api/v1/leaderboard [get]
func (h *UserHandler) GetLeaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	board, err := h.leaderboard.GetLeaderboard(limit)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to load leaderboard", err)
		return
	}

	common.Success(c, board)
}
