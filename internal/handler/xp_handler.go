package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hoodieacademy/academy-backend/internal/common"
	"github.com/hoodieacademy/academy-backend/internal/middleware"
	"github.com/hoodieacademy/academy-backend/internal/rewards"
	"github.com/hoodieacademy/academy-backend/internal/service"
)

// XPHandler handles XP award and summary endpoints
type XPHandler struct {
	xp *service.XPService
}

// NewXPHandler creates a new XPHandler
func NewXPHandler(xp *service.XPService) *XPHandler {
	return &XPHandler{xp: xp}
}

// AutoRewardRequest is the POST /xp/auto-reward body
type AutoRewardRequest struct {
	WalletAddress      string                 `json:"walletAddress" binding:"required"`
	Action             string                 `json:"action" binding:"required"`
	ReferenceID        string                 `json:"referenceId"`
	CustomXPAmount     *int                   `json:"customXPAmount"`
	Metadata           map[string]interface{} `json:"metadata"`
	SkipDuplicateCheck bool                   `json:"skipDuplicateCheck"`
}

// ManualXPRequest is the POST /xp body
type ManualXPRequest struct {
	TargetWallet string `json:"targetWallet" binding:"required"`
	XPAmount     int    `json:"xpAmount" binding:"required"`
	Source       string `json:"source" binding:"required"`
	Reason       string `json:"reason"`
	AwardedBy    string `json:"awardedBy"`
}

// AutoReward awards XP for a configured action. walletAddress is always
// the recipient; for reaction-style actions the caller resolves the
// content owner before calling.
//
// AutoReward godoc
// @Summary Award XP for a configured action
// @Tags xp
// @Accept json
// @Produce json
// @Param body body AutoRewardRequest true "award request"
// @Success 200 {object} common.APIResponse
// @Failure 400 {object} common.APIResponse
// @Failure 409 {object} common.APIResponse
// @Failure 429 {object} common.APIResponse
// @Router /api/v1/xp/auto-reward [post]
func (h *XPHandler) AutoReward(c *gin.Context) {
	var req AutoRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "walletAddress and action are required", err)
		return
	}

	result, err := h.xp.AwardXP(service.AwardRequest{
		WalletAddress: req.WalletAddress,
		Action:        req.Action,
		ReferenceID:   req.ReferenceID,
		CustomAmount:  req.CustomXPAmount,
		Metadata:      req.Metadata,
		// Only admin callers may bypass the duplicate check
		SkipDuplicateCheck: req.SkipDuplicateCheck && middleware.IsAdmin(c),
	})
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to award XP", err)
		return
	}

	middleware.RecordAward(strings.ToUpper(req.Action), string(result.Outcome), result.GrantedXP)
	respondAwardResult(c, result)
}

// GetAutoReward godoc
// @Summary Daily progress for a wallet, or the reward config for an action
// @Tags xp
// @Produce json
// @Param wallet query string false "wallet address"
// @Param action query string false "action key"
// @Success 200 {object} common.APIResponse
// @Router /api/v1/xp/auto-reward [get]
func (h *XPHandler) GetAutoReward(c *gin.Context) {
	if action := c.Query("action"); action != "" {
		reward, ok := rewards.Lookup(action)
		if !ok {
			common.ErrorResponse(c, http.StatusNotFound, "unknown action", nil)
			return
		}
		common.Success(c, reward)
		return
	}

	wallet := strings.TrimSpace(c.Query("wallet"))
	if wallet == "" {
		common.ErrorResponse(c, http.StatusBadRequest, "wallet or action query parameter is required", nil)
		return
	}

	// Never fails: store outages degrade to the zero-value default
	progress, _ := h.xp.GetDailyProgress(wallet)
	common.Success(c, progress)
}

// ManualAward godoc
// @Summary Manually grant XP to a wallet
// @Tags xp
// @Accept json
// @Produce json
// @Param body body ManualXPRequest true "manual award"
// @Success 200 {object} common.APIResponse
// @Failure 400 {object} common.APIResponse
// @Failure 403 {object} common.APIResponse
// @Security BearerAuth
// @Router /api/v1/xp [post]
func (h *XPHandler) ManualAward(c *gin.Context) {
	var req ManualXPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "targetWallet, xpAmount and source are required", err)
		return
	}

	result, err := h.xp.AwardManualXP(service.ManualAwardRequest{
		TargetWallet: req.TargetWallet,
		Amount:       req.XPAmount,
		Source:       req.Source,
		Reason:       req.Reason,
		AwardedBy:    req.AwardedBy,
	})
	if err != nil {
		status := http.StatusInternalServerError
		msg := "failed to award XP"
		if strings.Contains(err.Error(), common.ErrInvalidInput.Error()) {
			status = http.StatusBadRequest
			msg = "invalid request"
		}
		common.ErrorResponse(c, status, msg, err)
		return
	}

	middleware.RecordAward("MANUAL_"+strings.ToUpper(req.Source), string(result.Outcome), result.GrantedXP)
	respondAwardResult(c, result)
}

// GetSummary godoc
// @Summary XP summary for a wallet
// @Tags xp
// @Produce json
// @Param wallet query string true "wallet address"
// @Param includeHistory query bool false "include recent XP history"
// @Param includeCourses query bool false "include course completions"
// @Param includeBounties query bool false "include bounty submissions"
// @Success 200 {object} common.APIResponse
// @Router /api/v1/xp [get]
func (h *XPHandler) GetSummary(c *gin.Context) {
	wallet := strings.TrimSpace(c.Query("wallet"))
	if wallet == "" {
		common.ErrorResponse(c, http.StatusBadRequest, "wallet query parameter is required", nil)
		return
	}

	summary, err := h.xp.GetXPSummary(wallet, service.XPSummaryOptions{
		IncludeHistory:  queryFlag(c, "includeHistory"),
		IncludeCourses:  queryFlag(c, "includeCourses"),
		IncludeBounties: queryFlag(c, "includeBounties"),
	})
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to load XP summary", err)
		return
	}

	common.Success(c, summary)
}

// respondAwardResult maps award outcomes to HTTP statuses:
// 400 for validation failures, 403 for privilege failures, 409 for
// duplicates, 429 for rate/cap rejections.
func respondAwardResult(c *gin.Context, result *service.AwardResult) {
	switch result.Outcome {
	case service.OutcomeSuccess:
		common.Success(c, result)
	case service.OutcomeUnknownAction, service.OutcomeActionDisabled, service.OutcomeInvalidAmount:
		common.ErrorResponse(c, http.StatusBadRequest, result.Message, nil)
	case service.OutcomeUnauthorized:
		common.ErrorResponse(c, http.StatusForbidden, result.Message, nil)
	case service.OutcomeDuplicate:
		c.JSON(http.StatusConflict, common.APIResponse{Success: false, Data: result, Error: &common.ErrorInfo{
			Code:    "CONFLICT",
			Message: result.Message,
		}})
	case service.OutcomeLimitReached, service.OutcomeCooldownActive, service.OutcomeDailyCapReached:
		c.JSON(http.StatusTooManyRequests, common.APIResponse{Success: false, Data: result, Error: &common.ErrorInfo{
			Code:    "TOO_MANY_REQUESTS",
			Message: result.Message,
		}})
	default:
		common.ErrorResponse(c, http.StatusInternalServerError, "unexpected award outcome", nil)
	}
}

func queryFlag(c *gin.Context, name string) bool {
	v, ok := c.GetQuery(name)
	if !ok {
		return false
	}
	return v == "" || v == "1" || strings.EqualFold(v, "true")
}
