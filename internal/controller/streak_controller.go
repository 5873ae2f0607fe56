package controller

import (
	"americano_backend/internal/service"
	"americano_backend/internal/util"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type StreakController struct {
	StreakService *service.StreakService
}

func NewStreakController(streakService *service.StreakService) *StreakController {
	return &StreakController{StreakService: streakService}
}

type RecordActivityRequest struct {
	Date string `json:"date"`
}

// @Summary Record a study day
// @Description Applies one study activity day to the streak, spending freezes to cover gaps.
// @Tags streaks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body RecordActivityRequest false "activity date, defaults to today"
// @Success 200 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/streaks/activity [post]
func (c *StreakController) RecordActivity(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req RecordActivityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		util.BadRequest(ctx, err.Error())
		return
	}

	date := time.Now()
	if req.Date != "" {
		parsed, err := time.Parse(util.DateFormat, req.Date)
		if err != nil {
			util.BadRequest(ctx, "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}

	outcome, err := c.StreakService.RecordActivity(user.UserID, date)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, outcome)
}

// @Summary Get the current streak
// @Tags streaks
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/streaks [get]
func (c *StreakController) GetStreak(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	streak, err := c.StreakService.GetStreak(user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, streak)
}

type GrantFreezesRequest struct {
	Count int `json:"count" binding:"required"`
}

// @Summary Grant streak freezes
// @Description Staff-only award of extra streak freezes.
// @Tags streaks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path int true "user id"
// @Param body body GrantFreezesRequest true "number of freezes"
// @Success 200 {object} util.Response
// @Router /api/streaks/{userId}/freezes [post]
func (c *StreakController) GrantFreezes(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	if claims.Role != "admin" && claims.Role != "staff" {
		util.Forbidden(ctx)
		return
	}

	targetID, err := strconv.ParseUint(ctx.Param("userId"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid user id")
		return
	}

	var req GrantFreezesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.StreakService.GrantFreezes(uint(targetID), req.Count); err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// @Summary Streak leaderboard
// @Tags streaks
// @Produce json
// @Security BearerAuth
// @Param limit query int false "number of entries" default(10)
// @Success 200 {object} util.Response
// @Router /api/streaks/leaderboard [get]
func (c *StreakController) GetLeaderboard(ctx *gin.Context) {
	limit := 10
	if limitStr := ctx.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			limit = l
		}
	}

	entries, err := c.StreakService.GetLeaderboard(ctx.Request.Context(), limit)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, entries)
}
