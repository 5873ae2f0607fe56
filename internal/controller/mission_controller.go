package controller

import (
	"americano_backend/internal/model"
	"americano_backend/internal/service"
	"americano_backend/internal/util"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type MissionController struct {
	MissionService *service.MissionService
}

func NewMissionController(missionService *service.MissionService) *MissionController {
	return &MissionController{MissionService: missionService}
}

// @Summary Create a mission anchor
// @Tags missions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CreateMissionRequest false "mission date and detail"
// @Success 201 {object} util.Response
// @Router /api/missions [post]
func (c *MissionController) CreateMission(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CreateMissionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		util.BadRequest(ctx, err.Error())
		return
	}

	mission, err := c.MissionService.CreateMission(user.UserID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Created(ctx, mission)
}

// @Summary Get a mission
// @Tags missions
// @Produce json
// @Security BearerAuth
// @Param id path string true "mission id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/missions/{id} [get]
func (c *MissionController) GetMission(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	mission, err := c.MissionService.GetMission(ctx.Param("id"), user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, mission)
}

// @Summary Complete a mission
// @Description Records feedback, bumps the mission streak, advances open goals, and updates the rollups.
// @Tags missions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "mission id"
// @Param body body service.CompleteMissionRequest true "completion feedback and session stats"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/missions/{id}/complete [post]
func (c *MissionController) CompleteMission(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CompleteMissionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	outcome, err := c.MissionService.CompleteMission(ctx.Param("id"), user.UserID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, outcome)
}

// @Summary Skip a mission
// @Tags missions
// @Produce json
// @Security BearerAuth
// @Param id path string true "mission id"
// @Success 200 {object} util.Response
// @Router /api/missions/{id}/skip [post]
func (c *MissionController) SkipMission(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.MissionService.SkipMission(ctx.Param("id"), user.UserID); err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// @Summary Get mission feedback
// @Tags missions
// @Produce json
// @Security BearerAuth
// @Param id path string true "mission id"
// @Success 200 {object} util.Response
// @Router /api/missions/{id}/feedback [get]
func (c *MissionController) GetFeedback(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	feedback, err := c.MissionService.GetFeedback(ctx.Param("id"), user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, feedback)
}

// @Summary Get the mission streak
// @Tags missions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/missions/streak [get]
func (c *MissionController) GetMissionStreak(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	streak, err := c.MissionService.GetMissionStreak(user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, streak)
}

// @Summary Query mission analytics rollups
// @Tags missions
// @Produce json
// @Security BearerAuth
// @Param period query string true "DAILY, WEEKLY or MONTHLY"
// @Param from query string true "range start YYYY-MM-DD"
// @Param to query string true "range end YYYY-MM-DD, exclusive"
// @Success 200 {object} util.Response
// @Router /api/missions/analytics [get]
func (c *MissionController) GetAnalytics(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	from, err := time.Parse(util.DateFormat, ctx.Query("from"))
	if err != nil {
		util.BadRequest(ctx, "from must be YYYY-MM-DD")
		return
	}
	to, err := time.Parse(util.DateFormat, ctx.Query("to"))
	if err != nil {
		util.BadRequest(ctx, "to must be YYYY-MM-DD")
		return
	}

	rows, err := c.MissionService.GetAnalytics(user.UserID, model.GoalPeriod(ctx.Query("period")), from, to)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, rows)
}

// @Summary Store a period review
// @Tags missions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CreateReviewRequest true "review content"
// @Success 201 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/missions/reviews [post]
func (c *MissionController) CreateReview(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CreateReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	review, err := c.MissionService.CreateReview(user.UserID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Created(ctx, review)
}

// @Summary List period reviews
// @Tags missions
// @Produce json
// @Security BearerAuth
// @Param period query string true "DAILY, WEEKLY or MONTHLY"
// @Param limit query int false "number of reviews" default(10)
// @Success 200 {object} util.Response
// @Router /api/missions/reviews [get]
func (c *MissionController) GetReviews(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	limit := 10
	if limitStr := ctx.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			limit = l
		}
	}

	reviews, err := c.MissionService.GetReviews(user.UserID, model.GoalPeriod(ctx.Query("period")), limit)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, reviews)
}
