package controller

import (
	"americano_backend/internal/service"
	"americano_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GoalController struct {
	GoalService *service.GoalService
}

func NewGoalController(goalService *service.GoalService) *GoalController {
	return &GoalController{GoalService: goalService}
}

// @Summary Create a study goal
// @Tags goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CreateGoalRequest true "goal definition"
// @Success 201 {object} util.Response
// @Router /api/goals [post]
func (c *GoalController) CreateGoal(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CreateGoalRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	goal, err := c.GoalService.CreateGoal(user.UserID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Created(ctx, goal)
}

// @Summary List goals
// @Tags goals
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/goals [get]
func (c *GoalController) GetGoals(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	goals, err := c.GoalService.GetGoals(user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, goals)
}

// @Summary Get one goal
// @Tags goals
// @Produce json
// @Security BearerAuth
// @Param id path string true "goal id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/goals/{id} [get]
func (c *GoalController) GetGoal(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	goal, err := c.GoalService.GetGoal(ctx.Param("id"), user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, goal)
}

type RecordProgressRequest struct {
	Amount int `json:"amount" binding:"required"`
}

// @Summary Record goal progress
// @Description Advances the goal counter; completion is latched on first crossing the target.
// @Tags goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "goal id"
// @Param body body RecordProgressRequest true "progress amount"
// @Success 200 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/goals/{id}/progress [post]
func (c *GoalController) RecordProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req RecordProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	goal, err := c.GoalService.RecordProgress(ctx.Param("id"), user.UserID, req.Amount)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, goal)
}

// @Summary Delete a goal
// @Tags goals
// @Produce json
// @Security BearerAuth
// @Param id path string true "goal id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/goals/{id} [delete]
func (c *GoalController) DeleteGoal(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.GoalService.DeleteGoal(ctx.Param("id"), user.UserID); err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}
