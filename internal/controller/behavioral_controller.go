package controller

import (
	"americano_backend/internal/service"
	"americano_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type BehavioralController struct {
	BehavioralService *service.BehavioralService
}

func NewBehavioralController(behavioralService *service.BehavioralService) *BehavioralController {
	return &BehavioralController{BehavioralService: behavioralService}
}

// @Summary Record a pattern observation
// @Description Reinforces or restarts the per-type pattern depending on signature match.
// @Tags behavioral
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.ObservePatternRequest true "detected pattern"
// @Success 200 {object} util.Response
// @Router /api/behavioral/patterns [post]
func (c *BehavioralController) ObservePattern(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.ObservePatternRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	pattern, err := c.BehavioralService.ObservePattern(user.UserID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, pattern)
}

// @Summary List behavioral patterns
// @Tags behavioral
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/behavioral/patterns [get]
func (c *BehavioralController) GetPatterns(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	patterns, err := c.BehavioralService.GetPatterns(user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, patterns)
}

// @Summary Delete a behavioral pattern
// @Description Derived insights survive with their state intact.
// @Tags behavioral
// @Produce json
// @Security BearerAuth
// @Param id path string true "pattern id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/behavioral/patterns/{id} [delete]
func (c *BehavioralController) DeletePattern(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.BehavioralService.DeletePattern(ctx.Param("id"), user.UserID); err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// @Summary Create an insight
// @Tags behavioral
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CreateInsightRequest true "insight with optional source patterns"
// @Success 201 {object} util.Response
// @Router /api/behavioral/insights [post]
func (c *BehavioralController) CreateInsight(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CreateInsightRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	insight, err := c.BehavioralService.CreateInsight(user.UserID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Created(ctx, insight)
}

// @Summary List insights
// @Tags behavioral
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/behavioral/insights [get]
func (c *BehavioralController) GetInsights(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	insights, err := c.BehavioralService.GetInsights(user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, insights)
}

// @Summary Acknowledge an insight
// @Tags behavioral
// @Produce json
// @Security BearerAuth
// @Param id path string true "insight id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/behavioral/insights/{id}/acknowledge [post]
func (c *BehavioralController) AcknowledgeInsight(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.BehavioralService.AcknowledgeInsight(ctx.Param("id"), user.UserID); err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// @Summary Mark an insight as applied
// @Tags behavioral
// @Produce json
// @Security BearerAuth
// @Param id path string true "insight id"
// @Success 200 {object} util.Response
// @Router /api/behavioral/insights/{id}/apply [post]
func (c *BehavioralController) MarkInsightApplied(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.BehavioralService.MarkInsightApplied(ctx.Param("id"), user.UserID); err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// @Summary Upsert the learning profile
// @Tags behavioral
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.UpsertProfileRequest true "analyzed profile"
// @Success 200 {object} util.Response
// @Router /api/behavioral/profile [put]
func (c *BehavioralController) UpsertProfile(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.UpsertProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	profile, err := c.BehavioralService.UpsertProfile(user.UserID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, profile)
}

// @Summary Get the learning profile
// @Tags behavioral
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/behavioral/profile [get]
func (c *BehavioralController) GetProfile(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	profile, err := c.BehavioralService.GetProfile(user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, profile)
}
