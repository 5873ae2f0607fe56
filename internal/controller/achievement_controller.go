package controller

import (
	"americano_backend/internal/service"
	"americano_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AchievementController struct {
	AchievementService *service.AchievementService
}

func NewAchievementController(achievementService *service.AchievementService) *AchievementController {
	return &AchievementController{AchievementService: achievementService}
}

// @Summary List earned achievements
// @Description Returns the append-only achievement ledger, newest first.
// @Tags achievements
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/achievements [get]
func (c *AchievementController) GetUserAchievements(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	summary, err := c.AchievementService.GetUserAchievements(user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, summary)
}
