package controller

import (
	"americano_backend/internal/service"
	"americano_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// @Summary Get the user profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/users/me [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	profile, err := c.UserService.GetProfile(user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	profile.Password = ""
	util.Success(ctx, profile)
}

// @Summary Update the user profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.UpdateProfileRequest true "profile fields"
// @Success 200 {object} util.Response
// @Router /api/users/me [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	profile, err := c.UserService.UpdateProfile(user.UserID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	profile.Password = ""
	util.Success(ctx, profile)
}

// @Summary Delete the account and all owned data
// @Description Writes a takeout archive when object storage is configured, then removes every owned row.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/users/me [delete]
func (c *UserController) DeleteAccount(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.UserService.DeleteUser(ctx.Request.Context(), user.UserID); err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}
