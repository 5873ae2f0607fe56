package controller

import (
	"americano_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

// respondError maps domain sentinel errors onto the HTTP envelope. Anything
// unrecognized is logged and reported as a 500.
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrNotFound), errors.Is(err, util.ErrUserNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrInvariantViolation):
		util.BadRequest(ctx, "invalid value")
	case errors.Is(err, util.ErrGoalExpired):
		util.Conflict(ctx, "goal window has closed")
	case errors.Is(err, util.ErrAlreadyAnonymized):
		util.Conflict(ctx, "query is already anonymized")
	case errors.Is(err, util.ErrReviewExists):
		util.Conflict(ctx, "review already exists for this period")
	case errors.Is(err, util.ErrEmailRegistered):
		util.Conflict(ctx, "email is already registered")
	case errors.Is(err, util.ErrConcurrentUpdate):
		util.Conflict(ctx, "concurrent update, please retry")
	default:
		util.LogInternalError(ctx, err)
	}
}
