package controller

import (
	"errors"
	"net/http"

	"exam_platform_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto the response envelope. Anything
// unrecognised is logged and reported as a 500.
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrInvalidObjectID):
		util.BadRequest(ctx, util.MsgInvalidExamID)
	case errors.Is(err, util.ErrInvalidExam), errors.Is(err, util.ErrInvalidQuestion):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrExamNotFound):
		util.NotFound(ctx, util.MsgExamNotFound)
	case errors.Is(err, util.ErrQuestionNotFound):
		util.NotFound(ctx, util.MsgQuestionNotFound)
	case errors.Is(err, util.ErrResultNotFound):
		util.NotFound(ctx, util.MsgResultNotFound)
	case errors.Is(err, util.ErrUserNotFound):
		util.NotFound(ctx, "User not found")
	case errors.Is(err, util.ErrExamNotAvailable):
		util.Forbidden(ctx, util.MsgExamNotAvailable)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx, "")
	case errors.Is(err, util.ErrAccountDisabled):
		util.Forbidden(ctx, "Account disabled")
	case errors.Is(err, util.ErrInvalidCredentials):
		util.Error(ctx, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, util.ErrEmailRegistered):
		util.Conflict(ctx, "Email already registered")
	default:
		util.LogInternalError(ctx, err)
	}
}
