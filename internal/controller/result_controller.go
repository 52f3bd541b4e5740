package controller

import (
	"exam_platform_backend/internal/service"
	"exam_platform_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ResultController struct {
	Attempts *service.AttemptService
}

func NewResultController(attempts *service.AttemptService) *ResultController {
	return &ResultController{Attempts: attempts}
}

// MyResults godoc
// @Summary List the current user's graded attempts, newest first
// @Tags Results
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /results/me [get]
func (c *ResultController) MyResults(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var q service.ListResultsQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	page, err := c.Attempts.ListMyResults(claims.UserID, q)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, page)
}

// GetResult godoc
// @Summary Get one graded attempt
// @Description Visible to the student who made the attempt and to staff.
// @Tags Results
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Result ID"
// @Success 200 {object} util.Response{data=model.ExamResult}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response "Result not found"
// @Router /results/{id} [get]
func (c *ResultController) GetResult(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	result, err := c.Attempts.GetResult(ctx.Param("id"), claims)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
