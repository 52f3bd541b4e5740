package controller

import (
	"exam_platform_backend/internal/service"
	"exam_platform_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// ExamController serves the student side: browsing exams and submitting attempts.
type ExamController struct {
	Exams    *service.ExamService
	Attempts *service.AttemptService
}

func NewExamController(exams *service.ExamService, attempts *service.AttemptService) *ExamController {
	return &ExamController{Exams: exams, Attempts: attempts}
}

// ListExams godoc
// @Summary List exams
// @Description Students only see active exams.
// @Tags Exams
// @Produce json
// @Security ApiKeyAuth
// @Param examType query string false "weekend | mains | advanced | practice"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /exams [get]
func (c *ExamController) ListExams(ctx *gin.Context) {
	var q service.ListExamsQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	staff := claims != nil && claims.Role.IsStaff()

	page, err := c.Exams.ListExams(ctx.Request.Context(), q, staff)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, page)
}

// GetExam godoc
// @Summary Get an exam with its questions
// @Description Answer keys and option correctness flags are removed.
// @Tags Exams
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Exam ID"
// @Success 200 {object} util.Response{data=model.Exam}
// @Failure 400 {object} util.Response "Invalid exam ID format"
// @Failure 404 {object} util.Response "Exam not found"
// @Router /exams/{id} [get]
func (c *ExamController) GetExam(ctx *gin.Context) {
	id, err := util.ParseObjectID(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, util.MsgInvalidExamID)
		return
	}

	exam, err := c.Exams.GetExamForStudent(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, exam)
}

// SubmitExam godoc
// @Summary Submit an attempt for grading
// @Description Grades the answers with negative marking, stores the result and returns it.
// @Tags Exams
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.SubmitAttemptRequest true "Answers keyed by question ID"
// @Success 200 {object} util.Response{data=service.AttemptResponse}
// @Failure 400 {object} util.Response "Invalid exam ID format"
// @Failure 403 {object} util.Response "Exam is not open for attempts"
// @Failure 404 {object} util.Response "Exam not found"
// @Router /exams/submit [post]
func (c *ExamController) SubmitExam(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.SubmitAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	resp, err := c.Attempts.Submit(ctx.Request.Context(), claims.UserID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, resp)
}
