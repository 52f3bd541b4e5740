package controller

import (
	"exam_platform_backend/internal/service"
	"exam_platform_backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminExamController manages exams and their question sets.
type AdminExamController struct {
	Exams    *service.ExamService
	Attempts *service.AttemptService
}

func NewAdminExamController(exams *service.ExamService, attempts *service.AttemptService) *AdminExamController {
	return &AdminExamController{Exams: exams, Attempts: attempts}
}

func examIDParam(ctx *gin.Context) (primitive.ObjectID, bool) {
	id, err := util.ParseObjectID(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, util.MsgInvalidExamID)
		return id, false
	}
	return id, true
}

func questionIDParam(ctx *gin.Context) (primitive.ObjectID, bool) {
	id, err := util.ParseObjectID(ctx.Param("questionId"))
	if err != nil {
		util.BadRequest(ctx, util.MsgInvalidQuestionID)
		return id, false
	}
	return id, true
}

// CreateExam godoc
// @Summary Create an exam
// @Tags Admin Exams
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.ExamRequest true "Exam"
// @Success 201 {object} util.Response{data=model.Exam}
// @Failure 400 {object} util.Response
// @Router /admin/exams [post]
func (c *AdminExamController) CreateExam(ctx *gin.Context) {
	var req service.ExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	exam, err := c.Exams.CreateExam(ctx.Request.Context(), req, claims.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, exam)
}

// ListExams godoc
// @Summary List all exams, inactive included
// @Tags Admin Exams
// @Produce json
// @Security ApiKeyAuth
// @Param examType query string false "Exam type"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /admin/exams [get]
func (c *AdminExamController) ListExams(ctx *gin.Context) {
	var q service.ListExamsQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	page, err := c.Exams.ListExams(ctx.Request.Context(), q, true)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, page)
}

// GetExam godoc
// @Summary Get an exam with answer keys
// @Tags Admin Exams
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Exam ID"
// @Success 200 {object} util.Response{data=model.Exam}
// @Failure 404 {object} util.Response "Exam not found"
// @Router /admin/exams/{id} [get]
func (c *AdminExamController) GetExam(ctx *gin.Context) {
	id, ok := examIDParam(ctx)
	if !ok {
		return
	}

	exam, err := c.Exams.GetExam(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, exam)
}

// UpdateExam godoc
// @Summary Update an exam
// @Tags Admin Exams
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Exam ID"
// @Param body body service.ExamRequest true "Exam"
// @Success 200 {object} util.Response{data=model.Exam}
// @Failure 404 {object} util.Response "Exam not found"
// @Router /admin/exams/{id} [put]
func (c *AdminExamController) UpdateExam(ctx *gin.Context) {
	id, ok := examIDParam(ctx)
	if !ok {
		return
	}

	var req service.ExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exam, err := c.Exams.UpdateExam(ctx.Request.Context(), id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, exam)
}

// DeleteExam godoc
// @Summary Delete an exam and all of its questions
// @Tags Admin Exams
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Exam ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "Exam not found"
// @Router /admin/exams/{id} [delete]
func (c *AdminExamController) DeleteExam(ctx *gin.Context) {
	id, ok := examIDParam(ctx)
	if !ok {
		return
	}

	if err := c.Exams.DeleteExam(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ListQuestions godoc
// @Summary List the questions of an exam in order
// @Tags Admin Exams
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Exam ID"
// @Success 200 {object} util.Response{data=[]model.Question}
// @Failure 404 {object} util.Response "Exam not found"
// @Router /admin/exams/{id}/questions [get]
func (c *AdminExamController) ListQuestions(ctx *gin.Context) {
	id, ok := examIDParam(ctx)
	if !ok {
		return
	}

	questions, err := c.Exams.ListQuestions(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// AddQuestion godoc
// @Summary Add a question to an exam
// @Tags Admin Exams
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Exam ID"
// @Param body body service.QuestionRequest true "Question"
// @Success 201 {object} util.Response{data=model.Question}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response "Exam not found"
// @Router /admin/exams/{id}/questions [post]
func (c *AdminExamController) AddQuestion(ctx *gin.Context) {
	id, ok := examIDParam(ctx)
	if !ok {
		return
	}

	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.Exams.AddQuestion(ctx.Request.Context(), id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, q)
}

// UpdateQuestion godoc
// @Summary Update a question
// @Tags Admin Exams
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Exam ID"
// @Param questionId path string true "Question ID"
// @Param body body service.QuestionRequest true "Question"
// @Success 200 {object} util.Response{data=model.Question}
// @Failure 404 {object} util.Response "Question not found"
// @Router /admin/exams/{id}/questions/{questionId} [put]
func (c *AdminExamController) UpdateQuestion(ctx *gin.Context) {
	examID, ok := examIDParam(ctx)
	if !ok {
		return
	}
	questionID, ok := questionIDParam(ctx)
	if !ok {
		return
	}

	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.Exams.UpdateQuestion(ctx.Request.Context(), examID, questionID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// DeleteQuestion godoc
// @Summary Remove a question from an exam
// @Tags Admin Exams
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Exam ID"
// @Param questionId path string true "Question ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "Question not found"
// @Router /admin/exams/{id}/questions/{questionId} [delete]
func (c *AdminExamController) DeleteQuestion(ctx *gin.Context) {
	examID, ok := examIDParam(ctx)
	if !ok {
		return
	}
	questionID, ok := questionIDParam(ctx)
	if !ok {
		return
	}

	if err := c.Exams.DeleteQuestion(ctx.Request.Context(), examID, questionID); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ListExamResults godoc
// @Summary List stored results for an exam
// @Tags Admin Exams
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Exam ID"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Failure 404 {object} util.Response "Exam not found"
// @Router /admin/exams/{id}/results [get]
func (c *AdminExamController) ListExamResults(ctx *gin.Context) {
	var q service.ListResultsQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	page, err := c.Attempts.ListExamResults(ctx.Request.Context(), ctx.Param("id"), q)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, page)
}
