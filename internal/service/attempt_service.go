package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"exam_platform_backend/internal/grading"
	"exam_platform_backend/internal/model"
	"exam_platform_backend/internal/util"
	"exam_platform_backend/pkg/logger"
	"exam_platform_backend/pkg/monitoring"
	"exam_platform_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ResultStore is implemented by repository.ResultRepository.
type ResultStore interface {
	Create(result *model.ExamResult) error
	FindByID(id string) (*model.ExamResult, error)
	ListByUser(userID uint, page, limit int) ([]model.ExamResult, int64, error)
	ListByExam(examID string, page, limit int) ([]model.ExamResult, int64, error)
}

type AttemptService struct {
	Exams   ExamStore
	Results ResultStore

	engine        *grading.Engine
	enforceWindow atomic.Bool
	now           func() time.Time
}

func NewAttemptService(exams ExamStore, results ResultStore, enforceWindow bool) *AttemptService {
	s := &AttemptService{
		Exams:   exams,
		Results: results,
		engine:  grading.NewEngine(),
		now:     time.Now,
	}
	s.enforceWindow.Store(enforceWindow)
	return s
}

// SetEnforceWindow switches submission window checks at runtime.
func (s *AttemptService) SetEnforceWindow(on bool) {
	s.enforceWindow.Store(on)
}

type SubmitAttemptRequest struct {
	ExamID           string                       `json:"examId" binding:"required"`
	Answers          map[string]model.AnswerValue `json:"answers"`
	TimeTakenSeconds int                          `json:"timeTakenSeconds" binding:"min=0"`
}

// AttemptResponse is the graded result plus the id it was stored under.
type AttemptResponse struct {
	ResultID string `json:"resultId"`
	grading.Result
}

type ListResultsQuery struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// Submit grades one attempt and stores it. Every submission produces a new
// result row; retakes never overwrite earlier ones.
func (s *AttemptService) Submit(ctx context.Context, userID uint, req SubmitAttemptRequest) (*AttemptResponse, error) {
	examID, err := util.ParseObjectID(req.ExamID)
	if err != nil {
		return nil, err
	}

	exam, err := s.Exams.FindExamByID(ctx, examID)
	if err != nil {
		return nil, err
	}

	examType := string(exam.ExamType)
	if s.enforceWindow.Load() && !exam.OpenAt(s.now()) {
		monitoring.ExamSubmissions.WithLabelValues(examType, monitoring.StatusRejected).Inc()
		return nil, util.ErrExamNotAvailable
	}

	result, err := s.grade(ctx, exam, req)
	if err != nil {
		monitoring.ExamSubmissions.WithLabelValues(examType, monitoring.StatusFailed).Inc()
		return nil, err
	}

	row := &model.ExamResult{
		UserID:           userID,
		ExamID:           result.ExamID,
		ExamTitle:        exam.Title,
		TotalQuestions:   result.TotalQuestions,
		CorrectAnswers:   result.CorrectAnswers,
		WrongAnswers:     result.WrongAnswers,
		Unattempted:      result.Unattempted,
		TotalMarks:       result.TotalMarks,
		ObtainedMarks:    result.ObtainedMarks,
		Percentage:       result.Percentage,
		TimeTaken:        result.TimeTaken,
		SubjectWiseScore: result.SubjectWiseScore,
		Answers:          req.Answers,
	}
	if err := s.Results.Create(row); err != nil {
		monitoring.ExamSubmissions.WithLabelValues(examType, monitoring.StatusFailed).Inc()
		return nil, fmt.Errorf("store result: %w", err)
	}

	monitoring.ExamSubmissions.WithLabelValues(examType, monitoring.StatusGraded).Inc()
	monitoring.AttemptPercentage.WithLabelValues(examType).Observe(result.Percentage)
	logger.Log.Info("attempt graded",
		zap.String("resultId", row.ID),
		zap.String("examId", result.ExamID),
		zap.Uint("userId", userID),
		zap.Int("correct", result.CorrectAnswers),
		zap.Int("wrong", result.WrongAnswers),
		zap.Int("unattempted", result.Unattempted),
		zap.Float64("obtainedMarks", result.ObtainedMarks),
		zap.Float64("percentage", result.Percentage))

	return &AttemptResponse{ResultID: row.ID, Result: result}, nil
}

func (s *AttemptService) grade(ctx context.Context, exam *model.Exam, req SubmitAttemptRequest) (grading.Result, error) {
	_, span := tracing.Tracer().Start(ctx, "grading.GradeAttempt")
	defer span.End()
	span.SetAttributes(
		attribute.String("exam.id", exam.ID.Hex()),
		attribute.Int("exam.questions", len(exam.Questions)),
		attribute.Int("attempt.answers", len(req.Answers)),
	)

	start := time.Now()
	result, err := s.engine.Grade(exam, req.Answers, req.TimeTakenSeconds)
	monitoring.GradingDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "grading failed")
		return grading.Result{}, err
	}

	span.SetAttributes(attribute.Float64("attempt.percentage", result.Percentage))
	return result, nil
}

// GetResult returns a stored result to its owner or to staff.
func (s *AttemptService) GetResult(id string, viewer *util.Claims) (*model.ExamResult, error) {
	result, err := s.Results.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrResultNotFound
		}
		return nil, err
	}
	if result.UserID != viewer.UserID && !viewer.Role.IsStaff() {
		return nil, util.ErrPermissionDenied
	}
	return result, nil
}

func (s *AttemptService) ListMyResults(userID uint, q ListResultsQuery) (*util.PageResponse, error) {
	page, limit := normalizePage(q.Page, q.Limit)
	results, total, err := s.Results.ListByUser(userID, page, limit)
	if err != nil {
		return nil, err
	}
	return &util.PageResponse{List: results, Total: total, Page: page, Limit: limit}, nil
}

func (s *AttemptService) ListExamResults(ctx context.Context, examID string, q ListResultsQuery) (*util.PageResponse, error) {
	id, err := util.ParseObjectID(examID)
	if err != nil {
		return nil, err
	}
	if _, err := s.Exams.FindExamByID(ctx, id); err != nil {
		return nil, err
	}

	page, limit := normalizePage(q.Page, q.Limit)
	results, total, err := s.Results.ListByExam(id.Hex(), page, limit)
	if err != nil {
		return nil, err
	}
	return &util.PageResponse{List: results, Total: total, Page: page, Limit: limit}, nil
}
