package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"exam_platform_backend/internal/model"
	"exam_platform_backend/internal/repository"
	"exam_platform_backend/internal/util"
	"exam_platform_backend/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ExamStore is implemented by repository.ExamRepository.
type ExamStore interface {
	CreateExam(ctx context.Context, exam *model.Exam) error
	UpdateExam(ctx context.Context, exam *model.Exam) error
	DeleteExam(ctx context.Context, id primitive.ObjectID) error
	FindExamByID(ctx context.Context, id primitive.ObjectID) (*model.Exam, error)
	ListExams(ctx context.Context, f repository.ExamFilter) ([]model.Exam, int64, error)
	FindQuestion(ctx context.Context, examID, questionID primitive.ObjectID) (*model.Question, error)
	AddQuestion(ctx context.Context, examID primitive.ObjectID, q *model.Question) error
	UpdateQuestion(ctx context.Context, q *model.Question) error
	DeleteQuestion(ctx context.Context, examID, questionID primitive.ObjectID) error
	DeactivateExpired(ctx context.Context, now time.Time) ([]primitive.ObjectID, error)
}

type ExamService struct {
	Repo ExamStore
}

func NewExamService(repo ExamStore) *ExamService {
	return &ExamService{Repo: repo}
}

type ExamRequest struct {
	Title       string         `json:"title" binding:"required"`
	Description string         `json:"description"`
	ExamType    model.ExamType `json:"examType" binding:"required"`
	Duration    int            `json:"duration" binding:"required"`
	StartDate   time.Time      `json:"startDate" binding:"required"`
	EndDate     time.Time      `json:"endDate" binding:"required"`
	IsActive    *bool          `json:"isActive"`
}

type QuestionRequest struct {
	QuestionText  string             `json:"questionText"`
	QuestionImage string             `json:"questionImage"`
	QuestionType  model.QuestionType `json:"questionType" binding:"required"`
	Options       []model.Option     `json:"options"`
	CorrectAnswer model.AnswerKey    `json:"correctAnswer"`
	Marks         float64            `json:"marks" binding:"required"`
	NegativeMarks float64            `json:"negativeMarks"`
	Subject       model.Subject      `json:"subject" binding:"required"`
}

type ListExamsQuery struct {
	ExamType model.ExamType `form:"examType"`
	Page     int            `form:"page"`
	Limit    int            `form:"limit"`
}

func (r ExamRequest) apply(e *model.Exam) {
	e.Title = strings.TrimSpace(r.Title)
	e.Description = r.Description
	e.ExamType = r.ExamType
	e.Duration = r.Duration
	e.StartDate = r.StartDate
	e.EndDate = r.EndDate
	if r.IsActive != nil {
		e.IsActive = *r.IsActive
	}
}

func (r QuestionRequest) toModel() *model.Question {
	opts := make([]model.Option, 0, len(r.Options))
	for _, o := range r.Options {
		opts = append(opts, model.Option{Text: strings.TrimSpace(o.Text), IsCorrect: o.IsCorrect})
	}
	return &model.Question{
		QuestionText:  strings.TrimSpace(r.QuestionText),
		QuestionImage: strings.TrimSpace(r.QuestionImage),
		QuestionType:  r.QuestionType,
		Options:       opts,
		CorrectAnswer: r.CorrectAnswer,
		Marks:         r.Marks,
		NegativeMarks: r.NegativeMarks,
		Subject:       model.Subject(strings.ToLower(strings.TrimSpace(string(r.Subject)))),
	}
}

func (s *ExamService) CreateExam(ctx context.Context, req ExamRequest, createdBy uint) (*model.Exam, error) {
	exam := &model.Exam{IsActive: true, CreatedBy: createdBy}
	req.apply(exam)
	if err := model.ValidateExam(exam); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrInvalidExam, err)
	}
	if err := s.Repo.CreateExam(ctx, exam); err != nil {
		return nil, err
	}
	logger.Log.Info("exam created",
		zap.String("examId", exam.ID.Hex()),
		zap.String("title", exam.Title),
		zap.Uint("createdBy", createdBy))
	return exam, nil
}

func (s *ExamService) UpdateExam(ctx context.Context, id primitive.ObjectID, req ExamRequest) (*model.Exam, error) {
	exam, err := s.Repo.FindExamByID(ctx, id)
	if err != nil {
		return nil, err
	}
	req.apply(exam)
	if err := model.ValidateExam(exam); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrInvalidExam, err)
	}
	if err := s.Repo.UpdateExam(ctx, exam); err != nil {
		return nil, err
	}
	return exam, nil
}

func (s *ExamService) DeleteExam(ctx context.Context, id primitive.ObjectID) error {
	if err := s.Repo.DeleteExam(ctx, id); err != nil {
		return err
	}
	logger.Log.Info("exam deleted", zap.String("examId", id.Hex()))
	return nil
}

// GetExam returns the exam with answer keys; staff only.
func (s *ExamService) GetExam(ctx context.Context, id primitive.ObjectID) (*model.Exam, error) {
	return s.Repo.FindExamByID(ctx, id)
}

// GetExamForStudent returns the exam with answer keys and correctness flags removed.
func (s *ExamService) GetExamForStudent(ctx context.Context, id primitive.ObjectID) (*model.Exam, error) {
	exam, err := s.Repo.FindExamByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := exam.StudentView()
	return &view, nil
}

// ListExams pages through exams. Students only see active exams.
func (s *ExamService) ListExams(ctx context.Context, q ListExamsQuery, staff bool) (*util.PageResponse, error) {
	page, limit := normalizePage(q.Page, q.Limit)
	exams, total, err := s.Repo.ListExams(ctx, repository.ExamFilter{
		ExamType:   q.ExamType,
		ActiveOnly: !staff,
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		return nil, err
	}
	return &util.PageResponse{List: exams, Total: total, Page: page, Limit: limit}, nil
}

// ListQuestions returns the questions of an exam in exam order, answer keys included.
func (s *ExamService) ListQuestions(ctx context.Context, examID primitive.ObjectID) ([]model.Question, error) {
	exam, err := s.Repo.FindExamByID(ctx, examID)
	if err != nil {
		return nil, err
	}
	return exam.Questions, nil
}

func (s *ExamService) AddQuestion(ctx context.Context, examID primitive.ObjectID, req QuestionRequest) (*model.Question, error) {
	q := req.toModel()
	if err := model.ValidateQuestion(q); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrInvalidQuestion, err)
	}
	if err := s.Repo.AddQuestion(ctx, examID, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *ExamService) UpdateQuestion(ctx context.Context, examID, questionID primitive.ObjectID, req QuestionRequest) (*model.Question, error) {
	existing, err := s.Repo.FindQuestion(ctx, examID, questionID)
	if err != nil {
		return nil, err
	}

	q := req.toModel()
	q.ID = existing.ID
	q.ExamID = existing.ExamID
	q.CreatedAt = existing.CreatedAt
	if err := model.ValidateQuestion(q); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrInvalidQuestion, err)
	}
	if err := s.Repo.UpdateQuestion(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *ExamService) DeleteQuestion(ctx context.Context, examID, questionID primitive.ObjectID) error {
	return s.Repo.DeleteQuestion(ctx, examID, questionID)
}

// SweepExpired deactivates exams whose window has closed and reports how many changed.
func (s *ExamService) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	ids, err := s.Repo.DeactivateExpired(ctx, now)
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		logger.Log.Info("exam window closed, deactivated", zap.String("examId", id.Hex()))
	}
	return len(ids), nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = util.DefaultPage
	}
	if limit < 1 {
		limit = util.DefaultLimit
	}
	if limit > util.MaxLimit {
		limit = util.MaxLimit
	}
	return page, limit
}
