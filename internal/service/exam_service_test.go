package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"exam_platform_backend/internal/model"
	"exam_platform_backend/internal/service/servicetest"
	"exam_platform_backend/internal/util"
)

func examRequest() ExamRequest {
	start := time.Date(2026, 4, 4, 10, 0, 0, 0, time.UTC)
	return ExamRequest{
		Title:     " Mains mock 1 ",
		ExamType:  model.MainsExam,
		Duration:  180,
		StartDate: start,
		EndDate:   start.Add(3 * time.Hour),
	}
}

func TestExamLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := NewExamService(servicetest.NewExamStore())

	exam, err := svc.CreateExam(ctx, examRequest(), 9)
	if err != nil {
		t.Fatalf("CreateExam: %v", err)
	}
	if exam.Title != "Mains mock 1" || !exam.IsActive || exam.CreatedBy != 9 {
		t.Fatalf("exam = %+v", exam)
	}

	q, err := svc.AddQuestion(ctx, exam.ID, QuestionRequest{
		QuestionText:  "Capital of France?",
		QuestionType:  model.SingleChoice,
		Options:       []model.Option{{Text: "Paris"}, {Text: "Rome"}},
		CorrectAnswer: model.TextKey("Paris"),
		Marks:         4,
		NegativeMarks: 1,
		Subject:       "Physics",
	})
	if err != nil {
		t.Fatalf("AddQuestion: %v", err)
	}
	if q.Subject != model.Physics {
		t.Fatalf("subject = %q, want normalized physics", q.Subject)
	}
	if _, err := svc.AddQuestion(ctx, exam.ID, QuestionRequest{
		QuestionText:  "6 x 7",
		QuestionType:  model.IntegerAnswer,
		CorrectAnswer: model.NumberKey(42),
		Marks:         3,
		Subject:       model.Maths,
	}); err != nil {
		t.Fatalf("AddQuestion integer: %v", err)
	}

	full, err := svc.GetExam(ctx, exam.ID)
	if err != nil {
		t.Fatalf("GetExam: %v", err)
	}
	if full.TotalQuestions != 2 || full.TotalMarks != 7 {
		t.Fatalf("totals = %d/%v, want 2/7", full.TotalQuestions, full.TotalMarks)
	}

	view, err := svc.GetExamForStudent(ctx, exam.ID)
	if err != nil {
		t.Fatalf("GetExamForStudent: %v", err)
	}
	for _, vq := range view.Questions {
		if !vq.CorrectAnswer.IsZero() {
			t.Fatalf("answer key leaked for %s", vq.ID.Hex())
		}
	}

	if err := svc.DeleteQuestion(ctx, exam.ID, q.ID); err != nil {
		t.Fatalf("DeleteQuestion: %v", err)
	}
	questions, err := svc.ListQuestions(ctx, exam.ID)
	if err != nil {
		t.Fatalf("ListQuestions: %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("questions = %d, want 1", len(questions))
	}

	if err := svc.DeleteExam(ctx, exam.ID); err != nil {
		t.Fatalf("DeleteExam: %v", err)
	}
	if _, err := svc.GetExam(ctx, exam.ID); !errors.Is(err, util.ErrExamNotFound) {
		t.Fatalf("after delete: err = %v", err)
	}
}

func TestAddQuestionRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	svc := NewExamService(servicetest.NewExamStore())
	exam, err := svc.CreateExam(ctx, examRequest(), 1)
	if err != nil {
		t.Fatalf("CreateExam: %v", err)
	}

	_, err = svc.AddQuestion(ctx, exam.ID, QuestionRequest{
		QuestionText: "Pick primes",
		QuestionType: model.MultiChoice,
		Options:      []model.Option{{Text: "2"}, {Text: "4"}},
		Marks:        4,
		Subject:      model.Maths,
	})
	if !errors.Is(err, util.ErrInvalidQuestion) {
		t.Fatalf("err = %v, want ErrInvalidQuestion", err)
	}
}

func TestCreateExamRejectsBadWindow(t *testing.T) {
	req := examRequest()
	req.EndDate = req.StartDate.Add(-time.Minute)

	_, err := NewExamService(servicetest.NewExamStore()).CreateExam(context.Background(), req, 1)
	if !errors.Is(err, util.ErrInvalidExam) {
		t.Fatalf("err = %v, want ErrInvalidExam", err)
	}
}

func TestListExamsHidesInactiveFromStudents(t *testing.T) {
	ctx := context.Background()
	store := servicetest.NewExamStore()
	store.Put(&model.Exam{Title: "a", ExamType: model.MainsExam, IsActive: true})
	store.Put(&model.Exam{Title: "b", ExamType: model.MainsExam, IsActive: false})
	svc := NewExamService(store)

	student, err := svc.ListExams(ctx, ListExamsQuery{}, false)
	if err != nil {
		t.Fatalf("ListExams: %v", err)
	}
	if student.Total != 1 {
		t.Fatalf("student sees %d exams, want 1", student.Total)
	}

	staff, err := svc.ListExams(ctx, ListExamsQuery{}, true)
	if err != nil {
		t.Fatalf("ListExams: %v", err)
	}
	if staff.Total != 2 {
		t.Fatalf("staff sees %d exams, want 2", staff.Total)
	}
}

func TestSweepExpired(t *testing.T) {
	store := servicetest.NewExamStore()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	store.Put(&model.Exam{Title: "old", IsActive: true, EndDate: now.Add(-time.Hour)})
	store.Put(&model.Exam{Title: "running", IsActive: true, EndDate: now.Add(time.Hour)})

	n, err := NewExamService(store).SweepExpired(context.Background(), now)
	if err != nil {
		t.Fatalf("SweepExpired: %v", err)
	}
	if n != 1 {
		t.Fatalf("deactivated %d, want 1", n)
	}
}
