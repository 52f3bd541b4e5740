package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ExamType string

const (
	WeekendExam  ExamType = "weekend"
	MainsExam    ExamType = "mains"
	AdvancedExam ExamType = "advanced"
	PracticeExam ExamType = "practice"
)

// swagger:model Exam
type Exam struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title          string               `bson:"title" json:"title" validate:"required"`
	Description    string               `bson:"description" json:"description"`
	ExamType       ExamType             `bson:"examType" json:"examType" validate:"required,oneof=weekend mains advanced practice"`
	Duration       int                  `bson:"duration" json:"duration" validate:"gt=0"` // minutes
	TotalQuestions int                  `bson:"totalQuestions" json:"totalQuestions"`
	TotalMarks     float64              `bson:"totalMarks" json:"totalMarks"`
	StartDate      time.Time            `bson:"startDate" json:"startDate" validate:"required"`
	EndDate        time.Time            `bson:"endDate" json:"endDate" validate:"required,gtfield=StartDate"`
	IsActive       bool                 `bson:"isActive" json:"isActive"`
	QuestionIDs    []primitive.ObjectID `bson:"questions" json:"questionIds,omitempty"`
	CreatedBy      uint                 `bson:"createdBy" json:"createdBy"`
	CreatedAt      time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time            `bson:"updatedAt" json:"updatedAt"`

	// Questions is filled by the repository in QuestionIDs order.
	Questions []Question `bson:"-" json:"questions,omitempty"`
}

// OpenAt reports whether students may attempt the exam at t.
func (e *Exam) OpenAt(t time.Time) bool {
	if !e.IsActive {
		return false
	}
	if !e.StartDate.IsZero() && t.Before(e.StartDate) {
		return false
	}
	if !e.EndDate.IsZero() && t.After(e.EndDate) {
		return false
	}
	return true
}

// StudentView strips answer keys from the exam and its questions.
func (e Exam) StudentView() Exam {
	if len(e.Questions) > 0 {
		qs := make([]Question, len(e.Questions))
		for i, q := range e.Questions {
			qs[i] = q.WithoutAnswer()
		}
		e.Questions = qs
	}
	return e
}

// RecountTotals derives totalQuestions and totalMarks from the loaded questions.
func (e *Exam) RecountTotals() {
	total := 0.0
	for _, q := range e.Questions {
		total += q.Marks
	}
	e.TotalQuestions = len(e.Questions)
	e.TotalMarks = total
}
