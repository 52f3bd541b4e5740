package model

import (
	"encoding/json"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type QuestionType string

const (
	SingleChoice  QuestionType = "single-choice"
	MultiChoice   QuestionType = "multi-choice"
	IntegerAnswer QuestionType = "integer-answer"
)

func (t QuestionType) IsChoice() bool {
	return t == SingleChoice || t == MultiChoice
}

type Subject string

const (
	Maths     Subject = "maths"
	Physics   Subject = "physics"
	Chemistry Subject = "chemistry"
)

func (s Subject) IsValid() bool {
	switch s {
	case Maths, Physics, Chemistry:
		return true
	}
	return false
}

// Option is one choice of a single- or multi-choice question.
type Option struct {
	Text      string `bson:"text" json:"text" validate:"required"`
	IsCorrect bool   `bson:"isCorrect" json:"isCorrect,omitempty"`
}

// UnmarshalJSON accepts plain strings and option objects that carry their
// text under any of the known field names, e.g. {"label": "Paris"}.
func (o *Option) UnmarshalJSON(data []byte) error {
	var v AnswerValue
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Text = strings.TrimSpace(v.Text())
	o.IsCorrect = false
	if f, ok := v.Field("isCorrect"); ok && f.Kind == ValueBool {
		o.IsCorrect = f.Bool
	}
	return nil
}

// swagger:model Question
type Question struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ExamID        primitive.ObjectID `bson:"exam" json:"examId"`
	QuestionText  string             `bson:"questionText,omitempty" json:"questionText,omitempty"`
	QuestionImage string             `bson:"questionImage,omitempty" json:"questionImage,omitempty" validate:"omitempty,url"`
	QuestionType  QuestionType       `bson:"questionType" json:"questionType" validate:"required,oneof=single-choice multi-choice integer-answer"`
	Options       []Option           `bson:"options" json:"options" validate:"dive"`
	CorrectAnswer AnswerKey          `bson:"correctAnswer" json:"correctAnswer"`
	Marks         float64            `bson:"marks" json:"marks" validate:"gt=0"`
	NegativeMarks float64            `bson:"negativeMarks" json:"negativeMarks" validate:"gte=0"`
	Subject       Subject            `bson:"subject" json:"subject" validate:"required,oneof=maths physics chemistry"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CorrectOptionText is the text a single-choice submission must match.
// Flagged options win over correctAnswer.
func (q *Question) CorrectOptionText() (string, bool) {
	for _, o := range q.Options {
		if o.IsCorrect {
			return strings.TrimSpace(o.Text), true
		}
	}
	switch q.CorrectAnswer.Kind {
	case KeyText, KeyNumber:
		s := strings.TrimSpace(q.CorrectAnswer.String())
		return s, s != ""
	case KeyList:
		if len(q.CorrectAnswer.List) == 1 {
			s := strings.TrimSpace(q.CorrectAnswer.List[0])
			return s, s != ""
		}
	}
	return "", false
}

// CorrectOptionSet is the sorted set a multi-choice submission must equal.
func (q *Question) CorrectOptionSet() []string {
	var texts []AnswerValue
	for _, o := range q.Options {
		if o.IsCorrect {
			texts = append(texts, StringValue(o.Text))
		}
	}
	if len(texts) == 0 {
		switch q.CorrectAnswer.Kind {
		case KeyList:
			return StringListValue(q.CorrectAnswer.List...).TextSet()
		case KeyText, KeyNumber:
			return StringValue(q.CorrectAnswer.String()).TextSet()
		}
		return nil
	}
	return ListValue(texts...).TextSet()
}

// WithoutAnswer returns a copy that is safe to show to a student.
func (q Question) WithoutAnswer() Question {
	q.CorrectAnswer = AnswerKey{}
	if len(q.Options) > 0 {
		opts := make([]Option, len(q.Options))
		for i, o := range q.Options {
			opts[i] = Option{Text: o.Text}
		}
		q.Options = opts
	}
	return q
}
