package grading

import (
	"errors"
	"fmt"

	"exam_platform_backend/internal/model"
)

var (
	ErrMalformedAnswerKey  = errors.New("question has no usable answer key")
	ErrUnknownQuestionType = errors.New("unknown question type")
)

// Outcome is what grading decided for a single question.
type Outcome int

const (
	Unattempted Outcome = iota
	Correct
	Wrong
)

// Result is the aggregate of one graded attempt.
type Result struct {
	ExamID           string                        `json:"examId"`
	TotalQuestions   int                           `json:"totalQuestions"`
	CorrectAnswers   int                           `json:"correctAnswers"`
	WrongAnswers     int                           `json:"wrongAnswers"`
	Unattempted      int                           `json:"unattempted"`
	TotalMarks       float64                       `json:"totalMarks"`
	ObtainedMarks    float64                       `json:"obtainedMarks"`
	Percentage       float64                       `json:"percentage"`
	TimeTaken        int                           `json:"timeTaken"`
	SubjectWiseScore map[string]model.SubjectScore `json:"subjectWiseScore"`
}

// Matcher decides whether a non-empty submission answers a question correctly.
type Matcher interface {
	Match(q *model.Question, submitted model.AnswerValue) (bool, error)
}

// Engine routes each question to the matcher registered for its type.
// It holds no per-attempt state and is safe for concurrent use.
type Engine struct {
	matchers map[model.QuestionType]Matcher
}

func NewEngine() *Engine {
	return &Engine{
		matchers: map[model.QuestionType]Matcher{
			model.SingleChoice:  singleChoiceMatcher{},
			model.MultiChoice:   multiChoiceMatcher{},
			model.IntegerAnswer: integerMatcher{},
		},
	}
}

var defaultEngine = NewEngine()

// GradeAttempt grades answers, keyed by question id, against exam.Questions.
func GradeAttempt(exam *model.Exam, answers map[string]model.AnswerValue, elapsedSeconds int) (Result, error) {
	return defaultEngine.Grade(exam, answers, elapsedSeconds)
}

func (e *Engine) Grade(exam *model.Exam, answers map[string]model.AnswerValue, elapsedSeconds int) (Result, error) {
	res := Result{
		ExamID:           exam.ID.Hex(),
		TotalQuestions:   len(exam.Questions),
		TimeTaken:        elapsedSeconds,
		SubjectWiseScore: make(map[string]model.SubjectScore),
	}

	for i := range exam.Questions {
		q := &exam.Questions[i]
		outcome, err := e.Evaluate(q, answers[q.ID.Hex()])
		if err != nil {
			return Result{}, fmt.Errorf("question %s: %w", q.ID.Hex(), err)
		}

		res.TotalMarks += q.Marks
		switch outcome {
		case Correct:
			res.CorrectAnswers++
			res.ObtainedMarks += q.Marks
		case Wrong:
			res.WrongAnswers++
			res.ObtainedMarks -= q.NegativeMarks
		default:
			res.Unattempted++
		}

		// questions without a known subject still count towards the totals above
		if !q.Subject.IsValid() {
			continue
		}
		s := res.SubjectWiseScore[string(q.Subject)]
		s.Total++
		if outcome == Correct {
			s.Correct++
			s.Marks += q.Marks
		}
		res.SubjectWiseScore[string(q.Subject)] = s
	}

	if res.TotalMarks > 0 {
		res.Percentage = res.ObtainedMarks / res.TotalMarks * 100
	}
	return res, nil
}

// Evaluate grades a single question. A missing or empty submission is Unattempted.
func (e *Engine) Evaluate(q *model.Question, submitted model.AnswerValue) (Outcome, error) {
	m, ok := e.matchers[q.QuestionType]
	if !ok {
		return Unattempted, fmt.Errorf("%w %q", ErrUnknownQuestionType, q.QuestionType)
	}
	if submitted.IsEmpty() {
		return Unattempted, nil
	}
	matched, err := m.Match(q, submitted)
	if err != nil {
		return Unattempted, err
	}
	if matched {
		return Correct, nil
	}
	return Wrong, nil
}
