package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterStructValidation(questionRules, Question{})
	return v
}

// ValidateQuestion checks the field rules and the per-type rules of a question.
func ValidateQuestion(q *Question) error {
	return describe(validate.Struct(q))
}

func ValidateExam(e *Exam) error {
	return describe(validate.Struct(e))
}

func questionRules(sl validator.StructLevel) {
	q := sl.Current().Interface().(Question)

	hasText := strings.TrimSpace(q.QuestionText) != ""
	hasImage := strings.TrimSpace(q.QuestionImage) != ""
	if hasText == hasImage {
		sl.ReportError(q.QuestionText, "questionText", "QuestionText", "text_xor_image", "")
	}

	switch q.QuestionType {
	case SingleChoice:
		if len(q.Options) < 2 {
			sl.ReportError(q.Options, "options", "Options", "min_options", "2")
		}
		flagged := 0
		for _, o := range q.Options {
			if o.IsCorrect {
				flagged++
			}
		}
		if flagged > 1 {
			sl.ReportError(q.Options, "options", "Options", "single_correct", "")
		}
		want, ok := q.CorrectOptionText()
		if !ok {
			sl.ReportError(q.CorrectAnswer, "correctAnswer", "CorrectAnswer", "answer_key", "")
		} else if !hasOption(q.Options, want) {
			sl.ReportError(q.CorrectAnswer, "correctAnswer", "CorrectAnswer", "answer_in_options", "")
		}
	case MultiChoice:
		if len(q.Options) < 2 {
			sl.ReportError(q.Options, "options", "Options", "min_options", "2")
		}
		want := q.CorrectOptionSet()
		if len(want) == 0 {
			sl.ReportError(q.CorrectAnswer, "correctAnswer", "CorrectAnswer", "answer_key", "")
		}
		for _, w := range want {
			if !hasOption(q.Options, w) {
				sl.ReportError(q.CorrectAnswer, "correctAnswer", "CorrectAnswer", "answer_in_options", "")
				break
			}
		}
	case IntegerAnswer:
		if len(q.Options) > 0 {
			sl.ReportError(q.Options, "options", "Options", "no_options", "")
		}
		if _, ok := q.CorrectAnswer.Float(); !ok {
			sl.ReportError(q.CorrectAnswer, "correctAnswer", "CorrectAnswer", "answer_key", "")
		}
	}
}

func hasOption(opts []Option, text string) bool {
	for _, o := range opts {
		if strings.TrimSpace(o.Text) == text {
			return true
		}
	}
	return false
}

func describe(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
		}
	}
	return errors.New(strings.Join(parts, "; "))
}
