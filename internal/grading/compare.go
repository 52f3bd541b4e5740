package grading

import (
	"strconv"
	"strings"

	"exam_platform_backend/internal/model"
)

type singleChoiceMatcher struct{}

func (singleChoiceMatcher) Match(q *model.Question, submitted model.AnswerValue) (bool, error) {
	want, ok := q.CorrectOptionText()
	if !ok {
		return false, ErrMalformedAnswerKey
	}
	return strings.TrimSpace(submitted.Text()) == want, nil
}

// multiChoiceMatcher requires exact set equality; there is no partial credit.
type multiChoiceMatcher struct{}

func (multiChoiceMatcher) Match(q *model.Question, submitted model.AnswerValue) (bool, error) {
	want := q.CorrectOptionSet()
	if len(want) == 0 {
		return false, ErrMalformedAnswerKey
	}
	return setEqual(toSet(want), toSet(submitted.TextSet())), nil
}

type integerMatcher struct{}

func (integerMatcher) Match(q *model.Question, submitted model.AnswerValue) (bool, error) {
	if q.CorrectAnswer.IsZero() {
		return false, ErrMalformedAnswerKey
	}
	got := strings.TrimSpace(submitted.Text())
	if want, ok := q.CorrectAnswer.Float(); ok {
		if n, err := strconv.ParseFloat(got, 64); err == nil {
			return n == want, nil
		}
	}
	return got == strings.TrimSpace(q.CorrectAnswer.String()), nil
}

func toSet(items []string) map[string]struct{} {
	m := make(map[string]struct{}, len(items))
	for _, s := range items {
		m[s] = struct{}{}
	}
	return m
}

func setEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
