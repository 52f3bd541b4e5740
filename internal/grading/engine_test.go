package grading

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"exam_platform_backend/internal/model"
)

func choice(subject model.Subject, correct string, others ...string) model.Question {
	opts := []model.Option{{Text: correct, IsCorrect: true}}
	for _, o := range others {
		opts = append(opts, model.Option{Text: o})
	}
	return model.Question{
		ID:            primitive.NewObjectID(),
		QuestionText:  "q",
		QuestionType:  model.SingleChoice,
		Options:       opts,
		Marks:         4,
		NegativeMarks: 1,
		Subject:       subject,
	}
}

func examOf(qs ...model.Question) *model.Exam {
	return &model.Exam{ID: primitive.NewObjectID(), Questions: qs}
}

func TestGradeAttemptMixedScenario(t *testing.T) {
	q1 := choice(model.Maths, "2", "3")
	q2 := choice(model.Physics, "c", "v")
	q3 := choice(model.Chemistry, "H2O", "CO2")
	exam := examOf(q1, q2, q3)

	answers := map[string]model.AnswerValue{
		q1.ID.Hex(): model.StringValue("2"),
		q2.ID.Hex(): model.StringValue("v"),
	}
	res, err := GradeAttempt(exam, answers, 95)
	if err != nil {
		t.Fatalf("GradeAttempt: %v", err)
	}

	if res.CorrectAnswers != 1 || res.WrongAnswers != 1 || res.Unattempted != 1 {
		t.Fatalf("counts = %d/%d/%d, want 1/1/1", res.CorrectAnswers, res.WrongAnswers, res.Unattempted)
	}
	if res.TotalQuestions != 3 || res.TotalMarks != 12 || res.ObtainedMarks != 3 {
		t.Fatalf("totals = %d q, %v total, %v obtained", res.TotalQuestions, res.TotalMarks, res.ObtainedMarks)
	}
	if res.Percentage != 25 {
		t.Fatalf("percentage = %v, want 25", res.Percentage)
	}
	if res.TimeTaken != 95 {
		t.Fatalf("timeTaken = %d, want 95", res.TimeTaken)
	}
	if res.ExamID != exam.ID.Hex() {
		t.Fatalf("examId = %s, want %s", res.ExamID, exam.ID.Hex())
	}

	want := map[string]model.SubjectScore{
		"maths":     {Correct: 1, Total: 1, Marks: 4},
		"physics":   {Correct: 0, Total: 1, Marks: 0},
		"chemistry": {Correct: 0, Total: 1, Marks: 0},
	}
	if !reflect.DeepEqual(res.SubjectWiseScore, want) {
		t.Fatalf("subjectWiseScore = %#v, want %#v", res.SubjectWiseScore, want)
	}
}

func TestGradeAttemptOptionObjects(t *testing.T) {
	var q model.Question
	raw := `{"questionText":"Capital of France?","questionType":"single-choice","marks":4,"negativeMarks":1,"subject":"maths",
		"options":[{"label":"Paris","isCorrect":true},{"label":"Rome"}]}`
	if err := json.Unmarshal([]byte(raw), &q); err != nil {
		t.Fatalf("unmarshal question: %v", err)
	}
	q.ID = primitive.NewObjectID()

	tests := []struct {
		name      string
		submitted string
		want      Outcome
	}{
		{"plain string", `"Paris"`, Correct},
		{"padded string", `"  Paris "`, Correct},
		{"option object", `{"label":"Paris"}`, Correct},
		{"text field object", `{"text":"Paris"}`, Correct},
		{"other option", `"Rome"`, Wrong},
		{"empty string", `""`, Unattempted},
		{"whitespace", `"   "`, Unattempted},
		{"null", `null`, Unattempted},
	}
	e := NewEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v model.AnswerValue
			if err := json.Unmarshal([]byte(tt.submitted), &v); err != nil {
				t.Fatalf("unmarshal answer: %v", err)
			}
			got, err := e.Evaluate(&q, v)
			if err != nil {
				t.Fatalf("Evaluate: %v", err)
			}
			if got != tt.want {
				t.Fatalf("outcome = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMultiChoiceIsAllOrNothing(t *testing.T) {
	q := model.Question{
		ID:            primitive.NewObjectID(),
		QuestionText:  "Pick the primes",
		QuestionType:  model.MultiChoice,
		Options:       []model.Option{{Text: "2"}, {Text: "3"}, {Text: "4"}, {Text: "5"}},
		CorrectAnswer: model.ListKey("2", "3", "5"),
		Marks:         4,
		NegativeMarks: 2,
		Subject:       model.Maths,
	}

	tests := []struct {
		name      string
		submitted model.AnswerValue
		want      Outcome
	}{
		{"exact", model.StringListValue("2", "3", "5"), Correct},
		{"permutation", model.StringListValue("5", "2", "3"), Correct},
		{"duplicates", model.StringListValue("5", "2", "3", "3"), Correct},
		{"option objects", model.ListValue(
			model.ObjectValue(map[string]model.AnswerValue{"text": model.StringValue("3")}),
			model.NumberValue(2),
			model.StringValue("5"),
		), Correct},
		{"missing one", model.StringListValue("2", "3"), Wrong},
		{"extra one", model.StringListValue("2", "3", "4", "5"), Wrong},
		{"single value", model.StringValue("2"), Wrong},
		{"empty list", model.ListValue(), Unattempted},
	}
	e := NewEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Evaluate(&q, tt.submitted)
			if err != nil {
				t.Fatalf("Evaluate: %v", err)
			}
			if got != tt.want {
				t.Fatalf("outcome = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIntegerAnswer(t *testing.T) {
	q := model.Question{
		ID:            primitive.NewObjectID(),
		QuestionText:  "6 x 7",
		QuestionType:  model.IntegerAnswer,
		CorrectAnswer: model.NumberKey(42),
		Marks:         4,
		Subject:       model.Maths,
	}

	tests := []struct {
		submitted model.AnswerValue
		want      Outcome
	}{
		{model.NumberValue(42), Correct},
		{model.StringValue("42"), Correct},
		{model.StringValue(" 42.0 "), Correct},
		{model.NumberValue(41), Wrong},
		{model.StringValue("forty-two"), Wrong},
	}
	e := NewEngine()
	for _, tt := range tests {
		got, err := e.Evaluate(&q, tt.submitted)
		if err != nil {
			t.Fatalf("Evaluate(%v): %v", tt.submitted.Text(), err)
		}
		if got != tt.want {
			t.Errorf("Evaluate(%q) = %v, want %v", tt.submitted.Text(), got, tt.want)
		}
	}
}

func TestEmptyExam(t *testing.T) {
	res, err := GradeAttempt(examOf(), map[string]model.AnswerValue{"x": model.StringValue("A")}, 10)
	if err != nil {
		t.Fatalf("GradeAttempt: %v", err)
	}
	if res.TotalQuestions != 0 || res.CorrectAnswers != 0 || res.WrongAnswers != 0 || res.Unattempted != 0 {
		t.Fatalf("non-zero counts: %+v", res)
	}
	if res.Percentage != 0 || res.TotalMarks != 0 || res.ObtainedMarks != 0 {
		t.Fatalf("non-zero marks: %+v", res)
	}
	if len(res.SubjectWiseScore) != 0 {
		t.Fatalf("subjectWiseScore = %v, want empty", res.SubjectWiseScore)
	}
}

func TestNegativeMarksHaveNoFloor(t *testing.T) {
	q1 := choice(model.Maths, "A", "B")
	q2 := choice(model.Maths, "A", "B")
	q1.NegativeMarks = 10
	q2.NegativeMarks = 10
	exam := examOf(q1, q2)

	res, err := GradeAttempt(exam, map[string]model.AnswerValue{
		q1.ID.Hex(): model.StringValue("A"),
		q2.ID.Hex(): model.StringValue("B"),
	}, 0)
	if err != nil {
		t.Fatalf("GradeAttempt: %v", err)
	}
	if res.ObtainedMarks != -6 {
		t.Fatalf("obtainedMarks = %v, want -6", res.ObtainedMarks)
	}
	if res.Percentage != -75 {
		t.Fatalf("percentage = %v, want -75", res.Percentage)
	}
	if got := res.SubjectWiseScore["maths"]; got.Marks != 4 || got.Correct != 1 || got.Total != 2 {
		t.Fatalf("maths = %+v", got)
	}
}

func TestCountersPartitionQuestions(t *testing.T) {
	qs := []model.Question{
		choice(model.Maths, "A", "B"),
		choice(model.Physics, "A", "B"),
		choice(model.Chemistry, "A", "B"),
		choice(model.Maths, "A", "B"),
		choice("", "A", "B"),
	}
	exam := examOf(qs...)
	answers := map[string]model.AnswerValue{
		qs[0].ID.Hex():                model.StringValue("A"),
		qs[1].ID.Hex():                model.StringValue("B"),
		qs[4].ID.Hex():                model.StringValue("A"),
		primitive.NewObjectID().Hex(): model.StringValue("A"),
	}

	res, err := GradeAttempt(exam, answers, 0)
	if err != nil {
		t.Fatalf("GradeAttempt: %v", err)
	}
	if sum := res.CorrectAnswers + res.WrongAnswers + res.Unattempted; sum != len(qs) {
		t.Fatalf("counters sum to %d, want %d", sum, len(qs))
	}
	if res.CorrectAnswers != 2 {
		t.Fatalf("correctAnswers = %d, want 2", res.CorrectAnswers)
	}
	total := 0
	for _, s := range res.SubjectWiseScore {
		total += s.Total
	}
	if total != 4 {
		t.Fatalf("subject totals = %d, want 4 (question without subject excluded)", total)
	}
	if _, ok := res.SubjectWiseScore[""]; ok {
		t.Fatal("empty subject present in breakdown")
	}
}

func TestGradeIsIdempotent(t *testing.T) {
	q1 := choice(model.Maths, "A", "B")
	q2 := choice(model.Physics, "A", "B")
	exam := examOf(q1, q2)
	answers := map[string]model.AnswerValue{
		q1.ID.Hex(): model.StringValue("A"),
		q2.ID.Hex(): model.StringValue("B"),
	}

	first, err := GradeAttempt(exam, answers, 30)
	if err != nil {
		t.Fatalf("GradeAttempt: %v", err)
	}
	second, err := GradeAttempt(exam, answers, 30)
	if err != nil {
		t.Fatalf("GradeAttempt: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("results differ:\n%+v\n%+v", first, second)
	}
}

func TestMalformedAnswerKey(t *testing.T) {
	q := choice(model.Maths, "A", "B")
	q.Options[0].IsCorrect = false

	_, err := GradeAttempt(examOf(q), map[string]model.AnswerValue{q.ID.Hex(): model.StringValue("A")}, 0)
	if !errors.Is(err, ErrMalformedAnswerKey) {
		t.Fatalf("err = %v, want ErrMalformedAnswerKey", err)
	}
}

func TestUnknownQuestionType(t *testing.T) {
	q := choice(model.Maths, "A", "B")
	q.QuestionType = "essay"

	_, err := GradeAttempt(examOf(q), nil, 0)
	if !errors.Is(err, ErrUnknownQuestionType) {
		t.Fatalf("err = %v, want ErrUnknownQuestionType", err)
	}
}
