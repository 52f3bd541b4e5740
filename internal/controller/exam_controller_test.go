package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"exam_platform_backend/internal/model"
	"exam_platform_backend/internal/service"
	"exam_platform_backend/internal/service/servicetest"
	"exam_platform_backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type fixture struct {
	router  *gin.Engine
	exams   *servicetest.ExamStore
	results *servicetest.ResultStore
	exam    *model.Exam
}

// asUser stands in for AuthMiddleware.
func asUser(id uint, role model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(util.ContextUserKey, &util.Claims{UserID: id, Role: role})
		c.Next()
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	exams := servicetest.NewExamStore()
	results := &servicetest.ResultStore{}

	start := time.Date(2026, 6, 6, 9, 0, 0, 0, time.UTC)
	exam := &model.Exam{
		Title:     "Weekend 12",
		ExamType:  model.WeekendExam,
		Duration:  60,
		StartDate: start,
		EndDate:   start.Add(time.Hour),
		IsActive:  true,
		Questions: []model.Question{
			{QuestionText: "2+2", QuestionType: model.SingleChoice, Marks: 4, NegativeMarks: 1, Subject: model.Maths,
				Options: []model.Option{{Text: "4", IsCorrect: true}, {Text: "5"}}},
			{QuestionText: "Capital of France", QuestionType: model.SingleChoice, Marks: 4, NegativeMarks: 1, Subject: model.Physics,
				Options: []model.Option{{Text: "Paris", IsCorrect: true}, {Text: "Rome"}}},
			{QuestionText: "Water", QuestionType: model.SingleChoice, Marks: 4, NegativeMarks: 1, Subject: model.Chemistry,
				Options: []model.Option{{Text: "H2O", IsCorrect: true}, {Text: "CO2"}}},
		},
	}
	exams.Put(exam)

	examSvc := service.NewExamService(exams)
	attemptSvc := service.NewAttemptService(exams, results, false)
	examCtl := NewExamController(examSvc, attemptSvc)
	resultCtl := NewResultController(attemptSvc)

	r := gin.New()
	student := r.Group("/api", asUser(10, model.Student))
	student.GET("/exams/:id", examCtl.GetExam)
	student.POST("/exams/submit", examCtl.SubmitExam)
	student.GET("/results/:id", resultCtl.GetResult)

	other := r.Group("/other", asUser(11, model.Student))
	other.GET("/results/:id", resultCtl.GetResult)

	return &fixture{router: r, exams: exams, results: results, exam: exam}
}

func (f *fixture) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return w, env
}

func TestSubmitExamScenario(t *testing.T) {
	f := newFixture(t)
	qs := f.exam.Questions
	body := `{"examId":"` + f.exam.ID.Hex() + `","timeTakenSeconds":1200,"answers":{` +
		`"` + qs[0].ID.Hex() + `":"4",` +
		`"` + qs[1].ID.Hex() + `":{"label":"Rome"},` +
		`"` + qs[2].ID.Hex() + `":""}}`

	w, env := f.do(t, http.MethodPost, "/api/exams/submit", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var got service.AttemptResponse
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if got.CorrectAnswers != 1 || got.WrongAnswers != 1 || got.Unattempted != 1 {
		t.Fatalf("counts = %+v", got)
	}
	if got.ObtainedMarks != 3 || got.TotalMarks != 12 || got.Percentage != 25 || got.TimeTaken != 1200 {
		t.Fatalf("marks = %+v", got)
	}
	if got.SubjectWiseScore["physics"] != (model.SubjectScore{Correct: 0, Total: 1, Marks: 0}) {
		t.Fatalf("physics = %+v", got.SubjectWiseScore["physics"])
	}
	if got.ResultID == "" || got.ExamID != f.exam.ID.Hex() {
		t.Fatalf("ids = %q %q", got.ResultID, got.ExamID)
	}
	if len(f.results.Rows) != 1 || f.results.Rows[0].UserID != 10 {
		t.Fatalf("stored rows = %+v", f.results.Rows)
	}
}

func TestSubmitExamErrors(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{"malformed id", `{"examId":"abc","answers":{}}`, http.StatusBadRequest, "Invalid exam ID format"},
		{"unknown exam", `{"examId":"` + primitive.NewObjectID().Hex() + `","answers":{}}`, http.StatusNotFound, "Exam not found"},
		{"missing exam id", `{"answers":{}}`, http.StatusBadRequest, ""},
		{"negative time", `{"examId":"` + f.exam.ID.Hex() + `","timeTakenSeconds":-1}`, http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := f.do(t, http.MethodPost, "/api/exams/submit", tt.body)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.status, w.Body.String())
			}
			if tt.message != "" && env.Message != tt.message {
				t.Fatalf("message = %q, want %q", env.Message, tt.message)
			}
		})
	}
	if len(f.results.Rows) != 0 {
		t.Fatalf("failed submissions stored %d rows", len(f.results.Rows))
	}
}

func TestGetExamHidesAnswers(t *testing.T) {
	f := newFixture(t)

	w, env := f.do(t, http.MethodGet, "/api/exams/"+f.exam.ID.Hex(), "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	raw := string(env.Data)
	if strings.Contains(raw, "isCorrect") {
		t.Fatalf("isCorrect leaked: %s", raw)
	}
	if strings.Contains(raw, `"correctAnswer":"`) || strings.Contains(raw, `"correctAnswer":[`) {
		t.Fatalf("answer key leaked: %s", raw)
	}

	w, env = f.do(t, http.MethodGet, "/api/exams/nope", "")
	if w.Code != http.StatusBadRequest || env.Message != "Invalid exam ID format" {
		t.Fatalf("bad id: %d %q", w.Code, env.Message)
	}
}

func TestGetResultAccess(t *testing.T) {
	f := newFixture(t)
	w, env := f.do(t, http.MethodPost, "/api/exams/submit", `{"examId":"`+f.exam.ID.Hex()+`"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("submit status = %d", w.Code)
	}
	var resp service.AttemptResponse
	if err := json.Unmarshal(env.Data, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if w, _ := f.do(t, http.MethodGet, "/api/results/"+resp.ResultID, ""); w.Code != http.StatusOK {
		t.Fatalf("owner status = %d", w.Code)
	}
	if w, _ := f.do(t, http.MethodGet, "/other/results/"+resp.ResultID, ""); w.Code != http.StatusForbidden {
		t.Fatalf("other student status = %d", w.Code)
	}
	if w, _ := f.do(t, http.MethodGet, "/api/results/missing", ""); w.Code != http.StatusNotFound {
		t.Fatalf("missing status = %d", w.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("refused") }

	tests := []struct {
		checks map[string]Pinger
		want   int
	}{
		{map[string]Pinger{"mysql": ok, "mongo": ok}, http.StatusOK},
		{map[string]Pinger{"mysql": ok, "mongo": down}, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		r := gin.New()
		r.GET("/health", NewHealthController(tt.checks).HealthCheck)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		if w.Code != tt.want {
			t.Errorf("status = %d, want %d: %s", w.Code, tt.want, w.Body.String())
		}
	}
}
