// Package servicetest holds in-memory stores for exercising services and
// handlers without MongoDB or MySQL.
package servicetest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"exam_platform_backend/internal/model"
	"exam_platform_backend/internal/repository"
	"exam_platform_backend/internal/util"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
)

// ExamStore keeps exams with their questions embedded.
type ExamStore struct {
	mu    sync.Mutex
	exams map[primitive.ObjectID]*model.Exam
}

func NewExamStore() *ExamStore {
	return &ExamStore{exams: map[primitive.ObjectID]*model.Exam{}}
}

// Put stores e as given, assigning missing exam and question ids.
func (f *ExamStore) Put(e *model.Exam) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	for i := range e.Questions {
		if e.Questions[i].ID.IsZero() {
			e.Questions[i].ID = primitive.NewObjectID()
		}
		e.Questions[i].ExamID = e.ID
	}
	f.exams[e.ID] = e
}

func (f *ExamStore) CreateExam(_ context.Context, e *model.Exam) error {
	e.ID = primitive.NewObjectID()
	f.Put(e)
	return nil
}

func (f *ExamStore) UpdateExam(_ context.Context, e *model.Exam) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.exams[e.ID]; !ok {
		return util.ErrExamNotFound
	}
	f.exams[e.ID] = e
	return nil
}

func (f *ExamStore) DeleteExam(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.exams[id]; !ok {
		return util.ErrExamNotFound
	}
	delete(f.exams, id)
	return nil
}

func (f *ExamStore) FindExamByID(_ context.Context, id primitive.ObjectID) (*model.Exam, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.exams[id]
	if !ok {
		return nil, util.ErrExamNotFound
	}
	cp := *e
	cp.Questions = append([]model.Question(nil), e.Questions...)
	return &cp, nil
}

func (f *ExamStore) ListExams(_ context.Context, filter repository.ExamFilter) ([]model.Exam, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Exam{}
	for _, e := range f.exams {
		if filter.ActiveOnly && !e.IsActive {
			continue
		}
		if filter.ExamType != "" && e.ExamType != filter.ExamType {
			continue
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, int64(len(out)), nil
}

func (f *ExamStore) FindQuestion(_ context.Context, examID, questionID primitive.ObjectID) (*model.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.exams[examID]
	if !ok {
		return nil, util.ErrQuestionNotFound
	}
	for _, q := range e.Questions {
		if q.ID == questionID {
			q := q
			return &q, nil
		}
	}
	return nil, util.ErrQuestionNotFound
}

func (f *ExamStore) AddQuestion(_ context.Context, examID primitive.ObjectID, q *model.Question) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.exams[examID]
	if !ok {
		return util.ErrExamNotFound
	}
	q.ID = primitive.NewObjectID()
	q.ExamID = examID
	e.Questions = append(e.Questions, *q)
	e.QuestionIDs = append(e.QuestionIDs, q.ID)
	e.RecountTotals()
	return nil
}

func (f *ExamStore) UpdateQuestion(_ context.Context, q *model.Question) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.exams[q.ExamID]
	if !ok {
		return util.ErrQuestionNotFound
	}
	for i := range e.Questions {
		if e.Questions[i].ID == q.ID {
			e.Questions[i] = *q
			e.RecountTotals()
			return nil
		}
	}
	return util.ErrQuestionNotFound
}

func (f *ExamStore) DeleteQuestion(_ context.Context, examID, questionID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.exams[examID]
	if !ok {
		return util.ErrQuestionNotFound
	}
	for i := range e.Questions {
		if e.Questions[i].ID == questionID {
			e.Questions = append(e.Questions[:i], e.Questions[i+1:]...)
			e.RecountTotals()
			return nil
		}
	}
	return util.ErrQuestionNotFound
}

func (f *ExamStore) DeactivateExpired(_ context.Context, now time.Time) ([]primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []primitive.ObjectID
	for id, e := range f.exams {
		if e.IsActive && e.EndDate.Before(now) {
			e.IsActive = false
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// ResultStore assigns sequential ids; set FailErr to make Create fail.
type ResultStore struct {
	mu      sync.Mutex
	Rows    []*model.ExamResult
	FailErr error
}

func (f *ResultStore) Create(r *model.ExamResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailErr != nil {
		return f.FailErr
	}
	r.ID = fmt.Sprintf("result-%d", len(f.Rows)+1)
	f.Rows = append(f.Rows, r)
	return nil
}

func (f *ResultStore) FindByID(id string) (*model.ExamResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.Rows {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *ResultStore) ListByUser(userID uint, page, limit int) ([]model.ExamResult, int64, error) {
	return f.filter(func(r *model.ExamResult) bool { return r.UserID == userID })
}

func (f *ResultStore) ListByExam(examID string, page, limit int) ([]model.ExamResult, int64, error) {
	return f.filter(func(r *model.ExamResult) bool { return r.ExamID == examID })
}

func (f *ResultStore) filter(keep func(*model.ExamResult) bool) ([]model.ExamResult, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.ExamResult{}
	for _, r := range f.Rows {
		if keep(r) {
			out = append(out, *r)
		}
	}
	return out, int64(len(out)), nil
}

type UserStore struct {
	mu     sync.Mutex
	users  map[uint]*model.User
	nextID uint
}

func NewUserStore() *UserStore {
	return &UserStore{users: map[uint]*model.User{}}
}

func (f *UserStore) Create(u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	u.ID = f.nextID
	f.users[u.ID] = u
	return nil
}

func (f *UserStore) FindByID(id uint) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (f *UserStore) FindByEmail(email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *UserStore) UpdateLastLogin(userID uint, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[userID]; ok {
		u.LastLogin = &at
	}
	return nil
}
