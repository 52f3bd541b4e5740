package repository

import (
	"context"
	"errors"
	"time"

	"exam_platform_backend/internal/model"
	"exam_platform_backend/internal/util"
	"exam_platform_backend/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ExamFilter struct {
	ExamType   model.ExamType
	ActiveOnly bool
	Page       int
	Limit      int
}

// ExamRepository stores exams and their questions in MongoDB. Questions live
// in their own collection and are referenced from the exam in display order.
type ExamRepository struct {
	exams     *mongo.Collection
	questions *mongo.Collection
	timeout   time.Duration
	cache     *ExamCache
}

// NewExamRepository builds the repository; cache may be nil.
func NewExamRepository(db *mongo.Database, timeout time.Duration, cache *ExamCache) *ExamRepository {
	return &ExamRepository{
		exams:     db.Collection(database.ExamCollection),
		questions: db.Collection(database.QuestionCollection),
		timeout:   timeout,
		cache:     cache,
	}
}

func (r *ExamRepository) ctx(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, r.timeout)
}

func (r *ExamRepository) CreateExam(ctx context.Context, exam *model.Exam) error {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	now := time.Now()
	exam.ID = primitive.NewObjectID()
	exam.QuestionIDs = []primitive.ObjectID{}
	exam.Questions = nil
	exam.TotalQuestions = 0
	exam.TotalMarks = 0
	exam.CreatedAt = now
	exam.UpdatedAt = now

	_, err := r.exams.InsertOne(ctx, exam)
	return err
}

// UpdateExam overwrites the editable exam fields. Question references and
// derived totals are left alone.
func (r *ExamRepository) UpdateExam(ctx context.Context, exam *model.Exam) error {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	exam.UpdatedAt = time.Now()
	res, err := r.exams.UpdateOne(ctx, bson.M{"_id": exam.ID}, bson.M{"$set": bson.M{
		"title":       exam.Title,
		"description": exam.Description,
		"examType":    exam.ExamType,
		"duration":    exam.Duration,
		"startDate":   exam.StartDate,
		"endDate":     exam.EndDate,
		"isActive":    exam.IsActive,
		"updatedAt":   exam.UpdatedAt,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return util.ErrExamNotFound
	}
	r.invalidate(ctx, exam.ID)
	return nil
}

// DeleteExam removes the exam together with every question it owns.
func (r *ExamRepository) DeleteExam(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	if _, err := r.questions.DeleteMany(ctx, bson.M{"exam": id}); err != nil {
		return err
	}
	res, err := r.exams.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	r.invalidate(ctx, id)
	if res.DeletedCount == 0 {
		return util.ErrExamNotFound
	}
	return nil
}

// FindExamByID loads the exam and its questions in exam order.
func (r *ExamRepository) FindExamByID(ctx context.Context, id primitive.ObjectID) (*model.Exam, error) {
	if exam, ok := r.cache.Get(ctx, id); ok {
		return exam, nil
	}

	ctx, cancel := r.ctx(ctx)
	defer cancel()

	var exam model.Exam
	if err := r.exams.FindOne(ctx, bson.M{"_id": id}).Decode(&exam); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, util.ErrExamNotFound
		}
		return nil, err
	}

	questions, err := r.loadQuestions(ctx, exam.QuestionIDs)
	if err != nil {
		return nil, err
	}
	exam.Questions = questions

	r.cache.Set(ctx, &exam)
	return &exam, nil
}

func (r *ExamRepository) loadQuestions(ctx context.Context, ids []primitive.ObjectID) ([]model.Question, error) {
	if len(ids) == 0 {
		return []model.Question{}, nil
	}

	cur, err := r.questions.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var found []model.Question
	if err := cur.All(ctx, &found); err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]model.Question, len(found))
	for _, q := range found {
		byID[q.ID] = q
	}
	// dangling references are skipped
	ordered := make([]model.Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := byID[id]; ok {
			ordered = append(ordered, q)
		}
	}
	return ordered, nil
}

func (r *ExamRepository) ListExams(ctx context.Context, f ExamFilter) ([]model.Exam, int64, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	filter := bson.M{}
	if f.ExamType != "" {
		filter["examType"] = f.ExamType
	}
	if f.ActiveOnly {
		filter["isActive"] = true
	}

	total, err := r.exams.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "startDate", Value: -1}}).
		SetProjection(bson.M{"questions": 0}).
		SetSkip(int64((f.Page - 1) * f.Limit)).
		SetLimit(int64(f.Limit))
	cur, err := r.exams.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	exams := []model.Exam{}
	if err := cur.All(ctx, &exams); err != nil {
		return nil, 0, err
	}
	return exams, total, nil
}

func (r *ExamRepository) FindQuestion(ctx context.Context, examID, questionID primitive.ObjectID) (*model.Question, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	var q model.Question
	err := r.questions.FindOne(ctx, bson.M{"_id": questionID, "exam": examID}).Decode(&q)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}
	return &q, nil
}

// AddQuestion stores q under the exam, appends it to the exam's question
// order and recomputes the exam totals.
func (r *ExamRepository) AddQuestion(ctx context.Context, examID primitive.ObjectID, q *model.Question) error {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	n, err := r.exams.CountDocuments(ctx, bson.M{"_id": examID})
	if err != nil {
		return err
	}
	if n == 0 {
		return util.ErrExamNotFound
	}

	now := time.Now()
	q.ID = primitive.NewObjectID()
	q.ExamID = examID
	q.CreatedAt = now
	q.UpdatedAt = now
	if _, err := r.questions.InsertOne(ctx, q); err != nil {
		return err
	}

	if _, err := r.exams.UpdateOne(ctx, bson.M{"_id": examID}, bson.M{
		"$push": bson.M{"questions": q.ID},
	}); err != nil {
		return err
	}
	return r.recount(ctx, examID)
}

func (r *ExamRepository) UpdateQuestion(ctx context.Context, q *model.Question) error {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	q.UpdatedAt = time.Now()
	res, err := r.questions.UpdateOne(ctx, bson.M{"_id": q.ID, "exam": q.ExamID}, bson.M{"$set": bson.M{
		"questionText":  q.QuestionText,
		"questionImage": q.QuestionImage,
		"questionType":  q.QuestionType,
		"options":       q.Options,
		"correctAnswer": q.CorrectAnswer,
		"marks":         q.Marks,
		"negativeMarks": q.NegativeMarks,
		"subject":       q.Subject,
		"updatedAt":     q.UpdatedAt,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return util.ErrQuestionNotFound
	}
	return r.recount(ctx, q.ExamID)
}

func (r *ExamRepository) DeleteQuestion(ctx context.Context, examID, questionID primitive.ObjectID) error {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	res, err := r.questions.DeleteOne(ctx, bson.M{"_id": questionID, "exam": examID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return util.ErrQuestionNotFound
	}
	if _, err := r.exams.UpdateOne(ctx, bson.M{"_id": examID}, bson.M{
		"$pull": bson.M{"questions": questionID},
	}); err != nil {
		return err
	}
	return r.recount(ctx, examID)
}

type examTotals struct {
	Count int     `bson:"count"`
	Marks float64 `bson:"marks"`
}

// recount derives totalQuestions and totalMarks from the stored questions.
func (r *ExamRepository) recount(ctx context.Context, examID primitive.ObjectID) error {
	cur, err := r.questions.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"exam": examID}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"count": bson.M{"$sum": 1},
			"marks": bson.M{"$sum": "$marks"},
		}}},
	})
	if err != nil {
		return err
	}
	var rows []examTotals
	if err := cur.All(ctx, &rows); err != nil {
		return err
	}
	var totals examTotals
	if len(rows) > 0 {
		totals = rows[0]
	}

	_, err = r.exams.UpdateOne(ctx, bson.M{"_id": examID}, bson.M{"$set": bson.M{
		"totalQuestions": totals.Count,
		"totalMarks":     totals.Marks,
		"updatedAt":      time.Now(),
	}})
	if err != nil {
		return err
	}
	r.invalidate(ctx, examID)
	return nil
}

// DeactivateExpired flips isActive off for exams whose window closed before now.
func (r *ExamRepository) DeactivateExpired(ctx context.Context, now time.Time) ([]primitive.ObjectID, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	filter := bson.M{"isActive": true, "endDate": bson.M{"$lt": now}}
	cur, err := r.exams.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	var rows []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	ids := make([]primitive.ObjectID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	if _, err := r.exams.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": ids}}, bson.M{
		"$set": bson.M{"isActive": false, "updatedAt": now},
	}); err != nil {
		return nil, err
	}
	for _, id := range ids {
		r.invalidate(ctx, id)
	}
	return ids, nil
}

func (r *ExamRepository) Ping(ctx context.Context) error {
	ctx, cancel := r.ctx(ctx)
	defer cancel()
	return r.exams.Database().Client().Ping(ctx, nil)
}

func (r *ExamRepository) invalidate(ctx context.Context, id primitive.ObjectID) {
	r.cache.Invalidate(ctx, id)
}
