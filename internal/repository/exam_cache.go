package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"exam_platform_backend/internal/model"
	"exam_platform_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const examCacheKeyPrefix = "exam:full:"

// ExamCache keeps fully loaded exams, answer keys included, in redis so a
// burst of submissions does not reload the question set each time.
// A nil *ExamCache is valid and caches nothing.
type ExamCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewExamCache(rdb *redis.Client, ttl time.Duration) *ExamCache {
	if rdb == nil || ttl <= 0 {
		return nil
	}
	return &ExamCache{rdb: rdb, ttl: ttl}
}

func examCacheKey(id primitive.ObjectID) string {
	return examCacheKeyPrefix + id.Hex()
}

func (c *ExamCache) Get(ctx context.Context, id primitive.ObjectID) (*model.Exam, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, examCacheKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Log.Warn("exam cache read failed", zap.String("examId", id.Hex()), zap.Error(err))
		}
		return nil, false
	}

	var exam model.Exam
	if err := json.Unmarshal(raw, &exam); err != nil {
		logger.Log.Warn("exam cache entry corrupt", zap.String("examId", id.Hex()), zap.Error(err))
		c.Invalidate(ctx, id)
		return nil, false
	}
	return &exam, true
}

func (c *ExamCache) Set(ctx context.Context, exam *model.Exam) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(exam)
	if err != nil {
		logger.Log.Warn("exam cache encode failed", zap.String("examId", exam.ID.Hex()), zap.Error(err))
		return
	}
	if err := c.rdb.Set(ctx, examCacheKey(exam.ID), raw, c.ttl).Err(); err != nil {
		logger.Log.Warn("exam cache write failed", zap.String("examId", exam.ID.Hex()), zap.Error(err))
	}
}

func (c *ExamCache) Invalidate(ctx context.Context, id primitive.ObjectID) {
	if c == nil {
		return
	}
	if err := c.rdb.Del(ctx, examCacheKey(id)).Err(); err != nil {
		logger.Log.Warn("exam cache invalidate failed", zap.String("examId", id.Hex()), zap.Error(err))
	}
}
