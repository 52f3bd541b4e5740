package repository

import (
	"exam_platform_backend/internal/model"

	"gorm.io/gorm"
)

// ResultRepository persists graded attempts. Rows are append-only.
type ResultRepository struct {
	DB *gorm.DB
}

func NewResultRepository(db *gorm.DB) *ResultRepository {
	return &ResultRepository{DB: db}
}

func (r *ResultRepository) Create(result *model.ExamResult) error {
	return r.DB.Create(result).Error
}

func (r *ResultRepository) FindByID(id string) (*model.ExamResult, error) {
	var result model.ExamResult
	err := r.DB.Where("id = ?", id).First(&result).Error
	return &result, err
}

func (r *ResultRepository) ListByUser(userID uint, page, limit int) ([]model.ExamResult, int64, error) {
	return r.list(func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}, page, limit)
}

func (r *ResultRepository) ListByExam(examID string, page, limit int) ([]model.ExamResult, int64, error) {
	return r.list(func(db *gorm.DB) *gorm.DB {
		return db.Where("exam_id = ?", examID)
	}, page, limit)
}

func (r *ResultRepository) list(scope func(*gorm.DB) *gorm.DB, page, limit int) ([]model.ExamResult, int64, error) {
	var total int64
	if err := r.DB.Model(&model.ExamResult{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	results := []model.ExamResult{}
	err := r.DB.Scopes(scope).
		Omit("answers").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&results).Error
	return results, total, err
}
