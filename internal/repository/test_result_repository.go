package repository

import (
	"ai_academy_backend/internal/model"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TestResultRepository struct {
	DB *gorm.DB
}

func NewTestResultRepository(db *gorm.DB) *TestResultRepository {
	return &TestResultRepository{DB: db}
}

func withResultRefs(db *gorm.DB) *gorm.DB {
	return db.Preload("User").Preload("Module").Preload("Lesson").
		Order("completed_at DESC, id DESC")
}

func (r *TestResultRepository) List(ctx context.Context) ([]model.TestResult, error) {
	var results []model.TestResult
	err := withResultRefs(r.DB.WithContext(ctx)).Find(&results).Error
	return results, err
}

func (r *TestResultRepository) ListByUser(ctx context.Context, userID uint) ([]model.TestResult, error) {
	var results []model.TestResult
	err := withResultRefs(r.DB.WithContext(ctx)).
		Where("user_id = ?", userID).
		Find(&results).Error
	return results, err
}

// ListFinal 某用户某模块的期末测试成绩
func (r *TestResultRepository) ListFinal(ctx context.Context, userID, moduleID uint) ([]model.TestResult, error) {
	var results []model.TestResult
	err := withResultRefs(r.DB.WithContext(ctx)).
		Where("user_id = ? AND module_id = ? AND lesson_id IS NULL", userID, moduleID).
		Find(&results).Error
	return results, err
}

func (r *TestResultRepository) FindByID(ctx context.Context, id uint) (*model.TestResult, error) {
	var result model.TestResult
	err := withResultRefs(r.DB.WithContext(ctx)).First(&result, id).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Create 写入一条成绩。期末成绩会先删除该用户该模块已有的期末成绩；
// 事务内先锁定用户行，使同一用户的并发提交串行执行。
func (r *TestResultRepository) Create(ctx context.Context, result *model.TestResult) (int64, error) {
	var replaced int64
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if result.IsFinal() {
			var owner model.User
			if err := lockForUpdate(tx).Select("id").First(&owner, result.UserID).Error; err != nil {
				return err
			}

			res := tx.Where("user_id = ? AND module_id = ? AND lesson_id IS NULL", result.UserID, result.ModuleID).
				Delete(&model.TestResult{})
			if res.Error != nil {
				return res.Error
			}
			replaced = res.RowsAffected
		}
		return tx.Omit(clause.Associations).Create(result).Error
	})
	return replaced, err
}

func (r *TestResultRepository) Updates(ctx context.Context, id uint, fields map[string]interface{}) error {
	return r.DB.WithContext(ctx).Model(&model.TestResult{}).Where("id = ?", id).Updates(fields).Error
}

func (r *TestResultRepository) Delete(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&model.TestResult{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
