package repository

import (
	"ai_academy_backend/internal/model"
	"context"

	"gorm.io/gorm"
)

type ModuleRepository struct {
	DB *gorm.DB
}

func NewModuleRepository(db *gorm.DB) *ModuleRepository {
	return &ModuleRepository{DB: db}
}

// withTree 预加载 模块 → 课时 → 题目 → 答案，以及模块下的全部题目
func withTree(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Lessons", byOrder).
		Preload("Lessons.Questions", byOrder).
		Preload("Lessons.Questions.Answers", byOrder).
		Preload("Questions", byOrder).
		Preload("Questions.Answers", byOrder)
}

func (r *ModuleRepository) List(ctx context.Context, activeOnly bool) ([]model.Module, error) {
	var modules []model.Module
	query := withTree(r.DB.WithContext(ctx))
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := byOrder(query).Find(&modules).Error
	return modules, err
}

func (r *ModuleRepository) FindByID(ctx context.Context, id uint) (*model.Module, error) {
	var module model.Module
	err := withTree(r.DB.WithContext(ctx)).First(&module, id).Error
	if err != nil {
		return nil, err
	}
	return &module, nil
}

func (r *ModuleRepository) Exists(ctx context.Context, id uint) (bool, error) {
	return exists(r.DB.WithContext(ctx), &model.Module{}, "id = ?", id)
}

func (r *ModuleRepository) Create(ctx context.Context, module *model.Module) error {
	return r.DB.WithContext(ctx).Omit("Lessons", "Questions").Create(module).Error
}

func (r *ModuleRepository) Updates(ctx context.Context, id uint, fields map[string]interface{}) error {
	return r.DB.WithContext(ctx).Model(&model.Module{}).Where("id = ?", id).Updates(fields).Error
}

// Delete 删除模块及其答案、题目、测试结果、进度和课时
func (r *ModuleRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		questionIDs := tx.Model(&model.Question{}).Select("id").Where("module_id = ?", id)
		if err := tx.Where("question_id IN (?)", questionIDs).Delete(&model.Answer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("module_id = ?", id).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		if err := tx.Where("module_id = ?", id).Delete(&model.TestResult{}).Error; err != nil {
			return err
		}
		if err := tx.Where("module_id = ?", id).Delete(&model.UserProgress{}).Error; err != nil {
			return err
		}
		if err := tx.Where("module_id = ?", id).Delete(&model.Lesson{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Module{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
