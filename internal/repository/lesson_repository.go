package repository

import (
	"ai_academy_backend/internal/model"
	"context"

	"gorm.io/gorm"
)

type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

func withLessonQuestions(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Questions", byOrder).
		Preload("Questions.Answers", byOrder)
}

func (r *LessonRepository) List(ctx context.Context) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := byOrder(withLessonQuestions(r.DB.WithContext(ctx))).Find(&lessons).Error
	return lessons, err
}

func (r *LessonRepository) ListByModule(ctx context.Context, moduleID uint) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := byOrder(withLessonQuestions(r.DB.WithContext(ctx))).
		Where("module_id = ?", moduleID).
		Find(&lessons).Error
	return lessons, err
}

func (r *LessonRepository) FindByID(ctx context.Context, id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := withLessonQuestions(r.DB.WithContext(ctx)).First(&lesson, id).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

// OrderTaken 同一模块内 order 必须唯一
func (r *LessonRepository) OrderTaken(ctx context.Context, moduleID uint, order int, excludeID uint) (bool, error) {
	return exists(r.DB.WithContext(ctx), &model.Lesson{}, "module_id = ? AND sort_order = ? AND id <> ?", moduleID, order, excludeID)
}

func (r *LessonRepository) Create(ctx context.Context, lesson *model.Lesson) error {
	return r.DB.WithContext(ctx).Omit("Questions").Create(lesson).Error
}

func (r *LessonRepository) Updates(ctx context.Context, id uint, fields map[string]interface{}) error {
	return r.DB.WithContext(ctx).Model(&model.Lesson{}).Where("id = ?", id).Updates(fields).Error
}

// Delete 删除课时及其题目（含答案）和课时测试结果
func (r *LessonRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		questionIDs := tx.Model(&model.Question{}).Select("id").Where("lesson_id = ?", id)
		if err := tx.Where("question_id IN (?)", questionIDs).Delete(&model.Answer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("lesson_id = ?", id).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		if err := tx.Where("lesson_id = ?", id).Delete(&model.TestResult{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Lesson{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
