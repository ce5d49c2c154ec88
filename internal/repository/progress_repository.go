package repository

import (
	"ai_academy_backend/internal/model"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func withProgressRefs(db *gorm.DB) *gorm.DB {
	return db.Preload("User").Preload("Module")
}

func (r *ProgressRepository) List(ctx context.Context) ([]model.UserProgress, error) {
	var progress []model.UserProgress
	err := withProgressRefs(r.DB.WithContext(ctx)).Order("id").Find(&progress).Error
	return progress, err
}

func (r *ProgressRepository) ListByUser(ctx context.Context, userID uint) ([]model.UserProgress, error) {
	var progress []model.UserProgress
	err := withProgressRefs(r.DB.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("id").
		Find(&progress).Error
	return progress, err
}

func (r *ProgressRepository) FindByID(ctx context.Context, id uint) (*model.UserProgress, error) {
	var progress model.UserProgress
	err := withProgressRefs(r.DB.WithContext(ctx)).First(&progress, id).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *ProgressRepository) FindByUserAndModule(ctx context.Context, userID, moduleID uint) (*model.UserProgress, error) {
	var progress model.UserProgress
	err := withProgressRefs(r.DB.WithContext(ctx)).
		Where("user_id = ? AND module_id = ?", userID, moduleID).
		First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *ProgressRepository) PairExists(ctx context.Context, userID, moduleID uint) (bool, error) {
	return exists(r.DB.WithContext(ctx), &model.UserProgress{}, "user_id = ? AND module_id = ?", userID, moduleID)
}

func (r *ProgressRepository) Create(ctx context.Context, progress *model.UserProgress) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(progress).Error
}

func (r *ProgressRepository) Updates(ctx context.Context, id uint, fields map[string]interface{}) error {
	return r.DB.WithContext(ctx).Model(&model.UserProgress{}).Where("id = ?", id).Updates(fields).Error
}

func (r *ProgressRepository) Delete(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&model.UserProgress{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Upsert 原子地插入或更新 (user, module) 进度。
// 插入冲突时不写入任何值，随后只更新 fields 中给出的列。
func (r *ProgressRepository) Upsert(ctx context.Context, progress *model.UserProgress, fields map[string]interface{}) (bool, error) {
	created := false
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "module_id"}},
				DoNothing: true,
			}).
			Create(progress)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			created = true
			return nil
		}
		if len(fields) == 0 {
			return nil
		}
		return tx.Model(&model.UserProgress{}).
			Where("user_id = ? AND module_id = ?", progress.UserID, progress.ModuleID).
			Updates(fields).Error
	})
	return created, err
}
