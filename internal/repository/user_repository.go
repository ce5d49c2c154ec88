package repository

import (
	"ai_academy_backend/internal/model"
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.DB.WithContext(ctx).Order("created_at DESC, id DESC").Find(&users).Error
	return users, err
}

// Search 在用户名、邮箱、部门中做不区分大小写的子串匹配
func (r *UserRepository) Search(ctx context.Context, q string) ([]model.User, error) {
	var users []model.User
	pattern := "%" + strings.ToLower(q) + "%"
	err := r.DB.WithContext(ctx).
		Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ? OR LOWER(department) LIKE ?", pattern, pattern, pattern).
		Order("created_at DESC, id DESC").
		Find(&users).Error
	return users, err
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Exists(ctx context.Context, id uint) (bool, error) {
	return exists(r.DB.WithContext(ctx), &model.User{}, "id = ?", id)
}

// EmailTaken excludeID 为 0 时不排除任何用户
func (r *UserRepository) EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	return exists(r.DB.WithContext(ctx), &model.User{}, "email = ? AND id <> ?", email, excludeID)
}

func (r *UserRepository) UsernameTaken(ctx context.Context, username string, excludeID uint) (bool, error) {
	return exists(r.DB.WithContext(ctx), &model.User{}, "username = ? AND id <> ?", username, excludeID)
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.DB.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) Updates(ctx context.Context, user *model.User, fields map[string]interface{}) error {
	return r.DB.WithContext(ctx).Model(user).Updates(fields).Error
}

// Delete 依次删除进度、测试结果、AI 代理，最后删除用户
func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&model.UserProgress{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.TestResult{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.AIAgent{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *UserRepository) FindDetail(ctx context.Context, id uint) (*model.UserDetail, error) {
	user, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	db := r.DB.WithContext(ctx)
	detail := &model.UserDetail{User: *user}

	if err := db.Preload("User").Preload("Module").
		Where("user_id = ?", id).
		Order("id").
		Find(&detail.Progress).Error; err != nil {
		return nil, err
	}

	if err := db.Preload("User").Preload("Module").Preload("Lesson").
		Where("user_id = ?", id).
		Order("completed_at DESC, id DESC").
		Find(&detail.TestResults).Error; err != nil {
		return nil, err
	}

	var agent model.AIAgent
	err = db.Preload("User").Where("user_id = ?", id).First(&agent).Error
	switch {
	case err == nil:
		detail.AIAgent = &agent
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	if detail.Progress == nil {
		detail.Progress = []model.UserProgress{}
	}
	if detail.TestResults == nil {
		detail.TestResults = []model.TestResult{}
	}
	return detail, nil
}
