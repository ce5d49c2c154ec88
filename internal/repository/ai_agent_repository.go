package repository

import (
	"ai_academy_backend/internal/model"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AIAgentRepository struct {
	DB *gorm.DB
}

func NewAIAgentRepository(db *gorm.DB) *AIAgentRepository {
	return &AIAgentRepository{DB: db}
}

func (r *AIAgentRepository) List(ctx context.Context) ([]model.AIAgent, error) {
	var agents []model.AIAgent
	err := r.DB.WithContext(ctx).Preload("User").Order("id").Find(&agents).Error
	return agents, err
}

func (r *AIAgentRepository) FindByID(ctx context.Context, id uint) (*model.AIAgent, error) {
	var agent model.AIAgent
	err := r.DB.WithContext(ctx).Preload("User").First(&agent, id).Error
	if err != nil {
		return nil, err
	}
	return &agent, nil
}

func (r *AIAgentRepository) FindByUserID(ctx context.Context, userID uint) (*model.AIAgent, error) {
	var agent model.AIAgent
	err := r.DB.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&agent).Error
	if err != nil {
		return nil, err
	}
	return &agent, nil
}

func (r *AIAgentRepository) UserHasAgent(ctx context.Context, userID uint) (bool, error) {
	return exists(r.DB.WithContext(ctx), &model.AIAgent{}, "user_id = ?", userID)
}

func (r *AIAgentRepository) Create(ctx context.Context, agent *model.AIAgent) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(agent).Error
}

func (r *AIAgentRepository) Updates(ctx context.Context, id uint, fields map[string]interface{}) error {
	return r.DB.WithContext(ctx).Model(&model.AIAgent{}).Where("id = ?", id).Updates(fields).Error
}

func (r *AIAgentRepository) Delete(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&model.AIAgent{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type AIAgentQuestionRepository struct {
	DB *gorm.DB
}

func NewAIAgentQuestionRepository(db *gorm.DB) *AIAgentQuestionRepository {
	return &AIAgentQuestionRepository{DB: db}
}

func (r *AIAgentQuestionRepository) List(ctx context.Context) ([]model.AIAgentQuestion, error) {
	var questions []model.AIAgentQuestion
	err := r.DB.WithContext(ctx).
		Preload("Options", byOrder).
		Order("sort_order, question_id").
		Find(&questions).Error
	return questions, err
}

func (r *AIAgentQuestionRepository) FindByID(ctx context.Context, id uint) (*model.AIAgentQuestion, error) {
	var question model.AIAgentQuestion
	err := r.DB.WithContext(ctx).Preload("Options", byOrder).First(&question, id).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}
