package service

import (
	"ai_academy_backend/internal/model"
	"ai_academy_backend/internal/repository"
	"ai_academy_backend/internal/util"
	"context"
)

const agentExistsMessage = "this user already has an AI agent"

type CreateAIAgentInput struct {
	User               uint   `json:"user" validate:"required"`
	Area               string `json:"area" validate:"required,max=200"`
	AutonomyLevel      string `json:"autonomy_level" validate:"required,max=200"`
	DataTypes          string `json:"data_types" validate:"required,max=200"`
	LanguageModel      string `json:"language_model" validate:"required,max=200"`
	ResponseSpeed      string `json:"response_speed" validate:"required,max=200"`
	Integrations       string `json:"integrations" validate:"required,max=200"`
	Personalization    string `json:"personalization" validate:"required,max=200"`
	SuccessMetrics     string `json:"success_metrics" validate:"required,max=200"`
	LearningCapability string `json:"learning_capability" validate:"required,max=200"`
	Budget             string `json:"budget" validate:"required,max=200"`
}

// UpdateAIAgentInput 仅问卷字段可修改，所属用户不可变
type UpdateAIAgentInput struct {
	Area               *string `json:"area" validate:"omitempty,max=200"`
	AutonomyLevel      *string `json:"autonomy_level" validate:"omitempty,max=200"`
	DataTypes          *string `json:"data_types" validate:"omitempty,max=200"`
	LanguageModel      *string `json:"language_model" validate:"omitempty,max=200"`
	ResponseSpeed      *string `json:"response_speed" validate:"omitempty,max=200"`
	Integrations       *string `json:"integrations" validate:"omitempty,max=200"`
	Personalization    *string `json:"personalization" validate:"omitempty,max=200"`
	SuccessMetrics     *string `json:"success_metrics" validate:"omitempty,max=200"`
	LearningCapability *string `json:"learning_capability" validate:"omitempty,max=200"`
	Budget             *string `json:"budget" validate:"omitempty,max=200"`
}

func (in UpdateAIAgentInput) columns() (map[string]interface{}, error) {
	fields := map[string]interface{}{}
	for column, value := range map[string]*string{
		"area":                in.Area,
		"autonomy_level":      in.AutonomyLevel,
		"data_types":          in.DataTypes,
		"language_model":      in.LanguageModel,
		"response_speed":      in.ResponseSpeed,
		"integrations":        in.Integrations,
		"personalization":     in.Personalization,
		"success_metrics":     in.SuccessMetrics,
		"learning_capability": in.LearningCapability,
		"budget":              in.Budget,
	} {
		if value == nil {
			continue
		}
		if *value == "" {
			return nil, util.NewValidationError(column, "this field may not be blank")
		}
		fields[column] = *value
	}
	return fields, nil
}

type AIAgentService struct {
	repo  *repository.AIAgentRepository
	users *repository.UserRepository
}

func NewAIAgentService(repo *repository.AIAgentRepository, users *repository.UserRepository) *AIAgentService {
	return &AIAgentService{repo: repo, users: users}
}

func (s *AIAgentService) ListAgents(ctx context.Context) ([]model.AIAgent, error) {
	return s.repo.List(ctx)
}

func (s *AIAgentService) GetAgent(ctx context.Context, id uint) (*model.AIAgent, error) {
	agent, err := s.repo.FindByID(ctx, id)
	return agent, notFound(err, util.ErrAIAgentNotFound)
}

// GetByUser 用户没有 AI 代理时返回 ErrAIAgentForUserNotFound
func (s *AIAgentService) GetByUser(ctx context.Context, userID uint) (*model.AIAgent, error) {
	agent, err := s.repo.FindByUserID(ctx, userID)
	return agent, notFound(err, util.ErrAIAgentForUserNotFound)
}

func (s *AIAgentService) CreateAgent(ctx context.Context, in CreateAIAgentInput) (*model.AIAgent, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if err := requireExists(ctx, s.users.Exists, in.User, "user"); err != nil {
		return nil, err
	}

	taken, err := s.repo.UserHasAgent(ctx, in.User)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, util.NewValidationError("user", agentExistsMessage)
	}

	agent := &model.AIAgent{
		UserID:             in.User,
		Area:               in.Area,
		AutonomyLevel:      in.AutonomyLevel,
		DataTypes:          in.DataTypes,
		LanguageModel:      in.LanguageModel,
		ResponseSpeed:      in.ResponseSpeed,
		Integrations:       in.Integrations,
		Personalization:    in.Personalization,
		SuccessMetrics:     in.SuccessMetrics,
		LearningCapability: in.LearningCapability,
		Budget:             in.Budget,
	}
	if err := s.repo.Create(ctx, agent); err != nil {
		return nil, duplicate(err, "user", agentExistsMessage)
	}
	return s.GetAgent(ctx, agent.ID)
}

func (s *AIAgentService) UpdateAgent(ctx context.Context, id uint, in UpdateAIAgentInput) (*model.AIAgent, error) {
	if _, err := s.GetAgent(ctx, id); err != nil {
		return nil, err
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	fields, err := in.columns()
	if err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		if err := s.repo.Updates(ctx, id, fields); err != nil {
			return nil, err
		}
	}
	return s.GetAgent(ctx, id)
}

func (s *AIAgentService) DeleteAgent(ctx context.Context, id uint) error {
	return notFound(s.repo.Delete(ctx, id), util.ErrAIAgentNotFound)
}

// AIAgentQuestionService 问卷题目只读
type AIAgentQuestionService struct {
	repo *repository.AIAgentQuestionRepository
}

func NewAIAgentQuestionService(repo *repository.AIAgentQuestionRepository) *AIAgentQuestionService {
	return &AIAgentQuestionService{repo: repo}
}

func (s *AIAgentQuestionService) ListQuestions(ctx context.Context) ([]model.AIAgentQuestion, error) {
	return s.repo.List(ctx)
}

func (s *AIAgentQuestionService) GetQuestion(ctx context.Context, id uint) (*model.AIAgentQuestion, error) {
	question, err := s.repo.FindByID(ctx, id)
	return question, notFound(err, util.ErrAIAgentQuestionNotFound)
}
