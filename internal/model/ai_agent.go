package model

import (
	"gorm.io/gorm"
)

// AIAgent 用户通过问卷生成的 AI 代理配置，每个用户最多一个
// swagger:model AIAgent
type AIAgent struct {
	BaseModel
	UserID             uint   `gorm:"not null;uniqueIndex" json:"user"`
	Area               string `gorm:"size:200;not null" json:"area"`
	AutonomyLevel      string `gorm:"size:200;not null" json:"autonomy_level"`
	DataTypes          string `gorm:"size:200;not null" json:"data_types"`
	LanguageModel      string `gorm:"size:200;not null" json:"language_model"`
	ResponseSpeed      string `gorm:"size:200;not null" json:"response_speed"`
	Integrations       string `gorm:"size:200;not null" json:"integrations"`
	Personalization    string `gorm:"size:200;not null" json:"personalization"`
	SuccessMetrics     string `gorm:"size:200;not null" json:"success_metrics"`
	LearningCapability string `gorm:"size:200;not null" json:"learning_capability"`
	Budget             string `gorm:"size:200;not null" json:"budget"`
	UserName           string `gorm:"-" json:"user_name"`
	User               *User  `gorm:"foreignKey:UserID" json:"-"`
}

func (AIAgent) TableName() string {
	return "ai_agents"
}

func (a *AIAgent) AfterFind(tx *gorm.DB) error {
	if a.User != nil {
		a.UserName = a.User.Username
	}
	return nil
}

// swagger:model AIAgentQuestion
type AIAgentQuestion struct {
	ID           uint                    `gorm:"primaryKey;autoIncrement" json:"id"`
	QuestionID   int                     `gorm:"not null;uniqueIndex" json:"question_id"`
	QuestionText string                  `gorm:"type:text;not null" json:"question_text"`
	Order        int                     `gorm:"column:sort_order;not null;default:0" json:"order"`
	Options      []AIAgentQuestionOption `gorm:"foreignKey:QuestionID;references:ID" json:"options"`
}

func (AIAgentQuestion) TableName() string {
	return "ai_agent_questions"
}

func (q *AIAgentQuestion) AfterFind(tx *gorm.DB) error {
	if q.Options == nil {
		q.Options = []AIAgentQuestionOption{}
	}
	return nil
}

// swagger:model AIAgentQuestionOption
type AIAgentQuestionOption struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	QuestionID uint   `gorm:"not null;index" json:"-"`
	OptionText string `gorm:"size:200;not null" json:"option_text"`
	Order      int    `gorm:"column:sort_order;not null;default:0" json:"order"`
}

func (AIAgentQuestionOption) TableName() string {
	return "ai_agent_question_options"
}
