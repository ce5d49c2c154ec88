package database

import (
	"ai_academy_backend/internal/config"
	"ai_academy_backend/internal/model"
	"ai_academy_backend/pkg/logger"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Models 迁移顺序：被引用的表在前
var Models = []interface{}{
	&model.User{},
	&model.Module{},
	&model.Lesson{},
	&model.Question{},
	&model.Answer{},
	&model.UserProgress{},
	&model.TestResult{},
	&model.AIAgent{},
	&model.AIAgentQuestion{},
	&model.AIAgentQuestionOption{},
}

func dialector(cfg *config.DatabaseConfig) gorm.Dialector {
	if cfg.Driver == config.DriverPostgres {
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
			cfg.Host,
			cfg.User,
			cfg.Password,
			cfg.DBName,
			cfg.Port,
			cfg.SSLMode,
		)
		return postgres.Open(dsn)
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)
	return mysql.Open(dsn)
}

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if cfg.Server.Mode == "debug" {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(dialector(&cfg.Database), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	logger.Log.Info("Database connection established", zap.String("driver", cfg.Database.Driver))

	// release 模式下仅在显式要求时迁移
	if cfg.Server.Mode != "release" || cfg.ForceMigrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
		logger.Log.Info("Database migration completed")

		if err := Seed(db); err != nil {
			return nil, err
		}
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models...)
}

type seedQuestion struct {
	text    string
	options []string
}

// 默认 AI 代理问卷，十个问题依次对应 AIAgent 的十个配置字段
var defaultAgentQuestions = []seedQuestion{
	{"Which area should your AI agent work in?", []string{"Customer support", "Data analysis", "Content creation", "Task automation"}},
	{"How autonomous should the agent be?", []string{"Suggestions only", "Acts after confirmation", "Acts on its own within limits", "Fully autonomous"}},
	{"What kind of data will it work with?", []string{"Text documents", "Spreadsheets", "Images", "Mixed data"}},
	{"Which language model do you prefer?", []string{"GPT-4", "Claude", "Gemini", "Open-source model"}},
	{"How fast should it respond?", []string{"Instantly", "Within a few seconds", "Within a minute", "Speed is not critical"}},
	{"Which integrations does it need?", []string{"Email", "Messengers", "CRM", "No integrations"}},
	{"How personalized should it be?", []string{"Generic answers", "Adapts to the team", "Adapts to each user", "Deep personalization"}},
	{"How will you measure success?", []string{"Time saved", "Answer accuracy", "User satisfaction", "Cost reduction"}},
	{"Should the agent learn from feedback?", []string{"No", "From explicit feedback", "From usage history", "Continuously"}},
	{"What is your monthly budget?", []string{"Free tier", "Up to $50", "Up to $500", "Over $500"}},
}

// Seed 在问卷表为空时写入默认问题
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.AIAgentQuestion{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for i, q := range defaultAgentQuestions {
			question := model.AIAgentQuestion{
				QuestionID:   i + 1,
				QuestionText: q.text,
				Order:        i,
			}
			for j, text := range q.options {
				question.Options = append(question.Options, model.AIAgentQuestionOption{
					OptionText: text,
					Order:      j,
				})
			}
			if err := tx.Create(&question).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
