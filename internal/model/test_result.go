package model

import (
	"time"

	"gorm.io/gorm"
)

// TestResult 模块期末测试（LessonID 为空）或课时小测的一次成绩
// swagger:model TestResult
type TestResult struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint      `gorm:"not null;index:idx_results_user_module" json:"user"`
	ModuleID    uint      `gorm:"not null;index:idx_results_user_module" json:"module"`
	LessonID    *uint     `gorm:"index" json:"lesson"`
	Score       int       `gorm:"not null" json:"score"`
	Passed      bool      `gorm:"not null" json:"passed"`
	CompletedAt time.Time `gorm:"autoCreateTime;index" json:"completed_at"`
	UserName    string    `gorm:"-" json:"user_name"`
	ModuleTitle string    `gorm:"-" json:"module_title"`
	LessonTitle *string   `gorm:"-" json:"lesson_title"`
	User        *User     `gorm:"foreignKey:UserID" json:"-"`
	Module      *Module   `gorm:"foreignKey:ModuleID" json:"-"`
	Lesson      *Lesson   `gorm:"foreignKey:LessonID" json:"-"`
}

func (TestResult) TableName() string {
	return "test_results"
}

// IsFinal 是否为模块期末测试成绩
func (r *TestResult) IsFinal() bool {
	return r.LessonID == nil
}

func (r *TestResult) AfterFind(tx *gorm.DB) error {
	if r.User != nil {
		r.UserName = r.User.Username
	}
	if r.Module != nil {
		r.ModuleTitle = r.Module.Title
	}
	if r.Lesson != nil {
		title := r.Lesson.Title
		r.LessonTitle = &title
	}
	return nil
}
