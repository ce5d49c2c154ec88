package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	Student UserRole = "student"
	Admin   UserRole = "admin"
)

const DefaultDepartment = "General"

// swagger:model User
type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Password     string    `gorm:"size:128;not null" json:"-"`
	FirstName    string    `gorm:"size:150" json:"first_name"`
	LastName     string    `gorm:"size:150" json:"last_name"`
	Department   string    `gorm:"size:100;not null" json:"department"`
	Role         UserRole  `gorm:"size:20;not null" json:"role"`
	TimeSpent    int       `gorm:"not null;default:0;comment:总学习时长（分钟）" json:"time_spent"`
	LastActivity string    `gorm:"size:10" json:"last_activity"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"-"`
}

func (User) TableName() string {
	return "users"
}

// BeforeSave 每次保存都刷新最近活动日期
func (u *User) BeforeSave(tx *gorm.DB) error {
	today := time.Now().Format(DateFormat)
	u.LastActivity = today
	// map 方式的 Updates 不会读取结构体字段，需要显式写入
	tx.Statement.SetColumn("LastActivity", today)
	return nil
}

// UserDetail 用户详情，附带进度、测试结果与 AI 代理配置
// swagger:model UserDetail
type UserDetail struct {
	User
	Progress    []UserProgress `json:"progress"`
	TestResults []TestResult   `json:"test_results"`
	AIAgent     *AIAgent       `json:"ai_agent"`
}
