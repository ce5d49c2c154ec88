package model

import (
	"gorm.io/gorm"
)

// UserProgress 每个用户在每个模块上最多一条进度记录
// swagger:model UserProgress
type UserProgress struct {
	BaseModel
	UserID           uint    `gorm:"not null;uniqueIndex:idx_progress_user_module" json:"user"`
	ModuleID         uint    `gorm:"not null;uniqueIndex:idx_progress_user_module;index" json:"module"`
	Started          bool    `gorm:"not null" json:"started"`
	ViewedLessons    int     `gorm:"not null" json:"viewed_lessons"`
	CompletedLessons int     `gorm:"not null" json:"completed_lessons"`
	TotalLessons     int     `gorm:"not null" json:"total_lessons"`
	UserName         string  `gorm:"-" json:"user_name"`
	ModuleTitle      string  `gorm:"-" json:"module_title"`
	User             *User   `gorm:"foreignKey:UserID" json:"-"`
	Module           *Module `gorm:"foreignKey:ModuleID" json:"-"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}

func (p *UserProgress) AfterFind(tx *gorm.DB) error {
	if p.User != nil {
		p.UserName = p.User.Username
	}
	if p.Module != nil {
		p.ModuleTitle = p.Module.Title
	}
	return nil
}
