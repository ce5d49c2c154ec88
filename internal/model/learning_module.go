package model

import (
	"gorm.io/gorm"
)

type ModuleIcon string

const (
	IconBrain           ModuleIcon = "Brain"
	IconCpu             ModuleIcon = "Cpu"
	IconFileSpreadsheet ModuleIcon = "FileSpreadsheet"
	IconImage           ModuleIcon = "Image"
	IconFileText        ModuleIcon = "FileText"
)

// swagger:model Module
type Module struct {
	BaseModel
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `gorm:"type:text;not null" json:"description"`
	Icon        ModuleIcon `gorm:"size:50;not null" json:"icon"`
	Duration    int        `gorm:"not null;comment:时长（分钟）" json:"duration"`
	Order       int        `gorm:"column:sort_order;not null;default:0" json:"order"`
	IsActive    bool       `gorm:"not null;index" json:"is_active"`
	Lessons     []Lesson   `gorm:"foreignKey:ModuleID" json:"lessons"`
	Questions   []Question `gorm:"foreignKey:ModuleID" json:"questions"`
	LessonCount int        `gorm:"-" json:"lesson_count"`
}

func (Module) TableName() string {
	return "modules"
}

func (m *Module) AfterFind(tx *gorm.DB) error {
	if m.Lessons == nil {
		m.Lessons = []Lesson{}
	}
	if m.Questions == nil {
		m.Questions = []Question{}
	}
	m.LessonCount = len(m.Lessons)
	return nil
}

// swagger:model Lesson
type Lesson struct {
	BaseModel
	ModuleID      uint       `gorm:"not null;uniqueIndex:idx_lessons_module_order" json:"module"`
	Title         string     `gorm:"size:200;not null" json:"title"`
	Content       string     `gorm:"type:text;not null" json:"content"`
	VideoURL      *string    `gorm:"size:200" json:"video_url"`
	VideoTitle    *string    `gorm:"size:200" json:"video_title"`
	VideoChannel  *string    `gorm:"size:200" json:"video_channel"`
	VideoDuration *string    `gorm:"size:50" json:"video_duration"`
	Order         int        `gorm:"column:sort_order;not null;default:0;uniqueIndex:idx_lessons_module_order" json:"order"`
	Questions     []Question `gorm:"foreignKey:LessonID" json:"questions"`
}

func (Lesson) TableName() string {
	return "lessons"
}

func (l *Lesson) AfterFind(tx *gorm.DB) error {
	if l.Questions == nil {
		l.Questions = []Question{}
	}
	return nil
}

type QuestionType string

const (
	SingleChoice   QuestionType = "single"
	MultipleChoice QuestionType = "multiple"
)

// swagger:model Question
type Question struct {
	BaseModel
	ModuleID     uint         `gorm:"not null;index" json:"module"`
	LessonID     *uint        `gorm:"index" json:"lesson"`
	QuestionText string       `gorm:"type:text;not null" json:"question_text"`
	QuestionType QuestionType `gorm:"size:20;not null" json:"question_type"`
	Order        int          `gorm:"column:sort_order;not null;default:0" json:"order"`
	Answers      []Answer     `gorm:"foreignKey:QuestionID" json:"answers"`
}

func (Question) TableName() string {
	return "questions"
}

func (q *Question) AfterFind(tx *gorm.DB) error {
	if q.Answers == nil {
		q.Answers = []Answer{}
	}
	return nil
}

// swagger:model Answer
type Answer struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	QuestionID uint   `gorm:"not null;index" json:"question"`
	AnswerText string `gorm:"size:500;not null" json:"answer_text"`
	IsCorrect  bool   `gorm:"not null" json:"is_correct"`
	Order      int    `gorm:"column:sort_order;not null;default:0" json:"order"`
}

func (Answer) TableName() string {
	return "answers"
}
