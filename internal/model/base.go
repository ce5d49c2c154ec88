package model

import (
	"time"
)

const DateFormat = "2006-01-02"

// swagger:model
type BaseModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// 所有实体按 (order, id) 排序
const OrderBySort = "sort_order, id"
