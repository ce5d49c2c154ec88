package repository

import (
	"ai_academy_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// byOrder 按 (order, id) 排序，用于列表与预加载
func byOrder(db *gorm.DB) *gorm.DB {
	return db.Order(model.OrderBySort)
}

// lockForUpdate SQLite 不支持行锁，其事务本身已串行化
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func exists(db *gorm.DB, value interface{}, query string, args ...interface{}) (bool, error) {
	var count int64
	err := db.Model(value).Where(query, args...).Count(&count).Error
	return count > 0, err
}
