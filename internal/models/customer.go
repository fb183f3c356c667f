package models

import (
	"time"

	"gorm.io/gorm"
)

// Customer 顾客表
type Customer struct {
	ID           uint           `gorm:"primarykey" json:"id"`               // 主键
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`  // 邮箱
	Name         string         `gorm:"type:varchar(100)" json:"name"`      // 姓名
	PasswordHash string         `gorm:"type:varchar(200)" json:"-"`         // 密码哈希
	IsActive     bool           `gorm:"not null" json:"is_active"` // 是否启用
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`            // 创建时间
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`            // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                     // 软删除时间
}

// TableName 指定表名
func (Customer) TableName() string {
	return "customers"
}
