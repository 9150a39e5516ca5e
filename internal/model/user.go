package model

import (
	"time"
)

const (
	UserStatusActive   int8 = 1
	UserStatusInactive int8 = 2
	UserStatusBanned   int8 = 3
)

type User struct {
	ID           uint64    `gorm:"primaryKey"`
	Username     string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_username" json:"username"`
	Password     string    `gorm:"type:varchar(255);not null" json:"-"`
	Role         string    `gorm:"type:varchar(20);not null;default:'USER'" json:"role"`
	Status       int8      `gorm:"not null;default:1" json:"status"` // 1:活跃, 2:沉默, 3:封禁
	LastActiveAt time.Time `gorm:"not null;index:idx_users_last_active_at" json:"last_active_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
