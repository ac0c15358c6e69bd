package models

import "time"

// User 用户模型
type User struct {
	ID        uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Username  string     `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Nickname  string     `json:"nickname" gorm:"size:50"`
	Password  string     `json:"-" gorm:"not null"`
	LastLogin *time.Time `json:"last_login" gorm:"default:NULL"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
