package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	// UserStatusLocked blocked from logging in
	UserStatusLocked = "locked"
	// UserStatusActive allowed to log in
	UserStatusActive = "active"
)

// User account. IsAdmin marks the administrator account that can manage
// other users and read the audit log.
type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Username  string         `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Password  string         `json:"-" gorm:"size:255;not null"`
	Email     string         `json:"email" gorm:"size:100"`
	Name      string         `json:"name" gorm:"size:100"`
	IsAdmin   bool           `json:"is_admin" gorm:"default:false;index"`
	Status    string         `json:"status" gorm:"size:20;default:active;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName sets the table name
func (User) TableName() string {
	return "users"
}
