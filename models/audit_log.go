package models

import (
	"time"
)

// Audit log levels
const (
	LogLevelInfo     = "INFO"
	LogLevelWarn     = "WARN"
	LogLevelError    = "ERROR"
	LogLevelCritical = "CRITICAL"
)

// Audit log categories
const (
	LogCategoryAuth    = "AUTH"
	LogCategoryData    = "DATA"
	LogCategorySystem  = "SYSTEM"
	LogCategoryAdmin   = "ADMIN"
	LogCategoryFinance = "FINANCE"
)

// AuditLog is one entry of the system audit trail, browsable by the admin
// account. Details holds the raw event payload as JSON; Description is the
// human-readable line rendered from it at write time.
type AuditLog struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      *uint     `json:"user_id" gorm:"index"`
	Category    string    `json:"category" gorm:"size:20;not null;index"`
	Action      string    `json:"action" gorm:"size:50;not null"`
	Level       string    `json:"level" gorm:"size:10;not null;index"`
	Description string    `json:"description" gorm:"size:500"`
	Details     string    `json:"details" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}

// TableName sets the table name
func (AuditLog) TableName() string {
	return "audit_logs"
}
