package models

import "time"

type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
)

// AuditLog records an admin mutation. Actor email is denormalized so the
// trail stays readable after the user is deleted.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID    uint   `json:"user_id"`
	UserEmail string `gorm:"size:120" json:"user_email"`

	// EntityType is "user" or "store".
	EntityType string `gorm:"size:50;index" json:"entity_type"`
	EntityID   uint   `gorm:"index" json:"entity_id"`

	Action      AuditAction `gorm:"size:20" json:"action"`
	Description string      `gorm:"size:255" json:"description"`

	// Before/after snapshots as JSON strings ("null" when not applicable).
	BeforeData string `json:"before_data"`
	AfterData  string `json:"after_data"`
}
