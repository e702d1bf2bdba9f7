package models

import "time"

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
	RoleOwner UserRole = "owner"
)

// ValidRole reports whether r is one of the three known roles.
func ValidRole(r UserRole) bool {
	switch r {
	case RoleAdmin, RoleUser, RoleOwner:
		return true
	}
	return false
}

type User struct {
	ID           uint     `gorm:"primaryKey"`
	Name         string   `gorm:"size:60;not null"`
	Email        string   `gorm:"size:120;uniqueIndex;not null"`
	Address      *string  `gorm:"size:400"`
	PasswordHash string   `gorm:"size:255;not null"`
	Role         UserRole `gorm:"size:20;not null;default:user"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Ratings []Rating `gorm:"foreignKey:UserID"`
	Stores  []Store  `gorm:"foreignKey:OwnerID"`
}
