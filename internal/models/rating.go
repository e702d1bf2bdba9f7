package models

import "time"

// Rating is one user's 1-5 score for one store. The composite unique index
// backs the upsert on submit: resubmitting overwrites, never duplicates.
type Rating struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_ratings_user_store"`
	StoreID   uint `gorm:"not null;uniqueIndex:idx_ratings_user_store"`
	Rating    int  `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	User  *User  `gorm:"foreignKey:UserID"`
	Store *Store `gorm:"foreignKey:StoreID"`
}
