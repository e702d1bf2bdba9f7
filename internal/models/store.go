package models

import "time"

type Store struct {
	ID      uint    `gorm:"primaryKey"`
	Name    string  `gorm:"size:60;not null"`
	Email   *string `gorm:"size:120"`
	Address *string `gorm:"size:400"`
	// OwnerID is a weak reference: a store may be unowned, and deleting the
	// owner nulls it out instead of deleting the store.
	OwnerID   *uint
	Owner     *User `gorm:"foreignKey:OwnerID"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Ratings []Rating `gorm:"foreignKey:StoreID"`
}
