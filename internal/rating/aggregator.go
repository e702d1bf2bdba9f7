// Package rating owns the aggregate computations and the submit upsert.
package rating

import (
	"errors"
	"math"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gauravpatil09/rating-app/internal/models"
)

var (
	ErrOutOfRange    = errors.New("rating must be 1-5")
	ErrStoreNotFound = errors.New("store not found")
)

// AverageForStore returns the arithmetic mean of all ratings for the store,
// 0 when the store has no ratings. Unrounded; callers round for display.
func AverageForStore(db *gorm.DB, storeID uint) (float64, error) {
	var avg float64
	err := db.Raw(
		"SELECT COALESCE(AVG(rating), 0) FROM ratings WHERE store_id = ?",
		storeID,
	).Scan(&avg).Error
	return avg, err
}

// AverageForOwner averages across every rating of every store the owner
// holds. 0 when the owner has no stores or the stores have no ratings.
func AverageForOwner(db *gorm.DB, ownerID uint) (float64, error) {
	var avg float64
	err := db.Raw(
		`SELECT COALESCE(AVG(r.rating), 0)
		 FROM ratings r
		 JOIN stores s ON s.id = r.store_id
		 WHERE s.owner_id = ?`,
		ownerID,
	).Scan(&avg).Error
	return avg, err
}

// ByUserForStore returns the caller's own rating for the store, nil when
// they have not rated it. nil is deliberate: 0 is not a valid rating value,
// so "no rating" must stay distinguishable.
func ByUserForStore(db *gorm.DB, storeID, userID uint) (*int, error) {
	var r models.Rating
	err := db.Where("store_id = ? AND user_id = ?", storeID, userID).First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r.Rating, nil
}

// Submit upserts the (user, store) rating. The write is a single
// INSERT ... ON CONFLICT against the unique (user_id, store_id) index, so
// two concurrent submissions can never produce two rows. The returned
// created flag drives the response message only and is resolved by a prior
// read; under a race both callers may see "updated", which is fine.
func Submit(db *gorm.DB, storeID, userID uint, value int) (created bool, err error) {
	if value < 1 || value > 5 {
		return false, ErrOutOfRange
	}

	var storeCount int64
	if err := db.Model(&models.Store{}).Where("id = ?", storeID).Count(&storeCount).Error; err != nil {
		return false, err
	}
	if storeCount == 0 {
		return false, ErrStoreNotFound
	}

	var existing int64
	if err := db.Model(&models.Rating{}).
		Where("store_id = ? AND user_id = ?", storeID, userID).
		Count(&existing).Error; err != nil {
		return false, err
	}

	r := models.Rating{UserID: userID, StoreID: storeID, Rating: value}
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "store_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "updated_at"}),
	}).Create(&r).Error
	if err != nil {
		return false, err
	}

	return existing == 0, nil
}

// Round2 rounds an average to two decimal places for display.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
