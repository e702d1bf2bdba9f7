package rating

import (
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gauravpatil09/rating-app/internal/database"
	"github.com/gauravpatil09/rating-app/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// One in-memory sqlite DB per connection; pin the pool to a single one.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string, role models.UserRole) *models.User {
	t.Helper()
	u := &models.User{Name: "Seed User With A Long Name", Email: email, PasswordHash: "x", Role: role}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func seedStore(t *testing.T, db *gorm.DB, name string, ownerID *uint) *models.Store {
	t.Helper()
	s := &models.Store{Name: name, OwnerID: ownerID}
	if err := db.Create(s).Error; err != nil {
		t.Fatalf("seed store: %v", err)
	}
	return s
}

func TestAverageForStoreEmptyIsZero(t *testing.T) {
	db := newTestDB(t)
	store := seedStore(t, db, "Empty Store", nil)

	avg, err := AverageForStore(db, store.ID)
	if err != nil {
		t.Fatalf("AverageForStore: %v", err)
	}
	if avg != 0 {
		t.Errorf("avg = %v, want 0", avg)
	}
}

func TestAverageForStore(t *testing.T) {
	db := newTestDB(t)
	store := seedStore(t, db, "Rated Store", nil)
	u1 := seedUser(t, db, "one@example.com", models.RoleUser)
	u2 := seedUser(t, db, "two@example.com", models.RoleUser)

	for _, pair := range []struct {
		userID uint
		value  int
	}{{u1.ID, 4}, {u2.ID, 2}} {
		if _, err := Submit(db, store.ID, pair.userID, pair.value); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}

	avg, err := AverageForStore(db, store.ID)
	if err != nil {
		t.Fatalf("AverageForStore: %v", err)
	}
	if avg != 3 {
		t.Errorf("avg = %v, want 3", avg)
	}
}

func TestSubmitUpsertKeepsOneRow(t *testing.T) {
	db := newTestDB(t)
	store := seedStore(t, db, "Upsert Store", nil)
	user := seedUser(t, db, "rater@example.com", models.RoleUser)

	created, err := Submit(db, store.ID, user.ID, 4)
	if err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	if !created {
		t.Error("first submit should report created")
	}

	created, err = Submit(db, store.ID, user.ID, 2)
	if err != nil {
		t.Fatalf("second Submit: %v", err)
	}
	if created {
		t.Error("second submit should report updated")
	}

	var rows []models.Rating
	if err := db.Where("store_id = ? AND user_id = ?", store.ID, user.ID).Find(&rows).Error; err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0].Rating != 2 {
		t.Errorf("rating = %d, want 2", rows[0].Rating)
	}

	avg, err := AverageForStore(db, store.ID)
	if err != nil {
		t.Fatalf("AverageForStore: %v", err)
	}
	if avg != 2 {
		t.Errorf("avg = %v, want 2 (single overwritten row, not a mean of two)", avg)
	}
}

func TestSubmitOutOfRange(t *testing.T) {
	db := newTestDB(t)
	store := seedStore(t, db, "Strict Store", nil)
	user := seedUser(t, db, "rater@example.com", models.RoleUser)

	for _, v := range []int{0, 6, -1} {
		if _, err := Submit(db, store.ID, user.ID, v); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("Submit(%d) err = %v, want ErrOutOfRange", v, err)
		}
	}

	var count int64
	if err := db.Model(&models.Rating{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("rejected submissions left %d rows", count)
	}
}

func TestSubmitUnknownStore(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "rater@example.com", models.RoleUser)

	if _, err := Submit(db, 999, user.ID, 3); !errors.Is(err, ErrStoreNotFound) {
		t.Errorf("err = %v, want ErrStoreNotFound", err)
	}
}

func TestByUserForStore(t *testing.T) {
	db := newTestDB(t)
	store := seedStore(t, db, "Some Store", nil)
	user := seedUser(t, db, "rater@example.com", models.RoleUser)

	got, err := ByUserForStore(db, store.ID, user.ID)
	if err != nil {
		t.Fatalf("ByUserForStore: %v", err)
	}
	if got != nil {
		t.Errorf("unrated should be nil, got %v", *got)
	}

	if _, err := Submit(db, store.ID, user.ID, 5); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	got, err = ByUserForStore(db, store.ID, user.ID)
	if err != nil {
		t.Fatalf("ByUserForStore: %v", err)
	}
	if got == nil || *got != 5 {
		t.Errorf("got = %v, want 5", got)
	}
}

func TestAverageForOwner(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com", models.RoleOwner)
	s1 := seedStore(t, db, "First Store", &owner.ID)
	s2 := seedStore(t, db, "Second Store", &owner.ID)
	other := seedStore(t, db, "Unrelated Store", nil)

	u1 := seedUser(t, db, "one@example.com", models.RoleUser)
	u2 := seedUser(t, db, "two@example.com", models.RoleUser)

	mustSubmit := func(storeID, userID uint, v int) {
		t.Helper()
		if _, err := Submit(db, storeID, userID, v); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}
	mustSubmit(s1.ID, u1.ID, 5)
	mustSubmit(s2.ID, u1.ID, 3)
	mustSubmit(s2.ID, u2.ID, 4)
	mustSubmit(other.ID, u1.ID, 1) // unowned store must not count

	avg, err := AverageForOwner(db, owner.ID)
	if err != nil {
		t.Fatalf("AverageForOwner: %v", err)
	}
	if avg != 4 {
		t.Errorf("avg = %v, want 4", avg)
	}
}

func TestAverageForOwnerNoStores(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com", models.RoleOwner)

	avg, err := AverageForOwner(db, owner.ID)
	if err != nil {
		t.Fatalf("AverageForOwner: %v", err)
	}
	if avg != 0 {
		t.Errorf("avg = %v, want 0", avg)
	}
}

func TestRound2(t *testing.T) {
	cases := map[float64]float64{
		3.333333: 3.33,
		3.666666: 3.67,
		0:        0,
		4.999999: 5,
	}
	for in, want := range cases {
		if got := Round2(in); got != want {
			t.Errorf("Round2(%v) = %v, want %v", in, got, want)
		}
	}
}
