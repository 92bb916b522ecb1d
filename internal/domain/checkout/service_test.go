package checkout

import (
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/your-org/church-inventory-backend/internal/config"
	"github.com/your-org/church-inventory-backend/internal/domain/inventory"
	"github.com/your-org/church-inventory-backend/internal/domain/ministry"
	"github.com/your-org/church-inventory-backend/internal/domain/user"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&user.User{},
		&ministry.MinistryArea{},
		&inventory.Category{},
		&inventory.Item{},
		&inventory.InventoryTransaction{},
		&ItemCheckout{},
	); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	return db
}

func newTestConfig() *config.Config {
	return &config.Config{
		Inventory: config.InventoryConfig{
			ConflictRetries:     3,
			DefaultCheckoutDays: 14,
		},
	}
}

func seedUser(t *testing.T, db *gorm.DB, email string) uint {
	t.Helper()

	u := user.User{Email: email, Password: "irrelevant-hash", IsActive: true}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u.ID
}

func seedItem(t *testing.T, db *gorm.DB, name string, quantity int) uint {
	t.Helper()

	item := inventory.Item{Name: name, Quantity: quantity, Condition: inventory.ConditionGood}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("seed item: %v", err)
	}
	return item.ID
}

func TestCheckoutReducesAvailability(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, newTestConfig())
	borrower := seedUser(t, db, "volunteer@example.com")
	itemID := seedItem(t, db, "Coffee Urn", 5)

	record, err := svc.Checkout(&CheckoutRequest{ItemID: itemID, Quantity: 3}, borrower)
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if !record.IsActive() {
		t.Error("fresh checkout must be active")
	}

	available, err := svc.AvailableQuantity(itemID)
	if err != nil {
		t.Fatalf("AvailableQuantity: %v", err)
	}
	if available != 2 {
		t.Errorf("expected 2 available, got %d", available)
	}

	// Stock itself is untouched; checkouts reserve, they do not remove.
	var item inventory.Item
	db.First(&item, itemID)
	if item.Quantity != 5 {
		t.Errorf("expected item quantity to stay 5, got %d", item.Quantity)
	}
}

func TestCheckoutBeyondAvailabilityRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, newTestConfig())
	borrower := seedUser(t, db, "volunteer@example.com")
	itemID := seedItem(t, db, "Folding Tables", 5)

	if _, err := svc.Checkout(&CheckoutRequest{ItemID: itemID, Quantity: 3}, borrower); err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	_, err := svc.Checkout(&CheckoutRequest{ItemID: itemID, Quantity: 3}, borrower)
	if !errors.Is(err, inventory.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
}

func TestCheckInRestoresAvailabilityAndIsTerminal(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, newTestConfig())
	borrower := seedUser(t, db, "volunteer@example.com")
	itemID := seedItem(t, db, "Projector", 1)

	record, _ := svc.Checkout(&CheckoutRequest{ItemID: itemID, Quantity: 1}, borrower)

	returned, err := svc.CheckIn(record.ID)
	if err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	if returned.IsActive() {
		t.Error("checked-in record must not be active")
	}
	if returned.Status() != StatusReturned {
		t.Errorf("expected status %q, got %q", StatusReturned, returned.Status())
	}

	available, _ := svc.AvailableQuantity(itemID)
	if available != 1 {
		t.Errorf("expected availability restored to 1, got %d", available)
	}

	// A second check-in must fail and leave the original timestamp alone.
	firstCheckIn := *returned.CheckedInDate
	if _, err := svc.CheckIn(record.ID); !errors.Is(err, ErrAlreadyReturned) {
		t.Fatalf("expected ErrAlreadyReturned, got %v", err)
	}
	var reloaded ItemCheckout
	db.First(&reloaded, record.ID)
	if !reloaded.CheckedInDate.Equal(firstCheckIn) {
		t.Error("second check-in attempt must not move the checked-in timestamp")
	}
}

func TestDefaultDueDateApplied(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, newTestConfig())
	borrower := seedUser(t, db, "volunteer@example.com")
	itemID := seedItem(t, db, "Cooler", 1)

	record, err := svc.Checkout(&CheckoutRequest{ItemID: itemID, Quantity: 1}, borrower)
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	expected := time.Now().AddDate(0, 0, 14)
	if diff := record.DueDate.Sub(expected); diff < -time.Hour || diff > time.Hour {
		t.Errorf("expected due date around %v, got %v", expected, record.DueDate)
	}
}

func TestOverdueDetection(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, newTestConfig())
	borrower := seedUser(t, db, "volunteer@example.com")
	itemID := seedItem(t, db, "Sound Board", 1)

	yesterday := time.Now().AddDate(0, 0, -1)
	record, err := svc.Checkout(&CheckoutRequest{
		ItemID:   itemID,
		Quantity: 1,
		DueDate:  &yesterday,
	}, borrower)
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	if !record.IsOverdue() {
		t.Error("checkout due yesterday must be overdue")
	}
	if record.Status() != StatusOverdue {
		t.Errorf("expected status %q, got %q", StatusOverdue, record.Status())
	}

	resp, err := svc.ListCheckouts(&ListCheckoutsRequest{OverdueOnly: true})
	if err != nil {
		t.Fatalf("ListCheckouts: %v", err)
	}
	if resp.Total != 1 {
		t.Errorf("expected 1 overdue checkout, got %d", resp.Total)
	}

	// Returned checkouts are never overdue, whatever the due date.
	svc.CheckIn(record.ID)
	reloaded, _ := svc.GetCheckout(record.ID)
	if reloaded.IsOverdue() {
		t.Error("returned checkout must not be overdue")
	}
}

func TestDueTodayIsNotOverdue(t *testing.T) {
	record := ItemCheckout{DueDate: time.Now()}
	if record.IsOverdue() {
		t.Error("checkout due today must not count as overdue")
	}
}

func TestDueTodayInForeignZoneIsNotOverdue(t *testing.T) {
	// The due date is this very instant, carried in zones whose wall
	// calendar differs from the local one. Overdue is decided on the
	// local calendar day, so neither may count as overdue.
	for _, offset := range []int{14 * 3600, -12 * 3600} {
		record := ItemCheckout{DueDate: time.Now().In(time.FixedZone("", offset))}
		if record.IsOverdue() {
			t.Errorf("checkout due now (zone offset %ds) must not count as overdue", offset)
		}
	}
}

func TestBeginningOfDayKeepsLocation(t *testing.T) {
	loc := time.FixedZone("UTC-6", -6*3600)
	in := time.Date(2026, 3, 14, 23, 45, 12, 0, loc)
	got := beginningOfDay(in)
	want := time.Date(2026, 3, 14, 0, 0, 0, 0, loc)
	if !got.Equal(want) || got.Location() != loc {
		t.Errorf("beginningOfDay(%v) = %v, want %v", in, got, want)
	}
}

func TestCheckoutUnknownUserRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, newTestConfig())
	itemID := seedItem(t, db, "Tent", 1)

	_, err := svc.Checkout(&CheckoutRequest{ItemID: itemID, Quantity: 1}, 999)
	if !errors.Is(err, inventory.ErrReferentialIntegrity) {
		t.Fatalf("expected ErrReferentialIntegrity, got %v", err)
	}
}

func TestCheckoutUnknownItemRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, newTestConfig())
	borrower := seedUser(t, db, "volunteer@example.com")

	_, err := svc.Checkout(&CheckoutRequest{ItemID: 999, Quantity: 1}, borrower)
	if !errors.Is(err, inventory.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestListMyCheckoutsFiltersByUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, newTestConfig())
	alice := seedUser(t, db, "alice@example.com")
	bob := seedUser(t, db, "bob@example.com")
	itemID := seedItem(t, db, "Chairs", 10)

	svc.Checkout(&CheckoutRequest{ItemID: itemID, Quantity: 2}, alice)
	svc.Checkout(&CheckoutRequest{ItemID: itemID, Quantity: 3}, bob)

	resp, err := svc.ListCheckouts(&ListCheckoutsRequest{UserID: &alice})
	if err != nil {
		t.Fatalf("ListCheckouts: %v", err)
	}
	if resp.Total != 1 {
		t.Fatalf("expected 1 checkout for alice, got %d", resp.Total)
	}
	if resp.Checkouts[0].CheckedOutByID != alice {
		t.Errorf("expected checkout owned by %d, got %d", alice, resp.Checkouts[0].CheckedOutByID)
	}
}

func TestDeleteItemBlockedWhileCheckedOut(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, newTestConfig())
	invSvc := inventory.NewService(db, newTestConfig())
	borrower := seedUser(t, db, "volunteer@example.com")
	itemID := seedItem(t, db, "Easel", 1)

	record, _ := svc.Checkout(&CheckoutRequest{ItemID: itemID, Quantity: 1}, borrower)

	if err := invSvc.DeleteItem(itemID); !errors.Is(err, inventory.ErrItemCheckedOut) {
		t.Fatalf("expected ErrItemCheckedOut while units are checked out, got %v", err)
	}

	svc.CheckIn(record.ID)
	if err := invSvc.DeleteItem(itemID); err != nil {
		t.Fatalf("expected delete to succeed after check-in: %v", err)
	}
}
