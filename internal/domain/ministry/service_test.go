package ministry_test

import (
	"testing"

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
	); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	return db
}

func newTestConfig() *config.Config {
	return &config.Config{
		Inventory: config.InventoryConfig{ConflictRetries: 3, DefaultCheckoutDays: 14},
	}
}

func TestCreateMinistryAreaDuplicateNameRejected(t *testing.T) {
	svc := ministry.NewService(newTestDB(t), newTestConfig())

	if _, err := svc.CreateMinistryArea(&ministry.CreateRequest{Name: "Worship"}); err != nil {
		t.Fatalf("CreateMinistryArea: %v", err)
	}
	if _, err := svc.CreateMinistryArea(&ministry.CreateRequest{Name: "Worship"}); err == nil {
		t.Error("expected duplicate name to be rejected")
	}
}

func TestUpdateMinistryAreaUnknownLeaderRejected(t *testing.T) {
	svc := ministry.NewService(newTestDB(t), newTestConfig())

	area, _ := svc.CreateMinistryArea(&ministry.CreateRequest{Name: "Youth"})

	missing := uint(99)
	if _, err := svc.UpdateMinistryArea(area.ID, &ministry.UpdateRequest{LeaderID: &missing}); err == nil {
		t.Error("expected unknown leader to be rejected")
	}
}

func TestDeleteMinistryAreaClearsReferences(t *testing.T) {
	db := newTestDB(t)
	svc := ministry.NewService(db, newTestConfig())
	invSvc := inventory.NewService(db, newTestConfig())

	actor := user.User{Email: "staff@example.com", Password: "x", Role: user.RoleStaff, IsActive: true}
	if err := db.Create(&actor).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	worship, _ := svc.CreateMinistryArea(&ministry.CreateRequest{Name: "Worship"})
	youth, _ := svc.CreateMinistryArea(&ministry.CreateRequest{Name: "Youth"})

	item, err := invSvc.CreateItem(&inventory.CreateItemRequest{
		Name:           "Drum Kit",
		Quantity:       1,
		MinistryAreaID: &worship.ID,
	}, actor.ID)
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	if _, err := invSvc.RecordTransaction(&inventory.TransactionRequest{
		ItemID:          item.ID,
		TransactionType: inventory.TransactionTypeTransfer,
		Quantity:        1,
		FromMinistryID:  &worship.ID,
		ToMinistryID:    &youth.ID,
	}, actor.ID); err != nil {
		t.Fatalf("RecordTransaction: %v", err)
	}

	if err := svc.DeleteMinistryArea(worship.ID); err != nil {
		t.Fatalf("DeleteMinistryArea: %v", err)
	}

	// The transfer's source reference must be cleared, not cascaded away.
	transactions, _ := invSvc.GetTransactions(item.ID, 10)
	if len(transactions) != 2 {
		t.Fatalf("expected ledger to survive, got %d entries", len(transactions))
	}
	for _, txn := range transactions {
		if txn.FromMinistryID != nil && *txn.FromMinistryID == worship.ID {
			t.Error("expected from_ministry reference to be cleared")
		}
	}

	if _, err := svc.GetMinistryArea(worship.ID); err == nil {
		t.Error("expected deleted ministry area to be gone")
	}
}
