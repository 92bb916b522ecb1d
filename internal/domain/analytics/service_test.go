package analytics

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/your-org/church-inventory-backend/internal/config"
	"github.com/your-org/church-inventory-backend/internal/domain/checkout"
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
		&checkout.ItemCheckout{},
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

func TestDashboardStats(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, newTestConfig())
	invSvc := inventory.NewService(db, newTestConfig())

	actor := user.User{Email: "staff@example.com", Password: "x", Role: user.RoleStaff, IsActive: true}
	if err := db.Create(&actor).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	if _, err := invSvc.CreateItem(&inventory.CreateItemRequest{
		Name:      "Chairs",
		Quantity:  10,
		UnitValue: decimal.RequireFromString("12.50"),
	}, actor.ID); err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if _, err := invSvc.CreateItem(&inventory.CreateItemRequest{
		Name:        "Candles",
		Quantity:    2,
		MinQuantity: 5,
		UnitValue:   decimal.RequireFromString("1.25"),
	}, actor.ID); err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	stats, err := svc.GetDashboardStats()
	if err != nil {
		t.Fatalf("GetDashboardStats: %v", err)
	}

	if stats.TotalItems != 2 {
		t.Errorf("expected 2 items, got %d", stats.TotalItems)
	}
	if stats.TotalUnits != 12 {
		t.Errorf("expected 12 units, got %d", stats.TotalUnits)
	}
	// 10*12.50 + 2*1.25 = 127.50
	if !stats.TotalInventoryValue.Equal(decimal.RequireFromString("127.5")) {
		t.Errorf("expected total value 127.50, got %s", stats.TotalInventoryValue)
	}
	if stats.LowStockItems != 1 {
		t.Errorf("expected 1 low stock item, got %d", stats.LowStockItems)
	}
	if stats.TransactionsToday != 2 {
		t.Errorf("expected 2 opening transactions today, got %d", stats.TransactionsToday)
	}
	if stats.TotalUsers != 1 || stats.ActiveUsers != 1 {
		t.Errorf("expected 1 active user, got %d/%d", stats.ActiveUsers, stats.TotalUsers)
	}
}

func TestTransactionSummaryGroupsByType(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, newTestConfig())
	invSvc := inventory.NewService(db, newTestConfig())

	actor := user.User{Email: "staff@example.com", Password: "x", Role: user.RoleStaff, IsActive: true}
	db.Create(&actor)

	item, _ := invSvc.CreateItem(&inventory.CreateItemRequest{Name: "Bibles", Quantity: 10}, actor.ID)
	invSvc.RecordTransaction(&inventory.TransactionRequest{
		ItemID:          item.ID,
		TransactionType: inventory.TransactionTypeRemoval,
		Quantity:        2,
	}, actor.ID)
	invSvc.RecordTransaction(&inventory.TransactionRequest{
		ItemID:          item.ID,
		TransactionType: inventory.TransactionTypeRemoval,
		Quantity:        1,
	}, actor.ID)

	summary, err := svc.GetTransactionSummary(7)
	if err != nil {
		t.Fatalf("GetTransactionSummary: %v", err)
	}

	counts := make(map[inventory.TransactionType]int64)
	for _, row := range summary {
		counts[row.TransactionType] = row.Count
	}
	if counts[inventory.TransactionTypeAddition] != 1 {
		t.Errorf("expected 1 addition, got %d", counts[inventory.TransactionTypeAddition])
	}
	if counts[inventory.TransactionTypeRemoval] != 2 {
		t.Errorf("expected 2 removals, got %d", counts[inventory.TransactionTypeRemoval])
	}
}

func TestGetLowStockItems(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, newTestConfig())
	invSvc := inventory.NewService(db, newTestConfig())

	actor := user.User{Email: "staff@example.com", Password: "x", Role: user.RoleStaff, IsActive: true}
	db.Create(&actor)

	invSvc.CreateItem(&inventory.CreateItemRequest{Name: "Plenty", Quantity: 50, MinQuantity: 5}, actor.ID)
	invSvc.CreateItem(&inventory.CreateItemRequest{Name: "Scarce", Quantity: 1, MinQuantity: 5}, actor.ID)

	items, err := svc.GetLowStockItems(10)
	if err != nil {
		t.Fatalf("GetLowStockItems: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 low stock item, got %d", len(items))
	}
	if items[0].Name != "Scarce" {
		t.Errorf("expected 'Scarce', got %q", items[0].Name)
	}
}
