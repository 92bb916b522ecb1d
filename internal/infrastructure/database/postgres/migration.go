// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/your-org/church-inventory-backend/internal/domain/checkout"
	"github.com/your-org/church-inventory-backend/internal/domain/inventory"
	"github.com/your-org/church-inventory-backend/internal/domain/ministry"
	"github.com/your-org/church-inventory-backend/internal/domain/user"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	// Define all models that need migration in dependency order
	models := []interface{}{
		// User domain - base tables
		&user.User{},

		// Ministry area registry
		&ministry.MinistryArea{},

		// Inventory domain
		&inventory.Category{},
		&inventory.Item{},
		&inventory.InventoryTransaction{},
		&inventory.Maintenance{},

		// Checkout domain
		&checkout.ItemCheckout{},
	}

	// Run auto-migration for each model
	for _, model := range models {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_email_active ON users(email, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_users_role ON users(role)",

		// Item indexes
		"CREATE INDEX IF NOT EXISTS idx_items_category ON items(category_id)",
		"CREATE INDEX IF NOT EXISTS idx_items_ministry_area ON items(ministry_area_id)",
		"CREATE INDEX IF NOT EXISTS idx_items_condition ON items(condition)",
		"CREATE INDEX IF NOT EXISTS idx_items_low_stock ON items(quantity, min_quantity)",
		"CREATE INDEX IF NOT EXISTS idx_items_name ON items(name)",

		// Category indexes
		"CREATE INDEX IF NOT EXISTS idx_categories_parent ON categories(parent_id)",

		// Transaction ledger indexes
		"CREATE INDEX IF NOT EXISTS idx_inventory_transactions_item_created ON inventory_transactions(item_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_inventory_transactions_type ON inventory_transactions(transaction_type)",
		"CREATE INDEX IF NOT EXISTS idx_inventory_transactions_conducted_by ON inventory_transactions(conducted_by_id)",
		"CREATE INDEX IF NOT EXISTS idx_inventory_transactions_created_at ON inventory_transactions(created_at DESC)",

		// Maintenance indexes
		"CREATE INDEX IF NOT EXISTS idx_maintenance_item_date ON maintenance_records(item_id, maintenance_date DESC)",
		"CREATE INDEX IF NOT EXISTS idx_maintenance_next_date ON maintenance_records(next_maintenance_date)",

		// Checkout indexes
		"CREATE INDEX IF NOT EXISTS idx_item_checkouts_item_active ON item_checkouts(item_id, checked_in_date)",
		"CREATE INDEX IF NOT EXISTS idx_item_checkouts_user ON item_checkouts(checked_out_by_id)",
		"CREATE INDEX IF NOT EXISTS idx_item_checkouts_due_date ON item_checkouts(due_date)",
	}

	successCount := 0
	failCount := 0

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("⚠️ Failed to create index: %v", err)
			failCount++
		} else {
			successCount++
		}
	}

	log.Printf("✅ Created %d indexes successfully (%d failed)", successCount, failCount)
	return nil
}

// SeedInitialData inserts initial data into the database
func (m *Migration) SeedInitialData() error {
	log.Println("🌱 Seeding initial data...")

	if err := m.seedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	if err := m.seedCategories(); err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}

	if err := m.seedMinistryAreas(); err != nil {
		return fmt.Errorf("failed to seed ministry areas: %w", err)
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}

// seedAdminUser creates the default admin account
func (m *Migration) seedAdminUser() error {
	log.Println("👤 Seeding admin user...")

	var existing user.User
	result := m.db.Where("email = ?", "admin@example.com").First(&existing)
	if result.Error == nil {
		log.Println("⏭️ Admin user already exists")
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("Admin123!"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := user.User{
		Email:     "admin@example.com",
		Password:  string(hashedPassword),
		FirstName: "System",
		LastName:  "Administrator",
		Role:      user.RoleAdmin,
		IsActive:  true,
	}

	if err := m.db.Create(&admin).Error; err != nil {
		return err
	}

	log.Println("✅ Created admin user: admin@example.com")
	return nil
}

// seedCategories creates default inventory categories
func (m *Migration) seedCategories() error {
	log.Println("🏷️ Seeding categories...")

	categories := []inventory.Category{
		{
			Name:        "Audio/Visual Equipment",
			Description: "Sound systems, projectors, microphones, and cables",
		},
		{
			Name:        "Furniture",
			Description: "Chairs, tables, and platform furnishings",
		},
		{
			Name:        "Kitchen Supplies",
			Description: "Cookware, serving equipment, and appliances",
		},
		{
			Name:        "Office Supplies",
			Description: "Stationery, printers, and office equipment",
		},
		{
			Name:        "Musical Instruments",
			Description: "Keyboards, guitars, drums, and accessories",
		},
	}

	for _, category := range categories {
		var existing inventory.Category
		result := m.db.Where("name = ? AND parent_id IS NULL", category.Name).First(&existing)
		if result.Error != nil {
			if err := m.db.Create(&category).Error; err != nil {
				return err
			}
			log.Printf("✅ Created category: %s", category.Name)
		} else {
			log.Printf("⏭️ Category already exists: %s", category.Name)
		}
	}

	return nil
}

// seedMinistryAreas creates default ministry areas
func (m *Migration) seedMinistryAreas() error {
	log.Println("⛪ Seeding ministry areas...")

	areas := []ministry.MinistryArea{
		{
			Name:        "Worship",
			Description: "Worship team and sanctuary operations",
			Location:    "Main Sanctuary",
		},
		{
			Name:        "Children's Ministry",
			Description: "Sunday school and children's programs",
			Location:    "Education Wing",
		},
		{
			Name:        "Hospitality",
			Description: "Kitchen, events, and welcome team",
			Location:    "Fellowship Hall",
		},
		{
			Name:        "Facilities",
			Description: "Building maintenance and grounds",
			Location:    "Maintenance Room",
		},
	}

	for _, area := range areas {
		var existing ministry.MinistryArea
		result := m.db.Where("name = ?", area.Name).First(&existing)
		if result.Error != nil {
			if err := m.db.Create(&area).Error; err != nil {
				return err
			}
			log.Printf("✅ Created ministry area: %s", area.Name)
		} else {
			log.Printf("⏭️ Ministry area already exists: %s", area.Name)
		}
	}

	return nil
}

// GetTableInfo logs row counts for the main tables
func (m *Migration) GetTableInfo() {
	tables := []string{
		"users",
		"ministry_areas",
		"categories",
		"items",
		"inventory_transactions",
		"maintenance_records",
		"item_checkouts",
	}

	log.Println("📊 Table info:")
	for _, table := range tables {
		var count int64
		if err := m.db.Table(table).Count(&count).Error; err != nil {
			log.Printf("  %s: error (%v)", table, err)
			continue
		}
		log.Printf("  %s: %d rows", table, count)
	}
}
