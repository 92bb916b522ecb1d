// internal/domain/inventory/entity.go
package inventory

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/church-inventory-backend/internal/domain/ministry"
	"github.com/your-org/church-inventory-backend/internal/domain/user"
	"gorm.io/gorm"
)

// ItemCondition represents the physical condition of an item
type ItemCondition string

const (
	ConditionNew       ItemCondition = "new"
	ConditionExcellent ItemCondition = "excellent"
	ConditionGood      ItemCondition = "good"
	ConditionFair      ItemCondition = "fair"
	ConditionPoor      ItemCondition = "poor"
	ConditionDamaged   ItemCondition = "damaged"
)

// IsValid checks whether the condition is one of the known values
func (c ItemCondition) IsValid() bool {
	switch c {
	case ConditionNew, ConditionExcellent, ConditionGood, ConditionFair, ConditionPoor, ConditionDamaged:
		return true
	}
	return false
}

// TransactionType represents the type of an inventory transaction
type TransactionType string

const (
	TransactionTypeAddition   TransactionType = "ADD"
	TransactionTypeRemoval    TransactionType = "REMOVE"
	TransactionTypeAdjustment TransactionType = "ADJUST"
	TransactionTypeTransfer   TransactionType = "TRANSFER"
)

// IsValid checks whether the transaction type is one of the known values
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeAddition, TransactionTypeRemoval, TransactionTypeAdjustment, TransactionTypeTransfer:
		return true
	}
	return false
}

// Category represents a hierarchical item label
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null;size:100" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	ParentID    *uint     `gorm:"index" json:"parent_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relationships
	Parent   *Category  `gorm:"foreignKey:ParentID;constraint:OnDelete:SET NULL" json:"parent,omitempty"`
	Children []Category `gorm:"foreignKey:ParentID" json:"children,omitempty"`
}

// Item represents an inventory record
type Item struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	Name            string          `gorm:"not null;size:200;index" json:"name"`
	Description     string          `gorm:"type:text" json:"description"`
	CategoryID      *uint           `gorm:"index" json:"category_id"`
	MinistryAreaID  *uint           `gorm:"index" json:"ministry_area_id"`
	Quantity        int             `gorm:"not null;default:0" json:"quantity"`
	MinQuantity     int             `gorm:"not null;default:0" json:"min_quantity"`
	UnitValue       decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"unit_value"`
	Condition       ItemCondition   `gorm:"size:20;default:'good'" json:"condition"`
	AcquisitionDate *time.Time      `json:"acquisition_date"`
	Location        string          `gorm:"size:100" json:"location"`
	Barcode         *string         `gorm:"uniqueIndex;size:100" json:"barcode"`
	Notes           string          `gorm:"type:text" json:"notes"`
	CreatedByID     *uint           `gorm:"index" json:"created_by_id"`
	LastUpdatedByID *uint           `json:"last_updated_by_id"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Category      *Category              `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category,omitempty"`
	MinistryArea  *ministry.MinistryArea `gorm:"foreignKey:MinistryAreaID;constraint:OnDelete:SET NULL" json:"ministry_area,omitempty"`
	CreatedBy     *user.User             `gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL" json:"created_by,omitempty"`
	LastUpdatedBy *user.User             `gorm:"foreignKey:LastUpdatedByID;constraint:OnDelete:SET NULL" json:"last_updated_by,omitempty"`
	Transactions  []InventoryTransaction `gorm:"foreignKey:ItemID" json:"transactions,omitempty"`
	Maintenance   []Maintenance          `gorm:"foreignKey:ItemID" json:"maintenance,omitempty"`
}

// TableName overrides the table name for Item
func (Item) TableName() string {
	return "items"
}

// TotalValue returns quantity * unit value with exact decimal arithmetic
func (i *Item) TotalValue() decimal.Decimal {
	return i.UnitValue.Mul(decimal.NewFromInt(int64(i.Quantity))).Round(2)
}

// NeedsReorder checks if stock has fallen to or below the minimum.
// Equality counts as needing reorder.
func (i *Item) NeedsReorder() bool {
	return i.Quantity <= i.MinQuantity
}

// InventoryTransaction represents one immutable ledger entry.
// Rows are only ever inserted; there is no update or delete path.
type InventoryTransaction struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	ItemID           uint            `gorm:"not null;index" json:"item_id"`
	TransactionType  TransactionType `gorm:"not null;size:10" json:"transaction_type"`
	Quantity         int             `gorm:"not null" json:"quantity"`
	PreviousQuantity int             `gorm:"not null" json:"previous_quantity"`
	NewQuantity      int             `gorm:"not null" json:"new_quantity"`
	FromMinistryID   *uint           `gorm:"index" json:"from_ministry_id"`
	ToMinistryID     *uint           `gorm:"index" json:"to_ministry_id"`
	Reason           string          `gorm:"type:text" json:"reason"`
	ConductedByID    *uint           `gorm:"index" json:"conducted_by_id"`
	CreatedAt        time.Time       `json:"created_at"`

	// Relationships
	Item         *Item                  `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE" json:"item,omitempty"`
	FromMinistry *ministry.MinistryArea `gorm:"foreignKey:FromMinistryID;constraint:OnDelete:SET NULL" json:"from_ministry,omitempty"`
	ToMinistry   *ministry.MinistryArea `gorm:"foreignKey:ToMinistryID;constraint:OnDelete:SET NULL" json:"to_ministry,omitempty"`
	ConductedBy  *user.User             `gorm:"foreignKey:ConductedByID;constraint:OnDelete:SET NULL" json:"conducted_by,omitempty"`
}

// TableName overrides the table name for InventoryTransaction
func (InventoryTransaction) TableName() string {
	return "inventory_transactions"
}

// Maintenance represents one service event in an item's history
type Maintenance struct {
	ID                  uint            `gorm:"primaryKey" json:"id"`
	ItemID              uint            `gorm:"not null;index" json:"item_id"`
	MaintenanceDate     time.Time       `gorm:"not null" json:"maintenance_date"`
	Description         string          `gorm:"type:text" json:"description"`
	Cost                decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"cost"`
	PerformedBy         string          `gorm:"size:200" json:"performed_by"`
	NextMaintenanceDate *time.Time      `json:"next_maintenance_date"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`

	// Relationships
	Item *Item `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE" json:"item,omitempty"`
}

// TableName overrides the table name for Maintenance
func (Maintenance) TableName() string {
	return "maintenance_records"
}
