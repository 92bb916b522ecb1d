// internal/domain/checkout/entity.go
package checkout

import (
	"time"

	"github.com/your-org/church-inventory-backend/internal/domain/inventory"
	"github.com/your-org/church-inventory-backend/internal/domain/user"
)

// Status represents the display status of a checkout
type Status string

const (
	StatusCheckedOut Status = "checked_out"
	StatusOverdue    Status = "overdue"
	StatusReturned   Status = "returned"
)

// ItemCheckout represents a temporary loan of inventory units.
// A checkout is active while CheckedInDate is nil; check-in is the only
// state transition and it is terminal.
type ItemCheckout struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	ItemID         uint       `gorm:"not null;index" json:"item_id"`
	CheckedOutByID uint       `gorm:"not null;index" json:"checked_out_by_id"`
	CheckoutDate   time.Time  `gorm:"not null" json:"checkout_date"`
	DueDate        time.Time  `gorm:"not null;index" json:"due_date"`
	Quantity       int        `gorm:"not null" json:"quantity"`
	Purpose        string     `gorm:"type:text" json:"purpose"`
	CheckedInDate  *time.Time `gorm:"index" json:"checked_in_date"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// Relationships
	Item         *inventory.Item `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE" json:"item,omitempty"`
	CheckedOutBy *user.User      `gorm:"foreignKey:CheckedOutByID" json:"checked_out_by,omitempty"`
}

// TableName overrides the table name for ItemCheckout
func (ItemCheckout) TableName() string {
	return "item_checkouts"
}

// IsActive checks whether the units are still out on loan
func (c *ItemCheckout) IsActive() bool {
	return c.CheckedInDate == nil
}

// IsOverdue checks whether an active checkout has passed its due date.
// Comparison is by calendar day, not instant.
func (c *ItemCheckout) IsOverdue() bool {
	if !c.IsActive() {
		return false
	}
	now := time.Now()
	return beginningOfDay(now).After(beginningOfDay(c.DueDate.In(now.Location())))
}

// Status returns the display status for the checkout
func (c *ItemCheckout) Status() Status {
	if !c.IsActive() {
		return StatusReturned
	}
	if c.IsOverdue() {
		return StatusOverdue
	}
	return StatusCheckedOut
}

// beginningOfDay truncates to midnight in t's own location, so the
// day boundary matches the deployment's time zone.
func beginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
