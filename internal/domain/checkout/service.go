// internal/domain/checkout/service.go
package checkout

import (
	"errors"
	"fmt"
	"time"

	"github.com/your-org/church-inventory-backend/internal/config"
	"github.com/your-org/church-inventory-backend/internal/domain/inventory"
	"github.com/your-org/church-inventory-backend/internal/domain/user"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrAlreadyReturned is returned when check-in is attempted on a
// checkout that has already been closed.
var ErrAlreadyReturned = errors.New("checkout already returned")

// ErrCheckoutNotFound is returned when the referenced checkout does not exist.
var ErrCheckoutNotFound = errors.New("checkout not found")

// Service handles checkout business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new checkout service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CheckoutRequest represents a loan request
type CheckoutRequest struct {
	ItemID   uint       `json:"item_id" binding:"required"`
	Quantity int        `json:"quantity" binding:"required"`
	DueDate  *time.Time `json:"due_date"`
	Purpose  string     `json:"purpose"`
}

// ListCheckoutsRequest represents checkout listing filters
type ListCheckoutsRequest struct {
	UserID      *uint `form:"-"`
	ActiveOnly  bool  `form:"active"`
	OverdueOnly bool  `form:"overdue"`
	Page        int   `form:"page"`
	Limit       int   `form:"limit"`
}

// ListCheckoutsResponse represents a paginated checkout listing
type ListCheckoutsResponse struct {
	Checkouts []ItemCheckout `json:"checkouts"`
	Total     int64          `json:"total"`
	Page      int            `json:"page"`
	Limit     int            `json:"limit"`
}

// Checkout loans units of an item to a user. The available quantity is
// the item's stock minus everything already out on active checkouts,
// computed under the same row lock the ledger engine uses, so the same
// units cannot be double-booked by concurrent requests.
func (s *Service) Checkout(req *CheckoutRequest, userID uint) (*ItemCheckout, error) {
	if req.Quantity < 1 {
		return nil, fmt.Errorf("%w: checkout quantity must be at least 1", inventory.ErrInvalidTransaction)
	}

	var borrower user.User
	if result := s.db.Select("id").Where("id = ?", userID).First(&borrower); result.Error != nil {
		return nil, fmt.Errorf("%w: user %d", inventory.ErrReferentialIntegrity, userID)
	}

	dueDate := time.Now().AddDate(0, 0, s.config.Inventory.DefaultCheckoutDays)
	if req.DueDate != nil {
		dueDate = *req.DueDate
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	item, err := lockItem(tx, req.ItemID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	var reserved int64
	if err := tx.Model(&ItemCheckout{}).
		Where("item_id = ? AND checked_in_date IS NULL", req.ItemID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&reserved).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to compute available quantity: %w", err)
	}

	available := item.Quantity - int(reserved)
	if req.Quantity > available {
		tx.Rollback()
		return nil, fmt.Errorf("%w: available %d, requested %d", inventory.ErrInsufficientStock, available, req.Quantity)
	}

	checkout := &ItemCheckout{
		ItemID:         req.ItemID,
		CheckedOutByID: userID,
		CheckoutDate:   time.Now(),
		DueDate:        dueDate,
		Quantity:       req.Quantity,
		Purpose:        req.Purpose,
	}

	if err := tx.Create(checkout).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create checkout: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit checkout: %w", err)
	}

	s.db.Preload("Item").Preload("CheckedOutBy").First(checkout, checkout.ID)
	if checkout.CheckedOutBy != nil {
		checkout.CheckedOutBy.Password = ""
	}
	return checkout, nil
}

// CheckIn closes an active checkout. Returned checkouts are terminal;
// a second check-in fails with ErrAlreadyReturned and the original
// checked-in timestamp is untouched.
func (s *Service) CheckIn(checkoutID uint) (*ItemCheckout, error) {
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var checkout ItemCheckout
	result := tx.Where("id = ?", checkoutID).First(&checkout)
	if result.Error != nil {
		tx.Rollback()
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCheckoutNotFound
		}
		return nil, fmt.Errorf("failed to find checkout: %w", result.Error)
	}

	if checkout.CheckedInDate != nil {
		tx.Rollback()
		return nil, ErrAlreadyReturned
	}

	now := time.Now()
	checkout.CheckedInDate = &now

	if err := tx.Save(&checkout).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to check in: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit check-in: %w", err)
	}

	return &checkout, nil
}

// GetCheckout retrieves a single checkout
func (s *Service) GetCheckout(id uint) (*ItemCheckout, error) {
	var checkout ItemCheckout
	result := s.db.Preload("Item").Preload("CheckedOutBy").Where("id = ?", id).First(&checkout)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCheckoutNotFound
		}
		return nil, fmt.Errorf("failed to retrieve checkout: %w", result.Error)
	}
	if checkout.CheckedOutBy != nil {
		checkout.CheckedOutBy.Password = ""
	}
	return &checkout, nil
}

// ListCheckouts retrieves checkouts with optional filtering
func (s *Service) ListCheckouts(req *ListCheckoutsRequest) (*ListCheckoutsResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	query := s.db.Model(&ItemCheckout{})

	if req.UserID != nil {
		query = query.Where("checked_out_by_id = ?", *req.UserID)
	}
	if req.ActiveOnly || req.OverdueOnly {
		query = query.Where("checked_in_date IS NULL")
	}
	if req.OverdueOnly {
		query = query.Where("due_date < ?", beginningOfDay(time.Now()))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count checkouts: %w", err)
	}

	var checkouts []ItemCheckout
	offset := (req.Page - 1) * req.Limit
	if err := query.
		Preload("Item").
		Preload("CheckedOutBy").
		Order("checkout_date DESC").
		Offset(offset).
		Limit(req.Limit).
		Find(&checkouts).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve checkouts: %w", err)
	}

	for i := range checkouts {
		if checkouts[i].CheckedOutBy != nil {
			checkouts[i].CheckedOutBy.Password = ""
		}
	}

	return &ListCheckoutsResponse{
		Checkouts: checkouts,
		Total:     total,
		Page:      req.Page,
		Limit:     req.Limit,
	}, nil
}

// AvailableQuantity returns how many units of an item remain after
// subtracting active checkouts.
func (s *Service) AvailableQuantity(itemID uint) (int, error) {
	var item inventory.Item
	if result := s.db.Select("id, quantity").Where("id = ?", itemID).First(&item); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return 0, inventory.ErrItemNotFound
		}
		return 0, fmt.Errorf("failed to find item: %w", result.Error)
	}

	var reserved int64
	if err := s.db.Model(&ItemCheckout{}).
		Where("item_id = ? AND checked_in_date IS NULL", itemID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&reserved).Error; err != nil {
		return 0, fmt.Errorf("failed to compute available quantity: %w", err)
	}

	return item.Quantity - int(reserved), nil
}

// lockItem loads the item row under a FOR UPDATE lock where the dialect
// supports it, mirroring the ledger engine.
func lockItem(tx *gorm.DB, itemID uint) (*inventory.Item, error) {
	query := tx.Where("id = ?", itemID)
	if tx.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var item inventory.Item
	if err := query.First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, inventory.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to load item: %w", err)
	}
	return &item, nil
}
