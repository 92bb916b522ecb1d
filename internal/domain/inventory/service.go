// internal/domain/inventory/service.go
package inventory

import (
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/your-org/church-inventory-backend/internal/config"
	"github.com/your-org/church-inventory-backend/internal/domain/ministry"
	"github.com/your-org/church-inventory-backend/internal/domain/user"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service handles inventory business logic. Every quantity change goes
// through the transaction ledger: the item row is the cached projection,
// the ledger is the source of truth.
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new inventory service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// initialTransactionReason is recorded on the ADD entry written when an
// item is created.
const initialTransactionReason = "Initial inventory creation"

// CreateItemRequest represents item creation data
type CreateItemRequest struct {
	Name            string          `json:"name" binding:"required"`
	Description     string          `json:"description"`
	CategoryID      *uint           `json:"category_id"`
	MinistryAreaID  *uint           `json:"ministry_area_id"`
	Quantity        int             `json:"quantity"`
	MinQuantity     int             `json:"min_quantity"`
	UnitValue       decimal.Decimal `json:"unit_value"`
	Condition       ItemCondition   `json:"condition"`
	AcquisitionDate *time.Time      `json:"acquisition_date"`
	Location        string          `json:"location"`
	Barcode         *string         `json:"barcode"`
	Notes           string          `json:"notes"`
}

// UpdateItemRequest represents item metadata updates. Quantity is
// deliberately absent: stock changes only happen through the ledger.
type UpdateItemRequest struct {
	Name            *string          `json:"name"`
	Description     *string          `json:"description"`
	CategoryID      *uint            `json:"category_id"`
	MinistryAreaID  *uint            `json:"ministry_area_id"`
	MinQuantity     *int             `json:"min_quantity"`
	UnitValue       *decimal.Decimal `json:"unit_value"`
	Condition       *ItemCondition   `json:"condition"`
	AcquisitionDate *time.Time       `json:"acquisition_date"`
	Location        *string          `json:"location"`
	Barcode         *string          `json:"barcode"`
	Notes           *string          `json:"notes"`
}

// TransactionRequest represents a requested stock change
type TransactionRequest struct {
	// ItemID is filled in from the URL path, not the request body.
	ItemID          uint            `json:"-"`
	TransactionType TransactionType `json:"transaction_type" binding:"required"`
	Quantity        int             `json:"quantity" binding:"required"`
	Reason          string          `json:"reason"`
	FromMinistryID  *uint           `json:"from_ministry_id"`
	ToMinistryID    *uint           `json:"to_ministry_id"`
}

// ListItemsRequest represents item listing filters
type ListItemsRequest struct {
	CategoryID     *uint  `form:"category_id"`
	MinistryAreaID *uint  `form:"ministry_area_id"`
	Condition      string `form:"condition"`
	LowStock       bool   `form:"low_stock"`
	Search         string `form:"search"`
	Page           int    `form:"page"`
	Limit          int    `form:"limit"`
}

// ListItemsResponse represents a paginated item listing
type ListItemsResponse struct {
	Items []Item `json:"items"`
	Total int64  `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}

// ITEM MANAGEMENT

// CreateItem creates an item together with its initial ADD ledger entry.
// Both writes commit in the same database transaction, so every item has
// a ledger origin row (previous 0, new = initial quantity).
func (s *Service) CreateItem(req *CreateItemRequest, actorID uint) (*Item, error) {
	if req.Quantity < 0 {
		return nil, fmt.Errorf("%w: initial quantity must not be negative", ErrInvalidTransaction)
	}
	if req.MinQuantity < 0 {
		return nil, fmt.Errorf("%w: minimum quantity must not be negative", ErrInvalidTransaction)
	}
	if req.UnitValue.IsNegative() {
		return nil, fmt.Errorf("%w: unit value must not be negative", ErrInvalidTransaction)
	}
	if req.Condition != "" && !req.Condition.IsValid() {
		return nil, fmt.Errorf("%w: unknown condition %q", ErrInvalidTransaction, req.Condition)
	}

	if err := s.checkReferences(req.CategoryID, req.MinistryAreaID); err != nil {
		return nil, err
	}
	if err := s.checkActorExists(actorID); err != nil {
		return nil, err
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	item := &Item{
		Name:            req.Name,
		Description:     req.Description,
		CategoryID:      req.CategoryID,
		MinistryAreaID:  req.MinistryAreaID,
		Quantity:        req.Quantity,
		MinQuantity:     req.MinQuantity,
		UnitValue:       req.UnitValue.Round(2),
		Condition:       req.Condition,
		AcquisitionDate: req.AcquisitionDate,
		Location:        req.Location,
		Barcode:         req.Barcode,
		Notes:           req.Notes,
		CreatedByID:     &actorID,
		LastUpdatedByID: &actorID,
	}
	if item.Condition == "" {
		item.Condition = ConditionGood
	}

	if err := tx.Create(item).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	initial := &InventoryTransaction{
		ItemID:           item.ID,
		TransactionType:  TransactionTypeAddition,
		Quantity:         req.Quantity,
		PreviousQuantity: 0,
		NewQuantity:      req.Quantity,
		Reason:           initialTransactionReason,
		ConductedByID:    &actorID,
	}

	if err := tx.Create(initial).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to record initial transaction: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit item creation: %w", err)
	}

	s.db.Preload("Category").Preload("MinistryArea").First(item, item.ID)
	return item, nil
}

// GetItem retrieves a single item with its relationships
func (s *Service) GetItem(id uint) (*Item, error) {
	var item Item
	result := s.db.
		Preload("Category").
		Preload("MinistryArea").
		Preload("CreatedBy").
		Preload("LastUpdatedBy").
		Preload("Transactions", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC").Limit(20)
		}).
		Preload("Maintenance", func(db *gorm.DB) *gorm.DB {
			return db.Order("maintenance_date DESC").Limit(20)
		}).
		Where("id = ?", id).
		First(&item)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to retrieve item: %w", result.Error)
	}

	return &item, nil
}

// GetItemByBarcode retrieves a single item by its barcode
func (s *Service) GetItemByBarcode(barcode string) (*Item, error) {
	var item Item
	result := s.db.Preload("Category").Preload("MinistryArea").Where("barcode = ?", barcode).First(&item)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to retrieve item: %w", result.Error)
	}
	return &item, nil
}

// ListItems retrieves items with optional filtering and pagination
func (s *Service) ListItems(req *ListItemsRequest) (*ListItemsResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	query := s.db.Model(&Item{})

	if req.CategoryID != nil {
		query = query.Where("category_id = ?", *req.CategoryID)
	}
	if req.MinistryAreaID != nil {
		query = query.Where("ministry_area_id = ?", *req.MinistryAreaID)
	}
	if req.Condition != "" {
		query = query.Where("condition = ?", req.Condition)
	}
	if req.LowStock {
		query = query.Where("quantity <= min_quantity")
	}
	if req.Search != "" {
		like := "%" + req.Search + "%"
		query = query.Where("name LIKE ? OR description LIKE ? OR location LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count items: %w", err)
	}

	var items []Item
	offset := (req.Page - 1) * req.Limit
	if err := query.
		Preload("Category").
		Preload("MinistryArea").
		Order("name ASC").
		Offset(offset).
		Limit(req.Limit).
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve items: %w", err)
	}

	return &ListItemsResponse{
		Items: items,
		Total: total,
		Page:  req.Page,
		Limit: req.Limit,
	}, nil
}

// UpdateItem updates item metadata. Quantity never changes here.
func (s *Service) UpdateItem(id uint, req *UpdateItemRequest, actorID uint) (*Item, error) {
	var item Item
	result := s.db.Where("id = ?", id).First(&item)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to find item: %w", result.Error)
	}

	if err := s.checkReferences(req.CategoryID, req.MinistryAreaID); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.CategoryID != nil {
		updates["category_id"] = *req.CategoryID
	}
	if req.MinistryAreaID != nil {
		updates["ministry_area_id"] = *req.MinistryAreaID
	}
	if req.MinQuantity != nil {
		if *req.MinQuantity < 0 {
			return nil, fmt.Errorf("%w: minimum quantity must not be negative", ErrInvalidTransaction)
		}
		updates["min_quantity"] = *req.MinQuantity
	}
	if req.UnitValue != nil {
		if req.UnitValue.IsNegative() {
			return nil, fmt.Errorf("%w: unit value must not be negative", ErrInvalidTransaction)
		}
		updates["unit_value"] = req.UnitValue.Round(2)
	}
	if req.Condition != nil {
		if !req.Condition.IsValid() {
			return nil, fmt.Errorf("%w: unknown condition %q", ErrInvalidTransaction, *req.Condition)
		}
		updates["condition"] = *req.Condition
	}
	if req.AcquisitionDate != nil {
		updates["acquisition_date"] = *req.AcquisitionDate
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.Barcode != nil {
		updates["barcode"] = *req.Barcode
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	updates["last_updated_by_id"] = actorID

	if err := s.db.Model(&item).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	s.db.Preload("Category").Preload("MinistryArea").First(&item, item.ID)
	return &item, nil
}

// DeleteItem soft deletes an item. The ledger and maintenance history
// stay in place for audit; the database-level cascade only applies if
// the row is ever hard deleted.
func (s *Service) DeleteItem(id uint) error {
	var item Item
	if result := s.db.Where("id = ?", id).First(&item); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ErrItemNotFound
		}
		return fmt.Errorf("failed to find item: %w", result.Error)
	}

	// Block deletion while units are still out on loan
	var active int64
	s.db.Table("item_checkouts").
		Where("item_id = ? AND checked_in_date IS NULL", id).
		Count(&active)
	if active > 0 {
		return fmt.Errorf("cannot delete item %d: %w", id, ErrItemCheckedOut)
	}

	if err := s.db.Delete(&item).Error; err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

// TRANSACTION LEDGER

// RecordTransaction applies a stock change and appends the matching
// ledger entry atomically. Lock conflicts are retried a bounded number
// of times before ErrConcurrentModification is surfaced.
func (s *Service) RecordTransaction(req *TransactionRequest, actorID uint) (*InventoryTransaction, error) {
	if err := s.checkActorExists(actorID); err != nil {
		return nil, err
	}

	var (
		txn *InventoryTransaction
		err error
	)
	for attempt := 0; attempt < s.config.Inventory.ConflictRetries; attempt++ {
		txn, err = s.recordTransactionOnce(req, actorID)
		if !errors.Is(err, ErrConcurrentModification) {
			return txn, err
		}
	}
	return nil, err
}

// GetTransactions retrieves the ledger for one item, newest first
func (s *Service) GetTransactions(itemID uint, limit int) ([]InventoryTransaction, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}

	var item Item
	if result := s.db.Select("id").Where("id = ?", itemID).First(&item); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to find item: %w", result.Error)
	}

	var transactions []InventoryTransaction
	if err := s.db.
		Preload("FromMinistry").
		Preload("ToMinistry").
		Preload("ConductedBy").
		Where("item_id = ?", itemID).
		Order("created_at DESC").
		Limit(limit).
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve transactions: %w", err)
	}

	return transactions, nil
}

// recordTransactionOnce runs a single attempt inside one database
// transaction: lock the item row, validate, write the new quantity and
// append the ledger entry. Either both writes commit or neither does.
func (s *Service) recordTransactionOnce(req *TransactionRequest, actorID uint) (*InventoryTransaction, error) {
	if err := s.validateTransactionShape(req); err != nil {
		return nil, err
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

	previousQuantity := item.Quantity
	var newQuantity int

	switch req.TransactionType {
	case TransactionTypeAddition:
		newQuantity = previousQuantity + req.Quantity

	case TransactionTypeRemoval:
		if req.Quantity > previousQuantity {
			tx.Rollback()
			return nil, fmt.Errorf("%w: available %d, requested %d", ErrInsufficientStock, previousQuantity, req.Quantity)
		}
		newQuantity = previousQuantity - req.Quantity

	case TransactionTypeAdjustment:
		newQuantity = previousQuantity + req.Quantity
		if newQuantity < 0 {
			tx.Rollback()
			return nil, fmt.Errorf("%w: adjustment of %d would leave %d", ErrInsufficientStock, req.Quantity, newQuantity)
		}

	case TransactionTypeTransfer:
		if req.Quantity > previousQuantity {
			tx.Rollback()
			return nil, fmt.Errorf("%w: available %d, requested %d", ErrInsufficientStock, previousQuantity, req.Quantity)
		}
		// A transfer is an ownership move between ministry areas; the
		// item's total quantity does not change.
		newQuantity = previousQuantity
	}

	item.Quantity = newQuantity
	item.LastUpdatedByID = &actorID
	if req.TransactionType == TransactionTypeTransfer {
		item.MinistryAreaID = req.ToMinistryID
	}

	if err := tx.Save(item).Error; err != nil {
		tx.Rollback()
		if isSerializationFailure(err) {
			return nil, ErrConcurrentModification
		}
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	entry := &InventoryTransaction{
		ItemID:           item.ID,
		TransactionType:  req.TransactionType,
		Quantity:         req.Quantity,
		PreviousQuantity: previousQuantity,
		NewQuantity:      newQuantity,
		FromMinistryID:   req.FromMinistryID,
		ToMinistryID:     req.ToMinistryID,
		Reason:           req.Reason,
		ConductedByID:    &actorID,
	}

	if err := tx.Create(entry).Error; err != nil {
		tx.Rollback()
		if isSerializationFailure(err) {
			return nil, ErrConcurrentModification
		}
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		if isSerializationFailure(err) {
			return nil, ErrConcurrentModification
		}
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return entry, nil
}

// validateTransactionShape rejects malformed type/quantity combinations
// before any database work happens.
func (s *Service) validateTransactionShape(req *TransactionRequest) error {
	if !req.TransactionType.IsValid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidTransaction, req.TransactionType)
	}

	switch req.TransactionType {
	case TransactionTypeAddition, TransactionTypeRemoval:
		if req.Quantity <= 0 {
			return fmt.Errorf("%w: %s quantity must be positive", ErrInvalidTransaction, req.TransactionType)
		}
	case TransactionTypeAdjustment:
		if req.Quantity == 0 {
			return fmt.Errorf("%w: adjustment quantity must not be zero", ErrInvalidTransaction)
		}
	case TransactionTypeTransfer:
		if req.Quantity <= 0 {
			return fmt.Errorf("%w: transfer quantity must be positive", ErrInvalidTransaction)
		}
		if req.FromMinistryID == nil || req.ToMinistryID == nil {
			return fmt.Errorf("%w: transfer requires both ministry areas", ErrInvalidTransaction)
		}
		if *req.FromMinistryID == *req.ToMinistryID {
			return fmt.Errorf("%w: transfer endpoints must differ", ErrInvalidTransaction)
		}
		if err := s.checkMinistryExists(*req.FromMinistryID); err != nil {
			return err
		}
		if err := s.checkMinistryExists(*req.ToMinistryID); err != nil {
			return err
		}
	}

	return nil
}

// checkReferences validates optional category and ministry references
func (s *Service) checkReferences(categoryID, ministryAreaID *uint) error {
	if categoryID != nil {
		var category Category
		if result := s.db.Select("id").Where("id = ?", *categoryID).First(&category); result.Error != nil {
			return fmt.Errorf("%w: category %d", ErrReferentialIntegrity, *categoryID)
		}
	}
	if ministryAreaID != nil {
		return s.checkMinistryExists(*ministryAreaID)
	}
	return nil
}

func (s *Service) checkMinistryExists(id uint) error {
	var area ministry.MinistryArea
	if result := s.db.Select("id").Where("id = ?", id).First(&area); result.Error != nil {
		return fmt.Errorf("%w: ministry area %d", ErrReferentialIntegrity, id)
	}
	return nil
}

// checkActorExists validates that the conducting user exists
func (s *Service) checkActorExists(id uint) error {
	var actor user.User
	if result := s.db.Select("id").Where("id = ?", id).First(&actor); result.Error != nil {
		return fmt.Errorf("%w: user %d", ErrReferentialIntegrity, id)
	}
	return nil
}

// lockItem loads the item row under a FOR UPDATE lock where the dialect
// supports it. SQLite serializes writers on its own, so the clause is
// skipped there.
func lockItem(tx *gorm.DB, itemID uint) (*Item, error) {
	query := tx.Where("id = ?", itemID)
	if tx.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var item Item
	if err := query.First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		if isSerializationFailure(err) {
			return nil, ErrConcurrentModification
		}
		return nil, fmt.Errorf("failed to load item: %w", err)
	}
	return &item, nil
}

// isSerializationFailure reports whether err is a postgres serialization
// or deadlock failure that is safe to retry.
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}
