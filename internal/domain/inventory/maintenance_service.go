// internal/domain/inventory/maintenance_service.go
package inventory

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/church-inventory-backend/internal/config"
	"gorm.io/gorm"
)

// MaintenanceService handles item service history
type MaintenanceService struct {
	db     *gorm.DB
	config *config.Config
}

// NewMaintenanceService creates a new maintenance service
func NewMaintenanceService(db *gorm.DB, cfg *config.Config) *MaintenanceService {
	return &MaintenanceService{
		db:     db,
		config: cfg,
	}
}

// MaintenanceCreateRequest represents maintenance record creation data
type MaintenanceCreateRequest struct {
	MaintenanceDate     time.Time       `json:"maintenance_date" binding:"required"`
	Description         string          `json:"description" binding:"required"`
	Cost                decimal.Decimal `json:"cost"`
	PerformedBy         string          `json:"performed_by"`
	NextMaintenanceDate *time.Time      `json:"next_maintenance_date"`
}

// MaintenanceUpdateRequest represents maintenance record update data
type MaintenanceUpdateRequest struct {
	MaintenanceDate     *time.Time       `json:"maintenance_date"`
	Description         *string          `json:"description"`
	Cost                *decimal.Decimal `json:"cost"`
	PerformedBy         *string          `json:"performed_by"`
	NextMaintenanceDate *time.Time       `json:"next_maintenance_date"`
}

// GetMaintenanceRecords retrieves an item's service history, newest first
func (s *MaintenanceService) GetMaintenanceRecords(itemID uint) ([]Maintenance, error) {
	var item Item
	if result := s.db.Select("id").Where("id = ?", itemID).First(&item); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to find item: %w", result.Error)
	}

	var records []Maintenance
	if err := s.db.Where("item_id = ?", itemID).Order("maintenance_date DESC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve maintenance records: %w", err)
	}
	return records, nil
}

// CreateMaintenanceRecord records a service event for an item
func (s *MaintenanceService) CreateMaintenanceRecord(itemID uint, req *MaintenanceCreateRequest) (*Maintenance, error) {
	if req.Cost.IsNegative() {
		return nil, fmt.Errorf("maintenance cost must not be negative")
	}

	var item Item
	if result := s.db.Select("id").Where("id = ?", itemID).First(&item); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to find item: %w", result.Error)
	}

	record := &Maintenance{
		ItemID:              itemID,
		MaintenanceDate:     req.MaintenanceDate,
		Description:         req.Description,
		Cost:                req.Cost.Round(2),
		PerformedBy:         req.PerformedBy,
		NextMaintenanceDate: req.NextMaintenanceDate,
	}

	if err := s.db.Create(record).Error; err != nil {
		return nil, fmt.Errorf("failed to create maintenance record: %w", err)
	}

	return record, nil
}

// UpdateMaintenanceRecord updates an existing maintenance record
func (s *MaintenanceService) UpdateMaintenanceRecord(id uint, req *MaintenanceUpdateRequest) (*Maintenance, error) {
	var record Maintenance
	result := s.db.Where("id = ?", id).First(&record)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("maintenance record not found")
		}
		return nil, fmt.Errorf("failed to find maintenance record: %w", result.Error)
	}

	updates := make(map[string]interface{})
	if req.MaintenanceDate != nil {
		updates["maintenance_date"] = *req.MaintenanceDate
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Cost != nil {
		if req.Cost.IsNegative() {
			return nil, fmt.Errorf("maintenance cost must not be negative")
		}
		updates["cost"] = req.Cost.Round(2)
	}
	if req.PerformedBy != nil {
		updates["performed_by"] = *req.PerformedBy
	}
	if req.NextMaintenanceDate != nil {
		updates["next_maintenance_date"] = *req.NextMaintenanceDate
	}

	if len(updates) > 0 {
		if err := s.db.Model(&record).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update maintenance record: %w", err)
		}
	}

	return &record, nil
}

// DeleteMaintenanceRecord removes a maintenance record
func (s *MaintenanceService) DeleteMaintenanceRecord(id uint) error {
	result := s.db.Where("id = ?", id).Delete(&Maintenance{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete maintenance record: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("maintenance record not found")
	}
	return nil
}

// GetUpcomingMaintenance lists records whose next service date falls
// within the given number of days from today.
func (s *MaintenanceService) GetUpcomingMaintenance(days int) ([]Maintenance, error) {
	if days < 1 {
		days = 30
	}

	cutoff := time.Now().AddDate(0, 0, days)
	var records []Maintenance
	if err := s.db.
		Preload("Item").
		Where("next_maintenance_date IS NOT NULL AND next_maintenance_date <= ?", cutoff).
		Order("next_maintenance_date ASC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve upcoming maintenance: %w", err)
	}
	return records, nil
}
