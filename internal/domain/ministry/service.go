// internal/domain/ministry/service.go
package ministry

import (
	"fmt"

	"github.com/your-org/church-inventory-backend/internal/config"
	"github.com/your-org/church-inventory-backend/internal/domain/user"
	"gorm.io/gorm"
)

// Service handles ministry area business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new ministry area service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CreateRequest represents ministry area creation data
type CreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Location    string `json:"location"`
	LeaderID    *uint  `json:"leader_id"`
}

// UpdateRequest represents ministry area update data
type UpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
	LeaderID    *uint   `json:"leader_id"`
}

// GetMinistryAreas retrieves all ministry areas
func (s *Service) GetMinistryAreas() ([]MinistryArea, error) {
	var areas []MinistryArea
	if err := s.db.Preload("Leader").Order("name ASC").Find(&areas).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve ministry areas: %w", err)
	}
	return areas, nil
}

// GetMinistryArea retrieves a single ministry area by ID
func (s *Service) GetMinistryArea(id uint) (*MinistryArea, error) {
	var area MinistryArea
	result := s.db.Preload("Leader").Where("id = ?", id).First(&area)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("ministry area not found")
		}
		return nil, fmt.Errorf("failed to retrieve ministry area: %w", result.Error)
	}
	return &area, nil
}

// CreateMinistryArea creates a new ministry area
func (s *Service) CreateMinistryArea(req *CreateRequest) (*MinistryArea, error) {
	// Check for duplicate name
	var existing MinistryArea
	if result := s.db.Where("name = ?", req.Name).First(&existing); result.Error == nil {
		return nil, fmt.Errorf("ministry area '%s' already exists", req.Name)
	}

	// Validate leader if specified
	if req.LeaderID != nil {
		var leader user.User
		if result := s.db.Where("id = ?", *req.LeaderID).First(&leader); result.Error != nil {
			return nil, fmt.Errorf("leader not found")
		}
	}

	area := &MinistryArea{
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		LeaderID:    req.LeaderID,
	}

	if err := s.db.Create(area).Error; err != nil {
		return nil, fmt.Errorf("failed to create ministry area: %w", err)
	}

	s.db.Preload("Leader").First(area, area.ID)
	return area, nil
}

// UpdateMinistryArea updates an existing ministry area
func (s *Service) UpdateMinistryArea(id uint, req *UpdateRequest) (*MinistryArea, error) {
	var area MinistryArea
	result := s.db.Where("id = ?", id).First(&area)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("ministry area not found")
		}
		return nil, fmt.Errorf("failed to find ministry area: %w", result.Error)
	}

	if req.LeaderID != nil {
		var leader user.User
		if result := s.db.Where("id = ?", *req.LeaderID).First(&leader); result.Error != nil {
			return nil, fmt.Errorf("leader not found")
		}
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.LeaderID != nil {
		updates["leader_id"] = *req.LeaderID
	}

	if len(updates) > 0 {
		if err := s.db.Model(&area).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update ministry area: %w", err)
		}
	}

	s.db.Preload("Leader").First(&area, area.ID)
	return &area, nil
}

// DeleteMinistryArea deletes a ministry area. Items and ledger rows that
// reference it keep existing with the reference cleared.
func (s *Service) DeleteMinistryArea(id uint) error {
	var area MinistryArea
	if result := s.db.Where("id = ?", id).First(&area); result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return fmt.Errorf("ministry area not found")
		}
		return fmt.Errorf("failed to find ministry area: %w", result.Error)
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// Null out references rather than cascading
	if err := tx.Table("items").Where("ministry_area_id = ?", id).Update("ministry_area_id", nil).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to clear item references: %w", err)
	}
	if err := tx.Table("inventory_transactions").Where("from_ministry_id = ?", id).Update("from_ministry_id", nil).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to clear transaction references: %w", err)
	}
	if err := tx.Table("inventory_transactions").Where("to_ministry_id = ?", id).Update("to_ministry_id", nil).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to clear transaction references: %w", err)
	}

	if err := tx.Delete(&area).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete ministry area: %w", err)
	}

	tx.Commit()
	return nil
}
