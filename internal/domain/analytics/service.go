// internal/domain/analytics/service.go
package analytics

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/church-inventory-backend/internal/config"
	"github.com/your-org/church-inventory-backend/internal/domain/checkout"
	"github.com/your-org/church-inventory-backend/internal/domain/inventory"
	"github.com/your-org/church-inventory-backend/internal/domain/ministry"
	"github.com/your-org/church-inventory-backend/internal/domain/user"
	"gorm.io/gorm"
)

// Service handles reporting aggregates for the admin dashboard
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new analytics service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// DashboardStats represents overall dashboard statistics
type DashboardStats struct {
	// Inventory metrics
	TotalItems          int64           `json:"total_items"`
	TotalUnits          int64           `json:"total_units"`
	TotalInventoryValue decimal.Decimal `json:"total_inventory_value"`
	LowStockItems       int64           `json:"low_stock_items"`

	// Transaction metrics
	TransactionsToday     int64 `json:"transactions_today"`
	TransactionsThisWeek  int64 `json:"transactions_this_week"`
	TransactionsThisMonth int64 `json:"transactions_this_month"`

	// Checkout metrics
	ActiveCheckouts  int64 `json:"active_checkouts"`
	OverdueCheckouts int64 `json:"overdue_checkouts"`

	// Registry metrics
	TotalUsers    int64 `json:"total_users"`
	ActiveUsers   int64 `json:"active_users"`
	MinistryAreas int64 `json:"ministry_areas"`
	Categories    int64 `json:"categories"`
}

// TransactionSummary represents ledger activity per type over a period
type TransactionSummary struct {
	TransactionType inventory.TransactionType `json:"transaction_type"`
	Count           int64                     `json:"count"`
}

// LowStockItem represents an item at or below its reorder threshold
type LowStockItem struct {
	ItemID      uint   `json:"item_id"`
	Name        string `json:"name"`
	Quantity    int    `json:"quantity"`
	MinQuantity int    `json:"min_quantity"`
	Location    string `json:"location"`
}

// MinistryValueData represents inventory value held per ministry area
type MinistryValueData struct {
	MinistryAreaID   *uint           `json:"ministry_area_id"`
	MinistryAreaName string          `json:"ministry_area_name"`
	ItemCount        int64           `json:"item_count"`
	TotalValue       decimal.Decimal `json:"total_value"`
}

// GetDashboardStats computes the dashboard aggregates
func (s *Service) GetDashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{}

	if err := s.db.Model(&inventory.Item{}).Count(&stats.TotalItems).Error; err != nil {
		return nil, fmt.Errorf("failed to count items: %w", err)
	}

	row := s.db.Model(&inventory.Item{}).
		Select("COALESCE(SUM(quantity), 0), COALESCE(SUM(quantity * unit_value), 0)").
		Row()
	var totalValue decimal.Decimal
	if err := row.Scan(&stats.TotalUnits, &totalValue); err != nil {
		return nil, fmt.Errorf("failed to compute inventory value: %w", err)
	}
	stats.TotalInventoryValue = totalValue.Round(2)

	s.db.Model(&inventory.Item{}).Where("quantity <= min_quantity").Count(&stats.LowStockItems)

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekAgo := today.AddDate(0, 0, -7)
	monthAgo := today.AddDate(0, -1, 0)

	s.db.Model(&inventory.InventoryTransaction{}).Where("created_at >= ?", today).Count(&stats.TransactionsToday)
	s.db.Model(&inventory.InventoryTransaction{}).Where("created_at >= ?", weekAgo).Count(&stats.TransactionsThisWeek)
	s.db.Model(&inventory.InventoryTransaction{}).Where("created_at >= ?", monthAgo).Count(&stats.TransactionsThisMonth)

	s.db.Model(&checkout.ItemCheckout{}).Where("checked_in_date IS NULL").Count(&stats.ActiveCheckouts)
	s.db.Model(&checkout.ItemCheckout{}).Where("checked_in_date IS NULL AND due_date < ?", today).Count(&stats.OverdueCheckouts)

	s.db.Model(&user.User{}).Count(&stats.TotalUsers)
	s.db.Model(&user.User{}).Where("is_active = ?", true).Count(&stats.ActiveUsers)
	s.db.Model(&ministry.MinistryArea{}).Count(&stats.MinistryAreas)
	s.db.Model(&inventory.Category{}).Count(&stats.Categories)

	return stats, nil
}

// GetTransactionSummary aggregates ledger activity per type since the
// given number of days ago.
func (s *Service) GetTransactionSummary(days int) ([]TransactionSummary, error) {
	if days < 1 {
		days = 30
	}

	since := time.Now().AddDate(0, 0, -days)
	var summary []TransactionSummary
	if err := s.db.Model(&inventory.InventoryTransaction{}).
		Select("transaction_type, COUNT(*) as count").
		Where("created_at >= ?", since).
		Group("transaction_type").
		Order("count DESC").
		Scan(&summary).Error; err != nil {
		return nil, fmt.Errorf("failed to summarize transactions: %w", err)
	}

	return summary, nil
}

// GetLowStockItems lists items at or below their reorder threshold
func (s *Service) GetLowStockItems(limit int) ([]LowStockItem, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var items []LowStockItem
	if err := s.db.Model(&inventory.Item{}).
		Select("id as item_id, name, quantity, min_quantity, location").
		Where("quantity <= min_quantity").
		Order("quantity ASC").
		Limit(limit).
		Scan(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve low stock items: %w", err)
	}

	return items, nil
}

// GetValueByMinistryArea aggregates inventory value per ministry area
func (s *Service) GetValueByMinistryArea() ([]MinistryValueData, error) {
	var rows []struct {
		MinistryAreaID *uint
		ItemCount      int64
		TotalValue     decimal.Decimal
	}

	if err := s.db.Model(&inventory.Item{}).
		Select("ministry_area_id, COUNT(*) as item_count, COALESCE(SUM(quantity * unit_value), 0) as total_value").
		Group("ministry_area_id").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate ministry values: %w", err)
	}

	result := make([]MinistryValueData, 0, len(rows))
	for _, r := range rows {
		data := MinistryValueData{
			MinistryAreaID:   r.MinistryAreaID,
			MinistryAreaName: "Unassigned",
			ItemCount:        r.ItemCount,
			TotalValue:       r.TotalValue.Round(2),
		}
		if r.MinistryAreaID != nil {
			var area ministry.MinistryArea
			if err := s.db.Select("name").Where("id = ?", *r.MinistryAreaID).First(&area).Error; err == nil {
				data.MinistryAreaName = area.Name
			}
		}
		result = append(result, data)
	}

	return result, nil
}
