// internal/interfaces/http/handlers/analytics.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/church-inventory-backend/internal/config"
	"github.com/your-org/church-inventory-backend/internal/domain/analytics"
	"gorm.io/gorm"
)

// AnalyticsHandler handles reporting endpoints
type AnalyticsHandler struct {
	analyticsService *analytics.Service
	config           *config.Config
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(db *gorm.DB, cfg *config.Config) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analytics.NewService(db, cfg),
		config:           cfg,
	}
}

// GetDashboard returns headline inventory statistics
func (h *AnalyticsHandler) GetDashboard(c *gin.Context) {
	stats, err := h.analyticsService.GetDashboardStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve dashboard statistics",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Dashboard statistics retrieved successfully",
		"data":    stats,
	})
}

// GetTransactionSummary returns transaction totals grouped by type
func (h *AnalyticsHandler) GetTransactionSummary(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil || days < 1 {
		days = 30
	}

	summary, err := h.analyticsService.GetTransactionSummary(days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve transaction summary",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Transaction summary retrieved successfully",
		"data":    summary,
	})
}

// GetLowStockItems lists items at or below their reorder threshold
func (h *AnalyticsHandler) GetLowStockItems(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}

	items, err := h.analyticsService.GetLowStockItems(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve low stock items",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Low stock items retrieved successfully",
		"data":    items,
	})
}

// GetValueByMinistryArea breaks down inventory value per ministry area
func (h *AnalyticsHandler) GetValueByMinistryArea(c *gin.Context) {
	values, err := h.analyticsService.GetValueByMinistryArea()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve inventory value breakdown",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Inventory value breakdown retrieved successfully",
		"data":    values,
	})
}
