// internal/interfaces/http/handlers/maintenance.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/your-org/church-inventory-backend/internal/config"
	"github.com/your-org/church-inventory-backend/internal/domain/inventory"
	"gorm.io/gorm"
)

// MaintenanceHandler handles maintenance record endpoints
type MaintenanceHandler struct {
	maintenanceService *inventory.MaintenanceService
	config             *config.Config
}

// NewMaintenanceHandler creates a new maintenance handler
func NewMaintenanceHandler(db *gorm.DB, cfg *config.Config) *MaintenanceHandler {
	return &MaintenanceHandler{
		maintenanceService: inventory.NewMaintenanceService(db, cfg),
		config:             cfg,
	}
}

// GetMaintenanceRecords lists an item's service history
func (h *MaintenanceHandler) GetMaintenanceRecords(c *gin.Context) {
	itemID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid item ID",
		})
		return
	}

	records, err := h.maintenanceService.GetMaintenanceRecords(uint(itemID))
	if err != nil {
		if errors.Is(err, inventory.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve maintenance records",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Maintenance records retrieved successfully",
		"data":    records,
	})
}

// CreateMaintenanceRecord logs maintenance performed on an item
func (h *MaintenanceHandler) CreateMaintenanceRecord(c *gin.Context) {
	itemID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid item ID",
		})
		return
	}

	var req inventory.MaintenanceCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	record, err := h.maintenanceService.CreateMaintenanceRecord(uint(itemID), &req)
	if err != nil {
		if errors.Is(err, inventory.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": err.Error(),
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Maintenance record created successfully",
		"data":    record,
	})
}

// UpdateMaintenanceRecord updates a maintenance record
func (h *MaintenanceHandler) UpdateMaintenanceRecord(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("recordId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid maintenance record ID",
		})
		return
	}

	var req inventory.MaintenanceUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	record, err := h.maintenanceService.UpdateMaintenanceRecord(uint(id), &req)
	if err != nil {
		status := http.StatusBadRequest
		if strings.Contains(err.Error(), "not found") {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Maintenance record updated successfully",
		"data":    record,
	})
}

// DeleteMaintenanceRecord deletes a maintenance record
func (h *MaintenanceHandler) DeleteMaintenanceRecord(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("recordId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid maintenance record ID",
		})
		return
	}

	if err := h.maintenanceService.DeleteMaintenanceRecord(uint(id)); err != nil {
		status := http.StatusBadRequest
		if strings.Contains(err.Error(), "not found") {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Maintenance record deleted successfully",
	})
}

// GetUpcomingMaintenance lists records due for service soon
func (h *MaintenanceHandler) GetUpcomingMaintenance(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil || days < 1 {
		days = 30
	}

	records, err := h.maintenanceService.GetUpcomingMaintenance(days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve upcoming maintenance",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Upcoming maintenance retrieved successfully",
		"data":    records,
	})
}
