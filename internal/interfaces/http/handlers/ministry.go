// internal/interfaces/http/handlers/ministry.go
package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/your-org/church-inventory-backend/internal/config"
	"github.com/your-org/church-inventory-backend/internal/domain/ministry"
	"gorm.io/gorm"
)

// MinistryHandler handles ministry area endpoints
type MinistryHandler struct {
	ministryService *ministry.Service
	config          *config.Config
}

// NewMinistryHandler creates a new ministry handler
func NewMinistryHandler(db *gorm.DB, cfg *config.Config) *MinistryHandler {
	return &MinistryHandler{
		ministryService: ministry.NewService(db, cfg),
		config:          cfg,
	}
}

// GetMinistryAreas lists all ministry areas
func (h *MinistryHandler) GetMinistryAreas(c *gin.Context) {
	areas, err := h.ministryService.GetMinistryAreas()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve ministry areas",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Ministry areas retrieved successfully",
		"data":    areas,
	})
}

// GetMinistryArea retrieves a single ministry area
func (h *MinistryHandler) GetMinistryArea(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid ministry area ID",
		})
		return
	}

	area, err := h.ministryService.GetMinistryArea(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Ministry area retrieved successfully",
		"data":    area,
	})
}

// CreateMinistryArea creates a new ministry area
func (h *MinistryHandler) CreateMinistryArea(c *gin.Context) {
	var req ministry.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	area, err := h.ministryService.CreateMinistryArea(&req)
	if err != nil {
		status := http.StatusBadRequest
		if strings.Contains(err.Error(), "already exists") {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Ministry area created successfully",
		"data":    area,
	})
}

// UpdateMinistryArea updates a ministry area
func (h *MinistryHandler) UpdateMinistryArea(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid ministry area ID",
		})
		return
	}

	var req ministry.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	area, err := h.ministryService.UpdateMinistryArea(uint(id), &req)
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
		"message": "Ministry area updated successfully",
		"data":    area,
	})
}

// DeleteMinistryArea deletes a ministry area
func (h *MinistryHandler) DeleteMinistryArea(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid ministry area ID",
		})
		return
	}

	if err := h.ministryService.DeleteMinistryArea(uint(id)); err != nil {
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
		"message": "Ministry area deleted successfully",
	})
}
