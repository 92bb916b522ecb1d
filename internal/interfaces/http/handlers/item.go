// internal/interfaces/http/handlers/item.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/church-inventory-backend/internal/config"
	"github.com/your-org/church-inventory-backend/internal/domain/inventory"
	"github.com/your-org/church-inventory-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// ItemHandler handles inventory item and transaction endpoints
type ItemHandler struct {
	inventoryService *inventory.Service
	config           *config.Config
}

// NewItemHandler creates a new item handler
func NewItemHandler(db *gorm.DB, cfg *config.Config) *ItemHandler {
	return &ItemHandler{
		inventoryService: inventory.NewService(db, cfg),
		config:           cfg,
	}
}

// inventoryErrorStatus maps domain errors to HTTP status codes
func inventoryErrorStatus(err error) int {
	switch {
	case errors.Is(err, inventory.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, inventory.ErrInsufficientStock):
		return http.StatusConflict
	case errors.Is(err, inventory.ErrConcurrentModification):
		return http.StatusConflict
	case errors.Is(err, inventory.ErrItemCheckedOut):
		return http.StatusConflict
	case errors.Is(err, inventory.ErrInvalidTransaction):
		return http.StatusBadRequest
	case errors.Is(err, inventory.ErrReferentialIntegrity):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ListItems lists items with optional filtering
func (h *ItemHandler) ListItems(c *gin.Context) {
	var req inventory.ListItemsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	response, err := h.inventoryService.ListItems(&req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve items",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Items retrieved successfully",
		"data":    response,
	})
}

// GetItem retrieves a single item
func (h *ItemHandler) GetItem(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid item ID",
		})
		return
	}

	item, err := h.inventoryService.GetItem(uint(id))
	if err != nil {
		c.JSON(inventoryErrorStatus(err), gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item retrieved successfully",
		"data":    item,
	})
}

// GetItemByBarcode looks up an item by its barcode
func (h *ItemHandler) GetItemByBarcode(c *gin.Context) {
	barcode := c.Param("barcode")
	if barcode == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Barcode is required",
		})
		return
	}

	item, err := h.inventoryService.GetItemByBarcode(barcode)
	if err != nil {
		c.JSON(inventoryErrorStatus(err), gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item retrieved successfully",
		"data":    item,
	})
}

// CreateItem creates a new item and its opening ledger entry
func (h *ItemHandler) CreateItem(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	var req inventory.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	item, err := h.inventoryService.CreateItem(&req, userID)
	if err != nil {
		c.JSON(inventoryErrorStatus(err), gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Item created successfully",
		"data":    item,
	})
}

// UpdateItem updates item metadata. Stock levels are never touched
// here; quantity changes go through the transaction endpoint.
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid item ID",
		})
		return
	}

	var req inventory.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	item, err := h.inventoryService.UpdateItem(uint(id), &req, userID)
	if err != nil {
		c.JSON(inventoryErrorStatus(err), gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item updated successfully",
		"data":    item,
	})
}

// DeleteItem soft-deletes an item
func (h *ItemHandler) DeleteItem(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid item ID",
		})
		return
	}

	if err := h.inventoryService.DeleteItem(uint(id)); err != nil {
		c.JSON(inventoryErrorStatus(err), gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item deleted successfully",
	})
}

// RecordTransaction appends a stock transaction to an item's ledger
func (h *ItemHandler) RecordTransaction(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid item ID",
		})
		return
	}

	var req inventory.TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	// The path parameter is authoritative
	req.ItemID = uint(id)

	transaction, err := h.inventoryService.RecordTransaction(&req, userID)
	if err != nil {
		c.JSON(inventoryErrorStatus(err), gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Transaction recorded successfully",
		"data":    transaction,
	})
}

// GetTransactions returns an item's ledger, newest first
func (h *ItemHandler) GetTransactions(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid item ID",
		})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	transactions, err := h.inventoryService.GetTransactions(uint(id), limit)
	if err != nil {
		c.JSON(inventoryErrorStatus(err), gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Transactions retrieved successfully",
		"data":    transactions,
	})
}
