// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/church-inventory-backend/internal/config"
	"github.com/your-org/church-inventory-backend/internal/domain/checkout"
	"github.com/your-org/church-inventory-backend/internal/domain/inventory"
	"github.com/your-org/church-inventory-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// CheckoutHandler handles item checkout endpoints
type CheckoutHandler struct {
	checkoutService *checkout.Service
	config          *config.Config
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(db *gorm.DB, cfg *config.Config) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkout.NewService(db, cfg),
		config:          cfg,
	}
}

func checkoutErrorStatus(err error) int {
	switch {
	case errors.Is(err, checkout.ErrCheckoutNotFound),
		errors.Is(err, inventory.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, inventory.ErrInsufficientStock),
		errors.Is(err, checkout.ErrAlreadyReturned),
		errors.Is(err, inventory.ErrConcurrentModification):
		return http.StatusConflict
	case errors.Is(err, inventory.ErrInvalidTransaction),
		errors.Is(err, inventory.ErrReferentialIntegrity):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Checkout loans units of an item to the authenticated user
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	var req checkout.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	record, err := h.checkoutService.Checkout(&req, userID)
	if err != nil {
		c.JSON(checkoutErrorStatus(err), gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Item checked out successfully",
		"data":    record,
	})
}

// CheckIn returns a checked-out item
func (h *CheckoutHandler) CheckIn(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid checkout ID",
		})
		return
	}

	record, err := h.checkoutService.CheckIn(uint(id))
	if err != nil {
		c.JSON(checkoutErrorStatus(err), gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item checked in successfully",
		"data":    record,
	})
}

// GetCheckout retrieves a single checkout record
func (h *CheckoutHandler) GetCheckout(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid checkout ID",
		})
		return
	}

	record, err := h.checkoutService.GetCheckout(uint(id))
	if err != nil {
		c.JSON(checkoutErrorStatus(err), gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout retrieved successfully",
		"data":    record,
	})
}

// ListCheckouts lists all checkout records with optional filters
func (h *CheckoutHandler) ListCheckouts(c *gin.Context) {
	var req checkout.ListCheckoutsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	response, err := h.checkoutService.ListCheckouts(&req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve checkouts",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Checkouts retrieved successfully",
		"data":    response,
	})
}

// ListMyCheckouts lists the authenticated user's checkout records
func (h *CheckoutHandler) ListMyCheckouts(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	var req checkout.ListCheckoutsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}
	req.UserID = &userID

	response, err := h.checkoutService.ListCheckouts(&req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve checkouts",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Checkouts retrieved successfully",
		"data":    response,
	})
}

// GetAvailability reports how many units of an item can still be loaned
func (h *CheckoutHandler) GetAvailability(c *gin.Context) {
	itemID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid item ID",
		})
		return
	}

	available, err := h.checkoutService.AvailableQuantity(uint(itemID))
	if err != nil {
		c.JSON(checkoutErrorStatus(err), gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Availability retrieved successfully",
		"data": gin.H{
			"item_id":   uint(itemID),
			"available": available,
		},
	})
}
