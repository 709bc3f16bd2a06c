package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/DevelDoe/moms-journal-api/internal/models"
	"github.com/DevelDoe/moms-journal-api/internal/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderHandler struct {
	orderService *services.OrderService
}

func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// currentUserID pulls the authenticated user id set by the auth middleware.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	raw, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return primitive.NilObjectID, false
	}
	objID, err := primitive.ObjectIDFromHex(raw.(string))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return primitive.NilObjectID, false
	}
	return objID, true
}

// OrderInput is one raw fill in an import batch.
type OrderInput struct {
	Symbol   string    `json:"symbol" binding:"required"`
	Side     string    `json:"side" binding:"required"`
	Quantity float64   `json:"quantity" binding:"required,gt=0"`
	Price    float64   `json:"price" binding:"required,gt=0"`
	Account  string    `json:"account" binding:"required"`
	Date     time.Time `json:"date" binding:"required"`
}

type ImportOrdersRequest struct {
	Orders []OrderInput `json:"orders" binding:"required,min=1,dive"`
}

// ImportOrders accepts a batch of raw orders, runs the journaling pipeline
// and returns the recomputed trades and daily summaries. All-or-nothing: a
// rejected batch persists nothing.
func (h *OrderHandler) ImportOrders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req ImportOrdersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	orders := make([]models.Order, len(req.Orders))
	for i, in := range req.Orders {
		orders[i] = models.Order{
			Symbol:   in.Symbol,
			Side:     in.Side,
			Quantity: in.Quantity,
			Price:    in.Price,
			Account:  in.Account,
			Date:     in.Date,
		}
	}

	result, err := h.orderService.ImportOrders(c.Request.Context(), userID, orders)
	if err != nil {
		if errors.Is(err, services.ErrDuplicateBatch) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Duplicate order batch detected. No orders were saved."})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "All orders saved successfully.",
		"batchHash": result.BatchHash,
		"orders":    result.OrderCount,
		"trades":    result.Trades,
		"summaries": result.Summaries,
	})
}

// GetOrders returns all orders for the authenticated user, newest first.
func (h *OrderHandler) GetOrders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	orders, err := h.orderService.GetUserOrders(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, orders)
}

// GetHistoricalOrders returns the authenticated user's orders from the last
// seven days.
func (h *OrderHandler) GetHistoricalOrders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	orders, err := h.orderService.GetRecentOrders(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, orders)
}
