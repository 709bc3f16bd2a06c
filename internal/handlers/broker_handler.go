package handlers

import (
	"errors"
	"net/http"

	"github.com/DevelDoe/moms-journal-api/internal/models"
	"github.com/DevelDoe/moms-journal-api/internal/services"

	"github.com/gin-gonic/gin"
)

type BrokerHandler struct {
	brokerService *services.BrokerService
}

func NewBrokerHandler(brokerService *services.BrokerService) *BrokerHandler {
	return &BrokerHandler{brokerService: brokerService}
}

func (h *BrokerHandler) GetBrokers(c *gin.Context) {
	brokers, err := h.brokerService.GetBrokers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch brokers: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, brokers)
}

func (h *BrokerHandler) GetBroker(c *gin.Context) {
	broker, err := h.brokerService.GetBrokerByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrBrokerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "Broker not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, broker)
}

type CreateBrokerRequest struct {
	Name         string               `json:"name" binding:"required"`
	Description  string               `json:"description"`
	AccountTypes []models.AccountType `json:"accountTypes"`
}

func (h *BrokerHandler) CreateBroker(c *gin.Context) {
	var req CreateBrokerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	broker := &models.Broker{
		Name:         req.Name,
		Description:  req.Description,
		AccountTypes: req.AccountTypes,
	}
	if err := h.brokerService.CreateBroker(c.Request.Context(), broker); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, broker)
}

func (h *BrokerHandler) UpdateBroker(c *gin.Context) {
	var patch models.Broker
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	broker, err := h.brokerService.UpdateBroker(c.Request.Context(), c.Param("id"), &patch)
	if err != nil {
		if errors.Is(err, services.ErrBrokerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "Broker not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "Broker updated successfully", "broker": broker})
}

func (h *BrokerHandler) DeleteBroker(c *gin.Context) {
	err := h.brokerService.DeleteBroker(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrBrokerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "Broker not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Broker deleted successfully."})
}

// GetBrokerByAccountType returns the broker offering the named fee schedule.
func (h *BrokerHandler) GetBrokerByAccountType(c *gin.Context) {
	broker, err := h.brokerService.GetBrokerByAccountType(c.Request.Context(), c.Param("accountType"))
	if err != nil {
		if errors.Is(err, services.ErrBrokerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "Broker with the specified account type not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, broker)
}

// GetAccountType returns one embedded fee schedule by id.
func (h *BrokerHandler) GetAccountType(c *gin.Context) {
	accountType, err := h.brokerService.GetAccountType(c.Request.Context(), c.Param("accountId"))
	if err != nil {
		if errors.Is(err, services.ErrBrokerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "Account not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, accountType)
}
