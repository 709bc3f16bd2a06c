package handlers

import (
	"net/http"

	"github.com/DevelDoe/moms-journal-api/internal/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	authService *services.AuthService
	userService *services.UserService
}

func NewUserHandler(authService *services.AuthService, userService *services.UserService) *UserHandler {
	return &UserHandler{
		authService: authService,
		userService: userService,
	}
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.authService.GetUserByID(userID.Hex())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

type UpdateProfileRequest struct {
	Tax           *float64 `json:"tax"`
	Commission    *float64 `json:"commission"`
	CommissionMin *float64 `json:"commission_min"`
	CommissionMax *float64 `json:"commission_max"`
}

// UpdateProfile updates the user's commission/tax settings.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, services.ProfileUpdate{
		TaxRate:        req.Tax,
		CommissionRate: req.Commission,
		CommissionMin:  req.CommissionMin,
		CommissionMax:  req.CommissionMax,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) GetAccounts(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	accounts, err := h.userService.GetAccounts(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, accounts)
}

type AddAccountRequest struct {
	BrokerID  string  `json:"brokerId" binding:"required"`
	AccountID string  `json:"accountId" binding:"required"`
	Number    string  `json:"number" binding:"required"`
	Balance   float64 `json:"balance"`
}

// AddAccount attaches a brokerage account to the authenticated user.
func (h *UserHandler) AddAccount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req AddAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := h.userService.AddAccount(c.Request.Context(), userID, req.BrokerID, req.AccountID, req.Number, req.Balance)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, account)
}

// RemoveAccount detaches an account from the authenticated user's profile.
func (h *UserHandler) RemoveAccount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.RemoveAccount(c.Request.Context(), userID, c.Param("accountId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, user)
}
