package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/DevelDoe/moms-journal-api/internal/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TradeHandler struct {
	tradeService *services.TradeService
}

func NewTradeHandler(tradeService *services.TradeService) *TradeHandler {
	return &TradeHandler{tradeService: tradeService}
}

// parseDateQuery reads an optional YYYY-MM-DD (or RFC3339) query parameter.
func parseDateQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, true
		}
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + " date"})
	return nil, false
}

// GetTrades returns the user's realized trades, optionally bounded by
// start/end calendar dates (inclusive).
func (h *TradeHandler) GetTrades(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	start, ok := parseDateQuery(c, "start")
	if !ok {
		return
	}
	end, ok := parseDateQuery(c, "end")
	if !ok {
		return
	}

	trades, err := h.tradeService.GetUserTrades(c.Request.Context(), userID, start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch trades: " + err.Error()})
		return
	}
	if len(trades) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"msg": "No trades found within the specified date range."})
		return
	}

	c.JSON(http.StatusOK, trades)
}

// GetHistoricalTrades returns the user's trades from the last seven days.
func (h *TradeHandler) GetHistoricalTrades(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	trades, err := h.tradeService.GetRecentTrades(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch trades: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, trades)
}

// GetSummaries returns all daily summaries for the user.
func (h *TradeHandler) GetSummaries(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	summaries, err := h.tradeService.GetUserSummaries(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch summaries: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, summaries)
}

// FilterSummaries returns the user's summaries matching threshold query
// parameters: minProfit, maxProfit, minTrades, maxTrades, date.
func (h *TradeHandler) FilterSummaries(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	filter := services.SummaryFilter{Date: c.Query("date")}

	if raw := c.Query("minProfit"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid minProfit"})
			return
		}
		filter.MinProfit = &v
	}
	if raw := c.Query("maxProfit"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid maxProfit"})
			return
		}
		filter.MaxProfit = &v
	}
	if raw := c.Query("minTrades"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid minTrades"})
			return
		}
		filter.MinTrades = &v
	}
	if raw := c.Query("maxTrades"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid maxTrades"})
			return
		}
		filter.MaxTrades = &v
	}

	summaries, err := h.tradeService.FilterUserSummaries(c.Request.Context(), userID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch summaries: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, summaries)
}

// PurgeUserData deletes a user's orders, trades and summaries within an
// optional date range. Admin-only.
func (h *TradeHandler) PurgeUserData(c *gin.Context) {
	targetID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID is required"})
		return
	}

	start, ok := parseDateQuery(c, "start")
	if !ok {
		return
	}
	end, ok := parseDateQuery(c, "end")
	if !ok {
		return
	}

	result, err := h.tradeService.PurgeUserData(c.Request.Context(), targetID, start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete data: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":               "Data deleted successfully",
		"deletedTradesCount":    result.DeletedTrades,
		"deletedSummariesCount": result.DeletedSummaries,
		"deletedOrdersCount":    result.DeletedOrders,
	})
}
