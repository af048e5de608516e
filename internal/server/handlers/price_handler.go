package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/dairy/internal/repository/mongodb"
)

// PriceHandler serves the singleton milk price document.
type PriceHandler struct {
	prices mongodb.PriceStore
	logger *zap.Logger
}

// NewPriceHandler constructs the HTTP handler adapter.
func NewPriceHandler(prices mongodb.PriceStore, logger *zap.Logger) *PriceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PriceHandler{prices: prices, logger: logger}
}

type priceRequest struct {
	CowPrice     *float64 `json:"cowPrice"`
	BuffaloPrice *float64 `json:"buffaloPrice"`
}

// Get returns the current milk prices, creating a zeroed document on first
// access.
func (h *PriceHandler) Get(c *gin.Context) {
	prices, err := h.prices.GetOrCreatePrices(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to fetch milk prices", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch milk prices"})
		return
	}
	c.JSON(http.StatusOK, prices)
}

// Update sets the current per-liter prices.
func (h *PriceHandler) Update(c *gin.Context) {
	var req priceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.CowPrice == nil || *req.CowPrice < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "valid cow price is required"})
		return
	}
	if req.BuffaloPrice == nil || *req.BuffaloPrice < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "valid buffalo price is required"})
		return
	}

	prices, err := h.prices.UpdatePrices(c.Request.Context(), *req.CowPrice, *req.BuffaloPrice)
	if err != nil {
		h.logger.Error("failed to update milk prices", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update milk prices"})
		return
	}
	c.JSON(http.StatusOK, prices)
}
