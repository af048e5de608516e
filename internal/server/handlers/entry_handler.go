package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/dairy/internal/repository/mongodb"
	"github.com/mamadbah2/dairy/internal/service/entries"
	"github.com/mamadbah2/dairy/pkg/dates"
	"github.com/mamadbah2/dairy/pkg/export"
)

// EntryHandler serves the milk-entry endpoints.
type EntryHandler struct {
	svc       *entries.Service
	customers mongodb.CustomerStore
	logger    *zap.Logger
}

// NewEntryHandler constructs the HTTP handler adapter.
func NewEntryHandler(svc *entries.Service, customers mongodb.CustomerStore, logger *zap.Logger) *EntryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EntryHandler{svc: svc, customers: customers, logger: logger}
}

type saveEntryRequest struct {
	Date            string  `json:"date"`
	Cow             float64 `json:"cow"`
	Buffalo         float64 `json:"buffalo"`
	ProductID       string  `json:"productId"`
	ProductQuantity float64 `json:"productQuantity"`
}

// Save upserts the entry for a customer on the requested day. Responds 201
// when a new record was created and 200 when an existing one was replaced.
func (h *EntryHandler) Save(c *gin.Context) {
	var req saveEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	entry, created, err := h.svc.Upsert(c.Request.Context(), entries.UpsertInput{
		CustomerID:      c.Param("customerId"),
		Date:            req.Date,
		Cow:             req.Cow,
		Buffalo:         req.Buffalo,
		ProductID:       req.ProductID,
		ProductQuantity: req.ProductQuantity,
	})
	if err != nil {
		h.respondError(c, err, "failed to save milk entry")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, entry)
}

// UpdateByDate replaces the entry for an explicit date and answers 404 when
// the customer has no entry on that day.
func (h *EntryHandler) UpdateByDate(c *gin.Context) {
	var req saveEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	entry, err := h.svc.UpdateExisting(c.Request.Context(), entries.UpsertInput{
		CustomerID:      c.Param("customerId"),
		Date:            c.Param("date"),
		Cow:             req.Cow,
		Buffalo:         req.Buffalo,
		ProductID:       req.ProductID,
		ProductQuantity: req.ProductQuantity,
	})
	if err != nil {
		h.respondError(c, err, "failed to update milk entry")
		return
	}

	c.JSON(http.StatusOK, entry)
}

// ListByCustomer returns every entry for a customer, oldest first.
func (h *EntryHandler) ListByCustomer(c *gin.Context) {
	result, err := h.svc.ListByCustomer(c.Request.Context(), c.Param("customerId"))
	if err != nil {
		h.respondError(c, err, "failed to fetch milk entries")
		return
	}
	c.JSON(http.StatusOK, result)
}

// List returns all entries, optionally filtered by the customerId query
// parameter, newest first.
func (h *EntryHandler) List(c *gin.Context) {
	result, err := h.svc.List(c.Request.Context(), c.Query("customerId"))
	if err != nil {
		h.respondError(c, err, "failed to fetch milk entries")
		return
	}
	c.JSON(http.StatusOK, result)
}

// Delete removes one entry by id.
func (h *EntryHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err, "failed to delete milk entry")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ExportExcel streams a customer's entries as an xlsx attachment.
func (h *EntryHandler) ExportExcel(c *gin.Context) {
	customerID := c.Param("customerId")

	result, err := h.svc.ListByCustomer(c.Request.Context(), customerID)
	if err != nil {
		h.respondError(c, err, "failed to fetch milk entries")
		return
	}

	buf, err := export.EntriesWorkbook(result)
	if err != nil {
		h.logger.Error("failed to build excel export", zap.String("customer_id", customerID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export milk entries"})
		return
	}

	// Name the attachment after the customer when the lookup succeeds.
	filename := export.Filename(customerID)
	if id, err := primitive.ObjectIDFromHex(customerID); err == nil {
		if customer, err := h.customers.GetCustomer(c.Request.Context(), id); err == nil {
			filename = export.Filename(customer.Name)
		}
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// respondError maps service errors onto HTTP classifications: validation
// failures are client faults, missing entries are 404, the rest is a server
// fault.
func (h *EntryHandler) respondError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, entries.ErrInvalidCustomerID),
		errors.Is(err, entries.ErrInvalidEntryID),
		errors.Is(err, entries.ErrNegativeValue),
		errors.Is(err, dates.ErrInvalidDate):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, entries.ErrEntryNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.logger.Error(logMsg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": logMsg})
	}
}
