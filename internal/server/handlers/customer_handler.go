package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/dairy/internal/domain/models"
	"github.com/mamadbah2/dairy/internal/repository/mongodb"
)

// CustomerHandler serves customer CRUD plus the tombstoned cascade delete.
type CustomerHandler struct {
	customers  mongodb.CustomerStore
	entries    mongodb.EntryStore
	archive    mongodb.ArchiveStore
	extensions mongodb.ExtensionStore
	logger     *zap.Logger
}

// NewCustomerHandler constructs the HTTP handler adapter.
func NewCustomerHandler(customers mongodb.CustomerStore, entries mongodb.EntryStore, archive mongodb.ArchiveStore, extensions mongodb.ExtensionStore, logger *zap.Logger) *CustomerHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CustomerHandler{
		customers:  customers,
		entries:    entries,
		archive:    archive,
		extensions: extensions,
		logger:     logger,
	}
}

type customerRequest struct {
	Name                    string `json:"name"`
	Phone                   string `json:"phone"`
	Address                 string `json:"address"`
	ExtensionID             string `json:"extensionId"`
	DefaultProductID        string `json:"defaultProductId"`
	DefaultProductPermanent bool   `json:"defaultProductPermanent"`
}

// List returns customers, optionally filtered by the extensionId query
// parameter.
func (h *CustomerHandler) List(c *gin.Context) {
	var filter *primitive.ObjectID
	if raw := c.Query("extensionId"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid extensionId"})
			return
		}
		filter = &id
	}

	customers, err := h.customers.ListCustomers(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list customers", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch customers"})
		return
	}
	c.JSON(http.StatusOK, customers)
}

// ListByExtension returns the customers of one delivery zone.
func (h *CustomerHandler) ListByExtension(c *gin.Context) {
	extensionID, err := primitive.ObjectIDFromHex(c.Param("extensionId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid extensionId"})
		return
	}

	customers, err := h.customers.ListCustomers(c.Request.Context(), &extensionID)
	if err != nil {
		h.logger.Error("failed to list customers for extension", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch customers for extension"})
		return
	}
	c.JSON(http.StatusOK, customers)
}

// Create adds a customer under a specific extension.
func (h *CustomerHandler) Create(c *gin.Context) {
	extensionID, err := primitive.ObjectIDFromHex(c.Param("extensionId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid extensionId"})
		return
	}

	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customer name is required"})
		return
	}

	customer := models.Customer{
		Name:        strings.TrimSpace(req.Name),
		Phone:       strings.TrimSpace(req.Phone),
		Address:     strings.TrimSpace(req.Address),
		ExtensionID: extensionID,
	}

	saved, err := h.customers.CreateCustomer(c.Request.Context(), customer)
	if err != nil {
		h.logger.Error("failed to create customer", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create customer"})
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// Get returns one customer by id.
func (h *CustomerHandler) Get(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer id"})
		return
	}

	customer, err := h.customers.GetCustomer(c.Request.Context(), id)
	if errors.Is(err, mongodb.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
		return
	}
	if err != nil {
		h.logger.Error("failed to fetch customer", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch customer"})
		return
	}
	c.JSON(http.StatusOK, customer)
}

// Update edits customer details, including the default product hint.
func (h *CustomerHandler) Update(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer id"})
		return
	}

	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customer name is required"})
		return
	}

	customer := models.Customer{
		ID:                      id,
		Name:                    strings.TrimSpace(req.Name),
		Phone:                   strings.TrimSpace(req.Phone),
		Address:                 strings.TrimSpace(req.Address),
		DefaultProductPermanent: req.DefaultProductPermanent,
	}

	if req.ExtensionID != "" {
		extensionID, err := primitive.ObjectIDFromHex(req.ExtensionID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid extensionId"})
			return
		}
		customer.ExtensionID = extensionID
	}
	if req.DefaultProductID != "" {
		productID, err := primitive.ObjectIDFromHex(req.DefaultProductID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid defaultProductId"})
			return
		}
		customer.DefaultProductID = productID
	}

	updated, err := h.customers.UpdateCustomer(c.Request.Context(), customer)
	if errors.Is(err, mongodb.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
		return
	}
	if err != nil {
		h.logger.Error("failed to update customer", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update customer"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete tombstones the customer, then removes their entries, archived
// entries, and finally the customer document itself.
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer id"})
		return
	}

	ctx := c.Request.Context()

	customer, err := h.customers.GetCustomer(ctx, id)
	if errors.Is(err, mongodb.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
		return
	}
	if err != nil {
		h.logger.Error("failed to fetch customer for delete", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}

	extensionName := "Unknown"
	if !customer.ExtensionID.IsZero() {
		if extension, err := h.extensions.GetExtension(ctx, customer.ExtensionID); err == nil {
			extensionName = extension.Name
		}
	}

	tombstone := models.DeletedCustomer{
		CustomerID:    customer.ID,
		Name:          customer.Name,
		Phone:         customer.Phone,
		Address:       customer.Address,
		ExtensionID:   customer.ExtensionID,
		ExtensionName: extensionName,
		DeletedAt:     time.Now(),
	}
	if err := h.customers.InsertTombstone(ctx, tombstone); err != nil {
		h.logger.Error("failed to record deleted customer", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}

	if _, err := h.entries.DeleteEntriesByCustomer(ctx, customer.ID); err != nil {
		h.logger.Error("failed to delete customer entries", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if _, err := h.archive.DeleteArchivesByCustomer(ctx, customer.ID); err != nil {
		h.logger.Error("failed to delete customer archives", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if err := h.customers.DeleteCustomer(ctx, customer.ID); err != nil && !errors.Is(err, mongodb.ErrNotFound) {
		h.logger.Error("failed to delete customer", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}

	h.logger.Info("customer deleted",
		zap.String("customer_id", customer.ID.Hex()),
		zap.String("name", customer.Name))
	c.JSON(http.StatusOK, gin.H{"success": true})
}
