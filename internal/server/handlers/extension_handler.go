package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/dairy/internal/domain/models"
	"github.com/mamadbah2/dairy/internal/repository/mongodb"
)

// ExtensionHandler serves delivery zone CRUD.
type ExtensionHandler struct {
	extensions mongodb.ExtensionStore
	logger     *zap.Logger
}

// NewExtensionHandler constructs the HTTP handler adapter.
func NewExtensionHandler(extensions mongodb.ExtensionStore, logger *zap.Logger) *ExtensionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExtensionHandler{extensions: extensions, logger: logger}
}

type extensionRequest struct {
	Name string `json:"name"`
}

// List returns all delivery zones.
func (h *ExtensionHandler) List(c *gin.Context) {
	extensions, err := h.extensions.ListExtensions(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list extensions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch extensions"})
		return
	}
	c.JSON(http.StatusOK, extensions)
}

// Create adds a delivery zone.
func (h *ExtensionHandler) Create(c *gin.Context) {
	var req extensionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "extension name is required"})
		return
	}

	saved, err := h.extensions.CreateExtension(c.Request.Context(), models.Extension{Name: strings.TrimSpace(req.Name)})
	if err != nil {
		h.logger.Error("failed to create extension", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create extension"})
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// Update renames a delivery zone.
func (h *ExtensionHandler) Update(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid extension id"})
		return
	}

	var req extensionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "extension name is required"})
		return
	}

	updated, err := h.extensions.UpdateExtension(c.Request.Context(), models.Extension{ID: id, Name: strings.TrimSpace(req.Name)})
	if errors.Is(err, mongodb.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "extension not found"})
		return
	}
	if err != nil {
		h.logger.Error("failed to update extension", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update extension"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete removes a delivery zone.
func (h *ExtensionHandler) Delete(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid extension id"})
		return
	}

	if err := h.extensions.DeleteExtension(c.Request.Context(), id); err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "extension not found"})
			return
		}
		h.logger.Error("failed to delete extension", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete extension"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
