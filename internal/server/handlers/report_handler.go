package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/dairy/internal/service/reporting"
	"github.com/mamadbah2/dairy/pkg/dates"
)

// ReportHandler serves sales and invoice queries.
type ReportHandler struct {
	svc    *reporting.Service
	logger *zap.Logger
}

// NewReportHandler constructs the HTTP handler adapter.
func NewReportHandler(svc *reporting.Service, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{svc: svc, logger: logger}
}

// DailySales aggregates one day across all customers. The date query
// parameter defaults to today.
func (h *ReportHandler) DailySales(c *gin.Context) {
	day := dates.Today()
	if raw := c.Query("date"); raw != "" {
		parsed, err := dates.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
			return
		}
		day = parsed
	}

	report, err := h.svc.DailySales(c.Request.Context(), day)
	if err != nil {
		h.logger.Error("failed to build daily sales report", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build daily sales report"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// Invoice builds a customer's invoice for the from/to query range.
func (h *ReportHandler) Invoice(c *gin.Context) {
	from, err := dates.Parse(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
		return
	}
	to, err := dates.Parse(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
		return
	}
	if to.Before(from) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must not precede from"})
		return
	}

	invoice, err := h.svc.CustomerInvoice(c.Request.Context(), c.Param("customerId"), from, to)
	if err != nil {
		if errors.Is(err, reporting.ErrInvalidCustomerID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("failed to build invoice", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build invoice"})
		return
	}
	c.JSON(http.StatusOK, invoice)
}
