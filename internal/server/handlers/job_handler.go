package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/dairy/internal/config"
	"github.com/mamadbah2/dairy/internal/service/archive"
	"github.com/mamadbah2/dairy/internal/service/carryforward"
	"github.com/mamadbah2/dairy/pkg/dates"
)

// JobHandler exposes manual triggers for the scheduled jobs. The carry
// trigger exists for operations and testing; in production it requires the
// explicit enable flag.
type JobHandler struct {
	runner   *carryforward.Runner
	archiver *archive.Archiver
	cfg      *config.Config
	logger   *zap.Logger
}

// NewJobHandler constructs the HTTP handler adapter.
func NewJobHandler(runner *carryforward.Runner, archiver *archive.Archiver, cfg *config.Config, logger *zap.Logger) *JobHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JobHandler{runner: runner, archiver: archiver, cfg: cfg, logger: logger}
}

// RunCarryForward executes one carry-forward sweep against today and returns
// the run summary.
func (h *JobHandler) RunCarryForward(c *gin.Context) {
	if h.cfg.IsProduction() && !h.cfg.Jobs.EnableManualCarry {
		c.JSON(http.StatusForbidden, gin.H{"error": "manual carry-forward run not allowed in production"})
		return
	}

	summary, err := h.runner.Run(c.Request.Context(), dates.Today())
	if err != nil {
		h.logger.Error("manual carry-forward run failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "carry-forward run failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "summary": summary})
}

// RunArchive executes one monthly archive-and-purge sweep.
func (h *JobHandler) RunArchive(c *gin.Context) {
	summary, err := h.archiver.Run(c.Request.Context(), dates.Today())
	if err != nil {
		h.logger.Error("manual archive run failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "archive run failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "summary": summary})
}
