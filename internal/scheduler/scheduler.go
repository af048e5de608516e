package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/dairy/internal/config"
	"github.com/mamadbah2/dairy/internal/service/archive"
	"github.com/mamadbah2/dairy/internal/service/carryforward"
	"github.com/mamadbah2/dairy/pkg/dates"
)

// Scheduler manages the daily carry-forward and monthly archive jobs.
type Scheduler struct {
	cron     *cron.Cron
	runner   *carryforward.Runner
	archiver *archive.Archiver
	cfg      config.Config
	logger   *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.Config, runner *carryforward.Runner, archiver *archive.Archiver, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	// robfig/cron/v3 default parser is standard 5-field cron, evaluated in the
	// host's local time. The configured timezone is recorded for forward
	// compatibility but day boundaries currently follow local time too.
	c := cron.New()

	return &Scheduler{
		cron:     c,
		runner:   runner,
		archiver: archiver,
		cfg:      cfg,
		logger:   logger,
	}
}

// Start registers the cron entries and starts the scheduler.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler",
		zap.String("carry_schedule", s.cfg.Jobs.CarrySchedule),
		zap.String("archive_schedule", s.cfg.Jobs.ArchiveSchedule),
		zap.String("configured_timezone", s.cfg.Jobs.Timezone))

	if _, err := s.cron.AddFunc(s.cfg.Jobs.CarrySchedule, s.runCarryForward); err != nil {
		s.logger.Error("failed to schedule carry-forward job", zap.Error(err))
	}

	if _, err := s.cron.AddFunc(s.cfg.Jobs.ArchiveSchedule, s.runMonthlyArchive); err != nil {
		s.logger.Error("failed to schedule monthly archive job", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) runCarryForward() {
	s.logger.Info("running scheduled carry-forward")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if _, err := s.runner.Run(ctx, dates.Today()); err != nil {
		s.logger.Error("scheduled carry-forward run failed", zap.Error(err))
	}
}

func (s *Scheduler) runMonthlyArchive() {
	s.logger.Info("running scheduled monthly archive")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if _, err := s.archiver.Run(ctx, dates.Today()); err != nil {
		s.logger.Error("scheduled monthly archive failed", zap.Error(err))
	}
}
