package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/dairy/internal/config"
	"github.com/mamadbah2/dairy/internal/repository/mongodb"
	"github.com/mamadbah2/dairy/internal/scheduler"
	"github.com/mamadbah2/dairy/internal/server/handlers"
	"github.com/mamadbah2/dairy/internal/server/router"
	archivesvc "github.com/mamadbah2/dairy/internal/service/archive"
	carrysvc "github.com/mamadbah2/dairy/internal/service/carryforward"
	entriessvc "github.com/mamadbah2/dairy/internal/service/entries"
	reportingsvc "github.com/mamadbah2/dairy/internal/service/reporting"
	"github.com/mamadbah2/dairy/pkg/clients/notify"
	"github.com/mamadbah2/dairy/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	repo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := repo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	entriesSvc := entriessvc.NewService(repo, repo, baseLogger.Named("svc.entries"))
	reportingSvc := reportingsvc.NewService(repo, repo, repo, baseLogger.Named("svc.reporting"))
	archiver := archivesvc.NewArchiver(repo, repo, baseLogger.Named("svc.archive"))

	var notifier carrysvc.Notifier
	webhookClient := notify.NewWebhookClient(cfg.Notify)
	if webhookClient.Enabled() {
		notifier = webhookClient
		baseLogger.Info("run summary webhook enabled")
	} else {
		baseLogger.Info("run summary webhook not configured")
	}

	runner := carrysvc.NewRunner(repo, repo, repo, notifier, baseLogger.Named("job.carryforward"))

	engine := router.New(router.Handlers{
		Entries:    handlers.NewEntryHandler(entriesSvc, repo, baseLogger.Named("handlers.entries")),
		Customers:  handlers.NewCustomerHandler(repo, repo, repo, repo, baseLogger.Named("handlers.customers")),
		Extensions: handlers.NewExtensionHandler(repo, baseLogger.Named("handlers.extensions")),
		Products:   handlers.NewProductHandler(repo, baseLogger.Named("handlers.products")),
		Prices:     handlers.NewPriceHandler(repo, baseLogger.Named("handlers.prices")),
		Reports:    handlers.NewReportHandler(reportingSvc, baseLogger.Named("handlers.reports")),
		Jobs:       handlers.NewJobHandler(runner, archiver, cfg, baseLogger.Named("handlers.jobs")),
	}, baseLogger.Named("router"))

	// Initialize Scheduler
	sched := scheduler.NewScheduler(*cfg, runner, archiver, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
