package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"go.uber.org/zap"

	"github.com/mamadbah2/stockdesk/internal/config"
	"github.com/mamadbah2/stockdesk/internal/metrics"
	"github.com/mamadbah2/stockdesk/internal/repository/mongodb"
	"github.com/mamadbah2/stockdesk/internal/repository/sheets"
	"github.com/mamadbah2/stockdesk/internal/scheduler"
	"github.com/mamadbah2/stockdesk/internal/server/handlers"
	"github.com/mamadbah2/stockdesk/internal/server/router"
	inventorysvc "github.com/mamadbah2/stockdesk/internal/service/inventory"
	productsvc "github.com/mamadbah2/stockdesk/internal/service/products"
	reportingsvc "github.com/mamadbah2/stockdesk/internal/service/reporting"
	unitsvc "github.com/mamadbah2/stockdesk/internal/service/units"
	whatsappsvc "github.com/mamadbah2/stockdesk/internal/service/whatsapp"
	"github.com/mamadbah2/stockdesk/internal/service/workspace"
	"github.com/mamadbah2/stockdesk/pkg/clients/catalog"
	whatsappclient "github.com/mamadbah2/stockdesk/pkg/clients/whatsapp"
	"github.com/mamadbah2/stockdesk/pkg/logger"
)

// unitSetOwner keys the shared unit set in storage.
const unitSetOwner = "default"

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(logger.Options{Level: cfg.Log.Level, File: cfg.Log.File}))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	mongoRepo, err := mongodb.NewMongoDBRepository(startupCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	var sheetsRepo sheets.Repository
	if cfg.Sheets.Enabled() {
		repo, err := sheets.NewGoogleSheetRepository(startupCtx, cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		sheetsRepo = repo
	} else {
		baseLogger.Warn("google sheets not configured, stock digest export disabled")
	}

	var alertSvc whatsappsvc.AlertService
	if cfg.WhatsApp.Enabled() {
		alertSvc = whatsappsvc.NewMetaAlertService(cfg.WhatsApp, whatsappclient.NewClient(cfg.WhatsApp), baseLogger.Named("svc.whatsapp"))
		baseLogger.Info("whatsapp alerts enabled")
	} else {
		baseLogger.Warn("whatsapp credentials missing, stock alerts disabled")
	}

	location, err := time.LoadLocation(cfg.Reporting.Timezone)
	if err != nil {
		baseLogger.Fatal("failed to load timezone", zap.Error(err))
	}

	recorder := metrics.NewRecorder()
	catalogClient := catalog.NewClient(cfg.Catalog)
	sessions := workspace.NewSessionManager()

	inventorySvc := inventorysvc.NewService(catalogClient, mongoRepo, recorder, inventorysvc.Options{
		PageSize:       cfg.Catalog.PageSize,
		LookupLimit:    cfg.Catalog.LookupLimit,
		AllowReduction: cfg.Stock.AllowReduction,
		Location:       location,
	}, baseLogger.Named("svc.inventory"))

	unitSvc, err := unitsvc.NewService(startupCtx, mongoRepo, unitSetOwner, recorder, baseLogger.Named("svc.units"))
	if err != nil {
		baseLogger.Fatal("failed to init unit set", zap.Error(err))
	}

	productSvc := productsvc.NewService(catalogClient, recorder, baseLogger.Named("svc.products"))

	var notifier reportingsvc.Notifier
	if alertSvc != nil {
		notifier = alertSvc
	}
	reportingSvc := reportingsvc.NewService(inventorySvc, sheetsRepo, notifier, baseLogger.Named("svc.reporting"))

	engine := router.New(router.Handlers{
		Inventory: handlers.NewInventoryHandler(inventorySvc, sessions, baseLogger.Named("handlers.inventory")),
		Workspace: handlers.NewWorkspaceHandler(inventorySvc, unitSvc, sessions, baseLogger.Named("handlers.workspace")),
		Catalog:   handlers.NewCatalogHandler(unitSvc, productSvc, sessions, baseLogger.Named("handlers.catalog")),
		Alerts:    handlers.NewAlertHandler(reportingSvc, alertSvc, baseLogger.Named("handlers.alerts")),
		Metrics:   recorder.Handler(),
	}, baseLogger.Named("router"))

	sched, err := scheduler.NewScheduler(cfg.Reporting, reportingSvc, baseLogger.Named("scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
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
