package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"ustva-extractor/internal/api"
	"ustva-extractor/internal/api/handlers"
	"ustva-extractor/internal/ocr"
	"ustva-extractor/internal/repository"
	"ustva-extractor/internal/service"
	"ustva-extractor/pkg/config"
	"ustva-extractor/pkg/logger"

	"go.uber.org/zap"
)

// @title UStVA Extractor API
// @version 1.0
// @description Ingests XRechnung, ZUGFeRD/Factur-X and scanned receipts and normalizes them for the VAT pre-return.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8787
// @BasePath /

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level, cfg.Logger.Format); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting UStVA extractor",
		zap.String("db_driver", cfg.Database.Driver),
		zap.Bool("ocr_server_side", cfg.OCR.ServerSide),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize store
	store, err := repository.Open(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to open database", zap.Error(err))
	}
	defer store.Close()

	// Initialize services
	var recognizer service.TextRecognizer
	if cfg.OCR.ServerSide {
		recognizer = ocr.NewRecognizer(cfg.OCR.Languages, appLogger)
	}
	dispatcher := service.NewDispatcher(service.NewAttachmentExtractor(appLogger), recognizer, appLogger)

	schema, err := service.NewInvoiceSchema()
	if err != nil {
		appLogger.Fatal("Failed to compile invoice schema", zap.Error(err))
	}

	ingestService := service.NewIngestService(dispatcher, store, appLogger)
	feedbackService := service.NewFeedbackService(store, schema, appLogger)
	receiptService := service.NewReceiptService(store, appLogger)

	// Initialize handlers
	app := api.SetupRouter(api.Handlers{
		Ingest:   handlers.NewIngestHandler(ingestService, appLogger),
		Feedback: handlers.NewFeedbackHandler(feedbackService, appLogger),
		Receipt:  handlers.NewReceiptHandler(receiptService, appLogger),
		Health:   handlers.NewHealthHandler(store, appLogger),
	}, &cfg.Server, appLogger)

	// Start inbox watcher
	var wg sync.WaitGroup
	if cfg.Inbox.Dir != "" {
		watcher := service.NewInboxWatcher(cfg.Inbox.Dir, cfg.Inbox.Workers, ingestService, appLogger)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := watcher.Run(ctx); err != nil {
				appLogger.Error("Inbox watcher failed", zap.Error(err))
			}
		}()
	}

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
	wg.Wait()
}
