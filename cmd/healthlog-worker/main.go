package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"healthlog/internal/amqp"
	"healthlog/internal/backend"
	"healthlog/internal/cli"
	applog "healthlog/internal/log"
	"healthlog/internal/records/google"
	"healthlog/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadConfig()
	if err != nil {
		boot := cli.SetupLogger(os.Stdout, "info", applog.ComponentWorker)
		cli.Fatal(boot.Logger, "Configuration validation failed", err)
	}
	logger := cli.SetupLogger(os.Stdout, cfg.LogLevel, applog.ComponentWorker)

	logger.Info("Starting healthlog-worker")

	if !cfg.AMQPEnabled() || !cfg.SheetsEnabled() {
		cli.Fatal(logger.Logger, "Worker not configured",
			errors.New("AMQP_URL and GOOGLE_SPREADSHEET_ID are both required"))
	}

	// The worker only reads the table; it never publishes.
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		cli.Fatal(logger.Logger, "Invalid backend configuration", err)
	}
	if err := requireSharedBackend(backendCfg); err != nil {
		cli.Fatal(logger.Logger, "Worker requires the sqlite backend", err)
	}
	backendCfg.AMQPURL = ""
	res, err := backend.NewFactory(logger.WithComponent(applog.ComponentBackend).Logger).
		CreateBackend(context.Background(), backendCfg)
	if err != nil {
		cli.Fatal(logger.Logger, "Failed to initialize backend", err)
	}
	defer res.Close()

	sheets, err := google.NewClient(context.Background(), google.Config{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		SheetName:       cfg.GoogleSheetName,
		CredentialsJSON: cfg.GoogleServiceAccountJSON,
		CredentialsFile: cfg.GoogleServiceAccountJSONFile,
	})
	if err != nil {
		cli.Fatal(logger.Logger, "Failed to initialize Google Sheets client", err)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		cli.Fatal(logger.Logger, "Failed to initialize AMQP client", err)
	}
	defer amqpClient.Close()

	exportWorker := worker.NewExportWorker(res.Store, sheets)

	ctx, done := cli.GracefulShutdown(logger.Logger, 30*time.Second, nil)

	// Bring the mirror up to date with anything saved while the worker was down.
	logger.Info("Performing startup export...")
	if err := exportWorker.StartupExport(ctx); err != nil {
		logger.Error("Startup export failed", applog.FieldError, err)
	}

	consumeErr := make(chan error, 1)
	go func() {
		consumeErr <- amqpClient.ConsumeRecordSaved(ctx, exportWorker.HandleRecordSaved)
	}()

	select {
	case <-ctx.Done():
		<-done
	case err := <-consumeErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Message consumption failed", applog.FieldError, err)
			res.Close()
			amqpClient.Close()
			os.Exit(1)
		}
	}
	logger.Info("Worker stopped")
}

// requireSharedBackend rejects stores the server cannot see. A memory store
// holds only the seed file, and every export would overwrite the Sheet with it.
func requireSharedBackend(cfg backend.Config) error {
	if cfg.Type != backend.SQLiteBackend {
		return fmt.Errorf("DATA_BACKEND=%s is not shared with the server", cfg.Type)
	}
	return nil
}
