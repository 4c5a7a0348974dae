package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"healthlog/internal/backend"
	"healthlog/internal/cli"
	apphttp "healthlog/internal/http"
	applog "healthlog/internal/log"
	"healthlog/internal/scheduler"
	"healthlog/internal/services"
)

func main() {
	// Load .env file for local development (ignored when absent)
	cli.LoadEnvFile()

	cfg, err := cli.LoadConfig()
	if err != nil {
		boot := cli.SetupLogger(os.Stdout, "info", applog.ComponentApp)
		cli.Fatal(boot.Logger, "Configuration validation failed", err)
	}
	logger := cli.SetupLogger(os.Stdout, cfg.LogLevel, applog.ComponentApp)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		cli.Fatal(logger.Logger, "Invalid backend configuration", err)
	}
	res, err := backend.NewFactory(logger.WithComponent(applog.ComponentBackend).Logger).
		CreateBackend(context.Background(), backendCfg)
	if err != nil {
		cli.Fatal(logger.Logger, "Failed to initialize backend", err)
	}

	svc := services.NewRecordService(res.Store, res.Publisher)

	srv := apphttp.NewServer(":"+cfg.Port, svc, apphttp.Options{
		RangeDays: cfg.DefaultRangeDays,
		CacheSize: cfg.CacheSize,
		CacheTTL:  cfg.CacheTTL,
		Ready:     res.Ready,
		Logger:    logger.WithComponent(applog.ComponentHTTP),
	})

	var sched *scheduler.Scheduler
	if cfg.BackupEnabled() {
		sched = scheduler.New(time.Local)
		backup := &scheduler.Backup{Source: res.Store, Dir: cfg.BackupDir}
		if err := sched.Add("csv-backup", cfg.BackupSchedule, backup.Run); err != nil {
			cli.Fatal(logger.Logger, "Failed to schedule backups", err)
		}
		sched.Start()
		logger.Info("Scheduled CSV backups", "dir", cfg.BackupDir, "schedule", cfg.BackupSchedule)
	}

	ctx, done := cli.GracefulShutdown(logger.Logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
		if sched != nil {
			sched.Stop()
		}
		if err := res.Close(); err != nil {
			logger.Error("Backend cleanup error", applog.FieldError, err)
		}
	})

	logger.Info("Starting healthlog server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"amqp", cfg.AMQPEnabled(),
		"backups", cfg.BackupEnabled())
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		cli.Fatal(logger.Logger, "Server error", err)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
