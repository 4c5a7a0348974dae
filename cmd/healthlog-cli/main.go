// Command healthlog-cli records and inspects entries from the terminal,
// using the same store and configuration as the server.
package main

import (
	"context"
	"io"
	"os"
	"time"

	"healthlog/internal/backend"
	"healthlog/internal/cli"
	applog "healthlog/internal/log"
	"healthlog/internal/services"
)

func main() {
	cli.LoadEnvFile()

	// Logs go to stderr so stdout stays clean for tables and CSV.
	cfg, err := cli.LoadConfig()
	if err != nil {
		boot := cli.SetupLogger(os.Stderr, "warn", applog.ComponentCLI)
		cli.Fatal(boot.Logger, "Configuration validation failed", err)
	}
	logger := cli.SetupLogger(os.Stderr, cfg.LogLevel, applog.ComponentCLI)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		cli.Fatal(logger.Logger, "Invalid backend configuration", err)
	}
	ctx := context.Background()
	res, err := backend.NewFactory(logger.Logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		cli.Fatal(logger.Logger, "Failed to initialize backend", err)
	}

	a := &app{
		svc:       services.NewRecordService(res.Store, res.Publisher),
		now:       time.Now,
		rangeDays: cfg.DefaultRangeDays,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		open:      func(path string) (io.ReadCloser, error) { return os.Open(path) },
		create:    func(path string) (io.WriteCloser, error) { return os.Create(path) },
		readOnly:  backendCfg.Type == backend.MemoryBackend,
	}
	code := a.run(ctx, os.Args[1:])

	if err := res.Close(); err != nil {
		logger.Warn("Backend cleanup error", applog.FieldError, err)
	}
	os.Exit(code)
}
