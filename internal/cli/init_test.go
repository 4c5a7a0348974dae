package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSetupLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupLogger(&buf, "debug", "cli")

	logger.Debug("hello")
	if !strings.Contains(buf.String(), "component=cli") {
		t.Errorf("output %q missing component", buf.String())
	}

	buf.Reset()
	SetupLogger(&buf, "chatty", "cli")
	if !strings.Contains(buf.String(), "Falling back to info level") {
		t.Errorf("unknown level should warn, got %q", buf.String())
	}
}

func TestLoadEnvFileAndConfig(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	content := "DATA_BACKEND=memory\nHEALTHLOG_TEST_MARKER=loaded\n"
	if err := os.WriteFile(envFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DATA_BACKEND", "")
	os.Unsetenv("DATA_BACKEND")
	t.Setenv("HEALTHLOG_TEST_MARKER", "")
	os.Unsetenv("HEALTHLOG_TEST_MARKER")

	LoadEnvFile(envFile)

	if got := os.Getenv("HEALTHLOG_TEST_MARKER"); got != "loaded" {
		t.Fatalf("marker = %q, want loaded", got)
	}
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.DataBackend != "memory" {
		t.Errorf("DataBackend = %q, want memory", cfg.DataBackend)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	t.Setenv("DATA_BACKEND", "memory")
	t.Setenv("PORT", "not-a-port")
	if _, err := LoadConfig(); err == nil {
		t.Error("LoadConfig() should fail validation")
	}
}

func TestRunCleanup(t *testing.T) {
	if !runCleanup(time.Second, nil) {
		t.Error("nil cleanup should count as finished")
	}

	var ran bool
	if !runCleanup(time.Second, func(ctx context.Context) { ran = true }) || !ran {
		t.Error("fast cleanup should finish")
	}

	release := make(chan struct{})
	defer close(release)
	if runCleanup(10*time.Millisecond, func(ctx context.Context) { <-release }) {
		t.Error("stuck cleanup should time out")
	}

	var sawDeadline bool
	runCleanup(time.Second, func(ctx context.Context) { _, sawDeadline = ctx.Deadline() })
	if !sawDeadline {
		t.Error("cleanup context should carry the timeout")
	}
}
