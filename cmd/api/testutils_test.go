package main

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"reviewdb/proj/internal/config"
	"reviewdb/proj/internal/storage/postgres"
)

// NewTestApplication builds an application with a zero storage; tests
// using it must not reach the database.
func NewTestApplication(t *testing.T) *Application {
	t.Helper()
	cfg := &config.Config{}
	cfg.Auth.TokenSecret = "test-secret-0123456789"
	cfg.Auth.TokenTTL = time.Hour
	cfg.Auth.CodeLength = 5
	cfg.BgTasks.MaxWorkers = 1
	cfg.BgTasks.QueueSize = 1
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewApplication(cfg, log, &postgres.Storage{})
}
