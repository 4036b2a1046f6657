package main

import (
	"context"
	"flag"
	"os"
	"time"

	"reviewdb/proj/internal/config"
	"reviewdb/proj/internal/lib/logger"
	"reviewdb/proj/internal/storage/postgres"
)

const version = "1.0.0"

func main() {
	cfgPath := flag.String("config", "config/local.yml", "path to config file")

	flag.Parse()
	cfg := config.MustLoad(*cfgPath)
	log := logger.SetupLogger(cfg.Debug)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	storage, err := postgres.New(ctx, cfg.DB.Dsn, cfg.DB.MaxConns, cfg.DB.MaxConnIdleTime)
	if err != nil {
		panic(err)
	}
	defer storage.Conn.Close()
	log.Info("database connection established")
	if err := postgres.Migrate(cfg.DB.Dsn); err != nil {
		panic(err)
	}
	app := NewApplication(cfg, log, storage)
	app.bgTasks.Run()
	if err := app.serve(); err != nil {
		app.log.Error("shutting down the server", "reason", err.Error())
		os.Exit(1)
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := app.bgTasks.Shutdown(shutdownCtx); err != nil {
		app.log.Error("background tasks shutdown failed", "reason", err.Error())
		os.Exit(1)
	}
}
