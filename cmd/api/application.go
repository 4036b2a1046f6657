package main

import (
	"log/slog"

	"reviewdb/proj/internal/api/tasks"
	"reviewdb/proj/internal/config"
	"reviewdb/proj/internal/lib/validator"
	"reviewdb/proj/internal/services"
	"reviewdb/proj/internal/storage/postgres"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

type Application struct {
	cfg          *config.Config
	log          *slog.Logger
	Http         *Http
	services     *services.Services
	validator    *govalidator.Validate
	queryDecoder *schema.Decoder
	bgTasks      *tasks.BackgroundTasks
}

func NewApplication(cfg *config.Config, log *slog.Logger, storage *postgres.Storage) *Application {
	bgTasks := tasks.New(log, cfg.BgTasks.MaxWorkers, cfg.BgTasks.QueueSize)
	v := govalidator.New(govalidator.WithRequiredStructEnabled())
	for tag, fn := range map[string]govalidator.Func{
		"username":         validator.ValidateUsername,
		"notreserved":      validator.ValidateNotReserved,
		"titleyear":        validator.ValidateTitleYear,
		"slugfield":        validator.ValidateSlug,
		"sortbytitlefield": validator.ValidateSortByTitleField,
	} {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
	queryDecoder := schema.NewDecoder()
	queryDecoder.IgnoreUnknownKeys(true)
	app := &Application{
		cfg:          cfg,
		log:          log,
		services:     services.New(log, cfg, storage, bgTasks),
		validator:    v,
		queryDecoder: queryDecoder,
		bgTasks:      bgTasks,
		Http: &Http{
			log: log,
			cfg: cfg,
		},
	}
	return app
}
