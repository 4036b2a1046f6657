package services

import (
	"log/slog"

	"reviewdb/proj/internal/config"
	"reviewdb/proj/internal/mails"
	"reviewdb/proj/internal/services/auth"
	"reviewdb/proj/internal/services/catalog"
	"reviewdb/proj/internal/services/reviews"
	"reviewdb/proj/internal/services/users"
	"reviewdb/proj/internal/storage/postgres"
	dbmodels "reviewdb/proj/internal/storage/postgres/models"
	"reviewdb/proj/internal/tokens"
)

type Services struct {
	Auth     *auth.AuthService
	Catalog  *catalog.CatalogService
	Reviews  *reviews.ReviewService
	Comments *reviews.CommentService
	Users    *users.UserService
	Tokens   *tokens.Issuer
}

func New(log *slog.Logger, cfg *config.Config, storage *postgres.Storage, taskExecutor auth.TaskExecutor) *Services {
	models := dbmodels.New(storage)
	mailer := mails.New(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Timeout,
		cfg.SMTP.Username,
		cfg.SMTP.Password,
		cfg.SMTP.Sender,
		cfg.SMTP.RetriesCount,
	)
	issuer, err := tokens.New(cfg.Auth.TokenSecret, cfg.Auth.TokenTTL)
	if err != nil {
		panic(err)
	}
	return &Services{
		Auth:     auth.New(log, models.Users, mailer, issuer, taskExecutor, cfg.Auth.CodeLength),
		Catalog:  catalog.New(log, models.Categories, models.Genres, models.Titles),
		Reviews:  reviews.New(log, models.Reviews, models.Titles),
		Comments: reviews.NewCommentService(log, models.Comments, models.Reviews),
		Users:    users.New(log, models.Users),
		Tokens:   issuer,
	}
}
