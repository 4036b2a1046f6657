package users

import (
	"context"
	"errors"
	"log/slog"

	"reviewdb/proj/internal/domain/filters"
	"reviewdb/proj/internal/domain/models"
	"reviewdb/proj/internal/storage"
)

type UsersStorage interface {
	Get(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context, f filters.Filters) ([]models.User, int, error)
	Insert(ctx context.Context, username, email, role string) (*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	Delete(ctx context.Context, username string) error
}

type UserService struct {
	log     *slog.Logger
	storage UsersStorage
}

func New(log *slog.Logger, storage UsersStorage) *UserService {
	return &UserService{
		log:     log,
		storage: storage,
	}
}

func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	const op = "users.UserService.Get"
	log := s.log.With("op", op, "id", id)
	user, err := s.storage.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("user not found")
			return nil, ErrUserNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "users.UserService.GetByUsername"
	log := s.log.With("op", op, "username", username)
	user, err := s.storage.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("user not found")
			return nil, ErrUserNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, f filters.Filters) ([]models.User, int, error) {
	const op = "users.UserService.List"
	users, total, err := s.storage.List(ctx, f)
	if err != nil {
		s.log.With("op", op).Error(err.Error())
		return nil, 0, err
	}
	return users, total, nil
}

// Create registers a user through the admin API; role may be any of the
// three roles, unlike self-signup which always starts at "user".
func (s *UserService) Create(ctx context.Context, username, email, role string) (*models.User, error) {
	const op = "users.UserService.Create"
	log := s.log.With("op", op, "username", username)
	if role == "" {
		role = models.RoleUser
	}
	user, err := s.storage.Insert(ctx, username, email, role)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("user already exists")
			return nil, ErrUserAlreadyExists
		}
		log.Error(err.Error())
		return nil, err
	}
	return user, nil
}

type UpdateParams struct {
	Email string
	Bio   *string
	// Role is set only through the admin API; profile updates leave it nil.
	Role *string
}

func (s *UserService) Update(ctx context.Context, username string, params UpdateParams) (*models.User, error) {
	const op = "users.UserService.Update"
	log := s.log.With("op", op, "username", username)
	user, err := s.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if params.Email != "" {
		user.Email = params.Email
	}
	if params.Bio != nil {
		user.Bio = *params.Bio
	}
	if params.Role != nil {
		user.Role = *params.Role
	}
	updated, err := s.storage.Update(ctx, user)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrConflict):
			log.Info("user already exists")
			return nil, ErrUserAlreadyExists
		case errors.Is(err, storage.ErrNotFound):
			return nil, ErrUserNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, username string) error {
	const op = "users.UserService.Delete"
	log := s.log.With("op", op, "username", username)
	if err := s.storage.Delete(ctx, username); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("user not found")
			return ErrUserNotFound
		}
		log.Error(err.Error())
		return err
	}
	return nil
}
