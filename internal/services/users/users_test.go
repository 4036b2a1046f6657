package users

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"reviewdb/proj/internal/domain/filters"
	"reviewdb/proj/internal/domain/models"
	"reviewdb/proj/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsersStorage struct {
	users  map[int64]*models.User
	nextID int64
}

func newFakeUsersStorage() *fakeUsersStorage {
	return &fakeUsersStorage{users: map[int64]*models.User{}, nextID: 1}
}

func (s *fakeUsersStorage) Get(_ context.Context, id int64) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copy := *u
	return &copy, nil
}

func (s *fakeUsersStorage) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			copy := *u
			return &copy, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *fakeUsersStorage) List(_ context.Context, f filters.Filters) ([]models.User, int, error) {
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (s *fakeUsersStorage) Insert(_ context.Context, username, email, role string) (*models.User, error) {
	for _, u := range s.users {
		if u.Username == username || u.Email == email {
			return nil, storage.ErrConflict
		}
	}
	user := &models.User{ID: s.nextID, Username: username, Email: email, Role: role}
	s.users[user.ID] = user
	s.nextID++
	copy := *user
	return &copy, nil
}

func (s *fakeUsersStorage) Update(_ context.Context, user *models.User) (*models.User, error) {
	stored, ok := s.users[user.ID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	for _, u := range s.users {
		if u.ID != user.ID && u.Email == user.Email {
			return nil, storage.ErrConflict
		}
	}
	*stored = *user
	copy := *stored
	return &copy, nil
}

func (s *fakeUsersStorage) Delete(_ context.Context, username string) error {
	for id, u := range s.users {
		if u.Username == username {
			delete(s.users, id)
			return nil
		}
	}
	return storage.ErrNotFound
}

func newTestService(t *testing.T) (*UserService, *fakeUsersStorage) {
	t.Helper()
	fake := newFakeUsersStorage()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(log, fake), fake
}

func TestCreateDefaultsRole(t *testing.T) {
	svc, _ := newTestService(t)
	user, err := svc.Create(context.Background(), "alice", "alice@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)

	moderator, err := svc.Create(context.Background(), "bob", "bob@example.com", models.RoleModerator)
	require.NoError(t, err)
	assert.Equal(t, models.RoleModerator, moderator.Role)
}

func TestCreateDuplicate(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Create(context.Background(), "alice", "alice@example.com", "")
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), "alice", "other@example.com", "")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestGetNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Get(context.Background(), 404)
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = svc.GetByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdate(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Create(context.Background(), "alice", "alice@example.com", "")
	require.NoError(t, err)

	t.Run("profile update leaves role untouched", func(t *testing.T) {
		bio := "long-time reviewer"
		updated, err := svc.Update(context.Background(), "alice", UpdateParams{
			Email: "alice@new.example.com",
			Bio:   &bio,
		})
		require.NoError(t, err)
		assert.Equal(t, "alice@new.example.com", updated.Email)
		assert.Equal(t, bio, updated.Bio)
		assert.Equal(t, models.RoleUser, updated.Role)
	})
	t.Run("admin can promote", func(t *testing.T) {
		role := models.RoleModerator
		updated, err := svc.Update(context.Background(), "alice", UpdateParams{Role: &role})
		require.NoError(t, err)
		assert.Equal(t, models.RoleModerator, updated.Role)
	})
	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Update(context.Background(), "ghost", UpdateParams{Email: "x@example.com"})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestUpdateEmailConflict(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Create(context.Background(), "alice", "alice@example.com", "")
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), "bob", "bob@example.com", "")
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), "bob", UpdateParams{Email: "alice@example.com"})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestDelete(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Create(context.Background(), "alice", "alice@example.com", "")
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), "alice"))
	assert.ErrorIs(t, svc.Delete(context.Background(), "alice"), ErrUserNotFound)
	_, err = svc.GetByUsername(context.Background(), "alice")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
