package models

import (
	"context"
	"errors"

	"reviewdb/proj/internal/domain/filters"
	"reviewdb/proj/internal/domain/models"
	"reviewdb/proj/internal/storage"
	"reviewdb/proj/internal/storage/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserModel struct {
	DB *pgxpool.Pool
}

const userColumns = "id, username, email, role, is_superuser, auth_code_hash, bio, created_at, updated_at"

func (m *UserModel) Insert(ctx context.Context, username, email, role string) (*models.User, error) {
	rows, _ := m.DB.Query(
		ctx,
		"INSERT INTO users (username, email, role) VALUES ($1, $2, $3) RETURNING "+userColumns,
		username,
		email,
		role,
	)
	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		var pgxErr *pgconn.PgError
		if errors.As(err, &pgxErr) && pgxErr.Code == postgres.ErrConflictCode {
			return nil, storage.ErrConflict
		}
		return nil, err
	}
	return &user, nil
}

func (m *UserModel) Get(ctx context.Context, id int64) (*models.User, error) {
	rows, _ := m.DB.Query(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
	return collectUser(rows)
}

func (m *UserModel) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	rows, _ := m.DB.Query(ctx, "SELECT "+userColumns+" FROM users WHERE username = $1", username)
	return collectUser(rows)
}

func (m *UserModel) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	rows, _ := m.DB.Query(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email)
	return collectUser(rows)
}

func (m *UserModel) List(ctx context.Context, f filters.Filters) ([]models.User, int, error) {
	rows, _ := m.DB.Query(
		ctx,
		"SELECT count(*) OVER(), "+userColumns+" FROM users ORDER BY id ASC LIMIT $1 OFFSET $2",
		f.Limit(),
		f.Offset(),
	)
	type row struct {
		Count int
		models.User
	}
	outputRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[row])
	if err != nil {
		return nil, 0, err
	}
	if len(outputRows) == 0 {
		return []models.User{}, 0, nil
	}
	users := make([]models.User, 0, len(outputRows))
	for _, row := range outputRows {
		users = append(users, row.User)
	}
	return users, outputRows[0].Count, nil
}

func (m *UserModel) Update(ctx context.Context, user *models.User) (*models.User, error) {
	rows, _ := m.DB.Query(
		ctx,
		`UPDATE users SET username = $1, email = $2, role = $3, bio = $4, updated_at = now()
		WHERE id = $5 RETURNING `+userColumns,
		user.Username,
		user.Email,
		user.Role,
		user.Bio,
		user.ID,
	)
	updated, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		var pgxErr *pgconn.PgError
		switch {
		case errors.As(err, &pgxErr) && pgxErr.Code == postgres.ErrConflictCode:
			return nil, storage.ErrConflict
		case errors.Is(err, pgx.ErrNoRows):
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &updated, nil
}

// UpdateAuthCode overwrites the stored confirmation code hash, any
// previously issued code stops matching from here on.
func (m *UserModel) UpdateAuthCode(ctx context.Context, id int64, codeHash []byte) error {
	status, err := m.DB.Exec(ctx, "UPDATE users SET auth_code_hash = $1, updated_at = now() WHERE id = $2", codeHash, id)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (m *UserModel) Delete(ctx context.Context, username string) error {
	status, err := m.DB.Exec(ctx, "DELETE FROM users WHERE username = $1", username)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func collectUser(rows pgx.Rows) (*models.User, error) {
	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
