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

type ReviewModel struct {
	DB *pgxpool.Pool
}

const reviewColumns = "id, title_id, author_id, text, score, created_at"

// Insert relies on the unique (title_id, author_id) constraint as the
// source of truth for the one-review-per-author invariant; a conflict
// here means a concurrent submission won the race.
func (m *ReviewModel) Insert(ctx context.Context, titleID, authorID int64, text string, score int32) (*models.Review, error) {
	rows, _ := m.DB.Query(
		ctx,
		"INSERT INTO reviews (title_id, author_id, text, score) VALUES ($1, $2, $3, $4) RETURNING "+reviewColumns,
		titleID,
		authorID,
		text,
		score,
	)
	review, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Review])
	if err != nil {
		var pgxErr *pgconn.PgError
		if errors.As(err, &pgxErr) && pgxErr.Code == postgres.ErrConflictCode {
			return nil, storage.ErrConflict
		}
		return nil, err
	}
	return &review, nil
}

func (m *ReviewModel) Get(ctx context.Context, id int64) (*models.Review, error) {
	rows, _ := m.DB.Query(ctx, "SELECT "+reviewColumns+" FROM reviews WHERE id = $1", id)
	return collectReview(rows)
}

func (m *ReviewModel) GetByAuthorAndTitle(ctx context.Context, titleID, authorID int64) (*models.Review, error) {
	rows, _ := m.DB.Query(ctx, "SELECT "+reviewColumns+" FROM reviews WHERE title_id = $1 AND author_id = $2", titleID, authorID)
	return collectReview(rows)
}

func (m *ReviewModel) ListForTitle(ctx context.Context, titleID int64, f filters.Filters) ([]models.Review, int, error) {
	rows, _ := m.DB.Query(
		ctx,
		"SELECT count(*) OVER(), "+reviewColumns+" FROM reviews WHERE title_id = $1 ORDER BY created_at ASC, id ASC LIMIT $2 OFFSET $3",
		titleID,
		f.Limit(),
		f.Offset(),
	)
	type row struct {
		Count int
		models.Review
	}
	outputRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[row])
	if err != nil {
		return nil, 0, err
	}
	if len(outputRows) == 0 {
		return []models.Review{}, 0, nil
	}
	reviews := make([]models.Review, 0, len(outputRows))
	for _, row := range outputRows {
		reviews = append(reviews, row.Review)
	}
	return reviews, outputRows[0].Count, nil
}

func (m *ReviewModel) Update(ctx context.Context, review *models.Review) (*models.Review, error) {
	rows, _ := m.DB.Query(
		ctx,
		"UPDATE reviews SET text = $1, score = $2 WHERE id = $3 RETURNING "+reviewColumns,
		review.Text,
		review.Score,
		review.ID,
	)
	updated, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Review])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &updated, nil
}

func (m *ReviewModel) Delete(ctx context.Context, id int64) error {
	status, err := m.DB.Exec(ctx, "DELETE FROM reviews WHERE id = $1", id)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// AvgScoreForTitle returns the mean review score, nil when the title has
// no reviews yet. AVG runs in its own statement so every call sees a
// fresh snapshot.
func (m *ReviewModel) AvgScoreForTitle(ctx context.Context, titleID int64) (*float64, error) {
	var avg *float64
	err := m.DB.QueryRow(ctx, "SELECT AVG(score)::float8 FROM reviews WHERE title_id = $1", titleID).Scan(&avg)
	if err != nil {
		return nil, err
	}
	return avg, nil
}

func collectReview(rows pgx.Rows) (*models.Review, error) {
	review, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Review])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &review, nil
}
