package models

import (
	"context"
	"errors"

	"reviewdb/proj/internal/domain/filters"
	"reviewdb/proj/internal/domain/models"
	"reviewdb/proj/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CommentModel struct {
	DB *pgxpool.Pool
}

const commentColumns = "id, review_id, author_id, text, created_at"

func (m *CommentModel) Insert(ctx context.Context, reviewID, authorID int64, text string) (*models.Comment, error) {
	rows, _ := m.DB.Query(
		ctx,
		"INSERT INTO comments (review_id, author_id, text) VALUES ($1, $2, $3) RETURNING "+commentColumns,
		reviewID,
		authorID,
		text,
	)
	comment, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Comment])
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (m *CommentModel) Get(ctx context.Context, id int64) (*models.Comment, error) {
	rows, _ := m.DB.Query(ctx, "SELECT "+commentColumns+" FROM comments WHERE id = $1", id)
	comment, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Comment])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

func (m *CommentModel) ListForReview(ctx context.Context, reviewID int64, f filters.Filters) ([]models.Comment, int, error) {
	rows, _ := m.DB.Query(
		ctx,
		"SELECT count(*) OVER(), "+commentColumns+" FROM comments WHERE review_id = $1 ORDER BY created_at ASC, id ASC LIMIT $2 OFFSET $3",
		reviewID,
		f.Limit(),
		f.Offset(),
	)
	type row struct {
		Count int
		models.Comment
	}
	outputRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[row])
	if err != nil {
		return nil, 0, err
	}
	if len(outputRows) == 0 {
		return []models.Comment{}, 0, nil
	}
	comments := make([]models.Comment, 0, len(outputRows))
	for _, row := range outputRows {
		comments = append(comments, row.Comment)
	}
	return comments, outputRows[0].Count, nil
}

func (m *CommentModel) Update(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	rows, _ := m.DB.Query(
		ctx,
		"UPDATE comments SET text = $1 WHERE id = $2 RETURNING "+commentColumns,
		comment.Text,
		comment.ID,
	)
	updated, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Comment])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &updated, nil
}

func (m *CommentModel) Delete(ctx context.Context, id int64) error {
	status, err := m.DB.Exec(ctx, "DELETE FROM comments WHERE id = $1", id)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
