package models

import (
	"context"
	"errors"
	"fmt"

	"reviewdb/proj/internal/domain/filters"
	"reviewdb/proj/internal/domain/models"
	"reviewdb/proj/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TitleModel struct {
	DB *pgxpool.Pool
}

// Title reads compute the rating in the same statement as the row itself,
// so the returned mean always reflects the reviews visible to that read.
const titleSelect = `
	SELECT t.id, t.name, t.year, t.description, t.category_id, t.created_at,
	(SELECT AVG(r.score)::float8 FROM reviews r WHERE r.title_id = t.id) AS rating
	FROM titles t`

func (m *TitleModel) Get(ctx context.Context, id int64) (*models.Title, error) {
	rows, _ := m.DB.Query(ctx, titleSelect+" WHERE t.id = $1", id)
	title, err := pgx.CollectOneRow(rows, pgx.RowToStructByNameLax[models.Title])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	if err := m.attachRelations(ctx, &title); err != nil {
		return nil, err
	}
	return &title, nil
}

func (m *TitleModel) List(ctx context.Context, f filters.TitleFilters) ([]models.Title, int, error) {
	query := fmt.Sprintf(`
	SELECT count(*) OVER(), t.id, t.name, t.year, t.description, t.category_id, t.created_at,
	(SELECT AVG(r.score)::float8 FROM reviews r WHERE r.title_id = t.id) AS rating
	FROM titles t
	LEFT JOIN categories c ON c.id = t.category_id
	WHERE ($1 = '' OR t.name ILIKE '%%' || $1 || '%%')
	AND ($2 = 0 OR t.year = $2)
	AND ($3 = '' OR c.slug = $3)
	AND ($4 = '' OR EXISTS (
		SELECT 1 FROM title_genres tg JOIN genres g ON g.id = tg.genre_id
		WHERE tg.title_id = t.id AND g.slug = $4
	))
	ORDER BY t.%s %s, t.id ASC
	LIMIT $5 OFFSET $6`, f.SortColumn(), f.SortDirection())
	args := []any{f.Name, f.Year, f.CategorySlug, f.GenreSlug, f.Limit(), f.Offset()}
	rows, _ := m.DB.Query(ctx, query, args...)
	type row struct {
		Count int
		models.Title
	}
	outputRows, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[row])
	if err != nil {
		return nil, 0, err
	}
	if len(outputRows) == 0 {
		return []models.Title{}, 0, nil
	}
	titles := make([]models.Title, 0, len(outputRows))
	for _, row := range outputRows {
		title := row.Title
		if err := m.attachRelations(ctx, &title); err != nil {
			return nil, 0, err
		}
		titles = append(titles, title)
	}
	return titles, outputRows[0].Count, nil
}

func (m *TitleModel) Insert(ctx context.Context, name string, year int32, description *string, categoryID *int64, genreIDs []int64) (*models.Title, error) {
	var id int64
	err := pgx.BeginFunc(ctx, m.DB, func(tx pgx.Tx) error {
		err := tx.QueryRow(
			ctx,
			"INSERT INTO titles (name, year, description, category_id) VALUES ($1, $2, $3, $4) RETURNING id",
			name,
			year,
			description,
			categoryID,
		).Scan(&id)
		if err != nil {
			return err
		}
		return insertTitleGenres(ctx, tx, id, genreIDs)
	})
	if err != nil {
		return nil, err
	}
	return m.Get(ctx, id)
}

// Update rewrites the title row and, when genreIDs is non-nil, replaces
// the genre associations in the same transaction.
func (m *TitleModel) Update(ctx context.Context, title *models.Title, genreIDs []int64) (*models.Title, error) {
	err := pgx.BeginFunc(ctx, m.DB, func(tx pgx.Tx) error {
		status, err := tx.Exec(
			ctx,
			"UPDATE titles SET name = $1, year = $2, description = $3, category_id = $4 WHERE id = $5",
			title.Name,
			title.Year,
			title.Description,
			title.CategoryID,
			title.ID,
		)
		if err != nil {
			return err
		}
		if status.RowsAffected() == 0 {
			return storage.ErrNotFound
		}
		if genreIDs == nil {
			return nil
		}
		if _, err := tx.Exec(ctx, "DELETE FROM title_genres WHERE title_id = $1", title.ID); err != nil {
			return err
		}
		return insertTitleGenres(ctx, tx, title.ID, genreIDs)
	})
	if err != nil {
		return nil, err
	}
	return m.Get(ctx, title.ID)
}

func (m *TitleModel) Delete(ctx context.Context, id int64) error {
	status, err := m.DB.Exec(ctx, "DELETE FROM titles WHERE id = $1", id)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func insertTitleGenres(ctx context.Context, tx pgx.Tx, titleID int64, genreIDs []int64) error {
	for _, genreID := range genreIDs {
		if _, err := tx.Exec(ctx, "INSERT INTO title_genres (title_id, genre_id) VALUES ($1, $2) ON CONFLICT DO NOTHING", titleID, genreID); err != nil {
			return err
		}
	}
	return nil
}

func (m *TitleModel) attachRelations(ctx context.Context, title *models.Title) error {
	if title.CategoryID != nil {
		rows, _ := m.DB.Query(ctx, "SELECT id, name, slug FROM categories WHERE id = $1", *title.CategoryID)
		category, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Category])
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return err
		}
		if err == nil {
			title.Category = &category
		}
	}
	rows, _ := m.DB.Query(
		ctx,
		`SELECT g.id, g.name, g.slug FROM genres g
		JOIN title_genres tg ON tg.genre_id = g.id
		WHERE tg.title_id = $1 ORDER BY g.id ASC`,
		title.ID,
	)
	genres, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Genre])
	if err != nil {
		return err
	}
	title.Genres = genres
	return nil
}
