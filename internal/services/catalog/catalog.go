// Package catalog manages the reviewable works and their classification:
// categories, genres and titles. Everything here is admin-mutable only;
// the permission check happens in the HTTP layer before calls land here.
package catalog

import (
	"context"
	"errors"
	"log/slog"

	"reviewdb/proj/internal/domain/filters"
	"reviewdb/proj/internal/domain/models"
	"reviewdb/proj/internal/storage"
)

type CategoriesStorage interface {
	List(ctx context.Context, name string, f filters.Filters) ([]models.Category, int, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	Insert(ctx context.Context, name, slug string) (*models.Category, error)
	Delete(ctx context.Context, slug string) error
}

type GenresStorage interface {
	List(ctx context.Context, name string, f filters.Filters) ([]models.Genre, int, error)
	GetBySlug(ctx context.Context, slug string) (*models.Genre, error)
	Insert(ctx context.Context, name, slug string) (*models.Genre, error)
	Delete(ctx context.Context, slug string) error
}

type TitlesStorage interface {
	Get(ctx context.Context, id int64) (*models.Title, error)
	List(ctx context.Context, f filters.TitleFilters) ([]models.Title, int, error)
	Insert(ctx context.Context, name string, year int32, description *string, categoryID *int64, genreIDs []int64) (*models.Title, error)
	Update(ctx context.Context, title *models.Title, genreIDs []int64) (*models.Title, error)
	Delete(ctx context.Context, id int64) error
}

type CatalogService struct {
	log        *slog.Logger
	categories CategoriesStorage
	genres     GenresStorage
	titles     TitlesStorage
}

func New(log *slog.Logger, categories CategoriesStorage, genres GenresStorage, titles TitlesStorage) *CatalogService {
	return &CatalogService{
		log:        log,
		categories: categories,
		genres:     genres,
		titles:     titles,
	}
}

func (s *CatalogService) ListCategories(ctx context.Context, name string, f filters.Filters) ([]models.Category, int, error) {
	const op = "catalog.CatalogService.ListCategories"
	categories, total, err := s.categories.List(ctx, name, f)
	if err != nil {
		s.log.With("op", op).Error(err.Error())
		return nil, 0, err
	}
	return categories, total, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, name, slug string) (*models.Category, error) {
	const op = "catalog.CatalogService.CreateCategory"
	log := s.log.With("op", op, "slug", slug)
	category, err := s.categories.Insert(ctx, name, slug)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("category already exists")
			return nil, ErrCategoryAlreadyExists
		}
		log.Error(err.Error())
		return nil, err
	}
	return category, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, slug string) error {
	const op = "catalog.CatalogService.DeleteCategory"
	log := s.log.With("op", op, "slug", slug)
	if err := s.categories.Delete(ctx, slug); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("category not found")
			return ErrCategoryNotFound
		}
		log.Error(err.Error())
		return err
	}
	return nil
}

func (s *CatalogService) ListGenres(ctx context.Context, name string, f filters.Filters) ([]models.Genre, int, error) {
	const op = "catalog.CatalogService.ListGenres"
	genres, total, err := s.genres.List(ctx, name, f)
	if err != nil {
		s.log.With("op", op).Error(err.Error())
		return nil, 0, err
	}
	return genres, total, nil
}

func (s *CatalogService) CreateGenre(ctx context.Context, name, slug string) (*models.Genre, error) {
	const op = "catalog.CatalogService.CreateGenre"
	log := s.log.With("op", op, "slug", slug)
	genre, err := s.genres.Insert(ctx, name, slug)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("genre already exists")
			return nil, ErrGenreAlreadyExists
		}
		log.Error(err.Error())
		return nil, err
	}
	return genre, nil
}

func (s *CatalogService) DeleteGenre(ctx context.Context, slug string) error {
	const op = "catalog.CatalogService.DeleteGenre"
	log := s.log.With("op", op, "slug", slug)
	if err := s.genres.Delete(ctx, slug); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("genre not found")
			return ErrGenreNotFound
		}
		log.Error(err.Error())
		return err
	}
	return nil
}

func (s *CatalogService) GetTitle(ctx context.Context, id int64) (*models.Title, error) {
	const op = "catalog.CatalogService.GetTitle"
	log := s.log.With("op", op, "id", id)
	title, err := s.titles.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("title not found")
			return nil, ErrTitleNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return title, nil
}

func (s *CatalogService) ListTitles(ctx context.Context, f filters.TitleFilters) ([]models.Title, int, error) {
	const op = "catalog.CatalogService.ListTitles"
	titles, total, err := s.titles.List(ctx, f)
	if err != nil {
		s.log.With("op", op).Error(err.Error())
		return nil, 0, err
	}
	return titles, total, nil
}

// CreateTitle resolves the category and genre slugs the caller supplied
// before inserting, so a bad slug surfaces as a domain not-found instead
// of a foreign key error.
func (s *CatalogService) CreateTitle(ctx context.Context, name string, year int32, description *string, categorySlug string, genreSlugs []string) (*models.Title, error) {
	const op = "catalog.CatalogService.CreateTitle"
	log := s.log.With("op", op, "name", name, "year", year)
	categoryID, err := s.resolveCategory(ctx, categorySlug)
	if err != nil {
		return nil, err
	}
	genreIDs, err := s.resolveGenres(ctx, genreSlugs)
	if err != nil {
		return nil, err
	}
	title, err := s.titles.Insert(ctx, name, year, description, categoryID, genreIDs)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	return title, nil
}

func (s *CatalogService) UpdateTitle(ctx context.Context, id int64, name string, year int32, description *string, categorySlug *string, genreSlugs []string) (*models.Title, error) {
	const op = "catalog.CatalogService.UpdateTitle"
	log := s.log.With("op", op, "id", id)
	title, err := s.GetTitle(ctx, id)
	if err != nil {
		return nil, err
	}
	if name != "" {
		title.Name = name
	}
	if year != 0 {
		title.Year = year
	}
	if description != nil {
		title.Description = description
	}
	if categorySlug != nil {
		categoryID, err := s.resolveCategory(ctx, *categorySlug)
		if err != nil {
			return nil, err
		}
		title.CategoryID = categoryID
	}
	var genreIDs []int64
	if genreSlugs != nil {
		genreIDs, err = s.resolveGenres(ctx, genreSlugs)
		if err != nil {
			return nil, err
		}
	}
	updated, err := s.titles.Update(ctx, title, genreIDs)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrTitleNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return updated, nil
}

// DeleteTitle cascades to the title's reviews and their comments at the
// storage level.
func (s *CatalogService) DeleteTitle(ctx context.Context, id int64) error {
	const op = "catalog.CatalogService.DeleteTitle"
	log := s.log.With("op", op, "id", id)
	if err := s.titles.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("title not found")
			return ErrTitleNotFound
		}
		log.Error(err.Error())
		return err
	}
	return nil
}

func (s *CatalogService) resolveCategory(ctx context.Context, slug string) (*int64, error) {
	if slug == "" {
		return nil, nil
	}
	category, err := s.categories.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category.ID, nil
}

func (s *CatalogService) resolveGenres(ctx context.Context, slugs []string) ([]int64, error) {
	genreIDs := make([]int64, 0, len(slugs))
	for _, slug := range slugs {
		genre, err := s.genres.GetBySlug(ctx, slug)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, ErrGenreNotFound
			}
			return nil, err
		}
		genreIDs = append(genreIDs, genre.ID)
	}
	return genreIDs, nil
}
