package catalog

import (
	"context"
	"log/slog"
	"testing"

	"reviewdb/proj/internal/domain/filters"
	"reviewdb/proj/internal/domain/models"
	"reviewdb/proj/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCategoriesStorage struct {
	categories map[string]*models.Category
	nextID     int64
}

func (s *fakeCategoriesStorage) List(_ context.Context, _ string, _ filters.Filters) ([]models.Category, int, error) {
	out := make([]models.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (s *fakeCategoriesStorage) GetBySlug(_ context.Context, slug string) (*models.Category, error) {
	c, ok := s.categories[slug]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copy := *c
	return &copy, nil
}

func (s *fakeCategoriesStorage) Insert(_ context.Context, name, slug string) (*models.Category, error) {
	if _, ok := s.categories[slug]; ok {
		return nil, storage.ErrConflict
	}
	c := &models.Category{ID: s.nextID, Name: name, Slug: slug}
	s.categories[slug] = c
	s.nextID++
	copy := *c
	return &copy, nil
}

func (s *fakeCategoriesStorage) Delete(_ context.Context, slug string) error {
	if _, ok := s.categories[slug]; !ok {
		return storage.ErrNotFound
	}
	delete(s.categories, slug)
	return nil
}

type fakeGenresStorage struct {
	genres map[string]*models.Genre
	nextID int64
}

func (s *fakeGenresStorage) List(_ context.Context, _ string, _ filters.Filters) ([]models.Genre, int, error) {
	out := make([]models.Genre, 0, len(s.genres))
	for _, g := range s.genres {
		out = append(out, *g)
	}
	return out, len(out), nil
}

func (s *fakeGenresStorage) GetBySlug(_ context.Context, slug string) (*models.Genre, error) {
	g, ok := s.genres[slug]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copy := *g
	return &copy, nil
}

func (s *fakeGenresStorage) Insert(_ context.Context, name, slug string) (*models.Genre, error) {
	if _, ok := s.genres[slug]; ok {
		return nil, storage.ErrConflict
	}
	g := &models.Genre{ID: s.nextID, Name: name, Slug: slug}
	s.genres[slug] = g
	s.nextID++
	copy := *g
	return &copy, nil
}

func (s *fakeGenresStorage) Delete(_ context.Context, slug string) error {
	if _, ok := s.genres[slug]; !ok {
		return storage.ErrNotFound
	}
	delete(s.genres, slug)
	return nil
}

type fakeTitlesStorage struct {
	titles map[int64]*models.Title
	genres map[int64][]int64
	nextID int64
}

func (s *fakeTitlesStorage) Get(_ context.Context, id int64) (*models.Title, error) {
	t, ok := s.titles[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copy := *t
	return &copy, nil
}

func (s *fakeTitlesStorage) List(_ context.Context, _ filters.TitleFilters) ([]models.Title, int, error) {
	out := make([]models.Title, 0, len(s.titles))
	for _, t := range s.titles {
		out = append(out, *t)
	}
	return out, len(out), nil
}

func (s *fakeTitlesStorage) Insert(_ context.Context, name string, year int32, description *string, categoryID *int64, genreIDs []int64) (*models.Title, error) {
	t := &models.Title{ID: s.nextID, Name: name, Year: year, Description: description, CategoryID: categoryID}
	s.titles[t.ID] = t
	s.genres[t.ID] = genreIDs
	s.nextID++
	copy := *t
	return &copy, nil
}

func (s *fakeTitlesStorage) Update(_ context.Context, title *models.Title, genreIDs []int64) (*models.Title, error) {
	if _, ok := s.titles[title.ID]; !ok {
		return nil, storage.ErrNotFound
	}
	copy := *title
	s.titles[title.ID] = &copy
	if genreIDs != nil {
		s.genres[title.ID] = genreIDs
	}
	out := copy
	return &out, nil
}

func (s *fakeTitlesStorage) Delete(_ context.Context, id int64) error {
	if _, ok := s.titles[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.titles, id)
	return nil
}

func newTestService() (*CatalogService, *fakeTitlesStorage) {
	categories := &fakeCategoriesStorage{categories: map[string]*models.Category{}, nextID: 1}
	genres := &fakeGenresStorage{genres: map[string]*models.Genre{}, nextID: 1}
	titles := &fakeTitlesStorage{titles: map[int64]*models.Title{}, genres: map[int64][]int64{}, nextID: 1}
	return New(slog.Default(), categories, genres, titles), titles
}

func TestCategoryLifecycle(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, "Films", "films")
	require.NoError(t, err)
	assert.Equal(t, "films", category.Slug)

	_, err = svc.CreateCategory(ctx, "Films again", "films")
	assert.ErrorIs(t, err, ErrCategoryAlreadyExists)

	require.NoError(t, svc.DeleteCategory(ctx, "films"))
	assert.ErrorIs(t, svc.DeleteCategory(ctx, "films"), ErrCategoryNotFound)
}

func TestCreateTitleResolvesSlugs(t *testing.T) {
	svc, titles := newTestService()
	ctx := context.Background()
	_, err := svc.CreateCategory(ctx, "Films", "films")
	require.NoError(t, err)
	_, err = svc.CreateGenre(ctx, "Drama", "drama")
	require.NoError(t, err)
	_, err = svc.CreateGenre(ctx, "Sci-Fi", "sci-fi")
	require.NoError(t, err)

	title, err := svc.CreateTitle(ctx, "Solaris", 1972, nil, "films", []string{"drama", "sci-fi"})
	require.NoError(t, err)
	require.NotNil(t, title.CategoryID)
	assert.Len(t, titles.genres[title.ID], 2)

	_, err = svc.CreateTitle(ctx, "Nope", 2022, nil, "books", nil)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
	_, err = svc.CreateTitle(ctx, "Nope", 2022, nil, "films", []string{"horror"})
	assert.ErrorIs(t, err, ErrGenreNotFound)
}

func TestUpdateTitlePatchSemantics(t *testing.T) {
	svc, titles := newTestService()
	ctx := context.Background()
	_, err := svc.CreateGenre(ctx, "Drama", "drama")
	require.NoError(t, err)
	title, err := svc.CreateTitle(ctx, "Solaris", 1972, nil, "", nil)
	require.NoError(t, err)

	updated, err := svc.UpdateTitle(ctx, title.ID, "", 2002, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Solaris", updated.Name)
	assert.Equal(t, int32(2002), updated.Year)
	// genres untouched when not provided
	assert.Empty(t, titles.genres[title.ID])

	_, err = svc.UpdateTitle(ctx, title.ID, "", 0, nil, nil, []string{"drama"})
	require.NoError(t, err)
	assert.Len(t, titles.genres[title.ID], 1)

	_, err = svc.UpdateTitle(ctx, 99, "x", 0, nil, nil, nil)
	assert.ErrorIs(t, err, ErrTitleNotFound)
}
