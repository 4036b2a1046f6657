package reviews

import (
	"context"
	"log/slog"
	"sort"
	"testing"

	"reviewdb/proj/internal/domain/filters"
	"reviewdb/proj/internal/domain/models"
	"reviewdb/proj/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTitlesStorage struct {
	ids map[int64]bool
}

func (s *fakeTitlesStorage) Get(_ context.Context, id int64) (*models.Title, error) {
	if !s.ids[id] {
		return nil, storage.ErrNotFound
	}
	return &models.Title{ID: id, Name: "some title"}, nil
}

type fakeReviewsStorage struct {
	reviews map[int64]*models.Review
	nextID  int64
	// forceConflict simulates losing the insert race to a concurrent
	// submission: the existence check passed but the constraint fired.
	forceConflict bool
}

func newFakeReviewsStorage() *fakeReviewsStorage {
	return &fakeReviewsStorage{reviews: map[int64]*models.Review{}, nextID: 1}
}

func (s *fakeReviewsStorage) Insert(_ context.Context, titleID, authorID int64, text string, score int32) (*models.Review, error) {
	if s.forceConflict {
		return nil, storage.ErrConflict
	}
	for _, r := range s.reviews {
		if r.TitleID == titleID && r.AuthorID == authorID {
			return nil, storage.ErrConflict
		}
	}
	review := &models.Review{ID: s.nextID, TitleID: titleID, AuthorID: authorID, Text: text, Score: score}
	s.reviews[review.ID] = review
	s.nextID++
	copy := *review
	return &copy, nil
}

func (s *fakeReviewsStorage) Get(_ context.Context, id int64) (*models.Review, error) {
	r, ok := s.reviews[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copy := *r
	return &copy, nil
}

func (s *fakeReviewsStorage) GetByAuthorAndTitle(_ context.Context, titleID, authorID int64) (*models.Review, error) {
	for _, r := range s.reviews {
		if r.TitleID == titleID && r.AuthorID == authorID {
			copy := *r
			return &copy, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *fakeReviewsStorage) ListForTitle(_ context.Context, titleID int64, _ filters.Filters) ([]models.Review, int, error) {
	var out []models.Review
	for _, r := range s.reviews {
		if r.TitleID == titleID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (s *fakeReviewsStorage) Update(_ context.Context, review *models.Review) (*models.Review, error) {
	if _, ok := s.reviews[review.ID]; !ok {
		return nil, storage.ErrNotFound
	}
	copy := *review
	s.reviews[review.ID] = &copy
	out := copy
	return &out, nil
}

func (s *fakeReviewsStorage) Delete(_ context.Context, id int64) error {
	if _, ok := s.reviews[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.reviews, id)
	return nil
}

func (s *fakeReviewsStorage) AvgScoreForTitle(_ context.Context, titleID int64) (*float64, error) {
	var sum, count float64
	for _, r := range s.reviews {
		if r.TitleID == titleID {
			sum += float64(r.Score)
			count++
		}
	}
	if count == 0 {
		return nil, nil
	}
	avg := sum / count
	return &avg, nil
}

func newTestService() (*ReviewService, *fakeReviewsStorage) {
	reviewsStorage := newFakeReviewsStorage()
	titles := &fakeTitlesStorage{ids: map[int64]bool{1: true, 2: true}}
	return New(slog.Default(), reviewsStorage, titles), reviewsStorage
}

func TestSubmitScenario(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Submit(ctx, 1, 10, "way too good", 11)
	assert.ErrorIs(t, err, ErrInvalidScore)
	_, err = svc.Submit(ctx, 1, 10, "way too bad", 0)
	assert.ErrorIs(t, err, ErrInvalidScore)

	review, err := svc.Submit(ctx, 1, 10, "solid", 5)
	require.NoError(t, err)
	assert.Equal(t, int32(5), review.Score)

	rating, err := svc.Rating(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, rating)
	assert.Equal(t, 5.0, *rating)

	_, err = svc.Submit(ctx, 1, 10, "changed my mind", 9)
	assert.ErrorIs(t, err, ErrDuplicateReview)

	require.NoError(t, svc.Delete(ctx, 1, review.ID))
	rating, err = svc.Rating(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, rating)
}

func TestSubmitUnknownTitle(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Submit(context.Background(), 99, 10, "text", 5)
	assert.ErrorIs(t, err, ErrTitleNotFound)
}

func TestSubmitLostInsertRace(t *testing.T) {
	svc, reviewsStorage := newTestService()
	reviewsStorage.forceConflict = true
	_, err := svc.Submit(context.Background(), 1, 10, "text", 5)
	assert.ErrorIs(t, err, ErrDuplicateReview)
}

func TestRatingIsMeanOfScores(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	_, err := svc.Submit(ctx, 1, 10, "a", 4)
	require.NoError(t, err)
	_, err = svc.Submit(ctx, 1, 11, "b", 5)
	require.NoError(t, err)

	rating, err := svc.Rating(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, rating)
	// not rounded: mean of 4 and 5 is exactly 4.5
	assert.Equal(t, 4.5, *rating)

	// edits change the mean immediately on the next read
	reviews, _, err := svc.ListForTitle(ctx, 1, filters.Filters{Page: 1, PageSize: 10})
	require.NoError(t, err)
	_, err = svc.Update(ctx, 1, reviews[0].ID, "", 10)
	require.NoError(t, err)
	rating, err = svc.Rating(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 7.5, *rating)

	// other titles are unaffected
	other, err := svc.Rating(ctx, 2)
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestUpdateDoesNotCheckDuplicates(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	review, err := svc.Submit(ctx, 1, 10, "first take", 3)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, 1, review.ID, "second take", 8)
	require.NoError(t, err)
	assert.Equal(t, "second take", updated.Text)
	assert.Equal(t, int32(8), updated.Score)

	_, err = svc.Update(ctx, 1, review.ID, "", 11)
	assert.ErrorIs(t, err, ErrInvalidScore)
}

func TestGetScopedToTitle(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	review, err := svc.Submit(ctx, 1, 10, "text", 5)
	require.NoError(t, err)

	_, err = svc.Get(ctx, 2, review.ID)
	assert.ErrorIs(t, err, ErrReviewNotFound)
}
