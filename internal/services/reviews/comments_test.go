package reviews

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

type fakeCommentsStorage struct {
	comments map[int64]*models.Comment
	nextID   int64
}

func newFakeCommentsStorage() *fakeCommentsStorage {
	return &fakeCommentsStorage{comments: map[int64]*models.Comment{}, nextID: 1}
}

func (s *fakeCommentsStorage) Insert(_ context.Context, reviewID, authorID int64, text string) (*models.Comment, error) {
	comment := &models.Comment{ID: s.nextID, ReviewID: reviewID, AuthorID: authorID, Text: text}
	s.comments[comment.ID] = comment
	s.nextID++
	copy := *comment
	return &copy, nil
}

func (s *fakeCommentsStorage) Get(_ context.Context, id int64) (*models.Comment, error) {
	c, ok := s.comments[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copy := *c
	return &copy, nil
}

func (s *fakeCommentsStorage) ListForReview(_ context.Context, reviewID int64, _ filters.Filters) ([]models.Comment, int, error) {
	var out []models.Comment
	for _, c := range s.comments {
		if c.ReviewID == reviewID {
			out = append(out, *c)
		}
	}
	return out, len(out), nil
}

func (s *fakeCommentsStorage) Update(_ context.Context, comment *models.Comment) (*models.Comment, error) {
	if _, ok := s.comments[comment.ID]; !ok {
		return nil, storage.ErrNotFound
	}
	copy := *comment
	s.comments[comment.ID] = &copy
	out := copy
	return &out, nil
}

func (s *fakeCommentsStorage) Delete(_ context.Context, id int64) error {
	if _, ok := s.comments[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.comments, id)
	return nil
}

func TestCommentLifecycle(t *testing.T) {
	reviewsStorage := newFakeReviewsStorage()
	review, err := reviewsStorage.Insert(context.Background(), 1, 10, "text", 5)
	require.NoError(t, err)
	svc := NewCommentService(slog.Default(), newFakeCommentsStorage(), reviewsStorage)
	ctx := context.Background()

	_, err = svc.Create(ctx, 99, 20, "no such review")
	assert.ErrorIs(t, err, ErrReviewNotFound)

	comment, err := svc.Create(ctx, review.ID, 20, "agreed")
	require.NoError(t, err)

	comments, total, err := svc.ListForReview(ctx, review.ID, filters.Filters{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "agreed", comments[0].Text)

	// comment ids are scoped to their review on read
	_, err = svc.Get(ctx, review.ID+1, comment.ID)
	assert.ErrorIs(t, err, ErrCommentNotFound)

	updated, err := svc.Update(ctx, review.ID, comment.ID, "strongly agreed")
	require.NoError(t, err)
	assert.Equal(t, "strongly agreed", updated.Text)

	require.NoError(t, svc.Delete(ctx, review.ID, comment.ID))
	err = svc.Delete(ctx, review.ID, comment.ID)
	assert.ErrorIs(t, err, ErrCommentNotFound)
}
