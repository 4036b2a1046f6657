// Package reviews maintains the one-review-per-author-per-title invariant
// and computes title ratings as the fresh mean of review scores.
package reviews

import (
	"context"
	"errors"
	"log/slog"

	"reviewdb/proj/internal/domain/filters"
	"reviewdb/proj/internal/domain/models"
	"reviewdb/proj/internal/storage"
)

const (
	MinScore = 1
	MaxScore = 10
)

type ReviewsStorage interface {
	Insert(ctx context.Context, titleID, authorID int64, text string, score int32) (*models.Review, error)
	Get(ctx context.Context, id int64) (*models.Review, error)
	GetByAuthorAndTitle(ctx context.Context, titleID, authorID int64) (*models.Review, error)
	ListForTitle(ctx context.Context, titleID int64, f filters.Filters) ([]models.Review, int, error)
	Update(ctx context.Context, review *models.Review) (*models.Review, error)
	Delete(ctx context.Context, id int64) error
	AvgScoreForTitle(ctx context.Context, titleID int64) (*float64, error)
}

type TitlesStorage interface {
	Get(ctx context.Context, id int64) (*models.Title, error)
}

type ReviewService struct {
	log     *slog.Logger
	storage ReviewsStorage
	titles  TitlesStorage
}

func New(log *slog.Logger, reviewsStorage ReviewsStorage, titlesStorage TitlesStorage) *ReviewService {
	return &ReviewService{
		log:     log,
		storage: reviewsStorage,
		titles:  titlesStorage,
	}
}

// Submit inserts a new review. The existence check is an optimization for
// a friendly error; the unique constraint stays the source of truth, so a
// conflict from a concurrent submission is translated the same way.
func (s *ReviewService) Submit(ctx context.Context, titleID, authorID int64, text string, score int32) (*models.Review, error) {
	const op = "reviews.ReviewService.Submit"
	log := s.log.With("op", op, "title_id", titleID, "author_id", authorID)
	if score < MinScore || score > MaxScore {
		return nil, ErrInvalidScore
	}
	if _, err := s.titles.Get(ctx, titleID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("title not found")
			return nil, ErrTitleNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	_, err := s.storage.GetByAuthorAndTitle(ctx, titleID, authorID)
	if err == nil {
		log.Info("duplicate review")
		return nil, ErrDuplicateReview
	}
	if !errors.Is(err, storage.ErrNotFound) {
		log.Error(err.Error())
		return nil, err
	}
	review, err := s.storage.Insert(ctx, titleID, authorID, text, score)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("duplicate review (lost insert race)")
			return nil, ErrDuplicateReview
		}
		log.Error(err.Error())
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) Get(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	const op = "reviews.ReviewService.Get"
	log := s.log.With("op", op, "review_id", reviewID)
	review, err := s.storage.Get(ctx, reviewID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("review not found")
			return nil, ErrReviewNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	if review.TitleID != titleID {
		return nil, ErrReviewNotFound
	}
	return review, nil
}

func (s *ReviewService) ListForTitle(ctx context.Context, titleID int64, f filters.Filters) ([]models.Review, int, error) {
	const op = "reviews.ReviewService.ListForTitle"
	log := s.log.With("op", op, "title_id", titleID)
	if _, err := s.titles.Get(ctx, titleID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, 0, ErrTitleNotFound
		}
		log.Error(err.Error())
		return nil, 0, err
	}
	reviews, total, err := s.storage.ListForTitle(ctx, titleID, f)
	if err != nil {
		log.Error(err.Error())
		return nil, 0, err
	}
	return reviews, total, nil
}

// Update edits an existing review. No duplicate check here: editing your
// own review is always permitted content-wise, permissions are enforced
// by the caller.
func (s *ReviewService) Update(ctx context.Context, titleID, reviewID int64, text string, score int32) (*models.Review, error) {
	const op = "reviews.ReviewService.Update"
	log := s.log.With("op", op, "review_id", reviewID)
	review, err := s.Get(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if text != "" {
		review.Text = text
	}
	if score != 0 {
		if score < MinScore || score > MaxScore {
			return nil, ErrInvalidScore
		}
		review.Score = score
	}
	updated, err := s.storage.Update(ctx, review)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrReviewNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return updated, nil
}

func (s *ReviewService) Delete(ctx context.Context, titleID, reviewID int64) error {
	const op = "reviews.ReviewService.Delete"
	log := s.log.With("op", op, "review_id", reviewID)
	if _, err := s.Get(ctx, titleID, reviewID); err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, reviewID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrReviewNotFound
		}
		log.Error(err.Error())
		return err
	}
	return nil
}

// Rating returns the arithmetic mean of the title's review scores,
// recomputed on every call; nil means no reviews yet, which is a valid
// result, not an error. The mean is never rounded here.
func (s *ReviewService) Rating(ctx context.Context, titleID int64) (*float64, error) {
	const op = "reviews.ReviewService.Rating"
	log := s.log.With("op", op, "title_id", titleID)
	if _, err := s.titles.Get(ctx, titleID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrTitleNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	avg, err := s.storage.AvgScoreForTitle(ctx, titleID)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	return avg, nil
}
