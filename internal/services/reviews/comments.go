package reviews

import (
	"context"
	"errors"
	"log/slog"

	"reviewdb/proj/internal/domain/filters"
	"reviewdb/proj/internal/domain/models"
	"reviewdb/proj/internal/storage"
)

type CommentsStorage interface {
	Insert(ctx context.Context, reviewID, authorID int64, text string) (*models.Comment, error)
	Get(ctx context.Context, id int64) (*models.Comment, error)
	ListForReview(ctx context.Context, reviewID int64, f filters.Filters) ([]models.Comment, int, error)
	Update(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	Delete(ctx context.Context, id int64) error
}

type CommentService struct {
	log     *slog.Logger
	storage CommentsStorage
	reviews ReviewsStorage
}

func NewCommentService(log *slog.Logger, commentsStorage CommentsStorage, reviewsStorage ReviewsStorage) *CommentService {
	return &CommentService{
		log:     log,
		storage: commentsStorage,
		reviews: reviewsStorage,
	}
}

func (s *CommentService) reviewExists(ctx context.Context, reviewID int64) error {
	if _, err := s.reviews.Get(ctx, reviewID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	return nil
}

func (s *CommentService) Create(ctx context.Context, reviewID, authorID int64, text string) (*models.Comment, error) {
	const op = "reviews.CommentService.Create"
	log := s.log.With("op", op, "review_id", reviewID, "author_id", authorID)
	if err := s.reviewExists(ctx, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.storage.Insert(ctx, reviewID, authorID, text)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) Get(ctx context.Context, reviewID, commentID int64) (*models.Comment, error) {
	const op = "reviews.CommentService.Get"
	log := s.log.With("op", op, "comment_id", commentID)
	comment, err := s.storage.Get(ctx, commentID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("comment not found")
			return nil, ErrCommentNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	if comment.ReviewID != reviewID {
		return nil, ErrCommentNotFound
	}
	return comment, nil
}

func (s *CommentService) ListForReview(ctx context.Context, reviewID int64, f filters.Filters) ([]models.Comment, int, error) {
	const op = "reviews.CommentService.ListForReview"
	log := s.log.With("op", op, "review_id", reviewID)
	if err := s.reviewExists(ctx, reviewID); err != nil {
		return nil, 0, err
	}
	comments, total, err := s.storage.ListForReview(ctx, reviewID, f)
	if err != nil {
		log.Error(err.Error())
		return nil, 0, err
	}
	return comments, total, nil
}

func (s *CommentService) Update(ctx context.Context, reviewID, commentID int64, text string) (*models.Comment, error) {
	const op = "reviews.CommentService.Update"
	log := s.log.With("op", op, "comment_id", commentID)
	comment, err := s.Get(ctx, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if text != "" {
		comment.Text = text
	}
	updated, err := s.storage.Update(ctx, comment)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrCommentNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return updated, nil
}

func (s *CommentService) Delete(ctx context.Context, reviewID, commentID int64) error {
	const op = "reviews.CommentService.Delete"
	log := s.log.With("op", op, "comment_id", commentID)
	if _, err := s.Get(ctx, reviewID, commentID); err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, commentID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrCommentNotFound
		}
		log.Error(err.Error())
		return err
	}
	return nil
}
