package reviews

import "errors"

var (
	ErrTitleNotFound   = errors.New("title not found")
	ErrReviewNotFound  = errors.New("review not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrDuplicateReview = errors.New("you have already reviewed this title")
	ErrInvalidScore    = errors.New("score must be an integer between 1 and 10")
)
