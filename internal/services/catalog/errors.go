package catalog

import "errors"

var (
	ErrCategoryNotFound      = errors.New("category not found")
	ErrGenreNotFound         = errors.New("genre not found")
	ErrTitleNotFound         = errors.New("title not found")
	ErrCategoryAlreadyExists = errors.New("category with that name or slug already exists")
	ErrGenreAlreadyExists    = errors.New("genre with that name or slug already exists")
)
