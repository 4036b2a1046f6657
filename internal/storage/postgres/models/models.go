package models

import "reviewdb/proj/internal/storage/postgres"

type Models struct {
	Users      *UserModel
	Categories *CategoryModel
	Genres     *GenreModel
	Titles     *TitleModel
	Reviews    *ReviewModel
	Comments   *CommentModel
}

func New(db *postgres.Storage) *Models {
	return &Models{
		Users:      &UserModel{db.Conn},
		Categories: &CategoryModel{db.Conn},
		Genres:     &GenreModel{db.Conn},
		Titles:     &TitleModel{db.Conn},
		Reviews:    &ReviewModel{db.Conn},
		Comments:   &CommentModel{db.Conn},
	}
}
