package models

import (
	"time"
)

const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// ReservedUsername can never be registered, the profile routes own it.
const ReservedUsername = "me"

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	IsSuperuser  bool      `json:"is_superuser"`
	AuthCodeHash []byte    `json:"-"` // bcrypt hash of the last issued confirmation code
	Bio          string    `json:"bio,omitempty"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

var AnonymousUser = &User{}

func (u *User) IsAnonymous() bool {
	return u == nil || u == AnonymousUser
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Title struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Year        int32     `json:"year"`
	Description *string   `json:"description"`
	CategoryID  *int64    `json:"-"`
	Category    *Category `json:"category" db:"-"`
	Genres      []Genre   `json:"genres" db:"-"`
	Rating      *float64  `json:"rating"` // mean review score, null until the first review
	CreatedAt   time.Time `json:"-"`
}

type Review struct {
	ID        int64     `json:"id"`
	TitleID   int64     `json:"title_id"`
	AuthorID  int64     `json:"author_id"`
	Text      string    `json:"text"`
	Score     int32     `json:"score"`
	CreatedAt time.Time `json:"pub_date"`
}

type Comment struct {
	ID        int64     `json:"id"`
	ReviewID  int64     `json:"review_id"`
	AuthorID  int64     `json:"author_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"pub_date"`
}
