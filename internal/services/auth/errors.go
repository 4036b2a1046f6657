package auth

import "errors"

var (
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailMismatch: the username is registered with a different email.
	ErrEmailMismatch = errors.New("you can't use this email with that username")
	// ErrUsernameMismatch: the email is registered under a different username.
	ErrUsernameMismatch = errors.New("you can't use this username with that email")
	ErrInvalidCode      = errors.New("invalid confirmation code")
)
