package domain

import "errors"

var (
	ErrInvalidUser   = errors.New("invalid user")
	ErrUserNotFound  = errors.New("user not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidCursor = errors.New("invalid cursor")
)
