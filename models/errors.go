package models

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrSelfFollow       = errors.New("a user cannot follow themselves")
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionExpired   = errors.New("session expired")
	ErrInvalidPostInput = errors.New("invalid post")
)
