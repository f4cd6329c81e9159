package app

import "errors"

var (
	// ErrInvalidForm wraps a form validation failure; the toast carries
	// the user-facing message.
	ErrInvalidForm  = errors.New("invalid form")
	ErrChatNotFound = errors.New("chat not found")
)
