package gateway

import "errors"

// Sentinel errors for gateway operations.
var (
	ErrNotFound         = errors.New("reminder not found")
	ErrTooManyReminders = errors.New("pending reminder limit reached")
	ErrEmptyMessage     = errors.New("message text required")
)
