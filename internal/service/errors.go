package service

import "errors"

var (
	// ErrPersistence wraps store failures of saves, deletes and reopens. Local
	// edits are kept when it is returned.
	ErrPersistence = errors.New("persistence failure")

	// ErrSessionClosed is returned by operations on a closed session.
	ErrSessionClosed = errors.New("planning session is closed")
)
