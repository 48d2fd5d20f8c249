package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound         = errors.New("entity not found")
	ErrMediaUnavailable = errors.New("media url is not reachable")
	ErrSessionVersion   = errors.New("session was written by a newer version")
)
