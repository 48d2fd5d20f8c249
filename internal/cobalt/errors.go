package cobalt

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidOption   = errors.New("invalid option")
	ErrOptionsConsumed = errors.New("options already dispatched")
)

// InvalidOptionError rejects a value outside an option's allow-list.
type InvalidOptionError struct {
	Field string
	Value string
}

func (e *InvalidOptionError) Error() string {
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}

func (e *InvalidOptionError) Is(target error) bool { return target == ErrInvalidOption }

// DecodeError reports a response body that is not JSON.
type DecodeError struct {
	StatusCode int
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response (status %d): %v", e.StatusCode, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
