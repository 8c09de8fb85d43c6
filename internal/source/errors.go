package source

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure classes of a remote call.
var (
	ErrNotFound = errors.New("not found")
	ErrUpstream = errors.New("upstream error")
	ErrNetwork  = errors.New("network error")
	ErrDecode   = errors.New("invalid response")
	ErrAuth     = errors.New("authentication failed")
)

// Error provides context for a failed source call.
type Error struct {
	Source string // Source name (e.g. "rawg")
	Op     string // Operation that failed (e.g. "list games")
	Err    error  // Underlying error
}

func (e *Error) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s %s: %v", e.Source, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Class returns a short label for the failure class of err, used as a
// metrics label and for choosing HTTP status codes.
func Class(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrAuth):
		return "auth"
	case errors.Is(err, ErrDecode):
		return "decode"
	case errors.Is(err, ErrUpstream):
		return "upstream"
	case errors.Is(err, ErrNetwork):
		return "network"
	default:
		return "other"
	}
}
