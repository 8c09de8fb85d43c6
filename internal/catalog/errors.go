package catalog

import (
	"errors"
	"fmt"

	"github.com/ryanm101/gamehub/internal/game"
)

// Sentinel errors for feed and view state.
var (
	ErrStaleQuery = errors.New("query changed while fetching")
	ErrClosed     = errors.New("closed")
)

// FetchError records the page request that put a feed into its error state.
type FetchError struct {
	Query game.Key // Query the page belonged to
	Page  int      // 1-based page number
	Err   error    // Underlying source error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch page %d: %v", e.Page, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
