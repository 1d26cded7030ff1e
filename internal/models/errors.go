package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a listing id is absent from the collection.
	ErrNotFound = errors.New("listing not found")

	// ErrFeaturedLimit is returned when marking a listing featured would
	// exceed the homepage showcase slots.
	ErrFeaturedLimit = fmt.Errorf("at most %d listings can be featured", MaxFeatured)

	// ErrMergeSkipped is returned when a feed record is too malformed to
	// merge; the stored listing is left untouched.
	ErrMergeSkipped = errors.New("feed record skipped")

	// ErrWriteFailed wraps remote store write failures. The caller decides
	// whether to retry; the gateway does not.
	ErrWriteFailed = errors.New("document store write failed")
)

// ValidationError describes a single rejected field.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
