package domain

import (
	"errors"
	"fmt"
)

// Category classifies an error for both control flow (fallback decisions in
// discovery) and the HTTP status mapping at the front door.
type Category string

const (
	// CategoryAuth: missing or invalid platform credential. Fatal, never
	// retried, never triggers a fallback.
	CategoryAuth Category = "auth"
	// CategoryValidation: bad caller input. Fatal.
	CategoryValidation Category = "validation"
	// CategoryUpstream: platform timeout/5xx/transport failure. Recovered
	// locally inside best-effort batches, propagated otherwise.
	CategoryUpstream Category = "upstream"
	// CategoryUpstreamRejected: platform 4xx on a primary query; discovery
	// reacts by switching to its fallback path.
	CategoryUpstreamRejected Category = "upstream_rejected"
	// CategoryStorage: ledger/settings backend failure. Propagated for
	// writes; reads degrade to "no data" where that is semantically safe.
	CategoryStorage Category = "storage"
)

// Error carries a machine-checkable category and a human-readable detail.
type Error struct {
	Category Category
	Detail   string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Category, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Detail)
}

func (e *Error) Unwrap() error { return e.Err }

// E builds a categorized error with a formatted detail string.
func E(cat Category, format string, args ...any) *Error {
	return &Error{Category: cat, Detail: fmt.Sprintf(format, args...)}
}

// Wrap builds a categorized error around an underlying cause.
func Wrap(cat Category, err error, detail string) *Error {
	return &Error{Category: cat, Detail: detail, Err: err}
}

// CategoryOf extracts the category of err, defaulting to CategoryUpstream
// for uncategorized errors (the conservative choice for outbound failures).
func CategoryOf(err error) Category {
	var de *Error
	if errors.As(err, &de) {
		return de.Category
	}
	return CategoryUpstream
}

// IsCategory reports whether err carries the given category.
func IsCategory(err error, cat Category) bool {
	var de *Error
	return errors.As(err, &de) && de.Category == cat
}
