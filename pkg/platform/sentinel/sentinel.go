// Package sentinel holds the infrastructure errors stores return, optionally
// wrapped. Services translate them into pkg/domain-errors codes; handlers
// never see them directly.
package sentinel

import "errors"

var (
	// ErrNotFound: no row for the key, or the row belongs to another facility.
	ErrNotFound = errors.New("not found")
	// ErrConflict: duplicate key, or an optimistic version check lost the race.
	ErrConflict = errors.New("conflict")
	// ErrUnavailable: a broker or cache could not be reached.
	ErrUnavailable = errors.New("unavailable")
)
