package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound signals that a specific document does not exist. Absence is a
// normal result and never triggers fallback data.
var ErrNotFound = errors.New("document not found")

// ErrStoreUnavailable signals a transport or store failure. Callers
// substitute fallback data or degrade to empty results; the raw error never
// reaches the request boundary.
var ErrStoreUnavailable = errors.New("store unavailable")

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
