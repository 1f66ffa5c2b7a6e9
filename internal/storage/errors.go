package storage

import "errors"

// ErrNotFound marks a lookup for a profile or session that does not
// exist. Callers fall back to the new-user flow; it is distinct from
// an I/O failure, which surfaces as a wrapped store error.
var ErrNotFound = errors.New("not found")
