package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into domain errors.
//
//   - ErrNotFound: row or key does not exist in the store
//   - ErrConflict: a unique constraint rejected the write
//   - ErrUnavailable: backing service (database, cache, broker) unreachable
//
// For caller mistakes (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
)
