package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and services return these
// (optionally wrapped) so callers and handlers can branch with errors.Is.
//
// - ErrNotFound: record does not exist in store
// - ErrInvalidInput: caller supplied a malformed argument (e.g. nil subject id)
// - ErrUnavailable: backing service temporarily unavailable
// - ErrCacheNotReady: registry snapshot has never been built
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnavailable   = errors.New("unavailable")
	ErrCacheNotReady = errors.New("registry cache not ready")
)
