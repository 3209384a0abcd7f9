package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores, caches and sources return
// these (optionally wrapped) so services can translate them into domain errors.
//
// - ErrNotFound: entity or cache entry does not exist
// - ErrUnavailable: backing resource could not be reached
var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("unavailable")
)
