package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into domain errors without knowing
// which backend produced them.
//
// - ErrNotFound: record does not exist in the store
// - ErrConflict: unique constraint hit (email, username, google id)
// - ErrExpired: token or state value past its validity window
// - ErrUnavailable: backing service temporarily unreachable
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrExpired     = errors.New("expired")
	ErrUnavailable = errors.New("unavailable")
)
