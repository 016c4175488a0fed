package lifecycle

import "errors"

// Engine errors. Operations wrap them with detail; match with errors.Is.
var (
	// ErrNotFound means the identity, grant or credential type does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict means the request duplicates existing state: an assignment that already exists,
	// or an onboard/offboard of an identity already in that state.
	ErrConflict = errors.New("conflict")
	// ErrInvalidTransition means the identity's current status forbids the operation.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrUnauthorized means the grant exists but belongs to a different identity.
	ErrUnauthorized = errors.New("unauthorized")
)
