package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// certificate or tag does not exist.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrAlreadyExists is returned when an explicit tag creation names a tag
// that is already stored. Handlers should map this to HTTP 409.
var ErrAlreadyExists = errors.New("already exists")

// ErrRequiredField is returned when a field mandatory for creation is absent
// or blank. Handlers should map this to HTTP 422.
var ErrRequiredField = errors.New("required field missing")

// ErrInvalidValue is returned when a supplied field has a value outside its
// allowed range (non-positive price or duration, whitespace-only text).
var ErrInvalidValue = errors.New("invalid value")

// ErrInvalidField is returned when a sort, filter, or update names a field
// that is not in the entity's field catalog.
var ErrInvalidField = errors.New("invalid field")

// ErrNoFieldsToUpdate is returned when an update carries nothing to change.
var ErrNoFieldsToUpdate = errors.New("no fields to update")

// ErrConflict is returned when a write lost a race with a concurrent change,
// such as linking a tag another request deleted meanwhile. Retrying may
// succeed. Handlers should map this to HTTP 409.
var ErrConflict = errors.New("conflicting change")
