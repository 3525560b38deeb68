package models

import "errors"

// Error kinds surfaced by the domain. Callers match with errors.Is; the
// HTTP layer maps each kind to a status code.
var (
	ErrValidation          = errors.New("validation failed")
	ErrNotFound            = errors.New("not found")
	ErrNotOwner            = errors.New("not the owner")
	ErrPaymentInvalid      = errors.New("payment signature invalid")
	ErrAlreadyPaid         = errors.New("already paid")
	ErrExternalUnavailable = errors.New("external service unavailable")
)
