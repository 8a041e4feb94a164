package domain

import "errors"

// ErrValidation is returned when a domain entity fails validation.
// It is wrapped with the names of the offending fields.
var ErrValidation = errors.New("validation failed")
