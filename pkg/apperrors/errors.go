package apperrors

import "errors"

// Sentinel errors shared across layers. Callers match with errors.Is;
// repositories and services wrap context around them with fmt.Errorf and %w.
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidSeason = errors.New("invalid season")
	ErrInvalidRole   = errors.New("invalid message role")
)
