package service

import "errors"

// Typed failures surfaced by lifecycle operations. Callers match with
// errors.Is; the wrapped message carries the lead id.
var (
	ErrLeadNotFound    = errors.New("lead not found")
	ErrNoWebsite       = errors.New("lead has no website to analyze")
	ErrAlreadyExported = errors.New("lead already exported")
	ErrValidation      = errors.New("validation error")
)
