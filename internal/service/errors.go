package service

import "errors"

// Workflow errors that controllers translate into HTTP statuses with
// errors.Is. Credit admission and provider throttling carry more context and
// use typed errors in the dto package instead.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrQuotaExhausted   = errors.New("provider quota exhausted")
	ErrGenerationFailed = errors.New("image generation failed")
	ErrEditFailed       = errors.New("background removal failed")
)
