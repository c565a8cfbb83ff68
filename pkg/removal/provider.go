package removal

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors used to classify provider failures
var (
	ErrRateLimited    = errors.New("removal provider rate limited")
	ErrQuotaExhausted = errors.New("removal provider quota exhausted")
)

// Result is the edited image in a provider-agnostic format
type Result struct {
	Data     []byte
	MimeType string
}

// RemovalProvider defines the contract for any background removal backend
type RemovalProvider interface {
	Remove(ctx context.Context, image []byte, contentType string) (*Result, error)
}

// StatusError turns a non-2xx provider reply into an error, wrapping the
// rate-limit and quota sentinels so callers can classify with errors.Is.
func StatusError(provider string, status int, body []byte) error {
	msg := string(body)
	if len(msg) > 512 {
		msg = msg[:512]
	}
	switch status {
	case 429:
		return fmt.Errorf("%w: %s status 429: %s", ErrRateLimited, provider, msg)
	case 402:
		return fmt.Errorf("%w: %s status 402: %s", ErrQuotaExhausted, provider, msg)
	default:
		return fmt.Errorf("%s api error (status %d): %s", provider, status, msg)
	}
}
