package imagen

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors used to classify provider failures. Callers match with
// errors.Is and decide the HTTP surface.
var (
	ErrRateLimited    = errors.New("image provider rate limited")
	ErrQuotaExhausted = errors.New("image provider quota exhausted")
)

// Image is a single generated output in a provider-agnostic format
type Image struct {
	Data     []byte
	MimeType string
}

// Option allows for optional parameters like AspectRatio, Model, etc.
type Option func(*Options)

type Options struct {
	AspectRatio string
	Model       string // Override default model
}

func WithAspectRatio(ratio string) Option {
	return func(o *Options) {
		o.AspectRatio = ratio
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// ImageProvider defines the contract for any image generation backend.
// One call produces one image; callers loop for multi-image requests.
type ImageProvider interface {
	Generate(ctx context.Context, prompt string, options ...Option) (*Image, error)
}

// StatusError turns a non-2xx provider reply into an error, wrapping the
// rate-limit and quota sentinels so callers can classify with errors.Is.
func StatusError(provider string, status int, body []byte) error {
	msg := string(body)
	if len(msg) > 512 {
		msg = msg[:512]
	}
	switch {
	case status == 429:
		return fmt.Errorf("%w: %s status 429: %s", ErrRateLimited, provider, msg)
	case status == 402:
		return fmt.Errorf("%w: %s status 402: %s", ErrQuotaExhausted, provider, msg)
	case strings.Contains(msg, "RESOURCE_EXHAUSTED") || strings.Contains(strings.ToLower(msg), "billing"):
		return fmt.Errorf("%w: %s status %d: %s", ErrQuotaExhausted, provider, status, msg)
	default:
		return fmt.Errorf("%s api error (status %d): %s", provider, status, msg)
	}
}
