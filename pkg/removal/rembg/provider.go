package rembg

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"ai-imagestudio-be/pkg/removal"
)

// RembgProvider talks to a self-hosted rembg server (the `rembg s` HTTP mode).
type RembgProvider struct {
	baseURL string
	client  *http.Client
}

// Ensure RembgProvider implements RemovalProvider
var _ removal.RemovalProvider = &RembgProvider{}

func NewRembgProvider(baseURL string, timeout time.Duration) *RembgProvider {
	if baseURL == "" {
		baseURL = "http://localhost:7000" // Default
	}
	return &RembgProvider{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (p *RembgProvider) Remove(ctx context.Context, image []byte, contentType string) (*removal.Result, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", "image")
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, fmt.Errorf("write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	url := p.baseURL + "/api/remove"
	req, err := http.NewRequestWithContext(ctx, "POST", url, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rembg request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, removal.StatusError("rembg", resp.StatusCode, bodyBytes)
	}

	if len(bodyBytes) == 0 {
		return nil, fmt.Errorf("empty image from rembg")
	}

	// rembg always emits PNG (transparency needs an alpha channel)
	return &removal.Result{
		Data:     bodyBytes,
		MimeType: "image/png",
	}, nil
}
