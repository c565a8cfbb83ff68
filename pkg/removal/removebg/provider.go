package removebg

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

// RemoveBgProvider talks to the hosted remove.bg API.
type RemoveBgProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// Ensure RemoveBgProvider implements RemovalProvider
var _ removal.RemovalProvider = &RemoveBgProvider{}

func NewRemoveBgProvider(apiKey, baseURL string, timeout time.Duration) *RemoveBgProvider {
	if baseURL == "" {
		baseURL = "https://api.remove.bg/v1.0" // Default
	}
	return &RemoveBgProvider{
		apiKey:  apiKey,
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (p *RemoveBgProvider) Remove(ctx context.Context, image []byte, contentType string) (*removal.Result, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("image_file", "image")
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, fmt.Errorf("write form file: %w", err)
	}
	if err := writer.WriteField("size", "auto"); err != nil {
		return nil, fmt.Errorf("write size field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	url := p.baseURL + "/removebg"
	req, err := http.NewRequestWithContext(ctx, "POST", url, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Api-Key", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remove.bg request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	// remove.bg signals out-of-credits with 402 and throttling with 429
	if resp.StatusCode != http.StatusOK {
		return nil, removal.StatusError("remove.bg", resp.StatusCode, bodyBytes)
	}

	if len(bodyBytes) == 0 {
		return nil, fmt.Errorf("empty image from remove.bg")
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/png"
	}

	return &removal.Result{
		Data:     bodyBytes,
		MimeType: mimeType,
	}, nil
}
