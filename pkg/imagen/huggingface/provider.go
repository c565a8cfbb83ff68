package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ai-imagestudio-be/pkg/imagen"
)

type HuggingFaceProvider struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// Request Payload Structure (Inference API)
type inferenceRequest struct {
	Inputs string `json:"inputs"`
}

func NewHuggingFaceProvider(apiKey, baseURL, model string, timeout time.Duration) *HuggingFaceProvider {
	if baseURL == "" {
		baseURL = "https://api-inference.huggingface.co/models" // Default Inference API URL
	}
	if model == "" {
		model = "black-forest-labs/FLUX.1-schnell"
	}
	return &HuggingFaceProvider{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (p *HuggingFaceProvider) Generate(ctx context.Context, prompt string, options ...imagen.Option) (*imagen.Image, error) {
	opts := &imagen.Options{
		Model: p.model,
	}
	for _, o := range options {
		o(opts)
	}
	// The Inference API ignores aspect ratio; the model decides dimensions.

	reqBody := inferenceRequest{Inputs: prompt}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s", p.baseURL, opts.Model)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-wait-for-model", "true")
	if p.apiKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", p.apiKey))
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, imagen.StatusError("huggingface", resp.StatusCode, bodyBytes)
	}

	// Success responses carry the raw image bytes.
	if len(bodyBytes) == 0 {
		return nil, fmt.Errorf("empty image from huggingface api")
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	return &imagen.Image{
		Data:     bodyBytes,
		MimeType: mimeType,
	}, nil
}
