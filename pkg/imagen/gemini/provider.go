package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ai-imagestudio-be/pkg/imagen"
)

type GeminiProvider struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// Ensure GeminiProvider implements ImageProvider
var _ imagen.ImageProvider = &GeminiProvider{}

// --- Request/Response structs (Imagen predict API) ---

type predictRequest struct {
	Instances  []predictInstance `json:"instances"`
	Parameters predictParameters `json:"parameters"`
}

type predictInstance struct {
	Prompt string `json:"prompt"`
}

type predictParameters struct {
	SampleCount int    `json:"sampleCount"`
	AspectRatio string `json:"aspectRatio,omitempty"`
}

type predictResponse struct {
	Predictions []struct {
		BytesBase64Encoded string `json:"bytesBase64Encoded"`
		MimeType           string `json:"mimeType"`
	} `json:"predictions"`
}

func NewGeminiProvider(apiKey, baseURL, model string, timeout time.Duration) *GeminiProvider {
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if model == "" {
		model = "imagen-3.0-generate-002"
	}
	return &GeminiProvider{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (p *GeminiProvider) Generate(ctx context.Context, prompt string, options ...imagen.Option) (*imagen.Image, error) {
	opts := &imagen.Options{
		Model: p.model,
	}
	for _, o := range options {
		o(opts)
	}

	reqBody := predictRequest{
		Instances: []predictInstance{
			{Prompt: prompt},
		},
		Parameters: predictParameters{
			SampleCount: 1,
			AspectRatio: opts.AspectRatio,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:predict", p.baseURL, opts.Model)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, imagen.StatusError("gemini", resp.StatusCode, bodyBytes)
	}

	var predictResp predictResponse
	if err := json.Unmarshal(bodyBytes, &predictResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(predictResp.Predictions) == 0 || predictResp.Predictions[0].BytesBase64Encoded == "" {
		return nil, fmt.Errorf("empty prediction from gemini api")
	}

	data, err := base64.StdEncoding.DecodeString(predictResp.Predictions[0].BytesBase64Encoded)
	if err != nil {
		return nil, fmt.Errorf("decode image payload: %w", err)
	}

	mimeType := predictResp.Predictions[0].MimeType
	if mimeType == "" {
		mimeType = "image/png"
	}

	return &imagen.Image{
		Data:     data,
		MimeType: mimeType,
	}, nil
}
