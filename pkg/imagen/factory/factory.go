package factory

import (
	"fmt"
	"time"

	"ai-imagestudio-be/pkg/imagen"
	"ai-imagestudio-be/pkg/imagen/gemini"
	"ai-imagestudio-be/pkg/imagen/huggingface"
)

func NewImageProvider(providerType, apiKey, baseURL, model string, timeout time.Duration) (imagen.ImageProvider, error) {
	switch providerType {
	case "gemini":
		return gemini.NewGeminiProvider(apiKey, baseURL, model, timeout), nil
	case "huggingface":
		return huggingface.NewHuggingFaceProvider(apiKey, baseURL, model, timeout), nil
	default:
		return nil, fmt.Errorf("unsupported image provider: %s", providerType)
	}
}
