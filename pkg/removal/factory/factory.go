package factory

import (
	"fmt"
	"time"

	"ai-imagestudio-be/pkg/removal"
	"ai-imagestudio-be/pkg/removal/rembg"
	"ai-imagestudio-be/pkg/removal/removebg"
)

func NewRemovalProvider(providerType, apiKey, baseURL string, timeout time.Duration) (removal.RemovalProvider, error) {
	switch providerType {
	case "rembg":
		return rembg.NewRembgProvider(baseURL, timeout), nil
	case "removebg":
		return removebg.NewRemoveBgProvider(apiKey, baseURL, timeout), nil
	default:
		return nil, fmt.Errorf("unsupported removal provider: %s", providerType)
	}
}
