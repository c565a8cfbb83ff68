package constant

import (
	"strings"
	"testing"
)

func TestStyleSuffix(t *testing.T) {
	tests := []struct {
		name       string
		style      string
		wantSuffix bool
	}{
		{"auto adds nothing", "auto", false},
		{"empty adds nothing", "", false},
		{"known style", "anime", true},
		{"known style", "photorealistic", true},
		{"unknown style passes through", "vaporwave", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StyleSuffix(tt.style)
			if tt.wantSuffix && got == "" {
				t.Errorf("StyleSuffix(%q) = empty, want a suffix", tt.style)
			}
			if !tt.wantSuffix && got != "" {
				t.Errorf("StyleSuffix(%q) = %q, want empty", tt.style, got)
			}
		})
	}
}

func TestStyleCatalogComplete(t *testing.T) {
	for style, suffix := range StylePromptSuffixes {
		if strings.TrimSpace(suffix) == "" {
			t.Errorf("style %q has an empty suffix", style)
		}
		if !strings.HasPrefix(suffix, ", ") {
			t.Errorf("style %q suffix %q does not start with a comma separator", style, suffix)
		}
	}
	if _, ok := StylePromptSuffixes[StyleAuto]; ok {
		t.Error("auto must not be in the suffix catalog")
	}
}

func TestDefaultAspectRatioSupported(t *testing.T) {
	found := false
	for _, r := range SupportedAspectRatios {
		if r == DefaultAspectRatio {
			found = true
		}
	}
	if !found {
		t.Errorf("default aspect ratio %q missing from supported list", DefaultAspectRatio)
	}
}
