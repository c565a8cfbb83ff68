package searchquery

import (
	"testing"
)

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantStyle string
		wantRatio string
		wantMode  string
		wantText  string
	}{
		{
			name:     "plain free text",
			raw:      "sunset over mountains",
			wantText: "sunset over mountains",
		},
		{
			name:      "style filter only",
			raw:       "style:anime",
			wantStyle: "anime",
			wantText:  "",
		},
		{
			name:      "style and ratio with free text",
			raw:       "style:anime ratio:16:9 neon city",
			wantStyle: "anime",
			wantRatio: "16:9",
			wantText:  "neon city",
		},
		{
			name:      "ratio value keeps its colon",
			raw:       "ratio:9:16",
			wantRatio: "9:16",
		},
		{
			name:     "mode filter for edits",
			raw:      "mode:quality portrait",
			wantMode: "quality",
			wantText: "portrait",
		},
		{
			name:      "uppercase keys and values normalized",
			raw:       "STYLE:Anime MODE:Fast",
			wantStyle: "anime",
			wantMode:  "fast",
		},
		{
			name:     "unknown key stays in text",
			raw:      "subject:cat playing piano",
			wantText: "subject:cat playing piano",
		},
		{
			name:     "colon with empty value stays in text",
			raw:      "style: anime",
			wantText: "style: anime",
		},
		{
			name:      "last duplicate filter wins",
			raw:       "style:anime style:sketch",
			wantStyle: "sketch",
		},
		{
			name:     "empty input",
			raw:      "",
			wantText: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := ParseQuery(tt.raw)

			if q.Style != tt.wantStyle {
				t.Errorf("Style = %q, want %q", q.Style, tt.wantStyle)
			}
			if q.Ratio != tt.wantRatio {
				t.Errorf("Ratio = %q, want %q", q.Ratio, tt.wantRatio)
			}
			if q.Mode != tt.wantMode {
				t.Errorf("Mode = %q, want %q", q.Mode, tt.wantMode)
			}
			if q.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", q.Text, tt.wantText)
			}
		})
	}
}

func TestQueryHelpers(t *testing.T) {
	if !ParseQuery("").IsEmpty() {
		t.Errorf("IsEmpty() = false for empty input, want true")
	}
	if ParseQuery("style:anime").IsEmpty() {
		t.Errorf("IsEmpty() = true for filtered input, want false")
	}
	if !ParseQuery("style:anime").HasFilters() {
		t.Errorf("HasFilters() = false for style filter, want true")
	}
	if ParseQuery("just text").HasFilters() {
		t.Errorf("HasFilters() = true for free text, want false")
	}
}
