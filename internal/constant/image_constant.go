package constant

// Style tags accepted by the generation endpoint. "auto" sends the prompt
// untouched; every other known tag appends its suffix before the provider
// call. Unknown tags fall through with no suffix, the stored record keeps
// whatever label the client sent.
const StyleAuto = "auto"

var StylePromptSuffixes = map[string]string{
	"photorealistic": ", photorealistic, ultra detailed, natural lighting, 8k",
	"anime":          ", anime style, cel shading, vibrant colors, studio quality",
	"digital-art":    ", digital art, highly detailed, trending concept art",
	"oil-painting":   ", oil painting, visible brush strokes, canvas texture",
	"watercolor":     ", watercolor painting, soft washes, paper grain",
	"3d-render":      ", 3d render, octane, global illumination, high poly",
	"pixel-art":      ", pixel art, 16-bit, limited palette",
	"sketch":         ", pencil sketch, monochrome, cross hatching",
	"cyberpunk":      ", cyberpunk, neon lights, rain soaked streets, high contrast",
	"fantasy":        ", fantasy art, epic composition, dramatic lighting",
}

// StyleSuffix resolves the prompt suffix for a style tag. Returns "" for
// "auto" and for tags not in the catalog.
func StyleSuffix(style string) string {
	if style == "" || style == StyleAuto {
		return ""
	}
	return StylePromptSuffixes[style]
}

// Aspect ratios the providers accept. The first entry is the default.
var SupportedAspectRatios = []string{"1:1", "16:9", "9:16", "4:3", "3:4"}

const DefaultAspectRatio = "1:1"

// Edit modes for background removal.
const (
	EditModeFast    = "fast"
	EditModeQuality = "quality"

	EditTypeBackgroundRemoval = "background-removal"
)

var SupportedEditModes = []string{EditModeFast, EditModeQuality}

// MaxEditUploadBytes bounds the multipart upload accepted by the edit
// endpoint. 10MB covers every image the providers themselves accept.
const MaxEditUploadBytes = 10 << 20

// Service labels recorded on credit ledger rows.
const (
	ServiceImageGeneration   = "image_generation"
	ServiceBackgroundRemoval = "background_removal"
	ServiceCreditPack        = "credit_pack"
	ServiceSignupGrant       = "signup_grant"
	ServiceAdminAdjust       = "admin_adjustment"
)

// Credit cost per successful output. Both workflows charge per unit.
const CreditsPerImage = 1
