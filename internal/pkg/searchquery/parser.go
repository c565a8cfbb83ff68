package searchquery

import (
	"strings"
)

// Parser splits a raw history search string into filters and free text
type Parser struct{}

// NewParser creates a new parser instance
func NewParser() *Parser {
	return &Parser{}
}

// Parse tokenizes the raw query. Recognized prefixes (style:, ratio:, mode:)
// become filters; unrecognized tokens, including untagged key:value pairs,
// stay in the free-text remainder so prompts containing colons still match.
// When a filter repeats, the last occurrence wins.
func (p *Parser) Parse(raw string) Query {
	var q Query
	var textParts []string

	for _, tok := range strings.Fields(raw) {
		kv := strings.SplitN(tok, ":", 2)
		if len(kv) != 2 || kv[1] == "" {
			textParts = append(textParts, tok)
			continue
		}

		switch strings.ToLower(kv[0]) {
		case "style":
			q.Style = strings.ToLower(kv[1])
		case "ratio":
			q.Ratio = kv[1]
		case "mode":
			q.Mode = strings.ToLower(kv[1])
		default:
			textParts = append(textParts, tok)
		}
	}

	q.Text = strings.Join(textParts, " ")
	return q
}

// ParseQuery is a convenience function for one-off parses
func ParseQuery(raw string) Query {
	return NewParser().Parse(raw)
}
