package searchquery

// Query is a parsed history search input: recognized key:value tokens
// become structured filters, the rest is the free-text term.
type Query struct {
	Style string
	Ratio string
	Mode  string
	Text  string
}

func (q Query) HasFilters() bool {
	return q.Style != "" || q.Ratio != "" || q.Mode != ""
}

func (q Query) IsEmpty() bool {
	return !q.HasFilters() && q.Text == ""
}
