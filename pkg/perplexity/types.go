// Package perplexity implements the client for Perplexity's web answer
// API and the translation of its incrementally-patched SSE stream into
// plain text fragments.
package perplexity

import (
	"encoding/json"

	"github.com/ardzz/perplexity-scrape/pkg/patch"
)

// Event is one decoded upstream SSE event. All metadata fields are
// optional on the wire and default to their zero value ("STREAMING" for
// MessageMode).
type Event struct {
	BackendUUID   string
	UUID          string
	DisplayModel  string
	Mode          string
	SearchFocus   string
	TextCompleted bool
	MessageMode   string
	Blocks        []Block
	ThreadURLSlug string
}

// Block is one content block within an event, keyed by its intended
// usage tag. PlanBlock and MarkdownBlock are carried through unparsed:
// only diff patches are semantically consumed.
type Block struct {
	IntendedUsage string
	DiffBlock     *DiffBlock
	PlanBlock     json.RawMessage
	MarkdownBlock json.RawMessage
}

// DiffBlock carries the ordered patch list for a block.
type DiffBlock struct {
	Field   string
	Patches []patch.Patch
}

// Citation is a web or scholar source reference extracted from the
// final answer event.
type Citation struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet,omitempty"`
}

// Response is the fully aggregated result of a non-streaming query.
type Response struct {
	Text           string     `json:"text"`
	Model          string     `json:"model"`
	Citations      []Citation `json:"citations"`
	RelatedQueries []string   `json:"related_queries"`
}
