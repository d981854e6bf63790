package perplexity

import (
	"encoding/json"
	"strings"

	"github.com/ardzz/perplexity-scrape/pkg/patch"
)

const (
	// markdownUsageExact is the tag of the combined answer block.
	markdownUsageExact = "ask_text_markdown"
	// markdownUsagePrefix/Suffix bound the tags of individual answer
	// sections, e.g. "ask_text_2_markdown". Anything between prefix and
	// suffix is accepted: the upstream has been observed to emit tags
	// that are not plain indices and rejecting them would drop answer
	// text.
	markdownUsagePrefix = "ask_text_"
	markdownUsageSuffix = "_markdown"

	defaultMessageMode = "STREAMING"
)

// rawEvent mirrors the wire shape of one upstream event.
type rawEvent struct {
	BackendUUID   string            `json:"backend_uuid"`
	UUID          string            `json:"uuid"`
	DisplayModel  string            `json:"display_model"`
	Mode          string            `json:"mode"`
	SearchFocus   string            `json:"search_focus"`
	TextCompleted bool              `json:"text_completed"`
	MessageMode   *string           `json:"message_mode"`
	Blocks        []json.RawMessage `json:"blocks"`
	ThreadURLSlug string            `json:"thread_url_slug"`
}

type rawBlock struct {
	IntendedUsage string          `json:"intended_usage"`
	DiffBlock     *rawDiffBlock   `json:"diff_block"`
	PlanBlock     json.RawMessage `json:"plan_block"`
	MarkdownBlock json.RawMessage `json:"markdown_block"`
}

type rawDiffBlock struct {
	Field   string        `json:"field"`
	Patches []patch.Patch `json:"patches"`
}

// ParseEvent decodes one raw upstream event. It returns nil when the
// payload is fundamentally malformed (wrong shape, invalid JSON): the
// stream keeps flowing and a broken event is simply skipped. A single
// malformed block inside an otherwise valid event is dropped
// individually instead of failing the whole event.
func ParseEvent(data []byte) *Event {
	var raw rawEvent
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	ev := &Event{
		BackendUUID:   raw.BackendUUID,
		UUID:          raw.UUID,
		DisplayModel:  raw.DisplayModel,
		Mode:          raw.Mode,
		SearchFocus:   raw.SearchFocus,
		TextCompleted: raw.TextCompleted,
		MessageMode:   defaultMessageMode,
		ThreadURLSlug: raw.ThreadURLSlug,
	}
	if raw.MessageMode != nil {
		ev.MessageMode = *raw.MessageMode
	}

	for _, blockData := range raw.Blocks {
		if block := parseBlock(blockData); block != nil {
			ev.Blocks = append(ev.Blocks, *block)
		}
	}

	return ev
}

// parseBlock decodes a single block. A block without a usage tag has no
// addressable meaning and is dropped.
func parseBlock(data []byte) *Block {
	var raw rawBlock
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	if raw.IntendedUsage == "" {
		return nil
	}

	block := &Block{
		IntendedUsage: raw.IntendedUsage,
		PlanBlock:     raw.PlanBlock,
		MarkdownBlock: raw.MarkdownBlock,
	}
	if raw.DiffBlock != nil {
		block.DiffBlock = &DiffBlock{
			Field:   raw.DiffBlock.Field,
			Patches: raw.DiffBlock.Patches,
		}
	}

	return block
}

// IsMarkdownBlock reports whether a usage tag identifies a markdown
// answer block: either the combined answer tag or a per-section tag of
// the form "ask_text_<anything>_markdown".
func IsMarkdownBlock(intendedUsage string) bool {
	if intendedUsage == "" {
		return false
	}
	if intendedUsage == markdownUsageExact {
		return true
	}
	return strings.HasPrefix(intendedUsage, markdownUsagePrefix) &&
		strings.HasSuffix(intendedUsage, markdownUsageSuffix)
}
