package perplexity

// Extractor drives decoding of a raw event stream and routes each
// block's patches to the session aggregator matching its usage tag.
// State accumulates across calls, so one Extractor serves exactly one
// upstream stream; reprocessing requires a fresh instance.
type Extractor struct {
	session *Session
}

// NewExtractor returns an Extractor with a fresh session.
func NewExtractor() *Extractor {
	return &Extractor{session: NewSession()}
}

// Session exposes the underlying session for formatter bootstrapping
// (completion id, created timestamp, model).
func (e *Extractor) Session() *Session {
	return e.session
}

// ProcessEvent decodes one raw event and returns the text fragments it
// materialized, in arrival order. Malformed events produce no fragments
// and no error: the stream keeps going.
func (e *Extractor) ProcessEvent(data []byte) []string {
	event := ParseEvent(data)
	if event == nil {
		return nil
	}

	if event.TextCompleted {
		e.session.SetTextCompleted()
	}

	if e.session.Model == "" && event.DisplayModel != "" {
		e.session.Model = event.DisplayModel
	}

	var fragments []string
	for _, block := range event.Blocks {
		if !IsMarkdownBlock(block.IntendedUsage) || block.DiffBlock == nil {
			continue
		}
		agg := e.session.Aggregator(block.IntendedUsage)
		for _, p := range block.DiffBlock.Patches {
			if text := agg.Apply(p); text != "" {
				fragments = append(fragments, text)
			}
		}
	}

	return fragments
}

// FullText returns the complete answer accumulated so far, merging all
// answer sections in lexicographic usage-tag order.
func (e *Extractor) FullText() string {
	return e.session.AllText()
}

// Complete reports whether the upstream signaled completion, either via
// the event-level flag or by every block finishing.
func (e *Extractor) Complete() bool {
	return e.session.AllComplete()
}
