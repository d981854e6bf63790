// Package patch applies Perplexity's RFC-6902-flavored diff patches to
// reconstruct the text of a single answer block incrementally.
package patch

import (
	"encoding/json"
	"strings"
)

// Patch operation types observed in Perplexity diff blocks.
const (
	OpAdd     = "add"
	OpReplace = "replace"
	OpRemove  = "remove"
)

const chunksPrefix = "/chunks/"

// Patch is a single mutation instruction from an upstream diff block.
// Value is kept as raw JSON: only chunk adds and root snapshots are
// semantically consumed, everything else round-trips untouched.
type Patch struct {
	Op    string          `json:"op"`
	Path  string          `json:"path"`
	Value json.RawMessage `json:"value,omitempty"`
}

// UnmarshalJSON applies upstream defaults: a missing op means "replace"
// and a missing path means the root ("").
func (p *Patch) UnmarshalJSON(data []byte) error {
	var raw struct {
		Op    *string         `json:"op"`
		Path  *string         `json:"path"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Op = OpReplace
	if raw.Op != nil {
		p.Op = *raw.Op
	}
	p.Path = ""
	if raw.Path != nil {
		p.Path = *raw.Path
	}
	p.Value = raw.Value
	return nil
}

// rootSnapshot is the shape of a replace-at-root value: an initial-state
// object whose chunks seed the aggregator.
type rootSnapshot struct {
	Chunks []json.RawMessage `json:"chunks"`
}

// Aggregator accumulates the text of one answer block from an ordered
// patch sequence. Patches must be applied in arrival order; the index
// embedded in a chunk path is ignored and chunks are appended as they
// arrive, matching observed upstream behavior.
//
// The zero value is ready to use.
type Aggregator struct {
	chunks   []string
	complete bool
}

// Apply applies one patch and returns any newly materialized text.
// Unrecognized ops and paths are ignored rather than rejected: the
// upstream patch vocabulary is not fully known and may grow. For the
// same reason chunk adds match "/chunks/" anywhere in the path, not
// just at the start, so nested paths like "/answer/chunks/0" still
// append.
func (a *Aggregator) Apply(p Patch) string {
	switch {
	case p.Op == OpAdd && strings.Contains(p.Path, chunksPrefix):
		text := stringify(p.Value)
		a.chunks = append(a.chunks, text)
		return text

	case p.Op == OpReplace && p.Path == "/progress":
		var progress string
		if err := json.Unmarshal(p.Value, &progress); err == nil && progress == "DONE" {
			a.complete = true
		}
		return ""

	case p.Op == OpReplace && p.Path == "":
		var snap rootSnapshot
		if err := json.Unmarshal(p.Value, &snap); err != nil {
			return ""
		}
		var initial strings.Builder
		for _, chunk := range snap.Chunks {
			text := stringify(chunk)
			a.chunks = append(a.chunks, text)
			initial.WriteString(text)
		}
		return initial.String()
	}

	return ""
}

// FullText returns the concatenation of all stored chunks in arrival
// order. It is side-effect-free.
func (a *Aggregator) FullText() string {
	return strings.Join(a.chunks, "")
}

// Complete reports whether a DONE progress update has been seen.
// Once true it never reverts.
func (a *Aggregator) Complete() bool {
	return a.complete
}

// stringify converts a raw patch value to chunk text. JSON strings are
// used as-is, null becomes empty, and anything else falls back to its
// compact JSON encoding.
func stringify(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "null" {
		return ""
	}
	return trimmed
}
