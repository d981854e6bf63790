package perplexity

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ardzz/perplexity-scrape/pkg/patch"
)

// Session is the per-request aggregation state for one streaming or
// non-streaming query. It ties together the patch aggregators of every
// answer block seen so far. Sessions are request-local and never shared
// across goroutines, so no locking is needed.
type Session struct {
	// CompletionID and Created are minted once so every outbound chunk
	// of a streaming response shares them.
	CompletionID string
	Created      int64

	// Model is the upstream-reported display model. First seen wins:
	// later events never overwrite it.
	Model string

	aggregators   map[string]*patch.Aggregator
	textCompleted bool
}

// NewSession creates a fresh session with a generated completion id and
// the current timestamp.
func NewSession() *Session {
	return &Session{
		CompletionID: NewCompletionID(),
		Created:      time.Now().Unix(),
		aggregators:  make(map[string]*patch.Aggregator),
	}
}

// NewCompletionID mints an OpenAI-style completion identifier.
func NewCompletionID() string {
	hex := uuid.New().String()
	hex = hex[:8] + hex[9:13] + hex[14:18] + hex[19:23] + hex[24:]
	return "chatcmpl-" + hex[:24]
}

// Aggregator returns the aggregator for a usage tag, creating it on
// first use.
func (s *Session) Aggregator(intendedUsage string) *patch.Aggregator {
	agg, ok := s.aggregators[intendedUsage]
	if !ok {
		agg = &patch.Aggregator{}
		s.aggregators[intendedUsage] = agg
	}
	return agg
}

// SetTextCompleted latches the session-wide completion flag. Monotonic:
// once set it is never cleared.
func (s *Session) SetTextCompleted() {
	s.textCompleted = true
}

// AllText concatenates the full text of every aggregator in
// lexicographic usage-tag order. The ordering is a documented
// convention, not an upstream guarantee: numbered answer sections have
// only ever been observed to sort correctly this way.
func (s *Session) AllText() string {
	keys := make([]string, 0, len(s.aggregators))
	for key := range s.aggregators {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var all string
	for _, key := range keys {
		all += s.aggregators[key].FullText()
	}
	return all
}

// AllComplete reports whether the stream is finished: either the
// upstream terminal signal was seen, or every aggregator reported DONE
// (vacuously true when no aggregator exists yet).
func (s *Session) AllComplete() bool {
	if s.textCompleted {
		return true
	}
	for _, agg := range s.aggregators {
		if !agg.Complete() {
			return false
		}
	}
	return true
}
