package adapter

import (
	"github.com/ardzz/perplexity-scrape/pkg/perplexity"
)

// Fragments is a pull-based sequence of answer text fragments extracted
// from one upstream stream. Pulling the next fragment is what drives
// upstream consumption, so a slow consumer naturally throttles the
// stream.
type Fragments struct {
	stream    *perplexity.Stream
	extractor *perplexity.Extractor
	pending   []string
}

func newFragments(stream *perplexity.Stream) *Fragments {
	return &Fragments{
		stream:    stream,
		extractor: perplexity.NewExtractor(),
	}
}

// Next returns the next non-empty fragment. ok is false when the
// upstream stream is exhausted. Empty fragments never surface: that is
// part of the streaming contract, not an optimization.
func (f *Fragments) Next() (fragment string, ok bool, err error) {
	for {
		if len(f.pending) > 0 {
			fragment, f.pending = f.pending[0], f.pending[1:]
			if fragment != "" {
				return fragment, true, nil
			}
			continue
		}

		data, err := f.stream.Next()
		if err != nil {
			return "", false, err
		}
		if data == nil {
			return "", false, nil
		}

		f.pending = f.extractor.ProcessEvent(data)
	}
}

// Session exposes the extraction session (completion id, timestamp,
// upstream-reported model) accumulated while streaming.
func (f *Fragments) Session() *perplexity.Session {
	return f.extractor.Session()
}

// Close releases the upstream connection. Must be called on every exit
// path, including early abort by the downstream client.
func (f *Fragments) Close() error {
	return f.stream.Close()
}
