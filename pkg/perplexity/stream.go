package perplexity

import (
	"io"

	"github.com/ardzz/perplexity-scrape/pkg/sse"
)

// Stream is a live upstream event stream. Next yields the raw JSON
// payload of each data event in arrival order; events are processed one
// at a time, synchronously, because patch application is
// order-sensitive.
type Stream struct {
	body   io.ReadCloser
	reader *sse.Reader
}

func newStream(body io.ReadCloser) *Stream {
	return &Stream{
		body:   body,
		reader: sse.NewReader(body),
	}
}

// Next returns the next event payload, or nil when the stream is
// exhausted.
func (s *Stream) Next() ([]byte, error) {
	for {
		ev, err := s.reader.Next()
		if err != nil {
			return nil, err
		}
		if ev == nil {
			return nil, nil
		}
		if ev.Data == "" {
			continue
		}
		return []byte(ev.Data), nil
	}
}

// Close releases the upstream connection. Safe to call more than once.
func (s *Stream) Close() error {
	return s.body.Close()
}
