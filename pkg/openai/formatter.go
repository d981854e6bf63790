package openai

import (
	"encoding/json"
	"time"

	"github.com/ardzz/perplexity-scrape/pkg/perplexity"
)

const (
	objectCompletion = "chat.completion"
	objectChunk      = "chat.completion.chunk"

	finishReasonStop = "stop"

	// sseDone terminates every streaming response body.
	sseDone = "data: [DONE]\n\n"
)

// NewCompletion renders a completed answer as a non-streaming response.
// The id and timestamp are minted at format time; usage is present with
// all counts zero because the upstream reports no token accounting.
func NewCompletion(content, model string) ChatCompletionResponse {
	return ChatCompletionResponse{
		ID:      perplexity.NewCompletionID(),
		Object:  objectCompletion,
		Created: time.Now().Unix(),
		Model:   model,
		Choices: []Choice{
			{
				Index: 0,
				Message: ChoiceMessage{
					Role:    RoleAssistant,
					Content: content,
				},
				FinishReason: finishReasonStop,
			},
		},
		Usage: Usage{},
	}
}

// StreamFormatter renders a live fragment sequence as SSE-framed delta
// chunks sharing one completion id and timestamp. One instance serves
// one response body: the role announcement is one-shot state.
type StreamFormatter struct {
	completionID string
	created      int64
	model        string
	roleSent     bool
}

// NewStreamFormatter creates a formatter with a fresh completion id.
func NewStreamFormatter(model string) *StreamFormatter {
	return &StreamFormatter{
		completionID: perplexity.NewCompletionID(),
		created:      time.Now().Unix(),
		model:        model,
	}
}

// NewStreamFormatterForSession creates a formatter that reuses the
// session's pre-minted completion id and timestamp, so streamed chunks
// match what the session accrued while extracting.
func NewStreamFormatterForSession(model string, session *perplexity.Session) *StreamFormatter {
	return &StreamFormatter{
		completionID: session.CompletionID,
		created:      session.Created,
		model:        model,
	}
}

// RoleChunk returns the SSE frame announcing the assistant role. The
// first call emits it and every later call returns "": the role appears
// at most once per stream.
func (f *StreamFormatter) RoleChunk() string {
	if f.roleSent {
		return ""
	}
	f.roleSent = true
	return frame(f.chunk(Delta{Role: RoleAssistant}, nil))
}

// ContentChunk returns the SSE frame for one content fragment,
// prefixed by the role frame if it has not been sent yet.
func (f *StreamFormatter) ContentChunk(content string) string {
	prefix := ""
	if !f.roleSent {
		prefix = f.RoleChunk()
	}
	return prefix + frame(f.chunk(Delta{Content: content}, nil))
}

// FinalChunk returns the closing frame carrying finish_reason "stop",
// immediately followed by the DONE sentinel.
func (f *StreamFormatter) FinalChunk() string {
	stop := finishReasonStop
	return frame(f.chunk(Delta{}, &stop)) + sseDone
}

func (f *StreamFormatter) chunk(delta Delta, finishReason *string) ChatCompletionChunk {
	return ChatCompletionChunk{
		ID:      f.completionID,
		Object:  objectChunk,
		Created: f.created,
		Model:   f.model,
		Choices: []ChunkChoice{
			{
				Index:        0,
				Delta:        delta,
				FinishReason: finishReason,
			},
		},
	}
}

// frame serializes a chunk as one SSE event: "data: " + JSON + two
// newlines.
func frame(chunk ChatCompletionChunk) string {
	data, err := json.Marshal(chunk)
	if err != nil {
		// The chunk types contain nothing unmarshalable; this path is
		// unreachable in practice.
		return ""
	}
	return "data: " + string(data) + "\n\n"
}
