// Package adapter converts OpenAI-style conversations into Perplexity
// queries and exposes completion, streaming and search operations over
// the upstream client. Every request it issues is incognito: queries
// made through the REST and MCP surfaces must never land in the
// account's visible thread history.
package adapter

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ardzz/perplexity-scrape/pkg/modelmap"
	"github.com/ardzz/perplexity-scrape/pkg/openai"
	"github.com/ardzz/perplexity-scrape/pkg/perplexity"
)

// Adapter bridges the OpenAI-shaped surfaces to the upstream client.
// The client handle is constructed once and injected; the adapter adds
// no mutable state of its own.
type Adapter struct {
	client *perplexity.Client
	logger *zap.Logger
}

// New creates an Adapter around an already-constructed client.
func New(client *perplexity.Client, logger *zap.Logger) *Adapter {
	return &Adapter{client: client, logger: logger}
}

// FormatQuery flattens an ordered conversation into the single query
// string the upstream expects.
//
// A lone user message is passed through verbatim so no framing ever
// alters a simple question. Anything else renders as a dialogue: an
// optional "[Context: ...]" line from the system message, then
// "User:"/"Assistant:" lines in original order, the two parts joined by
// a blank line.
func (a *Adapter) FormatQuery(messages []openai.ChatMessage) string {
	if len(messages) == 1 && messages[0].Role == openai.RoleUser {
		return messages[0].Content
	}

	var systemContent string
	var conversation []string

	for _, msg := range messages {
		switch msg.Role {
		case openai.RoleSystem:
			systemContent = msg.Content
		case openai.RoleAssistant:
			conversation = append(conversation, "Assistant: "+msg.Content)
		default:
			conversation = append(conversation, "User: "+msg.Content)
		}
	}

	var parts []string
	if systemContent != "" {
		parts = append(parts, "[Context: "+systemContent+"]")
	}
	if len(conversation) > 0 {
		parts = append(parts, strings.Join(conversation, "\n"))
	}

	return strings.Join(parts, "\n\n")
}

// Complete runs a non-streaming completion. It returns the aggregated
// answer text together with the upstream model identifier that actually
// served the request — not the caller's alias.
func (a *Adapter) Complete(ctx context.Context, messages []openai.ChatMessage, modelAlias string) (string, string, error) {
	cfg := modelmap.Resolve(modelAlias)
	query := a.FormatQuery(messages)

	a.logger.Debug("executing completion",
		zap.String("alias", modelAlias),
		zap.String("model", cfg.Model),
	)

	resp, err := a.client.Ask(ctx, perplexity.Query{
		Text:            query,
		Mode:            cfg.Mode,
		ModelPreference: cfg.Model,
		SearchFocus:     cfg.SearchFocus,
		Sources:         cfg.Sources,
		Incognito:       true,
	})
	if err != nil {
		return "", "", fmt.Errorf("completion failed: %w", err)
	}

	return resp.Text, cfg.Model, nil
}

// Stream runs a streaming completion. The returned Fragments sequence
// yields only non-empty text fragments; the caller must Close it on
// every exit path so the upstream connection is released even when the
// client aborts mid-stream.
func (a *Adapter) Stream(ctx context.Context, messages []openai.ChatMessage, modelAlias string) (*Fragments, string, error) {
	cfg := modelmap.Resolve(modelAlias)
	query := a.FormatQuery(messages)

	a.logger.Debug("starting stream",
		zap.String("alias", modelAlias),
		zap.String("model", cfg.Model),
	)

	stream, err := a.client.AskStream(ctx, perplexity.Query{
		Text:            query,
		Mode:            cfg.Mode,
		ModelPreference: cfg.Model,
		SearchFocus:     cfg.SearchFocus,
		Sources:         cfg.Sources,
		Incognito:       true,
	})
	if err != nil {
		return nil, "", fmt.Errorf("stream failed: %w", err)
	}

	return newFragments(stream), cfg.Model, nil
}

// Search runs one raw query for the MCP surface, returning the full
// structured upstream response (text, citations, related queries).
// Mode, model and focus default from the alias table when empty.
func (a *Adapter) Search(ctx context.Context, query, mode, modelPreference, searchFocus string, sources []string) (*perplexity.Response, error) {
	if mode == "" {
		mode = modelmap.DefaultMode
	}
	if modelPreference == "" {
		modelPreference = modelmap.DefaultModel
	}
	if searchFocus == "" {
		searchFocus = modelmap.DefaultSearchFocus
	}

	return a.client.Ask(ctx, perplexity.Query{
		Text:            query,
		Mode:            mode,
		ModelPreference: modelPreference,
		SearchFocus:     searchFocus,
		Sources:         sources,
		Incognito:       true,
	})
}
