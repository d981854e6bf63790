package perplexity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the Perplexity web frontend origin.
	DefaultBaseURL = "https://www.perplexity.ai"

	// sseEndpoint is the streaming answer endpoint used by the web UI.
	sseEndpoint = "/rest/sse/perplexity_ask"
)

// ErrMissingCredentials is returned by NewClient when the required
// session cookies are not configured. The process refuses to serve
// rather than silently degrade.
var ErrMissingCredentials = errors.New(
	"missing perplexity credentials: session token, cf_clearance and visitor id are required")

// Credentials are the browser session cookies that authenticate against
// the Perplexity web API.
type Credentials struct {
	SessionToken string
	CFClearance  string
	VisitorID    string
	SessionID    string
	CFBM         string
}

// complete reports whether all mandatory cookies are present.
func (c Credentials) complete() bool {
	return c.SessionToken != "" && c.CFClearance != "" && c.VisitorID != ""
}

// Query describes one upstream ask request.
type Query struct {
	Text            string
	Mode            string
	ModelPreference string
	SearchFocus     string
	Sources         []string
	Incognito       bool
}

// Client talks to the Perplexity web answer API. It is safe for
// concurrent use: all mutable state is per-request.
type Client struct {
	baseURL    string
	creds      Credentials
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the upstream origin (used by tests).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient validates the credentials and builds a client. Research
// queries can run for many minutes, so the HTTP client carries no
// overall timeout; deadline policy belongs to the caller's context.
func NewClient(creds Credentials, logger *zap.Logger, opts ...Option) (*Client, error) {
	if !creds.complete() {
		return nil, ErrMissingCredentials
	}

	c := &Client{
		baseURL:    DefaultBaseURL,
		creds:      creds,
		httpClient: &http.Client{},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// buildPayload assembles the request body the web frontend sends for a
// query. Field values mirror the browser payload; anything the server
// tolerates being absent is still sent explicitly to keep the request
// shape recognizable.
func (c *Client) buildPayload(q Query) map[string]any {
	sources := q.Sources
	if len(sources) == 0 {
		sources = []string{"web", "scholar"}
	}

	return map[string]any{
		"params": map[string]any{
			"attachments":           []any{},
			"language":              "en-US",
			"timezone":              "UTC",
			"search_focus":          q.SearchFocus,
			"sources":               sources,
			"search_recency_filter": nil,
			"frontend_uuid":         uuid.New().String(),
			"mode":                  q.Mode,
			"model_preference":      q.ModelPreference,
			"is_related_query":      false,
			"is_sponsored":          false,
			"frontend_context_uuid": uuid.New().String(),
			"prompt_source":         "user",
			"query_source":          "home",
			"is_incognito":          q.Incognito,
			"local_search_enabled":  false,
			"use_schematized_api":   true,
			"supported_block_use_cases": []string{
				"answer_modes",
				"media_items",
				"knowledge_cards",
				"inline_entity_cards",
				"inline_images",
				"inline_assets",
			},
			"send_back_text_in_streaming_api": false,
			"query_str":                       q.Text,
		},
		"query_str": q.Text,
	}
}

func (c *Client) newRequest(ctx context.Context, q Query) (*http.Request, error) {
	body, err := json.Marshal(c.buildPayload(q))
	if err != nil {
		return nil, fmt.Errorf("encoding query payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+sseEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building upstream request: %w", err)
	}

	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", c.baseURL)
	req.Header.Set("Referer", c.baseURL+"/")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("X-Perplexity-Request-Reason", "perplexity-query-state-provider")
	req.Header.Set("X-Request-Id", uuid.New().String())

	cookies := map[string]string{
		"pplx.visitor-id":                  c.creds.VisitorID,
		"__Secure-next-auth.session-token": c.creds.SessionToken,
		"cf_clearance":                     c.creds.CFClearance,
		"pplx.session-id":                  c.creds.SessionID,
		"__cf_bm":                          c.creds.CFBM,
	}
	for name, value := range cookies {
		if value != "" {
			req.AddCookie(&http.Cookie{Name: name, Value: value})
		}
	}

	return req, nil
}

// AskStream sends the query and returns the live event stream. The
// caller must Close the stream on every exit path, including early
// abort, to release the upstream connection.
func (c *Client) AskStream(ctx context.Context, q Query) (*Stream, error) {
	req, err := c.newRequest(ctx, q)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("querying upstream",
		zap.String("mode", q.Mode),
		zap.String("model", q.ModelPreference),
		zap.Bool("incognito", q.Incognito),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, fmt.Errorf("upstream returned status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	return newStream(resp.Body), nil
}

// Ask sends the query and blocks until the answer is fully aggregated.
// Answer text is reconstructed through the same extractor the streaming
// path uses; citations and related queries come from the terminal FINAL
// step event.
func (c *Client) Ask(ctx context.Context, q Query) (*Response, error) {
	stream, err := c.AskStream(ctx, q)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	extractor := NewExtractor()
	result := &Response{
		Citations:      []Citation{},
		RelatedQueries: []string{},
	}

	for {
		data, err := stream.Next()
		if err != nil {
			return nil, fmt.Errorf("reading upstream stream: %w", err)
		}
		if data == nil {
			break
		}

		extractor.ProcessEvent(data)
		collectFinalStep(data, result)
	}

	result.Text = extractor.FullText()
	result.Model = extractor.Session().Model
	if result.Text == "" && result.Model == "" {
		c.logger.Debug("stream produced no answer text")
	}

	return result, nil
}
