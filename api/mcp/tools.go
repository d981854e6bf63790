package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/ardzz/perplexity-scrape/pkg/perplexity"
)

var (
	askToolName    = "perplexity_ask"
	askDescription = "Search the web using Perplexity AI. Returns the answer text together with citations and related queries."

	quickSearchToolName    = "perplexity_quick_search"
	quickSearchDescription = "Quick web search using Perplexity AI. Returns just the answer text."

	academicSearchToolName    = "perplexity_academic_search"
	academicSearchDescription = "Search academic sources using Perplexity AI. Focuses on scholarly material and returns answer text with citations."

	comprehensiveSearchToolName    = "perplexity_comprehensive_search"
	comprehensiveSearchDescription = "Search both web and academic sources using Perplexity AI. Returns a comprehensive answer combining web and scholarly material."

	researchToolName    = "perplexity_research"
	researchDescription = "Research a programming topic using Perplexity AI with a category-specific prompt (api, library, implementation, debugging, comparison, general, or one of the ml_* categories)."

	generalResearchToolName    = "perplexity_general_research"
	generalResearchDescription = "Research a topic using Perplexity AI with an academic-style prompt. Best for non-programming topics or when formal definitions and academic sources are wanted."
)

// AskInput represents the input arguments for the ask tool.
type AskInput struct {
	Query       string `json:"query" jsonschema:"the search query to send to Perplexity"`
	Mode        string `json:"mode,omitempty" jsonschema:"search mode: 'copilot' for comprehensive answers, 'search' for quick results"`
	Model       string `json:"model,omitempty" jsonschema:"upstream model preference (default: claude45sonnetthinking)"`
	SearchFocus string `json:"search_focus,omitempty" jsonschema:"focus area: 'internet' for web, 'academic' for scholarly sources"`
}

// SearchOutput is the structured result shared by the answer-returning tools.
type SearchOutput struct {
	Text           string                `json:"text"`
	Citations      []perplexity.Citation `json:"citations"`
	RelatedQueries []string              `json:"related_queries"`
}

// QuickSearchInput represents the input arguments for the quick search tool.
type QuickSearchInput struct {
	Query string `json:"query" jsonschema:"the search query"`
	Model string `json:"model,omitempty" jsonschema:"upstream model preference (default: claude45sonnetthinking)"`
}

// QuickSearchOutput is the plain-text result of a quick search.
type QuickSearchOutput struct {
	Text string `json:"text"`
}

// ResearchInput represents the input arguments for the research tool.
type ResearchInput struct {
	Topic    string `json:"topic" jsonschema:"the programming topic to research"`
	Category string `json:"category,omitempty" jsonschema:"research category: api, library, implementation, debugging, comparison, general, ml_architecture, ml_training, ml_concepts, ml_frameworks, ml_math, ml_paper or ml_debugging (default: general)"`
	Model    string `json:"model,omitempty" jsonschema:"upstream model preference (default: claude45sonnetthinking)"`
}

// GeneralResearchInput represents the input arguments for the general
// research tool. Category here is free text, not a template key.
type GeneralResearchInput struct {
	Topic    string `json:"topic" jsonschema:"the topic to research"`
	Category string `json:"category,omitempty" jsonschema:"context for the topic, e.g. 'machine learning' or 'physics' (default: general)"`
	Model    string `json:"model,omitempty" jsonschema:"upstream model preference (default: claude45sonnetthinking)"`
}

// handleAsk processes a general search request.
func (s *Server) handleAsk(ctx context.Context, req *mcp.CallToolRequest, input AskInput) (*mcp.CallToolResult, SearchOutput, error) {
	s.config.Logger.Debug("MCP ask request",
		zap.String("query", input.Query),
		zap.String("mode", input.Mode),
	)

	resp, err := s.config.Adapter.Search(ctx, input.Query, input.Mode, input.Model, input.SearchFocus, nil)
	if err != nil {
		return toolError(s.config.Logger, "search failed", err), SearchOutput{}, nil
	}

	return searchResult(s.config.Logger, resp)
}

// handleQuickSearch returns only the answer text.
func (s *Server) handleQuickSearch(ctx context.Context, req *mcp.CallToolRequest, input QuickSearchInput) (*mcp.CallToolResult, QuickSearchOutput, error) {
	resp, err := s.config.Adapter.Search(ctx, input.Query, "", input.Model, "", nil)
	if err != nil {
		return toolError(s.config.Logger, "search failed", err), QuickSearchOutput{}, nil
	}

	output := QuickSearchOutput{Text: resp.Text}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: resp.Text},
		},
	}, output, nil
}

// handleAcademicSearch searches scholarly sources only.
func (s *Server) handleAcademicSearch(ctx context.Context, req *mcp.CallToolRequest, input QuickSearchInput) (*mcp.CallToolResult, SearchOutput, error) {
	resp, err := s.config.Adapter.Search(ctx, input.Query, "", input.Model, "academic", []string{"scholar"})
	if err != nil {
		return toolError(s.config.Logger, "search failed", err), SearchOutput{}, nil
	}

	return searchResult(s.config.Logger, resp)
}

// handleComprehensiveSearch queries web and scholar sources together.
func (s *Server) handleComprehensiveSearch(ctx context.Context, req *mcp.CallToolRequest, input QuickSearchInput) (*mcp.CallToolResult, SearchOutput, error) {
	resp, err := s.config.Adapter.Search(ctx, input.Query, "", input.Model, "", []string{"web", "scholar"})
	if err != nil {
		return toolError(s.config.Logger, "search failed", err), SearchOutput{}, nil
	}

	return searchResult(s.config.Logger, resp)
}

// handleResearch runs a category-templated research query.
func (s *Server) handleResearch(ctx context.Context, req *mcp.CallToolRequest, input ResearchInput) (*mcp.CallToolResult, SearchOutput, error) {
	prompt := researchPrompt(input.Topic, input.Category)

	s.config.Logger.Debug("MCP research request",
		zap.String("topic", input.Topic),
		zap.String("category", input.Category),
	)

	resp, err := s.config.Adapter.Search(ctx, prompt, "", input.Model, "", []string{"web", "scholar"})
	if err != nil {
		return toolError(s.config.Logger, "research failed", err), SearchOutput{}, nil
	}

	return searchResult(s.config.Logger, resp)
}

// handleGeneralResearch runs an academic-style research query for
// topics outside the programming template families.
func (s *Server) handleGeneralResearch(ctx context.Context, req *mcp.CallToolRequest, input GeneralResearchInput) (*mcp.CallToolResult, SearchOutput, error) {
	prompt := generalResearchPrompt(input.Topic, input.Category)

	s.config.Logger.Debug("MCP general research request",
		zap.String("topic", input.Topic),
		zap.String("category", input.Category),
	)

	resp, err := s.config.Adapter.Search(ctx, prompt, "", input.Model, "", []string{"web", "scholar"})
	if err != nil {
		return toolError(s.config.Logger, "research failed", err), SearchOutput{}, nil
	}

	return searchResult(s.config.Logger, resp)
}

// searchResult packages a structured upstream response for MCP
// consumers. Per MCP convention, tools returning structured content
// also return the serialized JSON in a TextContent block for backwards
// compatibility.
func searchResult(logger *zap.Logger, resp *perplexity.Response) (*mcp.CallToolResult, SearchOutput, error) {
	output := SearchOutput{
		Text:           resp.Text,
		Citations:      resp.Citations,
		RelatedQueries: resp.RelatedQueries,
	}

	jsonBytes, err := json.Marshal(output)
	if err != nil {
		return toolError(logger, "failed to serialize results", err), SearchOutput{}, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, output, nil
}

func toolError(logger *zap.Logger, msg string, err error) *mcp.CallToolResult {
	logger.Error(msg, zap.Error(err))
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("%s: %v", msg, err)},
		},
	}
}
