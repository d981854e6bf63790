// Package mcp provides an MCP (Model Context Protocol) server exposing
// Perplexity search as tool calls.
package mcp

import (
	"context"
	"errors"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/ardzz/perplexity-scrape/pkg/adapter"
	"github.com/ardzz/perplexity-scrape/pkg/utils"
)

type Config struct {
	// Adapter is the shared upstream adapter. All tool calls run
	// incognito through it.
	Adapter *adapter.Adapter

	// Logger is the configured zap logger
	Logger *zap.Logger
}

type Server struct {
	config    Config
	mcpServer *mcp.Server
	handler   *mcp.StreamableHTTPHandler
}

// NewServer creates a new MCP server with the search tools.
func NewServer(c Config) (*Server, error) {
	if c.Adapter == nil {
		return nil, errors.New("adapter is required")
	}
	if c.Logger == nil {
		return nil, errors.New("logger is required")
	}

	s := &Server{
		config: c,
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "perplexity-scrape",
			Version: utils.Version,
		},
		&mcp.ServerOptions{},
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        askToolName,
		Description: askDescription,
	}, s.handleAsk)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        quickSearchToolName,
		Description: quickSearchDescription,
	}, s.handleQuickSearch)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        academicSearchToolName,
		Description: academicSearchDescription,
	}, s.handleAcademicSearch)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        comprehensiveSearchToolName,
		Description: comprehensiveSearchDescription,
	}, s.handleComprehensiveSearch)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        researchToolName,
		Description: researchDescription,
	}, s.handleResearch)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        generalResearchToolName,
		Description: generalResearchDescription,
	}, s.handleGeneralResearch)

	s.mcpServer = mcpServer

	// Create a streamable HTTP net/http handler for stateless operations
	s.handler = mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server {
			return mcpServer
		},
		&mcp.StreamableHTTPOptions{
			Stateless: true,
		},
	)

	return s, nil
}

// Handler returns the HTTP handler for the MCP server.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// RunStdio serves the MCP protocol over stdin/stdout until the context
// is canceled.
func (s *Server) RunStdio(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
