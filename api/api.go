// Package api provides the OpenAI-compatible HTTP server.
package api

import (
	"net/http"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ardzz/perplexity-scrape/pkg/adapter"
)

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8045")
	ListenAddr string

	// APIKey enables shared-secret auth on the completions endpoint.
	// Empty disables authentication entirely.
	APIKey string
}

// Server is the OpenAI-compatible REST server fronting the upstream
// adapter.
type Server struct {
	config  Config
	adapter *adapter.Adapter
	logger  *zap.Logger
	app     *fiber.App
}

// NewServer creates a new API server. The adapter is injected to allow
// sharing the upstream client with the MCP surface; mcpHandler, when
// non-nil, is mounted under /mcp so one listener can serve both
// protocols.
func NewServer(config Config, adp *adapter.Adapter, mcpHandler http.Handler, logger *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		StreamRequestBody:     true,
	})

	s := &Server{
		config:  config,
		adapter: adp,
		logger:  logger,
		app:     app,
	}

	app.Get("/health", s.handleHealth)
	app.Get("/v1/models", s.handleListModels)
	app.Post("/v1/chat/completions", s.requireAPIKey, s.handleChatCompletions)

	if mcpHandler != nil {
		app.All("/mcp", adaptor.HTTPHandler(mcpHandler))
		app.All("/mcp/*", adaptor.HTTPHandler(mcpHandler))
	}

	return s
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		zap.String("listen", s.config.ListenAddr),
		zap.Bool("auth", s.config.APIKey != ""),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the fiber app for in-process testing.
func (s *Server) App() *fiber.App {
	return s.app
}
