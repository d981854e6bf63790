// Package servecmder provides the serve command with subcommands for running services.
package servecmder

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ardzz/perplexity-scrape/api"
	mcpserver "github.com/ardzz/perplexity-scrape/api/mcp"
	"github.com/ardzz/perplexity-scrape/pkg/adapter"
	"github.com/ardzz/perplexity-scrape/pkg/config"
	"github.com/ardzz/perplexity-scrape/pkg/logger"
	"github.com/ardzz/perplexity-scrape/pkg/perplexity"
)

const serveLongDesc string = `Run pscrape services.

Use subcommands to run individual services or the combined server:
  pscrape serve        Run the REST server with the MCP endpoint mounted at /mcp
  pscrape serve rest   Run just the REST server
  pscrape serve mcp    Run a standalone MCP server (HTTP or stdio)`

const serveShortDesc string = "Run pscrape services"

type serveCommander struct {
	listen string
	apiKey string
	debug  bool
	logger *zap.Logger
}

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}
			return cmder.run(cmd)
		},
	}

	cmd.Flags().StringVarP(&cmder.listen, "listen", "l", "", "Address for the REST server to listen on (default from config)")
	cmd.Flags().StringVar(&cmder.apiKey, "api-key", "", "Shared secret for the X-API-Key header (default from config)")

	cmd.AddCommand(newRestCmd())
	cmd.AddCommand(newMCPCmd())

	return cmd
}

func (c *serveCommander) run(cmd *cobra.Command) error {
	c.logger = logger.NewLogger(c.debug)
	defer c.logger.Sync()

	cfg, adp, err := buildAdapter(cmd, c.logger)
	if err != nil {
		return err
	}

	mcpSrv, err := mcpserver.NewServer(mcpserver.Config{
		Adapter: adp,
		Logger:  c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}

	listen := c.listen
	if listen == "" {
		listen = cfg.API.Listen
	}
	apiKey := c.apiKey
	if apiKey == "" {
		apiKey = cfg.API.Key
	}

	server := api.NewServer(api.Config{
		ListenAddr: listen,
		APIKey:     apiKey,
	}, adp, mcpSrv.Handler(), c.logger)

	return server.Run()
}

// buildAdapter loads configuration and constructs the shared upstream
// client and adapter. Missing credentials abort startup: the service
// refuses to serve rather than degrade into guaranteed 5xx responses.
func buildAdapter(cmd *cobra.Command, log *zap.Logger) (*config.Config, *adapter.Adapter, error) {
	configDir, err := cmd.Flags().GetString("config-dir")
	if err != nil {
		return nil, nil, fmt.Errorf("could not get config-dir flag: %v", err)
	}

	cfg, err := config.Load(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	opts := []perplexity.Option{}
	if cfg.Upstream.BaseURL != "" {
		opts = append(opts, perplexity.WithBaseURL(cfg.Upstream.BaseURL))
	}

	client, err := perplexity.NewClient(perplexity.Credentials{
		SessionToken: cfg.Upstream.SessionToken,
		CFClearance:  cfg.Upstream.CFClearance,
		VisitorID:    cfg.Upstream.VisitorID,
		SessionID:    cfg.Upstream.SessionID,
		CFBM:         cfg.Upstream.CFBM,
	}, log, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("creating upstream client: %w", err)
	}

	return cfg, adapter.New(client, log), nil
}
