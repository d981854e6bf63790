package servecmder

import (
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	mcpserver "github.com/ardzz/perplexity-scrape/api/mcp"
	"github.com/ardzz/perplexity-scrape/pkg/logger"
)

type mcpCommander struct {
	listen string
	stdio  bool
	debug  bool
	logger *zap.Logger
}

func newMCPCmd() *cobra.Command {
	cmder := &mcpCommander{}

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run a standalone MCP server",
		Long: `Run a standalone MCP server.

By default serves the streamable HTTP transport on the configured
address. With --stdio, speaks the MCP protocol over stdin/stdout for
use as a local subprocess server (logs go to stderr).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}
			return cmder.run(cmd)
		},
	}

	cmd.Flags().StringVarP(&cmder.listen, "listen", "l", "", "Address to listen on for HTTP transport (default from config)")
	cmd.Flags().BoolVar(&cmder.stdio, "stdio", false, "Serve over stdin/stdout instead of HTTP")

	return cmd
}

func (c *mcpCommander) run(cmd *cobra.Command) error {
	c.logger = logger.NewLogger(c.debug)
	defer c.logger.Sync()

	cfg, adp, err := buildAdapter(cmd, c.logger)
	if err != nil {
		return err
	}

	server, err := mcpserver.NewServer(mcpserver.Config{
		Adapter: adp,
		Logger:  c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}

	if c.stdio {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		c.logger.Info("serving MCP over stdio")
		return server.RunStdio(ctx)
	}

	listen := c.listen
	if listen == "" {
		listen = cfg.MCP.Listen
	}
	c.logger.Info("starting MCP server", zap.String("listen", listen))
	return http.ListenAndServe(listen, server.Handler())
}
