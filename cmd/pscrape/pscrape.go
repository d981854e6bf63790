// Package pscrapecmder provides the root pscrape command.
package pscrapecmder

import (
	servecmder "github.com/ardzz/perplexity-scrape/cmd/pscrape/serve"
	"github.com/spf13/cobra"
)

const pscrapeLongDesc string = `pscrape exposes Perplexity search through standard interfaces.

Run services using:
  pscrape serve        Run the OpenAI-compatible REST server with MCP mounted at /mcp
  pscrape serve rest   Run just the REST server
  pscrape serve mcp    Run a standalone MCP server (HTTP or stdio)`

const pscrapeShortDesc string = "pscrape - OpenAI-compatible and MCP gateway for Perplexity"

func NewPscrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pscrape",
		Short: pscrapeShortDesc,
		Long:  pscrapeLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Directory containing config.toml (default: ~/.pscrape, then cwd)")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())

	return cmd
}
