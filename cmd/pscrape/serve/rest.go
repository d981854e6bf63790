package servecmder

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ardzz/perplexity-scrape/api"
	"github.com/ardzz/perplexity-scrape/pkg/logger"
)

type restCommander struct {
	listen string
	apiKey string
	debug  bool
	logger *zap.Logger
}

func newRestCmd() *cobra.Command {
	cmder := &restCommander{}

	cmd := &cobra.Command{
		Use:   "rest",
		Short: "Run the OpenAI-compatible REST server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}
			return cmder.run(cmd)
		},
	}

	cmd.Flags().StringVarP(&cmder.listen, "listen", "l", "", "Address to listen on (default from config)")
	cmd.Flags().StringVar(&cmder.apiKey, "api-key", "", "Shared secret for the X-API-Key header (default from config)")

	return cmd
}

func (c *restCommander) run(cmd *cobra.Command) error {
	c.logger = logger.NewLogger(c.debug)
	defer c.logger.Sync()

	cfg, adp, err := buildAdapter(cmd, c.logger)
	if err != nil {
		return err
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
	}, adp, nil, c.logger)

	return server.Run()
}
