package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/arrgate/arrgate/internal/config"
	"github.com/arrgate/arrgate/internal/dispatch"
	"github.com/arrgate/arrgate/internal/guides"
	"github.com/arrgate/arrgate/internal/logging"
	"github.com/arrgate/arrgate/internal/mcp"
	"github.com/arrgate/arrgate/internal/registry"
	"github.com/arrgate/arrgate/internal/version"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdin/stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(paths.Config)
			if err != nil {
				return err
			}
			if err := config.Validate(&cfg); err != nil {
				return err
			}

			// Stdout belongs to the MCP wire, so logs go to a file when
			// one is configured, stderr otherwise.
			if cfg.Logging.File != "" {
				log = logging.NewFile(cfg.Logging.File, cfg.Logging.Level)
			} else if logLevel == "" {
				log = logging.New(nil, cfg.Logging.Level)
			}

			reg := registry.New(cfg.Services, log)
			g := guides.New(cfg.Guides, log)
			d := dispatch.New(reg, g, log)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := mcp.NewServer("arrgate", version.Version, d, nil, nil, log)
			log.Info().Int("services", len(reg.Configured())).Msg("starting MCP server")
			return srv.Run(ctx)
		},
	}
}
