package cli

import (
	"github.com/spf13/cobra"

	"github.com/arrgate/arrgate/internal/config"
	"github.com/arrgate/arrgate/internal/logging"
)

var (
	cfgFile  string
	envFile  string
	logLevel string

	// loaded at init time
	paths config.Paths
	log   *logging.Logger
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "arrgate",
		Short: "arrgate — MCP gateway for media-management services",
		Long:  "arrgate exposes Sonarr, Radarr, Lidarr, Readarr, Prowlarr, Overseerr and Tautulli as MCP tools over stdio.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			paths, err = config.ResolvePaths()
			if err != nil {
				return err
			}
			if cfgFile != "" {
				paths.Config = cfgFile
			}
			if envFile == "" {
				envFile = paths.Env
			}
			if err := config.LoadEnvFile(envFile); err != nil {
				return err
			}
			level := logLevel
			if level == "" {
				level = "info"
			}
			log = logging.New(nil, level)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.arrgate/config.yaml)")
	cmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file (default ~/.arrgate/.env)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error, fatal, silent)")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}
