package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arrgate/arrgate/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect arrgate configuration",
	}
	cmd.AddCommand(newConfigShowCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration with credentials redacted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(paths.Config)
			if err != nil {
				return err
			}

			fmt.Printf("logging: level=%s", cfg.Logging.Level)
			if cfg.Logging.File != "" {
				fmt.Printf(" file=%s", cfg.Logging.File)
			}
			fmt.Println()

			services := map[string]config.ServiceConfig{
				"sonarr":    cfg.Services.Sonarr,
				"radarr":    cfg.Services.Radarr,
				"lidarr":    cfg.Services.Lidarr,
				"readarr":   cfg.Services.Readarr,
				"prowlarr":  cfg.Services.Prowlarr,
				"overseerr": cfg.Services.Overseerr,
				"tautulli":  cfg.Services.Tautulli,
			}
			for _, name := range []string{"sonarr", "radarr", "lidarr", "readarr", "prowlarr", "overseerr", "tautulli"} {
				sc := services[name]
				if !sc.Configured() {
					fmt.Printf("%-10s not configured\n", name)
					continue
				}
				fmt.Printf("%-10s url=%s apiKey=%s\n", name, sc.URL, redact(sc.APIKey))
			}
			return nil
		},
	}
}

// redact keeps enough of a key to recognize it without exposing it.
func redact(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return key[:4] + "****"
}
