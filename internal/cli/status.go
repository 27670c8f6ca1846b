package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/arrgate/arrgate/internal/config"
	"github.com/arrgate/arrgate/internal/dispatch"
	"github.com/arrgate/arrgate/internal/guides"
	"github.com/arrgate/arrgate/internal/registry"
	"github.com/arrgate/arrgate/internal/version"
)

// statusTimeout bounds the whole connectivity self-check. The MCP dispatch
// path carries no deadline; this one exists so a hung backend cannot hang
// the terminal.
const statusTimeout = 10 * time.Second

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Probe every configured backend and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("%s\n\n", version.Info())
			fmt.Printf("Config: %s\n\n", paths.Config)

			cfg, err := config.Load(paths.Config)
			if err != nil {
				return err
			}

			reg := registry.New(cfg.Services, log)
			d := dispatch.New(reg, guides.New(cfg.Guides, log), log)

			ctx, cancel := context.WithTimeout(cmd.Context(), statusTimeout)
			defer cancel()

			result := d.Call(ctx, "status", nil)
			for _, item := range result.Content {
				fmt.Println(item.Text)
			}
			if result.IsError {
				return fmt.Errorf("status check failed")
			}
			return nil
		},
	}
}
