package main

import (
	"fmt"
	"os"

	"quilt/cmd/quilt/ui"
	"quilt/config"
	"quilt/internal/logging"

	"github.com/spf13/cobra"
)

func main() {
	var (
		debug     bool
		configDir string
	)

	if err := logging.Configure(logging.LevelWarn); err != nil {
		_, _ = os.Stderr.WriteString("configure logger: " + err.Error() + "\n")
		os.Exit(1)
	}

	settings, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	keepalive := settings.EffectiveKeepalive()

	root := &cobra.Command{
		Use:           "quilt",
		Short:         "Manage quilt mesh network configuration files",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := settings.LogLevel
			if debug {
				level = logging.LevelDebug
			}
			if err := logging.Configure(level); err != nil {
				return err
			}
			ui.Configure()
			return nil
		},
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&configDir, "config-dir", settings.EffectiveConfigDir(), "Directory holding interface config files")

	root.AddCommand(inviteCmd())
	root.AddCommand(installCmd(&configDir))
	root.AddCommand(exportCmd(&configDir, keepalive))
	root.AddCommand(importCmd(&configDir, keepalive))
	root.AddCommand(showCmd(&configDir))
	root.AddCommand(upCmd(&configDir, keepalive))
	root.AddCommand(downCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
