package main

import (
	"fmt"
	"strconv"

	"quilt/cmd/quilt/ui"
	"quilt/meshconf"

	"github.com/spf13/cobra"
)

func showCmd(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show <interface>",
		Short: "Show an interface's configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := meshconf.FromInterface(*configDir, args[0])
			if err != nil {
				return err
			}

			// The private key stays on disk; only the derived public key
			// is ever printed.
			publicKey, err := cfg.Interface.PublicKey()
			if err != nil {
				return fmt.Errorf("derive public key: %w", err)
			}

			listen := "auto"
			if cfg.Interface.ListenPort != nil {
				listen = strconv.Itoa(int(*cfg.Interface.ListenPort))
			}

			fmt.Println(ui.Bold(cfg.Interface.NetworkName))
			fmt.Print(ui.KeyValues("  ",
				ui.KV("address", cfg.Interface.Address.String()),
				ui.KV("public key", publicKey),
				ui.KV("listen port", listen),
				ui.KV("server key", cfg.Server.PublicKey),
				ui.KV("server endpoint", cfg.Server.ExternalEndpoint.String()),
				ui.KV("coordination", cfg.Server.InternalEndpoint.String()),
			))
			return nil
		},
	}
}
