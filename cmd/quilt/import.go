package main

import (
	"fmt"

	"quilt"
	"quilt/cmd/quilt/ui"
	"quilt/meshconf"

	"github.com/spf13/cobra"
)

func importCmd(configDir *string, keepalive uint16) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "import <vanilla-file>",
		Short: "Import a previously exported vanilla config",
		Long: `Import a previously exported vanilla config.

The file must still carry the two quilt metadata comment lines written by
"quilt export"; a config from an unrelated WireGuard setup has no network
identity to import.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vanilla, err := meshconf.VanillaFromFile(args[0])
			if err != nil {
				return err
			}
			if name != "" {
				vanilla.SetNetworkName(name)
			}

			cfg, err := meshconf.NewConverter(keepalive).ToCanonical(*vanilla)
			if err != nil {
				return err
			}
			if err := quilt.CheckInterfaceName(cfg.Interface.NetworkName); err != nil {
				return err
			}

			path, err := cfg.WriteToInterface(*configDir, cfg.Interface.NetworkName)
			if err != nil {
				return err
			}

			fmt.Println(ui.SuccessMsg("Network %s imported to %s.", ui.Bold(cfg.Interface.NetworkName), ui.Bold(path)))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Override the network name recorded in the file")

	return cmd
}
