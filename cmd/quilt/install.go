package main

import (
	"fmt"
	"os"

	"quilt"
	"quilt/cmd/quilt/ui"
	"quilt/meshconf"

	"github.com/spf13/cobra"
)

func installCmd(configDir *string) *cobra.Command {
	var deleteInvite bool

	cmd := &cobra.Command{
		Use:   "install <invitation-file>",
		Short: "Install an invitation as this peer's interface config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := meshconf.FromFile(args[0])
			if err != nil {
				return err
			}

			name := cfg.Interface.NetworkName
			if err := quilt.CheckInterfaceName(name); err != nil {
				return err
			}

			path, err := cfg.WriteToInterface(*configDir, name)
			if err != nil {
				return err
			}

			if deleteInvite {
				if err := os.Remove(args[0]); err != nil {
					fmt.Println(ui.WarnMsg("Installed, but could not delete the invitation: %v", err))
				}
			}

			fmt.Println(ui.SuccessMsg("Network %s installed to %s.", ui.Bold(name), ui.Bold(path)))
			fmt.Println(ui.Muted(fmt.Sprintf("  Bring it up with: quilt up %s", name)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&deleteInvite, "delete-invite", false, "Delete the invitation file after a successful install")

	return cmd
}
