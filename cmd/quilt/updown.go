package main

import (
	"fmt"

	"quilt/cmd/quilt/ui"
	"quilt/internal/wgdev"
	"quilt/meshconf"

	"github.com/spf13/cobra"
)

func upCmd(configDir *string, keepalive uint16) *cobra.Command {
	return &cobra.Command{
		Use:   "up <interface>",
		Short: "Bring up the WireGuard device for an interface",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := meshconf.FromInterface(*configDir, args[0])
			if err != nil {
				return err
			}
			if err := wgdev.Apply(cfg, keepalive); err != nil {
				return err
			}
			fmt.Println(ui.SuccessMsg("Interface %s is up.", ui.Bold(args[0])))
			return nil
		},
	}
}

func downCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "down <interface>",
		Short: "Remove the WireGuard device for an interface",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := wgdev.Down(args[0]); err != nil {
				return err
			}
			fmt.Println(ui.SuccessMsg("Interface %s is down.", ui.Bold(args[0])))
			return nil
		},
	}
}
