package main

import (
	"fmt"
	"os"

	"quilt/cmd/quilt/ui"
	"quilt/meshconf"

	"github.com/spf13/cobra"
	"github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"
)

func exportCmd(configDir *string, keepalive uint16) *cobra.Command {
	var (
		out     string
		force   bool
		modeStr string
		qrPath  string
	)

	cmd := &cobra.Command{
		Use:   "export <interface>",
		Short: "Export an interface as a vanilla WireGuard config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			iface := args[0]

			cfg, err := meshconf.FromInterface(*configDir, iface)
			if err != nil {
				return err
			}

			vanilla, err := meshconf.NewConverter(keepalive).ToVanilla(*cfg)
			if err != nil {
				return err
			}

			mode, err := parseMode(modeStr)
			if err != nil {
				return err
			}
			if out == "" {
				out = iface + "-vanilla.conf"
			}
			if err := vanilla.WriteToPath(out, force, mode); err != nil {
				return err
			}
			fmt.Println(ui.SuccessMsg("Vanilla config written to %s.", ui.Bold(out)))

			if qrPath != "" {
				if err := writeQR(out, qrPath); err != nil {
					return err
				}
				fmt.Println(ui.SuccessMsg("QR code written to %s.", ui.Bold(qrPath)))
			}

			fmt.Println(ui.Muted("  The exported peer reaches only the coordination server until the mesh extends its routes."))
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Output path (default <interface>-vanilla.conf)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing export")
	cmd.Flags().StringVar(&modeStr, "mode", "0600", "File mode for the export (octal)")
	cmd.Flags().StringVar(&qrPath, "qr", "", "Also render the config as a QR code PNG at this path")

	return cmd
}

// writeQR renders the exported config text as a scannable QR image, the
// usual way phone clients ingest a config.
func writeQR(confPath, qrPath string) error {
	data, err := os.ReadFile(confPath)
	if err != nil {
		return fmt.Errorf("read exported config %q: %w", confPath, err)
	}

	qrc, err := qrcode.New(string(data))
	if err != nil {
		return fmt.Errorf("build QR code: %w", err)
	}
	w, err := standard.New(qrPath)
	if err != nil {
		return fmt.Errorf("create QR writer %q: %w", qrPath, err)
	}
	if err := qrc.Save(w); err != nil {
		return fmt.Errorf("write QR code %q: %w", qrPath, err)
	}
	return nil
}
