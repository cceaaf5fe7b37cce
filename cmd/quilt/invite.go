package main

import (
	"bufio"
	"fmt"
	"io/fs"
	"net/netip"
	"strconv"
	"strings"

	"quilt"
	"quilt/cmd/quilt/ui"
	"quilt/meshconf"

	"github.com/spf13/cobra"
	"golang.zx2c4.com/wireguard/wgctrl/wgtypes"
)

func inviteCmd() *cobra.Command {
	var (
		address     string
		privateKey  string
		listenPort  uint16
		serverKey   string
		external    string
		internal    string
		networkCIDR string
		out         string
		modeStr     string
		noHeader    bool
	)

	cmd := &cobra.Command{
		Use:   "invite <network>",
		Short: "Write an invitation file for a new peer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if err := quilt.CheckInterfaceName(name); err != nil {
				return err
			}

			addr, err := netip.ParsePrefix(address)
			if err != nil {
				return fmt.Errorf("parse --address: %w", err)
			}
			if networkCIDR != "" {
				mesh, err := netip.ParsePrefix(networkCIDR)
				if err != nil {
					return fmt.Errorf("parse --network-cidr: %w", err)
				}
				if !mesh.Contains(addr.Addr()) {
					return fmt.Errorf("address %s is outside the mesh prefix %s", addr, mesh)
				}
			}

			if privateKey == "" {
				privateKey, err = readKeyFromStdin(cmd)
				if err != nil {
					return err
				}
			}
			if _, err := wgtypes.ParseKey(privateKey); err != nil {
				return fmt.Errorf("parse private key: %w", err)
			}
			if _, err := wgtypes.ParseKey(serverKey); err != nil {
				return fmt.Errorf("parse --server-key: %w", err)
			}

			externalEP, err := quilt.ParseEndpoint(external)
			if err != nil {
				return fmt.Errorf("parse --external: %w", err)
			}
			internalEP, err := netip.ParseAddrPort(internal)
			if err != nil {
				return fmt.Errorf("parse --internal: %w", err)
			}

			mode, err := parseMode(modeStr)
			if err != nil {
				return err
			}

			cfg := meshconf.InterfaceConfig{
				Interface: meshconf.InterfaceInfo{
					NetworkName: name,
					Address:     addr,
					PrivateKey:  privateKey,
				},
				Server: meshconf.ServerInfo{
					PublicKey:        serverKey,
					ExternalEndpoint: externalEP,
					InternalEndpoint: internalEP,
				},
			}
			if cmd.Flags().Changed("listen-port") {
				cfg.Interface.ListenPort = &listenPort
			}

			if out == "" {
				out = name + ".conf"
			}
			opts := meshconf.WriteOptions{Header: !noHeader, Mode: mode}
			if err := cfg.WriteToPath(out, opts); err != nil {
				return err
			}

			fmt.Println(ui.SuccessMsg("Invitation for %s written to %s.", ui.Bold(name), ui.Bold(out)))
			fmt.Println(ui.Muted("  Send the file to the invited peer over a secure channel."))
			return nil
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "Peer address inside the mesh prefix (CIDR)")
	cmd.Flags().StringVar(&privateKey, "private-key", "", "Peer private key (base64; read from stdin when omitted)")
	cmd.Flags().Uint16Var(&listenPort, "listen-port", 0, "Fixed listen port (system-chosen when omitted)")
	cmd.Flags().StringVar(&serverKey, "server-key", "", "Coordination server public key (base64)")
	cmd.Flags().StringVar(&external, "external", "", "Server internet endpoint host:port")
	cmd.Flags().StringVar(&internal, "internal", "", "Server in-mesh coordination endpoint ip:port")
	cmd.Flags().StringVar(&networkCIDR, "network-cidr", "", "Mesh prefix; refuses an address outside it")
	cmd.Flags().StringVar(&out, "out", "", "Output path (default <network>.conf)")
	cmd.Flags().StringVar(&modeStr, "mode", "0600", "File mode for the invitation (octal)")
	cmd.Flags().BoolVar(&noHeader, "no-header", false, "Omit the explanatory comment header")
	_ = cmd.MarkFlagRequired("address")
	_ = cmd.MarkFlagRequired("server-key")
	_ = cmd.MarkFlagRequired("external")
	_ = cmd.MarkFlagRequired("internal")

	return cmd
}

func readKeyFromStdin(cmd *cobra.Command) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), "Private key (base64): ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read private key: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func parseMode(s string) (fs.FileMode, error) {
	mode, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("parse --mode %q: %w", s, err)
	}
	return fs.FileMode(mode), nil
}
