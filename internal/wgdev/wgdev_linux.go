//go:build linux

package wgdev

import (
	"errors"
	"fmt"
	"net"

	"quilt/internal/check"
	"quilt/meshconf"

	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"
	"golang.zx2c4.com/wireguard/wgctrl"
	"golang.zx2c4.com/wireguard/wgctrl/wgtypes"
)

// Apply brings up the interface described by cfg: it ensures the link
// exists, configures the device key and listen port, sets the single
// coordination-server peer, assigns the peer address, and raises the link.
func Apply(cfg *meshconf.InterfaceConfig, keepalive uint16) error {
	check.Assert(cfg != nil, "nil interface config")

	iface := cfg.Interface.NetworkName
	link, err := ensureLink(iface, deviceMTU)
	if err != nil {
		return err
	}

	privateKey, err := wgtypes.ParseKey(cfg.Interface.PrivateKey)
	if err != nil {
		return fmt.Errorf("parse private key: %w", err)
	}
	serverKey, err := wgtypes.ParseKey(cfg.Server.PublicKey)
	if err != nil {
		return fmt.Errorf("parse server public key: %w", err)
	}

	peer := wgtypes.PeerConfig{
		PublicKey:                   serverKey,
		ReplaceAllowedIPs:           true,
		AllowedIPs:                  []net.IPNet{hostIPNet(cfg.Server.InternalEndpoint.Addr())},
		PersistentKeepaliveInterval: keepaliveDuration(keepalive),
	}
	if endpoint, err := resolveEndpoint(cfg.Server.ExternalEndpoint.String()); err == nil {
		peer.Endpoint = endpoint
	}

	wgCfg := wgtypes.Config{
		PrivateKey:   &privateKey,
		ReplacePeers: true,
		Peers:        []wgtypes.PeerConfig{peer},
	}
	if cfg.Interface.ListenPort != nil {
		port := int(*cfg.Interface.ListenPort)
		wgCfg.ListenPort = &port
	}

	wg, err := wgctrl.New()
	if err != nil {
		return fmt.Errorf("create wireguard client: %w", err)
	}
	defer wg.Close()

	if err := wg.ConfigureDevice(iface, wgCfg); err != nil {
		return fmt.Errorf("configure wireguard device: %w", err)
	}

	ipnet := prefixToIPNet(cfg.Interface.Address)
	addr := &netlink.Addr{IPNet: &ipnet}
	if err := netlink.AddrAdd(link, addr); err != nil && !errors.Is(err, unix.EEXIST) {
		return fmt.Errorf("set wireguard address %s: %w", cfg.Interface.Address, err)
	}

	if link.Attrs().Flags&unix.IFF_UP == 0 {
		if err := netlink.LinkSetUp(link); err != nil {
			return fmt.Errorf("set wireguard interface up: %w", err)
		}
	}

	return nil
}

// Down removes the interface. A missing link is not an error.
func Down(iface string) error {
	link, err := netlink.LinkByName(iface)
	if err != nil {
		if _, ok := err.(netlink.LinkNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("find wireguard interface %q: %w", iface, err)
	}
	if err := netlink.LinkDel(link); err != nil {
		return fmt.Errorf("delete wireguard interface %q: %w", iface, err)
	}
	return nil
}

func ensureLink(iface string, mtu int) (netlink.Link, error) {
	link, err := netlink.LinkByName(iface)
	if err != nil {
		if _, ok := err.(netlink.LinkNotFoundError); !ok {
			return nil, fmt.Errorf("find wireguard interface %q: %w", iface, err)
		}
		link = &netlink.GenericLink{LinkAttrs: netlink.LinkAttrs{Name: iface}, LinkType: "wireguard"}
		if err := netlink.LinkAdd(link); err != nil {
			return nil, fmt.Errorf("create wireguard interface %q: %w", iface, err)
		}
		link, err = netlink.LinkByName(iface)
		if err != nil {
			return nil, fmt.Errorf("refetch wireguard interface %q: %w", iface, err)
		}
	}
	if link.Attrs().MTU != mtu {
		if err := netlink.LinkSetMTU(link, mtu); err != nil {
			return nil, fmt.Errorf("set wireguard mtu on %q: %w", iface, err)
		}
	}
	return link, nil
}
