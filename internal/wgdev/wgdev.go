// Package wgdev applies a canonical interface config to a live WireGuard
// network device. Only Linux kernel WireGuard is supported; other
// platforms get a descriptive error.
package wgdev

import (
	"fmt"
	"net"
	"net/netip"
	"time"
)

const deviceMTU = 1280

func keepaliveDuration(seconds uint16) *time.Duration {
	d := time.Duration(seconds) * time.Second
	return &d
}

func hostIPNet(addr netip.Addr) net.IPNet {
	bits := 32
	if addr.Is6() {
		bits = 128
	}
	return net.IPNet{IP: addr.AsSlice(), Mask: net.CIDRMask(bits, bits)}
}

func prefixToIPNet(pref netip.Prefix) net.IPNet {
	bits := 32
	if pref.Addr().Is6() {
		bits = 128
	}
	return net.IPNet{IP: pref.Addr().AsSlice(), Mask: net.CIDRMask(pref.Bits(), bits)}
}

func resolveEndpoint(hostport string) (*net.UDPAddr, error) {
	addr, err := net.ResolveUDPAddr("udp", hostport)
	if err != nil {
		return nil, fmt.Errorf("resolve endpoint %q: %w", hostport, err)
	}
	return addr, nil
}
