package quilt

import (
	"fmt"
	"net"
	"net/netip"
	"strconv"
)

// Endpoint is a reachable "host:port" address. The host may be a DNS name
// or an IP literal; the external endpoint handed to invited peers is often
// hostname-based, so a plain netip.AddrPort cannot represent it.
type Endpoint struct {
	Host string
	Port uint16
}

// ParseEndpoint parses "host:port". IPv6 literal hosts must be bracketed.
func ParseEndpoint(s string) (Endpoint, error) {
	host, portStr, err := net.SplitHostPort(s)
	if err != nil {
		return Endpoint{}, fmt.Errorf("parse endpoint %q: %w", s, err)
	}
	if host == "" {
		return Endpoint{}, fmt.Errorf("parse endpoint %q: empty host", s)
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil || port == 0 {
		return Endpoint{}, fmt.Errorf("parse endpoint %q: invalid port %q", s, portStr)
	}
	return Endpoint{Host: host, Port: uint16(port)}, nil
}

// IsValid reports whether the endpoint carries both a host and a port.
func (e Endpoint) IsValid() bool {
	return e.Host != "" && e.Port != 0
}

// String renders "host:port", re-bracketing IPv6 literal hosts.
func (e Endpoint) String() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(int(e.Port)))
}

// AddrPort returns the numeric view of the endpoint. The bool is false
// when the host is a DNS name rather than an IP literal.
func (e Endpoint) AddrPort() (netip.AddrPort, bool) {
	addr, err := netip.ParseAddr(e.Host)
	if err != nil {
		return netip.AddrPort{}, false
	}
	return netip.AddrPortFrom(addr, e.Port), true
}

// MarshalText implements encoding.TextMarshaler so the endpoint
// serializes as a plain "host:port" string.
func (e Endpoint) MarshalText() ([]byte, error) {
	if !e.IsValid() {
		return nil, fmt.Errorf("marshal endpoint: zero value")
	}
	return []byte(e.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *Endpoint) UnmarshalText(text []byte) error {
	parsed, err := ParseEndpoint(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}
