package meshconf

import (
	"errors"
	"fmt"
	"net/netip"

	"golang.zx2c4.com/wireguard/wgctrl/wgtypes"
)

// ErrMissingMetadata is returned when a vanilla config lacks the sidecar
// fields needed to reconstruct a canonical record.
var ErrMissingMetadata = errors.New("missing quilt metadata")

// Converter maps between canonical and vanilla configs. Both directions
// produce a new value; inputs are never mutated.
type Converter interface {
	ToVanilla(InterfaceConfig) (VanillaConfig, error)
	ToCanonical(VanillaConfig) (InterfaceConfig, error)
}

// NewConverter returns the validating converter: keys must decode and
// endpoints must be well-formed before any field is copied. Use this one
// in production paths.
func NewConverter(keepalive uint16) Converter {
	return validatingConverter{copyConverter{keepalive: keepalive}}
}

// NewCopyConverter returns a converter that does plain field copies with
// no key or endpoint validation. The completeness gate on ToCanonical
// still applies; it is structural, not cryptographic.
func NewCopyConverter(keepalive uint16) Converter {
	return copyConverter{keepalive: keepalive}
}

type copyConverter struct {
	keepalive uint16
}

func (c copyConverter) ToVanilla(cfg InterfaceConfig) (VanillaConfig, error) {
	var listenPort uint16
	if cfg.Interface.ListenPort != nil {
		listenPort = *cfg.Interface.ListenPort
	}

	v := VanillaConfig{
		Interface: VanillaInterface{
			Address:    cfg.Interface.Address,
			PrivateKey: cfg.Interface.PrivateKey,
			ListenPort: listenPort,
		},
		Peer: VanillaPeer{
			PublicKey:           cfg.Server.PublicKey,
			Endpoint:            cfg.Server.ExternalEndpoint,
			AllowedIPs:          hostPrefix(cfg.Server.InternalEndpoint.Addr()).String(),
			PersistentKeepalive: c.keepalive,
		},
	}

	// Populate the sidecar eagerly: a fresh conversion is already
	// complete and exportable.
	v.SetNetworkName(cfg.Interface.NetworkName)
	v.SetInternalEndpoint(cfg.Server.InternalEndpoint)
	return v, nil
}

func (c copyConverter) ToCanonical(v VanillaConfig) (InterfaceConfig, error) {
	name, internal, err := requireSidecar(v)
	if err != nil {
		return InterfaceConfig{}, err
	}

	var listenPort *uint16
	if p := v.Interface.ListenPort; p != 0 {
		listenPort = &p
	}

	// AllowedIPs is not copied: it is derived from the internal endpoint
	// on the way out and carries no information of its own.
	return InterfaceConfig{
		Interface: InterfaceInfo{
			NetworkName: name,
			Address:     v.Interface.Address,
			PrivateKey:  v.Interface.PrivateKey,
			ListenPort:  listenPort,
		},
		Server: ServerInfo{
			PublicKey:        v.Peer.PublicKey,
			ExternalEndpoint: v.Peer.Endpoint,
			InternalEndpoint: internal,
		},
	}, nil
}

type validatingConverter struct {
	copyConverter
}

func (c validatingConverter) ToVanilla(cfg InterfaceConfig) (VanillaConfig, error) {
	if _, err := wgtypes.ParseKey(cfg.Interface.PrivateKey); err != nil {
		return VanillaConfig{}, fmt.Errorf("parse private key: %w", err)
	}
	if _, err := wgtypes.ParseKey(cfg.Server.PublicKey); err != nil {
		return VanillaConfig{}, fmt.Errorf("parse server public key: %w", err)
	}
	if !cfg.Server.ExternalEndpoint.IsValid() {
		return VanillaConfig{}, fmt.Errorf("invalid external endpoint %q", cfg.Server.ExternalEndpoint)
	}
	if !cfg.Server.InternalEndpoint.IsValid() {
		return VanillaConfig{}, fmt.Errorf("invalid internal endpoint %q", cfg.Server.InternalEndpoint)
	}
	return c.copyConverter.ToVanilla(cfg)
}

func (c validatingConverter) ToCanonical(v VanillaConfig) (InterfaceConfig, error) {
	cfg, err := c.copyConverter.ToCanonical(v)
	if err != nil {
		return InterfaceConfig{}, err
	}
	if _, err := wgtypes.ParseKey(cfg.Interface.PrivateKey); err != nil {
		return InterfaceConfig{}, fmt.Errorf("parse private key: %w", err)
	}
	if _, err := wgtypes.ParseKey(cfg.Server.PublicKey); err != nil {
		return InterfaceConfig{}, fmt.Errorf("parse server public key: %w", err)
	}
	if !cfg.Server.ExternalEndpoint.IsValid() {
		return InterfaceConfig{}, fmt.Errorf("invalid external endpoint %q", cfg.Server.ExternalEndpoint)
	}
	return cfg, nil
}

func requireSidecar(v VanillaConfig) (string, netip.AddrPort, error) {
	name, haveName := v.NetworkName()
	internal, haveInternal := v.InternalEndpoint()
	switch {
	case !haveName && !haveInternal:
		return "", netip.AddrPort{}, fmt.Errorf("%w: network_name, internal_endpoint", ErrMissingMetadata)
	case !haveName:
		return "", netip.AddrPort{}, fmt.Errorf("%w: network_name", ErrMissingMetadata)
	case !haveInternal:
		return "", netip.AddrPort{}, fmt.Errorf("%w: internal_endpoint", ErrMissingMetadata)
	}
	return name, internal, nil
}

// hostPrefix returns the full-length prefix for one address (/32 for v4,
// /128 for v6).
func hostPrefix(addr netip.Addr) netip.Prefix {
	if addr.Is6() {
		return netip.PrefixFrom(addr, 128)
	}
	return netip.PrefixFrom(addr, 32)
}
