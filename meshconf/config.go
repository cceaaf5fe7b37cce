// Package meshconf translates between a quilt peer's canonical
// configuration record and the vanilla format understood by generic
// WireGuard clients, and persists both to disk.
//
// The canonical record carries mesh identity (network name, internal
// coordination endpoint) that the vanilla format has no field for; those
// two values travel through vanilla files as sentinel comment lines so a
// round trip through a foreign client stays lossless.
package meshconf

import (
	"fmt"
	"net/netip"

	"quilt"

	"golang.zx2c4.com/wireguard/wgctrl/wgtypes"
)

// InterfaceInfo is what a peer needs to bring up its own interface.
type InterfaceInfo struct {
	// NetworkName doubles as the device name and the config file stem.
	NetworkName string `toml:"network-name"`

	// Address is the peer's allocated address inside the mesh prefix.
	Address netip.Prefix `toml:"address"`

	// PrivateKey is the peer's WireGuard private key (base64).
	PrivateKey string `toml:"private-key"`

	// ListenPort is the local listen port. Nil lets the system choose.
	ListenPort *uint16 `toml:"listen-port,omitempty"`
}

// PublicKey derives the base64 public key from the private key.
func (i *InterfaceInfo) PublicKey() (string, error) {
	key, err := wgtypes.ParseKey(i.PrivateKey)
	if err != nil {
		return "", fmt.Errorf("parse private key: %w", err)
	}
	return key.PublicKey().String(), nil
}

// ServerInfo is the contact material for the network's coordination server.
type ServerInfo struct {
	// PublicKey is the server's WireGuard public key (base64).
	PublicKey string `toml:"public-key"`

	// ExternalEndpoint is the internet-reachable endpoint, possibly
	// hostname-based.
	ExternalEndpoint quilt.Endpoint `toml:"external-endpoint"`

	// InternalEndpoint hosts the coordination API, reachable only inside
	// the mesh.
	InternalEndpoint netip.AddrPort `toml:"internal-endpoint"`
}

// InterfaceConfig is the canonical record of one peer's join material:
// the unit of persistence for invitation and interface files. Files are
// create-only; a written config is never edited by this package.
type InterfaceConfig struct {
	Interface InterfaceInfo `toml:"interface"`
	Server    ServerInfo    `toml:"server"`
}

// VanillaInterface mirrors the [Interface] section of a generic
// WireGuard client config.
type VanillaInterface struct {
	Address    netip.Prefix `toml:"Address"`
	PrivateKey string       `toml:"PrivateKey"`

	// ListenPort is 0 when unspecified, never nil; the vanilla format has
	// no way to express absence.
	ListenPort uint16 `toml:"ListenPort"`
}

// VanillaPeer mirrors the [Peer] section of a generic WireGuard client
// config, describing the coordination server.
type VanillaPeer struct {
	PublicKey string         `toml:"PublicKey"`
	Endpoint  quilt.Endpoint `toml:"Endpoint"`

	// AllowedIPs is the host-only CIDR of the coordination endpoint, not
	// the mesh prefix: an exported client reaches exactly the server
	// until the dynamic peer list extends its routes.
	AllowedIPs string `toml:"AllowedIPs"`

	PersistentKeepalive uint16 `toml:"PersistentKeepalive"`
}

// VanillaConfig is a config for a generic WireGuard client. The two
// unexported sidecar fields carry the mesh identity the vanilla format
// cannot express; they ride along as sentinel comment lines (see
// ParseVanilla and WriteTo) and never appear in the serialized sections.
type VanillaConfig struct {
	Interface VanillaInterface `toml:"Interface"`
	Peer      VanillaPeer      `toml:"Peer"`

	networkName      string
	internalEndpoint netip.AddrPort
}

// SetNetworkName sets the sidecar network name.
func (v *VanillaConfig) SetNetworkName(name string) {
	v.networkName = name
}

// SetInternalEndpoint sets the sidecar coordination endpoint.
func (v *VanillaConfig) SetInternalEndpoint(ep netip.AddrPort) {
	v.internalEndpoint = ep
}

// NetworkName returns the sidecar network name. The bool is false when
// the field is absent.
func (v VanillaConfig) NetworkName() (string, bool) {
	return v.networkName, v.networkName != ""
}

// InternalEndpoint returns the sidecar coordination endpoint. The bool
// is false when the field is absent.
func (v VanillaConfig) InternalEndpoint() (netip.AddrPort, bool) {
	return v.internalEndpoint, v.internalEndpoint.IsValid()
}

// Complete reports whether both sidecar fields are present. Only a
// complete config can be converted back to an InterfaceConfig or
// exported as a re-importable file.
func (v VanillaConfig) Complete() bool {
	return v.networkName != "" && v.internalEndpoint.IsValid()
}
