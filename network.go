package quilt

import (
	"fmt"
	"strings"
)

// DefaultPersistentKeepalive is the network-wide keepalive interval, in
// seconds, stamped on every exported vanilla peer. Converters take the
// interval as a parameter so tests can use a different value.
const DefaultPersistentKeepalive uint16 = 25

// maxInterfaceNameLength is IFNAMSIZ minus the trailing NUL.
const maxInterfaceNameLength = 15

// CheckInterfaceName validates a network name for use as both a WireGuard
// device name and a config file name stem.
func CheckInterfaceName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("interface name is empty")
	case name == "." || name == "..":
		return fmt.Errorf("interface name %q is reserved", name)
	case len(name) > maxInterfaceNameLength:
		return fmt.Errorf("interface name %q exceeds %d bytes", name, maxInterfaceNameLength)
	case strings.ContainsAny(name, "/\\ \t\n"):
		return fmt.Errorf("interface name %q contains path separators or whitespace", name)
	}
	return nil
}
