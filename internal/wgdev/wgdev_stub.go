//go:build !linux

package wgdev

import (
	"fmt"
	"runtime"

	"quilt/meshconf"
)

// Apply is unsupported off Linux.
func Apply(_ *meshconf.InterfaceConfig, _ uint16) error {
	return fmt.Errorf("wireguard device management not supported on %s", runtime.GOOS)
}

// Down is a no-op on unsupported platforms.
func Down(_ string) error { return nil }
