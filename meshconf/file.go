package meshconf

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"quilt/internal/fsutil"

	"github.com/BurntSushi/toml"
)

const configFileExt = ".conf"

const invitationHeader = `# This is an invitation file to a quilt network.
#
# To join, you must install quilt.
# See https://github.com/getquilt/quilt for instructions.
#
# If you have quilt, just run:
#
#   quilt install <this file>
#
# Don't edit the contents below unless you love chaos and dysfunction.
`

// WriteOptions controls how a canonical config file is written.
type WriteOptions struct {
	// Header prepends the invitation comment block.
	Header bool

	// Mode, when non-zero, is applied to the file before any content is
	// written.
	Mode fs.FileMode
}

// Path returns the canonical config file location for an interface.
func Path(configDir, iface string) string {
	return filepath.Join(configDir, iface+configFileExt)
}

// WriteTo writes the serialized config to an open file. The permission
// mode, when requested, is applied before the first content byte.
func (c *InterfaceConfig) WriteTo(f *os.File, opts WriteOptions) error {
	if opts.Mode != 0 {
		if err := fsutil.Chmod(f, opts.Mode); err != nil {
			return err
		}
	}

	if opts.Header {
		if _, err := io.WriteString(f, invitationHeader); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	enc := toml.NewEncoder(f)
	enc.Indent = ""
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// WriteToPath creates path exclusively and writes the config to it.
// An existing file is an error: invitation files are never silently
// overwritten. The underlying fs.ErrExist survives for errors.Is.
func (c *InterfaceConfig) WriteToPath(path string, opts WriteOptions) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("create %q: %w", path, err)
	}
	defer f.Close()

	if err := c.WriteTo(f, opts); err != nil {
		return fmt.Errorf("write %q: %w", path, err)
	}
	return nil
}

// WriteToInterface (re)creates the interface's own persistent config
// file under configDir, overwriting any previous content, and returns
// the path written. No header is included.
func (c *InterfaceConfig) WriteToInterface(configDir, iface string) (string, error) {
	if err := fsutil.EnsureDir(configDir); err != nil {
		return "", err
	}

	path := Path(configDir, iface)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return "", fmt.Errorf("create %q: %w", path, err)
	}
	defer f.Close()

	if err := c.WriteTo(f, WriteOptions{Mode: 0o600}); err != nil {
		return "", fmt.Errorf("write %q: %w", path, err)
	}
	return path, nil
}

// FromFile reads and deserializes a canonical config file.
func FromFile(path string) (*InterfaceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}

	var cfg InterfaceConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}
	return &cfg, nil
}

// FromInterface reads the interface's persistent config file from
// configDir, warning first if its permissions expose the private key.
func FromInterface(configDir, iface string) (*InterfaceConfig, error) {
	path := Path(configDir, iface)
	fsutil.WarnOnWorldAccessible(path)
	return FromFile(path)
}
