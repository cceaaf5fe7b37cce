package meshconf

import (
	"bytes"
	"fmt"
	"io/fs"
	"log/slog"
	"net/netip"
	"os"
	"regexp"
	"strconv"
	"strings"

	"quilt"
	"quilt/internal/fsutil"

	"github.com/BurntSushi/toml"
	"gopkg.in/ini.v1"
)

// The vanilla format has no schema extension point, so the two sidecar
// fields travel as sentinel comment lines ahead of the sections. Each
// pattern is anchored per line and matched independently; a file from an
// unmodified client simply has no matches.
var (
	networkNamePattern      = regexp.MustCompile(`(?m)^#\s?!network_name,(.*)$`)
	internalEndpointPattern = regexp.MustCompile(`(?m)^#\s?!internal_endpoint,(.*)$`)
)

const exportHeader = `# This is a WireGuard configuration exported from a quilt network.
#
# Any WireGuard client can import it, but the peer only reaches the
# network's coordination server until quilt manages the interface.
#
# The two "!" comment lines below carry quilt metadata. Keep them if you
# ever want to re-import this file with "quilt import".
`

// WriteTo writes the vanilla config to an open file: header, sentinel
// lines, then the [Interface]/[Peer] sections. It fails before any byte
// is written when the sidecar is incomplete, since the resulting file
// could never be re-imported as a mesh peer.
func (v *VanillaConfig) WriteTo(f *os.File, mode fs.FileMode) error {
	body, err := v.render()
	if err != nil {
		return err
	}

	if mode != 0 {
		if err := fsutil.Chmod(f, mode); err != nil {
			return err
		}
	}

	if _, err := f.Write(body); err != nil {
		return fmt.Errorf("write vanilla config: %w", err)
	}
	return nil
}

// WriteToPath writes the vanilla config to path. With truncate, an
// existing file is overwritten; without it, creation is exclusive and an
// existing file is an error (fs.ErrExist survives for errors.Is).
func (v *VanillaConfig) WriteToPath(path string, truncate bool, mode fs.FileMode) error {
	// Validate before opening so a failed write leaves no file behind.
	body, err := v.render()
	if err != nil {
		return err
	}

	flags := os.O_CREATE | os.O_WRONLY
	if truncate {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_EXCL
	}

	f, err := os.OpenFile(path, flags, 0o600)
	if err != nil {
		return fmt.Errorf("create %q: %w", path, err)
	}
	defer f.Close()

	if mode != 0 {
		if err := fsutil.Chmod(f, mode); err != nil {
			return err
		}
	}

	if _, err := f.Write(body); err != nil {
		return fmt.Errorf("write %q: %w", path, err)
	}
	return nil
}

func (v *VanillaConfig) render() ([]byte, error) {
	if !v.Complete() {
		_, _, err := requireSidecar(*v)
		return nil, fmt.Errorf("render vanilla config: %w", err)
	}

	var sections bytes.Buffer
	enc := toml.NewEncoder(&sections)
	enc.Indent = ""
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode vanilla config: %w", err)
	}

	var out bytes.Buffer
	out.WriteString(exportHeader)
	fmt.Fprintf(&out, "# !network_name,%s\n", v.networkName)
	fmt.Fprintf(&out, "# !internal_endpoint,%s\n", v.internalEndpoint)

	// The TOML encoder quotes every string, and the INI dialect real
	// WireGuard clients parse cannot carry quotes. Stripping them
	// wholesale is safe: no legitimate field value contains one.
	out.WriteString(strings.ReplaceAll(sections.String(), `"`, ""))
	return out.Bytes(), nil
}

// ParseVanilla parses vanilla config text. The sidecar pass and the
// section pass are independent: missing or malformed sentinel lines
// yield absent sidecar fields, never a parse failure, so files written
// by unmodified clients or edited by hand still load.
func ParseVanilla(data []byte) (*VanillaConfig, error) {
	src, err := ini.Load(data)
	if err != nil {
		return nil, fmt.Errorf("parse sections: %w", err)
	}

	var v VanillaConfig

	isec := src.Section("Interface")
	v.Interface.PrivateKey = isec.Key("PrivateKey").String()
	if s := isec.Key("Address").String(); s != "" {
		prefix, err := netip.ParsePrefix(s)
		if err != nil {
			return nil, fmt.Errorf("parse Address %q: %w", s, err)
		}
		v.Interface.Address = prefix
	}
	if s := isec.Key("ListenPort").String(); s != "" {
		port, err := strconv.ParseUint(s, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("parse ListenPort %q: %w", s, err)
		}
		v.Interface.ListenPort = uint16(port)
	}

	psec := src.Section("Peer")
	v.Peer.PublicKey = psec.Key("PublicKey").String()
	v.Peer.AllowedIPs = psec.Key("AllowedIPs").String()
	if s := psec.Key("Endpoint").String(); s != "" {
		ep, err := quilt.ParseEndpoint(s)
		if err != nil {
			return nil, fmt.Errorf("parse Endpoint: %w", err)
		}
		v.Peer.Endpoint = ep
	}
	if s := psec.Key("PersistentKeepalive").String(); s != "" {
		keepalive, err := strconv.ParseUint(s, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("parse PersistentKeepalive %q: %w", s, err)
		}
		v.Peer.PersistentKeepalive = uint16(keepalive)
	}

	if m := networkNamePattern.FindSubmatch(data); m != nil {
		v.networkName = string(m[1])
	}
	if m := internalEndpointPattern.FindSubmatch(data); m != nil {
		ep, err := netip.ParseAddrPort(string(m[1]))
		if err != nil {
			// Tolerated as absent for compatibility with hand-edited
			// files, but loudly: this can hide genuine corruption.
			slog.Warn("ignoring malformed internal_endpoint sentinel",
				"value", string(m[1]), "error", err)
		} else {
			v.internalEndpoint = ep
		}
	}

	return &v, nil
}

// VanillaFromFile reads and parses a vanilla config file.
func VanillaFromFile(path string) (*VanillaConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vanilla config %q: %w", path, err)
	}
	v, err := ParseVanilla(data)
	if err != nil {
		return nil, fmt.Errorf("parse vanilla config %q: %w", path, err)
	}
	return v, nil
}
