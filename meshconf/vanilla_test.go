package meshconf

import (
	"errors"
	"io/fs"
	"net/netip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"quilt"
)

func testVanilla(t *testing.T) VanillaConfig {
	t.Helper()
	v, err := NewConverter(quilt.DefaultPersistentKeepalive).ToVanilla(testConfig(t))
	if err != nil {
		t.Fatalf("ToVanilla() error = %v", err)
	}
	return v
}

func TestVanillaWriteToPath(t *testing.T) {
	v := testVanilla(t)
	path := filepath.Join(t.TempDir(), "test-vanilla.conf")

	if err := v.WriteToPath(path, false, 0o600); err != nil {
		t.Fatalf("WriteToPath() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	text := string(data)

	if strings.Contains(text, `"`) {
		t.Error("vanilla output contains a quote character")
	}
	for _, want := range []string{
		"# !network_name,test\n",
		"# !internal_endpoint,10.1.2.1:5555\n",
		"[Interface]\n",
		"Address = 10.1.2.8/24\n",
		"ListenPort = 0\n",
		"[Peer]\n",
		"Endpoint = 165.12.32.3:5555\n",
		"AllowedIPs = 10.1.2.1/32\n",
		"PersistentKeepalive = 25\n",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("vanilla output missing %q", want)
		}
	}

	// Sentinels precede the sections.
	if strings.Index(text, "# !network_name,") > strings.Index(text, "[Interface]") {
		t.Error("sentinel lines must come before the [Interface] section")
	}
	if strings.Index(text, "[Interface]") > strings.Index(text, "[Peer]") {
		t.Error("[Interface] section must come before [Peer]")
	}

	fi, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if got := fi.Mode().Perm(); got != 0o600 {
		t.Errorf("file mode = %04o, want 0600", got)
	}
}

func TestVanillaSentinelRoundTrip(t *testing.T) {
	v := testVanilla(t)
	path := filepath.Join(t.TempDir(), "test-vanilla.conf")

	if err := v.WriteToPath(path, false, 0o600); err != nil {
		t.Fatalf("WriteToPath() error = %v", err)
	}

	got, err := VanillaFromFile(path)
	if err != nil {
		t.Fatalf("VanillaFromFile() error = %v", err)
	}

	if got.Interface != v.Interface {
		t.Errorf("Interface = %+v, want %+v", got.Interface, v.Interface)
	}
	if got.Peer != v.Peer {
		t.Errorf("Peer = %+v, want %+v", got.Peer, v.Peer)
	}

	name, ok := got.NetworkName()
	if !ok || name != "test" {
		t.Errorf("NetworkName() = %q, %v, want %q, true", name, ok, "test")
	}
	internal, ok := got.InternalEndpoint()
	if want := netip.MustParseAddrPort("10.1.2.1:5555"); !ok || internal != want {
		t.Errorf("InternalEndpoint() = %v, %v, want %v, true", internal, ok, want)
	}
}

func TestParseVanillaWithoutSentinels(t *testing.T) {
	v := testVanilla(t)
	path := filepath.Join(t.TempDir(), "test-vanilla.conf")
	if err := v.WriteToPath(path, false, 0o600); err != nil {
		t.Fatalf("WriteToPath() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	// Strip the sentinel lines the way a foreign client rewrite would.
	var kept []string
	for _, line := range strings.SplitAfter(string(data), "\n") {
		if strings.HasPrefix(line, "# !") {
			continue
		}
		kept = append(kept, line)
	}

	got, err := ParseVanilla([]byte(strings.Join(kept, "")))
	if err != nil {
		t.Fatalf("ParseVanilla() error = %v", err)
	}
	if _, ok := got.NetworkName(); ok {
		t.Error("NetworkName() present after sentinel removal")
	}
	if _, ok := got.InternalEndpoint(); ok {
		t.Error("InternalEndpoint() present after sentinel removal")
	}
	if got.Complete() {
		t.Error("Complete() = true without sidecar fields")
	}
	if got.Interface != v.Interface {
		t.Errorf("Interface = %+v, want %+v", got.Interface, v.Interface)
	}
}

func TestParseVanillaGenericClientFile(t *testing.T) {
	// Hand-written in the loose style a human or another tool produces.
	const text = `[Interface]
PrivateKey = cD2kcCSxTWTzV7SR51BSIQyzLEC9mBkEF0IOM3bDvGw=
Address = 10.1.2.8/24

[Peer]
PublicKey = HrxiLXeD3qB4YJEUaHd8tv4nQuwRg8MXKzdEBEL3Q3A=
Endpoint = vpn.example.com:51820
AllowedIPs = 10.1.2.1/32
`
	got, err := ParseVanilla([]byte(text))
	if err != nil {
		t.Fatalf("ParseVanilla() error = %v", err)
	}
	if got.Complete() {
		t.Error("Complete() = true for a generic client file")
	}
	if got.Peer.Endpoint.Host != "vpn.example.com" {
		t.Errorf("Endpoint.Host = %q, want %q", got.Peer.Endpoint.Host, "vpn.example.com")
	}
	if got.Interface.ListenPort != 0 {
		t.Errorf("ListenPort = %d, want 0", got.Interface.ListenPort)
	}
}

func TestParseVanillaMalformedSentinelValue(t *testing.T) {
	const text = `# !network_name,test
# !internal_endpoint,not-an-addr-port
[Interface]
Address = 10.1.2.8/24
`
	got, err := ParseVanilla([]byte(text))
	if err != nil {
		t.Fatalf("ParseVanilla() error = %v", err)
	}
	if name, ok := got.NetworkName(); !ok || name != "test" {
		t.Errorf("NetworkName() = %q, %v, want %q, true", name, ok, "test")
	}
	// A malformed value degrades to absent rather than failing the parse.
	if _, ok := got.InternalEndpoint(); ok {
		t.Error("InternalEndpoint() present for malformed sentinel value")
	}
}

func TestParseVanillaSentinelSpacingVariants(t *testing.T) {
	// The "# " prefix is matched with an optional space.
	const text = `#!network_name,tight
# !internal_endpoint,10.1.2.1:5555
[Interface]
Address = 10.1.2.8/24
`
	got, err := ParseVanilla([]byte(text))
	if err != nil {
		t.Fatalf("ParseVanilla() error = %v", err)
	}
	if name, ok := got.NetworkName(); !ok || name != "tight" {
		t.Errorf("NetworkName() = %q, %v, want %q, true", name, ok, "tight")
	}
}

func TestVanillaWriteIncomplete(t *testing.T) {
	v := testVanilla(t)
	v.networkName = ""
	path := filepath.Join(t.TempDir(), "test-vanilla.conf")

	err := v.WriteToPath(path, false, 0o600)
	if !errors.Is(err, ErrMissingMetadata) {
		t.Fatalf("WriteToPath() error = %v, want ErrMissingMetadata", err)
	}

	// The write failed before any byte reached disk.
	if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("stat after failed write = %v, want fs.ErrNotExist", err)
	}
}

func TestVanillaWriteTruncateSemantics(t *testing.T) {
	v := testVanilla(t)
	path := filepath.Join(t.TempDir(), "test-vanilla.conf")

	if err := v.WriteToPath(path, false, 0o600); err != nil {
		t.Fatalf("exclusive WriteToPath() error = %v", err)
	}

	// Without truncate, an existing export is an error.
	if err := v.WriteToPath(path, false, 0o600); !errors.Is(err, fs.ErrExist) {
		t.Fatalf("second exclusive WriteToPath() error = %v, want fs.ErrExist", err)
	}

	// With truncate, the second write fully replaces the first.
	v2 := v
	v2.SetNetworkName("other")
	if err := v2.WriteToPath(path, true, 0o600); err != nil {
		t.Fatalf("truncating WriteToPath() error = %v", err)
	}

	got, err := VanillaFromFile(path)
	if err != nil {
		t.Fatalf("VanillaFromFile() error = %v", err)
	}
	if name, _ := got.NetworkName(); name != "other" {
		t.Errorf("NetworkName() after truncate = %q, want %q", name, "other")
	}
	if data, _ := os.ReadFile(path); strings.Contains(string(data), "!network_name,test\n") {
		t.Error("truncated file still contains the first write's sentinel")
	}
}

func TestVanillaFromFileMissing(t *testing.T) {
	_, err := VanillaFromFile(filepath.Join(t.TempDir(), "nope.conf"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("VanillaFromFile() error = %v, want fs.ErrNotExist", err)
	}
}
