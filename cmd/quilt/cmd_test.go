package main

import "testing"

func TestInviteCmdShape(t *testing.T) {
	cmd := inviteCmd()
	if cmd.Use != "invite <network>" {
		t.Fatalf("unexpected use: %q", cmd.Use)
	}

	if err := cmd.Args(cmd, []string{"a", "b"}); err == nil {
		t.Fatal("expected args validation error for too many args")
	}

	flags := []string{
		"address",
		"private-key",
		"listen-port",
		"server-key",
		"external",
		"internal",
		"network-cidr",
		"out",
		"mode",
		"no-header",
	}
	for _, name := range flags {
		if cmd.Flags().Lookup(name) == nil {
			t.Fatalf("missing flag %q", name)
		}
	}
}

func TestExportCmdShape(t *testing.T) {
	dir := "/etc/quilt"
	cmd := exportCmd(&dir, 25)
	if cmd.Use != "export <interface>" {
		t.Fatalf("unexpected use: %q", cmd.Use)
	}

	for _, name := range []string{"out", "force", "mode", "qr"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Fatalf("missing flag %q", name)
		}
	}
}

func TestImportCmdShape(t *testing.T) {
	dir := "/etc/quilt"
	cmd := importCmd(&dir, 25)
	if cmd.Flags().Lookup("name") == nil {
		t.Fatal("missing flag \"name\"")
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input string
		want  uint32
		ok    bool
	}{
		{"0600", 0o600, true},
		{"600", 0o600, true},
		{"0640", 0o640, true},
		{"abc", 0, false},
		{"0999", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseMode(tt.input)
			if tt.ok != (err == nil) {
				t.Fatalf("parseMode(%q) error = %v, want ok = %v", tt.input, err, tt.ok)
			}
			if tt.ok && uint32(got) != tt.want {
				t.Errorf("parseMode(%q) = %04o, want %04o", tt.input, got, tt.want)
			}
		})
	}
}
