package config

import (
	"path/filepath"
	"testing"

	"quilt"
)

func TestLoadMissingFileIsZero(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	s, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *s != (Settings{}) {
		t.Errorf("Load() = %+v, want zero settings", *s)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	want := Settings{
		ConfigDir: "/var/lib/quilt",
		Keepalive: 13,
		LogLevel:  "debug",
	}
	if err := want.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *got != want {
		t.Errorf("Load() = %+v, want %+v", *got, want)
	}
}

func TestPathRespectsXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	if got, want := Path(), filepath.Join(dir, "quilt", "config.yaml"); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestEffectiveDefaults(t *testing.T) {
	var s Settings
	if got := s.EffectiveConfigDir(); got != DefaultConfigDir {
		t.Errorf("EffectiveConfigDir() = %q, want %q", got, DefaultConfigDir)
	}
	if got := s.EffectiveKeepalive(); got != quilt.DefaultPersistentKeepalive {
		t.Errorf("EffectiveKeepalive() = %d, want %d", got, quilt.DefaultPersistentKeepalive)
	}

	s = Settings{ConfigDir: "/tmp/x", Keepalive: 9}
	if got := s.EffectiveConfigDir(); got != "/tmp/x" {
		t.Errorf("EffectiveConfigDir() = %q, want %q", got, "/tmp/x")
	}
	if got := s.EffectiveKeepalive(); got != 9 {
		t.Errorf("EffectiveKeepalive() = %d, want 9", got)
	}
}
