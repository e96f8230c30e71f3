package config_test

import (
	"bytes"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"plannerd/internal/config"
)

func TestNewConfig_Defaults(t *testing.T) {
	t.Parallel()
	cfg := config.NewConfig("/base")

	if cfg.ListenAddr != ":8000" {
		t.Errorf("ListenAddr = %q, want :8000", cfg.ListenAddr)
	}
	if cfg.DataDir != filepath.Join("/base", "data") {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.Snapshots.Type != "filesystem" {
		t.Errorf("Snapshots.Type = %q, want filesystem", cfg.Snapshots.Type)
	}
	if cfg.Journal.Type != "sqlite" {
		t.Errorf("Journal.Type = %q, want sqlite", cfg.Journal.Type)
	}
	if cfg.Mirror.Type != "" {
		t.Errorf("Mirror.Type = %q, want disabled", cfg.Mirror.Type)
	}
	if cfg.Encryption.Type != "none" {
		t.Errorf("Encryption.Type = %q, want none", cfg.Encryption.Type)
	}
	if len(cfg.CORSOrigins) == 0 {
		t.Error("CORSOrigins is empty")
	}
}

func TestConfig_EffectiveDirs(t *testing.T) {
	t.Parallel()
	cfg := config.NewConfig("/base")

	if got := cfg.SnapshotDir(); got != filepath.Join("/base", "data", "backups") {
		t.Errorf("SnapshotDir() = %q", got)
	}
	if got := cfg.JournalDir(); got != filepath.Join("/base", "data") {
		t.Errorf("JournalDir() = %q", got)
	}

	cfg.Snapshots.Dir = "/elsewhere/snaps"
	cfg.Journal.DataDir = "/elsewhere/journal"
	if got := cfg.SnapshotDir(); got != "/elsewhere/snaps" {
		t.Errorf("SnapshotDir() override = %q", got)
	}
	if got := cfg.JournalDir(); got != "/elsewhere/journal" {
		t.Errorf("JournalDir() override = %q", got)
	}
}

func TestManager_ReadWrite_RoundTrip(t *testing.T) {
	t.Parallel()
	m := &config.Manager{}

	cfg := config.NewConfig("/base")
	cfg.Mirror = config.MirrorConfig{
		Type:     "s3",
		S3Bucket: "plannerd-backups",
		S3Prefix: "prod/",
		S3Region: "eu-central-1",
	}

	var buf bytes.Buffer
	if err := m.Write(&buf, cfg); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if !reflect.DeepEqual(got, cfg) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, cfg)
	}
}

func TestManager_Read_Invalid(t *testing.T) {
	t.Parallel()
	m := &config.Manager{}

	if _, err := m.Read(strings.NewReader("listen_addr = [not toml")); err == nil {
		t.Error("Read() of invalid TOML succeeded, want error")
	}
}

func TestInit(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "plannerd.toml")
	cfg := config.NewConfig(dir)

	if err := config.Init(path, cfg); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	got, err := config.ReadFromFile(path)
	if err != nil {
		t.Fatalf("ReadFromFile() error = %v", err)
	}
	if got.ListenAddr != cfg.ListenAddr {
		t.Errorf("ListenAddr = %q, want %q", got.ListenAddr, cfg.ListenAddr)
	}

	// A second Init must not clobber the existing file.
	if err := config.Init(path, cfg); err == nil {
		t.Error("Init() over existing file succeeded, want error")
	}
}
