package mirror_test

import (
	"bytes"
	"strings"
	"testing"

	"plannerd/internal/config"
	"plannerd/internal/mirror"
)

func TestMemoryMirror_PutFetch(t *testing.T) {
	t.Parallel()
	m := mirror.NewMemoryMirror()

	payload := `{"schema_version": 1}`
	if err := m.Put("state_20240115_103000.json", strings.NewReader(payload), int64(len(payload))); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if !m.Has("state_20240115_103000.json") {
		t.Fatal("Has() = false after Put")
	}

	var buf bytes.Buffer
	if err := m.Fetch("state_20240115_103000.json", &buf); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if buf.String() != payload {
		t.Errorf("Fetch() = %q, want %q", buf.String(), payload)
	}
}

func TestMemoryMirror_FetchMissing(t *testing.T) {
	t.Parallel()
	m := mirror.NewMemoryMirror()

	var buf bytes.Buffer
	if err := m.Fetch("nope.json", &buf); err == nil {
		t.Error("Fetch() of missing payload succeeded, want error")
	}
}

func TestMemoryMirror_SizeMismatch(t *testing.T) {
	t.Parallel()
	m := mirror.NewMemoryMirror()

	if err := m.Put("bad.json", strings.NewReader("abc"), 99); err == nil {
		t.Error("Put() with wrong size succeeded, want error")
	}
	if m.Has("bad.json") {
		t.Error("partial payload is visible after failed Put")
	}
}

func TestNewMirrorFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("empty type disables mirroring", func(t *testing.T) {
		t.Parallel()
		m, err := mirror.NewMirrorFromConfig(config.MirrorConfig{})
		if err != nil {
			t.Fatalf("error = %v", err)
		}
		if m != nil {
			t.Errorf("mirror = %T, want nil", m)
		}
	})

	t.Run("memory", func(t *testing.T) {
		t.Parallel()
		m, err := mirror.NewMirrorFromConfig(config.MirrorConfig{Type: "memory"})
		if err != nil {
			t.Fatalf("error = %v", err)
		}
		if _, ok := m.(*mirror.MemoryMirror); !ok {
			t.Errorf("mirror = %T, want *MemoryMirror", m)
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		t.Parallel()
		if _, err := mirror.NewMirrorFromConfig(config.MirrorConfig{Type: "carrier-pigeon"}); err == nil {
			t.Error("want error for unknown type")
		}
	})
}
