package snapshot_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"plannerd/internal/config"
	"plannerd/internal/snapshot"
	"plannerd/internal/state"
)

// stores builds one of each implementation so the shared behavior can be
// exercised against both.
func stores(t *testing.T) map[string]state.SnapshotStore {
	t.Helper()

	fs, err := snapshot.NewFileSnapshotStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return map[string]state.SnapshotStore{
		"filesystem": fs,
		"memory":     snapshot.NewMemorySnapshotStore(),
	}
}

func TestSnapshotStore_PutGetExists(t *testing.T) {
	t.Parallel()

	for name, s := range stores(t) {
		s := s
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ok, err := s.Exists("state_20240115_103000.json")
			if err != nil {
				t.Fatal(err)
			}
			if ok {
				t.Fatal("Exists() = true on empty store")
			}

			payload := `{"schema_version": 1}`
			if err := s.Put("state_20240115_103000.json", strings.NewReader(payload), int64(len(payload))); err != nil {
				t.Fatalf("Put() error = %v", err)
			}

			ok, err = s.Exists("state_20240115_103000.json")
			if err != nil {
				t.Fatal(err)
			}
			if !ok {
				t.Fatal("Exists() = false after Put")
			}

			var buf bytes.Buffer
			if err := s.Get("state_20240115_103000.json", &buf); err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if buf.String() != payload {
				t.Errorf("Get() = %q, want %q", buf.String(), payload)
			}
		})
	}
}

func TestSnapshotStore_PutOverwrites(t *testing.T) {
	t.Parallel()

	for name, s := range stores(t) {
		s := s
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			for _, payload := range []string{"first", "second"} {
				if err := s.Put("state_20240115_103000.json", strings.NewReader(payload), int64(len(payload))); err != nil {
					t.Fatalf("Put(%q) error = %v", payload, err)
				}
			}

			var buf bytes.Buffer
			if err := s.Get("state_20240115_103000.json", &buf); err != nil {
				t.Fatal(err)
			}
			if buf.String() != "second" {
				t.Errorf("Get() = %q, want %q", buf.String(), "second")
			}
		})
	}
}

func TestSnapshotStore_SizeMismatch(t *testing.T) {
	t.Parallel()

	for name, s := range stores(t) {
		s := s
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if err := s.Put("bad.json", strings.NewReader("abc"), 99); err == nil {
				t.Error("Put() with wrong size succeeded, want error")
			}
			ok, _ := s.Exists("bad.json")
			if ok {
				t.Error("partial payload is visible after failed Put")
			}
		})
	}
}

func TestSnapshotStore_GetMissing(t *testing.T) {
	t.Parallel()

	for name, s := range stores(t) {
		s := s
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := s.Get("nope.json", &buf); err == nil {
				t.Error("Get() of missing snapshot succeeded, want error")
			}
		})
	}
}

func TestFileSnapshotStore_NoTempLeftovers(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	s, err := snapshot.NewFileSnapshotStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	// One good write and one failed write.
	if err := s.Put("a.json", strings.NewReader("ok"), 2); err != nil {
		t.Fatal(err)
	}
	if err := s.Put("b.json", strings.NewReader("xy"), 5); err == nil {
		t.Fatal("Put() with wrong size succeeded")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".tmp-") {
			t.Errorf("leftover temp file %s", filepath.Join(dir, e.Name()))
		}
	}
	if len(entries) != 1 || entries[0].Name() != "a.json" {
		t.Errorf("directory entries = %v, want only a.json", entries)
	}
}

func TestNewSnapshotStoreFromConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	cases := []struct {
		typ     string
		wantErr bool
	}{
		{"", false},
		{"filesystem", false},
		{"memory", false},
		{"gopher-cloud", true},
	}
	for _, tc := range cases {
		s, err := snapshot.NewSnapshotStoreFromConfig(config.SnapshotConfig{Type: tc.typ}, dir)
		if tc.wantErr {
			if err == nil {
				t.Errorf("type %q: want error", tc.typ)
			}
			continue
		}
		if err != nil {
			t.Errorf("type %q: error = %v", tc.typ, err)
			continue
		}
		if s == nil {
			t.Errorf("type %q: nil store", tc.typ)
		}
	}
}
