package state_test

import (
	"bytes"
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"plannerd/internal/model"
	"plannerd/internal/snapshot"
	"plannerd/internal/state"
	"plannerd/internal/testutil"
)

// setup creates a service over a real temp-dir document store and an
// in-memory snapshot store, driven by a stub clock.
func setup(t *testing.T) (*state.Service, *snapshot.MemorySnapshotStore, *testutil.StubClock) {
	t.Helper()
	docStore := testutil.NewTestStore(t)
	snaps := testutil.NewTestSnapshotStore()
	clock := testutil.FixedClock()
	svc := state.NewService(docStore, snaps, nil, nil, state.NewNopLogger(), clock)
	return svc, snaps, clock
}

func readSnapshot(t *testing.T, snaps *snapshot.MemorySnapshotStore, name string) *model.Document {
	t.Helper()
	var buf bytes.Buffer
	if err := snaps.Get(name, &buf); err != nil {
		t.Fatalf("reading snapshot %s: %v", name, err)
	}
	doc := model.NewDocument()
	if err := json.Unmarshal(buf.Bytes(), doc); err != nil {
		t.Fatalf("parsing snapshot %s: %v", name, err)
	}
	return doc
}

func TestService_Load(t *testing.T) {
	t.Run("empty store yields default document", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := setup(t)

		doc, err := svc.Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if doc.SchemaVersion != model.SchemaVersion {
			t.Errorf("SchemaVersion = %d, want %d", doc.SchemaVersion, model.SchemaVersion)
		}
		if len(doc.Projects) != 0 || len(doc.Tasks) != 0 || len(doc.Backups) != 0 {
			t.Error("expected empty collections")
		}
	})
}

func TestService_Save(t *testing.T) {
	t.Run("save with backup appends exactly one record", func(t *testing.T) {
		t.Parallel()
		svc, snaps, clock := setup(t)

		doc := testutil.SampleDocument()
		savedAt, backupID, err := svc.Save(doc, true)
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if !savedAt.Equal(clock.Now()) {
			t.Errorf("savedAt = %v, want clock time %v", savedAt, clock.Now())
		}
		if backupID != "bkp_20240115_103000" {
			t.Errorf("backupID = %q", backupID)
		}

		backups, err := svc.ListBackups()
		if err != nil {
			t.Fatalf("ListBackups() error = %v", err)
		}
		if len(backups) != 1 {
			t.Fatalf("got %d backup records, want 1", len(backups))
		}
		rec := backups[0]
		if rec.ID != backupID {
			t.Errorf("record id = %q, want %q", rec.ID, backupID)
		}
		if rec.Reason != model.DefaultBackupReason {
			t.Errorf("reason = %q, want %q", rec.Reason, model.DefaultBackupReason)
		}
		if rec.FilePath != "backups/state_20240115_103000.json" {
			t.Errorf("file path = %q", rec.FilePath)
		}
		if rec.CreatedAtISO != clock.Now().Format(time.RFC3339) {
			t.Errorf("created at = %q", rec.CreatedAtISO)
		}

		// The snapshot file contains its own catalog entry.
		snap := readSnapshot(t, snaps, "state_20240115_103000.json")
		if len(snap.Backups) != 1 || snap.Backups[0].ID != backupID {
			t.Errorf("snapshot catalog = %+v", snap.Backups)
		}
		if !reflect.DeepEqual(snap.Projects, doc.Projects) {
			t.Errorf("snapshot projects = %+v, want %+v", snap.Projects, doc.Projects)
		}
	})

	t.Run("save without backup leaves catalog untouched", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := setup(t)

		_, backupID, err := svc.Save(testutil.SampleDocument(), false)
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if backupID != "" {
			t.Errorf("backupID = %q, want empty", backupID)
		}

		backups, err := svc.ListBackups()
		if err != nil {
			t.Fatalf("ListBackups() error = %v", err)
		}
		if len(backups) != 0 {
			t.Errorf("got %d backup records, want 0", len(backups))
		}
	})

	t.Run("round trip preserves business fields", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := setup(t)

		doc := testutil.SampleDocument()
		if _, _, err := svc.Save(doc, true); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		loaded, err := svc.Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if !reflect.DeepEqual(loaded.Projects, doc.Projects) {
			t.Errorf("Projects = %+v, want %+v", loaded.Projects, doc.Projects)
		}
		if !reflect.DeepEqual(loaded.Tasks, doc.Tasks) {
			t.Errorf("Tasks = %+v, want %+v", loaded.Tasks, doc.Tasks)
		}
		if !reflect.DeepEqual(loaded.App, doc.App) {
			t.Errorf("App = %+v, want %+v", loaded.App, doc.App)
		}
	})

	t.Run("saves a second apart produce distinct snapshots", func(t *testing.T) {
		t.Parallel()
		svc, snaps, clock := setup(t)

		if _, _, err := svc.Save(testutil.SampleDocument(), true); err != nil {
			t.Fatalf("first Save() error = %v", err)
		}
		clock.Advance(time.Second)
		if _, _, err := svc.Save(testutil.SampleDocument(), true); err != nil {
			t.Fatalf("second Save() error = %v", err)
		}

		backups, err := svc.ListBackups()
		if err != nil {
			t.Fatalf("ListBackups() error = %v", err)
		}
		if len(backups) != 2 {
			t.Fatalf("got %d backup records, want 2", len(backups))
		}
		if backups[0].ID == backups[1].ID {
			t.Errorf("ids should differ, both %q", backups[0].ID)
		}
		for _, name := range []string{"state_20240115_103000.json", "state_20240115_103001.json"} {
			ok, err := snaps.Exists(name)
			if err != nil || !ok {
				t.Errorf("snapshot %s missing (ok=%v err=%v)", name, ok, err)
			}
		}
	})
}

// Snapshot ids and filenames derive from wall-clock time truncated to the
// second. Two snapshots inside the same second therefore collide: the
// second write replaces the first snapshot file's content, and the catalog
// gains no second record because the records are value-identical. This is
// documented behavior, not a bug in these tests.
func TestService_Save_SameSecondCollision(t *testing.T) {
	t.Parallel()
	svc, snaps, _ := setup(t)

	first := testutil.SampleDocument()
	if _, id1, err := svc.Save(first, true); err != nil {
		t.Fatalf("first Save() error = %v", err)
	} else if id1 != "bkp_20240115_103000" {
		t.Fatalf("id1 = %q", id1)
	}

	second, err := svc.Load()
	if err != nil {
		t.Fatal(err)
	}
	p := second.Projects["p1"]
	p.Title = "Launch v2"
	second.Projects["p1"] = p

	_, id2, err := svc.Save(second, true)
	if err != nil {
		t.Fatalf("second Save() error = %v", err)
	}
	if id2 != "bkp_20240115_103000" {
		t.Errorf("same-second ids should collide, got %q", id2)
	}

	// Only one catalog record: the second record was value-identical.
	backups, err := svc.ListBackups()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 1 {
		t.Fatalf("got %d backup records, want 1", len(backups))
	}

	// The single snapshot file now holds the second document's content:
	// the first snapshot's content was silently overwritten.
	snap := readSnapshot(t, snaps, "state_20240115_103000.json")
	if snap.Projects["p1"].Title != "Launch v2" {
		t.Errorf("snapshot title = %q, want %q (overwritten by second save)",
			snap.Projects["p1"].Title, "Launch v2")
	}
}
