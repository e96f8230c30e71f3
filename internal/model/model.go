package model

import "time"

// SchemaVersion is the current on-disk document schema version.
// Documents with a different version are accepted as-is (no migration
// path exists); loaders log a warning on mismatch.
const SchemaVersion = 1

// Theme modes for the UI.
const (
	ThemeSystem = "system"
	ThemeLight  = "light"
	ThemeDark   = "dark"
)

// Task status types.
const (
	StatusNotStarted = "not_started"
	StatusInProgress = "in_progress"
	StatusStuck      = "stuck"
	StatusDone       = "done"
	StatusWaitingFor = "waiting_for"
)

// Schedule modes, the discriminant of the Task schedule tagged union.
const (
	ScheduleRange = "range"
	SchedulePoint = "point"
)

// DefaultBackupReason is recorded on backup records created by a plain save.
const DefaultBackupReason = "manual_save"

// Settings holds user-facing application settings. Free-form: there are
// no cross-field invariants.
type Settings struct {
	Timezone   string `json:"timezone"`
	DateFormat string `json:"date_format"`
	RTL        bool   `json:"rtl"`
	Theme      string `json:"theme" validate:"oneof=system light dark"`
}

// LockedProjectInfo marks a project as locked for the current session.
type LockedProjectInfo struct {
	LockedUntilEpochMS int64 `json:"locked_until_epoch_ms"`
}

// UndoState carries the client's undo/redo stacks. Persisted opaquely.
type UndoState struct {
	Stack     []any `json:"stack"`
	RedoStack []any `json:"redo_stack"`
}

// UIState is transient UI/session data. It is persisted with the document
// but never semantically validated.
type UIState struct {
	ProjectOrder          []string                     `json:"project_order"`
	LockedProjectsSession map[string]LockedProjectInfo `json:"locked_projects_session"`
	Undo                  UndoState                    `json:"undo"`
}

// TimeRange is a project's schedule window. IsUserDefined distinguishes an
// explicitly user-set window from an inferred one.
type TimeRange struct {
	StartISO      string `json:"start_iso" validate:"required"`
	EndISO        string `json:"end_iso" validate:"required"`
	IsUserDefined bool   `json:"is_user_defined"`
}

// Project is a top-level container of tasks. The id is unique among
// projects and immutable once created; callers enforce that, not this
// package.
type Project struct {
	ID                  string    `json:"id" validate:"required"`
	Title               string    `json:"title"`
	ShortDescription    string    `json:"short_description"`
	DetailedDescription string    `json:"detailed_description"`
	Notebook            string    `json:"notebook"`
	Tags                []string  `json:"tags"`
	Color               string    `json:"color"`
	TimeRange           TimeRange `json:"time_range"`
	MilestoneIDs        []string  `json:"milestone_ids"`
}

// TaskStatus pairs the status type with an optional free-text reason that
// is only meaningful when the type is waiting_for.
type TaskStatus struct {
	Type       string `json:"type" validate:"oneof=not_started in_progress stuck done waiting_for"`
	WaitingFor string `json:"waiting_for,omitempty"`
}

// Schedule is a tagged union: mode "range" carries start/end timestamps,
// mode "point" carries a single timestamp. Exactly one shape, never both.
type Schedule struct {
	Mode     string `json:"mode" validate:"oneof=range point"`
	StartISO string `json:"start_iso,omitempty" validate:"required_if=Mode range,excluded_if=Mode point"`
	EndISO   string `json:"end_iso,omitempty" validate:"required_if=Mode range,excluded_if=Mode point"`
	PointISO string `json:"point_iso,omitempty" validate:"required_if=Mode point,excluded_if=Mode range"`
}

// Task belongs to a project and optionally to a parent task. The
// parent/child links form a tree; cycle detection and cross-validation of
// ParentTaskID against ChildTaskIDs are the caller's responsibility.
type Task struct {
	ID           string     `json:"id" validate:"required"`
	ProjectID    string     `json:"project_id" validate:"required"`
	ParentTaskID string     `json:"parent_task_id,omitempty"`
	Title        string     `json:"title"`
	Details      string     `json:"details"`
	Status       TaskStatus `json:"status"`
	Priority     int        `json:"priority"`
	Tags         []string   `json:"tags"`
	Color        string     `json:"color"`
	Schedule     Schedule   `json:"schedule"`
	People       []string   `json:"people"`
	Notes        string     `json:"notes"`
	ChildTaskIDs []string   `json:"child_task_ids"`
}

// BackupRecord is a catalog entry for one snapshot file. Records are
// immutable once created: appended to Document.Backups, never mutated or
// deleted. FilePath is relative to the store's data directory.
type BackupRecord struct {
	ID           string `json:"id" validate:"required"`
	CreatedAtISO string `json:"created_at_iso" validate:"required"`
	Reason       string `json:"reason"`
	FilePath     string `json:"file_path" validate:"required"`
}

// Document is the single root aggregate persisted by the store. One
// document per store instance.
type Document struct {
	SchemaVersion int                `json:"schema_version"`
	App           Settings           `json:"app"`
	UIState       UIState            `json:"ui_state"`
	Projects      map[string]Project `json:"projects" validate:"dive"`
	Tasks         map[string]Task    `json:"tasks" validate:"dive"`
	Backups       []BackupRecord     `json:"backups" validate:"dive"`
}

// NewDocument returns a fresh default document: current schema version,
// default settings, empty collections.
func NewDocument() *Document {
	return &Document{
		SchemaVersion: SchemaVersion,
		App: Settings{
			Timezone:   "Asia/Jerusalem",
			DateFormat: "DD/MM/YY",
			RTL:        true,
			Theme:      ThemeSystem,
		},
		UIState: UIState{
			ProjectOrder:          []string{},
			LockedProjectsSession: map[string]LockedProjectInfo{},
			Undo:                  UndoState{Stack: []any{}, RedoStack: []any{}},
		},
		Projects: map[string]Project{},
		Tasks:    map[string]Task{},
		Backups:  []BackupRecord{},
	}
}

// Normalize replaces nil collections with empty ones so that a loaded
// document always serializes with the same shape it was created with.
func (d *Document) Normalize() {
	if d.Projects == nil {
		d.Projects = map[string]Project{}
	}
	if d.Tasks == nil {
		d.Tasks = map[string]Task{}
	}
	if d.Backups == nil {
		d.Backups = []BackupRecord{}
	}
	if d.UIState.ProjectOrder == nil {
		d.UIState.ProjectOrder = []string{}
	}
	if d.UIState.LockedProjectsSession == nil {
		d.UIState.LockedProjectsSession = map[string]LockedProjectInfo{}
	}
	if d.UIState.Undo.Stack == nil {
		d.UIState.Undo.Stack = []any{}
	}
	if d.UIState.Undo.RedoStack == nil {
		d.UIState.Undo.RedoStack = []any{}
	}
}

// HasBackup reports whether an identical record is already present in the
// catalog. Identity is full value equality, not just the id: two records
// created in the same wall-clock second share an id but may differ in
// reason, in which case both are kept.
func (d *Document) HasBackup(rec BackupRecord) bool {
	for _, b := range d.Backups {
		if b == rec {
			return true
		}
	}
	return false
}

// FindBackup returns the first record with the given id, or nil.
func (d *Document) FindBackup(id string) *BackupRecord {
	for i := range d.Backups {
		if d.Backups[i].ID == id {
			return &d.Backups[i]
		}
	}
	return nil
}

// JournalEntry is one row of the operation journal: a mutating operation
// (save, restore) with its outcome. Kept here so both the journal
// implementation and the service layer can reference it without a cycle.
type JournalEntry struct {
	ID         string
	Operation  string
	BackupID   string
	Status     string // "success" or "error"
	StartedAt  time.Time
	FinishedAt *time.Time
}
