package testutil

import "plannerd/internal/model"

// SampleDocument returns a default document with one project and one task,
// enough to tell business content apart from the default document.
func SampleDocument() *model.Document {
	doc := model.NewDocument()
	doc.Projects["p1"] = model.Project{
		ID:    "p1",
		Title: "Launch",
		TimeRange: model.TimeRange{
			StartISO: "2024-01-01T00:00:00Z",
			EndISO:   "2024-03-01T00:00:00Z",
		},
	}
	doc.Tasks["t1"] = model.Task{
		ID:        "t1",
		ProjectID: "p1",
		Title:     "Write announcement",
		Status:    model.TaskStatus{Type: model.StatusInProgress},
		Schedule: model.Schedule{
			Mode:     model.ScheduleRange,
			StartISO: "2024-01-10T09:00:00Z",
			EndISO:   "2024-01-12T17:00:00Z",
		},
	}
	doc.UIState.ProjectOrder = []string{"p1"}
	return doc
}
