package model_test

import (
	"testing"

	"plannerd/internal/model"
)

func validDocument() *model.Document {
	doc := model.NewDocument()
	doc.Projects["p1"] = model.Project{
		ID: "p1",
		TimeRange: model.TimeRange{
			StartISO: "2024-01-01T00:00:00Z",
			EndISO:   "2024-02-01T00:00:00Z",
		},
	}
	doc.Tasks["t1"] = model.Task{
		ID:        "t1",
		ProjectID: "p1",
		Status:    model.TaskStatus{Type: model.StatusNotStarted},
		Schedule: model.Schedule{
			Mode:     model.SchedulePoint,
			PointISO: "2024-01-05T12:00:00Z",
		},
	}
	return doc
}

func TestDocument_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(doc *model.Document)
		wantErr bool
	}{
		{
			name:   "valid document",
			mutate: func(doc *model.Document) {},
		},
		{
			name: "range schedule with both endpoints",
			mutate: func(doc *model.Document) {
				task := doc.Tasks["t1"]
				task.Schedule = model.Schedule{
					Mode:     model.ScheduleRange,
					StartISO: "2024-01-05T09:00:00Z",
					EndISO:   "2024-01-05T17:00:00Z",
				}
				doc.Tasks["t1"] = task
			},
		},
		{
			name: "range schedule missing end",
			mutate: func(doc *model.Document) {
				task := doc.Tasks["t1"]
				task.Schedule = model.Schedule{
					Mode:     model.ScheduleRange,
					StartISO: "2024-01-05T09:00:00Z",
				}
				doc.Tasks["t1"] = task
			},
			wantErr: true,
		},
		{
			name: "point schedule missing point",
			mutate: func(doc *model.Document) {
				task := doc.Tasks["t1"]
				task.Schedule = model.Schedule{Mode: model.SchedulePoint}
				doc.Tasks["t1"] = task
			},
			wantErr: true,
		},
		{
			name: "point schedule carrying range fields",
			mutate: func(doc *model.Document) {
				task := doc.Tasks["t1"]
				task.Schedule = model.Schedule{
					Mode:     model.SchedulePoint,
					PointISO: "2024-01-05T12:00:00Z",
					StartISO: "2024-01-05T09:00:00Z",
				}
				doc.Tasks["t1"] = task
			},
			wantErr: true,
		},
		{
			name: "unknown schedule mode",
			mutate: func(doc *model.Document) {
				task := doc.Tasks["t1"]
				task.Schedule = model.Schedule{Mode: "weekly"}
				doc.Tasks["t1"] = task
			},
			wantErr: true,
		},
		{
			name: "unknown status type",
			mutate: func(doc *model.Document) {
				task := doc.Tasks["t1"]
				task.Status = model.TaskStatus{Type: "paused"}
				doc.Tasks["t1"] = task
			},
			wantErr: true,
		},
		{
			name: "waiting_for status with reason",
			mutate: func(doc *model.Document) {
				task := doc.Tasks["t1"]
				task.Status = model.TaskStatus{Type: model.StatusWaitingFor, WaitingFor: "review"}
				doc.Tasks["t1"] = task
			},
		},
		{
			name: "unknown theme",
			mutate: func(doc *model.Document) {
				doc.App.Theme = "sepia"
			},
			wantErr: true,
		},
		{
			name: "task missing project id",
			mutate: func(doc *model.Document) {
				task := doc.Tasks["t1"]
				task.ProjectID = ""
				doc.Tasks["t1"] = task
			},
			wantErr: true,
		},
		{
			name: "project key mismatch",
			mutate: func(doc *model.Document) {
				p := doc.Projects["p1"]
				p.ID = "p2"
				doc.Projects["p1"] = p
			},
			wantErr: true,
		},
		{
			name: "task key mismatch",
			mutate: func(doc *model.Document) {
				task := doc.Tasks["t1"]
				task.ID = "t9"
				doc.Tasks["t1"] = task
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validDocument()
			tt.mutate(doc)

			err := doc.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
