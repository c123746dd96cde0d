// Package backup encodes and decodes the single-document export format.
package backup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/sandeepkv93/studyd/internal/model"
)

// Document holds every collection. Settings is nil when a backup carries
// none, in which case the importer keeps its current settings.
type Document struct {
	Tasks        []model.Task         `json:"tasks"`
	Goals        []model.Goal         `json:"goals"`
	Exams        []model.Exam         `json:"exams"`
	Materials    []model.Material     `json:"materials"`
	Sessions     []model.StudySession `json:"studySessions"`
	Achievements []model.Achievement  `json:"achievements"`
	Settings     *model.Settings      `json:"settings"`
	ExportDate   time.Time            `json:"exportDate"`
}

// Encode writes doc as indented JSON. Nil collections are written as
// empty arrays.
func Encode(w io.Writer, doc Document) error {
	doc = doc.withEmptyCollections()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}
	return nil
}

// Decode reads a whole document. Any structural problem is reported as a
// *model.ParseError and nothing is returned.
func Decode(r io.Reader) (Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Document{}, &model.ParseError{Err: err}
	}
	var top map[string]json.RawMessage
	if err := json.Unmarshal(bytes.TrimSpace(raw), &top); err != nil {
		return Document{}, &model.ParseError{Err: err}
	}
	if top == nil {
		return Document{}, &model.ParseError{Err: fmt.Errorf("backup is not a JSON object")}
	}

	var doc Document
	if doc.Tasks, err = model.DecodeRecords[model.Task](top["tasks"]); err != nil {
		return Document{}, &model.ParseError{Err: fmt.Errorf("tasks: %w", err)}
	}
	if doc.Goals, err = model.DecodeRecords[model.Goal](top["goals"]); err != nil {
		return Document{}, &model.ParseError{Err: fmt.Errorf("goals: %w", err)}
	}
	if doc.Exams, err = model.DecodeRecords[model.Exam](top["exams"]); err != nil {
		return Document{}, &model.ParseError{Err: fmt.Errorf("exams: %w", err)}
	}
	if doc.Materials, err = model.DecodeRecords[model.Material](top["materials"]); err != nil {
		return Document{}, &model.ParseError{Err: fmt.Errorf("materials: %w", err)}
	}
	if doc.Sessions, err = model.DecodeRecords[model.StudySession](top["studySessions"]); err != nil {
		return Document{}, &model.ParseError{Err: fmt.Errorf("studySessions: %w", err)}
	}
	if doc.Achievements, err = model.DecodeRecords[model.Achievement](top["achievements"]); err != nil {
		return Document{}, &model.ParseError{Err: fmt.Errorf("achievements: %w", err)}
	}
	if s, ok := top["settings"]; ok && !bytes.Equal(bytes.TrimSpace(s), []byte("null")) {
		settings := model.DefaultSettings()
		if err := json.Unmarshal(s, &settings); err != nil {
			return Document{}, &model.ParseError{Err: fmt.Errorf("settings: %w", err)}
		}
		settings = settings.Normalize()
		doc.Settings = &settings
	}
	if d, ok := top["exportDate"]; ok {
		// informational only; an unreadable date is not worth rejecting a backup
		_ = json.Unmarshal(d, &doc.ExportDate)
	}

	for i := range doc.Tasks {
		if doc.Tasks[i].ID == "" {
			return Document{}, &model.ParseError{Err: fmt.Errorf("tasks[%d]: missing id", i)}
		}
		doc.Tasks[i] = model.RepairTask(doc.Tasks[i], doc.Tasks[i].CreatedAt)
	}
	return doc, nil
}

func (d Document) withEmptyCollections() Document {
	if d.Tasks == nil {
		d.Tasks = []model.Task{}
	}
	if d.Goals == nil {
		d.Goals = []model.Goal{}
	}
	if d.Exams == nil {
		d.Exams = []model.Exam{}
	}
	if d.Materials == nil {
		d.Materials = []model.Material{}
	}
	if d.Sessions == nil {
		d.Sessions = []model.StudySession{}
	}
	if d.Achievements == nil {
		d.Achievements = []model.Achievement{}
	}
	return d
}

// FileName is the default export file name for day.
func FileName(day time.Time) string {
	return fmt.Sprintf("study-planner-backup-%s.json", model.DayOf(day))
}
