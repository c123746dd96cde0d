package backup

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/studyd/internal/model"
)

var at = time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)

func sampleDocument() Document {
	done := at
	settings := model.DefaultSettings()
	settings.DarkMode = true
	return Document{
		Tasks: []model.Task{
			{ID: "t1", Title: "Read", Date: "2026-03-11", Time: "09:00", Priority: model.PriorityHigh, DurationMinutes: 45, CreatedAt: at},
			{ID: "t2", Title: "Write", Date: "2026-03-12", Time: "10:00", Priority: model.PriorityLow, DurationMinutes: 60, Completed: true, CreatedAt: at, CompletedAt: &done},
		},
		Goals:        []model.Goal{{ID: "g1", Title: "Finish course", Deadline: "2026-04-01", CreatedAt: at}},
		Exams:        []model.Exam{{ID: "e1", Title: "Final", DateTime: "2026-05-01T09:00", DurationMinutes: 120, CreatedAt: at}},
		Materials:    []model.Material{{ID: "m1", Title: "Notes", CreatedAt: at}},
		Sessions:     []model.StudySession{{ID: "s1", Date: "2026-03-11", DurationMinutes: 25, Type: model.SessionTypeStudy, CompletedAt: at}},
		Achievements: []model.Achievement{{ID: "task_master", Title: "Task Master", UnlockedAt: at}},
		Settings:     &settings,
		ExportDate:   at,
	}
}

func TestRoundTrip(t *testing.T) {
	doc := sampleDocument()
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, doc))

	got, err := Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, doc, got)
}

func TestEncodeUsesBrowserKeys(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, Document{ExportDate: at}))

	var top map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &top))
	for _, key := range []string{"tasks", "goals", "exams", "materials", "studySessions", "achievements", "settings", "exportDate"} {
		require.Contains(t, top, key)
	}
	require.Equal(t, "[]", string(top["tasks"]))
}

func TestDecodeMalformedIsParseError(t *testing.T) {
	cases := []string{
		"not json",
		"[1,2,3]",
		"null",
		`{"tasks": {"id": 1}}`,
		`{"tasks": [{"title": "no id"}]}`,
		`{"settings": "dark"}`,
	}
	for _, in := range cases {
		_, err := Decode(strings.NewReader(in))
		require.Error(t, err, in)
		var pe *model.ParseError
		require.ErrorAs(t, err, &pe, in)
	}
}

func TestDecodeMissingCollectionsAreEmpty(t *testing.T) {
	doc, err := Decode(strings.NewReader(`{"tasks": [{"id": 17, "title": "Old", "completed": true}]}`))
	require.NoError(t, err)
	require.Len(t, doc.Tasks, 1)
	require.Equal(t, "17", doc.Tasks[0].ID)
	require.NotNil(t, doc.Tasks[0].CompletedAt)
	require.Empty(t, doc.Goals)
	require.Nil(t, doc.Settings)
}

func TestDecodeSettingsNormalized(t *testing.T) {
	doc, err := Decode(strings.NewReader(`{"settings": {"darkMode": true, "defaultStudyTime": 0}}`))
	require.NoError(t, err)
	require.NotNil(t, doc.Settings)
	require.True(t, doc.Settings.DarkMode)
	require.Equal(t, 25, doc.Settings.DefaultStudyMinutes)
	require.True(t, doc.Settings.Reminders)
}

func TestFileName(t *testing.T) {
	require.Equal(t, "study-planner-backup-2026-03-11.json", FileName(at))
}
