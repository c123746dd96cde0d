package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// DecodeRecords decodes a JSON array of records. Numeric ids, as written by
// older browser backups, are converted to strings first. A null or empty
// payload yields an empty slice.
func DecodeRecords[T any](raw []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []T{}, nil
	}
	var items []map[string]json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	out := make([]T, 0, len(items))
	for i, item := range items {
		if id, ok := item["id"]; ok {
			if s := bytes.TrimSpace(id); len(s) > 0 && s[0] != '"' && !bytes.Equal(s, []byte("null")) {
				quoted, _ := json.Marshal(string(s))
				item["id"] = quoted
			}
		}
		buf, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("decode record %d: %w", i, err)
		}
		var rec T
		if err := json.Unmarshal(buf, &rec); err != nil {
			return nil, fmt.Errorf("decode record %d: %w", i, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// RepairTask restores the completion invariant on a task read from storage
// or a backup. A completed task without a stamp borrows fallback.
func RepairTask(t Task, fallback time.Time) Task {
	if t.Priority == "" {
		t.Priority = PriorityLow
	}
	if t.DurationMinutes <= 0 {
		t.DurationMinutes = DefaultTaskMinutes
	}
	switch {
	case t.Completed && t.CompletedAt == nil:
		stamp := fallback
		t.CompletedAt = &stamp
	case !t.Completed && t.CompletedAt != nil:
		t.CompletedAt = nil
	}
	return t
}
