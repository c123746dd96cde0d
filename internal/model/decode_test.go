package model

import (
	"testing"
	"time"
)

func TestDecodeRecordsAcceptsNumericIDs(t *testing.T) {
	raw := []byte(`[{"id":1712345678901,"title":"Read","date":"2026-03-10","time":"09:00","priority":"high","duration":30,"completed":false,"createdAt":"2026-03-01T10:00:00Z","completedAt":null},{"id":"abc","title":"Write"}]`)
	tasks, err := DecodeRecords[Task](raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].ID != "1712345678901" {
		t.Fatalf("expected numeric id as string, got %q", tasks[0].ID)
	}
	if tasks[0].DurationMinutes != 30 || tasks[0].Priority != PriorityHigh {
		t.Fatalf("unexpected fields: %+v", tasks[0])
	}
	if tasks[1].ID != "abc" {
		t.Fatalf("expected string id kept, got %q", tasks[1].ID)
	}
}

func TestDecodeRecordsEmptyAndMalformed(t *testing.T) {
	for _, raw := range []string{"", "null", "  "} {
		out, err := DecodeRecords[Goal]([]byte(raw))
		if err != nil || len(out) != 0 {
			t.Fatalf("expected empty slice for %q, got %v %v", raw, out, err)
		}
	}
	if _, err := DecodeRecords[Goal]([]byte(`{"id":1}`)); err == nil {
		t.Fatal("expected error for non-array payload")
	}
	if _, err := DecodeRecords[Task]([]byte(`[{"id":"a","completed":"yes"}]`)); err == nil {
		t.Fatal("expected error for mistyped field")
	}
}

func TestRepairTaskRestoresInvariant(t *testing.T) {
	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	fixed := RepairTask(Task{Completed: true}, at)
	if fixed.CompletedAt == nil || !fixed.CompletedAt.Equal(at) {
		t.Fatalf("expected completedAt filled, got %v", fixed.CompletedAt)
	}
	if fixed.Priority != PriorityLow || fixed.DurationMinutes != DefaultTaskMinutes {
		t.Fatalf("expected defaults, got %+v", fixed)
	}
	stamp := at
	fixed = RepairTask(Task{CompletedAt: &stamp, Priority: PriorityHigh, DurationMinutes: 5}, at)
	if fixed.CompletedAt != nil {
		t.Fatal("expected completedAt cleared on incomplete task")
	}
}
