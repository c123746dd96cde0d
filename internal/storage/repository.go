package storage

import (
	"context"
	"errors"
)

var ErrClosed = errors.New("storage: store closed")

// Keys used by the planner. Names match the web version's localStorage keys so
// backups stay interchangeable.
const (
	KeyTasks        = "studyTasks"
	KeyGoals        = "studyGoals"
	KeyExams        = "studyExams"
	KeyMaterials    = "studyMaterials"
	KeySessions     = "studySessions"
	KeyAchievements = "achievements"
	KeySettings     = "appSettings"
)

// AllKeys lists every key the planner writes, in persistence order.
var AllKeys = []string{
	KeyTasks,
	KeyGoals,
	KeyExams,
	KeyMaterials,
	KeySessions,
	KeyAchievements,
	KeySettings,
}

// KV is a string key-value store with last-write-wins semantics.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Clear(ctx context.Context) error
}
