package planner

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/sandeepkv93/studyd/internal/model"
	"github.com/sandeepkv93/studyd/internal/storage"
)

// state is everything the planner persists, one storage key per field.
type state struct {
	tasks        []model.Task
	goals        []model.Goal
	exams        []model.Exam
	materials    []model.Material
	sessions     []model.StudySession
	achievements []model.Achievement
	settings     model.Settings
}

// loadState reads every key. Missing keys and malformed values fall back
// to empty collections or default settings; only backend failures are
// returned.
func loadState(ctx context.Context, kv storage.KV, logger *zap.Logger) (state, error) {
	st := state{settings: model.DefaultSettings()}

	read := func(key string) ([]byte, error) {
		raw, ok, err := kv.Get(ctx, key)
		if err != nil {
			return nil, &model.PersistenceError{Key: key, Err: err}
		}
		if !ok {
			return nil, nil
		}
		return []byte(raw), nil
	}

	var err error
	var raw []byte
	if raw, err = read(storage.KeyTasks); err != nil {
		return state{}, err
	}
	st.tasks = decodeOrEmpty[model.Task](raw, storage.KeyTasks, logger)
	if raw, err = read(storage.KeyGoals); err != nil {
		return state{}, err
	}
	st.goals = decodeOrEmpty[model.Goal](raw, storage.KeyGoals, logger)
	if raw, err = read(storage.KeyExams); err != nil {
		return state{}, err
	}
	st.exams = decodeOrEmpty[model.Exam](raw, storage.KeyExams, logger)
	if raw, err = read(storage.KeyMaterials); err != nil {
		return state{}, err
	}
	st.materials = decodeOrEmpty[model.Material](raw, storage.KeyMaterials, logger)
	if raw, err = read(storage.KeySessions); err != nil {
		return state{}, err
	}
	st.sessions = decodeOrEmpty[model.StudySession](raw, storage.KeySessions, logger)
	if raw, err = read(storage.KeyAchievements); err != nil {
		return state{}, err
	}
	st.achievements = decodeOrEmpty[model.Achievement](raw, storage.KeyAchievements, logger)

	if raw, err = read(storage.KeySettings); err != nil {
		return state{}, err
	}
	if raw != nil {
		settings := model.DefaultSettings()
		if err := json.Unmarshal(raw, &settings); err != nil {
			logger.Warn("malformed settings, using defaults", zap.Error(err))
		} else {
			st.settings = settings.Normalize()
		}
	}

	for i := range st.tasks {
		st.tasks[i] = model.RepairTask(st.tasks[i], st.tasks[i].CreatedAt)
	}
	return st, nil
}

func decodeOrEmpty[T any](raw []byte, key string, logger *zap.Logger) []T {
	out, err := model.DecodeRecords[T](raw)
	if err != nil {
		logger.Warn("malformed collection, starting empty", zap.String("key", key), zap.Error(err))
		return []T{}
	}
	return out
}

func (p *Planner) save(ctx context.Context, key string, v any) error {
	buf, err := json.Marshal(v)
	if err != nil {
		return &model.PersistenceError{Key: key, Err: fmt.Errorf("encode: %w", err)}
	}
	if err := p.kv.Set(ctx, key, string(buf)); err != nil {
		p.logger.Error("persist failed", zap.String("key", key), zap.Error(err))
		return &model.PersistenceError{Key: key, Err: err}
	}
	return nil
}

func (p *Planner) saveTasks(ctx context.Context) error {
	return p.save(ctx, storage.KeyTasks, nonNil(p.tasks.All()))
}

func (p *Planner) saveGoals(ctx context.Context) error {
	return p.save(ctx, storage.KeyGoals, nonNil(p.goals))
}

func (p *Planner) saveExams(ctx context.Context) error {
	return p.save(ctx, storage.KeyExams, nonNil(p.exams))
}

func (p *Planner) saveMaterials(ctx context.Context) error {
	return p.save(ctx, storage.KeyMaterials, nonNil(p.materials))
}

func (p *Planner) saveSessions(ctx context.Context) error {
	return p.save(ctx, storage.KeySessions, nonNil(p.sessions))
}

func (p *Planner) saveAchievements(ctx context.Context) error {
	return p.save(ctx, storage.KeyAchievements, nonNil(p.achievements.Unlocked()))
}

func (p *Planner) saveSettings(ctx context.Context) error {
	return p.save(ctx, storage.KeySettings, p.settings)
}

// saveAll writes every key and returns the first failure, still attempting
// the rest.
func (p *Planner) saveAll(ctx context.Context) error {
	var first error
	for _, fn := range []func(context.Context) error{
		p.saveTasks, p.saveGoals, p.saveExams, p.saveMaterials,
		p.saveSessions, p.saveAchievements, p.saveSettings,
	} {
		if err := fn(ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
