package update

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/studyd/internal/backup"
	"github.com/sandeepkv93/studyd/internal/commands"
	"github.com/sandeepkv93/studyd/internal/model"
	"github.com/sandeepkv93/studyd/internal/planner"
)

func (m Model) openPalette(prefill string) Model {
	m.Palette.Active = true
	m.Palette.Input = prefill
	m.commandInput.SetValue(prefill)
	m.commandInput.CursorEnd()
	m.commandInput.Focus()
	m.Status = StatusBar{Text: "command palette active"}
	return m
}

func (m Model) closePalette() Model {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
	return m
}

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m = m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
		return m, nil
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	m.Palette.Input = m.commandInput.Value()
	return m, cmd
}

func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m = m.closePalette()
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	p := m.Planner
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			t, err := p.CreateTask(m.ctx, model.TaskInput{
				Title:           a.Title,
				Date:            commands.ResolveDate(a.Date, p.Now()),
				Time:            a.Time,
				Priority:        a.Priority,
				Subject:         a.Subject,
				DurationMinutes: a.Minutes,
			})
			if err != nil && t.ID == "" {
				return commands.Result{}, err
			}
			m.CurrentView = ViewTasks
			return commands.Result{Message: fmt.Sprintf("added task: %s", t.Title)}, err
		},
		Done: func(a commands.IndexArgs) (commands.Result, error) {
			t, err := m.taskAt(a.Index)
			if err != nil {
				return commands.Result{}, invalidArg(err)
			}
			if err := p.ToggleTask(m.ctx, t.ID); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("toggled: %s", t.Title)}, nil
		},
		Delete: func(a commands.IndexArgs) (commands.Result, error) {
			if section, ok := targetSections[a.Target]; ok {
				if a.Index > m.countIn(section) {
					return commands.Result{}, invalidArg(fmt.Errorf("no %s #%d", a.Target, a.Index))
				}
				title, err := m.deleteAt(section, a.Index-1)
				if err != nil {
					return commands.Result{}, err
				}
				return commands.Result{Message: fmt.Sprintf("deleted %s: %s", a.Target, title)}, nil
			}
			t, err := m.taskAt(a.Index)
			if err != nil {
				return commands.Result{}, invalidArg(err)
			}
			if err := p.DeleteTask(m.ctx, t.ID); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("deleted: %s", t.Title)}, nil
		},
		Show: func(s commands.ShowArgs) (commands.Result, error) {
			f, err := planner.ParseFilter(s.Filter)
			if err != nil {
				return commands.Result{}, invalidArg(err)
			}
			m.Filter = f
			m.TaskCursor = 0
			m.CurrentView = ViewTasks
			return commands.Result{Message: fmt.Sprintf("filter: %s", f)}, nil
		},
		Study: func(a commands.MinutesArgs) (commands.Result, error) {
			err := p.UpdateSettings(m.ctx, func(s *model.Settings) { s.DefaultStudyMinutes = a.Minutes })
			return commands.Result{Message: fmt.Sprintf("study sessions set to %d minutes", a.Minutes)}, err
		},
		Break: func(a commands.MinutesArgs) (commands.Result, error) {
			err := p.UpdateSettings(m.ctx, func(s *model.Settings) { s.DefaultBreakMinutes = a.Minutes })
			return commands.Result{Message: fmt.Sprintf("breaks set to %d minutes", a.Minutes)}, err
		},
		Goal: func(a commands.GoalArgs) (commands.Result, error) {
			g, err := p.AddGoal(m.ctx, model.GoalInput{
				Title:    a.Title,
				Deadline: commands.ResolveDate(a.Deadline, p.Now()),
				Subject:  a.Subject,
			})
			if err != nil && g.ID == "" {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("added goal: %s", g.Title)}, err
		},
		Exam: func(a commands.ExamArgs) (commands.Result, error) {
			e, err := p.AddExam(m.ctx, model.ExamInput{
				Title:           a.Title,
				Subject:         a.Subject,
				DateTime:        strings.TrimSpace(commands.ResolveDate(a.Date, p.Now()) + " " + a.Time),
				DurationMinutes: a.Minutes,
				Type:            a.Kind,
			})
			if err != nil && e.ID == "" {
				return commands.Result{}, err
			}
			m.CurrentView = ViewExams
			return commands.Result{Message: fmt.Sprintf("added exam: %s", e.Title)}, err
		},
		Material: func(a commands.MaterialArgs) (commands.Result, error) {
			mat, err := p.AddMaterial(m.ctx, model.MaterialInput{Title: a.Title, Subject: a.Subject, URL: a.URL})
			if err != nil && mat.ID == "" {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("added material: %s", mat.Title)}, err
		},
		Toggle: func(a commands.ToggleArgs) (commands.Result, error) {
			var on bool
			err := p.UpdateSettings(m.ctx, func(s *model.Settings) {
				switch a.Setting {
				case "dark":
					s.DarkMode = !s.DarkMode
					on = s.DarkMode
				case "notifications":
					s.Notifications = !s.Notifications
					on = s.Notifications
				case "sounds":
					s.Sounds = !s.Sounds
					on = s.Sounds
				case "reminders":
					s.Reminders = !s.Reminders
					on = s.Reminders
				}
			})
			return commands.Result{Message: fmt.Sprintf("%s: %s", a.Setting, onOff(on))}, err
		},
		Export: func(a commands.PathArgs) (commands.Result, error) {
			path := a.Path
			if path == "" {
				path = backup.FileName(p.Now())
			}
			f, err := os.Create(path)
			if err != nil {
				return commands.Result{}, err
			}
			defer f.Close()
			if err := p.Export(f); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("exported to %s", path)}, nil
		},
		Import: func(a commands.PathArgs) (commands.Result, error) {
			f, err := os.Open(a.Path)
			if err != nil {
				return commands.Result{}, err
			}
			defer f.Close()
			if err := p.Import(m.ctx, f); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("imported %s", a.Path)}, nil
		},
		Clear: func() (commands.Result, error) {
			if err := p.ClearAll(m.ctx); err != nil {
				return commands.Result{}, err
			}
			m.TaskCursor, m.ExamCursor = 0, 0
			return commands.Result{Message: "all data cleared"}, nil
		},
	})
	if err != nil {
		m.fail(err)
		return m, nil
	}
	m.Status = StatusBar{Text: res.Message}
	return m, nil
}

var targetSections = map[string]Section{
	commands.TargetGoal:     SectionGoals,
	commands.TargetExam:     SectionExams,
	commands.TargetMaterial: SectionMaterials,
}

func (m Model) countIn(section Section) int {
	m.Section = section
	return m.sectionLen()
}

func invalidArg(err error) error {
	return &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
