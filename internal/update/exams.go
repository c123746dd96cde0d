package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/studyd/internal/views"
)

// Section is the list that j/k and d act on in the Exams view.
type Section string

const (
	SectionExams     Section = "exams"
	SectionGoals     Section = "goals"
	SectionMaterials Section = "materials"
)

var sectionOrder = []Section{SectionExams, SectionGoals, SectionMaterials}

func nextSection(s Section) Section {
	for i, known := range sectionOrder {
		if known == s {
			return sectionOrder[(i+1)%len(sectionOrder)]
		}
	}
	return SectionExams
}

func (m Model) sectionLen() int {
	switch m.Section {
	case SectionGoals:
		return len(m.Planner.Goals())
	case SectionMaterials:
		return len(m.Planner.Materials())
	default:
		return len(m.Planner.Exams())
	}
}

func (m *Model) sectionCursor() *int {
	switch m.Section {
	case SectionGoals:
		return &m.GoalCursor
	case SectionMaterials:
		return &m.MaterialCursor
	default:
		return &m.ExamCursor
	}
}

func (m Model) handleExamsKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "s":
		m.Section = nextSection(m.Section)
		m.Status = StatusBar{Text: fmt.Sprintf("section: %s", m.Section)}
	case "j", "down":
		cur := m.sectionCursor()
		*cur = clampCursor(*cur+1, m.sectionLen())
	case "k", "up":
		cur := m.sectionCursor()
		*cur = clampCursor(*cur-1, m.sectionLen())
	case "d":
		title, err := m.deleteAt(m.Section, *m.sectionCursor())
		if err != nil {
			m.fail(err)
			return m, nil
		}
		if title != "" {
			m.Status = StatusBar{Text: fmt.Sprintf("deleted %s: %s", singular(m.Section), title)}
		}
	}
	return m, nil
}

// deleteAt removes the row at the 0-based index of section and returns
// its title. An out-of-range index deletes nothing.
func (m Model) deleteAt(section Section, index int) (string, error) {
	switch section {
	case SectionGoals:
		goals := m.Planner.Goals()
		if index < 0 || index >= len(goals) {
			return "", nil
		}
		return goals[index].Title, m.Planner.DeleteGoal(m.ctx, goals[index].ID)
	case SectionMaterials:
		materials := m.Planner.Materials()
		if index < 0 || index >= len(materials) {
			return "", nil
		}
		return materials[index].Title, m.Planner.DeleteMaterial(m.ctx, materials[index].ID)
	default:
		exams := m.Planner.Exams()
		if index < 0 || index >= len(exams) {
			return "", nil
		}
		return exams[index].Title, m.Planner.DeleteExam(m.ctx, exams[index].ID)
	}
}

func singular(s Section) string {
	switch s {
	case SectionGoals:
		return "goal"
	case SectionMaterials:
		return "material"
	default:
		return "exam"
	}
}

func (m Model) renderExamsView() string {
	now := m.Planner.Now()
	countdowns := m.Planner.ExamCountdowns(now)
	rows := make([]views.ExamRowData, 0, len(countdowns))
	for _, c := range countdowns {
		rows = append(rows, views.ExamRowData{
			Title:     c.Exam.Title,
			When:      c.Exam.DateTime,
			Minutes:   c.Exam.DurationMinutes,
			Subject:   c.Exam.Subject,
			Countdown: c.Label,
			Expired:   c.Expired,
		})
	}

	goals := make([]string, 0)
	for _, g := range m.Planner.Goals() {
		line := fmt.Sprintf("%s (due %s)", g.Title, g.Deadline)
		if g.Subject != "" {
			line += " #" + g.Subject
		}
		goals = append(goals, line)
	}
	materials := make([]string, 0)
	for _, mat := range m.Planner.Materials() {
		line := mat.Title
		if mat.URL != "" {
			line += " <" + mat.URL + ">"
		}
		materials = append(materials, line)
	}

	table := ""
	if len(m.Planner.Exams()) > 0 {
		table = m.examTable.View()
	}
	return views.RenderExamsPanel(views.ExamsPanelData{
		Section:        string(m.Section),
		TableView:      table,
		Countdowns:     rows,
		Goals:          goals,
		GoalCursor:     m.GoalCursor,
		Materials:      materials,
		MaterialCursor: m.MaterialCursor,
	})
}
