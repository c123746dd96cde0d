package model

import (
	"strings"
	"time"
)

const SessionTypeStudy = "study"

type StudySession struct {
	ID              string    `json:"id"`
	Date            string    `json:"date"`
	DurationMinutes int       `json:"duration"`
	Type            string    `json:"type"`
	CompletedAt     time.Time `json:"completedAt"`
}

type Goal struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Subject     string    `json:"subject"`
	Deadline    string    `json:"deadline"`
	Description string    `json:"description"`
	Progress    int       `json:"progress"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
}

type GoalInput struct {
	Title       string
	Subject     string
	Deadline    string
	Description string
}

func (in GoalInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if strings.TrimSpace(in.Deadline) == "" {
		return &ValidationError{Field: "deadline", Message: "deadline is required"}
	}
	if _, err := ParseDate(in.Deadline, time.UTC); err != nil {
		return &ValidationError{Field: "deadline", Message: err.Error()}
	}
	return nil
}

type Exam struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Subject         string    `json:"subject"`
	DateTime        string    `json:"dateTime"`
	DurationMinutes int       `json:"duration"`
	Type            string    `json:"type"`
	Notes           string    `json:"notes"`
	CreatedAt       time.Time `json:"createdAt"`
}

type ExamInput struct {
	Title           string
	Subject         string
	DateTime        string
	DurationMinutes int
	Type            string
	Notes           string
}

func (in ExamInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if strings.TrimSpace(in.DateTime) == "" {
		return &ValidationError{Field: "dateTime", Message: "date and time are required"}
	}
	if _, err := ParseDateTime(in.DateTime, time.UTC); err != nil {
		return &ValidationError{Field: "dateTime", Message: err.Error()}
	}
	if in.DurationMinutes <= 0 {
		return &ValidationError{Field: "duration", Message: "duration is required"}
	}
	return nil
}

type Material struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Type        string    `json:"type"`
	Subject     string    `json:"subject"`
	URL         string    `json:"url"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

type MaterialInput struct {
	Title       string
	Type        string
	Subject     string
	URL         string
	Description string
}

func (in MaterialInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	return nil
}

type Achievement struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	UnlockedAt  time.Time `json:"unlockedAt"`
}

type Settings struct {
	DarkMode            bool `json:"darkMode"`
	Notifications       bool `json:"notifications"`
	Sounds              bool `json:"sounds"`
	Reminders           bool `json:"reminders"`
	DefaultStudyMinutes int  `json:"defaultStudyTime"`
	DefaultBreakMinutes int  `json:"defaultBreakTime"`
}

func DefaultSettings() Settings {
	return Settings{
		DarkMode:            false,
		Notifications:       true,
		Sounds:              true,
		Reminders:           true,
		DefaultStudyMinutes: 25,
		DefaultBreakMinutes: 5,
	}
}

// Normalize replaces non-positive durations with the defaults.
func (s Settings) Normalize() Settings {
	def := DefaultSettings()
	if s.DefaultStudyMinutes <= 0 {
		s.DefaultStudyMinutes = def.DefaultStudyMinutes
	}
	if s.DefaultBreakMinutes <= 0 {
		s.DefaultBreakMinutes = def.DefaultBreakMinutes
	}
	return s
}
