package tracker

import (
	"github.com/claude/reptracker/internal/calc"
	"github.com/claude/reptracker/internal/models"
)

// LogRequest asks for Count repetitions of TypeID on DateKey (today when empty).
type LogRequest struct {
	TypeID  string `json:"typeId"`
	Count   int    `json:"count"`
	DateKey string `json:"dateKey,omitempty"`
}

// Dashboard is everything the home screen shows.
type Dashboard struct {
	Today       string                  `json:"today"`
	Range       calc.ChartRange         `json:"range"`
	Settings    models.Settings         `json:"settings"`
	Progress    calc.Progress           `json:"progress"`
	Breakdown   map[string]int          `json:"breakdown"`
	Debt        int                     `json:"debt"`
	TotalReps   int                     `json:"totalReps"`
	Chart       []models.ChartDataPoint `json:"chart"`
	ActiveTypes []models.ExerciseType   `json:"activeTypes"`
}

// EntryView is a log entry with its type resolved for display.
type EntryView struct {
	models.LogEntry
	TypeName  string `json:"typeName"`
	TypeColor string `json:"typeColor"`
}

// DayView is one day's entries, newest first.
type DayView struct {
	DateKey   string         `json:"dateKey"`
	Label     string         `json:"label"`
	Total     int            `json:"total"`
	Goal      int            `json:"goal"`
	Breakdown map[string]int `json:"breakdown"`
	Entries   []EntryView    `json:"entries"`
}
