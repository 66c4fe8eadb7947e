package models

// ExerciseType is a user-defined category that repetitions are counted against.
type ExerciseType struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	IsArchived bool   `json:"isArchived"`
}

// LogEntry is one recorded batch of repetitions.
// Timestamp is when the entry was made (ms since epoch); DateKey is the day it
// counts toward, which differs from the timestamp's day when backfilling.
type LogEntry struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
	DateKey   string `json:"dateKey"`
	TypeID    string `json:"typeId"`
	Count     int    `json:"count"`
}

// Settings holds the tracking configuration.
type Settings struct {
	DailyGoal int    `json:"dailyGoal"`
	StartDate string `json:"startDate"`
}

// AppState is the whole ledger: the unit that is persisted, exported and imported.
type AppState struct {
	Settings Settings       `json:"settings"`
	Types    []ExerciseType `json:"types"`
	Logs     []LogEntry     `json:"logs"`
}

// ChartDataPoint is one day of the performance chart. Counts holds one value
// per active exercise type, keyed by type ID.
type ChartDataPoint struct {
	DateKey string         `json:"dateKey"`
	Label   string         `json:"label"`
	Goal    int            `json:"goal"`
	Counts  map[string]int `json:"counts"`
}

// Defaults for a fresh ledger.
const (
	DefaultDailyGoal = 50
	UnknownTypeName  = "Unknown"
	UnknownTypeColor = "#1A1B41"
)

// DefaultTypes returns the exercise types seeded into a fresh ledger.
func DefaultTypes() []ExerciseType {
	return []ExerciseType{
		{ID: "default-standard", Name: "Standard", Color: "#6290C3"},
		{ID: "default-chair-dips", Name: "Chair Dips", Color: "#BAFF29"},
	}
}

// DefaultState returns a fresh ledger whose tracking starts on startDate.
func DefaultState(startDate string) AppState {
	return AppState{
		Settings: Settings{DailyGoal: DefaultDailyGoal, StartDate: startDate},
		Types:    DefaultTypes(),
		Logs:     []LogEntry{},
	}
}

// ActiveTypes returns the non-archived types in their original order.
func (s AppState) ActiveTypes() []ExerciseType {
	var out []ExerciseType
	for _, t := range s.Types {
		if !t.IsArchived {
			out = append(out, t)
		}
	}
	return out
}

// FindType returns the type with the given ID.
func (s AppState) FindType(id string) (ExerciseType, bool) {
	for _, t := range s.Types {
		if t.ID == id {
			return t, true
		}
	}
	return ExerciseType{}, false
}

// TypeNames maps type IDs to display names.
func TypeNames(types []ExerciseType) map[string]string {
	names := make(map[string]string, len(types))
	for _, t := range types {
		names[t.ID] = t.Name
	}
	return names
}

// Normalized returns s with nil slices replaced by empty ones, so the JSON
// form always carries arrays.
func (s AppState) Normalized() AppState {
	if s.Types == nil {
		s.Types = []ExerciseType{}
	}
	if s.Logs == nil {
		s.Logs = []LogEntry{}
	}
	return s
}
