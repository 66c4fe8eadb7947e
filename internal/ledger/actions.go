package ledger

import "github.com/claude/reptracker/internal/models"

// Action is a state transition request. The concrete types below are the
// only ones Reduce understands; any other Action is ignored.
type Action interface {
	ActionName() string
}

type SetDailyGoal struct{ Goal int }

type SetStartDate struct{ Date string }

type AddType struct{ Type models.ExerciseType }

// UpdateType replaces the type with the same ID wholesale.
type UpdateType struct{ Type models.ExerciseType }

type ArchiveType struct{ ID string }

type AddLog struct{ Entry models.LogEntry }

type DeleteLog struct{ ID string }

// ImportState replaces the whole ledger.
type ImportState struct{ State models.AppState }

// ResetState restores the default ledger with tracking starting today.
type ResetState struct{}

func (SetDailyGoal) ActionName() string { return "SET_DAILY_GOAL" }
func (SetStartDate) ActionName() string { return "SET_START_DATE" }
func (AddType) ActionName() string      { return "ADD_TYPE" }
func (UpdateType) ActionName() string   { return "UPDATE_TYPE" }
func (ArchiveType) ActionName() string  { return "ARCHIVE_TYPE" }
func (AddLog) ActionName() string       { return "ADD_LOG" }
func (DeleteLog) ActionName() string    { return "DELETE_LOG" }
func (ImportState) ActionName() string  { return "IMPORT_STATE" }
func (ResetState) ActionName() string   { return "RESET_STATE" }
