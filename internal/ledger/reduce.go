package ledger

import (
	"slices"

	"github.com/claude/reptracker/internal/models"
)

// Reduce applies action to state and reports whether anything changed.
// The input is never modified: every changed slice is a fresh copy, so
// snapshots handed out earlier stay valid. Unknown actions and actions that
// name a missing ID return the state unchanged, as does archiving the last
// active type.
func Reduce(state models.AppState, action Action, today string) (models.AppState, bool) {
	switch a := action.(type) {
	case SetDailyGoal:
		if state.Settings.DailyGoal == a.Goal {
			return state, false
		}
		state.Settings.DailyGoal = a.Goal
		return state, true

	case SetStartDate:
		if state.Settings.StartDate == a.Date {
			return state, false
		}
		state.Settings.StartDate = a.Date
		return state, true

	case AddType:
		state.Types = append(slices.Clip(state.Types), a.Type)
		return state, true

	case UpdateType:
		i := indexOfType(state.Types, a.Type.ID)
		if i < 0 {
			return state, false
		}
		state.Types = slices.Clone(state.Types)
		state.Types[i] = a.Type
		return state, true

	case ArchiveType:
		i := indexOfType(state.Types, a.ID)
		if i < 0 || state.Types[i].IsArchived || len(state.ActiveTypes()) <= 1 {
			return state, false
		}
		state.Types = slices.Clone(state.Types)
		state.Types[i].IsArchived = true
		return state, true

	case AddLog:
		state.Logs = append(slices.Clip(state.Logs), a.Entry)
		return state, true

	case DeleteLog:
		kept := make([]models.LogEntry, 0, len(state.Logs))
		for _, l := range state.Logs {
			if l.ID != a.ID {
				kept = append(kept, l)
			}
		}
		if len(kept) == len(state.Logs) {
			return state, false
		}
		state.Logs = kept
		return state, true

	case ImportState:
		return a.State, true

	case ResetState:
		return models.DefaultState(today), true

	default:
		return state, false
	}
}

func indexOfType(types []models.ExerciseType, id string) int {
	return slices.IndexFunc(types, func(t models.ExerciseType) bool { return t.ID == id })
}
