// Package validation checks decoded JSON documents against the ledger shape
// before they are trusted as state. Validators work on the generic values
// produced by encoding/json (map[string]any, []any, float64, string, bool,
// nil), report every problem they find and never panic.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"

	"go.uber.org/multierr"

	"github.com/claude/reptracker/internal/models"
)

// maxWhole is the largest integer a JSON number carries exactly as float64.
const maxWhole = 1<<53 - 1

var (
	dateKeyRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
)

// Result is the outcome of a validator. Valid is true exactly when Errors is empty.
type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// Err folds the errors into a single error, or nil when the result is valid.
func (r Result) Err() error {
	var err error
	for _, e := range r.Errors {
		err = multierr.Append(err, errors.New(e))
	}
	return err
}

func result(errs []string) Result {
	if errs == nil {
		errs = []string{}
	}
	return Result{Valid: len(errs) == 0, Errors: errs}
}

func invalid(msg string) Result {
	return Result{Valid: false, Errors: []string{msg}}
}

// nonNegativeWhole reports whether v is a JSON number that is >= 0, has no
// fractional part and is small enough to be held exactly.
func nonNegativeWhole(v any) bool {
	n, ok := v.(float64)
	if !ok {
		return false
	}
	return n >= 0 && n <= maxWhole && n == math.Trunc(n)
}

// object returns the fields of v. Arrays count as objects without fields, so
// they report the missing-field errors rather than the not-an-object one.
func object(v any) (map[string]any, bool) {
	switch o := v.(type) {
	case map[string]any:
		return o, true
	case []any:
		return map[string]any{}, true
	default:
		return nil, false
	}
}

func nonEmptyString(v any) bool {
	s, ok := v.(string)
	return ok && s != ""
}

func matches(re *regexp.Regexp, v any) bool {
	s, ok := v.(string)
	return ok && re.MatchString(s)
}

// ValidateSettings checks a settings object.
func ValidateSettings(data any) Result {
	m, ok := object(data)
	if !ok {
		return invalid("Settings must be an object")
	}

	var errs []string
	if !nonNegativeWhole(m["dailyGoal"]) {
		errs = append(errs, "dailyGoal must be a non-negative number")
	}
	if !matches(dateKeyRe, m["startDate"]) {
		errs = append(errs, "startDate must be a valid date string (YYYY-MM-DD)")
	}
	return result(errs)
}

// ValidateExerciseType checks an exercise type object. Only six-digit hex
// colours are accepted.
func ValidateExerciseType(data any) Result {
	m, ok := object(data)
	if !ok {
		return invalid("ExerciseType must be an object")
	}

	var errs []string
	if !nonEmptyString(m["id"]) {
		errs = append(errs, "id must be a non-empty string")
	}
	if !nonEmptyString(m["name"]) {
		errs = append(errs, "name must be a non-empty string")
	}
	if !matches(hexColorRe, m["color"]) {
		errs = append(errs, "color must be a valid hex color (e.g., #FFFFFF)")
	}
	if _, ok := m["isArchived"].(bool); !ok {
		errs = append(errs, "isArchived must be a boolean")
	}
	return result(errs)
}

// ValidateLogEntry checks a log entry object.
func ValidateLogEntry(data any) Result {
	m, ok := object(data)
	if !ok {
		return invalid("LogEntry must be an object")
	}

	var errs []string
	if !nonEmptyString(m["id"]) {
		errs = append(errs, "id must be a non-empty string")
	}
	if !nonNegativeWhole(m["timestamp"]) {
		errs = append(errs, "timestamp must be a non-negative number")
	}
	if !matches(dateKeyRe, m["dateKey"]) {
		errs = append(errs, "dateKey must be a valid date string (YYYY-MM-DD)")
	}
	if !nonEmptyString(m["typeId"]) {
		errs = append(errs, "typeId must be a non-empty string")
	}
	if !nonNegativeWhole(m["count"]) {
		errs = append(errs, "count must be a non-negative number")
	}
	return result(errs)
}

// ValidateAppState checks a whole ledger document and collects the errors of
// every nested value, prefixed with its location.
func ValidateAppState(data any) Result {
	m, ok := object(data)
	if !ok {
		return invalid("AppState must be an object")
	}

	var errs []string
	for _, e := range ValidateSettings(m["settings"]).Errors {
		errs = append(errs, "settings: "+e)
	}

	if types, ok := m["types"].([]any); ok {
		for i, t := range types {
			for _, e := range ValidateExerciseType(t).Errors {
				errs = append(errs, fmt.Sprintf("types[%d]: %s", i, e))
			}
		}
	} else {
		errs = append(errs, "types must be an array")
	}

	if logs, ok := m["logs"].([]any); ok {
		for i, l := range logs {
			for _, e := range ValidateLogEntry(l).Errors {
				errs = append(errs, fmt.Sprintf("logs[%d]: %s", i, e))
			}
		}
	} else {
		errs = append(errs, "logs must be an array")
	}
	return result(errs)
}

// ValidateAppStateJSON decodes data and validates the result. A decode
// failure is returned as the error; structural problems are in the Result.
func ValidateAppStateJSON(data []byte) (Result, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return Result{}, err
	}
	return ValidateAppState(v), nil
}

// DecodeAppState decodes and validates data in one pass. When the Result is
// valid the returned state is built from the same decoded values, so any
// number the validator accepted (5.0, 1e3) is carried over as is.
func DecodeAppState(data []byte) (models.AppState, Result, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return models.AppState{}, Result{}, err
	}
	r := ValidateAppState(v)
	if !r.Valid {
		return models.AppState{}, r, nil
	}
	return buildState(v), r, nil
}

// buildState converts a tree that passed ValidateAppState.
func buildState(v any) models.AppState {
	m, _ := object(v)
	settings, _ := object(m["settings"])
	state := models.AppState{
		Settings: models.Settings{
			DailyGoal: int(settings["dailyGoal"].(float64)),
			StartDate: settings["startDate"].(string),
		},
		Types: []models.ExerciseType{},
		Logs:  []models.LogEntry{},
	}
	for _, t := range m["types"].([]any) {
		f, _ := object(t)
		state.Types = append(state.Types, models.ExerciseType{
			ID:         f["id"].(string),
			Name:       f["name"].(string),
			Color:      f["color"].(string),
			IsArchived: f["isArchived"].(bool),
		})
	}
	for _, l := range m["logs"].([]any) {
		f, _ := object(l)
		state.Logs = append(state.Logs, models.LogEntry{
			ID:        f["id"].(string),
			Timestamp: int64(f["timestamp"].(float64)),
			DateKey:   f["dateKey"].(string),
			TypeID:    f["typeId"].(string),
			Count:     int(f["count"].(float64)),
		})
	}
	return state
}

func IsAppState(data any) bool     { return ValidateAppState(data).Valid }
func IsSettings(data any) bool     { return ValidateSettings(data).Valid }
func IsExerciseType(data any) bool { return ValidateExerciseType(data).Valid }
func IsLogEntry(data any) bool     { return ValidateLogEntry(data).Valid }

// IsHexColor reports whether s is a six-digit #RRGGBB colour.
func IsHexColor(s string) bool { return hexColorRe.MatchString(s) }
