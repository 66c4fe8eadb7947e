// Package export renders the ledger as CSV, XLSX and JSON backups, and
// parses JSON backups back into a validated AppState.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/claude/reptracker/internal/models"
	"github.com/claude/reptracker/internal/validation"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
)

// ParseFormat accepts "csv", "xlsx" and "json".
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatCSV, FormatXLSX, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown export format %q", s)
	}
}

// Filename returns the download name for an export made at now. The date
// part is the UTC calendar day.
func (f Format) Filename(now time.Time) string {
	date := now.UTC().Format("2006-01-02")
	if f == FormatJSON {
		return "exercise-tracker-backup-" + date + ".json"
	}
	return "exercise-tracker-" + date + "." + string(f)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/json"
	}
}

// Write renders state in format f to w. loc sets the zone of the XLSX Time column.
func Write(w io.Writer, f Format, state models.AppState, loc *time.Location) error {
	switch f {
	case FormatCSV:
		_, err := io.WriteString(w, CSV(state.Logs, state.Types))
		return err
	case FormatXLSX:
		return XLSX(w, state.Logs, state.Types, loc)
	case FormatJSON:
		data, err := JSON(state)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unknown export format %q", f)
	}
}

// ISOTimestamp formats a millisecond epoch as RFC 3339 UTC with milliseconds.
func ISOTimestamp(ms int64) string {
	return time.UnixMilli(ms).UTC().Format("2006-01-02T15:04:05.000Z")
}

func typeName(names map[string]string, id string) string {
	if name, ok := names[id]; ok {
		return name
	}
	return models.UnknownTypeName
}

// CSV renders one row per log with a Date, Type, Count, Timestamp header.
// Every cell is quoted and rows are joined by "\n" with no trailing newline.
func CSV(logs []models.LogEntry, types []models.ExerciseType) string {
	names := models.TypeNames(types)
	rows := make([]string, 0, len(logs)+1)
	rows = append(rows, csvRow("Date", "Type", "Count", "Timestamp"))
	for _, l := range logs {
		rows = append(rows, csvRow(
			l.DateKey,
			typeName(names, l.TypeID),
			strconv.Itoa(l.Count),
			ISOTimestamp(l.Timestamp),
		))
	}
	return strings.Join(rows, "\n")
}

func csvRow(cells ...string) string {
	quoted := make([]string, len(cells))
	for i, c := range cells {
		quoted[i] = `"` + strings.ReplaceAll(c, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}

// JSON renders the whole ledger as an indented backup document.
func JSON(state models.AppState) ([]byte, error) {
	return json.MarshalIndent(state.Normalized(), "", "  ")
}

// ErrParse is returned by ParseJSON when the input is not JSON.
var ErrParse = errors.New("Failed to parse JSON file")

// InvalidDataError lists the validation errors of a well-formed but invalid
// backup. It unwraps to the individual errors; use multierr.Errors to list them.
type InvalidDataError struct {
	Errors []string
	err    error
}

func (e *InvalidDataError) Error() string {
	return "Invalid data: " + strings.Join(e.Errors, ", ")
}

func (e *InvalidDataError) Unwrap() error { return e.err }

// ParseJSON decodes and validates a backup document.
func ParseJSON(data []byte) (models.AppState, error) {
	state, result, err := validation.DecodeAppState(data)
	if err != nil {
		return models.AppState{}, ErrParse
	}
	if !result.Valid {
		return models.AppState{}, &InvalidDataError{Errors: result.Errors, err: result.Err()}
	}
	return state, nil
}
