package storage

import "time"

// Import outcomes.
const (
	ImportStatusSuccess = "success"
	ImportStatusError   = "error"
)

// ImportLog represents a single restore attempt's outcome.
type ImportLog struct {
	ID            int64     `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	Source        string    `json:"source"`
	Status        string    `json:"status"`
	TypesReceived int       `json:"types_received"`
	LogsReceived  int       `json:"logs_received"`
	DurationMs    *int      `json:"duration_ms"`
	ErrorMessage  *string   `json:"error_message"`
}

const defaultImportLogLimit = 50

func importLogLimit(limit int) int {
	if limit <= 0 {
		return defaultImportLogLimit
	}
	return limit
}
