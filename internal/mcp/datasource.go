package mcp

import (
	"context"

	"github.com/claude/reptracker/internal/calc"
	"github.com/claude/reptracker/internal/models"
	"github.com/claude/reptracker/internal/tracker"
)

// DataSource abstracts the tracker for MCP tools. Both *tracker.Service (local)
// and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	Dashboard(ctx context.Context, r calc.ChartRange) (tracker.Dashboard, error)
	Day(ctx context.Context, key string) (tracker.DayView, error)
	Types(ctx context.Context) ([]models.ExerciseType, error)
	LogReps(ctx context.Context, req tracker.LogRequest) (models.LogEntry, error)
	State(ctx context.Context) (models.AppState, error)
}

// Compile-time check: *tracker.Service satisfies DataSource.
var _ DataSource = (*tracker.Service)(nil)
