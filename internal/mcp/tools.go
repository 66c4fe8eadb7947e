package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/reptracker/internal/calc"
	"github.com/claude/reptracker/internal/datekey"
	"github.com/claude/reptracker/internal/tracker"
)

// --- Tool definitions ---

var toolGetDashboard = mcp.NewTool("get_dashboard",
	mcp.WithDescription("Today's progress against the daily goal, cumulative debt since the start date, total reps and a per-day chart over the selected range."),
	mcp.WithString("range", mcp.Description("Chart range. Defaults to 14d."), mcp.Enum("7d", "14d", "30d", "mtd")),
)

var toolGetDay = mcp.NewTool("get_day",
	mcp.WithDescription("Total, breakdown by exercise type and individual entries (newest first) for one day."),
	mcp.WithString("date", mcp.Description("Day as YYYY-MM-DD. Defaults to today.")),
)

var toolListExerciseTypes = mcp.NewTool("list_exercise_types",
	mcp.WithDescription("List exercise types with their ids, colours and archived status. Use an active type's id with log_reps."),
)

var toolLogReps = mcp.NewTool("log_reps",
	mcp.WithDescription("Record reps for an active exercise type. Past days may be backfilled; future days are rejected."),
	mcp.WithString("type_id", mcp.Required(), mcp.Description("Exercise type id from list_exercise_types")),
	mcp.WithNumber("count", mcp.Required(), mcp.Description("Number of reps, greater than zero")),
	mcp.WithString("date", mcp.Description("Day as YYYY-MM-DD. Defaults to today.")),
)

// --- Tool handlers ---

func (h *handlers) getDashboard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rng, err := calc.ParseRange(req.GetString("range", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	d, err := h.ds.Dashboard(ctx, rng)
	if err != nil {
		h.log.Error("mcp get_dashboard", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(d)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getDay(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key := req.GetString("date", "")
	if key == "" {
		key = datekey.Today()
	}

	day, err := h.ds.Day(ctx, key)
	if err != nil {
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(day)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listExerciseTypes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	types, err := h.ds.Types(ctx)
	if err != nil {
		h.log.Error("mcp list_exercise_types", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(types)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) logReps(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	typeID, err := req.RequireString("type_id")
	if err != nil {
		return mcp.NewToolResultError("type_id parameter is required"), nil
	}
	count, err := req.RequireInt("count")
	if err != nil {
		return mcp.NewToolResultError("count parameter is required"), nil
	}

	entry, err := h.ds.LogReps(ctx, tracker.LogRequest{
		TypeID:  typeID,
		Count:   count,
		DateKey: req.GetString("date", ""),
	})
	if err != nil {
		return mcp.NewToolResultError("log_reps failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(entry)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
