package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("RepTracker", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("RepTracker exercise ledger. Read daily progress against the rep goal, look up past days, list exercise types and log new reps."),
	)

	h := &handlers{ds: ds, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolGetDashboard, Handler: h.getDashboard},
		server.ServerTool{Tool: toolGetDay, Handler: h.getDay},
		server.ServerTool{Tool: toolListExerciseTypes, Handler: h.listExerciseTypes},
		server.ServerTool{Tool: toolLogReps, Handler: h.logReps},
	)

	s.AddResources(
		server.ServerResource{Resource: resToday, Handler: h.today},
		server.ServerResource{Resource: resTypes, Handler: h.types},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resToday = mcp.NewResource(
	"reptracker://today",
	"Today",
	mcp.WithResourceDescription("Today's total, goal progress, per-type breakdown and entries"),
	mcp.WithMIMEType("application/json"),
)

var resTypes = mcp.NewResource(
	"reptracker://types",
	"Exercise Types",
	mcp.WithResourceDescription("All exercise types, active first, including archived ones"),
	mcp.WithMIMEType("application/json"),
)
