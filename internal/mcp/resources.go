package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/reptracker/internal/calc"
)

func (h *handlers) today(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	dash, err := h.ds.Dashboard(ctx, calc.Range7Days)
	if err != nil {
		return nil, err
	}

	day, err := h.ds.Day(ctx, dash.Today)
	if err != nil {
		h.log.Warn("today: day query failed", "error", err)
	}

	summary := map[string]any{
		"date":      dash.Today,
		"progress":  dash.Progress,
		"debt":      dash.Debt,
		"breakdown": dash.Breakdown,
		"entries":   day.Entries,
	}
	return jsonContents(req.Params.URI, summary)
}

func (h *handlers) types(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	types, err := h.ds.Types(ctx)
	if err != nil {
		return nil, err
	}
	return jsonContents(req.Params.URI, types)
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
