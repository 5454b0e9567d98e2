package mcp

import (
	"context"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"github.com/booksmcp/booksmcp/internal/audit"
)

func requestLogTool() mcplib.Tool {
	return mcplib.NewTool("request_log",
		mcplib.WithDescription(
			"Query the local API request log. Returns recent Zoho Books API calls "+
				"with status codes, error kinds, and retry information.",
		),
		mcplib.WithString("method",
			mcplib.Description("Filter by HTTP method: GET, POST, PUT, DELETE"),
		),
		mcplib.WithString("endpoint",
			mcplib.Description("Filter by exact endpoint, e.g. /invoices"),
		),
		mcplib.WithString("error_kind",
			mcplib.Description("Filter by error kind: authentication, rate_limit, not_found, request"),
		),
		mcplib.WithBoolean("failed",
			mcplib.Description("Only show requests that returned a 4xx or 5xx status"),
		),
		mcplib.WithNumber("limit",
			mcplib.Description("Maximum entries to return (default 20)"),
		),
		mcplib.WithReadOnlyHintAnnotation(true),
		mcplib.WithDestructiveHintAnnotation(false),
		mcplib.WithOpenWorldHintAnnotation(false),
	)
}

func (h *handlers) handleRequestLog(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	if h.audit == nil {
		return mcplib.NewToolResultError("request logging is not enabled; set audit_db in the configuration"), nil
	}

	limit := request.GetInt("limit", 0)
	if limit <= 0 {
		limit = 20
	}

	entries, err := h.audit.Query(audit.QueryOpts{
		Method:    request.GetString("method", ""),
		Endpoint:  request.GetString("endpoint", ""),
		ErrorKind: request.GetString("error_kind", ""),
		Failed:    request.GetBool("failed", false),
		Limit:     limit,
	})
	if err != nil {
		return mcplib.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
	}

	return jsonResult(map[string]any{
		"entries": entries,
		"total":   len(entries),
	}), nil
}
