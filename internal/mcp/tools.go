package mcp

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"github.com/booksmcp/booksmcp/internal/audit"
	"github.com/booksmcp/booksmcp/internal/books"
	"github.com/booksmcp/booksmcp/internal/config"
	"github.com/booksmcp/booksmcp/internal/zoho"
)

type handlers struct {
	cfg    *config.Config
	svc    *books.Service
	client *zoho.Client
	audit  *audit.Store
	logger *slog.Logger
}

// jsonResult marshals a tool result as indented JSON text.
func jsonResult(v any) *mcplib.CallToolResult {
	data, _ := json.MarshalIndent(v, "", "  ")
	return mcplib.NewToolResultText(string(data))
}

// toolError maps domain and gateway errors onto a structured error
// result. Tool failures are reported in-band, never as protocol errors.
func (h *handlers) toolError(op string, err error) *mcplib.CallToolResult {
	var ve *books.ValidationError
	if errors.As(err, &ve) {
		return mcplib.NewToolResultError(fmt.Sprintf("validation error: %s", ve.Error()))
	}

	var ae *zoho.APIError
	if errors.As(err, &ae) {
		h.logger.Error("tool call failed", "op", op, "kind", ae.Kind, "status", ae.StatusCode)
		payload := map[string]any{
			"error":       string(ae.Kind),
			"status_code": ae.StatusCode,
			"message":     ae.Message,
		}
		if ae.Code != "" {
			payload["code"] = ae.Code
		}
		if ae.Resource != "" {
			payload["resource"] = ae.Resource
			payload["id"] = ae.ID
		}
		data, _ := json.Marshal(payload)
		return mcplib.NewToolResultError(string(data))
	}

	h.logger.Error("tool call failed", "op", op, "error", err)
	return mcplib.NewToolResultError(fmt.Sprintf("%s failed: %v", op, err))
}

// updateFields collects the optional update arguments that were
// actually provided, keyed by their wire names.
func updateFields(request mcplib.CallToolRequest, keys ...string) map[string]any {
	args := request.GetArguments()
	fields := map[string]any{}
	for _, key := range keys {
		if v, ok := args[key]; ok && v != nil {
			fields[key] = v
		}
	}
	return fields
}

// lineItems converts a JSON array argument into the shape the domain
// layer expects.
func lineItems(request mcplib.CallToolRequest, key string) []map[string]any {
	raw, ok := request.GetArguments()[key].([]any)
	if !ok {
		return nil
	}
	items := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]any); ok {
			items = append(items, m)
		}
	}
	return items
}

func objectArg(request mcplib.CallToolRequest, key string) map[string]any {
	m, _ := request.GetArguments()[key].(map[string]any)
	return m
}

func stringList(request mcplib.CallToolRequest, key string) []string {
	raw, ok := request.GetArguments()[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// optionalDate returns the argument untouched so the domain layer can
// normalize and validate it, or nil when absent.
func optionalDate(request mcplib.CallToolRequest, key string) any {
	v, ok := request.GetArguments()[key]
	if !ok || v == nil || v == "" {
		return nil
	}
	return v
}
