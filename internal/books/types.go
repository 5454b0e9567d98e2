// Package books implements the Zoho Books domain operations exposed as
// MCP tools. Every function validates its input before touching the
// network and normalizes pagination into a flat result shape.
package books

import (
	"context"
	"fmt"
	"time"
)

// API is the request surface the domain functions need. Satisfied by
// zoho.Client.
type API interface {
	Request(ctx context.Context, method, endpoint string, params map[string]string, body any, headers map[string]string) (map[string]any, error)
}

// ValidationError reports bad input caught before any network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

const dateLayout = "2006-01-02"

// NormalizeDate renders a date value as YYYY-MM-DD. It accepts a
// time.Time or a string already in that layout; anything else is a
// validation error.
func NormalizeDate(field string, v any) (string, error) {
	switch d := v.(type) {
	case time.Time:
		return d.Format(dateLayout), nil
	case string:
		parsed, err := time.Parse(dateLayout, d)
		if err != nil {
			return "", invalid(field, fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", d))
		}
		return parsed.Format(dateLayout), nil
	default:
		return "", invalid(field, fmt.Sprintf("unsupported date type %T", v))
	}
}

// PageInfo is the normalized pagination block attached to list results.
type PageInfo struct {
	Page        int  `json:"page"`
	PageSize    int  `json:"page_size"`
	HasMorePage bool `json:"has_more_page"`
	Total       int  `json:"total"`
}

// pageInfoFrom flattens the upstream page_context object, falling back
// to the requested page and size when the API omits it.
func pageInfoFrom(resp map[string]any, page, pageSize int) PageInfo {
	info := PageInfo{Page: page, PageSize: pageSize}
	pc, ok := resp["page_context"].(map[string]any)
	if !ok {
		return info
	}
	if v, ok := pc["page"]; ok {
		info.Page = asInt(v, page)
	}
	if v, ok := pc["per_page"]; ok {
		info.PageSize = asInt(v, pageSize)
	}
	if v, ok := pc["has_more_page"].(bool); ok {
		info.HasMorePage = v
	}
	if v, ok := pc["total"]; ok {
		info.Total = asInt(v, 0)
	}
	return info
}

// asInt handles the float64 values json decoding produces.
func asInt(v any, def int) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return def
	}
}

func entityList(resp map[string]any, key string) []map[string]any {
	raw, ok := resp[key].([]any)
	if !ok {
		return []map[string]any{}
	}
	out := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func entity(resp map[string]any, key string) map[string]any {
	m, _ := resp[key].(map[string]any)
	return m
}

func messageOr(resp map[string]any, fallback string) string {
	if m, ok := resp["message"].(string); ok && m != "" {
		return m
	}
	return fallback
}

// normalizePage applies the list defaults shared by every module.
func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 25
	}
	return page, pageSize
}

// normalizeDateFields rewrites any known date keys in an update payload.
func normalizeDateFields(fields map[string]any, keys ...string) error {
	for _, key := range keys {
		v, ok := fields[key]
		if !ok {
			continue
		}
		normalized, err := NormalizeDate(key, v)
		if err != nil {
			return err
		}
		fields[key] = normalized
	}
	return nil
}
