package books

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// apiCall records a single request seen by the fake gateway.
type apiCall struct {
	Method   string
	Endpoint string
	Params   map[string]string
	Body     any
}

// fakeAPI scripts responses and records every call.
type fakeAPI struct {
	calls     []apiCall
	responses []map[string]any
	err       error
}

func (f *fakeAPI) Request(ctx context.Context, method, endpoint string, params map[string]string, body any, headers map[string]string) (map[string]any, error) {
	f.calls = append(f.calls, apiCall{Method: method, Endpoint: endpoint, Params: params, Body: body})
	if f.err != nil {
		return nil, f.err
	}
	if len(f.responses) == 0 {
		return map[string]any{}, nil
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

func newTestService(responses ...map[string]any) (*Service, *fakeAPI) {
	api := &fakeAPI{responses: responses}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(api, logger), api
}

func bodyMap(t *testing.T, call apiCall) map[string]any {
	t.Helper()
	m, ok := call.Body.(map[string]any)
	require.True(t, ok, "request body is not a map")
	return m
}

func TestNormalizeDate(t *testing.T) {
	got, err := NormalizeDate("date", "2025-01-15")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-15", got)

	got, err = NormalizeDate("date", time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "2025-01-15", got)

	_, err = NormalizeDate("date", "15/01/2025")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "date", ve.Field)

	_, err = NormalizeDate("date", 42)
	require.ErrorAs(t, err, &ve)
}

func TestPageInfoFrom(t *testing.T) {
	resp := map[string]any{
		"page_context": map[string]any{
			"page":          float64(2),
			"per_page":      float64(10),
			"has_more_page": true,
			"total":         float64(57),
		},
	}
	info := pageInfoFrom(resp, 1, 25)
	assert.Equal(t, PageInfo{Page: 2, PageSize: 10, HasMorePage: true, Total: 57}, info)

	// Missing page_context falls back to the requested values.
	info = pageInfoFrom(map[string]any{}, 3, 50)
	assert.Equal(t, PageInfo{Page: 3, PageSize: 50}, info)
}
