package resources

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/booksmcp/booksmcp/internal/books"
)

// routedAPI serves scripted responses keyed by endpoint, safe for the
// concurrent fetches the renderers make.
type routedAPI struct {
	mu        sync.Mutex
	responses map[string]map[string]any
	errors    map[string]error
	calls     []string
	params    map[string]map[string]string
}

func newRoutedAPI() *routedAPI {
	return &routedAPI{
		responses: map[string]map[string]any{},
		errors:    map[string]error{},
		params:    map[string]map[string]string{},
	}
}

func (f *routedAPI) Request(ctx context.Context, method, endpoint string, params map[string]string, body any, headers map[string]string) (map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, endpoint)
	f.params[endpoint] = params
	if err, ok := f.errors[endpoint]; ok {
		return nil, err
	}
	if resp, ok := f.responses[endpoint]; ok {
		return resp, nil
	}
	return map[string]any{}, nil
}

func newTestRenderer(api *routedAPI) *Renderer {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := NewRenderer(books.NewService(api, logger), api, logger)
	r.now = func() time.Time {
		return time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	}
	return r
}

func TestDashboardSummary(t *testing.T) {
	api := newRoutedAPI()
	api.responses["/organizations"] = map[string]any{
		"organizations": []any{map[string]any{"organization_id": "org1", "name": "Acme Corp"}},
	}
	api.responses["/invoices"] = map[string]any{
		"invoices": []any{
			map[string]any{"invoice_id": "1", "total": 1500.0},
			map[string]any{"invoice_id": "2", "total": 2500.0},
		},
		"page_context": map[string]any{"total": float64(7)},
	}
	r := newTestRenderer(api)

	content, err := r.DashboardSummary(context.Background())
	require.NoError(t, err)

	assert.Contains(t, content, "# Zoho Books Dashboard Summary")
	assert.Contains(t, content, "**Organization**: Acme Corp")
	assert.Contains(t, content, "**Date**: 2025-06-15 10:30")
	assert.Contains(t, content, "**Overdue Invoices**: 7")
	assert.Contains(t, content, "**Monthly Revenue**: $4,000.00 (June 2025)")
	assert.Contains(t, content, "invoice://overdue")
}

func TestDashboardSummaryFetchFailure(t *testing.T) {
	api := newRoutedAPI()
	api.errors["/organizations"] = errors.New("upstream down")
	r := newTestRenderer(api)

	content, err := r.DashboardSummary(context.Background())
	require.Error(t, err)
	assert.Empty(t, content, "no partial render on failure")
}

func TestOverdueInvoices(t *testing.T) {
	api := newRoutedAPI()
	api.responses["/invoices"] = map[string]any{
		"invoices": []any{
			map[string]any{
				"invoice_number": "INV-001", "customer_name": "Acme",
				"balance": 1200.5, "due_date": "2025-06-01",
			},
		},
	}
	r := newTestRenderer(api)

	content, err := r.OverdueInvoices(context.Background())
	require.NoError(t, err)

	assert.Contains(t, content, "# Overdue Invoices")
	assert.Contains(t, content, "Total: 1")
	assert.Contains(t, content, "| INV-001 | Acme | $1,200.50 | 2025-06-01 | 14 |")
	assert.Equal(t, "Status.OverDue", api.params["/invoices"]["filter_by"])
	assert.Equal(t, "due_date", api.params["/invoices"]["sort_column"])
}

func TestOverdueInvoicesEmpty(t *testing.T) {
	api := newRoutedAPI()
	api.responses["/invoices"] = map[string]any{"invoices": []any{}}
	r := newTestRenderer(api)

	content, err := r.OverdueInvoices(context.Background())
	require.NoError(t, err)
	assert.Contains(t, content, "*No overdue invoices found.*")
}

func TestUnpaidInvoicesMarksOverdue(t *testing.T) {
	api := newRoutedAPI()
	api.responses["/invoices"] = map[string]any{
		"invoices": []any{
			map[string]any{
				"invoice_number": "INV-002", "customer_name": "Globex",
				"balance": 300.0, "date": "2025-06-10", "due_date": "2025-06-12",
				"status": "overdue",
			},
		},
	}
	r := newTestRenderer(api)

	content, err := r.UnpaidInvoices(context.Background())
	require.NoError(t, err)
	assert.Contains(t, content, "**Overdue**")
}

func TestRecentPayments(t *testing.T) {
	api := newRoutedAPI()
	api.responses["/customerpayments"] = map[string]any{
		"customerpayments": []any{
			map[string]any{
				"date": "2025-06-10", "customer_name": "Acme", "amount": 500.0,
				"reference_number": "PAY-1",
				"invoices":         []any{map[string]any{"invoice_number": "INV-001"}},
			},
			map[string]any{
				"date": "2025-06-12", "customer_name": "Globex", "amount": 250.0,
			},
		},
	}
	r := newTestRenderer(api)

	content, err := r.RecentPayments(context.Background())
	require.NoError(t, err)

	assert.Contains(t, content, "# Recent Payments (Last 30 Days)")
	assert.Contains(t, content, "| 2025-06-10 | Acme | $500.00 | PAY-1 | INV-001 |")
	assert.Contains(t, content, "**Total Received**: $750.00")

	params := api.params["/customerpayments"]
	assert.Equal(t, "2025-05-16", params["date_start"])
	assert.Equal(t, "2025-06-15", params["date_end"])
}

func TestContactDetails(t *testing.T) {
	api := newRoutedAPI()
	api.responses["/contacts/123"] = map[string]any{
		"contact": map[string]any{
			"contact_name": "Acme Corp", "contact_type": "customer", "status": "active",
			"email": "ap@acme.test", "currency_code": "EUR",
			"outstanding_receivable_amount": 1234.56,
			"billing_address": map[string]any{
				"address": "1 Main St", "city": "Springfield", "state": "IL",
				"zip": "62701", "country": "USA",
			},
		},
	}
	r := newTestRenderer(api)

	content, err := r.ContactDetails(context.Background(), "123")
	require.NoError(t, err)

	assert.Contains(t, content, "**Name**: Acme Corp")
	assert.Contains(t, content, "**Outstanding Receivable**: $1,234.56")
	assert.Contains(t, content, "**Currency**: EUR")
	assert.Contains(t, content, "### Billing Address")
	assert.Contains(t, content, "Springfield, IL 62701")
	assert.NotContains(t, content, "### Shipping Address")
}

func TestContactDetailsNotFound(t *testing.T) {
	api := newRoutedAPI()
	api.responses["/contacts/missing"] = map[string]any{}
	r := newTestRenderer(api)

	content, err := r.ContactDetails(context.Background(), "missing")
	require.NoError(t, err)
	assert.Contains(t, content, "# Contact Not Found")
	assert.Contains(t, content, "Contact ID: missing")
}

func TestItemList(t *testing.T) {
	api := newRoutedAPI()
	api.responses["/items"] = map[string]any{
		"items": []any{
			map[string]any{
				"name": "Consulting", "rate": 150.0, "status": "active",
			},
		},
		"page_context": map[string]any{"total": float64(1)},
	}
	r := newTestRenderer(api)

	content, err := r.ItemList(context.Background())
	require.NoError(t, err)
	assert.Contains(t, content, "| Consulting | service | - | $150.00 | - | Active |")
}

func TestCashFlow(t *testing.T) {
	api := newRoutedAPI()
	api.responses["/invoices"] = map[string]any{
		"invoices": []any{
			map[string]any{"total": 3000.0},
			map[string]any{"total": 1000.0},
		},
	}
	api.responses["/expenses"] = map[string]any{
		"expenses": []any{
			map[string]any{"total": 1500.0},
		},
	}
	r := newTestRenderer(api)

	content, err := r.CashFlow(context.Background())
	require.NoError(t, err)

	assert.Contains(t, content, "# Cash Flow Summary - June 2025")
	assert.Contains(t, content, "**Total Income**: $4,000.00")
	assert.Contains(t, content, "**Total Expenses**: $1,500.00")
	assert.Contains(t, content, "**Net Cash Flow**: $2,500.00")
	assert.Contains(t, content, "**Average Invoice**: $2,000.00")
	assert.Contains(t, content, "**Positive cash flow** of $2,500.00")

	assert.Equal(t, "2025-06-01", api.params["/invoices"]["date_start"])
	assert.Equal(t, "2025-06-01", api.params["/expenses"]["date.from"])
}

func TestCashFlowNegative(t *testing.T) {
	api := newRoutedAPI()
	api.responses["/invoices"] = map[string]any{"invoices": []any{}}
	api.responses["/expenses"] = map[string]any{
		"expenses": []any{map[string]any{"total": 900.0}},
	}
	r := newTestRenderer(api)

	content, err := r.CashFlow(context.Background())
	require.NoError(t, err)
	assert.Contains(t, content, "**Negative cash flow** of $900.00")
}

func TestMoneyFormatting(t *testing.T) {
	assert.Equal(t, "$0.00", money(0))
	assert.Equal(t, "$999.99", money(999.99))
	assert.Equal(t, "$1,000.00", money(1000))
	assert.Equal(t, "$1,234,567.89", money(1234567.89))
	assert.Equal(t, "-$1,200.50", money(-1200.5))
}
