package books

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListInvoicesStatusFilter(t *testing.T) {
	svc, api := newTestService(map[string]any{
		"invoices": []any{map[string]any{"invoice_id": "inv-1", "status": "overdue"}},
		"page_context": map[string]any{
			"page": float64(1), "per_page": float64(25),
			"has_more_page": false, "total": float64(1),
		},
	})

	result, err := svc.ListInvoices(context.Background(), ListInvoicesOptions{Status: "overdue"})
	require.NoError(t, err)

	call := api.calls[0]
	assert.Equal(t, "/invoices", call.Endpoint)
	assert.Equal(t, "Status.OverDue", call.Params["filter_by"])
	require.Len(t, result.Invoices, 1)
}

func TestListInvoicesInvalidStatus(t *testing.T) {
	svc, api := newTestService()

	_, err := svc.ListInvoices(context.Background(), ListInvoicesOptions{Status: "bogus"})

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Empty(t, api.calls)
}

func TestListInvoicesDateRange(t *testing.T) {
	svc, api := newTestService(map[string]any{"invoices": []any{}})

	_, err := svc.ListInvoices(context.Background(), ListInvoicesOptions{
		DateStart: "2025-01-01", DateEnd: "2025-01-31", CustomerID: "67890",
	})
	require.NoError(t, err)

	params := api.calls[0].Params
	assert.Equal(t, "2025-01-01", params["date_start"])
	assert.Equal(t, "2025-01-31", params["date_end"])
	assert.Equal(t, "67890", params["customer_id"])
}

func TestCreateInvoice(t *testing.T) {
	svc, api := newTestService(map[string]any{
		"invoice": map[string]any{"invoice_id": "inv-1", "invoice_number": "INV-001"},
		"message": "The invoice has been created.",
	})

	result, err := svc.CreateInvoice(context.Background(), CreateInvoiceInput{
		CustomerID: "67890",
		LineItems:  []map[string]any{{"item_id": "item001", "rate": 100.0, "quantity": 2}},
		Date:       "2025-02-01",
		DueDate:    "2025-03-01",
		Notes:      "Thanks for your business",
	})
	require.NoError(t, err)

	call := api.calls[0]
	assert.Equal(t, "POST", call.Method)
	assert.Equal(t, "/invoices", call.Endpoint)
	body := bodyMap(t, call)
	assert.Equal(t, "67890", body["customer_id"])
	assert.Equal(t, "2025-02-01", body["date"])
	assert.Equal(t, "2025-03-01", body["due_date"])
	assert.Len(t, body["line_items"], 1)

	assert.Equal(t, "inv-1", result.Invoice["invoice_id"])
}

func TestCreateInvoiceValidation(t *testing.T) {
	svc, api := newTestService()

	var ve *ValidationError

	_, err := svc.CreateInvoice(context.Background(), CreateInvoiceInput{
		LineItems: []map[string]any{{"item_id": "x"}},
	})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "customer_id", ve.Field)

	_, err = svc.CreateInvoice(context.Background(), CreateInvoiceInput{CustomerID: "1"})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "line_items", ve.Field)

	_, err = svc.CreateInvoice(context.Background(), CreateInvoiceInput{
		CustomerID: "1",
		LineItems:  []map[string]any{{"item_id": "x"}},
		Date:       "01-02-2025",
	})
	require.ErrorAs(t, err, &ve)

	assert.Empty(t, api.calls, "validation failures must not reach the network")
}

func TestGetInvoiceNotFound(t *testing.T) {
	svc, _ := newTestService(map[string]any{})

	result, err := svc.GetInvoice(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, result.Invoice)
	assert.Equal(t, "Invoice not found", result.Message)
}

func TestEmailInvoice(t *testing.T) {
	svc, api := newTestService(map[string]any{
		"message": "Your invoice has been sent.",
	})

	result, err := svc.EmailInvoice(context.Background(), "inv-1", EmailInvoiceInput{
		ToEmails: []string{"billing@acme.test"},
		Subject:  "Invoice INV-001",
	})
	require.NoError(t, err)

	call := api.calls[0]
	assert.Equal(t, "POST", call.Method)
	assert.Equal(t, "/invoices/inv-1/email", call.Endpoint)
	body := bodyMap(t, call)
	assert.Equal(t, []string{"billing@acme.test"}, body["to_mail_ids"])
	assert.Equal(t, "Invoice INV-001", body["subject"])

	assert.True(t, result.Success)
	assert.Equal(t, "Your invoice has been sent.", result.Message)
}

func TestInvoiceStatusTransitions(t *testing.T) {
	svc, api := newTestService(map[string]any{}, map[string]any{})

	sent, err := svc.MarkInvoiceSent(context.Background(), "inv-1")
	require.NoError(t, err)
	assert.Equal(t, "/invoices/inv-1/status/sent", api.calls[0].Endpoint)
	assert.Equal(t, "Invoice marked as sent", sent.Message)

	voided, err := svc.VoidInvoice(context.Background(), "inv-1")
	require.NoError(t, err)
	assert.Equal(t, "/invoices/inv-1/status/void", api.calls[1].Endpoint)
	assert.Equal(t, "Invoice voided successfully", voided.Message)
}

func TestInvoiceStatusEmptyID(t *testing.T) {
	svc, api := newTestService()

	var ve *ValidationError
	_, err := svc.MarkInvoiceSent(context.Background(), "")
	require.ErrorAs(t, err, &ve)
	_, err = svc.VoidInvoice(context.Background(), "")
	require.ErrorAs(t, err, &ve)
	_, err = svc.EmailInvoice(context.Background(), "", EmailInvoiceInput{})
	require.ErrorAs(t, err, &ve)
	assert.Empty(t, api.calls)
}
