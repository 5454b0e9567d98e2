package books

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListExpensesWithFilters(t *testing.T) {
	svc, api := newTestService(map[string]any{
		"expenses": []any{map[string]any{"expense_id": "exp-1"}},
		"page_context": map[string]any{
			"page": float64(2), "per_page": float64(10),
			"has_more_page": true, "total": float64(42),
		},
	})

	result, err := svc.ListExpenses(context.Background(), ListExpensesOptions{
		Page: 2, PageSize: 10,
		Status: "unbilled", VendorID: "vendor123",
		DateFrom: "2025-01-01", DateTo: "2025-01-31",
		SearchText: "office", SortColumn: "date", SortOrder: "ascending",
	})
	require.NoError(t, err)

	params := api.calls[0].Params
	assert.Equal(t, "2", params["page"])
	assert.Equal(t, "10", params["per_page"])
	assert.Equal(t, "unbilled", params["status"])
	assert.Equal(t, "vendor123", params["vendor_id"])
	assert.Equal(t, "2025-01-01", params["date.from"])
	assert.Equal(t, "2025-01-31", params["date.to"])
	assert.Equal(t, "office", params["search_text"])

	assert.Equal(t, 2, result.Page)
	assert.Equal(t, 10, result.PageSize)
	assert.True(t, result.HasMorePage)
	assert.Equal(t, 42, result.Total)
}

func TestListExpensesDateFromTime(t *testing.T) {
	svc, api := newTestService(map[string]any{"expenses": []any{}})

	_, err := svc.ListExpenses(context.Background(), ListExpensesOptions{
		DateFrom: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		DateTo:   time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, "2025-01-01", api.calls[0].Params["date.from"])
	assert.Equal(t, "2025-01-31", api.calls[0].Params["date.to"])
}

func TestCreateExpense(t *testing.T) {
	svc, api := newTestService(map[string]any{
		"expense": map[string]any{"expense_id": "exp-1", "amount": 500.50},
		"message": "The expense has been created.",
	})

	result, err := svc.CreateExpense(context.Background(), CreateExpenseInput{
		AccountID:   "account123",
		Date:        "2025-01-15",
		Amount:      500.50,
		Description: "Office supplies",
	})
	require.NoError(t, err)

	call := api.calls[0]
	assert.Equal(t, "POST", call.Method)
	assert.Equal(t, "/expenses", call.Endpoint)
	body := bodyMap(t, call)
	assert.Equal(t, "account123", body["account_id"])
	assert.Equal(t, "2025-01-15", body["date"])
	assert.Equal(t, 500.50, body["amount"])
	assert.Equal(t, "Office supplies", body["description"])

	assert.Equal(t, "exp-1", result.Expense["expense_id"])
}

func TestCreateExpenseValidation(t *testing.T) {
	svc, api := newTestService()

	var ve *ValidationError

	_, err := svc.CreateExpense(context.Background(), CreateExpenseInput{Date: "2025-01-15", Amount: 10})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "account_id", ve.Field)

	_, err = svc.CreateExpense(context.Background(), CreateExpenseInput{AccountID: "a", Amount: 10})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "date", ve.Field)

	_, err = svc.CreateExpense(context.Background(), CreateExpenseInput{AccountID: "a", Date: "2025-01-15"})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "amount", ve.Field)

	assert.Empty(t, api.calls)
}

func TestGetExpenseNotFound(t *testing.T) {
	svc, api := newTestService(map[string]any{"message": "Expense not found"})

	result, err := svc.GetExpense(context.Background(), "nonexistent")
	require.NoError(t, err)
	assert.Equal(t, "/expenses/nonexistent", api.calls[0].Endpoint)
	assert.Nil(t, result.Expense)
	assert.Contains(t, result.Message, "not found")
}

func TestUpdateExpense(t *testing.T) {
	svc, api := newTestService(map[string]any{
		"expense": map[string]any{"expense_id": "exp-1", "amount": 600.75},
		"message": "The expense has been updated.",
	})

	result, err := svc.UpdateExpense(context.Background(), "exp-1", map[string]any{
		"amount":      600.75,
		"description": "Updated office supplies",
		"date":        "2025-01-20",
	})
	require.NoError(t, err)

	call := api.calls[0]
	assert.Equal(t, "PUT", call.Method)
	assert.Equal(t, "/expenses/exp-1", call.Endpoint)
	body := bodyMap(t, call)
	assert.Equal(t, 600.75, body["amount"])
	assert.Equal(t, "2025-01-20", body["date"])

	assert.Equal(t, 600.75, result.Expense["amount"])
}

func TestUpdateExpenseNoFields(t *testing.T) {
	svc, api := newTestService()

	_, err := svc.UpdateExpense(context.Background(), "exp-1", map[string]any{})

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Message, "At least one field")
	assert.Empty(t, api.calls)
}
