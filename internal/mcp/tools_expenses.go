package mcp

import (
	"context"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"github.com/booksmcp/booksmcp/internal/books"
)

func listExpensesTool() mcplib.Tool {
	return mcplib.NewTool("list_expenses",
		mcplib.WithDescription(
			"List expenses in Zoho Books with pagination and filtering by status, vendor, or date range.",
		),
		mcplib.WithString("status",
			mcplib.Description("Filter by status: unbilled, invoiced, reimbursed, billable, non-billable"),
		),
		mcplib.WithString("vendor_id",
			mcplib.Description("Filter by vendor ID"),
		),
		mcplib.WithString("customer_id",
			mcplib.Description("Filter by customer ID"),
		),
		mcplib.WithString("date_from",
			mcplib.Description("Start of the date range (YYYY-MM-DD)"),
		),
		mcplib.WithString("date_to",
			mcplib.Description("End of the date range (YYYY-MM-DD)"),
		),
		mcplib.WithNumber("page",
			mcplib.Description("Page number for pagination (default 1)"),
		),
		mcplib.WithNumber("page_size",
			mcplib.Description("Number of expenses per page (default 25)"),
		),
		mcplib.WithString("search_text",
			mcplib.Description("Search text to filter expenses"),
		),
		mcplib.WithString("sort_column",
			mcplib.Description("Column to sort by: date, account_name, total"),
		),
		mcplib.WithString("sort_order",
			mcplib.Description("Sort order: ascending or descending"),
		),
		mcplib.WithReadOnlyHintAnnotation(true),
		mcplib.WithOpenWorldHintAnnotation(true),
	)
}

func createExpenseTool() mcplib.Tool {
	return mcplib.NewTool("create_expense",
		mcplib.WithDescription("Record a new expense in Zoho Books."),
		mcplib.WithString("account_id",
			mcplib.Required(),
			mcplib.Description("ID of the expense account"),
		),
		mcplib.WithString("date",
			mcplib.Required(),
			mcplib.Description("Expense date (YYYY-MM-DD)"),
		),
		mcplib.WithNumber("amount",
			mcplib.Required(),
			mcplib.Description("Expense amount, must be greater than zero"),
		),
		mcplib.WithString("paid_through_account_id",
			mcplib.Description("ID of the account the expense was paid through"),
		),
		mcplib.WithString("vendor_id",
			mcplib.Description("ID of the vendor"),
		),
		mcplib.WithString("customer_id",
			mcplib.Description("ID of the customer, for billable expenses"),
		),
		mcplib.WithBoolean("is_billable",
			mcplib.Description("Whether the expense is billable to a customer"),
		),
		mcplib.WithString("description",
			mcplib.Description("Description of the expense"),
		),
		mcplib.WithString("reference_number",
			mcplib.Description("Reference number"),
		),
		mcplib.WithOpenWorldHintAnnotation(true),
	)
}

func getExpenseTool() mcplib.Tool {
	return mcplib.NewTool("get_expense",
		mcplib.WithDescription("Get an expense by ID from Zoho Books."),
		mcplib.WithString("expense_id",
			mcplib.Required(),
			mcplib.Description("ID of the expense to retrieve"),
		),
		mcplib.WithReadOnlyHintAnnotation(true),
		mcplib.WithOpenWorldHintAnnotation(true),
	)
}

func updateExpenseTool() mcplib.Tool {
	return mcplib.NewTool("update_expense",
		mcplib.WithDescription(
			"Update an existing expense. At least one field besides the ID must be provided.",
		),
		mcplib.WithString("expense_id",
			mcplib.Required(),
			mcplib.Description("ID of the expense to update"),
		),
		mcplib.WithString("account_id",
			mcplib.Description("New expense account ID"),
		),
		mcplib.WithString("date",
			mcplib.Description("New expense date (YYYY-MM-DD)"),
		),
		mcplib.WithNumber("amount",
			mcplib.Description("New expense amount"),
		),
		mcplib.WithString("description",
			mcplib.Description("New description"),
		),
		mcplib.WithString("vendor_id",
			mcplib.Description("New vendor ID"),
		),
		mcplib.WithString("reference_number",
			mcplib.Description("New reference number"),
		),
		mcplib.WithOpenWorldHintAnnotation(true),
	)
}

func (h *handlers) handleListExpenses(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	result, err := h.svc.ListExpenses(ctx, books.ListExpensesOptions{
		Status:     request.GetString("status", ""),
		VendorID:   request.GetString("vendor_id", ""),
		CustomerID: request.GetString("customer_id", ""),
		DateFrom:   optionalDate(request, "date_from"),
		DateTo:     optionalDate(request, "date_to"),
		Page:       request.GetInt("page", 1),
		PageSize:   request.GetInt("page_size", 25),
		SearchText: request.GetString("search_text", ""),
		SortColumn: request.GetString("sort_column", ""),
		SortOrder:  request.GetString("sort_order", ""),
	})
	if err != nil {
		return h.toolError("list_expenses", err), nil
	}
	return jsonResult(result), nil
}

func (h *handlers) handleCreateExpense(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	result, err := h.svc.CreateExpense(ctx, books.CreateExpenseInput{
		AccountID:            request.GetString("account_id", ""),
		Date:                 optionalDate(request, "date"),
		Amount:               request.GetFloat("amount", 0),
		PaidThroughAccountID: request.GetString("paid_through_account_id", ""),
		VendorID:             request.GetString("vendor_id", ""),
		CustomerID:           request.GetString("customer_id", ""),
		IsBillable:           request.GetBool("is_billable", false),
		Description:          request.GetString("description", ""),
		ReferenceNumber:      request.GetString("reference_number", ""),
	})
	if err != nil {
		return h.toolError("create_expense", err), nil
	}
	return jsonResult(result), nil
}

func (h *handlers) handleGetExpense(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	result, err := h.svc.GetExpense(ctx, request.GetString("expense_id", ""))
	if err != nil {
		return h.toolError("get_expense", err), nil
	}
	return jsonResult(result), nil
}

func (h *handlers) handleUpdateExpense(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	fields := updateFields(request,
		"account_id", "date", "amount", "description", "vendor_id", "reference_number")
	result, err := h.svc.UpdateExpense(ctx, request.GetString("expense_id", ""), fields)
	if err != nil {
		return h.toolError("update_expense", err), nil
	}
	return jsonResult(result), nil
}
