package mcp

import (
	"context"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"github.com/booksmcp/booksmcp/internal/books"
)

func listInvoicesTool() mcplib.Tool {
	return mcplib.NewTool("list_invoices",
		mcplib.WithDescription(
			"List invoices in Zoho Books with pagination and filtering by status, customer, or date range.",
		),
		mcplib.WithString("status",
			mcplib.Description("Filter by status: draft, sent, overdue, paid, void, unpaid, partially_paid, viewed"),
		),
		mcplib.WithString("customer_id",
			mcplib.Description("Filter by customer ID"),
		),
		mcplib.WithString("date_start",
			mcplib.Description("Start of the date range (YYYY-MM-DD)"),
		),
		mcplib.WithString("date_end",
			mcplib.Description("End of the date range (YYYY-MM-DD)"),
		),
		mcplib.WithNumber("page",
			mcplib.Description("Page number for pagination (default 1)"),
		),
		mcplib.WithNumber("page_size",
			mcplib.Description("Number of invoices per page (default 25)"),
		),
		mcplib.WithString("search_text",
			mcplib.Description("Search text to filter invoices"),
		),
		mcplib.WithString("sort_column",
			mcplib.Description("Column to sort by: date, due_date, total, customer_name"),
		),
		mcplib.WithString("sort_order",
			mcplib.Description("Sort order: ascending or descending"),
		),
		mcplib.WithReadOnlyHintAnnotation(true),
		mcplib.WithOpenWorldHintAnnotation(true),
	)
}

func createInvoiceTool() mcplib.Tool {
	return mcplib.NewTool("create_invoice",
		mcplib.WithDescription("Create a new invoice for a customer in Zoho Books."),
		mcplib.WithString("customer_id",
			mcplib.Required(),
			mcplib.Description("ID of the customer to invoice"),
		),
		mcplib.WithArray("line_items",
			mcplib.Required(),
			mcplib.Description("Line items, each with item_id or name/rate/quantity"),
		),
		mcplib.WithString("invoice_number",
			mcplib.Description("Custom invoice number (auto-generated when omitted)"),
		),
		mcplib.WithString("reference_number",
			mcplib.Description("Reference number"),
		),
		mcplib.WithString("date",
			mcplib.Description("Invoice date (YYYY-MM-DD, defaults to today)"),
		),
		mcplib.WithString("due_date",
			mcplib.Description("Payment due date (YYYY-MM-DD)"),
		),
		mcplib.WithNumber("payment_terms",
			mcplib.Description("Payment terms in days"),
		),
		mcplib.WithString("notes",
			mcplib.Description("Notes displayed on the invoice"),
		),
		mcplib.WithString("terms",
			mcplib.Description("Terms and conditions"),
		),
		mcplib.WithOpenWorldHintAnnotation(true),
	)
}

func getInvoiceTool() mcplib.Tool {
	return mcplib.NewTool("get_invoice",
		mcplib.WithDescription("Get an invoice by ID from Zoho Books."),
		mcplib.WithString("invoice_id",
			mcplib.Required(),
			mcplib.Description("ID of the invoice to retrieve"),
		),
		mcplib.WithReadOnlyHintAnnotation(true),
		mcplib.WithOpenWorldHintAnnotation(true),
	)
}

func emailInvoiceTool() mcplib.Tool {
	return mcplib.NewTool("email_invoice",
		mcplib.WithDescription(
			"Email an invoice to the customer. Recipients default to the contact's primary email.",
		),
		mcplib.WithString("invoice_id",
			mcplib.Required(),
			mcplib.Description("ID of the invoice to email"),
		),
		mcplib.WithArray("to_emails",
			mcplib.Description("Recipient email addresses"),
		),
		mcplib.WithString("subject",
			mcplib.Description("Custom email subject"),
		),
		mcplib.WithString("body",
			mcplib.Description("Custom email body"),
		),
		mcplib.WithOpenWorldHintAnnotation(true),
	)
}

func markInvoiceSentTool() mcplib.Tool {
	return mcplib.NewTool("mark_invoice_sent",
		mcplib.WithDescription("Mark a draft invoice as sent."),
		mcplib.WithString("invoice_id",
			mcplib.Required(),
			mcplib.Description("ID of the invoice"),
		),
		mcplib.WithOpenWorldHintAnnotation(true),
	)
}

func voidInvoiceTool() mcplib.Tool {
	return mcplib.NewTool("void_invoice",
		mcplib.WithDescription("Void an invoice. Voided invoices no longer count toward receivables."),
		mcplib.WithString("invoice_id",
			mcplib.Required(),
			mcplib.Description("ID of the invoice to void"),
		),
		mcplib.WithDestructiveHintAnnotation(true),
		mcplib.WithOpenWorldHintAnnotation(true),
	)
}

func (h *handlers) handleListInvoices(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	result, err := h.svc.ListInvoices(ctx, books.ListInvoicesOptions{
		Status:     request.GetString("status", ""),
		CustomerID: request.GetString("customer_id", ""),
		DateStart:  optionalDate(request, "date_start"),
		DateEnd:    optionalDate(request, "date_end"),
		Page:       request.GetInt("page", 1),
		PageSize:   request.GetInt("page_size", 25),
		SearchText: request.GetString("search_text", ""),
		SortColumn: request.GetString("sort_column", ""),
		SortOrder:  request.GetString("sort_order", ""),
	})
	if err != nil {
		return h.toolError("list_invoices", err), nil
	}
	return jsonResult(result), nil
}

func (h *handlers) handleCreateInvoice(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	result, err := h.svc.CreateInvoice(ctx, books.CreateInvoiceInput{
		CustomerID:      request.GetString("customer_id", ""),
		LineItems:       lineItems(request, "line_items"),
		InvoiceNumber:   request.GetString("invoice_number", ""),
		ReferenceNumber: request.GetString("reference_number", ""),
		Date:            optionalDate(request, "date"),
		DueDate:         optionalDate(request, "due_date"),
		PaymentTerms:    request.GetInt("payment_terms", 0),
		Notes:           request.GetString("notes", ""),
		Terms:           request.GetString("terms", ""),
	})
	if err != nil {
		return h.toolError("create_invoice", err), nil
	}
	return jsonResult(result), nil
}

func (h *handlers) handleGetInvoice(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	result, err := h.svc.GetInvoice(ctx, request.GetString("invoice_id", ""))
	if err != nil {
		return h.toolError("get_invoice", err), nil
	}
	return jsonResult(result), nil
}

func (h *handlers) handleEmailInvoice(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	result, err := h.svc.EmailInvoice(ctx, request.GetString("invoice_id", ""), books.EmailInvoiceInput{
		ToEmails: stringList(request, "to_emails"),
		Subject:  request.GetString("subject", ""),
		Body:     request.GetString("body", ""),
	})
	if err != nil {
		return h.toolError("email_invoice", err), nil
	}
	return jsonResult(result), nil
}

func (h *handlers) handleMarkInvoiceSent(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	result, err := h.svc.MarkInvoiceSent(ctx, request.GetString("invoice_id", ""))
	if err != nil {
		return h.toolError("mark_invoice_sent", err), nil
	}
	return jsonResult(result), nil
}

func (h *handlers) handleVoidInvoice(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	result, err := h.svc.VoidInvoice(ctx, request.GetString("invoice_id", ""))
	if err != nil {
		return h.toolError("void_invoice", err), nil
	}
	return jsonResult(result), nil
}
