package mcp

import (
	"context"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"github.com/booksmcp/booksmcp/internal/books"
)

func listSalesOrdersTool() mcplib.Tool {
	return mcplib.NewTool("list_sales_orders",
		mcplib.WithDescription(
			"List sales orders in Zoho Books with pagination and filtering by status, customer, or date range.",
		),
		mcplib.WithString("status",
			mcplib.Description("Filter by status: draft, open, invoiced, partially_invoiced, void, closed"),
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
			mcplib.Description("Number of sales orders per page (default 25)"),
		),
		mcplib.WithString("search_text",
			mcplib.Description("Search text to filter sales orders"),
		),
		mcplib.WithString("sort_column",
			mcplib.Description("Column to sort by: date, total, customer_name"),
		),
		mcplib.WithString("sort_order",
			mcplib.Description("Sort order: ascending or descending"),
		),
		mcplib.WithReadOnlyHintAnnotation(true),
		mcplib.WithOpenWorldHintAnnotation(true),
	)
}

func createSalesOrderTool() mcplib.Tool {
	return mcplib.NewTool("create_sales_order",
		mcplib.WithDescription("Create a new sales order for a customer in Zoho Books."),
		mcplib.WithString("customer_id",
			mcplib.Required(),
			mcplib.Description("ID of the customer"),
		),
		mcplib.WithArray("line_items",
			mcplib.Required(),
			mcplib.Description("Line items, each with item_id or name/rate/quantity"),
		),
		mcplib.WithString("date",
			mcplib.Description("Sales order date (YYYY-MM-DD, defaults to today)"),
		),
		mcplib.WithString("shipment_date",
			mcplib.Description("Expected shipment date (YYYY-MM-DD)"),
		),
		mcplib.WithString("salesorder_number",
			mcplib.Description("Custom sales order number (auto-generated when omitted)"),
		),
		mcplib.WithString("reference_number",
			mcplib.Description("Reference number"),
		),
		mcplib.WithString("notes",
			mcplib.Description("Notes displayed on the sales order"),
		),
		mcplib.WithString("terms",
			mcplib.Description("Terms and conditions"),
		),
		mcplib.WithOpenWorldHintAnnotation(true),
	)
}

func getSalesOrderTool() mcplib.Tool {
	return mcplib.NewTool("get_sales_order",
		mcplib.WithDescription("Get a sales order by ID from Zoho Books."),
		mcplib.WithString("salesorder_id",
			mcplib.Required(),
			mcplib.Description("ID of the sales order to retrieve"),
		),
		mcplib.WithReadOnlyHintAnnotation(true),
		mcplib.WithOpenWorldHintAnnotation(true),
	)
}

func updateSalesOrderTool() mcplib.Tool {
	return mcplib.NewTool("update_sales_order",
		mcplib.WithDescription(
			"Update an existing sales order. At least one field besides the ID must be provided.",
		),
		mcplib.WithString("salesorder_id",
			mcplib.Required(),
			mcplib.Description("ID of the sales order to update"),
		),
		mcplib.WithArray("line_items",
			mcplib.Description("Replacement line items"),
		),
		mcplib.WithString("date",
			mcplib.Description("New sales order date (YYYY-MM-DD)"),
		),
		mcplib.WithString("shipment_date",
			mcplib.Description("New shipment date (YYYY-MM-DD)"),
		),
		mcplib.WithString("notes",
			mcplib.Description("New notes"),
		),
		mcplib.WithString("terms",
			mcplib.Description("New terms"),
		),
		mcplib.WithString("reference_number",
			mcplib.Description("New reference number"),
		),
		mcplib.WithOpenWorldHintAnnotation(true),
	)
}

func convertToInvoiceTool() mcplib.Tool {
	return mcplib.NewTool("convert_to_invoice",
		mcplib.WithDescription("Convert a sales order into a draft invoice."),
		mcplib.WithString("salesorder_id",
			mcplib.Required(),
			mcplib.Description("ID of the sales order to convert"),
		),
		mcplib.WithString("invoice_number",
			mcplib.Description("Custom invoice number for the new invoice"),
		),
		mcplib.WithString("date",
			mcplib.Description("Invoice date (YYYY-MM-DD, defaults to today)"),
		),
		mcplib.WithOpenWorldHintAnnotation(true),
	)
}

func (h *handlers) handleListSalesOrders(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	result, err := h.svc.ListSalesOrders(ctx, books.ListSalesOrdersOptions{
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
		return h.toolError("list_sales_orders", err), nil
	}
	return jsonResult(result), nil
}

func (h *handlers) handleCreateSalesOrder(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	result, err := h.svc.CreateSalesOrder(ctx, books.CreateSalesOrderInput{
		CustomerID:       request.GetString("customer_id", ""),
		LineItems:        lineItems(request, "line_items"),
		Date:             optionalDate(request, "date"),
		ShipmentDate:     optionalDate(request, "shipment_date"),
		SalesOrderNumber: request.GetString("salesorder_number", ""),
		ReferenceNumber:  request.GetString("reference_number", ""),
		Notes:            request.GetString("notes", ""),
		Terms:            request.GetString("terms", ""),
	})
	if err != nil {
		return h.toolError("create_sales_order", err), nil
	}
	return jsonResult(result), nil
}

func (h *handlers) handleGetSalesOrder(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	result, err := h.svc.GetSalesOrder(ctx, request.GetString("salesorder_id", ""))
	if err != nil {
		return h.toolError("get_sales_order", err), nil
	}
	return jsonResult(result), nil
}

func (h *handlers) handleUpdateSalesOrder(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	fields := updateFields(request,
		"line_items", "date", "shipment_date", "notes", "terms", "reference_number")
	result, err := h.svc.UpdateSalesOrder(ctx, request.GetString("salesorder_id", ""), fields)
	if err != nil {
		return h.toolError("update_sales_order", err), nil
	}
	return jsonResult(result), nil
}

func (h *handlers) handleConvertToInvoice(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	result, err := h.svc.ConvertToInvoice(ctx, request.GetString("salesorder_id", ""), books.ConvertToInvoiceInput{
		InvoiceNumber: request.GetString("invoice_number", ""),
		Date:          optionalDate(request, "date"),
	})
	if err != nil {
		return h.toolError("convert_to_invoice", err), nil
	}
	return jsonResult(result), nil
}
