package mcp

import (
	"context"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"github.com/booksmcp/booksmcp/internal/books"
)

func listItemsTool() mcplib.Tool {
	return mcplib.NewTool("list_items",
		mcplib.WithDescription(
			"List products and services in Zoho Books with pagination and filtering.",
		),
		mcplib.WithString("item_type",
			mcplib.Description("Filter by type: sales, purchases, sales_and_purchases, inventory, service"),
		),
		mcplib.WithString("status",
			mcplib.Description("Filter by status: active, inactive"),
		),
		mcplib.WithNumber("page",
			mcplib.Description("Page number for pagination (default 1)"),
		),
		mcplib.WithNumber("page_size",
			mcplib.Description("Number of items per page (default 25)"),
		),
		mcplib.WithString("search_text",
			mcplib.Description("Search text to filter items by name or SKU"),
		),
		mcplib.WithString("sort_column",
			mcplib.Description("Column to sort by: name, rate, item_type"),
		),
		mcplib.WithString("sort_order",
			mcplib.Description("Sort order: ascending or descending"),
		),
		mcplib.WithReadOnlyHintAnnotation(true),
		mcplib.WithOpenWorldHintAnnotation(true),
	)
}

func createItemTool() mcplib.Tool {
	return mcplib.NewTool("create_item",
		mcplib.WithDescription("Create a new product or service item in Zoho Books."),
		mcplib.WithString("name",
			mcplib.Required(),
			mcplib.Description("Name of the item"),
		),
		mcplib.WithNumber("rate",
			mcplib.Required(),
			mcplib.Description("Selling rate of the item"),
		),
		mcplib.WithString("item_type",
			mcplib.Description("Type of item (defaults to service)"),
		),
		mcplib.WithString("description",
			mcplib.Description("Description of the item"),
		),
		mcplib.WithString("sku",
			mcplib.Description("Stock keeping unit"),
		),
		mcplib.WithString("unit",
			mcplib.Description("Unit of measure, e.g. hours, pcs"),
		),
		mcplib.WithNumber("purchase_rate",
			mcplib.Description("Purchase rate of the item"),
		),
		mcplib.WithString("purchase_description",
			mcplib.Description("Purchase description"),
		),
		mcplib.WithString("account_id",
			mcplib.Description("ID of the sales account"),
		),
		mcplib.WithOpenWorldHintAnnotation(true),
	)
}

func getItemTool() mcplib.Tool {
	return mcplib.NewTool("get_item",
		mcplib.WithDescription("Get an item by ID from Zoho Books."),
		mcplib.WithString("item_id",
			mcplib.Required(),
			mcplib.Description("ID of the item to retrieve"),
		),
		mcplib.WithReadOnlyHintAnnotation(true),
		mcplib.WithOpenWorldHintAnnotation(true),
	)
}

func updateItemTool() mcplib.Tool {
	return mcplib.NewTool("update_item",
		mcplib.WithDescription(
			"Update an existing item. At least one field besides the ID must be provided.",
		),
		mcplib.WithString("item_id",
			mcplib.Required(),
			mcplib.Description("ID of the item to update"),
		),
		mcplib.WithString("name",
			mcplib.Description("New item name"),
		),
		mcplib.WithNumber("rate",
			mcplib.Description("New selling rate"),
		),
		mcplib.WithString("description",
			mcplib.Description("New description"),
		),
		mcplib.WithString("sku",
			mcplib.Description("New stock keeping unit"),
		),
		mcplib.WithString("status",
			mcplib.Description("New status: active or inactive"),
		),
		mcplib.WithOpenWorldHintAnnotation(true),
	)
}

func (h *handlers) handleListItems(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	result, err := h.svc.ListItems(ctx, books.ListItemsOptions{
		ItemType:   request.GetString("item_type", ""),
		Status:     request.GetString("status", ""),
		Page:       request.GetInt("page", 1),
		PageSize:   request.GetInt("page_size", 25),
		SearchText: request.GetString("search_text", ""),
		SortColumn: request.GetString("sort_column", ""),
		SortOrder:  request.GetString("sort_order", ""),
	})
	if err != nil {
		return h.toolError("list_items", err), nil
	}
	return jsonResult(result), nil
}

func (h *handlers) handleCreateItem(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	result, err := h.svc.CreateItem(ctx, books.CreateItemInput{
		Name:                request.GetString("name", ""),
		Rate:                request.GetFloat("rate", 0),
		ItemType:            request.GetString("item_type", ""),
		Description:         request.GetString("description", ""),
		SKU:                 request.GetString("sku", ""),
		Unit:                request.GetString("unit", ""),
		PurchaseRate:        request.GetFloat("purchase_rate", 0),
		PurchaseDescription: request.GetString("purchase_description", ""),
		AccountID:           request.GetString("account_id", ""),
	})
	if err != nil {
		return h.toolError("create_item", err), nil
	}
	return jsonResult(result), nil
}

func (h *handlers) handleGetItem(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	result, err := h.svc.GetItem(ctx, request.GetString("item_id", ""))
	if err != nil {
		return h.toolError("get_item", err), nil
	}
	return jsonResult(result), nil
}

func (h *handlers) handleUpdateItem(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	fields := updateFields(request, "name", "rate", "description", "sku", "status")
	result, err := h.svc.UpdateItem(ctx, request.GetString("item_id", ""), fields)
	if err != nil {
		return h.toolError("update_item", err), nil
	}
	return jsonResult(result), nil
}
