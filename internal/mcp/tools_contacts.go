package mcp

import (
	"context"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"github.com/booksmcp/booksmcp/internal/books"
)

func listContactsTool() mcplib.Tool {
	return mcplib.NewTool("list_contacts",
		mcplib.WithDescription(
			"List contacts (customers or vendors) in Zoho Books with pagination and filtering.",
		),
		mcplib.WithString("contact_type",
			mcplib.Description("Type of contacts to list: all, customer, or vendor"),
		),
		mcplib.WithNumber("page",
			mcplib.Description("Page number for pagination (default 1)"),
		),
		mcplib.WithNumber("page_size",
			mcplib.Description("Number of contacts per page (default 25)"),
		),
		mcplib.WithString("search_text",
			mcplib.Description("Search text to filter contacts by name, email, etc."),
		),
		mcplib.WithString("filter_by",
			mcplib.Description("Filter contacts by status: all, active, inactive"),
		),
		mcplib.WithString("sort_column",
			mcplib.Description("Column to sort by: contact_name, created_time, last_modified_time"),
		),
		mcplib.WithString("sort_order",
			mcplib.Description("Sort order: ascending or descending"),
		),
		mcplib.WithReadOnlyHintAnnotation(true),
		mcplib.WithOpenWorldHintAnnotation(true),
	)
}

func createCustomerTool() mcplib.Tool {
	return mcplib.NewTool("create_customer",
		mcplib.WithDescription("Create a new customer in Zoho Books."),
		mcplib.WithString("contact_name",
			mcplib.Required(),
			mcplib.Description("Name of the customer"),
		),
		mcplib.WithString("email",
			mcplib.Description("Primary email address"),
		),
		mcplib.WithString("phone",
			mcplib.Description("Primary phone number"),
		),
		mcplib.WithString("mobile",
			mcplib.Description("Mobile phone number"),
		),
		mcplib.WithString("company_name",
			mcplib.Description("Company name if different from contact name"),
		),
		mcplib.WithString("website",
			mcplib.Description("Website URL"),
		),
		mcplib.WithString("notes",
			mcplib.Description("Notes about the customer"),
		),
		mcplib.WithString("currency_id",
			mcplib.Description("ID of the currency used by this customer"),
		),
		mcplib.WithNumber("payment_terms",
			mcplib.Description("Payment terms in days"),
		),
		mcplib.WithObject("billing_address",
			mcplib.Description("Billing address details"),
		),
		mcplib.WithObject("shipping_address",
			mcplib.Description("Shipping address details"),
		),
		mcplib.WithOpenWorldHintAnnotation(true),
	)
}

func createVendorTool() mcplib.Tool {
	return mcplib.NewTool("create_vendor",
		mcplib.WithDescription("Create a new vendor in Zoho Books."),
		mcplib.WithString("contact_name",
			mcplib.Required(),
			mcplib.Description("Name of the vendor"),
		),
		mcplib.WithString("email",
			mcplib.Description("Primary email address"),
		),
		mcplib.WithString("phone",
			mcplib.Description("Primary phone number"),
		),
		mcplib.WithString("company_name",
			mcplib.Description("Company name if different from contact name"),
		),
		mcplib.WithString("website",
			mcplib.Description("Website URL"),
		),
		mcplib.WithString("notes",
			mcplib.Description("Notes about the vendor"),
		),
		mcplib.WithString("currency_id",
			mcplib.Description("ID of the currency used by this vendor"),
		),
		mcplib.WithNumber("payment_terms",
			mcplib.Description("Payment terms in days"),
		),
		mcplib.WithObject("billing_address",
			mcplib.Description("Billing address details"),
		),
		mcplib.WithOpenWorldHintAnnotation(true),
	)
}

func getContactTool() mcplib.Tool {
	return mcplib.NewTool("get_contact",
		mcplib.WithDescription("Get a contact by ID from Zoho Books."),
		mcplib.WithString("contact_id",
			mcplib.Required(),
			mcplib.Description("ID of the contact to retrieve"),
		),
		mcplib.WithReadOnlyHintAnnotation(true),
		mcplib.WithOpenWorldHintAnnotation(true),
	)
}

func deleteContactTool() mcplib.Tool {
	return mcplib.NewTool("delete_contact",
		mcplib.WithDescription("Delete a contact from Zoho Books. This cannot be undone."),
		mcplib.WithString("contact_id",
			mcplib.Required(),
			mcplib.Description("ID of the contact to delete"),
		),
		mcplib.WithDestructiveHintAnnotation(true),
		mcplib.WithOpenWorldHintAnnotation(true),
	)
}

func (h *handlers) handleListContacts(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	result, err := h.svc.ListContacts(ctx, books.ListContactsOptions{
		ContactType: request.GetString("contact_type", "all"),
		Page:        request.GetInt("page", 1),
		PageSize:    request.GetInt("page_size", 25),
		SearchText:  request.GetString("search_text", ""),
		FilterBy:    request.GetString("filter_by", ""),
		SortColumn:  request.GetString("sort_column", ""),
		SortOrder:   request.GetString("sort_order", ""),
	})
	if err != nil {
		return h.toolError("list_contacts", err), nil
	}
	return jsonResult(result), nil
}

func (h *handlers) handleCreateCustomer(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	result, err := h.svc.CreateCustomer(ctx, contactInput(request))
	if err != nil {
		return h.toolError("create_customer", err), nil
	}
	return jsonResult(result), nil
}

func (h *handlers) handleCreateVendor(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	result, err := h.svc.CreateVendor(ctx, contactInput(request))
	if err != nil {
		return h.toolError("create_vendor", err), nil
	}
	return jsonResult(result), nil
}

func contactInput(request mcplib.CallToolRequest) books.CustomerInput {
	return books.CustomerInput{
		ContactName:     request.GetString("contact_name", ""),
		Email:           request.GetString("email", ""),
		Phone:           request.GetString("phone", ""),
		Mobile:          request.GetString("mobile", ""),
		CompanyName:     request.GetString("company_name", ""),
		Website:         request.GetString("website", ""),
		Notes:           request.GetString("notes", ""),
		CurrencyID:      request.GetString("currency_id", ""),
		PaymentTerms:    request.GetInt("payment_terms", 0),
		BillingAddress:  objectArg(request, "billing_address"),
		ShippingAddress: objectArg(request, "shipping_address"),
	}
}

func (h *handlers) handleGetContact(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	result, err := h.svc.GetContact(ctx, request.GetString("contact_id", ""))
	if err != nil {
		return h.toolError("get_contact", err), nil
	}
	return jsonResult(result), nil
}

func (h *handlers) handleDeleteContact(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	result, err := h.svc.DeleteContact(ctx, request.GetString("contact_id", ""))
	if err != nil {
		return h.toolError("delete_contact", err), nil
	}
	return jsonResult(result), nil
}
