// Package mcp wires the Zoho Books tools, resources, and prompts into
// an MCP server speaking stdio.
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/booksmcp/booksmcp/internal/audit"
	"github.com/booksmcp/booksmcp/internal/books"
	"github.com/booksmcp/booksmcp/internal/config"
	"github.com/booksmcp/booksmcp/internal/resources"
	"github.com/booksmcp/booksmcp/internal/zoho"
)

// NewServer creates an MCP server exposing the Zoho Books tools.
func NewServer(cfg *config.Config, client *zoho.Client, auditStore *audit.Store, logger *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer(
		"booksmcp",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithPromptCapabilities(false),
		server.WithInstructions(
			"Zoho Books accounting tools. Manage contacts, invoices, expenses, "+
				"items, and sales orders, or read the dashboard resources for "+
				"business overviews. All operations act on the configured organization.",
		),
	)

	svc := books.NewService(client, logger)
	h := &handlers{
		cfg:    cfg,
		svc:    svc,
		client: client,
		audit:  auditStore,
		logger: logger,
	}

	s.AddTool(listContactsTool(), h.handleListContacts)
	s.AddTool(createCustomerTool(), h.handleCreateCustomer)
	s.AddTool(createVendorTool(), h.handleCreateVendor)
	s.AddTool(getContactTool(), h.handleGetContact)
	s.AddTool(deleteContactTool(), h.handleDeleteContact)

	s.AddTool(listInvoicesTool(), h.handleListInvoices)
	s.AddTool(createInvoiceTool(), h.handleCreateInvoice)
	s.AddTool(getInvoiceTool(), h.handleGetInvoice)
	s.AddTool(emailInvoiceTool(), h.handleEmailInvoice)
	s.AddTool(markInvoiceSentTool(), h.handleMarkInvoiceSent)
	s.AddTool(voidInvoiceTool(), h.handleVoidInvoice)

	s.AddTool(listExpensesTool(), h.handleListExpenses)
	s.AddTool(createExpenseTool(), h.handleCreateExpense)
	s.AddTool(getExpenseTool(), h.handleGetExpense)
	s.AddTool(updateExpenseTool(), h.handleUpdateExpense)

	s.AddTool(listItemsTool(), h.handleListItems)
	s.AddTool(createItemTool(), h.handleCreateItem)
	s.AddTool(getItemTool(), h.handleGetItem)
	s.AddTool(updateItemTool(), h.handleUpdateItem)

	s.AddTool(listSalesOrdersTool(), h.handleListSalesOrders)
	s.AddTool(createSalesOrderTool(), h.handleCreateSalesOrder)
	s.AddTool(getSalesOrderTool(), h.handleGetSalesOrder)
	s.AddTool(updateSalesOrderTool(), h.handleUpdateSalesOrder)
	s.AddTool(convertToInvoiceTool(), h.handleConvertToInvoice)

	s.AddTool(requestLogTool(), h.handleRequestLog)

	renderer := resources.NewRenderer(svc, client, logger)
	registerResources(s, renderer)
	registerPrompts(s)

	return s
}

// Serve runs the MCP server on stdio.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}
