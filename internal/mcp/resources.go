package mcp

import (
	"context"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/booksmcp/booksmcp/internal/resources"
)

// registerResources exposes the markdown dashboards as MCP resources.
func registerResources(s *server.MCPServer, r *resources.Renderer) {
	type renderFunc func(context.Context) (string, error)

	static := []struct {
		uri    string
		name   string
		desc   string
		render renderFunc
	}{
		{"dashboard://summary", "Dashboard Summary", "Business overview with key metrics", r.DashboardSummary},
		{"invoice://overdue", "Overdue Invoices", "Invoices past their due date", r.OverdueInvoices},
		{"invoice://unpaid", "Unpaid Invoices", "Invoices with an outstanding balance", r.UnpaidInvoices},
		{"invoice://list", "Invoice List", "Recent invoices", r.InvoiceList},
		{"payment://recent", "Recent Payments", "Customer payments from the last 30 days", r.RecentPayments},
		{"contact://list", "Contact List", "Customers and vendors", r.ContactList},
		{"expense://list", "Expense List", "Recent expenses", r.ExpenseList},
		{"item://list", "Item List", "Products and services", r.ItemList},
		{"report://cash_flow", "Cash Flow Report", "Month-to-date income versus expenses", r.CashFlow},
	}

	for _, res := range static {
		uri := res.uri
		render := res.render
		s.AddResource(
			mcplib.NewResource(uri, res.name,
				mcplib.WithResourceDescription(res.desc),
				mcplib.WithMIMEType("text/markdown"),
			),
			func(ctx context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
				content, err := render(ctx)
				if err != nil {
					return nil, err
				}
				return []mcplib.ResourceContents{
					mcplib.TextResourceContents{
						URI:      uri,
						MIMEType: "text/markdown",
						Text:     content,
					},
				}, nil
			},
		)
	}

	s.AddResourceTemplate(
		mcplib.NewResourceTemplate("contact://{contact_id}", "Contact Details",
			mcplib.WithTemplateDescription("Detailed profile for a single contact"),
			mcplib.WithTemplateMIMEType("text/markdown"),
		),
		func(ctx context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
			contactID := strings.TrimPrefix(request.Params.URI, "contact://")
			content, err := r.ContactDetails(ctx, contactID)
			if err != nil {
				return nil, err
			}
			return []mcplib.ResourceContents{
				mcplib.TextResourceContents{
					URI:      request.Params.URI,
					MIMEType: "text/markdown",
					Text:     content,
				},
			}, nil
		},
	)
}
