package mcp

import (
	"context"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// registerPrompts exposes guided bookkeeping workflows.
func registerPrompts(s *server.MCPServer) {
	s.AddPrompt(
		mcplib.NewPrompt("invoice_collection_workflow",
			mcplib.WithPromptDescription(
				"Complete workflow for creating, sending, and collecting payment for an invoice",
			),
			mcplib.WithArgument("customer_info",
				mcplib.ArgumentDescription("Customer name, ID, or indication of new customer"),
				mcplib.RequiredArgument(),
			),
			mcplib.WithArgument("items_info",
				mcplib.ArgumentDescription("List of items/services with quantities and rates"),
				mcplib.RequiredArgument(),
			),
			mcplib.WithArgument("payment_terms",
				mcplib.ArgumentDescription("Payment terms (e.g. Net 30, Due on receipt)"),
			),
		),
		handleInvoiceCollectionPrompt,
	)

	s.AddPrompt(
		mcplib.NewPrompt("monthly_invoicing",
			mcplib.WithPromptDescription(
				"Efficient workflow for creating multiple invoices for recurring clients",
			),
			mcplib.WithArgument("billing_month",
				mcplib.ArgumentDescription("Month being billed (e.g. June 2025)"),
				mcplib.RequiredArgument(),
			),
			mcplib.WithArgument("client_list",
				mcplib.ArgumentDescription("Clients to invoice this month, or 'all recurring'"),
			),
		),
		handleMonthlyInvoicingPrompt,
	)

	s.AddPrompt(
		mcplib.NewPrompt("expense_tracking_workflow",
			mcplib.WithPromptDescription(
				"Comprehensive workflow for recording, categorizing, and managing business expenses",
			),
			mcplib.WithArgument("expense_details",
				mcplib.ArgumentDescription("What was purchased, the amount, and the date"),
				mcplib.RequiredArgument(),
			),
			mcplib.WithArgument("billable_to",
				mcplib.ArgumentDescription("Customer to bill the expense to, if billable"),
			),
		),
		handleExpenseTrackingPrompt,
	)
}

// substitute replaces ${name} placeholders with the provided argument
// values, leaving unknown placeholders intact.
func substitute(text string, args map[string]string) string {
	for name, value := range args {
		text = strings.ReplaceAll(text, "${"+name+"}", value)
	}
	return text
}

func handleInvoiceCollectionPrompt(ctx context.Context, request mcplib.GetPromptRequest) (*mcplib.GetPromptResult, error) {
	args := request.Params.Arguments
	return mcplib.NewGetPromptResult(
		"Invoice collection workflow",
		[]mcplib.PromptMessage{
			mcplib.NewPromptMessage(mcplib.RoleUser, mcplib.NewTextContent(substitute(
				`I need help with the complete invoice collection process for this customer: ${customer_info}

We are invoicing: ${items_info}
Payment terms: ${payment_terms}

Please guide me through creating and managing this invoice until payment is received.`, args))),
			mcplib.NewPromptMessage(mcplib.RoleAssistant, mcplib.NewTextContent(
				`I'll help you through the complete invoice collection workflow:

**Step 1: Customer Selection**
I'll look up the customer with list_contacts, or create them with create_customer if they're new.

**Step 2: Invoice Creation**
I'll build the invoice with create_invoice using the items, quantities, and rates you provided, applying the payment terms.

**Step 3: Review and Send**
Once the invoice is created you can choose to:
1. Email it immediately with email_invoice
2. Keep it as a draft for review
3. Mark it as sent with mark_invoice_sent if delivered outside the system

**Step 4: Payment Collection**
For follow-up I can check invoice://overdue regularly, surface invoices needing reminders, and update statuses as payments arrive.

Shall I start by looking up the customer?`)),
		},
	), nil
}

func handleMonthlyInvoicingPrompt(ctx context.Context, request mcplib.GetPromptRequest) (*mcplib.GetPromptResult, error) {
	args := request.Params.Arguments
	return mcplib.NewGetPromptResult(
		"Monthly invoicing workflow",
		[]mcplib.PromptMessage{
			mcplib.NewPromptMessage(mcplib.RoleUser, mcplib.NewTextContent(substitute(
				`It's time for monthly invoicing for ${billing_month}. Clients to bill: ${client_list}

Help me create all the recurring invoices efficiently.`, args))),
			mcplib.NewPromptMessage(mcplib.RoleAssistant, mcplib.NewTextContent(substitute(
				`Let's work through the ${billing_month} billing run:

**Step 1: Gather the client list**
I'll pull active customers with list_contacts and cross-check against your recurring clients.

**Step 2: Confirm amounts**
For each client I'll confirm the services and rates, reusing items from list_items where they exist.

**Step 3: Create the invoices**
I'll create each invoice with create_invoice, dated for the billing period, and report back a summary table of invoice numbers and totals.

**Step 4: Send**
Tell me whether to email each invoice immediately or leave them as drafts for a final review.

Which client should we start with?`, args))),
		},
	), nil
}

func handleExpenseTrackingPrompt(ctx context.Context, request mcplib.GetPromptRequest) (*mcplib.GetPromptResult, error) {
	args := request.Params.Arguments
	return mcplib.NewGetPromptResult(
		"Expense tracking workflow",
		[]mcplib.PromptMessage{
			mcplib.NewPromptMessage(mcplib.RoleUser, mcplib.NewTextContent(substitute(
				`I need to record a business expense: ${expense_details}
Billable to: ${billable_to}

Help me categorize and record it properly.`, args))),
			mcplib.NewPromptMessage(mcplib.RoleAssistant, mcplib.NewTextContent(
				`I'll help you record this expense:

**Step 1: Categorization**
I'll suggest the right expense account based on what was purchased.

**Step 2: Vendor**
If the vendor exists I'll link them; otherwise I can create them with create_vendor.

**Step 3: Record**
I'll record the expense with create_expense, including the date, amount, description, and reference number. If it's billable I'll attach the customer so it can be invoiced later.

**Step 4: Review**
Afterwards you can check expense://list to confirm the entry, or report://cash_flow to see the month-to-date impact.

Does the categorization look right, or should we adjust it?`)),
		},
	), nil
}
