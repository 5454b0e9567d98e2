// Package resources renders the markdown dashboards exposed as MCP
// resources. Each renderer fetches everything it needs and returns
// complete markdown, never a partial document.
package resources

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/booksmcp/booksmcp/internal/books"
)

// Renderer builds markdown views over the Books API.
type Renderer struct {
	svc    *books.Service
	api    books.API
	logger *slog.Logger
	now    func() time.Time
}

// NewRenderer wires a renderer to the domain service and gateway.
func NewRenderer(svc *books.Service, api books.API, logger *slog.Logger) *Renderer {
	return &Renderer{svc: svc, api: api, logger: logger, now: time.Now}
}

const dateLayout = "2006-01-02"

// DashboardSummary renders the business overview with key metrics. The
// independent fetches run concurrently; any failure fails the render.
func (r *Renderer) DashboardSummary(ctx context.Context) (string, error) {
	r.logger.Info("rendering dashboard summary")

	today := r.now()
	startOfMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())

	var (
		orgName        string
		overdueCount   int
		unpaidCount    int
		monthlyRevenue float64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		resp, err := r.api.Request(gctx, "GET", "/organizations", nil, nil, nil)
		if err != nil {
			return err
		}
		if orgs, ok := resp["organizations"].([]any); ok && len(orgs) > 0 {
			if org, ok := orgs[0].(map[string]any); ok {
				orgName, _ = org["name"].(string)
			}
		}
		return nil
	})
	g.Go(func() error {
		result, err := r.svc.ListInvoices(gctx, books.ListInvoicesOptions{Status: "overdue", PageSize: 1})
		if err != nil {
			return err
		}
		overdueCount = result.Total
		return nil
	})
	g.Go(func() error {
		result, err := r.svc.ListInvoices(gctx, books.ListInvoicesOptions{Status: "unpaid", PageSize: 1})
		if err != nil {
			return err
		}
		unpaidCount = result.Total
		return nil
	})
	g.Go(func() error {
		result, err := r.svc.ListInvoices(gctx, books.ListInvoicesOptions{
			Status:    "paid",
			DateStart: startOfMonth.Format(dateLayout),
			DateEnd:   today.Format(dateLayout),
			PageSize:  200,
		})
		if err != nil {
			return err
		}
		for _, inv := range result.Invoices {
			monthlyRevenue += num(inv, "total")
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	if orgName == "" {
		orgName = "Unknown"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Zoho Books Dashboard Summary\n\n")
	fmt.Fprintf(&b, "**Organization**: %s\n", orgName)
	fmt.Fprintf(&b, "**Date**: %s\n\n", today.Format("2006-01-02 15:04"))
	b.WriteString("## Key Metrics\n\n")
	fmt.Fprintf(&b, "- **Overdue Invoices**: %d\n", overdueCount)
	fmt.Fprintf(&b, "- **Unpaid Invoices**: %d\n", unpaidCount)
	fmt.Fprintf(&b, "- **Monthly Revenue**: %s (%s)\n\n", money(monthlyRevenue), today.Format("January 2006"))
	b.WriteString("## Quick Links\n")
	b.WriteString("- View overdue invoices: invoice://overdue\n")
	b.WriteString("- View unpaid invoices: invoice://unpaid\n")
	b.WriteString("- Recent payments: payment://recent\n")
	return b.String(), nil
}

// OverdueInvoices renders overdue invoices sorted by due date.
func (r *Renderer) OverdueInvoices(ctx context.Context) (string, error) {
	r.logger.Info("rendering overdue invoices")

	result, err := r.svc.ListInvoices(ctx, books.ListInvoicesOptions{
		Status: "overdue", SortColumn: "due_date", SortOrder: "ascending", PageSize: 100,
	})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Overdue Invoices\n\nTotal: %d\n\n", len(result.Invoices))
	if len(result.Invoices) == 0 {
		b.WriteString("*No overdue invoices found.*")
		return b.String(), nil
	}

	b.WriteString("| Invoice # | Customer | Amount | Due Date | Days Overdue |\n")
	b.WriteString("|-----------|----------|--------|----------|-------------|\n")
	today := r.now()
	for _, inv := range result.Invoices {
		dueDate := str(inv, "due_date")
		daysOverdue := 0
		if due, err := time.Parse(dateLayout, dueDate); err == nil {
			daysOverdue = int(today.Sub(due).Hours() / 24)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %d |\n",
			str(inv, "invoice_number"), str(inv, "customer_name"),
			money(num(inv, "balance")), dueDate, daysOverdue)
	}
	return b.String(), nil
}

// UnpaidInvoices renders unpaid invoices, newest first.
func (r *Renderer) UnpaidInvoices(ctx context.Context) (string, error) {
	r.logger.Info("rendering unpaid invoices")

	result, err := r.svc.ListInvoices(ctx, books.ListInvoicesOptions{
		Status: "unpaid", SortColumn: "date", SortOrder: "descending", PageSize: 100,
	})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Unpaid Invoices\n\nTotal: %d\n\n", len(result.Invoices))
	if len(result.Invoices) == 0 {
		b.WriteString("*No unpaid invoices found.*")
		return b.String(), nil
	}

	b.WriteString("| Invoice # | Customer | Amount | Date | Due Date | Status |\n")
	b.WriteString("|-----------|----------|--------|------|----------|--------|\n")
	for _, inv := range result.Invoices {
		status := str(inv, "status")
		if status == "" {
			status = "unpaid"
		}
		if status == "overdue" {
			status = "**Overdue**"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			str(inv, "invoice_number"), str(inv, "customer_name"),
			money(num(inv, "balance")), str(inv, "date"), str(inv, "due_date"), status)
	}
	return b.String(), nil
}

// RecentPayments renders customer payments from the last 30 days.
func (r *Renderer) RecentPayments(ctx context.Context) (string, error) {
	r.logger.Info("rendering recent payments")

	end := r.now()
	start := end.AddDate(0, 0, -30)
	params := map[string]string{
		"date_start":  start.Format(dateLayout),
		"date_end":    end.Format(dateLayout),
		"sort_column": "date",
		"sort_order":  "descending",
		"per_page":    "50",
	}

	resp, err := r.api.Request(ctx, "GET", "/customerpayments", params, nil, nil)
	if err != nil {
		return "", err
	}
	payments := entities(resp, "customerpayments")

	var b strings.Builder
	fmt.Fprintf(&b, "# Recent Payments (Last 30 Days)\n\nTotal: %d\n\n", len(payments))
	if len(payments) == 0 {
		b.WriteString("*No recent payments found.*")
		return b.String(), nil
	}

	b.WriteString("| Date | Customer | Amount | Reference # | Invoice # |\n")
	b.WriteString("|------|----------|--------|-------------|----------|\n")
	var total float64
	for _, p := range payments {
		var invoiceNumbers []string
		for _, inv := range entityListOf(p, "invoices") {
			if n := str(inv, "invoice_number"); n != "" {
				invoiceNumbers = append(invoiceNumbers, n)
			}
		}
		ref := str(p, "reference_number")
		if ref == "" {
			ref = "-"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			str(p, "date"), str(p, "customer_name"), money(num(p, "amount")),
			ref, strings.Join(invoiceNumbers, ", "))
		total += num(p, "amount")
	}
	fmt.Fprintf(&b, "\n**Total Received**: %s", money(total))
	return b.String(), nil
}

// ContactList renders the contact directory.
func (r *Renderer) ContactList(ctx context.Context) (string, error) {
	r.logger.Info("rendering contact list")

	result, err := r.svc.ListContacts(ctx, books.ListContactsOptions{PageSize: 100})
	if err != nil {
		return "", err
	}

	total := result.Total
	if total == 0 {
		total = len(result.Contacts)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Contact List\n\nTotal: %d\n\n", total)
	if len(result.Contacts) == 0 {
		b.WriteString("*No contacts found.*")
		return b.String(), nil
	}

	b.WriteString("| Name | Type | Email | Phone | Balance |\n")
	b.WriteString("|------|------|-------|-------|--------|\n")
	for _, c := range result.Contacts {
		contactType := str(c, "contact_type")
		if contactType == "" {
			contactType = "unknown"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			str(c, "contact_name"), contactType,
			orDash(str(c, "email")), orDash(str(c, "phone")),
			money(num(c, "outstanding_receivable_amount")))
	}
	return b.String(), nil
}

// ContactDetails renders a single contact profile.
func (r *Renderer) ContactDetails(ctx context.Context, contactID string) (string, error) {
	r.logger.Info("rendering contact details", "contact_id", contactID)

	result, err := r.svc.GetContact(ctx, contactID)
	if err != nil {
		return "", err
	}
	contact := result.Contact
	if contact == nil {
		return fmt.Sprintf("# Contact Not Found\n\nContact ID: %s", contactID), nil
	}

	var b strings.Builder
	b.WriteString("# Contact Details\n\n")
	fmt.Fprintf(&b, "**Name**: %s\n", orUnknown(str(contact, "contact_name")))
	fmt.Fprintf(&b, "**Type**: %s\n", orUnknown(str(contact, "contact_type")))
	fmt.Fprintf(&b, "**Status**: %s\n\n", orUnknown(str(contact, "status")))

	b.WriteString("## Contact Information\n")
	fmt.Fprintf(&b, "- **Email**: %s\n", orDash(str(contact, "email")))
	fmt.Fprintf(&b, "- **Phone**: %s\n", orDash(str(contact, "phone")))
	fmt.Fprintf(&b, "- **Mobile**: %s\n\n", orDash(str(contact, "mobile")))

	b.WriteString("## Financial Summary\n")
	fmt.Fprintf(&b, "- **Outstanding Receivable**: %s\n", money(num(contact, "outstanding_receivable_amount")))
	fmt.Fprintf(&b, "- **Outstanding Payable**: %s\n", money(num(contact, "outstanding_payable_amount")))
	currency := str(contact, "currency_code")
	if currency == "" {
		currency = "USD"
	}
	fmt.Fprintf(&b, "- **Currency**: %s\n\n", currency)

	b.WriteString("## Addresses")
	billing, _ := contact["billing_address"].(map[string]any)
	if len(billing) > 0 {
		b.WriteString("\n\n### Billing Address\n")
		b.WriteString(formatAddress(billing))
	}
	shipping, _ := contact["shipping_address"].(map[string]any)
	if len(shipping) > 0 && !sameAddress(billing, shipping) {
		b.WriteString("\n\n### Shipping Address\n")
		b.WriteString(formatAddress(shipping))
	}
	return b.String(), nil
}

// InvoiceList renders recent invoices.
func (r *Renderer) InvoiceList(ctx context.Context) (string, error) {
	r.logger.Info("rendering invoice list")

	result, err := r.svc.ListInvoices(ctx, books.ListInvoicesOptions{PageSize: 50})
	if err != nil {
		return "", err
	}

	total := result.Total
	if total == 0 {
		total = len(result.Invoices)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Invoice List\n\nTotal: %d\n\n", total)
	if len(result.Invoices) == 0 {
		b.WriteString("*No invoices found.*")
		return b.String(), nil
	}

	b.WriteString("| Invoice # | Customer | Date | Amount | Balance | Status |\n")
	b.WriteString("|-----------|----------|------|--------|---------|--------|\n")
	for _, inv := range result.Invoices {
		status := str(inv, "status")
		if status == "" {
			status = "unknown"
		}
		if status == "overdue" {
			status = "**Overdue**"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			str(inv, "invoice_number"), str(inv, "customer_name"), str(inv, "date"),
			money(num(inv, "total")), money(num(inv, "balance")), status)
	}
	return b.String(), nil
}

// ExpenseList renders recent expenses.
func (r *Renderer) ExpenseList(ctx context.Context) (string, error) {
	r.logger.Info("rendering expense list")

	result, err := r.svc.ListExpenses(ctx, books.ListExpensesOptions{PageSize: 50})
	if err != nil {
		return "", err
	}

	total := result.Total
	if total == 0 {
		total = len(result.Expenses)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Expense List\n\nTotal: %d\n\n", total)
	if len(result.Expenses) == 0 {
		b.WriteString("*No expenses found.*")
		return b.String(), nil
	}

	b.WriteString("| Date | Description | Account | Amount | Status |\n")
	b.WriteString("|------|-------------|---------|--------|--------|\n")
	for _, e := range result.Expenses {
		description := str(e, "description")
		if description == "" {
			description = "-"
		}
		if len(description) > 50 {
			description = description[:50]
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			str(e, "date"), description, orDash(str(e, "account_name")),
			money(num(e, "total")), orDash(str(e, "status")))
	}
	return b.String(), nil
}

// ItemList renders the product and service catalog.
func (r *Renderer) ItemList(ctx context.Context) (string, error) {
	r.logger.Info("rendering item list")

	result, err := r.svc.ListItems(ctx, books.ListItemsOptions{PageSize: 100})
	if err != nil {
		return "", err
	}

	total := result.Total
	if total == 0 {
		total = len(result.Items)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Item List (Products & Services)\n\nTotal: %d\n\n", total)
	if len(result.Items) == 0 {
		b.WriteString("*No items found.*")
		return b.String(), nil
	}

	b.WriteString("| Name | Type | SKU | Rate | Stock | Status |\n")
	b.WriteString("|------|------|-----|------|-------|--------|\n")
	for _, item := range result.Items {
		itemType := str(item, "product_type")
		if itemType == "" {
			itemType = "service"
		}
		stock := "-"
		if v, ok := item["stock_on_hand"]; ok {
			stock = fmt.Sprint(v)
		}
		status := "Inactive"
		if str(item, "status") == "active" {
			status = "Active"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			str(item, "name"), itemType, orDash(str(item, "sku")),
			money(num(item, "rate")), stock, status)
	}
	return b.String(), nil
}

// CashFlow renders the month-to-date income versus expense summary. The
// two fetches run concurrently.
func (r *Renderer) CashFlow(ctx context.Context) (string, error) {
	r.logger.Info("rendering cash flow report")

	today := r.now()
	startOfMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	start := startOfMonth.Format(dateLayout)
	end := today.Format(dateLayout)

	var (
		paidInvoices []map[string]any
		expenses     []map[string]any
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		result, err := r.svc.ListInvoices(gctx, books.ListInvoicesOptions{
			Status: "paid", DateStart: start, DateEnd: end, PageSize: 200,
		})
		if err != nil {
			return err
		}
		paidInvoices = result.Invoices
		return nil
	})
	g.Go(func() error {
		result, err := r.svc.ListExpenses(gctx, books.ListExpensesOptions{
			DateFrom: start, DateTo: end, PageSize: 200,
		})
		if err != nil {
			return err
		}
		expenses = result.Expenses
		return nil
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	var totalIncome, totalExpenses float64
	for _, inv := range paidInvoices {
		totalIncome += num(inv, "total")
	}
	for _, e := range expenses {
		totalExpenses += num(e, "total")
	}
	netCashFlow := totalIncome - totalExpenses

	var b strings.Builder
	fmt.Fprintf(&b, "# Cash Flow Summary - %s\n\n", today.Format("January 2006"))
	b.WriteString("## Summary\n")
	fmt.Fprintf(&b, "- **Total Income**: %s\n", money(totalIncome))
	fmt.Fprintf(&b, "- **Total Expenses**: %s\n", money(totalExpenses))
	fmt.Fprintf(&b, "- **Net Cash Flow**: %s\n\n", money(netCashFlow))

	b.WriteString("## Income Details\n")
	fmt.Fprintf(&b, "- **Paid Invoices**: %d\n", len(paidInvoices))
	fmt.Fprintf(&b, "- **Average Invoice**: %s\n\n", money(average(totalIncome, len(paidInvoices))))

	b.WriteString("## Expense Details\n")
	fmt.Fprintf(&b, "- **Total Transactions**: %d\n", len(expenses))
	fmt.Fprintf(&b, "- **Average Expense**: %s\n\n", money(average(totalExpenses, len(expenses))))

	b.WriteString("## Cash Position\n")
	switch {
	case netCashFlow > 0:
		fmt.Fprintf(&b, "**Positive cash flow** of %s", money(netCashFlow))
	case netCashFlow < 0:
		fmt.Fprintf(&b, "**Negative cash flow** of %s", money(-netCashFlow))
	default:
		b.WriteString("**Break-even**. Income equals expenses.")
	}
	return b.String(), nil
}
