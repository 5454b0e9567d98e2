package books

import (
	"context"
	"fmt"
	"strings"
)

// ListInvoicesOptions filters the invoice listing.
type ListInvoicesOptions struct {
	Status     string // draft, sent, overdue, paid, void, unpaid, partially_paid, viewed
	CustomerID string
	Page       int
	PageSize   int
	SearchText string
	DateStart  any
	DateEnd    any
	SortColumn string
	SortOrder  string
}

var invoiceStatuses = map[string]string{
	"draft":          "Status.Draft",
	"sent":           "Status.Sent",
	"overdue":        "Status.OverDue",
	"paid":           "Status.Paid",
	"void":           "Status.Void",
	"unpaid":         "Status.Unpaid",
	"partially_paid": "Status.PartiallyPaid",
	"viewed":         "Status.Viewed",
}

// InvoiceList is the normalized paginated invoice listing.
type InvoiceList struct {
	Invoices []map[string]any `json:"invoices"`
	PageInfo
	Message string `json:"message,omitempty"`
}

// InvoiceResult wraps a single invoice response.
type InvoiceResult struct {
	Invoice map[string]any `json:"invoice"`
	Message string         `json:"message"`
}

// CreateInvoiceInput holds the fields accepted when creating an invoice.
type CreateInvoiceInput struct {
	CustomerID      string           `json:"customer_id"`
	LineItems       []map[string]any `json:"line_items"`
	InvoiceNumber   string           `json:"invoice_number,omitempty"`
	ReferenceNumber string           `json:"reference_number,omitempty"`
	Date            any              `json:"date,omitempty"`
	DueDate         any              `json:"due_date,omitempty"`
	PaymentTerms    int              `json:"payment_terms,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	Terms           string           `json:"terms,omitempty"`
	Discount        string           `json:"discount,omitempty"`
	SalespersonName string           `json:"salesperson_name,omitempty"`
	CustomFields    []map[string]any `json:"custom_fields,omitempty"`
}

// ListInvoices lists invoices with pagination and filters.
func (s *Service) ListInvoices(ctx context.Context, opts ListInvoicesOptions) (*InvoiceList, error) {
	page, pageSize := normalizePage(opts.Page, opts.PageSize)

	params := map[string]string{
		"page":     fmt.Sprint(page),
		"per_page": fmt.Sprint(pageSize),
	}
	if opts.Status != "" {
		filter, ok := invoiceStatuses[strings.ToLower(opts.Status)]
		if !ok {
			return nil, invalid("status", "must be one of draft, sent, overdue, paid, void, unpaid, partially_paid, viewed")
		}
		params["filter_by"] = filter
	}
	if opts.CustomerID != "" {
		params["customer_id"] = opts.CustomerID
	}
	if opts.SearchText != "" {
		params["search_text"] = opts.SearchText
	}
	if opts.DateStart != nil {
		normalized, err := NormalizeDate("date_start", opts.DateStart)
		if err != nil {
			return nil, err
		}
		params["date_start"] = normalized
	}
	if opts.DateEnd != nil {
		normalized, err := NormalizeDate("date_end", opts.DateEnd)
		if err != nil {
			return nil, err
		}
		params["date_end"] = normalized
	}
	if opts.SortColumn != "" {
		params["sort_column"] = opts.SortColumn
	}
	if opts.SortOrder != "" {
		params["sort_order"] = opts.SortOrder
	}

	s.logger.Info("listing invoices", "status", opts.Status, "page", page)

	resp, err := s.api.Request(ctx, "GET", "/invoices", params, nil, nil)
	if err != nil {
		return nil, err
	}

	return &InvoiceList{
		Invoices: entityList(resp, "invoices"),
		PageInfo: pageInfoFrom(resp, page, pageSize),
		Message:  messageOr(resp, ""),
	}, nil
}

// CreateInvoice creates a draft invoice for a customer.
func (s *Service) CreateInvoice(ctx context.Context, input CreateInvoiceInput) (*InvoiceResult, error) {
	if input.CustomerID == "" {
		return nil, invalid("customer_id", "is required")
	}
	if len(input.LineItems) == 0 {
		return nil, invalid("line_items", "at least one line item is required")
	}

	body := map[string]any{
		"customer_id": input.CustomerID,
		"line_items":  input.LineItems,
	}
	if input.InvoiceNumber != "" {
		body["invoice_number"] = input.InvoiceNumber
	}
	if input.ReferenceNumber != "" {
		body["reference_number"] = input.ReferenceNumber
	}
	if input.Date != nil {
		normalized, err := NormalizeDate("date", input.Date)
		if err != nil {
			return nil, err
		}
		body["date"] = normalized
	}
	if input.DueDate != nil {
		normalized, err := NormalizeDate("due_date", input.DueDate)
		if err != nil {
			return nil, err
		}
		body["due_date"] = normalized
	}
	if input.PaymentTerms != 0 {
		body["payment_terms"] = input.PaymentTerms
	}
	if input.Notes != "" {
		body["notes"] = input.Notes
	}
	if input.Terms != "" {
		body["terms"] = input.Terms
	}
	if input.Discount != "" {
		body["discount"] = input.Discount
	}
	if input.SalespersonName != "" {
		body["salesperson_name"] = input.SalespersonName
	}
	if len(input.CustomFields) > 0 {
		body["custom_fields"] = input.CustomFields
	}

	s.logger.Info("creating invoice", "customer_id", input.CustomerID, "line_items", len(input.LineItems))

	resp, err := s.api.Request(ctx, "POST", "/invoices", nil, body, nil)
	if err != nil {
		return nil, err
	}

	return &InvoiceResult{
		Invoice: entity(resp, "invoice"),
		Message: messageOr(resp, "Invoice created successfully"),
	}, nil
}

// GetInvoice retrieves an invoice by id.
func (s *Service) GetInvoice(ctx context.Context, invoiceID string) (*InvoiceResult, error) {
	if invoiceID == "" {
		return nil, invalid("invoice_id", "is required")
	}

	resp, err := s.api.Request(ctx, "GET", "/invoices/"+invoiceID, nil, nil, nil)
	if err != nil {
		return nil, err
	}

	invoice := entity(resp, "invoice")
	if invoice == nil {
		return &InvoiceResult{Message: "Invoice not found"}, nil
	}
	return &InvoiceResult{
		Invoice: invoice,
		Message: messageOr(resp, "Invoice retrieved successfully"),
	}, nil
}

// EmailInvoiceInput holds the optional overrides for EmailInvoice.
type EmailInvoiceInput struct {
	ToEmails []string `json:"to_mail_ids,omitempty"`
	Subject  string   `json:"subject,omitempty"`
	Body     string   `json:"body,omitempty"`
}

// StatusResult reports a completed status transition.
type StatusResult struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	InvoiceID string `json:"invoice_id"`
}

// EmailInvoice emails an invoice to the customer. Recipients default to
// the contact's primary email when none are given.
func (s *Service) EmailInvoice(ctx context.Context, invoiceID string, input EmailInvoiceInput) (*StatusResult, error) {
	if invoiceID == "" {
		return nil, invalid("invoice_id", "is required")
	}

	body := map[string]any{}
	if len(input.ToEmails) > 0 {
		body["to_mail_ids"] = input.ToEmails
	}
	if input.Subject != "" {
		body["subject"] = input.Subject
	}
	if input.Body != "" {
		body["body"] = input.Body
	}

	s.logger.Info("emailing invoice", "invoice_id", invoiceID)

	resp, err := s.api.Request(ctx, "POST", "/invoices/"+invoiceID+"/email", nil, body, nil)
	if err != nil {
		return nil, err
	}

	return &StatusResult{
		Success:   true,
		Message:   messageOr(resp, "Invoice emailed successfully"),
		InvoiceID: invoiceID,
	}, nil
}

// MarkInvoiceSent transitions a draft invoice to sent.
func (s *Service) MarkInvoiceSent(ctx context.Context, invoiceID string) (*StatusResult, error) {
	return s.invoiceStatus(ctx, invoiceID, "sent", "Invoice marked as sent")
}

// VoidInvoice voids an invoice.
func (s *Service) VoidInvoice(ctx context.Context, invoiceID string) (*StatusResult, error) {
	return s.invoiceStatus(ctx, invoiceID, "void", "Invoice voided successfully")
}

func (s *Service) invoiceStatus(ctx context.Context, invoiceID, status, fallback string) (*StatusResult, error) {
	if invoiceID == "" {
		return nil, invalid("invoice_id", "is required")
	}

	s.logger.Info("changing invoice status", "invoice_id", invoiceID, "status", status)

	resp, err := s.api.Request(ctx, "POST", "/invoices/"+invoiceID+"/status/"+status, nil, nil, nil)
	if err != nil {
		return nil, err
	}

	return &StatusResult{
		Success:   true,
		Message:   messageOr(resp, fallback),
		InvoiceID: invoiceID,
	}, nil
}
