package books

import (
	"context"
	"fmt"
)

// ListSalesOrdersOptions filters the sales order listing.
type ListSalesOrdersOptions struct {
	Status     string // draft, open, invoiced, partially_invoiced, void, closed
	CustomerID string
	DateStart  any
	DateEnd    any
	Page       int
	PageSize   int
	SearchText string
	SortColumn string
	SortOrder  string
}

// SalesOrderList is the normalized paginated sales order listing.
type SalesOrderList struct {
	SalesOrders []map[string]any `json:"salesorders"`
	PageInfo
	Message string `json:"message,omitempty"`
}

// SalesOrderResult wraps a single sales order response.
type SalesOrderResult struct {
	SalesOrder map[string]any `json:"salesorder"`
	Message    string         `json:"message"`
}

// CreateSalesOrderInput holds the fields accepted when creating a
// sales order.
type CreateSalesOrderInput struct {
	CustomerID       string           `json:"customer_id"`
	LineItems        []map[string]any `json:"line_items"`
	Date             any              `json:"date,omitempty"`
	ShipmentDate     any              `json:"shipment_date,omitempty"`
	SalesOrderNumber string           `json:"salesorder_number,omitempty"`
	ReferenceNumber  string           `json:"reference_number,omitempty"`
	Notes            string           `json:"notes,omitempty"`
	Terms            string           `json:"terms,omitempty"`
	CustomFields     []map[string]any `json:"custom_fields,omitempty"`
}

// ConvertToInvoiceInput holds the optional overrides for the
// conversion.
type ConvertToInvoiceInput struct {
	InvoiceNumber              string `json:"invoice_number,omitempty"`
	Date                       any    `json:"date,omitempty"`
	IgnoreAutoNumberGeneration bool   `json:"ignore_auto_number_generation,omitempty"`
}

// ListSalesOrders lists sales orders with pagination and filters. Date
// bounds use the upstream date_start and date_end parameter names.
func (s *Service) ListSalesOrders(ctx context.Context, opts ListSalesOrdersOptions) (*SalesOrderList, error) {
	page, pageSize := normalizePage(opts.Page, opts.PageSize)

	params := map[string]string{
		"page":     fmt.Sprint(page),
		"per_page": fmt.Sprint(pageSize),
	}
	if opts.Status != "" {
		params["filter_by"] = opts.Status
	}
	if opts.CustomerID != "" {
		params["customer_id"] = opts.CustomerID
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
	if opts.SearchText != "" {
		params["search_text"] = opts.SearchText
	}
	if opts.SortColumn != "" {
		params["sort_column"] = opts.SortColumn
	}
	if opts.SortOrder != "" {
		params["sort_order"] = opts.SortOrder
	}

	s.logger.Info("listing sales orders", "status", opts.Status, "page", page)

	resp, err := s.api.Request(ctx, "GET", "/salesorders", params, nil, nil)
	if err != nil {
		return nil, err
	}

	return &SalesOrderList{
		SalesOrders: entityList(resp, "salesorders"),
		PageInfo:    pageInfoFrom(resp, page, pageSize),
		Message:     messageOr(resp, ""),
	}, nil
}

// CreateSalesOrder creates a sales order for a customer.
func (s *Service) CreateSalesOrder(ctx context.Context, input CreateSalesOrderInput) (*SalesOrderResult, error) {
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
	if input.Date != nil {
		normalized, err := NormalizeDate("date", input.Date)
		if err != nil {
			return nil, err
		}
		body["date"] = normalized
	}
	if input.ShipmentDate != nil {
		normalized, err := NormalizeDate("shipment_date", input.ShipmentDate)
		if err != nil {
			return nil, err
		}
		body["shipment_date"] = normalized
	}
	if input.SalesOrderNumber != "" {
		body["salesorder_number"] = input.SalesOrderNumber
	}
	if input.ReferenceNumber != "" {
		body["reference_number"] = input.ReferenceNumber
	}
	if input.Notes != "" {
		body["notes"] = input.Notes
	}
	if input.Terms != "" {
		body["terms"] = input.Terms
	}
	if len(input.CustomFields) > 0 {
		body["custom_fields"] = input.CustomFields
	}

	s.logger.Info("creating sales order", "customer_id", input.CustomerID, "line_items", len(input.LineItems))

	resp, err := s.api.Request(ctx, "POST", "/salesorders", nil, body, nil)
	if err != nil {
		return nil, err
	}

	return &SalesOrderResult{
		SalesOrder: entity(resp, "salesorder"),
		Message:    messageOr(resp, "Sales order created successfully"),
	}, nil
}

// GetSalesOrder retrieves a sales order by id.
func (s *Service) GetSalesOrder(ctx context.Context, salesOrderID string) (*SalesOrderResult, error) {
	if salesOrderID == "" {
		return nil, invalid("salesorder_id", "is required")
	}

	resp, err := s.api.Request(ctx, "GET", "/salesorders/"+salesOrderID, nil, nil, nil)
	if err != nil {
		return nil, err
	}

	order := entity(resp, "salesorder")
	if order == nil {
		return &SalesOrderResult{Message: "Sales order not found"}, nil
	}
	return &SalesOrderResult{
		SalesOrder: order,
		Message:    messageOr(resp, "Sales order retrieved successfully"),
	}, nil
}

// UpdateSalesOrder applies a partial update. At least one field must be
// provided; date values are normalized before the request.
func (s *Service) UpdateSalesOrder(ctx context.Context, salesOrderID string, fields map[string]any) (*SalesOrderResult, error) {
	if salesOrderID == "" {
		return nil, invalid("salesorder_id", "is required")
	}
	if len(fields) == 0 {
		return nil, invalid("", "At least one field must be provided for update")
	}
	if err := normalizeDateFields(fields, "date", "shipment_date"); err != nil {
		return nil, err
	}

	s.logger.Info("updating sales order", "salesorder_id", salesOrderID, "fields", len(fields))

	resp, err := s.api.Request(ctx, "PUT", "/salesorders/"+salesOrderID, nil, fields, nil)
	if err != nil {
		return nil, err
	}

	return &SalesOrderResult{
		SalesOrder: entity(resp, "salesorder"),
		Message:    messageOr(resp, "Sales order updated successfully"),
	}, nil
}

// ConvertToInvoice converts a sales order into a draft invoice.
func (s *Service) ConvertToInvoice(ctx context.Context, salesOrderID string, input ConvertToInvoiceInput) (*InvoiceResult, error) {
	if salesOrderID == "" {
		return nil, invalid("salesorder_id", "is required")
	}

	body := map[string]any{}
	if input.InvoiceNumber != "" {
		body["invoice_number"] = input.InvoiceNumber
		body["ignore_auto_number_generation"] = true
	}
	if input.Date != nil {
		normalized, err := NormalizeDate("date", input.Date)
		if err != nil {
			return nil, err
		}
		body["date"] = normalized
	}
	if input.IgnoreAutoNumberGeneration {
		body["ignore_auto_number_generation"] = true
	}

	s.logger.Info("converting sales order to invoice", "salesorder_id", salesOrderID)

	resp, err := s.api.Request(ctx, "POST", "/salesorders/"+salesOrderID+"/convert", nil, body, nil)
	if err != nil {
		return nil, err
	}

	return &InvoiceResult{
		Invoice: entity(resp, "invoice"),
		Message: messageOr(resp, "Sales order converted to invoice successfully"),
	}, nil
}
