package books

import (
	"context"
	"fmt"
)

// ListExpensesOptions filters the expense listing.
type ListExpensesOptions struct {
	Status     string // unbilled, invoiced, reimbursed, non-billable, billable
	VendorID   string
	CustomerID string
	DateFrom   any
	DateTo     any
	Page       int
	PageSize   int
	SearchText string
	SortColumn string
	SortOrder  string
}

// ExpenseList is the normalized paginated expense listing.
type ExpenseList struct {
	Expenses []map[string]any `json:"expenses"`
	PageInfo
	Message string `json:"message,omitempty"`
}

// ExpenseResult wraps a single expense response.
type ExpenseResult struct {
	Expense map[string]any `json:"expense"`
	Message string         `json:"message"`
}

// CreateExpenseInput holds the fields accepted when recording an expense.
type CreateExpenseInput struct {
	AccountID            string `json:"account_id"`
	Date                 any    `json:"date"`
	Amount               float64
	PaidThroughAccountID string `json:"paid_through_account_id,omitempty"`
	VendorID             string `json:"vendor_id,omitempty"`
	CustomerID           string `json:"customer_id,omitempty"`
	IsBillable           bool   `json:"is_billable,omitempty"`
	CurrencyID           string `json:"currency_id,omitempty"`
	Description          string `json:"description,omitempty"`
	ReferenceNumber      string `json:"reference_number,omitempty"`
	TaxID                string `json:"tax_id,omitempty"`
}

// ListExpenses lists expenses with pagination and filters. Date bounds
// use the upstream date.from and date.to parameter names.
func (s *Service) ListExpenses(ctx context.Context, opts ListExpensesOptions) (*ExpenseList, error) {
	page, pageSize := normalizePage(opts.Page, opts.PageSize)

	params := map[string]string{
		"page":     fmt.Sprint(page),
		"per_page": fmt.Sprint(pageSize),
	}
	if opts.Status != "" {
		params["status"] = opts.Status
	}
	if opts.VendorID != "" {
		params["vendor_id"] = opts.VendorID
	}
	if opts.CustomerID != "" {
		params["customer_id"] = opts.CustomerID
	}
	if opts.DateFrom != nil {
		normalized, err := NormalizeDate("date_from", opts.DateFrom)
		if err != nil {
			return nil, err
		}
		params["date.from"] = normalized
	}
	if opts.DateTo != nil {
		normalized, err := NormalizeDate("date_to", opts.DateTo)
		if err != nil {
			return nil, err
		}
		params["date.to"] = normalized
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

	s.logger.Info("listing expenses", "status", opts.Status, "page", page)

	resp, err := s.api.Request(ctx, "GET", "/expenses", params, nil, nil)
	if err != nil {
		return nil, err
	}

	return &ExpenseList{
		Expenses: entityList(resp, "expenses"),
		PageInfo: pageInfoFrom(resp, page, pageSize),
		Message:  messageOr(resp, ""),
	}, nil
}

// CreateExpense records a new expense.
func (s *Service) CreateExpense(ctx context.Context, input CreateExpenseInput) (*ExpenseResult, error) {
	if input.AccountID == "" {
		return nil, invalid("account_id", "is required")
	}
	if input.Date == nil {
		return nil, invalid("date", "is required")
	}
	if input.Amount <= 0 {
		return nil, invalid("amount", "must be greater than zero")
	}

	date, err := NormalizeDate("date", input.Date)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"account_id": input.AccountID,
		"date":       date,
		"amount":     input.Amount,
	}
	if input.PaidThroughAccountID != "" {
		body["paid_through_account_id"] = input.PaidThroughAccountID
	}
	if input.VendorID != "" {
		body["vendor_id"] = input.VendorID
	}
	if input.CustomerID != "" {
		body["customer_id"] = input.CustomerID
	}
	if input.IsBillable {
		body["is_billable"] = true
	}
	if input.CurrencyID != "" {
		body["currency_id"] = input.CurrencyID
	}
	if input.Description != "" {
		body["description"] = input.Description
	}
	if input.ReferenceNumber != "" {
		body["reference_number"] = input.ReferenceNumber
	}
	if input.TaxID != "" {
		body["tax_id"] = input.TaxID
	}

	s.logger.Info("creating expense", "account_id", input.AccountID, "amount", input.Amount)

	resp, err := s.api.Request(ctx, "POST", "/expenses", nil, body, nil)
	if err != nil {
		return nil, err
	}

	return &ExpenseResult{
		Expense: entity(resp, "expense"),
		Message: messageOr(resp, "Expense created successfully"),
	}, nil
}

// GetExpense retrieves an expense by id.
func (s *Service) GetExpense(ctx context.Context, expenseID string) (*ExpenseResult, error) {
	if expenseID == "" {
		return nil, invalid("expense_id", "is required")
	}

	resp, err := s.api.Request(ctx, "GET", "/expenses/"+expenseID, nil, nil, nil)
	if err != nil {
		return nil, err
	}

	expense := entity(resp, "expense")
	if expense == nil {
		return &ExpenseResult{Message: "Expense not found"}, nil
	}
	return &ExpenseResult{
		Expense: expense,
		Message: messageOr(resp, "Expense retrieved successfully"),
	}, nil
}

// UpdateExpense applies a partial update. At least one field must be
// provided; date values are normalized before the request.
func (s *Service) UpdateExpense(ctx context.Context, expenseID string, fields map[string]any) (*ExpenseResult, error) {
	if expenseID == "" {
		return nil, invalid("expense_id", "is required")
	}
	if len(fields) == 0 {
		return nil, invalid("", "At least one field must be provided for update")
	}
	if err := normalizeDateFields(fields, "date"); err != nil {
		return nil, err
	}

	s.logger.Info("updating expense", "expense_id", expenseID, "fields", len(fields))

	resp, err := s.api.Request(ctx, "PUT", "/expenses/"+expenseID, nil, fields, nil)
	if err != nil {
		return nil, err
	}

	return &ExpenseResult{
		Expense: entity(resp, "expense"),
		Message: messageOr(resp, "Expense updated successfully"),
	}, nil
}
