package books

import (
	"context"
	"fmt"
)

// ListContactsOptions filters the contact listing.
type ListContactsOptions struct {
	ContactType string // all, customer, vendor
	Page        int
	PageSize    int
	SearchText  string
	FilterBy    string // all, active, inactive
	SortColumn  string
	SortOrder   string // ascending, descending
}

// ContactList is the normalized paginated contact listing.
type ContactList struct {
	Contacts []map[string]any `json:"contacts"`
	PageInfo
	Message string `json:"message,omitempty"`
}

// ContactResult wraps a single contact response.
type ContactResult struct {
	Contact map[string]any `json:"contact"`
	Message string         `json:"message"`
}

// DeleteResult reports a completed delete.
type DeleteResult struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ContactID string `json:"contact_id"`
}

// CustomerInput holds the fields accepted when creating a customer or
// vendor contact.
type CustomerInput struct {
	ContactName     string           `json:"contact_name"`
	Email           string           `json:"email,omitempty"`
	Phone           string           `json:"phone,omitempty"`
	Mobile          string           `json:"mobile,omitempty"`
	CompanyName     string           `json:"company_name,omitempty"`
	Website         string           `json:"website,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	CurrencyID      string           `json:"currency_id,omitempty"`
	PaymentTerms    int              `json:"payment_terms,omitempty"`
	BillingAddress  map[string]any   `json:"billing_address,omitempty"`
	ShippingAddress map[string]any   `json:"shipping_address,omitempty"`
	ContactPersons  []map[string]any `json:"contact_persons,omitempty"`
	CustomFields    []map[string]any `json:"custom_fields,omitempty"`
}

// ListContacts lists customers and vendors with pagination and filters.
func (s *Service) ListContacts(ctx context.Context, opts ListContactsOptions) (*ContactList, error) {
	page, pageSize := normalizePage(opts.Page, opts.PageSize)

	params := map[string]string{
		"page":     fmt.Sprint(page),
		"per_page": fmt.Sprint(pageSize),
	}
	params["filter_by"] = opts.FilterBy
	if params["filter_by"] == "" {
		params["filter_by"] = "active"
	}
	params["sort_column"] = opts.SortColumn
	if params["sort_column"] == "" {
		params["sort_column"] = "contact_name"
	}
	params["sort_order"] = opts.SortOrder
	if params["sort_order"] == "" {
		params["sort_order"] = "ascending"
	}
	if opts.SearchText != "" {
		params["search_text"] = opts.SearchText
	}

	endpoint := "/contacts"
	switch opts.ContactType {
	case "customer":
		endpoint = "/contacts?contact_type=customer"
	case "vendor":
		endpoint = "/contacts?contact_type=vendor"
	case "", "all":
	default:
		return nil, invalid("contact_type", "must be one of all, customer, vendor")
	}

	s.logger.Info("listing contacts", "contact_type", opts.ContactType, "page", page)

	resp, err := s.api.Request(ctx, "GET", endpoint, params, nil, nil)
	if err != nil {
		return nil, err
	}

	return &ContactList{
		Contacts: entityList(resp, "contacts"),
		PageInfo: pageInfoFrom(resp, page, pageSize),
		Message:  messageOr(resp, ""),
	}, nil
}

// CreateCustomer creates a customer contact.
func (s *Service) CreateCustomer(ctx context.Context, input CustomerInput) (*ContactResult, error) {
	return s.createContact(ctx, "customer", input)
}

// CreateVendor creates a vendor contact.
func (s *Service) CreateVendor(ctx context.Context, input CustomerInput) (*ContactResult, error) {
	return s.createContact(ctx, "vendor", input)
}

func (s *Service) createContact(ctx context.Context, contactType string, input CustomerInput) (*ContactResult, error) {
	if input.ContactName == "" {
		return nil, invalid("contact_name", "is required")
	}

	body := map[string]any{
		"contact_name": input.ContactName,
		"contact_type": contactType,
	}
	if input.Email != "" {
		body["email"] = input.Email
	}
	if input.Phone != "" {
		body["phone"] = input.Phone
	}
	if input.Mobile != "" {
		body["mobile"] = input.Mobile
	}
	if input.CompanyName != "" {
		body["company_name"] = input.CompanyName
	}
	if input.Website != "" {
		body["website"] = input.Website
	}
	if input.Notes != "" {
		body["notes"] = input.Notes
	}
	if input.CurrencyID != "" {
		body["currency_id"] = input.CurrencyID
	}
	if input.PaymentTerms != 0 {
		body["payment_terms"] = input.PaymentTerms
	}
	if input.BillingAddress != nil {
		body["billing_address"] = input.BillingAddress
	}
	if input.ShippingAddress != nil {
		body["shipping_address"] = input.ShippingAddress
	}
	if len(input.ContactPersons) > 0 {
		body["contact_persons"] = input.ContactPersons
	}
	if len(input.CustomFields) > 0 {
		body["custom_fields"] = input.CustomFields
	}

	s.logger.Info("creating contact", "contact_type", contactType, "contact_name", input.ContactName)

	resp, err := s.api.Request(ctx, "POST", "/contacts", nil, body, nil)
	if err != nil {
		return nil, err
	}

	fallback := "Customer created successfully"
	if contactType == "vendor" {
		fallback = "Vendor created successfully"
	}
	return &ContactResult{
		Contact: entity(resp, "contact"),
		Message: messageOr(resp, fallback),
	}, nil
}

// GetContact retrieves a contact by id.
func (s *Service) GetContact(ctx context.Context, contactID string) (*ContactResult, error) {
	if contactID == "" {
		return nil, invalid("contact_id", "is required")
	}

	resp, err := s.api.Request(ctx, "GET", "/contacts/"+contactID, nil, nil, nil)
	if err != nil {
		return nil, err
	}

	contact := entity(resp, "contact")
	if contact == nil {
		return &ContactResult{Message: "Contact not found"}, nil
	}
	return &ContactResult{
		Contact: contact,
		Message: messageOr(resp, "Contact retrieved successfully"),
	}, nil
}

// DeleteContact removes a contact by id.
func (s *Service) DeleteContact(ctx context.Context, contactID string) (*DeleteResult, error) {
	if contactID == "" {
		return nil, invalid("contact_id", "is required")
	}

	s.logger.Info("deleting contact", "contact_id", contactID)

	resp, err := s.api.Request(ctx, "DELETE", "/contacts/"+contactID, nil, nil, nil)
	if err != nil {
		return nil, err
	}

	return &DeleteResult{
		Success:   true,
		Message:   messageOr(resp, "Contact deleted successfully"),
		ContactID: contactID,
	}, nil
}
