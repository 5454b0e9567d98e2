package books

import (
	"context"
	"fmt"
)

// ListItemsOptions filters the item listing.
type ListItemsOptions struct {
	ItemType   string // sales, purchases, sales_and_purchases, inventory, service
	Status     string // active, inactive
	Page       int
	PageSize   int
	SearchText string
	SortColumn string
	SortOrder  string
}

// ItemList is the normalized paginated item listing.
type ItemList struct {
	Items []map[string]any `json:"items"`
	PageInfo
	Message string `json:"message,omitempty"`
}

// ItemResult wraps a single item response.
type ItemResult struct {
	Item    map[string]any `json:"item"`
	Message string         `json:"message"`
}

// CreateItemInput holds the fields accepted when creating an item.
type CreateItemInput struct {
	Name                string  `json:"name"`
	Rate                float64 `json:"rate"`
	ItemType            string  `json:"item_type,omitempty"` // defaults to service
	Description         string  `json:"description,omitempty"`
	SKU                 string  `json:"sku,omitempty"`
	Unit                string  `json:"unit,omitempty"`
	PurchaseRate        float64 `json:"purchase_rate,omitempty"`
	PurchaseDescription string  `json:"purchase_description,omitempty"`
	AccountID           string  `json:"account_id,omitempty"`
	TaxID               string  `json:"tax_id,omitempty"`
}

// ListItems lists items with pagination and filters. An item_type
// filter maps to the upstream filter_by=ItemType.<type> form.
func (s *Service) ListItems(ctx context.Context, opts ListItemsOptions) (*ItemList, error) {
	page, pageSize := normalizePage(opts.Page, opts.PageSize)

	params := map[string]string{
		"page":     fmt.Sprint(page),
		"per_page": fmt.Sprint(pageSize),
	}
	if opts.ItemType != "" {
		params["filter_by"] = "ItemType." + opts.ItemType
	}
	if opts.Status != "" {
		params["status"] = opts.Status
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

	s.logger.Info("listing items", "item_type", opts.ItemType, "page", page)

	resp, err := s.api.Request(ctx, "GET", "/items", params, nil, nil)
	if err != nil {
		return nil, err
	}

	return &ItemList{
		Items:    entityList(resp, "items"),
		PageInfo: pageInfoFrom(resp, page, pageSize),
		Message:  messageOr(resp, ""),
	}, nil
}

// CreateItem creates a product or service item.
func (s *Service) CreateItem(ctx context.Context, input CreateItemInput) (*ItemResult, error) {
	if input.Name == "" {
		return nil, invalid("name", "is required")
	}
	if input.Rate < 0 {
		return nil, invalid("rate", "must not be negative")
	}

	itemType := input.ItemType
	if itemType == "" {
		itemType = "service"
	}

	body := map[string]any{
		"name":      input.Name,
		"rate":      input.Rate,
		"item_type": itemType,
	}
	if input.Description != "" {
		body["description"] = input.Description
	}
	if input.SKU != "" {
		body["sku"] = input.SKU
	}
	if input.Unit != "" {
		body["unit"] = input.Unit
	}
	if input.PurchaseRate != 0 {
		body["purchase_rate"] = input.PurchaseRate
	}
	if input.PurchaseDescription != "" {
		body["purchase_description"] = input.PurchaseDescription
	}
	if input.AccountID != "" {
		body["account_id"] = input.AccountID
	}
	if input.TaxID != "" {
		body["tax_id"] = input.TaxID
	}

	s.logger.Info("creating item", "name", input.Name, "item_type", itemType)

	resp, err := s.api.Request(ctx, "POST", "/items", nil, body, nil)
	if err != nil {
		return nil, err
	}

	return &ItemResult{
		Item:    entity(resp, "item"),
		Message: messageOr(resp, "Item created successfully"),
	}, nil
}

// GetItem retrieves an item by id.
func (s *Service) GetItem(ctx context.Context, itemID string) (*ItemResult, error) {
	if itemID == "" {
		return nil, invalid("item_id", "is required")
	}

	resp, err := s.api.Request(ctx, "GET", "/items/"+itemID, nil, nil, nil)
	if err != nil {
		return nil, err
	}

	item := entity(resp, "item")
	if item == nil {
		return &ItemResult{Message: "Item not found"}, nil
	}
	return &ItemResult{
		Item:    item,
		Message: messageOr(resp, "Item retrieved successfully"),
	}, nil
}

// UpdateItem applies a partial update. At least one field must be
// provided.
func (s *Service) UpdateItem(ctx context.Context, itemID string, fields map[string]any) (*ItemResult, error) {
	if itemID == "" {
		return nil, invalid("item_id", "is required")
	}
	if len(fields) == 0 {
		return nil, invalid("", "At least one field must be provided for update")
	}

	s.logger.Info("updating item", "item_id", itemID, "fields", len(fields))

	resp, err := s.api.Request(ctx, "PUT", "/items/"+itemID, nil, fields, nil)
	if err != nil {
		return nil, err
	}

	return &ItemResult{
		Item:    entity(resp, "item"),
		Message: messageOr(resp, "Item updated successfully"),
	}, nil
}
