package books

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListItemsTypeFilter(t *testing.T) {
	svc, api := newTestService(map[string]any{
		"items": []any{map[string]any{"item_id": "item-1", "item_type": "service"}},
	})

	_, err := svc.ListItems(context.Background(), ListItemsOptions{
		ItemType: "service", Status: "active",
	})
	require.NoError(t, err)

	params := api.calls[0].Params
	assert.Equal(t, "/items", api.calls[0].Endpoint)
	assert.Equal(t, "ItemType.service", params["filter_by"])
	assert.Equal(t, "active", params["status"])
}

func TestCreateItemDefaultsToService(t *testing.T) {
	svc, api := newTestService(map[string]any{
		"item": map[string]any{"item_id": "item-1", "name": "Consulting"},
	})

	result, err := svc.CreateItem(context.Background(), CreateItemInput{
		Name: "Consulting", Rate: 150,
	})
	require.NoError(t, err)

	body := bodyMap(t, api.calls[0])
	assert.Equal(t, "Consulting", body["name"])
	assert.Equal(t, 150.0, body["rate"])
	assert.Equal(t, "service", body["item_type"])

	assert.Equal(t, "item-1", result.Item["item_id"])
}

func TestCreateItemValidation(t *testing.T) {
	svc, api := newTestService()

	var ve *ValidationError

	_, err := svc.CreateItem(context.Background(), CreateItemInput{Rate: 10})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "name", ve.Field)

	_, err = svc.CreateItem(context.Background(), CreateItemInput{Name: "x", Rate: -1})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "rate", ve.Field)

	assert.Empty(t, api.calls)
}

func TestGetItemEmptyID(t *testing.T) {
	svc, api := newTestService()

	var ve *ValidationError
	_, err := svc.GetItem(context.Background(), "")
	require.ErrorAs(t, err, &ve)
	assert.Empty(t, api.calls)
}

func TestUpdateItem(t *testing.T) {
	svc, api := newTestService(map[string]any{
		"item": map[string]any{"item_id": "123456789", "status": "inactive"},
	})

	result, err := svc.UpdateItem(context.Background(), "123456789", map[string]any{
		"status": "inactive",
	})
	require.NoError(t, err)

	assert.Equal(t, "PUT", api.calls[0].Method)
	assert.Equal(t, "/items/123456789", api.calls[0].Endpoint)
	assert.Equal(t, "inactive", result.Item["status"])
}

func TestUpdateItemValidation(t *testing.T) {
	svc, api := newTestService()

	var ve *ValidationError

	_, err := svc.UpdateItem(context.Background(), "", map[string]any{"rate": 10})
	require.ErrorAs(t, err, &ve)

	_, err = svc.UpdateItem(context.Background(), "item-1", nil)
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Message, "At least one field")

	assert.Empty(t, api.calls)
}
