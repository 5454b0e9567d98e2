package books

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListContactsDefaults(t *testing.T) {
	svc, api := newTestService(map[string]any{
		"contacts": []any{
			map[string]any{"contact_id": "1", "contact_name": "Acme"},
		},
		"page_context": map[string]any{
			"page": float64(1), "per_page": float64(25),
			"has_more_page": false, "total": float64(1),
		},
	})

	result, err := svc.ListContacts(context.Background(), ListContactsOptions{})
	require.NoError(t, err)

	require.Len(t, api.calls, 1)
	call := api.calls[0]
	assert.Equal(t, "GET", call.Method)
	assert.Equal(t, "/contacts", call.Endpoint)
	assert.Equal(t, "1", call.Params["page"])
	assert.Equal(t, "25", call.Params["per_page"])
	assert.Equal(t, "active", call.Params["filter_by"])
	assert.Equal(t, "contact_name", call.Params["sort_column"])
	assert.Equal(t, "ascending", call.Params["sort_order"])

	require.Len(t, result.Contacts, 1)
	assert.Equal(t, 1, result.Total)
	assert.False(t, result.HasMorePage)
}

func TestListContactsByType(t *testing.T) {
	svc, api := newTestService(map[string]any{"contacts": []any{}})

	_, err := svc.ListContacts(context.Background(), ListContactsOptions{ContactType: "customer"})
	require.NoError(t, err)
	assert.Equal(t, "/contacts?contact_type=customer", api.calls[0].Endpoint)

	_, err = svc.ListContacts(context.Background(), ListContactsOptions{ContactType: "vendor"})
	require.NoError(t, err)
	assert.Equal(t, "/contacts?contact_type=vendor", api.calls[1].Endpoint)

	_, err = svc.ListContacts(context.Background(), ListContactsOptions{ContactType: "supplier"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, api.calls, 2, "invalid type must not reach the network")
}

func TestCreateCustomer(t *testing.T) {
	svc, api := newTestService(map[string]any{
		"contact": map[string]any{"contact_id": "123", "contact_name": "Acme"},
		"message": "The contact has been added.",
	})

	result, err := svc.CreateCustomer(context.Background(), CustomerInput{
		ContactName: "Acme",
		Email:       "billing@acme.test",
	})
	require.NoError(t, err)

	call := api.calls[0]
	assert.Equal(t, "POST", call.Method)
	assert.Equal(t, "/contacts", call.Endpoint)
	body := bodyMap(t, call)
	assert.Equal(t, "Acme", body["contact_name"])
	assert.Equal(t, "customer", body["contact_type"])
	assert.Equal(t, "billing@acme.test", body["email"])
	assert.NotContains(t, body, "phone")

	assert.Equal(t, "123", result.Contact["contact_id"])
	assert.Equal(t, "The contact has been added.", result.Message)
}

func TestCreateVendorRequiresName(t *testing.T) {
	svc, api := newTestService()

	_, err := svc.CreateVendor(context.Background(), CustomerInput{})

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "contact_name", ve.Field)
	assert.Empty(t, api.calls)
}

func TestCreateVendorSetsType(t *testing.T) {
	svc, api := newTestService(map[string]any{
		"contact": map[string]any{"contact_id": "77"},
	})

	result, err := svc.CreateVendor(context.Background(), CustomerInput{ContactName: "Paper Co"})
	require.NoError(t, err)

	assert.Equal(t, "vendor", bodyMap(t, api.calls[0])["contact_type"])
	assert.Equal(t, "Vendor created successfully", result.Message)
}

func TestGetContact(t *testing.T) {
	svc, api := newTestService(map[string]any{
		"contact": map[string]any{"contact_id": "123"},
	})

	result, err := svc.GetContact(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, "/contacts/123", api.calls[0].Endpoint)
	assert.Equal(t, "123", result.Contact["contact_id"])
}

func TestGetContactNotFound(t *testing.T) {
	svc, _ := newTestService(map[string]any{})

	result, err := svc.GetContact(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, result.Contact)
	assert.Equal(t, "Contact not found", result.Message)
}

func TestGetContactEmptyID(t *testing.T) {
	svc, api := newTestService()

	_, err := svc.GetContact(context.Background(), "")

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Empty(t, api.calls)
}

func TestDeleteContact(t *testing.T) {
	svc, api := newTestService(map[string]any{
		"status": "success", "message": "Operation completed successfully",
	})

	result, err := svc.DeleteContact(context.Background(), "123")
	require.NoError(t, err)

	assert.Equal(t, "DELETE", api.calls[0].Method)
	assert.Equal(t, "/contacts/123", api.calls[0].Endpoint)
	assert.True(t, result.Success)
	assert.Equal(t, "123", result.ContactID)
}
