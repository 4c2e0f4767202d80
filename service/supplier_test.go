package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grainbroker-api/repository/models"
)

func TestSupplierCRUD(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewSupplierService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, &models.Supplier{Location: "Fargo, ND"})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	created.Location = "Bismarck, ND"
	outcome, err := svc.Update(ctx, created.ID, created)
	require.NoError(t, err)
	assert.Equal(t, Updated, outcome)

	loaded, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "Bismarck, ND", loaded.Location)

	deleted, err := svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	loaded, err = svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestSupplierValidation(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewSupplierService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, &models.Supplier{Location: " "})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Location is required", verr.Message)

	created, err := svc.Create(ctx, &models.Supplier{Location: "Topeka, KS"})
	require.NoError(t, err)

	created.Location = ""
	_, err = svc.Update(ctx, created.ID, created)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Location is required", verr.Message)
}

func TestSupplierDeleteCascadesToOrders(t *testing.T) {
	repo := newTestRepo(t)
	customer, supplier := seedParties(t, repo)
	orders := NewOrderService(repo)
	ctx := context.Background()

	_, err := orders.Create(ctx, &models.Order{
		PurchaseOrder:  uuid.New(),
		CustomerID:     customer.ID,
		SupplierID:     supplier.ID,
		OrderReqAmtTon: 50,
	})
	require.NoError(t, err)

	deleted, err := NewSupplierService(repo).Delete(ctx, supplier.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	remaining, err := orders.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	// The customer survives its orders.
	stillThere, err := NewCustomerService(repo).GetByID(ctx, customer.ID)
	require.NoError(t, err)
	assert.NotNil(t, stillThere)
}
