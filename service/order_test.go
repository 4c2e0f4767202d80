package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grainbroker-api/repository"
	"grainbroker-api/repository/models"
)

func seedParties(t *testing.T, repo *repository.Repository) (*models.Customer, *models.Supplier) {
	t.Helper()
	ctx := context.Background()

	customer, err := NewCustomerService(repo).Create(ctx, &models.Customer{Location: "Des Moines, IA"})
	require.NoError(t, err)
	supplier, err := NewSupplierService(repo).Create(ctx, &models.Supplier{Location: "Lincoln, NE"})
	require.NoError(t, err)
	return customer, supplier
}

func TestOrderCreateAndGetByID(t *testing.T) {
	repo := newTestRepo(t)
	customer, supplier := seedParties(t, repo)
	svc := NewOrderService(repo)
	ctx := context.Background()

	orderDate, err := models.ParseTimeOfDay("09:30:00")
	require.NoError(t, err)
	cost, err := models.Decimal2FromString("1250.50")
	require.NoError(t, err)

	created, err := svc.Create(ctx, &models.Order{
		OrderDate:      orderDate,
		PurchaseOrder:  uuid.New(),
		CustomerID:     customer.ID,
		SupplierID:     supplier.ID,
		OrderReqAmtTon: 500,
		SuppliedAmtTon: 480,
		CostOfDelivery: cost,
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	loaded, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, created.PurchaseOrder, loaded.PurchaseOrder)
	assert.Equal(t, customer.ID, loaded.CustomerID)
	assert.Equal(t, supplier.ID, loaded.SupplierID)
	assert.Equal(t, 500, loaded.OrderReqAmtTon)
	assert.Equal(t, 480, loaded.SuppliedAmtTon)
	assert.Equal(t, "09:30:00", loaded.OrderDate.String())
	assert.Equal(t, "1250.50", loaded.CostOfDelivery.StringFixed(2))
}

func TestOrderCreateValidation(t *testing.T) {
	repo := newTestRepo(t)
	customer, supplier := seedParties(t, repo)
	svc := NewOrderService(repo)
	ctx := context.Background()

	base := func() *models.Order {
		return &models.Order{
			PurchaseOrder:  uuid.New(),
			CustomerID:     customer.ID,
			SupplierID:     supplier.ID,
			OrderReqAmtTon: 100,
			SuppliedAmtTon: 90,
		}
	}

	tests := []struct {
		name    string
		mutate  func(o *models.Order)
		message string
	}{
		{
			name:    "zero request amount",
			mutate:  func(o *models.Order) { o.OrderReqAmtTon = 0 },
			message: "Order request amount must be greater than zero",
		},
		{
			name:    "negative request amount",
			mutate:  func(o *models.Order) { o.OrderReqAmtTon = -5 },
			message: "Order request amount must be greater than zero",
		},
		{
			name:    "negative supplied amount",
			mutate:  func(o *models.Order) { o.SuppliedAmtTon = -1 },
			message: "Supplied amount cannot be negative",
		},
		{
			name: "negative cost of delivery",
			mutate: func(o *models.Order) {
				cost, err := models.Decimal2FromString("-0.01")
				require.NoError(t, err)
				o.CostOfDelivery = cost
			},
			message: "Cost of delivery cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := base()
			tt.mutate(order)

			_, err := svc.Create(ctx, order)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.message, verr.Message)
		})
	}

	entities, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entities)
}

func TestOrderCreateDanglingReferenceFails(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewOrderService(repo)

	_, err := svc.Create(context.Background(), &models.Order{
		PurchaseOrder:  uuid.New(),
		CustomerID:     uuid.New(),
		SupplierID:     uuid.New(),
		OrderReqAmtTon: 100,
	})
	require.Error(t, err)
}

func TestOrderUpdate(t *testing.T) {
	repo := newTestRepo(t)
	customer, supplier := seedParties(t, repo)
	svc := NewOrderService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, &models.Order{
		PurchaseOrder:  uuid.New(),
		CustomerID:     customer.ID,
		SupplierID:     supplier.ID,
		OrderReqAmtTon: 300,
		SuppliedAmtTon: 0,
	})
	require.NoError(t, err)

	created.SuppliedAmtTon = 300
	outcome, err := svc.Update(ctx, created.ID, created)
	require.NoError(t, err)
	assert.Equal(t, Updated, outcome)

	loaded, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 300, loaded.SuppliedAmtTon)
}

func TestOrderUpdateValidation(t *testing.T) {
	repo := newTestRepo(t)
	customer, supplier := seedParties(t, repo)
	svc := NewOrderService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, &models.Order{
		PurchaseOrder:  uuid.New(),
		CustomerID:     customer.ID,
		SupplierID:     supplier.ID,
		OrderReqAmtTon: 200,
	})
	require.NoError(t, err)

	created.OrderReqAmtTon = 0
	_, err = svc.Update(ctx, created.ID, created)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Order request amount must be greater than zero", verr.Message)

	loaded, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 200, loaded.OrderReqAmtTon)
}
