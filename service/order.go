package service

import (
	"github.com/google/uuid"

	"grainbroker-api/repository"
	"grainbroker-api/repository/models"
)

// OrderService implements the CRUD contract for grain orders. CustomerID and
// SupplierID are deliberately not checked against existing rows here; the
// store's foreign keys are the single arbiter and their violation propagates
// unrecovered.
type OrderService struct {
	crud[models.Order]
}

func NewOrderService(repo *repository.Repository) *OrderService {
	return &OrderService{crud[models.Order]{
		repo:     repo,
		validate: validateOrder,
		idOf:     func(o *models.Order) uuid.UUID { return o.ID },
	}}
}

func validateOrder(o *models.Order) *ValidationError {
	if o.OrderReqAmtTon <= 0 {
		return &ValidationError{Field: "orderReqAmtTon", Message: "Order request amount must be greater than zero"}
	}
	if o.SuppliedAmtTon < 0 {
		return &ValidationError{Field: "suppliedAmtTon", Message: "Supplied amount cannot be negative"}
	}
	if o.CostOfDelivery.Sign() < 0 {
		return &ValidationError{Field: "costOfDelivery", Message: "Cost of delivery cannot be negative"}
	}
	return nil
}
