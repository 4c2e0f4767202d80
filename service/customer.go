package service

import (
	"strings"

	"github.com/google/uuid"

	"grainbroker-api/repository"
	"grainbroker-api/repository/models"
)

// CustomerService implements the CRUD contract for customers. Deleting a
// customer cascades to its orders at the store level.
type CustomerService struct {
	crud[models.Customer]
}

func NewCustomerService(repo *repository.Repository) *CustomerService {
	return &CustomerService{crud[models.Customer]{
		repo:     repo,
		validate: validateCustomer,
		idOf:     func(c *models.Customer) uuid.UUID { return c.ID },
	}}
}

func validateCustomer(c *models.Customer) *ValidationError {
	if strings.TrimSpace(c.Location) == "" {
		return &ValidationError{Field: "location", Message: "Location is required"}
	}
	return nil
}
