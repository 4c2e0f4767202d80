package service

import (
	"strings"

	"github.com/google/uuid"

	"grainbroker-api/repository"
	"grainbroker-api/repository/models"
)

// SupplierService implements the CRUD contract for suppliers.
type SupplierService struct {
	crud[models.Supplier]
}

func NewSupplierService(repo *repository.Repository) *SupplierService {
	return &SupplierService{crud[models.Supplier]{
		repo:     repo,
		validate: validateSupplier,
		idOf:     func(s *models.Supplier) uuid.UUID { return s.ID },
	}}
}

func validateSupplier(s *models.Supplier) *ValidationError {
	if strings.TrimSpace(s.Location) == "" {
		return &ValidationError{Field: "location", Message: "Location is required"}
	}
	return nil
}
