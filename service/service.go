package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"grainbroker-api/logger"
	"grainbroker-api/repository"
)

// ValidationError reports caller input that fails a field constraint. It is
// always recoverable and maps to a 400 at the HTTP boundary.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// UpdateOutcome is the tri-state result of an update.
type UpdateOutcome int

const (
	// Updated means the full-row replacement was applied.
	Updated UpdateOutcome = iota
	// UpdateIDMismatch means the requested id disagreed with the entity's own
	// id. Nothing was written; the boundary layer decides the status.
	UpdateIDMismatch
	// UpdateNotFound means no row with the requested id exists, either
	// because it never did or because it was concurrently deleted.
	UpdateNotFound
)

// CRUD is the six-operation contract shared by the three entity services.
type CRUD[T any] interface {
	List(ctx context.Context) ([]T, error)
	GetByID(ctx context.Context, id uuid.UUID) (*T, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Create(ctx context.Context, entity *T) (*T, error)
	Update(ctx context.Context, id uuid.UUID, entity *T) (UpdateOutcome, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// crud is the shared implementation behind CustomerService, SupplierService,
// and OrderService. validate and idOf supply the per-entity pieces; the CRUD
// skeleton is otherwise identical across the three.
type crud[T any] struct {
	repo     *repository.Repository
	validate func(*T) *ValidationError
	idOf     func(*T) uuid.UUID
}

// List returns every persisted entity in store order.
func (c *crud[T]) List(ctx context.Context) ([]T, error) {
	var out []T
	if err := c.repo.DB().WithContext(ctx).Find(&out).Error; err != nil {
		return nil, repository.WrapError(err)
	}
	return out, nil
}

// GetByID returns the entity, or nil without error when no row matches.
func (c *crud[T]) GetByID(ctx context.Context, id uuid.UUID) (*T, error) {
	var out T
	err := c.repo.DB().WithContext(ctx).First(&out, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, repository.WrapError(err)
	}
	return &out, nil
}

// Exists reports whether a row with the given id is persisted. Its only
// caller inside the service is the concurrency-conflict disambiguation in
// Update.
func (c *crud[T]) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var model T
	var n int64
	err := c.repo.DB().WithContext(ctx).Model(&model).Where("id = ?", id).Count(&n).Error
	if err != nil {
		return false, repository.WrapError(err)
	}
	return n > 0, nil
}

// Create validates and persists a new entity, returning it with any
// store-assigned fields filled in. Foreign keys are not pre-checked; a
// dangling reference surfaces as the store's integrity failure.
func (c *crud[T]) Create(ctx context.Context, entity *T) (*T, error) {
	if entity == nil {
		return nil, &ValidationError{Message: "entity is required"}
	}
	if verr := c.validate(entity); verr != nil {
		return nil, verr
	}

	uow := c.repo.NewUnitOfWork()
	uow.Add(entity)
	if err := uow.SaveChanges(ctx); err != nil {
		return nil, err
	}
	return entity, nil
}

// Update replaces the entire row matching id. A concurrency conflict from the
// store is resolved by re-checking existence: a vanished row downgrades to
// UpdateNotFound, a surviving row re-raises the conflict since no safe
// resolution is known.
func (c *crud[T]) Update(ctx context.Context, id uuid.UUID, entity *T) (UpdateOutcome, error) {
	if entity == nil {
		return Updated, &ValidationError{Message: "entity is required"}
	}
	if id != c.idOf(entity) {
		return UpdateIDMismatch, nil
	}
	if verr := c.validate(entity); verr != nil {
		return Updated, verr
	}

	uow := c.repo.NewUnitOfWork()
	uow.Update(entity)
	err := uow.SaveChanges(ctx)
	if err == nil {
		return Updated, nil
	}
	if errors.Is(err, repository.ErrConcurrency) {
		exists, exErr := c.Exists(ctx, id)
		if exErr != nil {
			return Updated, exErr
		}
		if !exists {
			return UpdateNotFound, nil
		}
		logger.FromCtx(ctx).Warn("unresolved concurrency conflict on update",
			zap.String("id", id.String()))
		return Updated, err
	}
	return Updated, err
}

// Delete removes the row if present and reports whether one was removed.
func (c *crud[T]) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	existing, err := c.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, nil
	}

	uow := c.repo.NewUnitOfWork()
	uow.RegisterDelete(existing)
	if err := uow.SaveChanges(ctx); err != nil {
		return false, err
	}
	return true, nil
}
