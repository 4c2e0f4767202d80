package repository

import (
	"context"
	"errors"
	"sync"

	"gorm.io/gorm"
)

// ErrConcurrency is returned by SaveChanges when a staged update targeted a
// row that no longer matches its loaded state, most commonly because it was
// deleted by a concurrent request between load and save.
var ErrConcurrency = errors.New("concurrency conflict: row changed or was deleted since it was loaded")

// UnitOfWork stages creates, updates, and deletes in memory and applies them
// in a single transaction on SaveChanges. One instance serves one request;
// the underlying *gorm.DB is safe for concurrent use across instances.
type UnitOfWork struct {
	root *gorm.DB

	mu       sync.Mutex
	toCreate []any
	toUpdate []any
	toDelete []any
}

// NewUnitOfWork returns an empty unit of work over the repository's store.
func (r *Repository) NewUnitOfWork() *UnitOfWork {
	return &UnitOfWork{root: r.db}
}

// Add stages an entity to be inserted on SaveChanges.
func (u *UnitOfWork) Add(entity any) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.toCreate = append(u.toCreate, entity)
}

// Update stages a full-row replacement keyed on the entity's primary key.
func (u *UnitOfWork) Update(entity any) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.toUpdate = append(u.toUpdate, entity)
}

// RegisterDelete stages an entity to be removed on SaveChanges.
func (u *UnitOfWork) RegisterDelete(entity any) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.toDelete = append(u.toDelete, entity)
}

// HasPending reports whether any staged work remains unflushed.
func (u *UnitOfWork) HasPending() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.toCreate) > 0 || len(u.toUpdate) > 0 || len(u.toDelete) > 0
}

// Clear discards all staged work.
func (u *UnitOfWork) Clear() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.toCreate = nil
	u.toUpdate = nil
	u.toDelete = nil
}

// SaveChanges applies all staged work in one transaction. A staged update
// that matches no row rolls the transaction back with ErrConcurrency; any
// other store failure rolls back with a wrapped RepositoryError. On failure
// the staged work stays queued so the caller can inspect it.
func (u *UnitOfWork) SaveChanges(ctx context.Context) error {
	u.mu.Lock()
	creates := append([]any(nil), u.toCreate...)
	updates := append([]any(nil), u.toUpdate...)
	deletes := append([]any(nil), u.toDelete...)
	u.mu.Unlock()

	txErr := u.root.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, e := range creates {
			if err := tx.Create(e).Error; err != nil {
				return err
			}
		}
		for _, e := range updates {
			// Select("*") forces zero-valued fields into the UPDATE so the
			// row is fully replaced, matching the service contract.
			res := tx.Model(e).Select("*").Updates(e)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrConcurrency
			}
		}
		for _, e := range deletes {
			if err := tx.Delete(e).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		if errors.Is(txErr, ErrConcurrency) {
			return txErr
		}
		return WrapError(txErr)
	}

	u.Clear()
	return nil
}
