package service

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"grainbroker-api/repository"
	"grainbroker-api/repository/models"
)

// newMockService wires the customer service over a sqlmock connection so the
// tests can script exactly what the store reports, including the zero-rows
// update that a live database only produces under a real race.
func newMockService(t *testing.T) (*CustomerService, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	return NewCustomerService(repository.NewRepositoryWithDB(db)), mock
}

func TestUpdateConflictOnSurvivingRowIsReRaised(t *testing.T) {
	svc, mock := newMockService(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "customers" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "customers"`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	outcome, err := svc.Update(context.Background(), id, &models.Customer{ID: id, Location: "Omaha, NE"})
	require.ErrorIs(t, err, repository.ErrConcurrency)
	assert.Equal(t, Updated, outcome)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateConflictOnVanishedRowIsNotFound(t *testing.T) {
	svc, mock := newMockService(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "customers" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "customers"`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	outcome, err := svc.Update(context.Background(), id, &models.Customer{ID: id, Location: "Omaha, NE"})
	require.NoError(t, err)
	assert.Equal(t, UpdateNotFound, outcome)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateIDMismatchTouchesNoStore(t *testing.T) {
	svc, mock := newMockService(t)

	outcome, err := svc.Update(context.Background(), uuid.New(),
		&models.Customer{ID: uuid.New(), Location: "Omaha, NE"})
	require.NoError(t, err)
	assert.Equal(t, UpdateIDMismatch, outcome)

	// No expectations were registered, so any SQL at all fails here.
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateValidationTouchesNoStore(t *testing.T) {
	svc, mock := newMockService(t)
	id := uuid.New()

	_, err := svc.Update(context.Background(), id, &models.Customer{ID: id, Location: ""})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.NoError(t, mock.ExpectationsWereMet())
}
