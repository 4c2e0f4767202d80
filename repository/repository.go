package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"grainbroker-api/logger"
	"grainbroker-api/repository/models"
)

// PostgreSQL error codes as constants
const (
	// Class 23 — Integrity Constraint Violation
	PgErrForeignKeyViolation = "23503" // foreign_key_violation
	PgErrUniqueViolation     = "23505" // unique_violation
	PgErrCheckViolation      = "23514" // check_violation
	PgErrNotNullViolation    = "23502" // not_null_violation

	// Class 22 — Data Exception
	PgErrDataException          = "22000" // data_exception
	PgErrNumericValueOutOfRange = "22003" // numeric_value_out_of_range

	// Class 40 — Transaction Rollback
	PgErrTransactionRollback = "40000" // transaction_rollback

	// Class 08 — Connection Exception
	PgErrConnectionException = "08000" // connection_exception
	PgErrConnectionFailure   = "08006" // connection_failure
)

// RepositoryError represent an error in the repository layer (db)
type RepositoryError struct {
	Code    string
	Message string
	Detail  string
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// WrapError converts a raw store error into a RepositoryError, preserving the
// Postgres error code when the driver supplies one.
func WrapError(err error) *RepositoryError {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &RepositoryError{
			Code:    pgErr.Code,
			Message: pgErr.Message,
			Detail:  pgErr.Detail,
		}
	}
	return &RepositoryError{
		Code:    "DATABASE_ERROR",
		Message: "Database error occured",
		Detail:  err.Error(),
	}
}

// IsForeignKeyViolation reports whether err is the store rejecting a dangling
// reference. Order writes are never pre-checked against Customers/Suppliers;
// this is how a bad reference surfaces.
func IsForeignKeyViolation(err error) bool {
	var repoErr *RepositoryError
	if errors.As(err, &repoErr) {
		return repoErr.Code == PgErrForeignKeyViolation
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == PgErrForeignKeyViolation
}

type Repository struct {
	db *gorm.DB
}

func NewRepository() *Repository {
	return &Repository{}
}

// NewRepositoryWithDB wraps an already-open gorm handle. Used by tests that
// run against an in-memory store.
func NewRepositoryWithDB(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ConnectDB opens the Postgres connection, retrying while the database
// container comes up.
func (r *Repository) ConnectDB(dsn string) error {
	var lastErr error
	for i := 0; i < 10; i++ {
		logger.L().Info("Connecting to Postgres", zap.Int("attempt", i+1))
		db, err := gorm.Open(postgres.Open(dsn))
		if err == nil {
			r.db = db
			logger.L().Info("Connected to Postgres")
			return nil
		}
		lastErr = err
		logger.L().Warn("Connection attempt failed", zap.Int("attempt", i+1), zap.Error(err))
		time.Sleep(2 * time.Second)
	}
	return fmt.Errorf("connecting to database: %w", lastErr)
}

// DB returns the underlying gorm handle.
func (r *Repository) DB() *gorm.DB {
	return r.db
}

// Ping verifies the store connection is alive.
func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Migrate creates or updates the three tables, including the cascade-delete
// foreign keys from grain_orders to customers and suppliers.
func (r *Repository) Migrate() error {
	err := r.db.AutoMigrate(
		&models.Customer{},
		&models.Supplier{},
		&models.Order{},
	)
	if err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}
	logger.L().Info("Database migration completed successfully")
	return nil
}

// Seed inserts representative brokerage data for local development.
func (r *Repository) Seed() {
	var customerCount int64
	r.db.Model(&models.Customer{}).Count(&customerCount)
	if customerCount > 0 {
		logger.L().Info("Seed data already exists, skipping...")
		return
	}

	logger.L().Info("Seeding database with initial data...")

	customers := []models.Customer{
		{ID: uuid.MustParse("7f3c1a52-9f04-4c26-9b5e-aa11de3f8a01"), Location: "Chicago, IL"},
		{ID: uuid.MustParse("7f3c1a52-9f04-4c26-9b5e-aa11de3f8a02"), Location: "Minneapolis, MN"},
		{ID: uuid.MustParse("7f3c1a52-9f04-4c26-9b5e-aa11de3f8a03"), Location: "Kansas City, MO"},
	}
	for _, customer := range customers {
		if err := r.db.Create(&customer).Error; err != nil {
			logger.L().Error("Error creating customer", zap.String("id", customer.ID.String()), zap.Error(err))
		}
	}

	suppliers := []models.Supplier{
		{ID: uuid.MustParse("b4e9d7c0-2d15-4f31-8c6a-bb22ef4a9b01"), Location: "Fargo, ND"},
		{ID: uuid.MustParse("b4e9d7c0-2d15-4f31-8c6a-bb22ef4a9b02"), Location: "Lincoln, NE"},
		{ID: uuid.MustParse("b4e9d7c0-2d15-4f31-8c6a-bb22ef4a9b03"), Location: "Wichita, KS"},
	}
	for _, supplier := range suppliers {
		if err := r.db.Create(&supplier).Error; err != nil {
			logger.L().Error("Error creating supplier", zap.String("id", supplier.ID.String()), zap.Error(err))
		}
	}

	cost := func(s string) models.Decimal2 {
		d, _ := models.Decimal2FromString(s)
		return d
	}
	orders := []models.Order{
		{
			OrderDate:      mustTimeOfDay("08:30:00"),
			PurchaseOrder:  uuid.MustParse("c5fae8d1-3e26-4042-9d7b-cc33f05bac01"),
			CustomerID:     customers[0].ID,
			SupplierID:     suppliers[0].ID,
			OrderReqAmtTon: 120,
			SuppliedAmtTon: 120,
			CostOfDelivery: cost("5400.00"),
		},
		{
			OrderDate:      mustTimeOfDay("14:15:00"),
			PurchaseOrder:  uuid.MustParse("c5fae8d1-3e26-4042-9d7b-cc33f05bac02"),
			CustomerID:     customers[1].ID,
			SupplierID:     suppliers[1].ID,
			OrderReqAmtTon: 80,
			SuppliedAmtTon: 75,
			CostOfDelivery: cost("3120.50"),
		},
	}
	for _, order := range orders {
		if err := r.db.Create(&order).Error; err != nil {
			logger.L().Error("Error creating order", zap.String("purchase_order", order.PurchaseOrder.String()), zap.Error(err))
		}
	}

	logger.L().Info("Database seeding completed successfully")
}

func mustTimeOfDay(s string) models.TimeOfDay {
	t, err := models.ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}
