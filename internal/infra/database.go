package infra

import (
	"fmt"

	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create or update all tables, then applies the idempotent SQL patches that
// AutoMigrate cannot express (CHECK constraints, composite query indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations applies AutoMigrate plus schema patches. Split from
// NewDatabase so integration tests can run it against their own connection.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Work{},
		&model.Supplier{},
		&model.Contract{},
		&model.ContractItem{},
		&model.Measurement{},
		&model.MeasurementItem{},
		&model.UserType{},
		&model.User{},
		&model.RefreshToken{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot fully handle.
// Each statement is guarded by an existence check so re-running on an
// already-patched schema is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// The accumulated-quantity aggregation joins measurement_items to
		// measurements by contract; this index serves the GROUP BY path.
		{"measurement_items accumulation index", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_measurement_items_contract_item') THEN
    CREATE INDEX idx_measurement_items_contract_item
        ON measurement_items (contract_item_id, measurement_id);
  END IF;
END $$`},
		{"contracts retention percentage bounds", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_contracts_retention_pct') THEN
    ALTER TABLE contracts
      ADD CONSTRAINT chk_contracts_retention_pct
      CHECK (retention_percentage >= 0 AND retention_percentage <= 100);
  END IF;
END $$`},
		{"measurement_items positive quantity", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_measurement_items_qty_positive') THEN
    ALTER TABLE measurement_items
      ADD CONSTRAINT chk_measurement_items_qty_positive
      CHECK (quantity > 0);
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
