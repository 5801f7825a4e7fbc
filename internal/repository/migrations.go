package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version the application expects.
const ExpectedSchemaVersion = 5

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS suppliers (
					id TEXT PRIMARY KEY,
					company_name TEXT NOT NULL,
					short_name TEXT NOT NULL UNIQUE,
					category TEXT NOT NULL DEFAULT '',
					contact_person TEXT NOT NULL DEFAULT '',
					order_phone TEXT NOT NULL DEFAULT '',
					admin_phone TEXT NOT NULL DEFAULT '',
					email TEXT NOT NULL DEFAULT '',
					payment_terms TEXT NOT NULL,
					ppn_handling TEXT NOT NULL DEFAULT 'included',
					bank_name TEXT NOT NULL DEFAULT '',
					bank_account_number TEXT NOT NULL DEFAULT '',
					bank_account_name TEXT NOT NULL DEFAULT '',
					delivery_days TEXT NOT NULL DEFAULT '',
					is_active BOOLEAN NOT NULL DEFAULT TRUE,
					notes TEXT NOT NULL DEFAULT '',
					created_at TIMESTAMP NOT NULL,
					updated_at TIMESTAMP NOT NULL
				)`,
				`CREATE INDEX IF NOT EXISTS idx_suppliers_short_name ON suppliers(short_name)`,

				`CREATE TABLE IF NOT EXISTS products (
					id TEXT PRIMARY KEY,
					short_name TEXT NOT NULL,
					brand TEXT NOT NULL DEFAULT '',
					invoice_name TEXT NOT NULL DEFAULT '',
					category TEXT NOT NULL DEFAULT '',
					unit TEXT NOT NULL,
					current_price REAL,
					current_price_date TIMESTAMP,
					supplier_id TEXT REFERENCES suppliers(id),
					notes TEXT NOT NULL DEFAULT '',
					created_at TIMESTAMP NOT NULL,
					updated_at TIMESTAMP NOT NULL
				)`,
				`CREATE INDEX IF NOT EXISTS idx_products_supplier ON products(supplier_id)`,

				`CREATE TABLE IF NOT EXISTS invoices (
					id TEXT PRIMARY KEY,
					supplier_id TEXT NOT NULL REFERENCES suppliers(id),
					invoice_number TEXT NOT NULL DEFAULT '',
					invoice_date TIMESTAMP NOT NULL,
					due_date TIMESTAMP,
					total_amount REAL NOT NULL DEFAULT 0,
					payment_status TEXT NOT NULL DEFAULT 'pending',
					payment_date TIMESTAMP,
					payment_method TEXT,
					invoice_file_path TEXT NOT NULL DEFAULT '',
					notes TEXT NOT NULL DEFAULT '',
					created_at TIMESTAMP NOT NULL,
					updated_at TIMESTAMP NOT NULL
				)`,
				`CREATE INDEX IF NOT EXISTS idx_invoices_supplier ON invoices(supplier_id)`,
				`CREATE INDEX IF NOT EXISTS idx_invoices_due_date ON invoices(due_date)`,

				`CREATE TABLE IF NOT EXISTS invoice_items (
					id TEXT PRIMARY KEY,
					invoice_id TEXT NOT NULL REFERENCES invoices(id),
					line_no INTEGER NOT NULL DEFAULT 0,
					product_id TEXT REFERENCES products(id),
					product_name TEXT NOT NULL,
					category TEXT NOT NULL DEFAULT '',
					quantity REAL NOT NULL,
					unit TEXT NOT NULL,
					unit_price REAL NOT NULL,
					total_price REAL NOT NULL,
					notes TEXT NOT NULL DEFAULT '',
					created_at TIMESTAMP NOT NULL
				)`,
				`CREATE INDEX IF NOT EXISTS idx_invoice_items_invoice ON invoice_items(invoice_id)`,

				`CREATE TABLE IF NOT EXISTS price_history (
					id TEXT PRIMARY KEY,
					product_id TEXT NOT NULL REFERENCES products(id),
					supplier_id TEXT NOT NULL REFERENCES suppliers(id),
					invoice_id TEXT NOT NULL REFERENCES invoices(id),
					price REAL NOT NULL,
					date TIMESTAMP NOT NULL,
					created_at TIMESTAMP NOT NULL
				)`,
				`CREATE INDEX IF NOT EXISTS idx_price_history_product ON price_history(product_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Add needs_review flag to invoices",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`ALTER TABLE invoices ADD COLUMN needs_review BOOLEAN NOT NULL DEFAULT FALSE`)
			return err
		},
	},
	{
		Version:     3,
		Description: "Add backup-supplier flag to products",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`ALTER TABLE products ADD COLUMN is_backup BOOLEAN NOT NULL DEFAULT FALSE`)
			return err
		},
	},
	{
		Version:     4,
		Description: "Add unit size to products",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`ALTER TABLE products ADD COLUMN unit_size REAL`,
				`ALTER TABLE products ADD COLUMN unit_size_measurement TEXT NOT NULL DEFAULT ''`,
			}
			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query '%s': %w", query, err)
				}
			}
			return nil
		},
	},
	{
		Version:     5,
		Description: "Add dashboard notes scratchpad",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE TABLE IF NOT EXISTS dashboard_notes (
				id INTEGER PRIMARY KEY,
				notes TEXT NOT NULL DEFAULT '',
				updated_at TIMESTAMP NOT NULL
			)`)
			return err
		},
	},
}

// Migrate applies all pending database migrations.
func (db *DB) Migrate(ctx context.Context, logger *slog.Logger) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at TIMESTAMP NOT NULL
	)`); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	var currentVersion int
	err := db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(db.rebind(`INSERT INTO schema_migrations (version, applied_at) VALUES (?, CURRENT_TIMESTAMP)`), migration.Version); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		logger.Info("applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}
	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
