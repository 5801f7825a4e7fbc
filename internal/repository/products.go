package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/diegomarmat/chela-suppliers/internal/common"
	"github.com/diegomarmat/chela-suppliers/internal/entity"
)

type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) (*entity.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	GetByShortName(ctx context.Context, shortName, brand string) (*entity.Product, error)
	List(ctx context.Context, supplierID *uuid.UUID) ([]*entity.Product, error)
	Update(ctx context.Context, p *entity.Product) (*entity.Product, error)
	// UpdateCurrentPrice overwrites the tracked price when asOf is not older
	// than the price already on record.
	UpdateCurrentPrice(ctx context.Context, id uuid.UUID, price float64, asOf time.Time) error
}

type productRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewProductRepository(db *DB, logger *slog.Logger) ProductRepository {
	return &productRepository{
		db:     db,
		logger: logger,
	}
}

const productColumns = `id, short_name, brand, invoice_name, category, unit,
	current_price, current_price_date, supplier_id, is_backup,
	unit_size, unit_size_measurement, notes, created_at, updated_at`

func (r *productRepository) Create(ctx context.Context, p *entity.Product) (*entity.Product, error) {
	now := time.Now().UTC()
	p.ID = uuid.New()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, r.db.rebind(`INSERT INTO products (`+productColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		p.ID, p.ShortName, p.Brand, p.InvoiceName, p.Category, p.Unit,
		p.CurrentPrice, p.CurrentPriceDate, p.SupplierID, p.IsBackup,
		p.UnitSize, p.UnitSizeMeasurement, p.Notes, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		r.logger.Error("failed to create product", "short_name", p.ShortName, "error", err)
		return nil, common.WrapError(err, "create product")
	}
	return p, nil
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	row := r.db.QueryRowContext(ctx, r.db.rebind(`SELECT `+productColumns+` FROM products WHERE id = ?`), id)
	return r.scan(row)
}

func (r *productRepository) GetByShortName(ctx context.Context, shortName, brand string) (*entity.Product, error) {
	row := r.db.QueryRowContext(ctx, r.db.rebind(
		`SELECT `+productColumns+` FROM products WHERE short_name = ? AND brand = ?`), shortName, brand)
	return r.scan(row)
}

func (r *productRepository) List(ctx context.Context, supplierID *uuid.UUID) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	var args []any
	if supplierID != nil {
		query += ` WHERE supplier_id = ?`
		args = append(args, *supplierID)
	}
	query += ` ORDER BY short_name, brand`

	rows, err := r.db.QueryContext(ctx, r.db.rebind(query), args...)
	if err != nil {
		r.logger.Error("failed to list products", "error", err)
		return nil, common.WrapError(err, "list products")
	}
	defer rows.Close()

	var result []*entity.Product
	for rows.Next() {
		p, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *productRepository) Update(ctx context.Context, p *entity.Product) (*entity.Product, error) {
	p.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, r.db.rebind(`UPDATE products SET
		short_name = ?, brand = ?, invoice_name = ?, category = ?, unit = ?,
		current_price = ?, current_price_date = ?, supplier_id = ?,
		is_backup = ?, unit_size = ?, unit_size_measurement = ?, notes = ?,
		updated_at = ?
		WHERE id = ?`),
		p.ShortName, p.Brand, p.InvoiceName, p.Category, p.Unit,
		p.CurrentPrice, p.CurrentPriceDate, p.SupplierID,
		p.IsBackup, p.UnitSize, p.UnitSizeMeasurement, p.Notes,
		p.UpdatedAt, p.ID)
	if err != nil {
		r.logger.Error("failed to update product", "id", p.ID, "error", err)
		return nil, common.WrapError(err, "update product")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, common.ErrNotFound
	}
	return p, nil
}

func (r *productRepository) UpdateCurrentPrice(ctx context.Context, id uuid.UUID, price float64, asOf time.Time) error {
	// Zero rows affected means the recorded price is newer; a stale invoice
	// must not clobber it.
	_, err := r.db.ExecContext(ctx, r.db.rebind(`UPDATE products SET
		current_price = ?, current_price_date = ?, updated_at = ?
		WHERE id = ? AND (current_price_date IS NULL OR current_price_date <= ?)`),
		price, asOf, time.Now().UTC(), id, asOf)
	if err != nil {
		r.logger.Error("failed to update product price", "id", id, "error", err)
		return common.WrapError(err, "update product price")
	}
	return nil
}

func (r *productRepository) scan(row rowScanner) (*entity.Product, error) {
	var (
		p         entity.Product
		price     sql.NullFloat64
		priceDate sql.NullTime
		supplier  uuid.NullUUID
		unitSize  sql.NullFloat64
	)
	err := row.Scan(&p.ID, &p.ShortName, &p.Brand, &p.InvoiceName, &p.Category, &p.Unit,
		&price, &priceDate, &supplier, &p.IsBackup,
		&unitSize, &p.UnitSizeMeasurement, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to scan product", "error", err)
		return nil, common.WrapError(err, "scan product")
	}
	if price.Valid {
		p.CurrentPrice = &price.Float64
	}
	if priceDate.Valid {
		t := priceDate.Time
		p.CurrentPriceDate = &t
	}
	if supplier.Valid {
		id := supplier.UUID
		p.SupplierID = &id
	}
	if unitSize.Valid {
		p.UnitSize = &unitSize.Float64
	}
	return &p, nil
}
