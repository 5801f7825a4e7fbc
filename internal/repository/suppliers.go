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

type SupplierRepository interface {
	Create(ctx context.Context, s *entity.Supplier) (*entity.Supplier, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Supplier, error)
	GetByShortName(ctx context.Context, shortName string) (*entity.Supplier, error)
	// ListActive returns active suppliers ordered by short name. This
	// ordering is also the priority order of the invoice-text matcher.
	ListActive(ctx context.Context) ([]*entity.Supplier, error)
	List(ctx context.Context) ([]*entity.Supplier, error)
	Update(ctx context.Context, s *entity.Supplier) (*entity.Supplier, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type supplierRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewSupplierRepository(db *DB, logger *slog.Logger) SupplierRepository {
	return &supplierRepository{
		db:     db,
		logger: logger,
	}
}

const supplierColumns = `id, company_name, short_name, category, contact_person,
	order_phone, admin_phone, email, payment_terms, ppn_handling,
	bank_name, bank_account_number, bank_account_name, delivery_days,
	is_active, notes, created_at, updated_at`

func (r *supplierRepository) Create(ctx context.Context, s *entity.Supplier) (*entity.Supplier, error) {
	now := time.Now().UTC()
	s.ID = uuid.New()
	s.CreatedAt = now
	s.UpdatedAt = now
	s.IsActive = true

	_, err := r.db.ExecContext(ctx, r.db.rebind(`INSERT INTO suppliers (`+supplierColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		s.ID, s.CompanyName, s.ShortName, s.Category, s.ContactPerson,
		s.OrderPhone, s.AdminPhone, s.Email, s.PaymentTerms, s.PPNHandling,
		s.BankName, s.BankAccountNumber, s.BankAccountName, s.DeliveryDays,
		s.IsActive, s.Notes, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		r.logger.Error("failed to create supplier", "short_name", s.ShortName, "error", err)
		return nil, common.WrapError(err, "create supplier")
	}
	return s, nil
}

func (r *supplierRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Supplier, error) {
	row := r.db.QueryRowContext(ctx, r.db.rebind(`SELECT `+supplierColumns+` FROM suppliers WHERE id = ?`), id)
	return r.scan(row)
}

func (r *supplierRepository) GetByShortName(ctx context.Context, shortName string) (*entity.Supplier, error) {
	row := r.db.QueryRowContext(ctx, r.db.rebind(`SELECT `+supplierColumns+` FROM suppliers WHERE short_name = ?`), shortName)
	return r.scan(row)
}

func (r *supplierRepository) ListActive(ctx context.Context) ([]*entity.Supplier, error) {
	return r.list(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE is_active ORDER BY short_name`)
}

func (r *supplierRepository) List(ctx context.Context) ([]*entity.Supplier, error) {
	return r.list(ctx, `SELECT `+supplierColumns+` FROM suppliers ORDER BY short_name`)
}

func (r *supplierRepository) list(ctx context.Context, query string) ([]*entity.Supplier, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("failed to list suppliers", "error", err)
		return nil, common.WrapError(err, "list suppliers")
	}
	defer rows.Close()

	var result []*entity.Supplier
	for rows.Next() {
		s, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func (r *supplierRepository) Update(ctx context.Context, s *entity.Supplier) (*entity.Supplier, error) {
	s.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, r.db.rebind(`UPDATE suppliers SET
		company_name = ?, short_name = ?, category = ?, contact_person = ?,
		order_phone = ?, admin_phone = ?, email = ?, payment_terms = ?,
		ppn_handling = ?, bank_name = ?, bank_account_number = ?,
		bank_account_name = ?, delivery_days = ?, is_active = ?, notes = ?,
		updated_at = ?
		WHERE id = ?`),
		s.CompanyName, s.ShortName, s.Category, s.ContactPerson,
		s.OrderPhone, s.AdminPhone, s.Email, s.PaymentTerms,
		s.PPNHandling, s.BankName, s.BankAccountNumber,
		s.BankAccountName, s.DeliveryDays, s.IsActive, s.Notes,
		s.UpdatedAt, s.ID)
	if err != nil {
		r.logger.Error("failed to update supplier", "id", s.ID, "error", err)
		return nil, common.WrapError(err, "update supplier")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, common.ErrNotFound
	}
	return s, nil
}

func (r *supplierRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, r.db.rebind(`UPDATE suppliers SET is_active = ?, updated_at = ? WHERE id = ?`),
		false, time.Now().UTC(), id)
	if err != nil {
		r.logger.Error("failed to deactivate supplier", "id", id, "error", err)
		return common.WrapError(err, "deactivate supplier")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *supplierRepository) scan(row rowScanner) (*entity.Supplier, error) {
	var s entity.Supplier
	err := row.Scan(&s.ID, &s.CompanyName, &s.ShortName, &s.Category, &s.ContactPerson,
		&s.OrderPhone, &s.AdminPhone, &s.Email, &s.PaymentTerms, &s.PPNHandling,
		&s.BankName, &s.BankAccountNumber, &s.BankAccountName, &s.DeliveryDays,
		&s.IsActive, &s.Notes, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to scan supplier", "error", err)
		return nil, common.WrapError(err, "scan supplier")
	}
	return &s, nil
}
