package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/diegomarmat/chela-suppliers/constants"
	"github.com/diegomarmat/chela-suppliers/internal/common"
	"github.com/diegomarmat/chela-suppliers/internal/entity"
)

// InvoiceFilter narrows List results.
type InvoiceFilter struct {
	SupplierID *uuid.UUID
	FromDate   *time.Time
	ToDate     *time.Time
	Status     *constants.PaymentStatus
}

// ScheduleRow is one invoice on the payment schedule, joined with the
// supplier details the report needs.
type ScheduleRow struct {
	Invoice           entity.Invoice
	SupplierShortName string
	SupplierCategory  string
	PaymentTerms      constants.PaymentTerms
	BankName          string
	BankAccountNumber string
	BankAccountName   string
}

type InvoiceRepository interface {
	// CreateWithItems persists the invoice and its line items in one
	// transaction. Items linked to a catalog product also get a price
	// history row and, when the invoice is as fresh as the record on file,
	// a current-price refresh. Suppliers that add PPN on top of the quoted
	// price have the tracked price uplifted by the PPN rate.
	CreateWithItems(ctx context.Context, inv *entity.Invoice, items []*entity.InvoiceItem) (*entity.Invoice, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, []*entity.InvoiceItem, error)
	List(ctx context.Context, filter InvoiceFilter) ([]*entity.Invoice, error)
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status constants.PaymentStatus, method *constants.PaymentMethod, paidAt *time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ScheduleRows returns pending invoices due inside [from, to), joined
	// with supplier info, ordered by due date.
	ScheduleRows(ctx context.Context, from, to time.Time) ([]*ScheduleRow, error)
}

type invoiceRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewInvoiceRepository(db *DB, logger *slog.Logger) InvoiceRepository {
	return &invoiceRepository{
		db:     db,
		logger: logger,
	}
}

const invoiceColumns = `id, supplier_id, invoice_number, invoice_date, due_date,
	total_amount, payment_status, payment_date, payment_method,
	invoice_file_path, notes, needs_review, created_at, updated_at`

func (r *invoiceRepository) CreateWithItems(ctx context.Context, inv *entity.Invoice, items []*entity.InvoiceItem) (*entity.Invoice, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.WrapError(err, "begin invoice transaction")
	}
	defer func() { _ = tx.Rollback() }()

	var ppnHandling constants.PPNHandling
	err = tx.QueryRowContext(ctx, r.db.rebind(`SELECT ppn_handling FROM suppliers WHERE id = ?`), inv.SupplierID).Scan(&ppnHandling)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NewAppError("UNKNOWN_SUPPLIER", "invoice references a supplier that does not exist", common.ErrInvalidInput)
	}
	if err != nil {
		return nil, common.WrapError(err, "load supplier for invoice")
	}

	now := time.Now().UTC()
	inv.ID = uuid.New()
	if inv.PaymentStatus == "" {
		inv.PaymentStatus = constants.StatusPending
	}
	inv.CreatedAt = now
	inv.UpdatedAt = now

	_, err = tx.ExecContext(ctx, r.db.rebind(`INSERT INTO invoices (`+invoiceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		inv.ID, inv.SupplierID, inv.InvoiceNumber, inv.InvoiceDate, inv.DueDate,
		inv.TotalAmount, inv.PaymentStatus, inv.PaymentDate, inv.PaymentMethod,
		inv.InvoiceFilePath, inv.Notes, inv.NeedsReview, inv.CreatedAt, inv.UpdatedAt)
	if err != nil {
		r.logger.Error("failed to create invoice", "supplier_id", inv.SupplierID, "error", err)
		return nil, common.WrapError(err, "create invoice")
	}

	for lineNo, item := range items {
		item.ID = uuid.New()
		item.InvoiceID = inv.ID
		item.CreatedAt = now
		if item.TotalPrice == 0 {
			item.TotalPrice = item.Quantity * item.UnitPrice
		}

		_, err = tx.ExecContext(ctx, r.db.rebind(`INSERT INTO invoice_items
			(id, invoice_id, line_no, product_id, product_name, category, quantity, unit,
			 unit_price, total_price, notes, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
			item.ID, item.InvoiceID, lineNo, item.ProductID, item.ProductName, item.Category,
			item.Quantity, item.Unit, item.UnitPrice, item.TotalPrice, item.Notes, item.CreatedAt)
		if err != nil {
			r.logger.Error("failed to create invoice item", "invoice_id", inv.ID, "error", err)
			return nil, common.WrapError(err, "create invoice item")
		}

		if item.ProductID == nil {
			continue
		}

		trackedPrice := item.UnitPrice
		if ppnHandling == constants.PPNAdded {
			trackedPrice *= constants.PPNRate
		}

		_, err = tx.ExecContext(ctx, r.db.rebind(`INSERT INTO price_history
			(id, product_id, supplier_id, invoice_id, price, date, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`),
			uuid.New(), *item.ProductID, inv.SupplierID, inv.ID, trackedPrice, inv.InvoiceDate, now)
		if err != nil {
			r.logger.Error("failed to record price history", "product_id", *item.ProductID, "error", err)
			return nil, common.WrapError(err, "record price history")
		}

		_, err = tx.ExecContext(ctx, r.db.rebind(`UPDATE products SET
			current_price = ?, current_price_date = ?, updated_at = ?
			WHERE id = ? AND (current_price_date IS NULL OR current_price_date <= ?)`),
			trackedPrice, inv.InvoiceDate, now, *item.ProductID, inv.InvoiceDate)
		if err != nil {
			r.logger.Error("failed to refresh product price", "product_id", *item.ProductID, "error", err)
			return nil, common.WrapError(err, "refresh product price")
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, common.WrapError(err, "commit invoice transaction")
	}

	r.logger.Info("invoice.create.ok", "invoice_id", inv.ID, "supplier_id", inv.SupplierID, "items", len(items))
	return inv, nil
}

func (r *invoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, []*entity.InvoiceItem, error) {
	row := r.db.QueryRowContext(ctx, r.db.rebind(`SELECT `+invoiceColumns+` FROM invoices WHERE id = ?`), id)
	inv, err := r.scan(row)
	if err != nil {
		return nil, nil, err
	}

	rows, err := r.db.QueryContext(ctx, r.db.rebind(`SELECT
		id, invoice_id, product_id, product_name, category, quantity, unit,
		unit_price, total_price, notes, created_at
		FROM invoice_items WHERE invoice_id = ? ORDER BY line_no`), id)
	if err != nil {
		r.logger.Error("failed to list invoice items", "invoice_id", id, "error", err)
		return nil, nil, common.WrapError(err, "list invoice items")
	}
	defer rows.Close()

	var items []*entity.InvoiceItem
	for rows.Next() {
		var (
			item      entity.InvoiceItem
			productID uuid.NullUUID
		)
		if err := rows.Scan(&item.ID, &item.InvoiceID, &productID, &item.ProductName,
			&item.Category, &item.Quantity, &item.Unit,
			&item.UnitPrice, &item.TotalPrice, &item.Notes, &item.CreatedAt); err != nil {
			return nil, nil, common.WrapError(err, "scan invoice item")
		}
		if productID.Valid {
			pid := productID.UUID
			item.ProductID = &pid
		}
		items = append(items, &item)
	}
	return inv, items, rows.Err()
}

func (r *invoiceRepository) List(ctx context.Context, filter InvoiceFilter) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE 1=1`
	var args []any
	if filter.SupplierID != nil {
		query += ` AND supplier_id = ?`
		args = append(args, *filter.SupplierID)
	}
	if filter.FromDate != nil {
		query += ` AND invoice_date >= ?`
		args = append(args, *filter.FromDate)
	}
	if filter.ToDate != nil {
		query += ` AND invoice_date <= ?`
		args = append(args, *filter.ToDate)
	}
	if filter.Status != nil {
		query += ` AND payment_status = ?`
		args = append(args, *filter.Status)
	}
	query += ` ORDER BY invoice_date DESC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, r.db.rebind(query), args...)
	if err != nil {
		r.logger.Error("failed to list invoices", "error", err)
		return nil, common.WrapError(err, "list invoices")
	}
	defer rows.Close()

	var result []*entity.Invoice
	for rows.Next() {
		inv, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, inv)
	}
	return result, rows.Err()
}

func (r *invoiceRepository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status constants.PaymentStatus, method *constants.PaymentMethod, paidAt *time.Time) error {
	res, err := r.db.ExecContext(ctx, r.db.rebind(`UPDATE invoices SET
		payment_status = ?, payment_method = ?, payment_date = ?, updated_at = ?
		WHERE id = ?`),
		status, method, paidAt, time.Now().UTC(), id)
	if err != nil {
		r.logger.Error("failed to update payment status", "invoice_id", id, "error", err)
		return common.WrapError(err, "update payment status")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *invoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return common.WrapError(err, "begin delete transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, r.db.rebind(`DELETE FROM price_history WHERE invoice_id = ?`), id); err != nil {
		return common.WrapError(err, "delete price history")
	}
	if _, err := tx.ExecContext(ctx, r.db.rebind(`DELETE FROM invoice_items WHERE invoice_id = ?`), id); err != nil {
		return common.WrapError(err, "delete invoice items")
	}
	res, err := tx.ExecContext(ctx, r.db.rebind(`DELETE FROM invoices WHERE id = ?`), id)
	if err != nil {
		return common.WrapError(err, "delete invoice")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return tx.Commit()
}

func (r *invoiceRepository) ScheduleRows(ctx context.Context, from, to time.Time) ([]*ScheduleRow, error) {
	rows, err := r.db.QueryContext(ctx, r.db.rebind(`SELECT
		i.id, i.supplier_id, i.invoice_number, i.invoice_date, i.due_date,
		i.total_amount, i.payment_status, i.payment_date, i.payment_method,
		i.invoice_file_path, i.notes, i.needs_review, i.created_at, i.updated_at,
		s.short_name, s.category, s.payment_terms,
		s.bank_name, s.bank_account_number, s.bank_account_name
		FROM invoices i
		JOIN suppliers s ON s.id = i.supplier_id
		WHERE i.payment_status = ? AND i.due_date >= ? AND i.due_date < ?
		ORDER BY i.due_date, s.short_name`),
		constants.StatusPending, from, to)
	if err != nil {
		r.logger.Error("failed to query payment schedule", "error", err)
		return nil, common.WrapError(err, "query payment schedule")
	}
	defer rows.Close()

	var result []*ScheduleRow
	for rows.Next() {
		var (
			sr      ScheduleRow
			dueDate sql.NullTime
			paidAt  sql.NullTime
			method  sql.NullString
		)
		err := rows.Scan(&sr.Invoice.ID, &sr.Invoice.SupplierID, &sr.Invoice.InvoiceNumber,
			&sr.Invoice.InvoiceDate, &dueDate,
			&sr.Invoice.TotalAmount, &sr.Invoice.PaymentStatus, &paidAt, &method,
			&sr.Invoice.InvoiceFilePath, &sr.Invoice.Notes, &sr.Invoice.NeedsReview,
			&sr.Invoice.CreatedAt, &sr.Invoice.UpdatedAt,
			&sr.SupplierShortName, &sr.SupplierCategory, &sr.PaymentTerms,
			&sr.BankName, &sr.BankAccountNumber, &sr.BankAccountName)
		if err != nil {
			return nil, common.WrapError(err, "scan payment schedule row")
		}
		applyInvoiceNullables(&sr.Invoice, dueDate, paidAt, method)
		result = append(result, &sr)
	}
	return result, rows.Err()
}

func (r *invoiceRepository) scan(row rowScanner) (*entity.Invoice, error) {
	var (
		inv     entity.Invoice
		dueDate sql.NullTime
		paidAt  sql.NullTime
		method  sql.NullString
	)
	err := row.Scan(&inv.ID, &inv.SupplierID, &inv.InvoiceNumber, &inv.InvoiceDate, &dueDate,
		&inv.TotalAmount, &inv.PaymentStatus, &paidAt, &method,
		&inv.InvoiceFilePath, &inv.Notes, &inv.NeedsReview, &inv.CreatedAt, &inv.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to scan invoice", "error", err)
		return nil, common.WrapError(err, "scan invoice")
	}
	applyInvoiceNullables(&inv, dueDate, paidAt, method)
	return &inv, nil
}

func applyInvoiceNullables(inv *entity.Invoice, dueDate, paidAt sql.NullTime, method sql.NullString) {
	if dueDate.Valid {
		t := dueDate.Time
		inv.DueDate = &t
	}
	if paidAt.Valid {
		t := paidAt.Time
		inv.PaymentDate = &t
	}
	if method.Valid {
		m := constants.PaymentMethod(method.String)
		inv.PaymentMethod = &m
	}
}
