package repository

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/diegomarmat/chela-suppliers/internal/common"
	"github.com/diegomarmat/chela-suppliers/internal/entity"
)

type PriceHistoryRepository interface {
	// ListByProduct returns the price trail for a product, newest first.
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]*entity.PriceHistory, error)
}

type priceHistoryRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewPriceHistoryRepository(db *DB, logger *slog.Logger) PriceHistoryRepository {
	return &priceHistoryRepository{
		db:     db,
		logger: logger,
	}
}

func (r *priceHistoryRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*entity.PriceHistory, error) {
	rows, err := r.db.QueryContext(ctx, r.db.rebind(`SELECT
		id, product_id, supplier_id, invoice_id, price, date, created_at
		FROM price_history WHERE product_id = ?
		ORDER BY date DESC, created_at DESC`), productID)
	if err != nil {
		r.logger.Error("failed to list price history", "product_id", productID, "error", err)
		return nil, common.WrapError(err, "list price history")
	}
	defer rows.Close()

	var result []*entity.PriceHistory
	for rows.Next() {
		var ph entity.PriceHistory
		if err := rows.Scan(&ph.ID, &ph.ProductID, &ph.SupplierID, &ph.InvoiceID,
			&ph.Price, &ph.Date, &ph.CreatedAt); err != nil {
			return nil, common.WrapError(err, "scan price history row")
		}
		result = append(result, &ph)
	}
	return result, rows.Err()
}
