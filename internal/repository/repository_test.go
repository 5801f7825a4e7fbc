package repository

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diegomarmat/chela-suppliers/constants"
	"github.com/diegomarmat/chela-suppliers/internal/common"
	"github.com/diegomarmat/chela-suppliers/internal/entity"
)

func newTestDB(t *testing.T) (*DB, *slog.Logger) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := Open(context.Background(), Config{DSN: ":memory:"}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close(logger) })
	require.NoError(t, db.Migrate(context.Background(), logger))
	return db, logger
}

func newTestSupplier(shortName string) *entity.Supplier {
	return &entity.Supplier{
		CompanyName:  "PT " + shortName + " Sejahtera",
		ShortName:    shortName,
		Category:     "produce",
		PaymentTerms: constants.TermsTwoWeek,
		PPNHandling:  constants.PPNIncluded,
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	db, logger := newTestDB(t)
	// A second run over an up-to-date schema applies nothing.
	require.NoError(t, db.Migrate(context.Background(), logger))
}

func TestRebind(t *testing.T) {
	sqlite := &DB{Dialect: DialectSQLite}
	postgres := &DB{Dialect: DialectPostgres}
	q := `SELECT 1 WHERE a = ? AND b = ?`
	assert.Equal(t, q, sqlite.rebind(q))
	assert.Equal(t, `SELECT 1 WHERE a = $1 AND b = $2`, postgres.rebind(q))
}

func TestSupplierRepository_CRUD(t *testing.T) {
	db, logger := newTestDB(t)
	repo := NewSupplierRepository(db, logger)
	ctx := context.Background()

	created, err := repo.Create(ctx, newTestSupplier("Sumber Pangan"))
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)
	assert.True(t, created.IsActive)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sumber Pangan", got.ShortName)
	assert.Equal(t, constants.TermsTwoWeek, got.PaymentTerms)

	byName, err := repo.GetByShortName(ctx, "Sumber Pangan")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	got.ContactPerson = "Pak Budi"
	got.PaymentTerms = constants.TermsMonthly
	_, err = repo.Update(ctx, got)
	require.NoError(t, err)

	updated, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pak Budi", updated.ContactPerson)
	assert.Equal(t, constants.TermsMonthly, updated.PaymentTerms)

	require.NoError(t, repo.Deactivate(ctx, created.ID))
	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestSupplierRepository_NotFound(t *testing.T) {
	db, logger := newTestDB(t)
	repo := NewSupplierRepository(db, logger)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.ErrorIs(t, repo.Deactivate(ctx, uuid.New()), common.ErrNotFound)
}

func TestSupplierRepository_ListActiveOrderedByShortName(t *testing.T) {
	db, logger := newTestDB(t)
	repo := NewSupplierRepository(db, logger)
	ctx := context.Background()

	for _, name := range []string{"Zebra Foods", "Alpha Dairy", "Mitra Segar"} {
		_, err := repo.Create(ctx, newTestSupplier(name))
		require.NoError(t, err)
	}

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 3)
	assert.Equal(t, "Alpha Dairy", active[0].ShortName)
	assert.Equal(t, "Mitra Segar", active[1].ShortName)
	assert.Equal(t, "Zebra Foods", active[2].ShortName)
}

func TestProductRepository_CRUD(t *testing.T) {
	db, logger := newTestDB(t)
	suppliers := NewSupplierRepository(db, logger)
	products := NewProductRepository(db, logger)
	ctx := context.Background()

	sup, err := suppliers.Create(ctx, newTestSupplier("Sumber Pangan"))
	require.NoError(t, err)

	created, err := products.Create(ctx, &entity.Product{
		ShortName:  "Ayam Potong",
		Unit:       "kg",
		SupplierID: &sup.ID,
	})
	require.NoError(t, err)
	assert.Nil(t, created.CurrentPrice)

	got, err := products.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ayam Potong", got.ShortName)
	assert.Nil(t, got.CurrentPrice)
	require.NotNil(t, got.SupplierID)
	assert.Equal(t, sup.ID, *got.SupplierID)

	listed, err := products.List(ctx, &sup.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	got.Brand = "Ciomas"
	_, err = products.Update(ctx, got)
	require.NoError(t, err)
	byName, err := products.GetByShortName(ctx, "Ayam Potong", "Ciomas")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)
}

func TestProductRepository_UpdateCurrentPrice(t *testing.T) {
	db, logger := newTestDB(t)
	products := NewProductRepository(db, logger)
	ctx := context.Background()

	created, err := products.Create(ctx, &entity.Product{ShortName: "Keju Blok", Unit: "pcs"})
	require.NoError(t, err)

	march := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, products.UpdateCurrentPrice(ctx, created.ID, 42000, march))

	got, err := products.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CurrentPrice)
	assert.Equal(t, 42000.0, *got.CurrentPrice)

	// An older invoice must not clobber the fresher price.
	february := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, products.UpdateCurrentPrice(ctx, created.ID, 39000, february))
	got, err = products.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 42000.0, *got.CurrentPrice)

	// A same-day or newer one does.
	require.NoError(t, products.UpdateCurrentPrice(ctx, created.ID, 45000, march))
	got, err = products.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 45000.0, *got.CurrentPrice)
}

func TestInvoiceRepository_CreateWithItems(t *testing.T) {
	db, logger := newTestDB(t)
	suppliers := NewSupplierRepository(db, logger)
	products := NewProductRepository(db, logger)
	invoices := NewInvoiceRepository(db, logger)
	history := NewPriceHistoryRepository(db, logger)
	ctx := context.Background()

	sup, err := suppliers.Create(ctx, newTestSupplier("Sumber Pangan"))
	require.NoError(t, err)
	prod, err := products.Create(ctx, &entity.Product{ShortName: "Ayam Potong", Unit: "kg", SupplierID: &sup.ID})
	require.NoError(t, err)

	invoiceDate := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
	inv, err := invoices.CreateWithItems(ctx, &entity.Invoice{
		SupplierID:  sup.ID,
		InvoiceDate: invoiceDate,
		TotalAmount: 205000,
	}, []*entity.InvoiceItem{
		{ProductID: &prod.ID, ProductName: "Ayam Potong", Quantity: 2.5, Unit: "kg", UnitPrice: 80000},
		{ProductName: "Minyak Goreng", Quantity: 2, Unit: "liter", UnitPrice: 45000},
	})
	require.NoError(t, err)
	assert.Equal(t, constants.StatusPending, inv.PaymentStatus)

	got, items, err := invoices.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, 205000.0, got.TotalAmount)
	require.Len(t, items, 2)
	assert.Equal(t, 200000.0, items[0].TotalPrice) // 2.5 * 80000

	// Only the catalog-linked item leaves a price trail.
	trail, err := history.ListByProduct(ctx, prod.ID)
	require.NoError(t, err)
	require.Len(t, trail, 1)
	assert.Equal(t, 80000.0, trail[0].Price)

	refreshed, err := products.GetByID(ctx, prod.ID)
	require.NoError(t, err)
	require.NotNil(t, refreshed.CurrentPrice)
	assert.Equal(t, 80000.0, *refreshed.CurrentPrice)
}

func TestInvoiceRepository_PPNAddedUpliftsTrackedPrice(t *testing.T) {
	db, logger := newTestDB(t)
	suppliers := NewSupplierRepository(db, logger)
	products := NewProductRepository(db, logger)
	invoices := NewInvoiceRepository(db, logger)
	history := NewPriceHistoryRepository(db, logger)
	ctx := context.Background()

	sup := newTestSupplier("Pajak Plus")
	sup.PPNHandling = constants.PPNAdded
	created, err := suppliers.Create(ctx, sup)
	require.NoError(t, err)
	prod, err := products.Create(ctx, &entity.Product{ShortName: "Keju Blok", Unit: "pcs", SupplierID: &created.ID})
	require.NoError(t, err)

	_, err = invoices.CreateWithItems(ctx, &entity.Invoice{
		SupplierID:  created.ID,
		InvoiceDate: time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC),
		TotalAmount: 100000,
	}, []*entity.InvoiceItem{
		{ProductID: &prod.ID, ProductName: "Keju Blok", Quantity: 1, Unit: "pcs", UnitPrice: 100000},
	})
	require.NoError(t, err)

	trail, err := history.ListByProduct(ctx, prod.ID)
	require.NoError(t, err)
	require.Len(t, trail, 1)
	assert.InDelta(t, 111000, trail[0].Price, 0.01)

	refreshed, err := products.GetByID(ctx, prod.ID)
	require.NoError(t, err)
	require.NotNil(t, refreshed.CurrentPrice)
	assert.InDelta(t, 111000, *refreshed.CurrentPrice, 0.01)
}

func TestInvoiceRepository_CreateWithItems_UnknownSupplier(t *testing.T) {
	db, logger := newTestDB(t)
	invoices := NewInvoiceRepository(db, logger)

	_, err := invoices.CreateWithItems(context.Background(), &entity.Invoice{
		SupplierID:  uuid.New(),
		InvoiceDate: time.Now(),
	}, nil)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestInvoiceRepository_ListFilters(t *testing.T) {
	db, logger := newTestDB(t)
	suppliers := NewSupplierRepository(db, logger)
	invoices := NewInvoiceRepository(db, logger)
	ctx := context.Background()

	supA, err := suppliers.Create(ctx, newTestSupplier("Alpha Dairy"))
	require.NoError(t, err)
	supB, err := suppliers.Create(ctx, newTestSupplier("Mitra Segar"))
	require.NoError(t, err)

	march := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	april := time.Date(2025, time.April, 10, 0, 0, 0, 0, time.UTC)
	_, err = invoices.CreateWithItems(ctx, &entity.Invoice{SupplierID: supA.ID, InvoiceDate: march, TotalAmount: 10000}, nil)
	require.NoError(t, err)
	_, err = invoices.CreateWithItems(ctx, &entity.Invoice{SupplierID: supB.ID, InvoiceDate: april, TotalAmount: 20000}, nil)
	require.NoError(t, err)

	all, err := invoices.List(ctx, InvoiceFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	onlyA, err := invoices.List(ctx, InvoiceFilter{SupplierID: &supA.ID})
	require.NoError(t, err)
	require.Len(t, onlyA, 1)
	assert.Equal(t, supA.ID, onlyA[0].SupplierID)

	from := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	recent, err := invoices.List(ctx, InvoiceFilter{FromDate: &from})
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, supB.ID, recent[0].SupplierID)
}

func TestInvoiceRepository_UpdatePaymentStatusAndDelete(t *testing.T) {
	db, logger := newTestDB(t)
	suppliers := NewSupplierRepository(db, logger)
	products := NewProductRepository(db, logger)
	invoices := NewInvoiceRepository(db, logger)
	history := NewPriceHistoryRepository(db, logger)
	ctx := context.Background()

	sup, err := suppliers.Create(ctx, newTestSupplier("Sumber Pangan"))
	require.NoError(t, err)
	prod, err := products.Create(ctx, &entity.Product{ShortName: "Ayam Potong", Unit: "kg"})
	require.NoError(t, err)

	inv, err := invoices.CreateWithItems(ctx, &entity.Invoice{
		SupplierID:  sup.ID,
		InvoiceDate: time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC),
		TotalAmount: 80000,
	}, []*entity.InvoiceItem{
		{ProductID: &prod.ID, ProductName: "Ayam Potong", Quantity: 1, Unit: "kg", UnitPrice: 80000},
	})
	require.NoError(t, err)

	method := constants.MethodTransfer
	paidAt := time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC)
	require.NoError(t, invoices.UpdatePaymentStatus(ctx, inv.ID, constants.StatusPaid, &method, &paidAt))

	got, _, err := invoices.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusPaid, got.PaymentStatus)
	require.NotNil(t, got.PaymentMethod)
	assert.Equal(t, constants.MethodTransfer, *got.PaymentMethod)
	require.NotNil(t, got.PaymentDate)

	require.NoError(t, invoices.Delete(ctx, inv.ID))
	_, _, err = invoices.GetByID(ctx, inv.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	// The price trail left by the deleted invoice goes with it.
	trail, err := history.ListByProduct(ctx, prod.ID)
	require.NoError(t, err)
	assert.Empty(t, trail)
}

func TestInvoiceRepository_ScheduleRows(t *testing.T) {
	db, logger := newTestDB(t)
	suppliers := NewSupplierRepository(db, logger)
	invoices := NewInvoiceRepository(db, logger)
	ctx := context.Background()

	sup, err := suppliers.Create(ctx, newTestSupplier("Sumber Pangan"))
	require.NoError(t, err)

	dueInside := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
	dueOutside := time.Date(2025, time.April, 15, 0, 0, 0, 0, time.UTC)
	_, err = invoices.CreateWithItems(ctx, &entity.Invoice{
		SupplierID: sup.ID, InvoiceDate: dueInside.AddDate(0, 0, -5),
		DueDate: &dueInside, TotalAmount: 50000,
	}, nil)
	require.NoError(t, err)
	_, err = invoices.CreateWithItems(ctx, &entity.Invoice{
		SupplierID: sup.ID, InvoiceDate: dueOutside.AddDate(0, 0, -5),
		DueDate: &dueOutside, TotalAmount: 70000,
	}, nil)
	require.NoError(t, err)

	from := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	rows, err := invoices.ScheduleRows(ctx, from, to)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 50000.0, rows[0].Invoice.TotalAmount)
	assert.Equal(t, "Sumber Pangan", rows[0].SupplierShortName)
	assert.Equal(t, constants.TermsTwoWeek, rows[0].PaymentTerms)
}

func TestDashboardNoteRepository(t *testing.T) {
	db, logger := newTestDB(t)
	notes := NewDashboardNoteRepository(db, logger)
	ctx := context.Background()

	empty, err := notes.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty.Notes)

	_, err = notes.Put(ctx, "order extra chicken for the weekend")
	require.NoError(t, err)

	got, err := notes.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "order extra chicken for the weekend", got.Notes)

	// Put replaces the single row.
	_, err = notes.Put(ctx, "done")
	require.NoError(t, err)
	got, err = notes.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "done", got.Notes)
}
