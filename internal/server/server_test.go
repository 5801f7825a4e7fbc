package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diegomarmat/chela-suppliers/internal/common"
	"github.com/diegomarmat/chela-suppliers/internal/repository"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := repository.Open(context.Background(), repository.Config{DSN: ":memory:"}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close(logger) })
	require.NoError(t, db.Migrate(context.Background(), logger))

	cfg := &common.Config{}
	cfg.Parser.MaxTextBytes = 64 * 1024
	return NewServer(cfg, db, logger).Router()
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, into any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), into))
}

const supplierBody = `{
	"short_name": "Sumber Pangan",
	"company_name": "PT Sumber Pangan Jaya",
	"category": "produce",
	"payment_terms": "2week"
}`

func createSupplier(t *testing.T, router *gin.Engine, body string) string {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/v1/suppliers", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		ID string `json:"id"`
	}
	decode(t, w, &created)
	require.NotEmpty(t, created.ID)
	return created.ID
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t)
	w := doJSON(t, router, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestSupplierEndpoints(t *testing.T) {
	router := newTestRouter(t)
	id := createSupplier(t, router, supplierBody)

	w := doJSON(t, router, http.MethodGet, "/api/v1/suppliers/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Sumber Pangan")

	w = doJSON(t, router, http.MethodGet, "/api/v1/suppliers", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Sumber Pangan")

	w = doJSON(t, router, http.MethodDelete, "/api/v1/suppliers/"+id, "")
	require.Equal(t, http.StatusNoContent, w.Code)

	// Deactivated suppliers drop out of the default listing.
	w = doJSON(t, router, http.MethodGet, "/api/v1/suppliers", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Sumber Pangan")
	w = doJSON(t, router, http.MethodGet, "/api/v1/suppliers?include_inactive=true", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Sumber Pangan")
}

func TestSupplierValidation(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/suppliers", `{"short_name": "X"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/suppliers",
		`{"short_name": "X", "company_name": "PT X", "payment_terms": "net30"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNotFoundMapping(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/suppliers/6f1e4b94-3a89-4f5e-9a3e-0a2b1c4d5e6f", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/suppliers/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParseInvoiceEndpoint(t *testing.T) {
	router := newTestRouter(t)
	id := createSupplier(t, router, supplierBody)

	text := "PT SUMBER PANGAN JAYA\n15/03/2025\nAyam Potong 2,5 kg 80.000\nGrand Total: Rp 205.000"
	body, err := json.Marshal(map[string]string{"text": text})
	require.NoError(t, err)

	w := doJSON(t, router, http.MethodPost, "/api/v1/invoices/parse", string(body))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		SupplierID   *string `json:"supplier_id"`
		SupplierName string  `json:"supplier_name"`
		InvoiceDate  *string `json:"invoice_date"`
		TotalAmount  int64   `json:"total_amount"`
		LineItems    []struct {
			Name      string  `json:"name"`
			Quantity  float64 `json:"quantity"`
			Unit      string  `json:"unit"`
			UnitPrice float64 `json:"unit_price"`
		} `json:"line_items"`
	}
	decode(t, w, &resp)

	require.NotNil(t, resp.SupplierID)
	assert.Equal(t, id, *resp.SupplierID)
	assert.Equal(t, "Sumber Pangan", resp.SupplierName)
	require.NotNil(t, resp.InvoiceDate)
	assert.Equal(t, "2025-03-15", *resp.InvoiceDate)
	assert.Equal(t, int64(205000), resp.TotalAmount)
	require.Len(t, resp.LineItems, 1)
	assert.Equal(t, "Ayam Potong", resp.LineItems[0].Name)
	assert.Equal(t, 2.5, resp.LineItems[0].Quantity)
	assert.Equal(t, "kg", resp.LineItems[0].Unit)
	assert.Equal(t, 80000.0, resp.LineItems[0].UnitPrice)
}

func TestParseInvoiceEndpoint_NoMatchStillResponds(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/invoices/parse", `{"text": "completely unrelated text"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		SupplierID  *string `json:"supplier_id"`
		InvoiceDate *string `json:"invoice_date"`
		TotalAmount int64   `json:"total_amount"`
	}
	decode(t, w, &resp)
	assert.Nil(t, resp.SupplierID)
	assert.Nil(t, resp.InvoiceDate)
	assert.Zero(t, resp.TotalAmount)
}

func TestParseInvoiceEndpoint_EmptyText(t *testing.T) {
	router := newTestRouter(t)
	w := doJSON(t, router, http.MethodPost, "/api/v1/invoices/parse", `{"text": ""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInvoiceLifecycle(t *testing.T) {
	router := newTestRouter(t)
	supplierID := createSupplier(t, router, supplierBody)

	// Due date comes from the supplier's 2week terms: 10th -> the 15th.
	createBody := `{
		"supplier_id": "` + supplierID + `",
		"invoice_number": "INV-2025-0312",
		"invoice_date": "2025-03-10",
		"total_amount": 205000,
		"items": [
			{"product_name": "Ayam Potong", "quantity": 2.5, "unit": "kg", "unit_price": 80000}
		]
	}`
	w := doJSON(t, router, http.MethodPost, "/api/v1/invoices", createBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Invoice struct {
			ID      string  `json:"id"`
			DueDate *string `json:"due_date"`
		} `json:"invoice"`
	}
	decode(t, w, &created)
	require.NotNil(t, created.Invoice.DueDate)
	assert.True(t, strings.HasPrefix(*created.Invoice.DueDate, "2025-03-15"), *created.Invoice.DueDate)

	w = doJSON(t, router, http.MethodGet, "/api/v1/invoices/"+created.Invoice.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Ayam Potong")

	w = doJSON(t, router, http.MethodPut, "/api/v1/invoices/"+created.Invoice.ID+"/payment",
		`{"status": "paid", "payment_method": "transfer"}`)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/invoices?status=paid", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), created.Invoice.ID)

	w = doJSON(t, router, http.MethodDelete, "/api/v1/invoices/"+created.Invoice.ID, "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/invoices/"+created.Invoice.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNotesEndpoints(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/notes", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPut, "/api/v1/notes", `{"notes": "call the cheese guy"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/notes", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "call the cheese guy")
}

func TestCatalogImportEndpoint(t *testing.T) {
	router := newTestRouter(t)

	doc := `{
		"suppliers": [
			{"short_name": "Mitra Segar", "company_name": "PT Mitra Segar", "payment_terms": "cash"}
		],
		"products": [
			{"short_name": "Tomat", "unit": "kg", "supplier_short_name": "Mitra Segar"}
		]
	}`
	w := doJSON(t, router, http.MethodPost, "/api/v1/catalog/import", doc)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"suppliers_created":1`)
	assert.Contains(t, w.Body.String(), `"products_created":1`)

	w = doJSON(t, router, http.MethodPost, "/api/v1/catalog/import", `{"vendors": []}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/products", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Tomat")
}

func TestPaymentScheduleEndpoint(t *testing.T) {
	router := newTestRouter(t)
	supplierID := createSupplier(t, router, supplierBody)

	createBody := `{
		"supplier_id": "` + supplierID + `",
		"invoice_date": "2025-03-10",
		"total_amount": 50000
	}`
	w := doJSON(t, router, http.MethodPost, "/api/v1/invoices", createBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodGet, "/api/v1/reports/payment-schedule?month=2025-03", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	// XLSX files are zip archives.
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))

	w = doJSON(t, router, http.MethodGet, "/api/v1/reports/payment-schedule?cycle=bogus", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
