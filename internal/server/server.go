// Package server exposes the bookkeeping operations as a JSON HTTP API.
package server

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/diegomarmat/chela-suppliers/internal/catalog"
	"github.com/diegomarmat/chela-suppliers/internal/common"
	"github.com/diegomarmat/chela-suppliers/internal/export"
	"github.com/diegomarmat/chela-suppliers/internal/repository"
)

// Server wires the repositories and services behind the HTTP handlers.
type Server struct {
	cfg       *common.Config
	db        *repository.DB
	suppliers repository.SupplierRepository
	products  repository.ProductRepository
	invoices  repository.InvoiceRepository
	history   repository.PriceHistoryRepository
	notes     repository.DashboardNoteRepository
	importer  *catalog.Importer
	exporter  *export.Service
	logger    *slog.Logger
}

func NewServer(cfg *common.Config, db *repository.DB, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	suppliers := repository.NewSupplierRepository(db, logger)
	products := repository.NewProductRepository(db, logger)
	invoices := repository.NewInvoiceRepository(db, logger)
	return &Server{
		cfg:       cfg,
		db:        db,
		suppliers: suppliers,
		products:  products,
		invoices:  invoices,
		history:   repository.NewPriceHistoryRepository(db, logger),
		notes:     repository.NewDashboardNoteRepository(db, logger),
		importer:  catalog.NewImporter(suppliers, products, logger),
		exporter:  export.NewService(invoices, logger),
		logger:    logger,
	}
}

// Router builds the gin engine with all routes mounted.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", s.handleHealth)

	api := r.Group("/api/v1")
	{
		api.POST("/invoices/parse", s.handleParseInvoice)

		api.POST("/suppliers", s.handleCreateSupplier)
		api.GET("/suppliers", s.handleListSuppliers)
		api.GET("/suppliers/:id", s.handleGetSupplier)
		api.PUT("/suppliers/:id", s.handleUpdateSupplier)
		api.DELETE("/suppliers/:id", s.handleDeactivateSupplier)

		api.POST("/products", s.handleCreateProduct)
		api.GET("/products", s.handleListProducts)
		api.GET("/products/:id", s.handleGetProduct)
		api.PUT("/products/:id", s.handleUpdateProduct)
		api.GET("/products/:id/price-history", s.handleListPriceHistory)

		api.POST("/invoices", s.handleCreateInvoice)
		api.GET("/invoices", s.handleListInvoices)
		api.GET("/invoices/:id", s.handleGetInvoice)
		api.PUT("/invoices/:id/payment", s.handleUpdatePayment)
		api.DELETE("/invoices/:id", s.handleDeleteInvoice)

		api.GET("/notes", s.handleGetNotes)
		api.PUT("/notes", s.handlePutNotes)

		api.GET("/reports/payment-schedule", s.handlePaymentSchedule)
		api.POST("/catalog/import", s.handleCatalogImport)
	}

	return r
}

// requestLogger tags each request with an id and logs its outcome.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Request = c.Request.WithContext(common.WithRequestID(c.Request.Context(), requestID))
		c.Header("X-Request-Id", requestID)

		start := time.Now()
		c.Next()

		s.logger.Info("http.request",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
	}
}

// respondError maps application errors onto HTTP responses.
func (s *Server) respondError(c *gin.Context, err error) {
	status := common.HTTPStatus(err)

	code := "INTERNAL"
	message := "internal error"
	switch status {
	case 404:
		code, message = "NOT_FOUND", "resource not found"
	case 400:
		code, message = "INVALID_ARGUMENT", err.Error()
	case 409:
		code, message = "CONFLICT", err.Error()
	}
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		code = appErr.Code
		message = appErr.Message
	}

	if status >= 500 {
		s.logger.Error("http.request.failed", "error", err)
	}
	c.JSON(status, gin.H{"error": gin.H{"code": code, "message": message}})
}

func parseIDParam(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, common.InvalidArgumentError("id must be a valid UUID")
	}
	return id, nil
}
