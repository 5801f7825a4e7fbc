package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/diegomarmat/chela-suppliers/constants"
	"github.com/diegomarmat/chela-suppliers/internal/common"
	"github.com/diegomarmat/chela-suppliers/internal/entity"
)

type productRequest struct {
	ShortName           string   `json:"short_name"`
	Brand               string   `json:"brand"`
	InvoiceName         string   `json:"invoice_name"`
	Category            string   `json:"category"`
	Unit                string   `json:"unit"`
	SupplierID          *string  `json:"supplier_id"`
	IsBackup            bool     `json:"is_backup"`
	UnitSize            *float64 `json:"unit_size"`
	UnitSizeMeasurement string   `json:"unit_size_measurement"`
	Notes               string   `json:"notes"`
}

func (req *productRequest) validate() error {
	v := common.NewValidator()
	v.Field("short_name", req.ShortName, common.Required, common.MaxLength(100))
	v.Field("unit", req.Unit, common.Required)
	if req.SupplierID != nil {
		v.Field("supplier_id", *req.SupplierID, common.UUID)
	}
	return common.ValidateAndReturnError(v)
}

func (req *productRequest) apply(p *entity.Product) {
	p.ShortName = req.ShortName
	p.Brand = req.Brand
	p.InvoiceName = req.InvoiceName
	p.Category = req.Category
	unit, _ := constants.CanonicalizeUnit(req.Unit)
	p.Unit = string(unit)
	p.SupplierID = nil
	if req.SupplierID != nil {
		id := uuid.MustParse(*req.SupplierID) // validated above
		p.SupplierID = &id
	}
	p.IsBackup = req.IsBackup
	p.UnitSize = req.UnitSize
	p.UnitSizeMeasurement = req.UnitSizeMeasurement
	p.Notes = req.Notes
}

func (s *Server) handleCreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, common.InvalidArgumentError("invalid request body"))
		return
	}
	if err := req.validate(); err != nil {
		s.respondError(c, err)
		return
	}

	var p entity.Product
	req.apply(&p)
	created, err := s.products.Create(c.Request.Context(), &p)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) handleListProducts(c *gin.Context) {
	var supplierID *uuid.UUID
	if raw := c.Query("supplier_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			s.respondError(c, common.InvalidArgumentError("supplier_id must be a valid UUID"))
			return
		}
		supplierID = &id
	}
	result, err := s.products.List(c.Request.Context(), supplierID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleGetProduct(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	p, err := s.products.GetByID(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) handleUpdateProduct(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, common.InvalidArgumentError("invalid request body"))
		return
	}
	if err := req.validate(); err != nil {
		s.respondError(c, err)
		return
	}

	p, err := s.products.GetByID(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	req.apply(p)
	updated, err := s.products.Update(c.Request.Context(), p)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) handleListPriceHistory(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	trail, err := s.history.ListByProduct(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trail)
}
