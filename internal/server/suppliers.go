package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/diegomarmat/chela-suppliers/constants"
	"github.com/diegomarmat/chela-suppliers/internal/common"
	"github.com/diegomarmat/chela-suppliers/internal/entity"
)

type supplierRequest struct {
	CompanyName       string `json:"company_name"`
	ShortName         string `json:"short_name"`
	Category          string `json:"category"`
	ContactPerson     string `json:"contact_person"`
	OrderPhone        string `json:"order_phone"`
	AdminPhone        string `json:"admin_phone"`
	Email             string `json:"email"`
	PaymentTerms      string `json:"payment_terms"`
	PPNHandling       string `json:"ppn_handling"`
	BankName          string `json:"bank_name"`
	BankAccountNumber string `json:"bank_account_number"`
	BankAccountName   string `json:"bank_account_name"`
	DeliveryDays      string `json:"delivery_days"`
	Notes             string `json:"notes"`
}

func (req *supplierRequest) validate() error {
	v := common.NewValidator()
	v.Field("short_name", req.ShortName, common.Required, common.MaxLength(100))
	v.Field("company_name", req.CompanyName, common.Required, common.MaxLength(200))
	v.Field("payment_terms", req.PaymentTerms, common.OneOf(constants.PaymentTermsStrings()...))
	if req.PPNHandling != "" {
		v.Field("ppn_handling", req.PPNHandling, common.OneOf("included", "added"))
	}
	return common.ValidateAndReturnError(v)
}

func (req *supplierRequest) apply(s *entity.Supplier) {
	s.CompanyName = req.CompanyName
	s.ShortName = req.ShortName
	s.Category = req.Category
	s.ContactPerson = req.ContactPerson
	s.OrderPhone = req.OrderPhone
	s.AdminPhone = req.AdminPhone
	s.Email = req.Email
	s.PaymentTerms = constants.PaymentTerms(req.PaymentTerms)
	s.PPNHandling = constants.PPNIncluded
	if req.PPNHandling != "" {
		s.PPNHandling = constants.PPNHandling(req.PPNHandling)
	}
	s.BankName = req.BankName
	s.BankAccountNumber = req.BankAccountNumber
	s.BankAccountName = req.BankAccountName
	s.DeliveryDays = req.DeliveryDays
	s.Notes = req.Notes
}

func (s *Server) handleCreateSupplier(c *gin.Context) {
	var req supplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, common.InvalidArgumentError("invalid request body"))
		return
	}
	if err := req.validate(); err != nil {
		s.respondError(c, err)
		return
	}

	var sup entity.Supplier
	req.apply(&sup)
	created, err := s.suppliers.Create(c.Request.Context(), &sup)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) handleListSuppliers(c *gin.Context) {
	var (
		result any
		err    error
	)
	if c.Query("include_inactive") == "true" {
		result, err = s.suppliers.List(c.Request.Context())
	} else {
		result, err = s.suppliers.ListActive(c.Request.Context())
	}
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleGetSupplier(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	sup, err := s.suppliers.GetByID(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sup)
}

func (s *Server) handleUpdateSupplier(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	var req supplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, common.InvalidArgumentError("invalid request body"))
		return
	}
	if err := req.validate(); err != nil {
		s.respondError(c, err)
		return
	}

	sup, err := s.suppliers.GetByID(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	req.apply(sup)
	updated, err := s.suppliers.Update(c.Request.Context(), sup)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) handleDeactivateSupplier(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.suppliers.Deactivate(c.Request.Context(), id); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
