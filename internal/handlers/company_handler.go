package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/talent-crm/internal/dtos"
	"github.com/justsurfingit/talent-crm/internal/services"
)

type CompanyHandler struct {
	Companies *services.CompanyService
}

func NewCompanyHandler(companies *services.CompanyService) *CompanyHandler {
	return &CompanyHandler{Companies: companies}
}

func (h *CompanyHandler) CreateCompany(c *gin.Context) {
	var req dtos.CompanyRequest
	if !bindJSON(c, &req) {
		return
	}
	company, err := h.Companies.CreateCompany(c.Request.Context(), &req)
	if err != nil {
		respondError(c, "Failed to create company", err)
		return
	}
	c.JSON(http.StatusCreated, company)
}

func (h *CompanyHandler) ListCompanies(c *gin.Context) {
	companies, err := h.Companies.ListCompanies(c.Request.Context())
	if err != nil {
		respondError(c, "Failed to list companies", err)
		return
	}
	c.JSON(http.StatusOK, companies)
}

func (h *CompanyHandler) CreateContact(c *gin.Context) {
	var req dtos.ContactRequest
	if !bindJSON(c, &req) {
		return
	}
	contact, err := h.Companies.CreateContact(c.Request.Context(), &req)
	if err != nil {
		respondError(c, "Failed to create contact", err)
		return
	}
	c.JSON(http.StatusCreated, contact)
}

func (h *CompanyHandler) ListContacts(c *gin.Context) {
	var companyID uint64
	if q := c.Query("company_id"); q != "" {
		var err error
		if companyID, err = strconv.ParseUint(q, 10, 64); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid company_id"})
			return
		}
	}
	contacts, err := h.Companies.ListContacts(c.Request.Context(), uint(companyID))
	if err != nil {
		respondError(c, "Failed to list contacts", err)
		return
	}
	c.JSON(http.StatusOK, contacts)
}
