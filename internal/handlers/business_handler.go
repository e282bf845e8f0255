package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "ledgerbook/internal/errors"
	"ledgerbook/internal/models"
	"ledgerbook/internal/services"
)

// BusinessHandler handles business, subsidiary, and reference-data requests.
type BusinessHandler struct {
	businessService services.BusinessServicer
}

// NewBusinessHandler creates a new BusinessHandler.
func NewBusinessHandler(businessService services.BusinessServicer) *BusinessHandler {
	return &BusinessHandler{businessService: businessService}
}

// BusinessRequest represents the payload for creating or renaming a business.
type BusinessRequest struct {
	Name string `json:"name" binding:"required,min=1,max=200"`
}

// SubsidiaryRequest represents the payload for creating a subsidiary account.
type SubsidiaryRequest struct {
	Kind           string  `json:"kind" binding:"required,subsidiary_kind"`
	AccountName    string  `json:"account_name" binding:"required,min=1,max=200"`
	AccountCode    string  `json:"account_code" binding:"max=50"`
	AccountNumber  string  `json:"account_number" binding:"max=50"`
	BankName       string  `json:"bank_name" binding:"max=200"`
	RoutingNumber  string  `json:"routing_number" binding:"max=50"`
	CardLast4      string  `json:"card_number_last4" binding:"max=4"`
	Issuer         string  `json:"issuer" binding:"max=200"`
	CreditLimit    float64 `json:"credit_limit" binding:"gte=0"`
	LenderName     string  `json:"lender_name" binding:"max=200"`
	LoanNumber     string  `json:"loan_number" binding:"max=50"`
	Principal      float64 `json:"principal_amount" binding:"gte=0"`
	InterestRate   float64 `json:"interest_rate" binding:"gte=0,lte=100"`
	OpeningBalance float64 `json:"opening_balance"`
}

// MappingRequest represents the payload for creating or updating a type mapping.
type MappingRequest struct {
	CSVType      string `json:"csv_type" binding:"required,max=100"`
	InternalType string `json:"internal_type" binding:"required,transaction_type"`
	Direction    string `json:"direction" binding:"required,direction"`
	Description  string `json:"description" binding:"max=500"`
}

// CreateBusiness handles POST /businesses.
func (h *BusinessHandler) CreateBusiness(c *gin.Context) {
	var req BusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	business, err := h.businessService.CreateBusiness(c.Request.Context(), req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"business": business})
}

// ListBusinesses handles GET /businesses, restricted to the caller's scope.
func (h *BusinessHandler) ListBusinesses(c *gin.Context) {
	businesses, err := h.businessService.ListBusinesses(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	accessible := businesses[:0]
	for _, b := range businesses {
		if requireBusinessAccess(c, b.ID) == nil {
			accessible = append(accessible, b)
		}
	}
	c.JSON(http.StatusOK, gin.H{"businesses": accessible})
}

// GetBusiness handles GET /businesses/:businessID.
func (h *BusinessHandler) GetBusiness(c *gin.Context) {
	businessID := c.Param("businessID")
	if err := requireBusinessAccess(c, businessID); err != nil {
		respondWithError(c, err)
		return
	}

	business, err := h.businessService.GetBusiness(c.Request.Context(), businessID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"business": business})
}

// UpdateBusiness handles PUT /businesses/:businessID.
func (h *BusinessHandler) UpdateBusiness(c *gin.Context) {
	businessID := c.Param("businessID")
	if err := requireBusinessAccess(c, businessID); err != nil {
		respondWithError(c, err)
		return
	}

	var req BusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	business, err := h.businessService.UpdateBusiness(c.Request.Context(), businessID, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"business": business})
}

// CreateSubsidiary handles POST /businesses/:businessID/subsidiaries.
func (h *BusinessHandler) CreateSubsidiary(c *gin.Context) {
	businessID := c.Param("businessID")
	if err := requireBusinessAccess(c, businessID); err != nil {
		respondWithError(c, err)
		return
	}

	var req SubsidiaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	sub, err := h.businessService.CreateSubsidiaryAccount(c.Request.Context(), businessID, services.SubsidiaryInput{
		Kind:           models.SubsidiaryKind(req.Kind),
		AccountName:    req.AccountName,
		AccountCode:    req.AccountCode,
		AccountNumber:  req.AccountNumber,
		BankName:       req.BankName,
		RoutingNumber:  req.RoutingNumber,
		CardLast4:      req.CardLast4,
		Issuer:         req.Issuer,
		CreditLimit:    req.CreditLimit,
		LenderName:     req.LenderName,
		LoanNumber:     req.LoanNumber,
		Principal:      req.Principal,
		InterestRate:   req.InterestRate,
		OpeningBalance: req.OpeningBalance,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"subsidiary_account": sub})
}

// ListSubsidiaries handles GET /businesses/:businessID/subsidiaries.
func (h *BusinessHandler) ListSubsidiaries(c *gin.Context) {
	businessID := c.Param("businessID")
	if err := requireBusinessAccess(c, businessID); err != nil {
		respondWithError(c, err)
		return
	}

	kind := models.SubsidiaryKind(c.Query("kind"))
	subs, err := h.businessService.ListSubsidiaryAccounts(c.Request.Context(), businessID, kind)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subsidiary_accounts": subs})
}

// ListAccountTypes handles GET /account-types.
func (h *BusinessHandler) ListAccountTypes(c *gin.Context) {
	types, err := h.businessService.ListAccountTypes(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"account_types": types})
}

// ListTypeMappings handles GET /type-mappings.
func (h *BusinessHandler) ListTypeMappings(c *gin.Context) {
	mappings, err := h.businessService.ListTypeMappings(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"type_mappings": mappings})
}

// CreateTypeMapping handles POST /type-mappings.
func (h *BusinessHandler) CreateTypeMapping(c *gin.Context) {
	var req MappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	mapping, err := h.businessService.CreateTypeMapping(c.Request.Context(), req.CSVType,
		models.TransactionType(req.InternalType), models.Direction(req.Direction), req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"type_mapping": mapping})
}

// UpdateTypeMapping handles PUT /type-mappings/:id.
func (h *BusinessHandler) UpdateTypeMapping(c *gin.Context) {
	var req MappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	mapping, err := h.businessService.UpdateTypeMapping(c.Request.Context(), c.Param("id"),
		models.TransactionType(req.InternalType), models.Direction(req.Direction), req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"type_mapping": mapping})
}

// DeleteTypeMapping handles DELETE /type-mappings/:id.
func (h *BusinessHandler) DeleteTypeMapping(c *gin.Context) {
	if err := h.businessService.DeleteTypeMapping(c.Request.Context(), c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
