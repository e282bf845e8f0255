package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "ledgerbook/internal/errors"
	"ledgerbook/internal/services"
)

// AccountHandler handles chart-of-accounts requests.
type AccountHandler struct {
	accountService services.AccountServicer
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService services.AccountServicer) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// CreateAccountRequest represents the payload for creating a chart account.
type CreateAccountRequest struct {
	AccountCode     string  `json:"account_code" binding:"required,min=1,max=50"`
	AccountName     string  `json:"account_name" binding:"required,min=1,max=200"`
	AccountTypeID   string  `json:"account_type_id" binding:"required"`
	Description     string  `json:"description" binding:"max=500"`
	ParentAccountID *string `json:"parent_account_id"`
}

// UpdateAccountRequest represents the payload for patching a chart account.
// Nil fields are left unchanged.
type UpdateAccountRequest struct {
	AccountCode     *string `json:"account_code" binding:"omitempty,min=1,max=50"`
	AccountName     *string `json:"account_name" binding:"omitempty,min=1,max=200"`
	AccountTypeID   *string `json:"account_type_id"`
	Description     *string `json:"description" binding:"omitempty,max=500"`
	ParentAccountID *string `json:"parent_account_id"`
	ClearParent     bool    `json:"clear_parent"`
	IsActive        *bool   `json:"is_active"`
}

// CreateAccount handles POST /businesses/:businessID/accounts.
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	businessID := c.Param("businessID")
	if err := requireBusinessAccess(c, businessID); err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), businessID, services.AccountInput{
		AccountCode:     req.AccountCode,
		AccountName:     req.AccountName,
		AccountTypeID:   req.AccountTypeID,
		Description:     req.Description,
		ParentAccountID: req.ParentAccountID,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"account": account})
}

// ListAccounts handles GET /businesses/:businessID/accounts.
func (h *AccountHandler) ListAccounts(c *gin.Context) {
	businessID := c.Param("businessID")
	if err := requireBusinessAccess(c, businessID); err != nil {
		respondWithError(c, err)
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), businessID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

// GetAccount handles GET /businesses/:businessID/accounts/:id.
func (h *AccountHandler) GetAccount(c *gin.Context) {
	businessID := c.Param("businessID")
	if err := requireBusinessAccess(c, businessID); err != nil {
		respondWithError(c, err)
		return
	}

	account, err := h.accountService.GetAccount(c.Request.Context(), businessID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"account": account})
}

// UpdateAccount handles PUT /businesses/:businessID/accounts/:id.
func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	businessID := c.Param("businessID")
	if err := requireBusinessAccess(c, businessID); err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	account, err := h.accountService.UpdateAccount(c.Request.Context(), businessID, c.Param("id"), services.AccountPatch{
		AccountCode:     req.AccountCode,
		AccountName:     req.AccountName,
		AccountTypeID:   req.AccountTypeID,
		Description:     req.Description,
		ParentAccountID: req.ParentAccountID,
		ClearParent:     req.ClearParent,
		IsActive:        req.IsActive,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"account": account})
}

// DeleteAccount handles DELETE /businesses/:businessID/accounts/:id.
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	businessID := c.Param("businessID")
	if err := requireBusinessAccess(c, businessID); err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.accountService.DeleteAccount(c.Request.Context(), businessID, c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
