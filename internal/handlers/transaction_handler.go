package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "ledgerbook/internal/errors"
	"ledgerbook/internal/models"
	"ledgerbook/internal/services"
)

// TransactionHandler handles ledger transaction requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// LineRequest is one side of a double entry in a request payload.
type LineRequest struct {
	AccountID    string  `json:"account_id" binding:"required"`
	DebitAmount  float64 `json:"debit_amount" binding:"gte=0"`
	CreditAmount float64 `json:"credit_amount" binding:"gte=0"`
}

// TransactionRequest represents the payload for creating or replacing a
// transaction. Updates replace the full line set.
type TransactionRequest struct {
	Date            string        `json:"transaction_date" binding:"required"`
	Description     string        `json:"description" binding:"required,min=1,max=500"`
	ReferenceNumber string        `json:"reference_number" binding:"max=100"`
	Type            string        `json:"type" binding:"required,transaction_type"`
	Lines           []LineRequest `json:"lines" binding:"required,min=2,dive"`
}

// BulkReassignRequest represents the payload for reassigning lines across
// many transactions to a single target account.
type BulkReassignRequest struct {
	TransactionIDs  []string `json:"transaction_ids" binding:"required,min=1"`
	TargetAccountID string   `json:"target_account_id" binding:"required"`
	LineFilter      string   `json:"line_filter" binding:"omitempty,line_filter"`
}

func (r *TransactionRequest) toInput() (services.TransactionInput, error) {
	date, err := parseDate(r.Date, "transaction_date")
	if err != nil {
		return services.TransactionInput{}, err
	}

	lines := make([]services.LineInput, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, services.LineInput{
			AccountID:    l.AccountID,
			DebitAmount:  l.DebitAmount,
			CreditAmount: l.CreditAmount,
		})
	}
	return services.TransactionInput{
		Date:            date,
		Description:     r.Description,
		ReferenceNumber: r.ReferenceNumber,
		Type:            models.TransactionType(r.Type),
		Lines:           lines,
	}, nil
}

// CreateTransaction handles POST /businesses/:businessID/transactions.
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	businessID := c.Param("businessID")
	if err := requireBusinessAccess(c, businessID); err != nil {
		respondWithError(c, err)
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	in, err := req.toInput()
	if err != nil {
		respondWithError(c, err)
		return
	}

	tx, err := h.transactionService.CreateTransaction(c.Request.Context(), businessID, in)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"transaction": tx})
}

// ListTransactions handles GET /businesses/:businessID/transactions with
// optional from_date, to_date, and account_id query filters.
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	businessID := c.Param("businessID")
	if err := requireBusinessAccess(c, businessID); err != nil {
		respondWithError(c, err)
		return
	}

	var filter services.TransactionFilter
	if v := c.Query("from_date"); v != "" {
		t, err := parseDate(v, "from_date")
		if err != nil {
			respondWithError(c, err)
			return
		}
		filter.FromDate = &t
	}
	if v := c.Query("to_date"); v != "" {
		t, err := parseDate(v, "to_date")
		if err != nil {
			respondWithError(c, err)
			return
		}
		filter.ToDate = &t
	}
	if v := c.Query("account_id"); v != "" {
		filter.AccountID = &v
	}

	txs, err := h.transactionService.ListTransactions(c.Request.Context(), businessID, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}

// GetTransaction handles GET /businesses/:businessID/transactions/:id.
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	businessID := c.Param("businessID")
	if err := requireBusinessAccess(c, businessID); err != nil {
		respondWithError(c, err)
		return
	}

	tx, err := h.transactionService.GetTransaction(c.Request.Context(), businessID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": tx})
}

// UpdateTransaction handles PUT /businesses/:businessID/transactions/:id.
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	businessID := c.Param("businessID")
	if err := requireBusinessAccess(c, businessID); err != nil {
		respondWithError(c, err)
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	in, err := req.toInput()
	if err != nil {
		respondWithError(c, err)
		return
	}

	tx, err := h.transactionService.UpdateTransaction(c.Request.Context(), businessID, c.Param("id"), in)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": tx})
}

// DeleteTransaction handles DELETE /businesses/:businessID/transactions/:id.
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	businessID := c.Param("businessID")
	if err := requireBusinessAccess(c, businessID); err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(c.Request.Context(), businessID, c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// BulkReassignAccount handles POST /businesses/:businessID/transactions/bulk-reassign.
func (h *TransactionHandler) BulkReassignAccount(c *gin.Context) {
	businessID := c.Param("businessID")
	if err := requireBusinessAccess(c, businessID); err != nil {
		respondWithError(c, err)
		return
	}

	var req BulkReassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	filter := services.LineFilter(req.LineFilter)
	if filter == "" {
		filter = services.LineFilterAll
	}

	result, err := h.transactionService.BulkReassignAccount(c.Request.Context(), businessID,
		req.TransactionIDs, req.TargetAccountID, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}
