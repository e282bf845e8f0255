package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "ledgerbook/internal/errors"
	"ledgerbook/internal/services"
)

// ImportHandler handles bank statement uploads.
type ImportHandler struct {
	importService services.ImportServicer
}

// NewImportHandler creates a new ImportHandler.
func NewImportHandler(importService services.ImportServicer) *ImportHandler {
	return &ImportHandler{importService: importService}
}

// ImportStatement handles POST /businesses/:businessID/subsidiaries/:id/import.
// The statement is sent either as a multipart "file" field or as the raw
// request body. Optional form/query fields debit_account_id and
// credit_account_id override the uncategorized placeholders.
func (h *ImportHandler) ImportStatement(c *gin.Context) {
	businessID := c.Param("businessID")
	if err := requireBusinessAccess(c, businessID); err != nil {
		respondWithError(c, err)
		return
	}
	subsidiaryID := c.Param("id")

	reader, err := statementReader(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	defer reader.Close()

	opts := services.ImportOptions{
		DebitAccountID:  firstNonEmpty(c.PostForm("debit_account_id"), c.Query("debit_account_id")),
		CreditAccountID: firstNonEmpty(c.PostForm("credit_account_id"), c.Query("credit_account_id")),
	}

	result, err := h.importService.ImportStatement(c.Request.Context(), businessID, subsidiaryID, reader, opts)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

func statementReader(c *gin.Context) (io.ReadCloser, error) {
	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInvalidInput, err)
		}
		return f, nil
	}
	if c.Request.Body == nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Statement file is required")
	}
	return c.Request.Body, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
