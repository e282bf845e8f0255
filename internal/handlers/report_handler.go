package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "ledgerbook/internal/errors"
	"ledgerbook/internal/services"
)

// ReportHandler handles financial report requests.
type ReportHandler struct {
	reportService services.ReportServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// ProfitLoss handles GET /businesses/:businessID/reports/profit-loss.
// Requires start_date and end_date query parameters.
func (h *ReportHandler) ProfitLoss(c *gin.Context) {
	businessID := c.Param("businessID")
	if err := requireBusinessAccess(c, businessID); err != nil {
		respondWithError(c, err)
		return
	}

	startDate, endDate, err := parseDateRange(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.reportService.ProfitLoss(c.Request.Context(), businessID, startDate, endDate)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}

// BalanceSheet handles GET /businesses/:businessID/reports/balance-sheet.
// The as_of_date query parameter defaults to today.
func (h *ReportHandler) BalanceSheet(c *gin.Context) {
	businessID := c.Param("businessID")
	if err := requireBusinessAccess(c, businessID); err != nil {
		respondWithError(c, err)
		return
	}

	asOf := time.Now()
	if v := c.Query("as_of_date"); v != "" {
		t, err := parseDate(v, "as_of_date")
		if err != nil {
			respondWithError(c, err)
			return
		}
		asOf = t
	}

	report, err := h.reportService.BalanceSheet(c.Request.Context(), businessID, asOf)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}

// CombinedProfitLoss handles GET /reports/combined-profit-loss. The
// business_ids query parameter is a comma-separated list; it defaults to
// every business the caller can access. Each requested id is checked
// against the caller's scope.
func (h *ReportHandler) CombinedProfitLoss(c *gin.Context) {
	var businessIDs []string
	if v := c.Query("business_ids"); v != "" {
		for _, id := range strings.Split(v, ",") {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			if err := requireBusinessAccess(c, id); err != nil {
				respondWithError(c, err)
				return
			}
			businessIDs = append(businessIDs, id)
		}
	} else {
		businessIDs = accessibleBusinessIDs(c)
	}
	if len(businessIDs) == 0 {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "No businesses to report on"))
		return
	}

	startDate, endDate, err := parseDateRange(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.reportService.CombinedProfitLoss(c.Request.Context(), businessIDs, startDate, endDate)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}

func parseDateRange(c *gin.Context) (time.Time, time.Time, error) {
	startRaw := c.Query("start_date")
	endRaw := c.Query("end_date")
	if startRaw == "" || endRaw == "" {
		return time.Time{}, time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidInput,
			"start_date and end_date are required")
	}
	startDate, err := parseDate(startRaw, "start_date")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endDate, err := parseDate(endRaw, "end_date")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if endDate.Before(startDate) {
		return time.Time{}, time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidInput,
			"end_date must not be before start_date")
	}
	return startDate, endDate, nil
}
