package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "hearth/internal/errors"
	"hearth/internal/services"
)

// ReportHandler serves the derived aggregation views: monthly summaries,
// category breakdowns, and multi-month trends.
type ReportHandler struct {
	aggregationService services.AggregationServicer
	trendService       services.TrendServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(aggregationService services.AggregationServicer, trendService services.TrendServicer) *ReportHandler {
	return &ReportHandler{aggregationService: aggregationService, trendService: trendService}
}

// GetMonthlySummary returns income/expense totals for one month.
// @Summary     Get monthly summary
// @Description Get income, expense, net balance, and record counts for one calendar month
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       year  query int false "Year (default current)"
// @Param       month query int false "Month 1-12 (default current)"
// @Success     200 {object} services.MonthlySummary "Monthly summary"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /reports/summary [get]
func (h *ReportHandler) GetMonthlySummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	year, month, err := parseYearMonth(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.aggregationService.MonthlySummary(userID, year, month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// GetCategoryBreakdown returns the per-category expense split for one month.
// @Summary     Get category breakdown
// @Description Get expense totals per category with percentage shares for one calendar month
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       year  query int false "Year (default current)"
// @Param       month query int false "Month 1-12 (default current)"
// @Success     200 {array} services.CategoryTotal "Category breakdown"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /reports/breakdown [get]
func (h *ReportHandler) GetCategoryBreakdown(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	year, month, err := parseYearMonth(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	breakdown, err := h.aggregationService.CategoryBreakdown(userID, year, month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"breakdown": breakdown})
}

// GetTrend returns the trailing multi-month trend series.
// @Summary     Get trend
// @Description Get per-month income, expense, and saving rate for the trailing N months, oldest first
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       months query int false "Number of trailing months, 1-24 (default 3)"
// @Success     200 {array} services.TrendPoint "Trend points"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /reports/trend [get]
func (h *ReportHandler) GetTrend(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	months := 0
	if v := c.Query("months"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "months must be a number"))
			return
		}
		months = m
	}

	points, err := h.trendService.Trend(userID, months, time.Now().UTC())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trend": points})
}
