package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "hearth/internal/errors"
	"hearth/internal/services"
)

// HouseholdHandler handles household management and reporting requests.
type HouseholdHandler struct {
	householdService services.HouseholdServicer
	auditService     services.AuditServicer
}

// NewHouseholdHandler creates a new HouseholdHandler.
func NewHouseholdHandler(householdService services.HouseholdServicer, auditService services.AuditServicer) *HouseholdHandler {
	return &HouseholdHandler{householdService: householdService, auditService: auditService}
}

// CreateHouseholdRequest represents the request payload for creating a household.
type CreateHouseholdRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// AddMemberRequest represents the request payload for adding a household member.
type AddMemberRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

// CreateHousehold handles creating a household owned by the caller.
// @Summary     Create a household
// @Description Create a household owned by the authenticated user
// @Tags        households
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateHouseholdRequest true "Household details"
// @Success     201 {object} models.Household "Household created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /households [post]
func (h *HouseholdHandler) CreateHousehold(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateHouseholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	household, err := h.householdService.CreateHousehold(userID, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_HOUSEHOLD", "household", household.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name})

	c.JSON(http.StatusCreated, gin.H{"household": household})
}

// GetHouseholds lists households owned by the caller.
// @Summary     Get households
// @Description Get all households owned by the authenticated user
// @Tags        households
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.Household "Households"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /households [get]
func (h *HouseholdHandler) GetHouseholds(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	households, err := h.householdService.GetUserHouseholds(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"households": households})
}

// GetHouseholdByID fetches one household with its members.
// @Summary     Get a household
// @Description Get a single household with its member list
// @Tags        households
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Household ID"
// @Success     200 {object} models.Household "Household"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /households/{id} [get]
func (h *HouseholdHandler) GetHouseholdByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	householdID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	household, err := h.householdService.GetHouseholdByID(userID, householdID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"household": household})
}

// AddMember adds a user to a household.
// @Summary     Add a household member
// @Description Add an existing user to a household owned by the caller
// @Tags        households
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int              true "Household ID"
// @Param       request body AddMemberRequest true "Member details"
// @Success     201 {object} models.HouseholdMember "Member added"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     409 {object} ErrorResponse "Already a member"
// @Router      /households/{id}/members [post]
func (h *HouseholdHandler) AddMember(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	householdID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	member, err := h.householdService.AddMember(userID, householdID, req.UserID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "ADD_HOUSEHOLD_MEMBER", "household", householdID, c.ClientIP(),
		map[string]interface{}{"member_user_id": req.UserID})

	c.JSON(http.StatusCreated, gin.H{"member": member})
}

// RemoveMember removes a user from a household.
// @Summary     Remove a household member
// @Description Remove a member from a household owned by the caller
// @Tags        households
// @Produce     json
// @Security    BearerAuth
// @Param       id        path int true "Household ID"
// @Param       member_id path int true "Member user ID"
// @Success     204 "Removed"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /households/{id}/members/{member_id} [delete]
func (h *HouseholdHandler) RemoveMember(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	householdID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	memberID, err := parsePathID(c, "member_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.householdService.RemoveMember(userID, householdID, memberID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "REMOVE_HOUSEHOLD_MEMBER", "household", householdID, c.ClientIP(),
		map[string]interface{}{"member_user_id": memberID})

	c.Status(http.StatusNoContent)
}

// GetMemberReport builds the per-member monthly report for a household.
// @Summary     Get household member report
// @Description Get per-member totals, household totals, and the combined expense breakdown for one month
// @Tags        households
// @Produce     json
// @Security    BearerAuth
// @Param       id    path  int true  "Household ID"
// @Param       year  query int false "Year (default current)"
// @Param       month query int false "Month 1-12 (default current)"
// @Success     200 {object} services.MemberReport "Member report"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /households/{id}/report [get]
func (h *HouseholdHandler) GetMemberReport(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	householdID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	year, month, err := parseYearMonth(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.householdService.MemberReport(userID, householdID, year, month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// parseYearMonth reads optional year/month query parameters, defaulting to
// the current UTC month.
func parseYearMonth(c *gin.Context) (int, time.Month, error) {
	now := time.Now().UTC()
	year, month := now.Year(), now.Month()

	if v := c.Query("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1970 || y > 9999 {
			return 0, 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "year must be a four-digit number")
		}
		year = y
	}
	if v := c.Query("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			return 0, 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
		}
		month = time.Month(m)
	}
	return year, month, nil
}
