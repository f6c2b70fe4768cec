package services

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	apperrors "hearth/internal/errors"
	"hearth/internal/logger"
	"hearth/internal/models"
)

// topCategoryCount is how many expense categories each member summary keeps.
const topCategoryCount = 3

// householdService handles household membership and the member report
// builder.
type householdService struct {
	db          *gorm.DB
	aggregation AggregationServicer
}

// NewHouseholdService creates a new HouseholdServicer.
func NewHouseholdService(db *gorm.DB, aggregation AggregationServicer) HouseholdServicer {
	return &householdService{db: db, aggregation: aggregation}
}

// CreateHousehold creates a household owned by the given user.
func (s *householdService) CreateHousehold(ownerID uint, name string) (*models.Household, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "household name is required")
	}

	household := &models.Household{OwnerID: ownerID, Name: name}
	if err := s.db.Create(household).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return household, nil
}

// GetHouseholdByID returns a household with members if it belongs to the owner.
func (s *householdService) GetHouseholdByID(ownerID, householdID uint) (*models.Household, error) {
	var household models.Household
	err := s.db.Preload("Members.User").
		Where("id = ? AND owner_id = ?", householdID, ownerID).
		First(&household).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrHouseholdNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &household, nil
}

// GetUserHouseholds lists the households a user owns.
func (s *householdService) GetUserHouseholds(ownerID uint) ([]models.Household, error) {
	var households []models.Household
	if err := s.db.Preload("Members.User").Where("owner_id = ?", ownerID).Find(&households).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return households, nil
}

// AddMember links an existing user account to the household.
func (s *householdService) AddMember(ownerID, householdID, userID uint) (*models.HouseholdMember, error) {
	household, err := s.GetHouseholdByID(ownerID, householdID)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if userID == household.OwnerID {
		return nil, apperrors.WithMessage(apperrors.ErrDuplicateMember, "Owner is already part of the household")
	}
	var count int64
	if err := s.db.Model(&models.HouseholdMember{}).
		Where("household_id = ? AND user_id = ?", householdID, userID).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateMember
	}

	member := &models.HouseholdMember{HouseholdID: householdID, UserID: userID}
	if err := s.db.Create(member).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	member.User = user
	return member, nil
}

// RemoveMember unlinks a member from the household.
func (s *householdService) RemoveMember(ownerID, householdID, memberID uint) error {
	if _, err := s.GetHouseholdByID(ownerID, householdID); err != nil {
		return err
	}

	result := s.db.Where("id = ? AND household_id = ?", memberID, householdID).
		Delete(&models.HouseholdMember{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrMemberNotFound
	}
	return nil
}

// memberResult is one member's fan-out outcome.
type memberResult struct {
	summary    MemberSummary
	byCategory map[string]int64
	failed     bool
}

// MemberReport aggregates one month for every household member. Reads fan
// out concurrently, one per member; a failed member read is downgraded to
// zero contribution instead of aborting the report, and surfaces in
// FailedSources. Parallelism is bounded only by household size.
func (s *householdService) MemberReport(ownerID, householdID uint, year int, month time.Month) (*MemberReport, error) {
	household, err := s.GetHouseholdByID(ownerID, householdID)
	if err != nil {
		return nil, err
	}

	type participant struct {
		userID      uint
		displayName string
	}

	// Owner first, then explicit members, deduplicated.
	seen := map[uint]bool{household.OwnerID: true}
	participants := []participant{{userID: household.OwnerID, displayName: s.displayName(household.OwnerID)}}
	for i := range household.Members {
		m := &household.Members[i]
		if seen[m.UserID] {
			continue
		}
		seen[m.UserID] = true
		name := m.User.DisplayName
		if name == "" {
			name = m.User.Email
		}
		participants = append(participants, participant{userID: m.UserID, displayName: name})
	}

	results := make([]memberResult, len(participants))
	var g errgroup.Group
	for i := range participants {
		g.Go(func() error {
			p := participants[i]
			summary, err := s.aggregation.MonthlySummary(p.userID, year, month)
			if err != nil {
				logger.Get().Warnw("member aggregation failed, counting as zero",
					"household_id", householdID,
					"user_id", p.userID,
					"error", err,
				)
				results[i] = memberResult{failed: true}
				return nil
			}

			from, to := MonthWindow(year, month)
			expense := models.TransactionTypeExpense
			totals, err := s.aggregation.CategoryTotals(p.userID, TransactionFilter{
				Type:     &expense,
				FromDate: &from,
				ToDate:   &to,
			})
			if err != nil {
				logger.Get().Warnw("member category aggregation failed, counting as zero",
					"household_id", householdID,
					"user_id", p.userID,
					"error", err,
				)
				results[i] = memberResult{failed: true}
				return nil
			}

			breakdown := BreakdownFromTotals(totals)
			if len(breakdown) > topCategoryCount {
				breakdown = breakdown[:topCategoryCount]
			}
			results[i] = memberResult{
				summary: MemberSummary{
					UserID:        p.userID,
					DisplayName:   p.displayName,
					TotalIncome:   summary.TotalIncome,
					TotalExpense:  summary.TotalExpense,
					NetBalance:    summary.NetBalance,
					TopCategories: breakdown,
				},
				byCategory: totals,
			}
			return nil
		})
	}
	// Per-member errors are downgraded above, so Wait never returns one.
	_ = g.Wait()

	report := &MemberReport{
		HouseholdID: householdID,
		Year:        year,
		Month:       month,
		Totals:      MonthlySummary{Year: year, Month: month},
	}
	householdTotals := make(map[string]int64)
	for i := range results {
		if results[i].failed {
			report.FailedSources = append(report.FailedSources,
				fmt.Sprintf("member:%d", participants[i].userID))
			continue
		}
		member := results[i].summary
		report.Members = append(report.Members, member)
		report.Totals.TotalIncome += member.TotalIncome
		report.Totals.TotalExpense += member.TotalExpense
		for id, amount := range results[i].byCategory {
			householdTotals[id] += amount
		}
	}
	report.Totals.NetBalance = report.Totals.TotalIncome - report.Totals.TotalExpense
	report.Breakdown = BreakdownFromTotals(householdTotals)

	sort.SliceStable(report.Members, func(i, j int) bool {
		return report.Members[i].TotalExpense > report.Members[j].TotalExpense
	})
	return report, nil
}

func (s *householdService) displayName(userID uint) string {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return fmt.Sprintf("user %d", userID)
	}
	if user.DisplayName != "" {
		return user.DisplayName
	}
	return user.Email
}
