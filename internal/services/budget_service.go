package services

import (
	"errors"
	"math"
	"time"

	"gorm.io/gorm"

	"hearth/internal/category"
	apperrors "hearth/internal/errors"
	"hearth/internal/models"
	"hearth/internal/pagination"
)

// recentSampleSize bounds the transaction sample used by the month-end
// predictor.
const recentSampleSize = 30

// budgetService combines aggregator output with stored budget targets.
type budgetService struct {
	db          *gorm.DB
	aggregation AggregationServicer
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB, aggregation AggregationServicer) BudgetServicer {
	return &budgetService{db: db, aggregation: aggregation}
}

// CreateBudget creates a monthly budget for an expense category.
func (s *budgetService) CreateBudget(userID uint, categoryID string, targetAmount int64) (*models.Budget, error) {
	if targetAmount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target amount must be greater than zero")
	}

	entry, ok := category.Lookup(categoryID)
	if !ok {
		return nil, apperrors.ErrCategoryNotFound
	}
	if entry.Type != models.TransactionTypeExpense {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budgets can only target expense categories")
	}

	var count int64
	if err := s.db.Model(&models.Budget{}).
		Where("user_id = ? AND category_id = ? AND is_active = ?", userID, categoryID, true).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateBudget
	}

	budget := &models.Budget{
		UserID:       userID,
		CategoryID:   categoryID,
		TargetAmount: targetAmount,
		Period:       models.BudgetPeriodMonthly,
		IsActive:     true,
	}
	if err := s.db.Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budget, nil
}

// GetUserBudgets returns a paginated list of budgets with an optional
// active filter.
func (s *budgetService) GetUserBudgets(userID uint, page pagination.PageRequest, isActive *bool) (*pagination.PageResponse[models.Budget], error) {
	page.Defaults()

	base := s.db.Model(&models.Budget{}).Where("user_id = ?", userID)
	if isActive != nil {
		base = base.Where("is_active = ?", *isActive)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := base.Scopes(pagination.Paginate(page)).Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(budgets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBudgetByID returns a budget by ID if it belongs to the user.
func (s *budgetService) GetBudgetByID(userID, budgetID uint) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// UpdateBudget updates the target amount and/or active flag.
func (s *budgetService) UpdateBudget(userID, budgetID uint, targetAmount *int64, isActive *bool) (*models.Budget, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if targetAmount != nil {
		if *targetAmount <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target amount must be greater than zero")
		}
		updates["target_amount"] = *targetAmount
	}
	if isActive != nil {
		updates["is_active"] = *isActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(budget).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return budget, nil
}

// DeleteBudget removes a budget.
func (s *budgetService) DeleteBudget(userID, budgetID uint) error {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ActiveBudgetForCategory returns the user's active budget for a category.
// One active budget per (user, category) is expected but not enforced at
// the storage layer; the most recent one wins.
func (s *budgetService) ActiveBudgetForCategory(userID uint, categoryID string) (*models.Budget, error) {
	var budget models.Budget
	err := s.db.Where("user_id = ? AND category_id = ? AND is_active = ?", userID, categoryID, true).
		Order("created_at DESC").
		First(&budget).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// Snapshots computes the derived utilization view for every active budget:
// spend to date for the month containing now, a projected month-end spend,
// and capped/uncapped utilization.
func (s *budgetService) Snapshots(userID uint, now time.Time) ([]BudgetSnapshot, error) {
	var budgets []models.Budget
	if err := s.db.Where("user_id = ? AND is_active = ?", userID, true).
		Order("category_id").
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(budgets) == 0 {
		return []BudgetSnapshot{}, nil
	}

	from, to := MonthWindow(now.Year(), now.Month())
	expense := models.TransactionTypeExpense
	spentByCategory, err := s.aggregation.CategoryTotals(userID, TransactionFilter{
		Type:     &expense,
		FromDate: &from,
		ToDate:   &to,
	})
	if err != nil {
		return nil, err
	}

	snapshots := make([]BudgetSnapshot, 0, len(budgets))
	for i := range budgets {
		b := &budgets[i]
		spent := spentByCategory[b.CategoryID]

		predicted, err := s.predictMonthEnd(userID, b.CategoryID)
		if err != nil {
			return nil, err
		}

		ratio := float64(0)
		if b.TargetAmount > 0 {
			ratio = float64(spent) / float64(b.TargetAmount)
		}

		snapshots = append(snapshots, BudgetSnapshot{
			BudgetID:           b.ID,
			CategoryID:         b.CategoryID,
			TargetAmount:       b.TargetAmount,
			SpentToDate:        spent,
			PredictedMonthEnd:  predicted,
			Remaining:          b.TargetAmount - spent,
			UtilizationPercent: math.Min(100, math.Round(ratio*1000)/10),
			UtilizationRatio:   ratio,
			OverBudget:         IsOverBudget(spent, b.TargetAmount, predicted),
		})
	}
	return snapshots, nil
}

// predictMonthEnd projects month-end spend from the most recent
// category-matching expenses: the sum of up to recentSampleSize amounts
// divided by 3, approximating a 3-month rolling average. The sample is
// transaction-count bounded rather than a literal 3-calendar-month window.
func (s *budgetService) predictMonthEnd(userID uint, categoryID string) (int64, error) {
	var amounts []int64
	err := s.db.Model(&models.Transaction{}).
		Where("user_id = ? AND category_id = ? AND type = ?", userID, categoryID, models.TransactionTypeExpense).
		Order("recorded_at DESC").
		Limit(recentSampleSize).
		Pluck("amount", &amounts).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(amounts) == 0 {
		return 0, nil
	}

	var total int64
	for _, a := range amounts {
		total += a
	}
	return total / 3, nil
}

// IsOverBudget reports whether actual or projected spend exceeds the target.
func IsOverBudget(spent, target, predicted int64) bool {
	return spent > target || predicted > target
}
