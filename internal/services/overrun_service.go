package services

import (
	"errors"
	"fmt"

	"hearth/internal/category"
	apperrors "hearth/internal/errors"
	"hearth/internal/logger"
	"hearth/internal/models"
	"hearth/internal/notify"
	"hearth/internal/uuid"
)

// budgetState is the per-(owner, category, month) utilization state. The
// single under→over transition is the only thing that emits an alert, which
// makes "at most one alert per crossing" structural rather than incidental.
type budgetState int

const (
	stateUnderBudget budgetState = iota
	stateOverBudget
)

func stateOf(spent, target int64) budgetState {
	if spent > target {
		return stateOverBudget
	}
	return stateUnderBudget
}

// overrunService is the edge-triggered budget overrun detector. It runs
// inline in the transaction-write path, immediately after the record is
// durably stored. Its failures are logged and swallowed: they must never
// roll back or retry the write they are reacting to.
type overrunService struct {
	budgets     BudgetServicer
	aggregation AggregationServicer
	delivery    notify.Deliverer
}

// NewOverrunNotifier creates a new OverrunNotifier.
func NewOverrunNotifier(budgets BudgetServicer, aggregation AggregationServicer, delivery notify.Deliverer) OverrunNotifier {
	return &overrunService{budgets: budgets, aggregation: aggregation, delivery: delivery}
}

// TransactionRecorded recomputes the category's spend for the month the
// inserted expense falls into and emits exactly one alert when the spend
// first crosses the budget target.
func (s *overrunService) TransactionRecorded(tx *models.Transaction) {
	if tx.Type != models.TransactionTypeExpense {
		return
	}

	budget, err := s.budgets.ActiveBudgetForCategory(tx.UserID, tx.CategoryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrBudgetNotFound) {
			logger.Get().Errorw("overrun check failed to load budget",
				"user_id", tx.UserID,
				"category_id", tx.CategoryID,
				"error", err,
			)
		}
		return
	}

	bucketed := tx.BucketedAt()
	from, to := MonthWindow(bucketed.Year(), bucketed.Month())
	expense := models.TransactionTypeExpense
	postInsertSpent, err := s.aggregation.Sum(tx.UserID, TransactionFilter{
		Type:       &expense,
		CategoryID: &tx.CategoryID,
		FromDate:   &from,
		ToDate:     &to,
	})
	if err != nil {
		logger.Get().Errorw("overrun check failed to aggregate spend",
			"user_id", tx.UserID,
			"category_id", tx.CategoryID,
			"error", err,
		)
		return
	}

	previousSpent := postInsertSpent - tx.Amount
	if stateOf(previousSpent, budget.TargetAmount) != stateUnderBudget ||
		stateOf(postInsertSpent, budget.TargetAmount) != stateOverBudget {
		return
	}

	displayName := tx.CategoryID
	if entry, ok := category.Lookup(tx.CategoryID); ok {
		displayName = entry.DisplayName
	}

	notification := notify.Notification{
		ID: uuid.Deterministic("budget-overrun",
			fmt.Sprintf("%d", budget.ID),
			fmt.Sprintf("%04d-%02d", bucketed.Year(), int(bucketed.Month()))),
		UserID: tx.UserID,
		Title:  "Budget exceeded",
		Body: fmt.Sprintf("%s spending reached %d of your %d budget this month.",
			displayName, postInsertSpent, budget.TargetAmount),
		Route: fmt.Sprintf("/budgets/%d", budget.ID),
	}

	if err := s.delivery.Deliver(notification); err != nil {
		logger.Get().Errorw("overrun alert delivery failed",
			"notification_id", notification.ID,
			"user_id", tx.UserID,
			"error", err,
		)
	}
}
