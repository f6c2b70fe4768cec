package services

import (
	"testing"
	"time"

	"hearth/internal/models"
	"hearth/internal/pagination"
	"hearth/internal/testutil"
)

func TestCreateBudget(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db, NewAggregationService(db))
		user := testutil.CreateTestUser(t, db)

		budget, err := svc.CreateBudget(user.ID, "groceries", 50000)
		testutil.AssertNoError(t, err)

		if budget.ID == 0 {
			t.Fatal("expected non-zero budget ID")
		}
		if budget.CategoryID != "groceries" {
			t.Errorf("expected category groceries, got %s", budget.CategoryID)
		}
		if budget.Period != models.BudgetPeriodMonthly {
			t.Errorf("expected period monthly, got %s", budget.Period)
		}
		if !budget.IsActive {
			t.Error("expected budget to be active")
		}
	})

	t.Run("rejects_non_positive_target", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db, NewAggregationService(db))
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateBudget(user.ID, "groceries", 0)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("rejects_unknown_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db, NewAggregationService(db))
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateBudget(user.ID, "not_a_category", 50000)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("rejects_income_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db, NewAggregationService(db))
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateBudget(user.ID, "salary", 50000)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("rejects_duplicate_active_budget", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db, NewAggregationService(db))
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateBudget(user.ID, "groceries", 50000)
		testutil.AssertNoError(t, err)

		_, err = svc.CreateBudget(user.ID, "groceries", 60000)
		testutil.AssertAppError(t, err, "DUPLICATE_BUDGET")
	})
}

func TestGetUserBudgets(t *testing.T) {
	t.Run("filters_by_active", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db, NewAggregationService(db))
		user := testutil.CreateTestUser(t, db)

		testutil.CreateTestBudget(t, db, user.ID, "groceries", 50000)
		inactive := testutil.CreateTestBudget(t, db, user.ID, "transport", 20000)
		if err := db.Model(inactive).Update("is_active", false).Error; err != nil {
			t.Fatalf("failed to deactivate budget: %v", err)
		}

		active := true
		result, err := svc.GetUserBudgets(user.ID, pagination.PageRequest{}, &active)
		testutil.AssertNoError(t, err)
		if len(result.Data) != 1 {
			t.Fatalf("expected 1 active budget, got %d", len(result.Data))
		}
		if result.Data[0].CategoryID != "groceries" {
			t.Errorf("expected groceries, got %s", result.Data[0].CategoryID)
		}
	})

	t.Run("returns_user_budgets_only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db, NewAggregationService(db))
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)

		testutil.CreateTestBudget(t, db, user.ID, "groceries", 50000)
		testutil.CreateTestBudget(t, db, other.ID, "transport", 20000)

		result, err := svc.GetUserBudgets(user.ID, pagination.PageRequest{}, nil)
		testutil.AssertNoError(t, err)
		if len(result.Data) != 1 {
			t.Errorf("expected 1 budget, got %d", len(result.Data))
		}
	})
}

func TestUpdateBudget(t *testing.T) {
	t.Run("updates_target_and_active", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db, NewAggregationService(db))
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID, "groceries", 50000)

		target := int64(75000)
		inactive := false
		updated, err := svc.UpdateBudget(user.ID, budget.ID, &target, &inactive)
		testutil.AssertNoError(t, err)

		var stored models.Budget
		if err := db.First(&stored, updated.ID).Error; err != nil {
			t.Fatalf("failed to reload budget: %v", err)
		}
		if stored.TargetAmount != 75000 {
			t.Errorf("expected target 75000, got %d", stored.TargetAmount)
		}
		if stored.IsActive {
			t.Error("expected budget to be inactive")
		}
	})

	t.Run("rejects_non_positive_target", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db, NewAggregationService(db))
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID, "groceries", 50000)

		target := int64(-1)
		_, err := svc.UpdateBudget(user.ID, budget.ID, &target, nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("not_found_for_other_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db, NewAggregationService(db))
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID, "groceries", 50000)

		target := int64(100)
		_, err := svc.UpdateBudget(other.ID, budget.ID, &target, nil)
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})
}

func TestDeleteBudget(t *testing.T) {
	t.Run("deletes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db, NewAggregationService(db))
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID, "groceries", 50000)

		testutil.AssertNoError(t, svc.DeleteBudget(user.ID, budget.ID))

		_, err := svc.GetBudgetByID(user.ID, budget.ID)
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})
}

func TestActiveBudgetForCategory(t *testing.T) {
	t.Run("returns_active_budget", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db, NewAggregationService(db))
		user := testutil.CreateTestUser(t, db)
		created := testutil.CreateTestBudget(t, db, user.ID, "groceries", 50000)

		budget, err := svc.ActiveBudgetForCategory(user.ID, "groceries")
		testutil.AssertNoError(t, err)
		if budget.ID != created.ID {
			t.Errorf("expected budget %d, got %d", created.ID, budget.ID)
		}
	})

	t.Run("ignores_inactive", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db, NewAggregationService(db))
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID, "groceries", 50000)
		if err := db.Model(budget).Update("is_active", false).Error; err != nil {
			t.Fatalf("failed to deactivate budget: %v", err)
		}

		_, err := svc.ActiveBudgetForCategory(user.ID, "groceries")
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})
}

func TestSnapshots(t *testing.T) {
	t.Run("computes_utilization", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db, NewAggregationService(db))
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestBudget(t, db, user.ID, "groceries", 100000)

		now := time.Date(2026, time.July, 15, 0, 0, 0, 0, time.UTC)
		testutil.CreateTestTransactionWithDate(t, db, user.ID, models.TransactionTypeExpense, "groceries", 40000, now)
		testutil.CreateTestTransactionWithDate(t, db, user.ID, models.TransactionTypeExpense, "groceries", 20000, now.AddDate(0, 0, 1))

		snapshots, err := svc.Snapshots(user.ID, now)
		testutil.AssertNoError(t, err)

		if len(snapshots) != 1 {
			t.Fatalf("expected 1 snapshot, got %d", len(snapshots))
		}
		s := snapshots[0]
		if s.SpentToDate != 60000 {
			t.Errorf("expected spent 60000, got %d", s.SpentToDate)
		}
		if s.Remaining != 40000 {
			t.Errorf("expected remaining 40000, got %d", s.Remaining)
		}
		if s.UtilizationPercent != 60.0 {
			t.Errorf("expected utilization 60.0, got %v", s.UtilizationPercent)
		}
		if s.PredictedMonthEnd != 20000 {
			t.Errorf("expected prediction 20000, got %d", s.PredictedMonthEnd)
		}
		if s.OverBudget {
			t.Error("expected under budget")
		}
	})

	t.Run("display_percent_caps_at_hundred", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db, NewAggregationService(db))
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestBudget(t, db, user.ID, "groceries", 10000)

		now := time.Date(2026, time.July, 15, 0, 0, 0, 0, time.UTC)
		testutil.CreateTestTransactionWithDate(t, db, user.ID, models.TransactionTypeExpense, "groceries", 15000, now)

		snapshots, err := svc.Snapshots(user.ID, now)
		testutil.AssertNoError(t, err)

		s := snapshots[0]
		if s.UtilizationPercent != 100.0 {
			t.Errorf("expected capped 100.0, got %v", s.UtilizationPercent)
		}
		if s.UtilizationRatio != 1.5 {
			t.Errorf("expected uncapped ratio 1.5, got %v", s.UtilizationRatio)
		}
		if !s.OverBudget {
			t.Error("expected over budget")
		}
		if s.Remaining != -5000 {
			t.Errorf("expected remaining -5000, got %d", s.Remaining)
		}
	})

	t.Run("no_active_budgets_is_empty", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db, NewAggregationService(db))
		user := testutil.CreateTestUser(t, db)

		snapshots, err := svc.Snapshots(user.ID, time.Now().UTC())
		testutil.AssertNoError(t, err)
		if len(snapshots) != 0 {
			t.Errorf("expected no snapshots, got %d", len(snapshots))
		}
	})
}

func TestIsOverBudget(t *testing.T) {
	cases := []struct {
		name      string
		spent     int64
		target    int64
		predicted int64
		want      bool
	}{
		{"under_on_both", 500, 1000, 800, false},
		{"exactly_at_target_is_not_over", 1000, 1000, 1000, false},
		{"actual_over", 1001, 1000, 0, true},
		{"projected_over", 500, 1000, 1200, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsOverBudget(tc.spent, tc.target, tc.predicted); got != tc.want {
				t.Errorf("IsOverBudget(%d, %d, %d) = %v, want %v", tc.spent, tc.target, tc.predicted, got, tc.want)
			}
		})
	}
}
