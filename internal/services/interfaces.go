package services

import (
	"time"

	"hearth/internal/models"
	"hearth/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, displayName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
}

// TransactionFilter holds optional filter parameters for aggregation and
// listing. ToDate is exclusive; date filtering applies to the bucketing
// timestamp (occurred_at with recorded_at fallback).
type TransactionFilter struct {
	Type       *models.TransactionType
	CategoryID *string
	FromDate   *time.Time
	ToDate     *time.Time
}

// TransactionServicer defines the contract for transaction CRUD. Records are
// immutable except for description and category correction.
type TransactionServicer interface {
	CreateTransaction(userID uint, txType models.TransactionType, amount int64, categoryID, categoryLabel string, occurredAt *time.Time, description string) (*models.Transaction, error)
	GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID uint) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID uint, description, categoryID, categoryLabel *string) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID uint) error
}

// MonthlySummary is the per-owner aggregate for a single calendar month.
type MonthlySummary struct {
	Year         int        `json:"year"`
	Month        time.Month `json:"month"`
	TotalIncome  int64      `json:"total_income"`
	TotalExpense int64      `json:"total_expense"`
	NetBalance   int64      `json:"net_balance"`
	IncomeCount  int        `json:"income_count"`
	ExpenseCount int        `json:"expense_count"`
}

// CategoryTotal is one row of a category breakdown, enriched with registry
// display attributes.
type CategoryTotal struct {
	CategoryID  string  `json:"category_id"`
	DisplayName string  `json:"display_name"`
	Icon        string  `json:"icon"`
	ColorToken  string  `json:"color_token"`
	Amount      int64   `json:"amount"`
	Percentage  float64 `json:"percentage"`
}

// AggregationServicer is the filter + fold engine over stored transactions.
// Every call fetches a fresh snapshot; nothing is cached.
type AggregationServicer interface {
	Sum(userID uint, filter TransactionFilter) (int64, error)
	Count(userID uint, filter TransactionFilter) (int64, error)
	CategoryTotals(userID uint, filter TransactionFilter) (map[string]int64, error)
	MonthlySummary(userID uint, year int, month time.Month) (*MonthlySummary, error)
	CategoryBreakdown(userID uint, year int, month time.Month) ([]CategoryTotal, error)
}

// TrendPoint is one month of a trend series.
type TrendPoint struct {
	MonthLabel   string     `json:"month_label"`
	Year         int        `json:"year"`
	Month        time.Month `json:"month"`
	TotalIncome  int64      `json:"total_income"`
	TotalExpense int64      `json:"total_expense"`
	SavingRate   float64    `json:"saving_rate"`
}

// TrendServicer computes multi-month trend series.
type TrendServicer interface {
	Trend(userID uint, months int, anchor time.Time) ([]TrendPoint, error)
}

// BudgetSnapshot is the derived utilization view for one active budget.
// It is recomputed on demand and never persisted.
type BudgetSnapshot struct {
	BudgetID           uint    `json:"budget_id"`
	CategoryID         string  `json:"category_id"`
	TargetAmount       int64   `json:"target_amount"`
	SpentToDate        int64   `json:"spent_to_date"`
	PredictedMonthEnd  int64   `json:"predicted_month_end"`
	Remaining          int64   `json:"remaining"`
	UtilizationPercent float64 `json:"utilization_percent"` // capped at 100 for display
	UtilizationRatio   float64 `json:"utilization_ratio"`   // uncapped
	OverBudget         bool    `json:"over_budget"`
}

// BudgetServicer defines budget CRUD plus snapshot computation.
type BudgetServicer interface {
	CreateBudget(userID uint, categoryID string, targetAmount int64) (*models.Budget, error)
	GetUserBudgets(userID uint, page pagination.PageRequest, isActive *bool) (*pagination.PageResponse[models.Budget], error)
	GetBudgetByID(userID, budgetID uint) (*models.Budget, error)
	UpdateBudget(userID, budgetID uint, targetAmount *int64, isActive *bool) (*models.Budget, error)
	DeleteBudget(userID, budgetID uint) error
	ActiveBudgetForCategory(userID uint, categoryID string) (*models.Budget, error)
	Snapshots(userID uint, now time.Time) ([]BudgetSnapshot, error)
}

// OverrunNotifier watches budget utilization across transaction insertions
// and emits at most one alert per (category, month) crossing.
type OverrunNotifier interface {
	TransactionRecorded(tx *models.Transaction)
}

// MemberSummary is the per-member aggregate inside a household report.
type MemberSummary struct {
	UserID        uint            `json:"user_id"`
	DisplayName   string          `json:"display_name"`
	TotalIncome   int64           `json:"total_income"`
	TotalExpense  int64           `json:"total_expense"`
	NetBalance    int64           `json:"net_balance"`
	TopCategories []CategoryTotal `json:"top_categories"`
}

// MemberReport is the household-wide view for one month. FailedSources lists
// members whose reads failed and therefore contributed zero.
type MemberReport struct {
	HouseholdID   uint            `json:"household_id"`
	Year          int             `json:"year"`
	Month         time.Month      `json:"month"`
	Members       []MemberSummary `json:"members"`
	Totals        MonthlySummary  `json:"totals"`
	Breakdown     []CategoryTotal `json:"breakdown"`
	FailedSources []string        `json:"failed_sources,omitempty"`
}

// HouseholdServicer defines household CRUD and the member report builder.
type HouseholdServicer interface {
	CreateHousehold(ownerID uint, name string) (*models.Household, error)
	GetHouseholdByID(ownerID, householdID uint) (*models.Household, error)
	GetUserHouseholds(ownerID uint) ([]models.Household, error)
	AddMember(ownerID, householdID, userID uint) (*models.HouseholdMember, error)
	RemoveMember(ownerID, householdID, memberID uint) error
	MemberReport(ownerID, householdID uint, year int, month time.Month) (*MemberReport, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{})
}
