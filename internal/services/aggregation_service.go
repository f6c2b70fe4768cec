package services

import (
	"math"
	"sort"
	"time"

	"gorm.io/gorm"

	"hearth/internal/category"
	apperrors "hearth/internal/errors"
	"hearth/internal/models"
)

// aggregationService is the filter + fold engine. Each call fetches a fresh
// snapshot from the store and folds it in a single pass; there is no cache
// and no incremental state. Callers are responsible for bounding fetch size.
type aggregationService struct {
	db *gorm.DB
}

// NewAggregationService creates a new AggregationServicer.
func NewAggregationService(db *gorm.DB) AggregationServicer {
	return &aggregationService{db: db}
}

// bucketExpr is the SQL expression for the month-bucketing timestamp:
// occurred_at when present, recorded_at otherwise. The fallback is explicit
// so records without an event date are never silently dropped.
const bucketExpr = "COALESCE(occurred_at, recorded_at)"

func (s *aggregationService) fetch(userID uint, filter TransactionFilter) ([]models.Transaction, error) {
	q := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	if filter.Type != nil {
		q = q.Where("type = ?", *filter.Type)
	}
	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.FromDate != nil {
		q = q.Where(bucketExpr+" >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		q = q.Where(bucketExpr+" < ?", *filter.ToDate)
	}

	var txs []models.Transaction
	if err := q.Order("recorded_at").Find(&txs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return txs, nil
}

// Sum returns the total amount of all matching transactions.
func (s *aggregationService) Sum(userID uint, filter TransactionFilter) (int64, error) {
	txs, err := s.fetch(userID, filter)
	if err != nil {
		return 0, err
	}
	return SumAmounts(txs), nil
}

// Count returns the number of matching transactions.
func (s *aggregationService) Count(userID uint, filter TransactionFilter) (int64, error) {
	txs, err := s.fetch(userID, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(txs)), nil
}

// CategoryTotals returns per-category amount sums for matching transactions.
func (s *aggregationService) CategoryTotals(userID uint, filter TransactionFilter) (map[string]int64, error) {
	txs, err := s.fetch(userID, filter)
	if err != nil {
		return nil, err
	}
	return GroupByCategory(txs), nil
}

// MonthlySummary folds one calendar month of transactions into income and
// expense totals and counts.
func (s *aggregationService) MonthlySummary(userID uint, year int, month time.Month) (*MonthlySummary, error) {
	from, to := MonthWindow(year, month)
	txs, err := s.fetch(userID, TransactionFilter{FromDate: &from, ToDate: &to})
	if err != nil {
		return nil, err
	}

	summary := &MonthlySummary{Year: year, Month: month}
	for i := range txs {
		switch txs[i].Type {
		case models.TransactionTypeIncome:
			summary.TotalIncome += txs[i].Amount
			summary.IncomeCount++
		case models.TransactionTypeExpense:
			summary.TotalExpense += txs[i].Amount
			summary.ExpenseCount++
		}
	}
	summary.NetBalance = summary.TotalIncome - summary.TotalExpense
	return summary, nil
}

// CategoryBreakdown returns one month's expense totals per category,
// percentaged against the month's total expense and sorted by amount
// descending.
func (s *aggregationService) CategoryBreakdown(userID uint, year int, month time.Month) ([]CategoryTotal, error) {
	from, to := MonthWindow(year, month)
	expense := models.TransactionTypeExpense
	totals, err := s.CategoryTotals(userID, TransactionFilter{Type: &expense, FromDate: &from, ToDate: &to})
	if err != nil {
		return nil, err
	}
	return BreakdownFromTotals(totals), nil
}

// SumAmounts folds a snapshot into its total amount.
func SumAmounts(txs []models.Transaction) int64 {
	var total int64
	for i := range txs {
		total += txs[i].Amount
	}
	return total
}

// GroupByCategory folds a snapshot into per-category amount sums.
func GroupByCategory(txs []models.Transaction) map[string]int64 {
	grouped := make(map[string]int64)
	for i := range txs {
		grouped[txs[i].CategoryID] += txs[i].Amount
	}
	return grouped
}

// Percentage returns part/total as a percentage rounded to one decimal.
// A zero or negative total always yields 0, never NaN.
func Percentage(part, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}

// MonthWindow returns the half-open UTC interval [from, to) covering one
// calendar month.
func MonthWindow(year int, month time.Month) (time.Time, time.Time) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

// BreakdownFromTotals converts a category→amount map into sorted, percentaged
// breakdown rows with registry display attributes.
func BreakdownFromTotals(totals map[string]int64) []CategoryTotal {
	var grand int64
	for _, amount := range totals {
		grand += amount
	}

	rows := make([]CategoryTotal, 0, len(totals))
	for id, amount := range totals {
		row := CategoryTotal{CategoryID: id, Amount: amount, Percentage: Percentage(amount, grand)}
		if entry, ok := category.Lookup(id); ok {
			row.DisplayName = entry.DisplayName
			row.Icon = entry.Icon
			row.ColorToken = entry.ColorToken
		} else {
			row.DisplayName = id
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Amount != rows[j].Amount {
			return rows[i].Amount > rows[j].Amount
		}
		return rows[i].CategoryID < rows[j].CategoryID
	})
	return rows
}
