package services

import (
	"fmt"
	"math"
	"time"

	apperrors "hearth/internal/errors"
)

const (
	trendMinMonths     = 1
	trendMaxMonths     = 24
	trendDefaultMonths = 3
)

// trendService runs the aggregator across a sliding window of calendar
// months. A series is recomputed in full on every call; it is not a
// resumable stream.
type trendService struct {
	aggregation AggregationServicer
}

// NewTrendService creates a new TrendServicer.
func NewTrendService(aggregation AggregationServicer) TrendServicer {
	return &trendService{aggregation: aggregation}
}

// Trend computes the trailing trend series ending at the anchor's month,
// ordered oldest to newest. A partial series would mislead, so a failure on
// any month aborts the whole computation.
func (s *trendService) Trend(userID uint, months int, anchor time.Time) ([]TrendPoint, error) {
	if months == 0 {
		months = trendDefaultMonths
	}
	if months < trendMinMonths || months > trendMaxMonths {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput,
			fmt.Sprintf("months must be between %d and %d", trendMinMonths, trendMaxMonths))
	}

	partial := Partial[[]TrendPoint]{Value: make([]TrendPoint, 0, months)}
	for i := months - 1; i >= 0; i-- {
		target := time.Date(anchor.Year(), anchor.Month()-time.Month(i), 1, 0, 0, 0, 0, time.UTC)

		summary, err := s.aggregation.MonthlySummary(userID, target.Year(), target.Month())
		if err != nil {
			partial.FailedSources = append(partial.FailedSources, target.Format("2006-01"))
			continue
		}

		partial.Value = append(partial.Value, TrendPoint{
			MonthLabel:   target.Format("2006-01"),
			Year:         target.Year(),
			Month:        target.Month(),
			TotalIncome:  summary.TotalIncome,
			TotalExpense: summary.TotalExpense,
			SavingRate:   SavingRate(summary.TotalIncome, summary.TotalExpense),
		})
	}

	// Fail fast: this caller tolerates no missing months.
	if !partial.Complete() {
		return nil, apperrors.WithMessage(apperrors.ErrInternalServer,
			fmt.Sprintf("trend aggregation failed for %v", partial.FailedSources))
	}
	return partial.Value, nil
}

// SavingRate returns (income−expense)/income as a percentage rounded to one
// decimal, or 0 when there is no income.
func SavingRate(income, expense int64) float64 {
	if income <= 0 {
		return 0
	}
	return math.Round(float64(income-expense)/float64(income)*1000) / 10
}
