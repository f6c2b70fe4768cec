package models

import "time"

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Transaction represents a single income or expense event. Amounts are
// whole currency units, never fractions. CategoryID always holds a
// canonical registry id resolved at write time, never a raw label.
type Transaction struct {
	Base
	UserID        uint            `gorm:"not null;index" json:"user_id"`
	Type          TransactionType `gorm:"not null" json:"type"`
	Amount        int64           `gorm:"type:bigint;not null" json:"amount"`
	CategoryID    string          `gorm:"not null;index" json:"category_id"`
	CategoryLabel string          `json:"category_label"`
	OccurredAt    *time.Time      `gorm:"index" json:"occurred_at,omitempty"`
	RecordedAt    time.Time       `gorm:"not null" json:"recorded_at"`
	Description   string          `json:"description"`
}

// BucketedAt returns the timestamp used for calendar-month bucketing:
// OccurredAt when present, otherwise RecordedAt.
func (t *Transaction) BucketedAt() time.Time {
	if t.OccurredAt != nil {
		return *t.OccurredAt
	}
	return t.RecordedAt
}
