package models

// BudgetPeriod represents the period type for a budget
type BudgetPeriod string

// BudgetPeriodMonthly is the only supported period; budgets are tracked
// against calendar months.
const BudgetPeriodMonthly BudgetPeriod = "monthly"

// Budget represents a per-category monthly spending target
type Budget struct {
	Base
	UserID       uint         `gorm:"not null;index" json:"user_id"`
	CategoryID   string       `gorm:"not null" json:"category_id"`
	TargetAmount int64        `gorm:"type:bigint;not null" json:"target_amount"`
	Period       BudgetPeriod `gorm:"not null;default:monthly" json:"period"`
	IsActive     bool         `gorm:"default:true" json:"is_active"`
}
