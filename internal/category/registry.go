// Package category holds the static category registry and the resolver that
// normalizes free-text labels into canonical category ids.
package category

import "hearth/internal/models"

// Category is a registry entry consulted by the resolver and by display
// formatters. The registry is static data; extending it is a data change,
// not a code change elsewhere.
type Category struct {
	ID          string                 `json:"id"`
	DisplayName string                 `json:"display_name"`
	Icon        string                 `json:"icon"`
	ColorToken  string                 `json:"color_token"`
	Type        models.TransactionType `json:"type"`
}

// Unresolved is the sentinel id clients send when the category is unknown,
// e.g. after AI extraction produced only a free-text label.
const Unresolved = "unresolved"

// Default category ids per transaction type.
const (
	DefaultIncomeID  = "other_income"
	DefaultExpenseID = "other_expense"
)

var registry = []Category{
	{ID: "food", DisplayName: "Food & Dining", Icon: "restaurant", ColorToken: "orange", Type: models.TransactionTypeExpense},
	{ID: "cafe", DisplayName: "Cafe & Snacks", Icon: "coffee", ColorToken: "brown", Type: models.TransactionTypeExpense},
	{ID: "groceries", DisplayName: "Groceries", Icon: "cart", ColorToken: "green", Type: models.TransactionTypeExpense},
	{ID: "transport", DisplayName: "Transport", Icon: "bus", ColorToken: "blue", Type: models.TransactionTypeExpense},
	{ID: "housing", DisplayName: "Housing & Rent", Icon: "home", ColorToken: "slate", Type: models.TransactionTypeExpense},
	{ID: "utilities", DisplayName: "Utilities", Icon: "bolt", ColorToken: "yellow", Type: models.TransactionTypeExpense},
	{ID: "shopping", DisplayName: "Shopping", Icon: "bag", ColorToken: "pink", Type: models.TransactionTypeExpense},
	{ID: "health", DisplayName: "Health", Icon: "heart", ColorToken: "red", Type: models.TransactionTypeExpense},
	{ID: "education", DisplayName: "Education", Icon: "book", ColorToken: "indigo", Type: models.TransactionTypeExpense},
	{ID: "entertainment", DisplayName: "Entertainment", Icon: "film", ColorToken: "purple", Type: models.TransactionTypeExpense},
	{ID: "travel", DisplayName: "Travel", Icon: "plane", ColorToken: "teal", Type: models.TransactionTypeExpense},
	{ID: "subscription", DisplayName: "Subscriptions", Icon: "repeat", ColorToken: "cyan", Type: models.TransactionTypeExpense},
	{ID: DefaultExpenseID, DisplayName: "Other Expense", Icon: "dots", ColorToken: "gray", Type: models.TransactionTypeExpense},

	{ID: "salary", DisplayName: "Salary", Icon: "briefcase", ColorToken: "emerald", Type: models.TransactionTypeIncome},
	{ID: "business", DisplayName: "Business", Icon: "store", ColorToken: "lime", Type: models.TransactionTypeIncome},
	{ID: "allowance", DisplayName: "Allowance", Icon: "gift", ColorToken: "amber", Type: models.TransactionTypeIncome},
	{ID: "interest", DisplayName: "Interest & Dividends", Icon: "percent", ColorToken: "sky", Type: models.TransactionTypeIncome},
	{ID: DefaultIncomeID, DisplayName: "Other Income", Icon: "dots", ColorToken: "gray", Type: models.TransactionTypeIncome},
}

// labels maps normalized label text to a canonical category id. Entries are
// matched exactly first, then by substring containment (longest key wins).
var labels = map[string]string{
	"food":          "food",
	"dining":        "food",
	"restaurant":    "food",
	"lunch":         "food",
	"dinner":        "food",
	"breakfast":     "food",
	"meal":          "food",
	"cafe":          "cafe",
	"coffee":        "cafe",
	"snack":         "cafe",
	"bakery":        "cafe",
	"grocery":       "groceries",
	"groceries":     "groceries",
	"supermarket":   "groceries",
	"market":        "groceries",
	"transport":     "transport",
	"taxi":          "transport",
	"bus":           "transport",
	"subway":        "transport",
	"metro":         "transport",
	"fuel":          "transport",
	"parking":       "transport",
	"rent":          "housing",
	"housing":       "housing",
	"mortgage":      "housing",
	"utility":       "utilities",
	"utilities":     "utilities",
	"electricity":   "utilities",
	"water":         "utilities",
	"internet":      "utilities",
	"phone":         "utilities",
	"shopping":      "shopping",
	"clothes":       "shopping",
	"clothing":      "shopping",
	"electronics":   "shopping",
	"health":        "health",
	"hospital":      "health",
	"pharmacy":      "health",
	"doctor":        "health",
	"gym":           "health",
	"education":     "education",
	"tuition":       "education",
	"course":        "education",
	"book":          "education",
	"entertainment": "entertainment",
	"movie":         "entertainment",
	"cinema":        "entertainment",
	"game":          "entertainment",
	"concert":       "entertainment",
	"travel":        "travel",
	"flight":        "travel",
	"hotel":         "travel",
	"vacation":      "travel",
	"subscription":  "subscription",
	"streaming":     "subscription",
	"membership":    "subscription",

	"salary":    "salary",
	"payroll":   "salary",
	"wage":      "salary",
	"bonus":     "salary",
	"business":  "business",
	"freelance": "business",
	"invoice":   "business",
	"allowance": "allowance",
	"gift":      "allowance",
	"interest":  "interest",
	"dividend":  "interest",
}

// All returns every registry entry, expense categories first.
func All() []Category {
	out := make([]Category, len(registry))
	copy(out, registry)
	return out
}

// Lookup returns the registry entry for a canonical id.
func Lookup(id string) (Category, bool) {
	for _, c := range registry {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// DefaultFor returns the fallback category id for a transaction type.
func DefaultFor(t models.TransactionType) string {
	if t == models.TransactionTypeIncome {
		return DefaultIncomeID
	}
	return DefaultExpenseID
}

// typeOf returns the transaction type of a canonical id, defaulting to
// expense for unknown ids.
func typeOf(id string) models.TransactionType {
	if c, ok := Lookup(id); ok {
		return c.Type
	}
	return models.TransactionTypeExpense
}
