package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"hearth/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:       email,
		Password:    string(hash),
		DisplayName: fmt.Sprintf("Test User %d", nextID()),
		IsActive:    true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestHousehold creates a household owned by the given user.
func CreateTestHousehold(t *testing.T, db *gorm.DB, ownerID uint) *models.Household {
	t.Helper()

	household := &models.Household{
		OwnerID: ownerID,
		Name:    fmt.Sprintf("Test Household %d", nextID()),
	}
	if err := db.Create(household).Error; err != nil {
		t.Fatalf("failed to create test household: %v", err)
	}
	return household
}

// AddTestMember adds a user to a household.
func AddTestMember(t *testing.T, db *gorm.DB, householdID, userID uint) *models.HouseholdMember {
	t.Helper()

	member := &models.HouseholdMember{
		HouseholdID: householdID,
		UserID:      userID,
	}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("failed to create test household member: %v", err)
	}
	return member
}

// CreateTestBudget creates an active monthly budget for the given category.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID uint, categoryID string, targetAmount int64) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID:       userID,
		CategoryID:   categoryID,
		TargetAmount: targetAmount,
		Period:       models.BudgetPeriodMonthly,
		IsActive:     true,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestTransaction creates a transaction bucketed in the current month.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID uint, txType models.TransactionType, categoryID string, amount int64) *models.Transaction {
	t.Helper()
	return CreateTestTransactionWithDate(t, db, userID, txType, categoryID, amount, time.Now().UTC())
}

// CreateTestTransactionWithDate creates a transaction with an explicit
// occurrence date.
func CreateTestTransactionWithDate(t *testing.T, db *gorm.DB, userID uint, txType models.TransactionType, categoryID string, amount int64, occurredAt time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:     userID,
		Type:       txType,
		Amount:     amount,
		CategoryID: categoryID,
		OccurredAt: &occurredAt,
		RecordedAt: time.Now().UTC(),
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}
