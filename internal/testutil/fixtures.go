package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"paisatrack/internal/models"
	"paisatrack/internal/money"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique username.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	username := fmt.Sprintf("user%d", nextID())
	return CreateTestUserWithUsername(t, db, username)
}

// CreateTestUserWithUsername creates a user with the given username.
func CreateTestUserWithUsername(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username: username,
		Email:    username + "@test.com",
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates a category with a unique name.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID string, kind models.TransactionKind) *models.Category {
	t.Helper()
	name := fmt.Sprintf("Category %d", nextID())
	return CreateTestCategoryWithName(t, db, userID, name, kind)
}

// CreateTestCategoryWithName creates a category with the given name.
func CreateTestCategoryWithName(t *testing.T, db *gorm.DB, userID, name string, kind models.TransactionKind) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID: userID,
		Name:   name,
		Kind:   kind,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction creates a transaction on the given date. categoryID
// may be nil for an uncategorized entry.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID string, categoryID *string, kind models.TransactionKind, amount money.Amount, date time.Time) *models.Transaction {
	t.Helper()

	transaction := &models.Transaction{
		UserID:      userID,
		CategoryID:  categoryID,
		Kind:        kind,
		Amount:      amount,
		Description: fmt.Sprintf("test transaction %d", nextID()),
		Date:        date,
	}
	if err := db.Create(transaction).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return transaction
}

// CreateTestBudget creates a budget for the month containing the given time.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID string, month time.Time, amount money.Amount) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID: userID,
		Month:  time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC),
		Amount: amount,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}
