package services

import (
	"context"
	"time"

	"paisatrack/internal/models"
	"paisatrack/internal/money"
	"paisatrack/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(username, email, password, firstName, lastName string) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	StoreTokenHash(userID, hash string) error
	ClearTokenHash(userID string) error
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID, name string, kind models.TransactionKind) (*models.Category, error)
	GetUserCategories(userID string, kind *models.TransactionKind) ([]models.Category, error)
	GetCategoryByID(userID, categoryID string) (*models.Category, error)
	UpdateCategory(userID, categoryID, name string) (*models.Category, error)
	DeleteCategory(userID, categoryID string) error
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	Kind       *models.TransactionKind
	CategoryID *string
	FromDate   *time.Time
	ToDate     *time.Time
}

// TransactionUpdate holds the mutable fields of a transaction. Nil fields
// are left unchanged; ClearCategory removes the category reference.
type TransactionUpdate struct {
	Kind          *models.TransactionKind
	Amount        *money.Amount
	Description   *string
	Date          *time.Time
	CategoryID    *string
	ClearCategory bool
}

// TransactionSummary aggregates a user's entire ledger.
type TransactionSummary struct {
	TotalIncome   money.Amount `json:"total_income"`
	TotalExpenses money.Amount `json:"total_expenses"`
	Balance       money.Amount `json:"balance"`
	IncomeCount   int64        `json:"income_count"`
	ExpenseCount  int64        `json:"expense_count"`
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID string, categoryID *string, kind models.TransactionKind, amount money.Amount, description string, date time.Time) (*models.Transaction, error)
	GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID string, update TransactionUpdate) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
	GetSummary(userID string) (*TransactionSummary, error)
}

// BudgetDetails is a budget enriched with usage figures for its month.
type BudgetDetails struct {
	models.Budget
	ActualExpenses money.Amount `json:"actual_expenses"`
	Remaining      money.Amount `json:"remaining"`
	PercentageUsed float64      `json:"percentage_used"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(userID string, month time.Time, amount money.Amount) (*models.Budget, error)
	GetUserBudgets(userID string) ([]BudgetDetails, error)
	GetBudgetByID(userID, budgetID string) (*BudgetDetails, error)
	GetCurrentBudget(userID string, now time.Time) (*BudgetDetails, error)
	UpdateBudget(userID, budgetID string, amount money.Amount) (*models.Budget, error)
	DeleteBudget(userID, budgetID string) error
}

// CategoryTotal is one entry of the financial context's category breakdown.
type CategoryTotal struct {
	Name  string       `json:"name"`
	Total money.Amount `json:"total"`
}

// FinancialContext is a bounded summary of a user's recent finances,
// computed over the trailing 30-day window ending at the evaluation time.
type FinancialContext struct {
	TotalIncome          money.Amount    `json:"total_income"`
	TotalExpenses        money.Amount    `json:"total_expenses"`
	Balance              money.Amount    `json:"balance"`
	BudgetAmount         *money.Amount   `json:"budget_amount"`
	TopExpenseCategories []CategoryTotal `json:"top_expense_categories"`
	TransactionCount     int64           `json:"transaction_count"`
}

// CategoryExpense is one category row of a budget comparison. CategoryID
// is nil for the uncategorized bucket.
type CategoryExpense struct {
	CategoryID   *string      `json:"category_id"`
	CategoryName string       `json:"category_name"`
	Amount       money.Amount `json:"amount"`
	Percentage   float64      `json:"percentage"`
}

// BudgetComparison reports budget vs actual spending for one calendar month.
type BudgetComparison struct {
	BudgetAmount   money.Amount      `json:"budget_amount"`
	ActualExpenses money.Amount      `json:"actual_expenses"`
	Remaining      money.Amount      `json:"remaining"`
	PercentageUsed float64           `json:"percentage_used"`
	ByCategory     []CategoryExpense `json:"by_category"`
}

// ReportServicer defines the contract for derived financial reports.
type ReportServicer interface {
	GetFinancialContext(userID string, asOf time.Time) (*FinancialContext, error)
	GetBudgetComparison(userID string, month time.Time) (*BudgetComparison, error)
}

// Generator produces text for a rendered prompt. Satisfied by *ai.Client.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// AdviceServicer defines the contract for the AI advisory pipeline.
type AdviceServicer interface {
	GetAdvice(ctx context.Context, userID, question string) (string, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
