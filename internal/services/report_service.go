package services

import (
	"errors"
	"math"
	"time"

	"gorm.io/gorm"

	apperrors "paisatrack/internal/errors"
	"paisatrack/internal/models"
	"paisatrack/internal/money"
)

const (
	// contextWindowDays is the trailing window used for the financial context.
	contextWindowDays = 30

	// topExpenseCategoryLimit caps the category breakdown in the context.
	topExpenseCategoryLimit = 5

	// uncategorizedName labels transactions without a category reference.
	// Used by both the financial context and the budget comparison.
	uncategorizedName = "Uncategorized"
)

// reportService computes derived financial reports: the 30-day financial
// context consumed by the advisor and the budget-vs-actual comparison.
type reportService struct {
	db *gorm.DB
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB) ReportServicer {
	return &reportService{db: db}
}

// GetFinancialContext summarizes the user's finances over the 30 calendar
// days up to asOf. The window has no upper bound, so future-dated
// transactions already on record are included.
func (s *reportService) GetFinancialContext(userID string, asOf time.Time) (*FinancialContext, error) {
	since := dayStart(asOf).AddDate(0, 0, -contextWindowDays)

	income, err := s.sumSince(userID, models.KindIncome, since)
	if err != nil {
		return nil, err
	}
	expenses, err := s.sumSince(userID, models.KindExpense, since)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.Transaction{}).
		Where("user_id = ? AND date >= ?", userID, since).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	top, err := s.topExpenseCategories(userID, since)
	if err != nil {
		return nil, err
	}

	var budgetAmount *money.Amount
	var budget models.Budget
	err = s.db.Where("user_id = ? AND month = ?", userID, firstOfMonth(asOf)).First(&budget).Error
	switch {
	case err == nil:
		amount := budget.Amount
		budgetAmount = &amount
	case errors.Is(err, gorm.ErrRecordNotFound):
		// No budget this month; the context reports it as absent.
	default:
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &FinancialContext{
		TotalIncome:          income,
		TotalExpenses:        expenses,
		Balance:              income - expenses,
		BudgetAmount:         budgetAmount,
		TopExpenseCategories: top,
		TransactionCount:     count,
	}, nil
}

// GetBudgetComparison compares the budget for the given month against the
// expenses recorded inside that month's half-open date range.
func (s *reportService) GetBudgetComparison(userID string, month time.Time) (*BudgetComparison, error) {
	start := firstOfMonth(month)

	var budget models.Budget
	if err := s.db.Where("user_id = ? AND month = ?", userID, start).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNoBudgetForMonth
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	end := start.AddDate(0, 1, 0)

	var rows []struct {
		CategoryID *string
		Name       *string
		Total      int64
	}
	if err := s.db.Model(&models.Transaction{}).
		Select("categories.id AS category_id, categories.name AS name, SUM(transactions.amount) AS total").
		Joins("LEFT JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.user_id = ? AND transactions.kind = ? AND transactions.date >= ? AND transactions.date < ?",
			userID, models.KindExpense, start, end).
		Group("categories.id, categories.name").
		Order("total DESC").
		Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var actual money.Amount
	for _, row := range rows {
		actual += money.Amount(row.Total)
	}

	var percentageUsed float64
	if budget.Amount != 0 {
		percentageUsed = round2(float64(actual) / float64(budget.Amount) * 100)
	}

	byCategory := make([]CategoryExpense, 0, len(rows))
	for _, row := range rows {
		name := uncategorizedName
		if row.Name != nil {
			name = *row.Name
		}
		var percentage float64
		if actual != 0 {
			percentage = round2(float64(row.Total) / float64(actual) * 100)
		}
		byCategory = append(byCategory, CategoryExpense{
			CategoryID:   row.CategoryID,
			CategoryName: name,
			Amount:       money.Amount(row.Total),
			Percentage:   percentage,
		})
	}

	return &BudgetComparison{
		BudgetAmount:   budget.Amount,
		ActualExpenses: actual,
		Remaining:      budget.Amount - actual,
		PercentageUsed: percentageUsed,
		ByCategory:     byCategory,
	}, nil
}

func (s *reportService) sumSince(userID string, kind models.TransactionKind, since time.Time) (money.Amount, error) {
	var total int64
	if err := s.db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND kind = ? AND date >= ?", userID, kind, since).
		Scan(&total).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return money.Amount(total), nil
}

// topExpenseCategories groups the window's expenses by category name and
// returns up to five groups, largest first. Null references group under
// the uncategorized bucket.
func (s *reportService) topExpenseCategories(userID string, since time.Time) ([]CategoryTotal, error) {
	var rows []struct {
		Name  *string
		Total int64
	}
	if err := s.db.Model(&models.Transaction{}).
		Select("categories.name AS name, SUM(transactions.amount) AS total").
		Joins("LEFT JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.user_id = ? AND transactions.kind = ? AND transactions.date >= ?",
			userID, models.KindExpense, since).
		Group("categories.name").
		Order("total DESC").
		Limit(topExpenseCategoryLimit).
		Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	top := make([]CategoryTotal, 0, len(rows))
	for _, row := range rows {
		name := uncategorizedName
		if row.Name != nil {
			name = *row.Name
		}
		top = append(top, CategoryTotal{Name: name, Total: money.Amount(row.Total)})
	}
	return top, nil
}

// round2 rounds half-up to two decimal places. The same rule applies to
// every percentage the API reports.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// dayStart truncates t to UTC midnight.
func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// firstOfMonth returns the first day of t's month at UTC midnight.
func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
