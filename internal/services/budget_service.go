package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "paisatrack/internal/errors"
	"paisatrack/internal/models"
	"paisatrack/internal/money"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// CreateBudget sets a spending cap for a calendar month. The month is
// normalized to its first day at UTC midnight; one budget per (user, month)
// among live rows.
func (s *budgetService) CreateBudget(userID string, month time.Time, amount money.Amount) (*models.Budget, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	start := firstOfMonth(month)

	var count int64
	if err := s.db.Model(&models.Budget{}).
		Where("user_id = ? AND month = ?", userID, start).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateBudgetMonth
	}

	budget := &models.Budget{
		UserID: userID,
		Month:  start,
		Amount: amount,
	}

	if err := s.db.Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return budget, nil
}

// GetUserBudgets lists the user's budgets, newest month first, each with
// usage figures for its month.
func (s *budgetService) GetUserBudgets(userID string) ([]BudgetDetails, error) {
	var budgets []models.Budget
	if err := s.db.Where("user_id = ?", userID).Order("month DESC").Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	details := make([]BudgetDetails, 0, len(budgets))
	for _, budget := range budgets {
		d, err := s.withUsage(budget)
		if err != nil {
			return nil, err
		}
		details = append(details, *d)
	}
	return details, nil
}

// GetBudgetByID retrieves a budget owned by the user, with usage figures.
func (s *budgetService) GetBudgetByID(userID, budgetID string) (*BudgetDetails, error) {
	var budget models.Budget
	if err := s.db.Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.withUsage(budget)
}

// GetCurrentBudget retrieves the budget for the month containing now.
func (s *budgetService) GetCurrentBudget(userID string, now time.Time) (*BudgetDetails, error) {
	var budget models.Budget
	if err := s.db.Where("user_id = ? AND month = ?", userID, firstOfMonth(now)).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNoBudgetForMonth
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.withUsage(budget)
}

// UpdateBudget changes a budget's amount. The month is immutable.
func (s *budgetService) UpdateBudget(userID, budgetID string, amount money.Amount) (*models.Budget, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	var budget models.Budget
	if err := s.db.Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Model(&budget).Update("amount", amount).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// DeleteBudget soft-deletes a budget.
func (s *budgetService) DeleteBudget(userID, budgetID string) error {
	var budget models.Budget
	if err := s.db.Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrBudgetNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Delete(&budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// withUsage attaches the month's actual expenses to a budget. A zero budget
// amount reports zero percent used.
func (s *budgetService) withUsage(budget models.Budget) (*BudgetDetails, error) {
	start := firstOfMonth(budget.Month)
	end := start.AddDate(0, 1, 0)

	var total int64
	if err := s.db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND kind = ? AND date >= ? AND date < ?",
			budget.UserID, models.KindExpense, start, end).
		Scan(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	actual := money.Amount(total)
	var percentageUsed float64
	if budget.Amount != 0 {
		percentageUsed = round2(float64(actual) / float64(budget.Amount) * 100)
	}

	return &BudgetDetails{
		Budget:         budget,
		ActualExpenses: actual,
		Remaining:      budget.Amount - actual,
		PercentageUsed: percentageUsed,
	}, nil
}
