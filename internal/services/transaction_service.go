package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "paisatrack/internal/errors"
	"paisatrack/internal/models"
	"paisatrack/internal/money"
	"paisatrack/internal/pagination"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db}
}

// CreateTransaction records a new income or expense entry for the user.
func (s *transactionService) CreateTransaction(
	userID string,
	categoryID *string,
	kind models.TransactionKind,
	amount money.Amount,
	description string,
	date time.Time,
) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if date.IsZero() {
		date = dayStart(time.Now().UTC())
	}

	if categoryID != nil {
		if err := s.checkCategory(userID, *categoryID, kind); err != nil {
			return nil, err
		}
	}

	transaction := &models.Transaction{
		UserID:      userID,
		CategoryID:  categoryID,
		Kind:        kind,
		Amount:      amount,
		Description: description,
		Date:        date,
	}

	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return transaction, nil
}

// checkCategory verifies the category exists, belongs to the user, and
// matches the transaction kind.
func (s *transactionService) checkCategory(userID, categoryID string, kind models.TransactionKind) error {
	var category models.Category
	if err := s.db.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCategoryNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if category.Kind != kind {
		return apperrors.ErrCategoryKindMismatch
	}
	return nil
}

// GetUserTransactions lists the user's transactions, newest first, with
// optional filters and pagination.
func (s *transactionService) GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	if filter.Kind != nil {
		base = base.Where("kind = ?", *filter.Kind)
	}
	if filter.CategoryID != nil {
		base = base.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.FromDate != nil {
		base = base.Where("date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		base = base.Where("date <= ?", *filter.ToDate)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Preload("Category").
		Order("date DESC, created_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetTransactionByID retrieves a transaction owned by the user.
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Preload("Category").
		Where("id = ? AND user_id = ?", transactionID, userID).
		First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// UpdateTransaction applies the provided field changes.
func (s *transactionService) UpdateTransaction(userID, transactionID string, update TransactionUpdate) (*models.Transaction, error) {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}

	kind := transaction.Kind
	if update.Kind != nil {
		kind = *update.Kind
	}

	updates := make(map[string]interface{})
	if update.Kind != nil {
		updates["kind"] = *update.Kind
	}
	if update.Amount != nil {
		if *update.Amount <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
		}
		updates["amount"] = *update.Amount
	}
	if update.Description != nil {
		updates["description"] = *update.Description
	}
	if update.Date != nil {
		updates["date"] = *update.Date
	}
	switch {
	case update.ClearCategory:
		updates["category_id"] = nil
	case update.CategoryID != nil:
		if err := s.checkCategory(userID, *update.CategoryID, kind); err != nil {
			return nil, err
		}
		updates["category_id"] = *update.CategoryID
	case update.Kind != nil && transaction.CategoryID != nil:
		// Changing kind while keeping the old category would leave a
		// mismatched tag.
		return nil, apperrors.ErrCategoryKindMismatch
	}

	if len(updates) > 0 {
		if err := s.db.Model(transaction).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return s.GetTransactionByID(userID, transactionID)
}

// DeleteTransaction soft-deletes a transaction.
func (s *transactionService) DeleteTransaction(userID, transactionID string) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetSummary totals the user's entire ledger by kind.
func (s *transactionService) GetSummary(userID string) (*TransactionSummary, error) {
	income, incomeCount, err := s.kindTotals(userID, models.KindIncome)
	if err != nil {
		return nil, err
	}
	expenses, expenseCount, err := s.kindTotals(userID, models.KindExpense)
	if err != nil {
		return nil, err
	}

	return &TransactionSummary{
		TotalIncome:   income,
		TotalExpenses: expenses,
		Balance:       income - expenses,
		IncomeCount:   incomeCount,
		ExpenseCount:  expenseCount,
	}, nil
}

func (s *transactionService) kindTotals(userID string, kind models.TransactionKind) (money.Amount, int64, error) {
	base := s.db.Model(&models.Transaction{}).Where("user_id = ? AND kind = ?", userID, kind)

	var total int64
	if err := base.Session(&gorm.Session{}).Select("COALESCE(SUM(amount), 0)").Scan(&total).Error; err != nil {
		return 0, 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var count int64
	if err := base.Session(&gorm.Session{}).Count(&count).Error; err != nil {
		return 0, 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return money.Amount(total), count, nil
}
