package handlers

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "paisatrack/internal/errors"
	"paisatrack/internal/models"
	"paisatrack/internal/money"
	"paisatrack/internal/pagination"
	"paisatrack/internal/services"
)

// --- mock transaction service ---

type mockTransactionService struct {
	createTransactionFn   func(userID string, categoryID *string, kind models.TransactionKind, amount money.Amount, description string, date time.Time) (*models.Transaction, error)
	getUserTransactionsFn func(userID string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	getTransactionByIDFn  func(userID, transactionID string) (*models.Transaction, error)
	updateTransactionFn   func(userID, transactionID string, update services.TransactionUpdate) (*models.Transaction, error)
	deleteTransactionFn   func(userID, transactionID string) error
	getSummaryFn          func(userID string) (*services.TransactionSummary, error)
}

func (m *mockTransactionService) CreateTransaction(userID string, categoryID *string, kind models.TransactionKind, amount money.Amount, description string, date time.Time) (*models.Transaction, error) {
	if m.createTransactionFn != nil {
		return m.createTransactionFn(userID, categoryID, kind, amount, description, date)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) GetUserTransactions(userID string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	if m.getUserTransactionsFn != nil {
		return m.getUserTransactionsFn(userID, page, filter)
	}
	resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockTransactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	if m.getTransactionByIDFn != nil {
		return m.getTransactionByIDFn(userID, transactionID)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) UpdateTransaction(userID, transactionID string, update services.TransactionUpdate) (*models.Transaction, error) {
	if m.updateTransactionFn != nil {
		return m.updateTransactionFn(userID, transactionID, update)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) DeleteTransaction(userID, transactionID string) error {
	if m.deleteTransactionFn != nil {
		return m.deleteTransactionFn(userID, transactionID)
	}
	return nil
}

func (m *mockTransactionService) GetSummary(userID string) (*services.TransactionSummary, error) {
	if m.getSummaryFn != nil {
		return m.getSummaryFn(userID)
	}
	return &services.TransactionSummary{}, nil
}

var _ services.TransactionServicer = (*mockTransactionService)(nil)

func setupTransactionRouter(handler *TransactionHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/transactions", handler.CreateTransaction)
	auth.GET("/transactions", handler.GetTransactions)
	auth.GET("/transactions/summary", handler.GetSummary)
	auth.GET("/transactions/:id", handler.GetTransaction)
	auth.PUT("/transactions/:id", handler.UpdateTransaction)
	auth.DELETE("/transactions/:id", handler.DeleteTransaction)
	return r
}

func TestTransactionHandler_CreateTransaction(t *testing.T) {
	t.Run("returns 201 with parsed amount and date", func(t *testing.T) {
		txnSvc := &mockTransactionService{
			createTransactionFn: func(_ string, _ *string, kind models.TransactionKind, amount money.Amount, _ string, date time.Time) (*models.Transaction, error) {
				if amount != 15050 {
					t.Errorf("amount = %d, want 15050 paise", amount)
				}
				want := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
				if !date.Equal(want) {
					t.Errorf("date = %v, want %v", date, want)
				}
				return &models.Transaction{Kind: kind, Amount: amount, Date: date}, nil
			},
		}
		handler := NewTransactionHandler(txnSvc, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions",
			`{"kind":"expense","amount":"150.50","date":"2026-03-10"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), `"150.50"`) {
			t.Errorf("amount not rendered as decimal string: %s", rec.Body.String())
		}
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{}, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions", `{"kind":"transfer","amount":"10.00"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{}, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions", `{"kind":"expense","amount":"-10.00"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("rejects malformed date", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{}, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions", `{"kind":"expense","amount":"10.00","date":"10-03-2026"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("maps kind mismatch to 400", func(t *testing.T) {
		txnSvc := &mockTransactionService{
			createTransactionFn: func(string, *string, models.TransactionKind, money.Amount, string, time.Time) (*models.Transaction, error) {
				return nil, apperrors.ErrCategoryKindMismatch
			},
		}
		handler := NewTransactionHandler(txnSvc, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions",
			`{"kind":"expense","amount":"10.00","category_id":"0195d7a2-2222-7000-8000-000000000002"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		if code := errorCode(t, rec); code != "CATEGORY_KIND_MISMATCH" {
			t.Errorf("error code = %q", code)
		}
	})
}

func TestTransactionHandler_GetTransactions(t *testing.T) {
	t.Run("passes filters through", func(t *testing.T) {
		var gotFilter services.TransactionFilter
		txnSvc := &mockTransactionService{
			getUserTransactionsFn: func(_ string, _ pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
				gotFilter = filter
				resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
				return &resp, nil
			},
		}
		handler := NewTransactionHandler(txnSvc, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET", "/transactions?kind=expense&from_date=2026-03-01&to_date=2026-03-31", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if gotFilter.Kind == nil || *gotFilter.Kind != models.KindExpense {
			t.Errorf("kind filter = %v", gotFilter.Kind)
		}
		if gotFilter.FromDate == nil || gotFilter.ToDate == nil {
			t.Error("date filters not passed through")
		}
	})

	t.Run("rejects bad kind filter", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{}, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET", "/transactions?kind=transfer", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}

func TestTransactionHandler_UpdateTransaction(t *testing.T) {
	t.Run("clear_category passes through", func(t *testing.T) {
		var gotUpdate services.TransactionUpdate
		txnSvc := &mockTransactionService{
			updateTransactionFn: func(_, _ string, update services.TransactionUpdate) (*models.Transaction, error) {
				gotUpdate = update
				return &models.Transaction{}, nil
			},
		}
		handler := NewTransactionHandler(txnSvc, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "PUT", "/transactions/"+testUserID, `{"clear_category":true,"amount":"99.99"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
		}
		if !gotUpdate.ClearCategory {
			t.Error("clear_category not passed through")
		}
		if gotUpdate.Amount == nil || *gotUpdate.Amount != 9999 {
			t.Errorf("amount = %v, want 9999 paise", gotUpdate.Amount)
		}
	})

	t.Run("returns 404 for missing transaction", func(t *testing.T) {
		txnSvc := &mockTransactionService{
			updateTransactionFn: func(string, string, services.TransactionUpdate) (*models.Transaction, error) {
				return nil, apperrors.ErrTransactionNotFound
			},
		}
		handler := NewTransactionHandler(txnSvc, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "PUT", "/transactions/"+testUserID, `{"description":"x"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})
}

func TestTransactionHandler_GetSummary(t *testing.T) {
	txnSvc := &mockTransactionService{
		getSummaryFn: func(string) (*services.TransactionSummary, error) {
			return &services.TransactionSummary{
				TotalIncome:   150000,
				TotalExpenses: 30000,
				Balance:       120000,
				IncomeCount:   2,
				ExpenseCount:  1,
			}, nil
		},
	}
	handler := NewTransactionHandler(txnSvc, &mockAuditService{})
	r := setupTransactionRouter(handler)

	rec := doRequest(r, "GET", "/transactions/summary", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	for _, want := range []string{`"total_income":"1500.00"`, `"total_expenses":"300.00"`, `"balance":"1200.00"`} {
		if !strings.Contains(rec.Body.String(), want) {
			t.Errorf("body missing %s: %s", want, rec.Body.String())
		}
	}
}
