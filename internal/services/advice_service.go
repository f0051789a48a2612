package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "paisatrack/internal/errors"
	"paisatrack/internal/money"
)

// adviceService builds the advisory prompt from the user's financial
// context and delegates generation to the configured backend.
type adviceService struct {
	reports ReportServicer
	gen     Generator
	timeout time.Duration
}

// NewAdviceService creates a new AdviceServicer.
func NewAdviceService(reports ReportServicer, gen Generator, timeout time.Duration) AdviceServicer {
	return &adviceService{reports: reports, gen: gen, timeout: timeout}
}

// GetAdvice answers a financial question grounded in the user's recent
// activity. Blank questions are rejected before any backend work.
func (s *adviceService) GetAdvice(ctx context.Context, userID, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", apperrors.ErrQuestionRequired
	}

	fc, err := s.reports.GetFinancialContext(userID, time.Now().UTC())
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	advice, err := s.gen.Generate(ctx, renderAdvicePrompt(fc, question))
	if err != nil {
		return "", apperrors.WithMessage(apperrors.ErrUpstream, err.Error())
	}
	return advice, nil
}

// renderAdvicePrompt lays out the financial summary and the question for
// the generation backend.
func renderAdvicePrompt(fc *FinancialContext, question string) string {
	budgetText := "Not set"
	if fc.BudgetAmount != nil {
		budgetText = rupees(*fc.BudgetAmount)
	}

	var categories strings.Builder
	for i, c := range fc.TopExpenseCategories {
		if i > 0 {
			categories.WriteByte('\n')
		}
		fmt.Fprintf(&categories, "- %s: %s", c.Name, rupees(c.Total))
	}

	return fmt.Sprintf(`You are a professional financial advisor. Analyze this financial data and answer the user's question.

Financial Summary (Last 30 Days):
- Total Income: %s
- Total Expenses: %s
- Current Balance: %s
- Monthly Budget: %s
- Number of Transactions: %d

Top Expense Categories:
%s

User Question: %s

Provide personalized, actionable financial advice based on this data. Be specific, supportive, and practical. Use Indian Rupees (₹) in your response. Keep your response short in 4-5 sentences.`,
		rupees(fc.TotalIncome),
		rupees(fc.TotalExpenses),
		rupees(fc.Balance),
		budgetText,
		fc.TransactionCount,
		categories.String(),
		question,
	)
}

// rupees renders an amount as ₹12,345.67 with comma-grouped thousands.
func rupees(a money.Amount) string {
	s := a.String()
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}
	dot := strings.IndexByte(s, '.')
	intPart, fracPart := s[:dot], s[dot:]

	var grouped strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(digit)
	}
	return sign + "₹" + grouped.String() + fracPart
}
