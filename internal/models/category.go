package models

// TransactionKind discriminates income from expense on transactions
// and on the categories that tag them.
type TransactionKind string

const (
	KindIncome  TransactionKind = "income"
	KindExpense TransactionKind = "expense"
)

// Category tags a user's transactions. (user, name, kind) is unique
// among live rows.
type Category struct {
	Base
	UserID string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Name   string          `gorm:"not null" json:"name"`
	Kind   TransactionKind `gorm:"not null" json:"kind"`
}
