package models

import (
	"time"

	"paisatrack/internal/money"
)

// Transaction is a single income or expense entry. The category reference
// is nullable: deleting a category never deletes its transactions.
type Transaction struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	CategoryID  *string         `gorm:"type:uuid" json:"category_id,omitempty"`
	Kind        TransactionKind `gorm:"not null" json:"kind"`
	Amount      money.Amount    `gorm:"type:bigint;not null" json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `gorm:"not null;index" json:"date"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
