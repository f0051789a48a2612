package models

import (
	"time"

	"paisatrack/internal/money"
)

// Budget is a user's spending cap for one calendar month. Month is stored
// as the first day of the month at UTC midnight; at most one live budget
// exists per (user, month).
type Budget struct {
	Base
	UserID string       `gorm:"type:uuid;not null;index" json:"user_id"`
	Month  time.Time    `gorm:"not null" json:"month"`
	Amount money.Amount `gorm:"type:bigint;not null" json:"budget_amount"`
}
