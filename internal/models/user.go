package models

// User represents an account holder.
type User struct {
	Base
	Username  string `gorm:"uniqueIndex;not null" json:"username"`
	Email     string `json:"email"`
	Password  string `gorm:"not null" json:"-"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsActive  bool   `gorm:"default:true" json:"is_active"`

	// SHA-256 of the token issued at login; cleared on logout.
	TokenHash string `gorm:"size:64" json:"-"`

	Categories   []Category    `gorm:"foreignKey:UserID" json:"categories,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:UserID" json:"transactions,omitempty"`
	Budgets      []Budget      `gorm:"foreignKey:UserID" json:"budgets,omitempty"`
}
