package models

import (
	"time"
)

// Expense represents a single spend recorded against a budget category.
// Expenses are immutable once created; the only mutation is deletion.
type Expense struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	Category    string    `gorm:"size:50;not null" json:"category"`
	AmountSpent float64   `gorm:"not null" json:"amount_spent"`
	Description string    `gorm:"size:200" json:"description"`
	CreatedAt   time.Time `json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

// TableName specifies the table name for Expense model
func (Expense) TableName() string {
	return "expenses"
}
