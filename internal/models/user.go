package models

import (
	"time"
)

// User represents a registered user
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	FirstName    string    `gorm:"size:50;not null" json:"first_name"`
	LastName     string    `gorm:"size:50;not null" json:"last_name"`
	Username     string    `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;size:100;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Phone        string    `gorm:"size:30" json:"phone,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Budget   *Budget   `gorm:"foreignKey:UserID" json:"budget,omitempty"`
	Expenses []Expense `gorm:"foreignKey:UserID" json:"expenses,omitempty"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}
