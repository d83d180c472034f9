package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// CategoryMap maps a category name to its allocated amount. It is
// stored as a single JSON column so the whole allocation replaces
// atomically with the budget row.
type CategoryMap map[string]float64

// Value implements driver.Valuer
func (m CategoryMap) Value() (driver.Value, error) {
	if m == nil {
		m = CategoryMap{}
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner
func (m *CategoryMap) Scan(value interface{}) error {
	if value == nil {
		*m = CategoryMap{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for CategoryMap: %T", value)
	}
	return json.Unmarshal(data, m)
}

// Total returns the sum of all category allocations
func (m CategoryMap) Total() float64 {
	var total float64
	for _, amount := range m {
		total += amount
	}
	return total
}

// Budget represents a user's monthly budget configuration.
// Each user has at most one budget row.
type Budget struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	UserID      uint        `gorm:"uniqueIndex;not null" json:"user_id"`
	Income      float64     `gorm:"not null" json:"income"`
	SavingsGoal float64     `gorm:"not null" json:"savings_goal"`
	Categories  CategoryMap `gorm:"type:text;not null" json:"categories"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

// TableName specifies the table name for Budget model
func (Budget) TableName() string {
	return "budgets"
}
