package models

import "time"

// Budget groups expenses under a named target amount. Amount is stored in
// the base currency and must be >= 0.
type Budget struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	UserID    uint      `gorm:"index;not null" json:"userId"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Amount    float64   `gorm:"not null" json:"amount"`
	Emoji     string    `gorm:"size:16" json:"emoji"`
	Expenses  []Expense `gorm:"foreignKey:BudgetID" json:"expenses,omitempty"`
}
