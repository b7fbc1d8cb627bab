package models

import "time"

// Expense is a single spend record. BudgetID is nullable: an expense may
// exist outside any budget. When set, the budget's owner equals UserID.
type Expense struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	UserID      uint      `gorm:"index;not null" json:"userId"`
	BudgetID    *uint     `gorm:"index" json:"budgetId,omitempty"`
	Budget      *Budget   `gorm:"foreignKey:BudgetID" json:"budget,omitempty"`
	Description string    `gorm:"size:255;not null" json:"description"`
	Amount      float64   `gorm:"not null" json:"amount"`
	Date        time.Time `gorm:"not null;index" json:"date"`
	Category    string    `gorm:"size:128;not null;index" json:"category"`
}
