package models

import (
	"time"
)

// User model. Email is a pointer so guest accounts can omit it without
// tripping the unique index (Postgres treats NULLs as distinct).
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	Username       string    `gorm:"size:255;not null;unique" json:"username"`
	Email          *string   `gorm:"size:255;uniqueIndex" json:"email,omitempty"`
	HashedPassword []byte    `json:"-"` // empty for guest accounts
	ProfilePicture string    `gorm:"size:512" json:"profilePicture"`
	IsGuest        bool      `gorm:"default:false;not null;index" json:"isGuest"`

	Budgets  []Budget            `json:"-"`
	Expenses []Expense           `json:"-"`
	Incomes  []Income            `json:"-"`
	Currency *CurrencyPreference `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Theme    *ThemePreference    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
