package models

import "time"

// CurrencyPreference holds the display currency for one user (one-to-one).
// Stored amounts stay in the base currency; this only drives view-time
// conversion.
type CurrencyPreference struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"userId"`
	Currency  string    `gorm:"size:8;not null" json:"currency"`
}

// ThemePreference holds the light/dark flag for one user (one-to-one).
type ThemePreference struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"userId"`
	Theme     string    `gorm:"size:16;not null" json:"theme"`
}
