package models

import "time"

// Income is a single earning record.
type Income struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	UserID    uint      `gorm:"index;not null" json:"userId"`
	Source    string    `gorm:"size:255;not null" json:"source"`
	Category  string    `gorm:"size:128;not null" json:"category"`
	Amount    float64   `gorm:"not null" json:"amount"`
	Date      time.Time `gorm:"not null;index" json:"date"`
}
