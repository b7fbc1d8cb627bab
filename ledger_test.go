package main

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestValidAmount(t *testing.T) {
	valid := []float64{0.01, 1, 99999.99}
	for _, v := range valid {
		if !validAmount(v) {
			t.Fatalf("%v should be a valid amount", v)
		}
	}
	invalid := []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)}
	for _, v := range invalid {
		if validAmount(v) {
			t.Fatalf("%v should be rejected", v)
		}
	}
}

func TestNewExpenseValidation(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name        string
		description string
		amount      float64
		date        time.Time
		category    string
	}{
		{"missing description", "", 10, now, "Food"},
		{"zero amount", "Lunch", 0, now, "Food"},
		{"negative amount", "Lunch", -5, now, "Food"},
		{"missing category", "Lunch", 10, now, ""},
		{"missing date", "Lunch", 10, time.Time{}, "Food"},
	}
	for _, tc := range cases {
		if _, err := newExpense(1, tc.description, tc.amount, tc.date, tc.category); !errors.Is(err, ErrValidation) {
			t.Fatalf("%s: expected ErrValidation, got %v", tc.name, err)
		}
	}

	e, err := newExpense(7, "Lunch", 10.5, now, "Food")
	if err != nil {
		t.Fatalf("valid expense rejected: %v", err)
	}
	if e.UserID != 7 || e.BudgetID != nil {
		t.Fatalf("unexpected expense: %+v", e)
	}
}

func TestParseDate(t *testing.T) {
	d, err := parseDate("2024-01-15")
	if err != nil {
		t.Fatalf("bare date: %v", err)
	}
	if d.Year() != 2024 || d.Month() != time.January || d.Day() != 15 {
		t.Fatalf("bare date parsed as %v", d)
	}
	d, err = parseDate("2024-01-15T10:30:00Z")
	if err != nil {
		t.Fatalf("RFC3339: %v", err)
	}
	if d.Hour() != 10 {
		t.Fatalf("RFC3339 parsed as %v", d)
	}
	if _, err := parseDate("15/01/2024"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
