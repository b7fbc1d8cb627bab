package main

import (
	"reflect"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBuildMonthlySeries(t *testing.T) {
	incomes := []datedAmount{{Date: date(2024, time.January, 15), Amount: 100}}
	expenses := []datedAmount{{Date: date(2024, time.February, 10), Amount: 40}}

	s := buildMonthlySeries(incomes, expenses)

	if !reflect.DeepEqual(s.Labels, []string{"Jan 2024", "Feb 2024"}) {
		t.Fatalf("labels = %v", s.Labels)
	}
	if !reflect.DeepEqual(s.Income, []float64{100, 0}) {
		t.Fatalf("income = %v", s.Income)
	}
	if !reflect.DeepEqual(s.Expenses, []float64{0, 40}) {
		t.Fatalf("expenses = %v", s.Expenses)
	}
}

func TestBuildMonthlySeriesEmpty(t *testing.T) {
	s := buildMonthlySeries(nil, nil)
	if len(s.Labels) != 0 || len(s.Income) != 0 || len(s.Expenses) != 0 {
		t.Fatalf("empty ledger must yield empty series, got %+v", s)
	}
}

func TestBuildMonthlySeriesSumsWithinMonth(t *testing.T) {
	incomes := []datedAmount{
		{Date: date(2024, time.March, 1), Amount: 50},
		{Date: date(2024, time.March, 28), Amount: 25},
	}
	expenses := []datedAmount{
		{Date: date(2024, time.March, 5), Amount: 10},
		{Date: date(2024, time.March, 6), Amount: 12.5},
	}
	s := buildMonthlySeries(incomes, expenses)
	if len(s.Labels) != 1 || s.Labels[0] != "Mar 2024" {
		t.Fatalf("labels = %v", s.Labels)
	}
	if s.Income[0] != 75 {
		t.Fatalf("income sum = %v", s.Income[0])
	}
	if s.Expenses[0] != 22.5 {
		t.Fatalf("expense sum = %v", s.Expenses[0])
	}
}

func TestBuildMonthlySeriesSortsAcrossYears(t *testing.T) {
	incomes := []datedAmount{
		{Date: date(2024, time.January, 1), Amount: 1},
		{Date: date(2023, time.December, 31), Amount: 2},
	}
	s := buildMonthlySeries(incomes, nil)
	if !reflect.DeepEqual(s.Labels, []string{"Dec 2023", "Jan 2024"}) {
		t.Fatalf("labels = %v", s.Labels)
	}
}

func TestMonthKeyUsesUTC(t *testing.T) {
	// 2024-02-01 03:00 +05:30 is still January in UTC.
	loc := time.FixedZone("IST", 5*3600+1800)
	d := time.Date(2024, time.February, 1, 3, 0, 0, 0, loc)
	if k := monthKey(d); k != "2024-01" {
		t.Fatalf("monthKey = %q, want 2024-01", k)
	}
}

func TestUtilizationPercentZeroDenominator(t *testing.T) {
	u := Utilization{Used: 100, Total: 0}
	if p := u.Percent(); p != 0 {
		t.Fatalf("zero-total utilization must be 0, got %v", p)
	}
	u = Utilization{Used: 250, Total: 500}
	if p := u.Percent(); p != 50 {
		t.Fatalf("utilization = %v, want 50", p)
	}
}
