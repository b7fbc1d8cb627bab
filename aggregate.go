package main

import (
	"sort"
	"time"

	"budgethub/models"

	"gorm.io/gorm"
)

// Read-only aggregation over one user's ledger. All queries are scoped by
// user_id; missing sums come back as 0, never null.

// Summary is the dashboard headline block.
type Summary struct {
	TotalIncome       float64     `json:"totalIncome"`
	TotalExpenses     float64     `json:"totalExpenses"`
	Balance           float64     `json:"balance"`
	BudgetUtilization Utilization `json:"budgetUtilization"`
}

// Utilization reports spend against the combined budget targets.
type Utilization struct {
	Used  float64 `json:"used"`
	Total float64 `json:"total"`
}

// Percent returns used/total as a percentage. A zero denominator yields 0,
// not NaN or Inf.
func (u Utilization) Percent() float64 {
	if u.Total == 0 {
		return 0
	}
	return u.Used / u.Total * 100
}

func sumAmount(gdb *gorm.DB, model any, userID uint) (float64, error) {
	var total float64
	err := gdb.Model(model).Where("user_id = ?", userID).
		Select("COALESCE(SUM(amount), 0)").Scan(&total).Error
	return total, err
}

// GetSummary computes totals and balance for one user. A user with no
// records gets all zeros.
func GetSummary(gdb *gorm.DB, userID uint) (*Summary, error) {
	totalIncome, err := sumAmount(gdb, &models.Income{}, userID)
	if err != nil {
		return nil, err
	}
	totalExpenses, err := sumAmount(gdb, &models.Expense{}, userID)
	if err != nil {
		return nil, err
	}
	totalBudget, err := sumAmount(gdb, &models.Budget{}, userID)
	if err != nil {
		return nil, err
	}
	return &Summary{
		TotalIncome:       totalIncome,
		TotalExpenses:     totalExpenses,
		Balance:           totalIncome - totalExpenses,
		BudgetUtilization: Utilization{Used: totalExpenses, Total: totalBudget},
	}, nil
}

// MonthlySeries is the income-vs-expenses chart payload: one label per
// month present in either series, with same-length amount arrays.
type MonthlySeries struct {
	Labels   []string  `json:"labels"`
	Income   []float64 `json:"income"`
	Expenses []float64 `json:"expenses"`
}

type datedAmount struct {
	Date   time.Time
	Amount float64
}

// GetMonthlySeries fetches a user's incomes and expenses and buckets them
// by calendar month.
func GetMonthlySeries(gdb *gorm.DB, userID uint) (*MonthlySeries, error) {
	var incomes, expenses []datedAmount
	if err := gdb.Model(&models.Income{}).Where("user_id = ?", userID).
		Select("date, amount").Order("date asc").Scan(&incomes).Error; err != nil {
		return nil, err
	}
	if err := gdb.Model(&models.Expense{}).Where("user_id = ?", userID).
		Select("date, amount").Order("date asc").Scan(&expenses).Error; err != nil {
		return nil, err
	}
	return buildMonthlySeries(incomes, expenses), nil
}

// monthKey buckets a record by its canonical (UTC) date, so the grouping
// never shifts with the server's locale or timezone.
func monthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

func monthLabel(key string) string {
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return key
	}
	return t.Format("Jan 2006")
}

// buildMonthlySeries merges the two series over the sorted union of months.
// Months absent from one side contribute 0 to that side.
func buildMonthlySeries(incomes, expenses []datedAmount) *MonthlySeries {
	incomeByMonth := map[string]float64{}
	expenseByMonth := map[string]float64{}
	keySet := map[string]struct{}{}
	for _, r := range incomes {
		k := monthKey(r.Date)
		incomeByMonth[k] += r.Amount
		keySet[k] = struct{}{}
	}
	for _, r := range expenses {
		k := monthKey(r.Date)
		expenseByMonth[k] += r.Amount
		keySet[k] = struct{}{}
	}
	keys := make([]string, 0, len(keySet))
	for k := range keySet {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	series := &MonthlySeries{
		Labels:   make([]string, 0, len(keys)),
		Income:   make([]float64, 0, len(keys)),
		Expenses: make([]float64, 0, len(keys)),
	}
	for _, k := range keys {
		series.Labels = append(series.Labels, monthLabel(k))
		series.Income = append(series.Income, incomeByMonth[k])
		series.Expenses = append(series.Expenses, expenseByMonth[k])
	}
	return series
}

// CategoryBreakdown is the pie-chart payload: parallel category/amount
// arrays in the grouping order returned by the store.
type CategoryBreakdown struct {
	Categories []string  `json:"categories"`
	Amounts    []float64 `json:"amounts"`
}

// GetCategoryBreakdown sums a user's expenses per category label.
func GetCategoryBreakdown(gdb *gorm.DB, userID uint) (*CategoryBreakdown, error) {
	rows, err := gdb.Model(&models.Expense{}).Where("user_id = ?", userID).
		Select("category, SUM(amount) as total").Group("category").Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	breakdown := &CategoryBreakdown{Categories: []string{}, Amounts: []float64{}}
	for rows.Next() {
		var category string
		var total float64
		if err := rows.Scan(&category, &total); err != nil {
			return nil, err
		}
		breakdown.Categories = append(breakdown.Categories, category)
		breakdown.Amounts = append(breakdown.Amounts, total)
	}
	return breakdown, rows.Err()
}
