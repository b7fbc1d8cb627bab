package main

import (
	"net/http"
	"strings"

	"budgethub/pkg/exchange"

	"github.com/gin-gonic/gin"
)

// Chart endpoints accept ?currency=CODE to render amounts in a display
// currency. One rate snapshot is fetched per response so every figure in it
// is converted consistently. A rate-service outage degrades to base-currency
// amounts plus a warning instead of failing the request.

type displayConversion struct {
	to    string
	rates exchange.Rates
}

// newDisplayConversion resolves the requested display currency. Returns a
// nil conversion when none is needed, a warning when rates are down, or
// writes a 400 (and returns ok=false) for an unknown code.
func newDisplayConversion(c *gin.Context) (conv *displayConversion, warning string, ok bool) {
	code := strings.ToUpper(strings.TrimSpace(c.Query("currency")))
	if code == "" || code == baseCurrency {
		return nil, "", true
	}
	rates, err := rateProvider.Rates(baseCurrency)
	if err != nil {
		return nil, "conversion unavailable, amounts shown in " + baseCurrency, true
	}
	if _, known := rates[code]; !known {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown currency code: " + code})
		return nil, "", false
	}
	return &displayConversion{to: code, rates: rates}, "", true
}

// amount converts one stored base-currency amount for display. Rounding
// happens only here, never on intermediate values.
func (d *displayConversion) amount(v float64) float64 {
	if d == nil {
		return v
	}
	out, err := exchange.Convert(v, baseCurrency, d.to, d.rates)
	if err != nil {
		return v
	}
	return exchange.Round2(out)
}

func (d *displayConversion) amounts(vs []float64) []float64 {
	if d == nil {
		return vs
	}
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = d.amount(v)
	}
	return out
}

func summaryHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		return
	}
	summary, err := GetSummary(db, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch summary data"})
		return
	}
	conv, warning, ok := newDisplayConversion(c)
	if !ok {
		return
	}
	summary.TotalIncome = conv.amount(summary.TotalIncome)
	summary.TotalExpenses = conv.amount(summary.TotalExpenses)
	summary.Balance = conv.amount(summary.Balance)
	summary.BudgetUtilization.Used = conv.amount(summary.BudgetUtilization.Used)
	summary.BudgetUtilization.Total = conv.amount(summary.BudgetUtilization.Total)
	if warning != "" {
		c.JSON(http.StatusOK, gin.H{
			"totalIncome":       summary.TotalIncome,
			"totalExpenses":     summary.TotalExpenses,
			"balance":           summary.Balance,
			"budgetUtilization": summary.BudgetUtilization,
			"warning":           warning,
		})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func chartDataHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		return
	}
	series, err := GetMonthlySeries(db, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch chart data"})
		return
	}
	conv, warning, ok := newDisplayConversion(c)
	if !ok {
		return
	}
	resp := gin.H{
		"labels":   series.Labels,
		"income":   conv.amounts(series.Income),
		"expenses": conv.amounts(series.Expenses),
	}
	if warning != "" {
		resp["warning"] = warning
	}
	c.JSON(http.StatusOK, resp)
}

func pieChartDataHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		return
	}
	breakdown, err := GetCategoryBreakdown(db, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pie chart data"})
		return
	}
	conv, warning, ok := newDisplayConversion(c)
	if !ok {
		return
	}
	resp := gin.H{
		"categories": breakdown.Categories,
		"amounts":    conv.amounts(breakdown.Amounts),
	}
	if warning != "" {
		resp["warning"] = warning
	}
	c.JSON(http.StatusOK, resp)
}
