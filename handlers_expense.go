package main

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"budgethub/pkg/receipt"

	"github.com/gin-gonic/gin"
)

// createExpenseHandler creates a standalone expense. The route used to
// accept a caller-supplied owner id without authentication; it now sits
// behind the JWT middleware and the owner is always the acting user.
func createExpenseHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		return
	}
	var req struct {
		Description string  `json:"description" binding:"required"`
		Amount      float64 `json:"amount" binding:"required"`
		Date        string  `json:"date" binding:"required"`
		Category    string  `json:"category" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}
	expense, err := CreateExpense(db, user.ID, req.Description, req.Amount, date, req.Category)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

func listExpensesHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		return
	}
	var f ExpenseFilter
	if v := c.Query("budgetId"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid budgetId"})
			return
		}
		bid := uint(id)
		f.BudgetID = &bid
	}
	f.Category = c.Query("category")
	if v := c.Query("dateFrom"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dateFrom"})
			return
		}
		f.DateFrom = &t
	}
	if v := c.Query("dateTo"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dateTo"})
			return
		}
		f.DateTo = &t
	}
	expenses, err := ListExpenses(db, user.ID, f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusOK, expenses)
}

// listExpensesByUserHandler keeps the legacy /expense/:userId shape; the
// path id must match the token's.
func listExpensesByUserHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		return
	}
	id, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	if uint(id) != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized access"})
		return
	}
	expenses, err := ListExpenses(db, user.ID, ExpenseFilter{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusOK, expenses)
}

func deleteTransactionHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := DeleteExpense(db, user.ID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}

// scanReceiptHandler OCRs an uploaded receipt image and records the
// detected total as an expense for the acting user.
func scanReceiptHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file missing"})
		return
	}
	if file.Size > 10*1024*1024 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large (max 10MB)"})
		return
	}
	dir := filepath.Join(uploadBaseDir(), "receipts")
	if err := os.MkdirAll(dir, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "mkdir failed"})
		return
	}
	full := filepath.Join(dir, filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, full); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	amount, err := receipt.ExtractAmount(full)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "no amount detected on receipt"})
		return
	}

	description := c.PostForm("description")
	if description == "" {
		description = file.Filename
	}
	category := c.PostForm("category")
	if category == "" {
		category = "Receipt"
	}
	date := time.Now().UTC()
	if v := c.PostForm("date"); v != "" {
		if t, perr := parseDate(v); perr == nil {
			date = t
		}
	}
	expense, err := CreateExpense(db, user.ID, description, amount, date, category)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, expense)
}
