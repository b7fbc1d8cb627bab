package main

import (
	"errors"
	"math"
	"time"

	"budgethub/models"

	"gorm.io/gorm"
)

// Ledger CRUD for budgets, expenses, and incomes. Every single-entity
// operation looks the row up first (404 beats 403) and then runs the
// ownership guard. Owner ids are always taken from the verified identity,
// never from request payloads.

const defaultBudgetEmoji = "\U0001F4B0" // 💰

func validAmount(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

// CreateBudget validates and stores a budget owned by userID.
func CreateBudget(gdb *gorm.DB, userID uint, name string, amount float64, emoji string) (*models.Budget, error) {
	if name == "" {
		return nil, validationError("name is required")
	}
	if !validAmount(amount) {
		return nil, validationError("amount must be a positive number")
	}
	if emoji == "" {
		emoji = defaultBudgetEmoji
	}
	b := models.Budget{UserID: userID, Name: name, Amount: amount, Emoji: emoji}
	if err := gdb.Create(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// ListBudgets returns all budgets owned by userID with expenses attached.
func ListBudgets(gdb *gorm.DB, userID uint) ([]models.Budget, error) {
	budgets := []models.Budget{}
	err := gdb.Preload("Expenses").Where("user_id = ?", userID).Find(&budgets).Error
	return budgets, err
}

// GetBudget returns one budget with its expenses, ownership-checked.
func GetBudget(gdb *gorm.DB, userID, budgetID uint) (*models.Budget, error) {
	var b models.Budget
	if err := gdb.Preload("Expenses").First(&b, budgetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("budget")
		}
		return nil, err
	}
	if err := requireOwner(b.UserID, userID); err != nil {
		return nil, err
	}
	return &b, nil
}

// EditBudget applies a partial update; zero-value fields keep the prior
// value. Amount is re-validated when supplied.
func EditBudget(gdb *gorm.DB, userID, budgetID uint, name string, amount *float64, emoji string) (*models.Budget, error) {
	var b models.Budget
	if err := gdb.First(&b, budgetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("budget")
		}
		return nil, err
	}
	if err := requireOwner(b.UserID, userID); err != nil {
		return nil, err
	}
	if name != "" {
		b.Name = name
	}
	if amount != nil {
		if !validAmount(*amount) {
			return nil, validationError("amount must be a positive number")
		}
		b.Amount = *amount
	}
	if emoji != "" {
		b.Emoji = emoji
	}
	if err := gdb.Save(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// DeleteBudget removes the budget and every expense linked to it in one
// transaction. Children go first so a failure never strands orphans.
func DeleteBudget(gdb *gorm.DB, userID, budgetID uint) error {
	var b models.Budget
	if err := gdb.First(&b, budgetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundError("budget")
		}
		return err
	}
	if err := requireOwner(b.UserID, userID); err != nil {
		return err
	}
	return gdb.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("budget_id = ?", budgetID).Delete(&models.Expense{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Budget{}, budgetID).Error
	})
}

// AddExpenseToBudget creates an expense inside a budget the caller owns.
// Owner and budget reference come from the verified identity and the path,
// whatever the payload claims.
func AddExpenseToBudget(gdb *gorm.DB, userID, budgetID uint, description string, amount float64, date time.Time, category string) (*models.Expense, error) {
	var b models.Budget
	if err := gdb.First(&b, budgetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("budget")
		}
		return nil, err
	}
	if err := requireOwner(b.UserID, userID); err != nil {
		return nil, err
	}
	e, err := newExpense(userID, description, amount, date, category)
	if err != nil {
		return nil, err
	}
	e.BudgetID = &budgetID
	if err := gdb.Create(e).Error; err != nil {
		return nil, err
	}
	return e, nil
}

// CreateExpense creates a standalone expense (no budget link).
func CreateExpense(gdb *gorm.DB, userID uint, description string, amount float64, date time.Time, category string) (*models.Expense, error) {
	e, err := newExpense(userID, description, amount, date, category)
	if err != nil {
		return nil, err
	}
	if err := gdb.Create(e).Error; err != nil {
		return nil, err
	}
	return e, nil
}

func newExpense(userID uint, description string, amount float64, date time.Time, category string) (*models.Expense, error) {
	if description == "" {
		return nil, validationError("description is required")
	}
	if !validAmount(amount) {
		return nil, validationError("amount must be a positive number")
	}
	if category == "" {
		return nil, validationError("category is required")
	}
	if date.IsZero() {
		return nil, validationError("date is required")
	}
	return &models.Expense{
		UserID:      userID,
		Description: description,
		Amount:      amount,
		Date:        date,
		Category:    category,
	}, nil
}

// ExpenseFilter narrows ListExpenses. Unset fields are not applied; the
// date range is inclusive on both ends.
type ExpenseFilter struct {
	BudgetID *uint
	Category string
	DateFrom *time.Time
	DateTo   *time.Time
}

// ListExpenses returns the caller's expenses matching every supplied
// filter, with the owning budget preloaded.
func ListExpenses(gdb *gorm.DB, userID uint, f ExpenseFilter) ([]models.Expense, error) {
	expenses := []models.Expense{}
	q := gdb.Preload("Budget").Where("user_id = ?", userID)
	if f.BudgetID != nil {
		q = q.Where("budget_id = ?", *f.BudgetID)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.DateFrom != nil {
		q = q.Where("date >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		q = q.Where("date <= ?", *f.DateTo)
	}
	err := q.Find(&expenses).Error
	return expenses, err
}

// DeleteExpense removes one expense ("delete transaction"), linked to a
// budget or not.
func DeleteExpense(gdb *gorm.DB, userID, expenseID uint) error {
	var e models.Expense
	if err := gdb.First(&e, expenseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundError("expense")
		}
		return err
	}
	if err := requireOwner(e.UserID, userID); err != nil {
		return err
	}
	return gdb.Delete(&models.Expense{}, expenseID).Error
}

// CreateIncome validates and stores an income record.
func CreateIncome(gdb *gorm.DB, userID uint, source, category string, amount float64, date time.Time) (*models.Income, error) {
	if source == "" {
		return nil, validationError("source is required")
	}
	if category == "" {
		return nil, validationError("category is required")
	}
	if !validAmount(amount) {
		return nil, validationError("amount must be a positive number")
	}
	if date.IsZero() {
		return nil, validationError("date is required")
	}
	in := models.Income{UserID: userID, Source: source, Category: category, Amount: amount, Date: date}
	if err := gdb.Create(&in).Error; err != nil {
		return nil, err
	}
	return &in, nil
}

// ListIncomes returns all incomes owned by userID.
func ListIncomes(gdb *gorm.DB, userID uint) ([]models.Income, error) {
	incomes := []models.Income{}
	err := gdb.Where("user_id = ?", userID).Find(&incomes).Error
	return incomes, err
}

// UpdateIncome replaces the mutable fields of an income, ownership-checked.
func UpdateIncome(gdb *gorm.DB, userID, incomeID uint, source, category string, amount float64, date time.Time) (*models.Income, error) {
	var in models.Income
	if err := gdb.First(&in, incomeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("income")
		}
		return nil, err
	}
	if err := requireOwner(in.UserID, userID); err != nil {
		return nil, err
	}
	if source == "" {
		return nil, validationError("source is required")
	}
	if category == "" {
		return nil, validationError("category is required")
	}
	if !validAmount(amount) {
		return nil, validationError("amount must be a positive number")
	}
	if date.IsZero() {
		return nil, validationError("date is required")
	}
	in.Source = source
	in.Category = category
	in.Amount = amount
	in.Date = date
	if err := gdb.Save(&in).Error; err != nil {
		return nil, err
	}
	return &in, nil
}

// DeleteIncome removes one income record, ownership-checked.
func DeleteIncome(gdb *gorm.DB, userID, incomeID uint) error {
	var in models.Income
	if err := gdb.First(&in, incomeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundError("income")
		}
		return err
	}
	if err := requireOwner(in.UserID, userID); err != nil {
		return err
	}
	return gdb.Delete(&models.Income{}, incomeID).Error
}
