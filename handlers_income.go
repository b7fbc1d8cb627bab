package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type incomeRequest struct {
	Source   string  `json:"source" binding:"required"`
	Category string  `json:"category" binding:"required"`
	Amount   float64 `json:"amount" binding:"required"`
	Date     string  `json:"date" binding:"required"`
}

func createIncomeHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		return
	}
	var req incomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to add income"})
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}
	income, err := CreateIncome(db, user.ID, req.Source, req.Category, req.Amount, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, income)
}

func listIncomesHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		return
	}
	incomes, err := ListIncomes(db, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch incomes"})
		return
	}
	c.JSON(http.StatusOK, incomes)
}

func updateIncomeHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req incomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}
	income, err := UpdateIncome(db, user.ID, id, req.Source, req.Category, req.Amount, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, income)
}

func deleteIncomeHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := DeleteIncome(db, user.ID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Income deleted successfully"})
}
