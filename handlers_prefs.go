package main

import (
	"net/http"

	"budgethub/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"
)

// Per-user display preferences. One row per user, fetched fresh per
// request; writes upsert on the user_id key.

func getCurrencyHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		return
	}
	var pref models.CurrencyPreference
	if err := db.Where("user_id = ?", user.ID).First(&pref).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Currency not set for this user."})
		return
	}
	c.JSON(http.StatusOK, pref)
}

func setCurrencyHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		return
	}
	var req struct {
		Currency string `json:"currency" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Currency is required."})
		return
	}
	pref := models.CurrencyPreference{UserID: user.ID, Currency: req.Currency}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"currency", "updated_at"}),
	}).Create(&pref).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error."})
		return
	}
	c.JSON(http.StatusOK, pref)
}

func getThemeHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		return
	}
	var pref models.ThemePreference
	if err := db.Where("user_id = ?", user.ID).First(&pref).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Theme not set for this user."})
		return
	}
	c.JSON(http.StatusOK, pref)
}

func setThemeHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		return
	}
	var req struct {
		Theme string `json:"theme" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Theme is required."})
		return
	}
	if req.Theme != "light" && req.Theme != "dark" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Theme must be light or dark."})
		return
	}
	pref := models.ThemePreference{UserID: user.ID, Theme: req.Theme}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"theme", "updated_at"}),
	}).Create(&pref).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error."})
		return
	}
	c.JSON(http.StatusOK, pref)
}
