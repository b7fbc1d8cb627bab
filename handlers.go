package main

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"time"

	"budgethub/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	sessionTokenTTL = 7 * 24 * time.Hour
	guestTokenTTL   = time.Hour
	refreshTokenTTL = 30 * 24 * time.Hour
)

func setupRoutes(r *gin.Engine) {
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Expense Tracker Backend is Running!")
	})
	r.Static("/public", uploadBaseDir())

	auth := r.Group("/auth")
	auth.POST("/register", registerHandler)
	auth.POST("/login", loginHandler)
	auth.POST("/refresh", refreshHandler)
	auth.POST("/revoke", revokeRefreshHandler)
	authed := auth.Group("")
	authed.Use(jwtAuthMiddleware())
	authed.POST("/logout", logoutHandler)
	authed.GET("/users/:id", getUserHandler)
	authed.PUT("/users/:id", updateUserHandler)
	authed.PUT("/users/:id/password", changePasswordHandler)
	authed.DELETE("/users/:id", deleteAccountHandler)
	authed.POST("/users/:id/avatar", uploadAvatarHandler)

	guest := r.Group("/guest")
	guest.POST("/guest-login", guestLoginHandler)
	guest.DELETE("/logout", jwtAuthMiddleware(), guestLogoutHandler)

	budget := r.Group("/budget", jwtAuthMiddleware())
	budget.POST("", createBudgetHandler)
	budget.GET("", listBudgetsHandler)
	budget.GET("/:id", getBudgetHandler)
	budget.PUT("/:id/edit", editBudgetHandler)
	budget.DELETE("/:id", deleteBudgetHandler)
	budget.POST("/:id/expense", addExpenseToBudgetHandler)

	expense := r.Group("/expense", jwtAuthMiddleware())
	expense.POST("", createExpenseHandler)
	expense.GET("", listExpensesHandler)
	expense.GET("/:userId", listExpensesByUserHandler)
	expense.POST("/scan", scanReceiptHandler)

	r.DELETE("/transaction/:id", jwtAuthMiddleware(), deleteTransactionHandler)

	income := r.Group("/income", jwtAuthMiddleware())
	income.POST("", createIncomeHandler)
	income.GET("", listIncomesHandler)
	income.PUT("/:id", updateIncomeHandler)
	income.DELETE("/:id", deleteIncomeHandler)

	currency := r.Group("/currency", jwtAuthMiddleware())
	currency.GET("", getCurrencyHandler)
	currency.PUT("", setCurrencyHandler)

	theme := r.Group("/theme", jwtAuthMiddleware())
	theme.GET("", getThemeHandler)
	theme.PUT("", setThemeHandler)

	chart := r.Group("/chart", jwtAuthMiddleware())
	chart.GET("/summary", summaryHandler)
	chart.GET("/chart-data", chartDataHandler)
	chart.GET("/pie-chart-data", pieChartDataHandler)
}

// jwtAuthMiddleware resolves the acting user id from the Bearer token. The
// id in the signed claims is the only owner identity handlers ever use.
func jwtAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || len(authHeader) < 8 || authHeader[:7] != "Bearer " {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
			c.Abort()
			return
		}
		tokenString := authHeader[7:]
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrInvalidKeyType
			}
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			c.Abort()
			return
		}
		idVal, ok := claims["userId"].(float64)
		if !ok || idVal <= 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			c.Abort()
			return
		}
		c.Set("userId", uint(idVal))
		c.Next()
	}
}

// getUserFromContext fetches the authenticated user row using the id set by
// jwtAuthMiddleware. A valid token whose user was deleted (ended guest
// session, deleted account) yields 404.
func getUserFromContext(c *gin.Context) (*models.User, bool) {
	idVal, exists := c.Get("userId")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
		return nil, false
	}
	userID := idVal.(uint)
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return nil, false
	}
	return &user, true
}

// issueAccessToken signs a JWT for the user. Guest tokens expire much
// sooner than regular sessions.
func issueAccessToken(user *models.User, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId":  user.ID,
		"isGuest": user.IsGuest,
		"exp":     time.Now().Add(ttl).Unix(),
	})
	return token.SignedString(jwtSecret)
}

// createAndStoreRefreshToken generates a random refresh token, stores its hash with expiry and returns the raw token string
func createAndStoreRefreshToken(userID uint) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	token := hex.EncodeToString(b)
	h := sha256.Sum256([]byte(token))
	rt := models.RefreshToken{UserID: userID, TokenHash: hex.EncodeToString(h[:]), ExpiresAt: time.Now().Add(refreshTokenTTL)}
	if err := db.Create(&rt).Error; err != nil {
		return "", err
	}
	return token, nil
}

func findRefreshTokenByRaw(token string) (*models.RefreshToken, error) {
	h := sha256.Sum256([]byte(token))
	th := hex.EncodeToString(h[:])
	var rt models.RefreshToken
	if err := db.Where("token_hash = ?", th).First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

// refreshHandler exchanges a refresh token for a new access token and rotates the refresh token
func refreshHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rt, err := findRefreshTokenByRaw(req.RefreshToken)
	if err != nil || rt.Revoked || time.Now().After(rt.ExpiresAt) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token"})
		return
	}
	var user models.User
	if err := db.First(&user, rt.UserID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	tokenString, err := issueAccessToken(&user, sessionTokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	// rotate: revoke the presented token before minting its replacement
	db.Model(&models.RefreshToken{}).Where("id = ?", rt.ID).Update("revoked", true)
	newRT, err := createAndStoreRefreshToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to rotate refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tokenString, "refresh_token": newRT})
}

// revokeRefreshHandler revokes a given refresh token (useful on logout)
func revokeRefreshHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rt, err := findRefreshTokenByRaw(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "refresh token not found"})
		return
	}
	rt.Revoked = true
	if err := db.Save(rt).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to revoke token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "refresh token revoked"})
}
