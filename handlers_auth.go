package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"budgethub/models"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
)

func registerHandler(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := RegisterUser(db, req.Username, req.Email, req.Password); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User registered successfully!"})
}

func loginHandler(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := Authenticate(db, req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	tokenString, err := issueAccessToken(user, sessionTokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	refreshToken, err := createAndStoreRefreshToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":         tokenString,
		"refresh_token": refreshToken,
		"userId":        user.ID,
		"username":      user.Username,
		"email":         user.Email,
	})
}

func logoutHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// pathUserID enforces that the :id path parameter matches the acting user.
// Operating on someone else's account is forbidden regardless of whether
// that account exists.
func pathUserID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return 0, false
	}
	actingVal, _ := c.Get("userId")
	acting, _ := actingVal.(uint)
	if uint(id) != acting {
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized access"})
		return 0, false
	}
	return uint(id), true
}

func getUserHandler(c *gin.Context) {
	if _, ok := pathUserID(c); !ok {
		return
	}
	user, ok := getUserFromContext(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, user)
}

func updateUserHandler(c *gin.Context) {
	if _, ok := pathUserID(c); !ok {
		return
	}
	user, ok := getUserFromContext(c)
	if !ok {
		return
	}
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updated, err := UpdateProfile(db, user, req.Username, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func changePasswordHandler(c *gin.Context) {
	if _, ok := pathUserID(c); !ok {
		return
	}
	user, ok := getUserFromContext(c)
	if !ok {
		return
	}
	var req struct {
		OldPassword string `json:"oldPassword" binding:"required"`
		NewPassword string `json:"newPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := ChangePassword(db, user, req.OldPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully!"})
}

func deleteAccountHandler(c *gin.Context) {
	if _, ok := pathUserID(c); !ok {
		return
	}
	user, ok := getUserFromContext(c)
	if !ok {
		return
	}
	var req struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := DeleteAccount(db, user, req.Password); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account and all related data deleted successfully!"})
}

// uploadAvatarHandler accepts a profile image, normalizes it to a 256x256
// JPEG, and points the user's profile picture at the stored copy.
func uploadAvatarHandler(c *gin.Context) {
	if _, ok := pathUserID(c); !ok {
		return
	}
	user, ok := getUserFromContext(c)
	if !ok {
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file missing"})
		return
	}
	if file.Size > 5*1024*1024 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large (max 5MB)"})
		return
	}
	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read file"})
		return
	}
	defer src.Close()
	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported image"})
		return
	}
	thumb := imaging.Fill(img, 256, 256, imaging.Center, imaging.Lanczos)

	dir := filepath.Join(uploadBaseDir(), "avatars")
	if err := os.MkdirAll(dir, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "mkdir failed"})
		return
	}
	name := fmt.Sprintf("user_%d.jpg", user.ID)
	if err := imaging.Save(thumb, filepath.Join(dir, name), imaging.JPEGQuality(85)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	storePath := "public/avatars/" + name
	if err := db.Model(&models.User{}).Where("id = ?", user.ID).Update("profile_picture", storePath).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db save failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"profilePicture": storePath})
}
