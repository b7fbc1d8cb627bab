package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// guestLoginHandler provisions a throwaway account and issues a short-lived
// token. Guests get no refresh token; their session is meant to expire.
func guestLoginHandler(c *gin.Context) {
	user, err := ProvisionGuest(db)
	if err != nil {
		respondError(c, err)
		return
	}
	token, err := issueAccessToken(user, guestTokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "userId": user.ID, "username": user.Username})
}

// guestLogoutHandler ends a session. For guests this purges the account and
// everything it owns; for regular users it is a plain logout.
func guestLogoutHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		return
	}
	purged, err := EndGuestSession(db, user)
	if err != nil {
		respondError(c, err)
		return
	}
	if purged {
		c.JSON(http.StatusOK, gin.H{"message": "Guest session ended. Data deleted."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully."})
}
