package main

import (
	"fmt"
	"math/rand"
	"net/url"
	"strings"

	"budgethub/models"

	"golang.org/x/crypto/bcrypt"

	"gorm.io/gorm"
)

// Account lifecycle helpers. Kept in the root package so handlers can call
// them directly; every function takes the *gorm.DB so tests can supply
// their own connection.

const baseCurrency = "INR"

// RegisterUser creates a user plus its default currency and theme
// preferences. Username and email must both be unused.
func RegisterUser(gdb *gorm.DB, username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" {
		return nil, validationError("username required")
	}
	if email == "" {
		return nil, validationError("email required")
	}
	if len(password) < 6 {
		return nil, validationError("password too short (min 6)")
	}
	// pre-check existing (optimistic)
	var existing models.User
	if err := gdb.Where("username = ?", username).First(&existing).Error; err == nil {
		return nil, conflictError("username is not available")
	}
	if err := gdb.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, conflictError("email already exists")
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := models.User{
		Username:       username,
		Email:          &email,
		HashedPassword: hashedPassword,
		ProfilePicture: avatarURL(username),
	}
	err = gdb.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			if isUniqueConstraintError(err) { // race condition after initial check
				return conflictError("username or email already exists")
			}
			return err
		}
		if err := tx.Create(&models.CurrencyPreference{UserID: user.ID, Currency: baseCurrency}).Error; err != nil {
			return err
		}
		return tx.Create(&models.ThemePreference{UserID: user.ID, Theme: "light"}).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Authenticate verifies a username/password pair. Unknown user and wrong
// password are indistinguishable to the caller.
func Authenticate(gdb *gorm.DB, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	var user models.User
	if err := gdb.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, ErrUnauthorized
	}
	if len(user.HashedPassword) == 0 {
		// guest accounts have no usable credential
		return nil, ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword(user.HashedPassword, []byte(password)); err != nil {
		return nil, ErrUnauthorized
	}
	return &user, nil
}

// ChangePassword swaps the stored credential after re-verifying the old one.
func ChangePassword(gdb *gorm.DB, user *models.User, oldPassword, newPassword string) error {
	if err := bcrypt.CompareHashAndPassword(user.HashedPassword, []byte(oldPassword)); err != nil {
		return ErrUnauthorized
	}
	if len(newPassword) < 6 {
		return validationError("new password too short (min 6)")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return gdb.Model(&models.User{}).Where("id = ?", user.ID).Update("hashed_password", hashed).Error
}

// UpdateProfile changes username/email, keeping both unique across other
// users. Empty fields keep their prior value.
func UpdateProfile(gdb *gorm.DB, user *models.User, username, email string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" {
		username = user.Username
	}
	var clash models.User
	q := gdb.Where("id <> ?", user.ID)
	if email != "" {
		q = q.Where("username = ? OR email = ?", username, email)
	} else {
		q = q.Where("username = ?", username)
	}
	if err := q.First(&clash).Error; err == nil {
		return nil, conflictError("username or email already exists")
	}
	updates := map[string]any{"username": username}
	if email != "" {
		updates["email"] = email
	}
	if err := gdb.Model(&models.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, conflictError("username or email already exists")
		}
		return nil, err
	}
	var updated models.User
	if err := gdb.First(&updated, user.ID).Error; err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteAccount verifies the credential (non-guest only) and purges the
// user with everything it owns in a single transaction.
func DeleteAccount(gdb *gorm.DB, user *models.User, confirmPassword string) error {
	if !user.IsGuest {
		if err := bcrypt.CompareHashAndPassword(user.HashedPassword, []byte(confirmPassword)); err != nil {
			return ErrUnauthorized
		}
	}
	return purgeUser(gdb, user.ID)
}

// ProvisionGuest creates a throwaway user with a generated name, no email
// and no usable credential.
func ProvisionGuest(gdb *gorm.DB) (*models.User, error) {
	var user models.User
	for attempt := 0; attempt < 5; attempt++ {
		name := fmt.Sprintf("Guest_%d", 1000+rand.Intn(9000))
		user = models.User{
			Username:       name,
			IsGuest:        true,
			ProfilePicture: avatarURL(name),
		}
		err := gdb.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			if err := tx.Create(&models.CurrencyPreference{UserID: user.ID, Currency: baseCurrency}).Error; err != nil {
				return err
			}
			return tx.Create(&models.ThemePreference{UserID: user.ID, Theme: "light"}).Error
		})
		if err == nil {
			return &user, nil
		}
		if !isUniqueConstraintError(err) {
			return nil, err
		}
	}
	return nil, conflictError("could not allocate a guest username")
}

// EndGuestSession purges a guest account and all its data. For regular
// accounts it is a no-op logout.
func EndGuestSession(gdb *gorm.DB, user *models.User) (purged bool, err error) {
	if !user.IsGuest {
		return false, nil
	}
	return true, purgeUser(gdb, user.ID)
}

// purgeUser deletes everything owned by a user, children before parents,
// inside one transaction. A mid-sequence failure aborts the whole purge.
func purgeUser(gdb *gorm.DB, userID uint) error {
	return gdb.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.Expense{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Income{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Budget{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.CurrencyPreference{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.ThemePreference{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, userID).Error
	})
}

// avatarURL builds the generated avatar image reference used as the
// default profile picture.
func avatarURL(username string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(username) + "&background=random&color=fff"
}

// isUniqueConstraintError detects duplicate-key failures without tying the
// check to one driver's error type.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint") || strings.Contains(s, "already exists")
}
