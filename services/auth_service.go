package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Pradhyumna23/Nourish-AI/config"
	"github.com/Pradhyumna23/Nourish-AI/models"
	"github.com/Pradhyumna23/Nourish-AI/utils"
)

func RegisterUser(email, password, firstName, lastName string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("a valid email is required: %w", ErrValidation)
	}
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters: %w", ErrValidation)
	}

	var existing models.User
	if err := config.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		return fmt.Errorf("email already registered: %w", ErrValidation)
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	user := models.User{
		Email:     email,
		Password:  hashedPassword,
		FirstName: firstName,
		LastName:  lastName,
	}
	return config.DB.Create(&user).Error
}

// AuthenticateUser verifies credentials. When MFA is enabled a code is
// emailed and the caller must follow up with VerifyMFA; no token is issued
// yet.
func AuthenticateUser(email, password string) (token string, mfaRequired bool, err error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	result := config.DB.Where("email = ? AND disabled = ?", email, false).First(&user)
	if result.Error != nil {
		return "", false, errors.New("user not found or disabled")
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		return "", false, errors.New("incorrect password")
	}

	if user.MFAEnabled {
		code := utils.GenerateRandomToken(6)
		user.MFACode = code
		if err := config.DB.Save(&user).Error; err != nil {
			return "", false, err
		}
		if err := utils.SendMFAEmail(user.Email, code); err != nil {
			return "", false, fmt.Errorf("failed to send MFA code: %w", err)
		}
		return "", true, nil
	}

	token, err = utils.GenerateJWT(user.ID, user.Email)
	if err != nil {
		return "", false, err
	}
	return token, false, nil
}

// VerifyMFA exchanges a valid emailed code for a JWT. The code is single
// use.
func VerifyMFA(email, code string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	result := config.DB.Where("email = ? AND disabled = ?", email, false).First(&user)
	if result.Error != nil {
		return "", errors.New("user not found or disabled")
	}

	if user.MFACode == "" || user.MFACode != code {
		return "", errors.New("invalid MFA code")
	}

	user.MFACode = ""
	if err := config.DB.Save(&user).Error; err != nil {
		return "", err
	}
	return utils.GenerateJWT(user.ID, user.Email)
}

// RequestPasswordReset emails a reset token valid for one hour. It reports
// success for unknown emails so the endpoint cannot be used to probe
// accounts.
func RequestPasswordReset(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	if err := config.DB.Where("email = ? AND disabled = ?", email, false).First(&user).Error; err != nil {
		return nil
	}

	token := uuid.NewString()
	user.ResetToken = token
	user.ResetTokenExp = time.Now().Add(time.Hour)
	if err := config.DB.Save(&user).Error; err != nil {
		return err
	}
	return utils.SendResetEmail(user.Email, token)
}

// ResetPassword sets a new password given an unexpired reset token.
func ResetPassword(token, newPassword string) error {
	if len(newPassword) < 8 {
		return fmt.Errorf("password must be at least 8 characters: %w", ErrValidation)
	}

	var user models.User
	result := config.DB.Where("reset_token = ? AND reset_token_exp > ?", token, time.Now()).First(&user)
	if result.Error != nil {
		return fmt.Errorf("invalid or expired reset token: %w", ErrValidation)
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.Password = hashed
	user.ResetToken = ""
	user.ResetTokenExp = time.Time{}
	return config.DB.Save(&user).Error
}
