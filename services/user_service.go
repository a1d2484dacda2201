package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Pradhyumna23/Nourish-AI/config"
	"github.com/Pradhyumna23/Nourish-AI/models"
	"github.com/Pradhyumna23/Nourish-AI/utils"
)

type ProfileInput struct {
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	Birthday      string  `json:"birthday"` // sent as YYYY-MM-DD
	Sex           string  `json:"sex"`
	HeightCm      float64 `json:"height_cm"`
	WeightKg      float64 `json:"weight_kg"`
	ActivityLevel string  `json:"activity_level"`
	PrimaryGoal   string  `json:"primary_goal"`
	Allergies     string  `json:"allergies"` // comma-separated

	ProfilePicture string `json:"profile_picture"` // base64
	MFAEnabled     *bool  `json:"mfa_enabled"`
}

type ConditionInput struct {
	Name     string `json:"name"`
	Severity string `json:"severity"`
}

type RestrictionInput struct {
	Type       string `json:"type"`
	Strictness string `json:"strictness"`
}

type OnboardingInput struct {
	Birthday            string             `json:"birthday"`
	Sex                 string             `json:"sex"`
	HeightCm            float64            `json:"height_cm"`
	WeightKg            float64            `json:"weight_kg"`
	ActivityLevel       string             `json:"activity_level"`
	PrimaryGoal         string             `json:"primary_goal"`
	HealthConditions    []ConditionInput   `json:"health_conditions"`
	DietaryRestrictions []RestrictionInput `json:"dietary_restrictions"`
	Allergies           []string           `json:"allergies"`
	ProfilePicture      string             `json:"profile_picture"`
	MFAEnabled          bool               `json:"mfa_enabled"`
}

func findActiveUser(userID uint) (*models.User, error) {
	var user models.User
	err := config.DB.Preload("HealthConditions").Preload("DietaryRestrictions").
		Where("id = ? AND disabled = ?", userID, false).First(&user).Error
	if err != nil {
		return nil, errors.New("user not found or disabled")
	}
	return &user, nil
}

func GetUserProfile(userID uint) (map[string]interface{}, error) {
	user, err := findActiveUser(userID)
	if err != nil {
		return nil, err
	}

	age := 0
	if !user.Birthday.IsZero() {
		age = utils.CalculateAge(user.Birthday)
	}

	profile := map[string]interface{}{
		"id":                   user.ID,
		"email":                user.Email,
		"first_name":           user.FirstName,
		"last_name":            user.LastName,
		"birthday":             user.Birthday.Format("2006-01-02"),
		"age":                  age,
		"sex":                  user.Sex,
		"height_cm":            user.HeightCm,
		"weight_kg":            user.WeightKg,
		"activity_level":       user.ActivityLevel,
		"primary_goal":         user.PrimaryGoal,
		"health_conditions":    user.HealthConditions,
		"dietary_restrictions": user.DietaryRestrictions,
		"allergies":            user.AllergyList(),
		"profile_picture":      user.ProfilePicture,
		"mfa_enabled":          user.MFAEnabled,
		"onboarded":            user.Onboarded,
	}

	if bmi, err := utils.CalculateBMI(user.HeightCm, user.WeightKg); err == nil {
		profile["bmi"] = bmi
		profile["bmi_category"] = utils.BMICategory(bmi)
	}
	return profile, nil
}

// UpdateUserProfile applies partial profile changes. Any change to a field
// the target calculation depends on triggers a recompute.
func UpdateUserProfile(userID uint, input ProfileInput) error {
	user, err := findActiveUser(userID)
	if err != nil {
		return err
	}

	targetsDirty := false

	if input.FirstName != "" {
		user.FirstName = input.FirstName
	}
	if input.LastName != "" {
		user.LastName = input.LastName
	}
	if input.Birthday != "" {
		if birthday, err := time.Parse("2006-01-02", input.Birthday); err == nil {
			user.Birthday = birthday
			targetsDirty = true
		}
	}
	if input.Sex != "" {
		user.Sex = models.Sex(strings.ToLower(input.Sex))
		targetsDirty = true
	}
	if input.HeightCm > 0 {
		user.HeightCm = input.HeightCm
		targetsDirty = true
	}
	if input.WeightKg > 0 {
		user.WeightKg = input.WeightKg
		targetsDirty = true
	}
	if input.ActivityLevel != "" {
		level := models.ActivityLevel(strings.ToLower(input.ActivityLevel))
		if !level.Valid() {
			return fmt.Errorf("unknown activity level %q: %w", input.ActivityLevel, ErrValidation)
		}
		user.ActivityLevel = level
		targetsDirty = true
	}
	if input.PrimaryGoal != "" {
		goal := models.Goal(strings.ToLower(input.PrimaryGoal))
		if !goal.Valid() {
			return fmt.Errorf("unknown goal %q: %w", input.PrimaryGoal, ErrValidation)
		}
		user.PrimaryGoal = goal
		targetsDirty = true
	}
	if input.Allergies != "" {
		user.Allergies = strings.ToLower(input.Allergies)
	}
	if input.MFAEnabled != nil {
		user.MFAEnabled = *input.MFAEnabled
	}
	if input.ProfilePicture != "" {
		url, err := utils.UploadBase64ImageToS3(input.ProfilePicture, user.Email)
		if err != nil {
			return fmt.Errorf("failed to upload image: %w", err)
		}
		user.ProfilePicture = url
	}

	if err := config.DB.Save(user).Error; err != nil {
		return err
	}

	if targetsDirty {
		if _, err := NewTargetsService(config.DB).Recompute(user); err != nil {
			return fmt.Errorf("failed to recompute targets: %w", err)
		}
	}
	return nil
}

// CompleteOnboarding records the full health profile in one shot, replaces
// conditions and restrictions, and computes the first set of targets.
func CompleteOnboarding(userID uint, input OnboardingInput) error {
	user, err := findActiveUser(userID)
	if err != nil {
		return err
	}

	birthday, err := time.Parse("2006-01-02", input.Birthday)
	if err != nil {
		return fmt.Errorf("birthday must be YYYY-MM-DD: %w", ErrValidation)
	}
	if input.HeightCm <= 0 || input.WeightKg <= 0 {
		return fmt.Errorf("height and weight are required: %w", ErrValidation)
	}
	level := models.ActivityLevel(strings.ToLower(input.ActivityLevel))
	if !level.Valid() {
		return fmt.Errorf("unknown activity level %q: %w", input.ActivityLevel, ErrValidation)
	}
	goal := models.Goal(strings.ToLower(input.PrimaryGoal))
	if !goal.Valid() {
		return fmt.Errorf("unknown goal %q: %w", input.PrimaryGoal, ErrValidation)
	}

	user.Birthday = birthday
	user.Sex = models.Sex(strings.ToLower(input.Sex))
	user.HeightCm = input.HeightCm
	user.WeightKg = input.WeightKg
	user.ActivityLevel = level
	user.PrimaryGoal = goal
	user.Allergies = strings.ToLower(strings.Join(input.Allergies, ","))
	user.MFAEnabled = input.MFAEnabled
	user.Onboarded = true

	if input.ProfilePicture != "" {
		url, err := utils.UploadBase64ImageToS3(input.ProfilePicture, "onboarding/"+user.Email)
		if err != nil {
			return fmt.Errorf("failed to upload profile picture: %w", err)
		}
		user.ProfilePicture = url
	}

	if err := config.DB.Save(user).Error; err != nil {
		return err
	}

	if err := replaceConditions(user.ID, input.HealthConditions); err != nil {
		return err
	}
	if err := replaceRestrictions(user.ID, input.DietaryRestrictions); err != nil {
		return err
	}

	// Reload so condition adjustments are visible to the calculation.
	refreshed, err := findActiveUser(userID)
	if err != nil {
		return err
	}
	if _, err := NewTargetsService(config.DB).Recompute(refreshed); err != nil {
		return fmt.Errorf("failed to compute targets: %w", err)
	}
	return nil
}

func replaceConditions(userID uint, inputs []ConditionInput) error {
	if err := config.DB.Where("user_id = ?", userID).Delete(&models.HealthCondition{}).Error; err != nil {
		return err
	}
	for _, c := range inputs {
		if strings.TrimSpace(c.Name) == "" {
			continue
		}
		severity := models.ConditionSeverity(strings.ToLower(c.Severity))
		if severity == "" {
			severity = models.SeverityModerate
		}
		hc := models.HealthCondition{
			UserID:   userID,
			Name:     strings.ToLower(strings.TrimSpace(c.Name)),
			Severity: severity,
		}
		if err := config.DB.Create(&hc).Error; err != nil {
			return err
		}
	}
	return nil
}

func replaceRestrictions(userID uint, inputs []RestrictionInput) error {
	if err := config.DB.Where("user_id = ?", userID).Delete(&models.DietaryRestriction{}).Error; err != nil {
		return err
	}
	for _, r := range inputs {
		if strings.TrimSpace(r.Type) == "" {
			continue
		}
		strictness := models.RestrictionStrictness(strings.ToLower(r.Strictness))
		if strictness == "" {
			strictness = models.StrictnessModerate
		}
		dr := models.DietaryRestriction{
			UserID:     userID,
			Type:       strings.ToLower(strings.TrimSpace(r.Type)),
			Strictness: strictness,
		}
		if err := config.DB.Create(&dr).Error; err != nil {
			return err
		}
	}
	return nil
}

// UpdateHealthProfile replaces conditions, restrictions, and allergies
// after onboarding, then recomputes targets since condition adjustments
// feed into them.
func UpdateHealthProfile(userID uint, conditions []ConditionInput, restrictions []RestrictionInput, allergies []string) error {
	user, err := findActiveUser(userID)
	if err != nil {
		return err
	}

	if err := replaceConditions(user.ID, conditions); err != nil {
		return err
	}
	if err := replaceRestrictions(user.ID, restrictions); err != nil {
		return err
	}

	user.Allergies = strings.ToLower(strings.Join(allergies, ","))
	if err := config.DB.Save(user).Error; err != nil {
		return err
	}

	refreshed, err := findActiveUser(userID)
	if err != nil {
		return err
	}
	if _, err := NewTargetsService(config.DB).Recompute(refreshed); err != nil {
		return fmt.Errorf("failed to recompute targets: %w", err)
	}
	return nil
}

// DeleteUser soft-disables the account; history is retained.
func DeleteUser(userID uint) error {
	user, err := findActiveUser(userID)
	if err != nil {
		return err
	}
	user.Disabled = true
	return config.DB.Save(user).Error
}
