package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Pradhyumna23/Nourish-AI/services"
)

func GetProfile(c *gin.Context) {
	userID := c.GetUint("userID")

	profile, err := services.GetUserProfile(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, profile)
}

func UpdateProfile(c *gin.Context) {
	userID := c.GetUint("userID")

	var input services.ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := services.UpdateUserProfile(userID, input); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "profile updated"})
}

func CompleteOnboarding(c *gin.Context) {
	userID := c.GetUint("userID")

	var input services.OnboardingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := services.CompleteOnboarding(userID, input); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "onboarding complete"})
}

type HealthProfileInput struct {
	HealthConditions    []services.ConditionInput   `json:"health_conditions"`
	DietaryRestrictions []services.RestrictionInput `json:"dietary_restrictions"`
	Allergies           []string                    `json:"allergies"`
}

func UpdateHealthProfile(c *gin.Context) {
	userID := c.GetUint("userID")

	var input HealthProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := services.UpdateHealthProfile(userID, input.HealthConditions, input.DietaryRestrictions, input.Allergies); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "health profile updated"})
}

func DeleteAccount(c *gin.Context) {
	userID := c.GetUint("userID")

	if err := services.DeleteUser(userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "account disabled"})
}
