package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Pradhyumna23/Nourish-AI/config"
	"github.com/Pradhyumna23/Nourish-AI/models"
	"github.com/Pradhyumna23/Nourish-AI/services"
)

// NutritionController serves targets, daily gaps, and weekly summaries.
type NutritionController struct {
	Recs    *services.RecommendationService
	Targets *services.TargetsService
	Intake  *services.IntakeService
}

func NewNutritionController(recs *services.RecommendationService) *NutritionController {
	return &NutritionController{
		Recs:    recs,
		Targets: services.NewTargetsService(config.DB),
		Intake:  services.NewIntakeService(config.DB),
	}
}

func (nc *NutritionController) GetTargets(c *gin.Context) {
	userID := c.GetUint("userID")

	var user models.User
	if err := config.DB.Preload("HealthConditions").First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	targets, err := nc.Targets.GetOrCompute(&user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, targets)
}

func (nc *NutritionController) GetDailyIntake(c *gin.Context) {
	userID := c.GetUint("userID")

	date, ok := parseDateQuery(c)
	if !ok {
		return
	}

	intake, err := nc.Intake.Daily(userID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, intake)
}

func (nc *NutritionController) GetDailyGap(c *gin.Context) {
	userID := c.GetUint("userID")

	date, ok := parseDateQuery(c)
	if !ok {
		return
	}

	gaps, err := nc.Recs.GetDailyGap(userID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"gaps":      gaps,
		"deficient": gaps.Deficient(),
		"exceeded":  gaps.Exceeded(),
	})
}

func (nc *NutritionController) GetWeeklySummary(c *gin.Context) {
	userID := c.GetUint("userID")

	weeks, _ := strconv.Atoi(c.DefaultQuery("weeks", "1"))

	summary, err := nc.Recs.GetWeeklySummary(userID, weeks)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
