package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Pradhyumna23/Nourish-AI/services"
)

type ActivityLogController struct {
	Activity *services.ActivityService
}

func NewActivityLogController(activity *services.ActivityService) *ActivityLogController {
	return &ActivityLogController{Activity: activity}
}

type HydrationInput struct {
	Glasses float64 `json:"glasses" binding:"required"`
}

func (ac *ActivityLogController) AddHydration(c *gin.Context) {
	userID := c.GetUint("userID")

	var input HydrationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	log, err := ac.Activity.AddHydration(userID, time.Now(), input.Glasses)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, log)
}

type ExerciseInput struct {
	Minutes float64 `json:"minutes" binding:"required"`
}

func (ac *ActivityLogController) AddExercise(c *gin.Context) {
	userID := c.GetUint("userID")

	var input ExerciseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	log, err := ac.Activity.AddExercise(userID, time.Now(), input.Minutes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, log)
}

func (ac *ActivityLogController) GetToday(c *gin.Context) {
	userID := c.GetUint("userID")

	log, err := ac.Activity.Get(userID, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, log)
}
