package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Pradhyumna23/Nourish-AI/services"
)

type FoodLogController struct {
	Logs *services.FoodLogService
}

func NewFoodLogController(logs *services.FoodLogService) *FoodLogController {
	return &FoodLogController{Logs: logs}
}

func (flc *FoodLogController) Create(c *gin.Context) {
	userID := c.GetUint("userID")

	var input services.LogFoodInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := flc.Logs.LogFood(userID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// parseDateQuery reads an optional ?date=YYYY-MM-DD, defaulting to today.
func parseDateQuery(c *gin.Context) (time.Time, bool) {
	raw := c.Query("date")
	if raw == "" {
		return time.Now(), true
	}
	d, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return time.Time{}, false
	}
	return d, true
}

func (flc *FoodLogController) List(c *gin.Context) {
	userID := c.GetUint("userID")

	date, ok := parseDateQuery(c)
	if !ok {
		return
	}

	entries, err := flc.Logs.ListByDate(userID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (flc *FoodLogController) Update(c *gin.Context) {
	userID := c.GetUint("userID")

	entryID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be numeric"})
		return
	}

	var input services.UpdateLogInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := flc.Logs.UpdateEntry(userID, uint(entryID), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (flc *FoodLogController) Delete(c *gin.Context) {
	userID := c.GetUint("userID")

	entryID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be numeric"})
		return
	}

	if err := flc.Logs.DeleteEntry(userID, uint(entryID)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "entry deleted"})
}
