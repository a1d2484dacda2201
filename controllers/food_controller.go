package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Pradhyumna23/Nourish-AI/services"
)

type FoodController struct {
	Food *services.FoodService
}

func NewFoodController(food *services.FoodService) *FoodController {
	return &FoodController{Food: food}
}

func (fc *FoodController) Search(c *gin.Context) {
	query := c.Query("q")
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	results, err := fc.Food.Search(query, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (fc *FoodController) Get(c *gin.Context) {
	fdcID, err := strconv.ParseInt(c.Param("fdcId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fdcId must be numeric"})
		return
	}

	result, err := fc.Food.Lookup(fdcID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
