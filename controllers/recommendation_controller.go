package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Pradhyumna23/Nourish-AI/services"
)

type RecommendationController struct {
	Recs *services.RecommendationService
}

func NewRecommendationController(recs *services.RecommendationService) *RecommendationController {
	return &RecommendationController{Recs: recs}
}

func (rc *RecommendationController) Generate(c *gin.Context) {
	userID := c.GetUint("userID")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	result, err := rc.Recs.Generate(c.Request.Context(), userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (rc *RecommendationController) List(c *gin.Context) {
	userID := c.GetUint("userID")

	recs, err := rc.Recs.List(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": recs})
}

type FeedbackInput struct {
	Rating   int    `json:"rating" binding:"required"`
	Feedback string `json:"feedback"`
	Accepted *bool  `json:"accepted"`
}

func (rc *RecommendationController) SubmitFeedback(c *gin.Context) {
	userID := c.GetUint("userID")

	recID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be numeric"})
		return
	}

	var input FeedbackInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := rc.Recs.SubmitFeedback(userID, uint(recID), input.Rating, input.Feedback, input.Accepted)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (rc *RecommendationController) MarkViewed(c *gin.Context) {
	userID := c.GetUint("userID")

	recID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be numeric"})
		return
	}

	if err := rc.Recs.MarkViewed(userID, uint(recID)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "marked viewed"})
}

func (rc *RecommendationController) Stats(c *gin.Context) {
	userID := c.GetUint("userID")

	stats, err := rc.Recs.Stats(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (rc *RecommendationController) DeactivateOld(c *gin.Context) {
	userID := c.GetUint("userID")

	n, err := rc.Recs.DeactivateOld(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deactivated": n})
}

type ChatInput struct {
	Message string `json:"message" binding:"required"`
}

func (rc *RecommendationController) Chat(c *gin.Context) {
	userID := c.GetUint("userID")

	var input ChatInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, err := rc.Recs.Chat(c.Request.Context(), userID, input.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

func (rc *RecommendationController) ChatHistory(c *gin.Context) {
	userID := c.GetUint("userID")

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	msgs, err := rc.Recs.ChatHistory(userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs, "count": len(msgs)})
}
