package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Pradhyumna23/Nourish-AI/config"
	"github.com/Pradhyumna23/Nourish-AI/controllers"
	"github.com/Pradhyumna23/Nourish-AI/middlewares"
	"github.com/Pradhyumna23/Nourish-AI/services"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	hub := services.NewRealtimeHub()
	services.InitAlertDeps(config.DB, hub)

	usda := services.NewUSDAService()
	foodSvc := services.NewFoodService(config.DB, usda)
	logSvc := services.NewFoodLogService(config.DB, foodSvc)
	activitySvc := services.NewActivityService(config.DB)
	recSvc := services.NewRecommendationService(config.DB, services.NewGeminiService())

	foodCtl := controllers.NewFoodController(foodSvc)
	logCtl := controllers.NewFoodLogController(logSvc)
	activityCtl := controllers.NewActivityLogController(activitySvc)
	nutritionCtl := controllers.NewNutritionController(recSvc)
	recCtl := controllers.NewRecommendationController(recSvc)
	rtCtl := controllers.NewRealtimeController(hub)

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
		auth.POST("/verify-mfa", controllers.VerifyMFA)
		auth.POST("/forgot-password", controllers.ForgotPassword)
		auth.POST("/reset-password", controllers.ResetPassword)
	}

	// Protected user routes
	user := r.Group("/user")
	user.Use(middlewares.AuthMiddleware())
	{
		user.GET("/profile", controllers.GetProfile)
		user.PUT("/profile", controllers.UpdateProfile)
		user.POST("/onboarding", controllers.CompleteOnboarding)
		user.PUT("/health-profile", controllers.UpdateHealthProfile)
		user.DELETE("/account", controllers.DeleteAccount)
	}

	food := r.Group("/foods")
	food.Use(middlewares.AuthMiddleware())
	{
		food.GET("/search", foodCtl.Search)
		food.GET("/:fdcId", foodCtl.Get)
	}

	logs := r.Group("/logs")
	logs.Use(middlewares.AuthMiddleware())
	{
		logs.POST("", logCtl.Create)
		logs.GET("", logCtl.List)
		logs.PUT("/:id", logCtl.Update)
		logs.DELETE("/:id", logCtl.Delete)
	}

	activity := r.Group("/activity")
	activity.Use(middlewares.AuthMiddleware())
	{
		activity.GET("/today", activityCtl.GetToday)
		activity.POST("/hydration", activityCtl.AddHydration)
		activity.POST("/exercise", activityCtl.AddExercise)
	}

	nutrition := r.Group("/nutrition")
	nutrition.Use(middlewares.AuthMiddleware())
	{
		nutrition.GET("/targets", nutritionCtl.GetTargets)
		nutrition.GET("/intake", nutritionCtl.GetDailyIntake)
		nutrition.GET("/gaps", nutritionCtl.GetDailyGap)
		nutrition.GET("/weekly-summary", nutritionCtl.GetWeeklySummary)
	}

	recs := r.Group("/recommendations")
	recs.Use(middlewares.AuthMiddleware())
	{
		recs.POST("/generate", recCtl.Generate)
		recs.GET("", recCtl.List)
		recs.POST("/:id/feedback", recCtl.SubmitFeedback)
		recs.POST("/:id/viewed", recCtl.MarkViewed)
		recs.GET("/stats", recCtl.Stats)
		recs.POST("/deactivate-old", recCtl.DeactivateOld)
		recs.POST("/chat", recCtl.Chat)
		recs.GET("/chat/history", recCtl.ChatHistory)
	}

	ws := r.Group("/ws")
	ws.Use(middlewares.AuthMiddleware())
	{
		ws.GET("/alerts", rtCtl.AlertsWS)
	}

	return r
}
