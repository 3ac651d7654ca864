// main.go
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/ngantran/healthtrack-api/config"
	"github.com/ngantran/healthtrack-api/endpoint"
	"github.com/ngantran/healthtrack-api/middleware"
	"github.com/ngantran/healthtrack-api/model"
	"github.com/ngantran/healthtrack-api/util"
)

func main() {
	// Load the configuration
	cfg := config.LoadConfig()

	db, err := config.ConnectDatabase()
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	if err := db.AutoMigrate(model.AllModels...); err != nil {
		log.Fatalf("Error migrating database schema: %v", err)
	}

	if _, err := config.ConnectRedis(); err != nil {
		// Sessions fall back to the DB when Redis is down.
		log.Printf("Redis unavailable, continuing without it: %v", err)
	}

	util.SetJWTSecret(os.Getenv("JWT_SECRET"))
	util.SetAccessLoggerDB(db)
	util.InitUserCacheFromEnv()
	if geoPath := os.Getenv("GEOIP_DB_PATH"); geoPath != "" {
		if err := util.InitGeoIP(geoPath); err != nil {
			log.Printf("GeoIP database not loaded: %v", err)
		}
		defer util.CloseGeoIP()
	}

	// Set Gin mode from config
	gin.SetMode(cfg.GinMode)

	// Create a Gin router with default middleware
	router := gin.Default()
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DatabaseMiddleware(db))

	// Basic HTTP handler for root path
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Welcome to %s!", cfg.AppName),
		})
	})

	loginLimiter := middleware.RateLimiter(middleware.RateLimitConfig{})
	router.POST("/signup", loginLimiter, endpoint.Signup)
	router.POST("/login", loginLimiter, endpoint.Login)
	router.GET("/token/validate", endpoint.ValidateToken)

	authorized := router.Group("/")
	authorized.Use(middleware.SessionAuth())
	authorized.Use(middleware.EndpointCallLogger())
	{
		authorized.POST("/logout", endpoint.Logout)

		authorized.GET("/user", endpoint.GetCurrentUser)
		authorized.PATCH("/user", endpoint.UpdateCurrentUser)
		authorized.PUT("/user/password", endpoint.ChangePassword)

		authorized.GET("/healthprofiles", endpoint.GetHealthProfile)
		authorized.POST("/healthprofiles", endpoint.CreateHealthProfile)
		authorized.PATCH("/healthprofiles/:id", endpoint.UpdateHealthProfile)

		authorized.GET("/health_metrics", endpoint.ListDailyMetrics)
		authorized.POST("/health_metrics", endpoint.RecordDailyMetric)

		authorized.GET("/journals", endpoint.ListJournalEntries)
		authorized.POST("/journals", endpoint.RecordJournalEntry)

		authorized.GET("/exercises_plans", endpoint.ListExercisePlans)
		authorized.POST("/exercises_plans", endpoint.CreateExercisePlan)
		authorized.PATCH("/exercises_plans/:id", endpoint.UpdateExercisePlan)
		authorized.DELETE("/exercises_plans/:id", endpoint.DeleteExercisePlan)
		authorized.GET("/exercises_plans/:id/exercises", endpoint.ListExercisesInPlan)
		authorized.POST("/exercises_plans/:id/exercises", endpoint.AddExerciseToPlan)

		authorized.GET("/exercises", endpoint.ListExercises)
		authorized.POST("/exercises", endpoint.CreateExercise)
		authorized.GET("/exercises/:id", endpoint.GetExercise)
		authorized.DELETE("/exercises/:id", endpoint.DeleteExercise)

		authorized.GET("/reminders", endpoint.ListReminders)
		authorized.POST("/reminders", endpoint.CreateReminder)
		authorized.PATCH("/reminders/:id", endpoint.UpdateReminder)
		authorized.DELETE("/reminders/:id", endpoint.DeleteReminder)

		authorized.GET("/nutrition_plans", endpoint.ListNutritionPlans)
		authorized.POST("/nutrition_plans", endpoint.CreateNutritionPlan)
		authorized.GET("/foods", endpoint.ListFoods)
		authorized.POST("/foods", endpoint.CreateFood)

		authorized.POST("/experts", endpoint.RegisterExpert)
		authorized.GET("/experts", endpoint.ListExperts)
		authorized.GET("/experts/profiles", endpoint.ListVisibleProfiles)

		authorized.GET("/connections", endpoint.ListConnections)
		authorized.POST("/connections", endpoint.CreateConnection)
		authorized.GET("/connections/:id", endpoint.GetConnection)
		authorized.PATCH("/connections/:id", endpoint.UpdateConnection)
	}

	// Start server on specified port
	address := fmt.Sprintf(":%d", cfg.AppPort)
	if err := router.Run(address); err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
