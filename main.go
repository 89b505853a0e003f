package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"project/api"
	"project/config"
	"project/database"
	"project/middleware"
	"project/models"
	"project/repository"
	"project/services"

	"gorm.io/gorm"
)

func main() {
	// Load application configuration
	config.LoadConfig()

	// Initialize database connection
	db, err := database.Init()
	if err != nil {
		log.Fatalf("FATAL: [Main] Failed to initialize database: %v", err)
	}

	// Auto-migrate database schema
	runMigrations(db)

	// Initialize Repositories
	activityRepo := repository.NewActivityRepository(db)
	goalRepo := repository.NewGoalRepository(db)
	log.Println("INFO: [Main] Repositories initialized.")

	// Initialize Services
	streakService := services.NewStreakService()
	goalService := services.NewGoalService(streakService)
	progressService := services.NewProgressService(activityRepo, goalRepo, streakService, goalService)
	schedulerService := services.NewSchedulerService(config.AppConfig.ProgressCron, progressService)
	log.Println("INFO: [Main] Services initialized.")

	// Initialize API Handler with all dependencies
	apiHandler := api.NewAPIHandler(goalRepo, progressService)
	log.Println("INFO: [Main] API Handler initialized.")

	// Start the nightly goal-progress refresh
	if err := schedulerService.Start(); err != nil {
		log.Fatalf("FATAL: [Main] Failed to start scheduler: %v", err)
	}
	defer schedulerService.Stop()

	// Create Gin engine
	r := gin.Default()
	r.SetTrustedProxies(nil)

	// Register middlewares
	r.Use(middleware.Logger())
	r.Use(middleware.Cors())
	log.Println("INFO: [Main] Middlewares registered.")

	// Register routes
	registerRoutes(r, apiHandler)
	log.Println("INFO: [Main] Routes registered.")

	// Start the server
	serverPort := ":" + config.AppConfig.Server.Port
	if config.AppConfig.Server.Port == "" {
		log.Println("WARN: [Main] Server port not configured, using default :8080.")
		serverPort = ":8080"
	}
	log.Printf("INFO: [Main] Starting server on port %s", serverPort)
	if err := r.Run(serverPort); err != nil {
		log.Fatalf("FATAL: [Main] Server failed to start: %v", err)
	}
}

func runMigrations(db *gorm.DB) {
	log.Println("INFO: [Main] Running database migrations...")
	err := db.AutoMigrate(
		&models.Workout{},
		&models.Meal{},
		&models.Goal{},
	)
	if err != nil {
		log.Fatalf("FATAL: [Main] Failed to auto-migrate database: %v", err)
	}
	log.Println("INFO: [Main] Database migration completed.")
}

func registerRoutes(r *gin.Engine, handler *api.APIHandler) {
	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/streak/:userID", handler.GetStreakHandler)

		goalGroup := apiGroup.Group("/goal")
		{
			goalGroup.POST("", handler.CreateGoalHandler)
			goalGroup.GET("/:goalID", handler.GetGoalHandler)
		}

		userGroup := apiGroup.Group("/user")
		{
			userGroup.GET("/:userID/goals", handler.GetGoalProgressHandler)
			userGroup.GET("/:userID/stats", handler.GetGoalStatsHandler)
		}
	}
}
