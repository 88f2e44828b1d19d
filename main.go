package main

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"qa-workflow-simulator/config"
	"qa-workflow-simulator/handlers"
	"qa-workflow-simulator/logger"
	"qa-workflow-simulator/middleware"
	"qa-workflow-simulator/repositories"
	"qa-workflow-simulator/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found")
	}

	// Initialize database; the simulator stays usable without one, progress
	// just does not survive a restart
	var db *gorm.DB
	db, err := config.InitDB()
	if err != nil {
		logger.Warn("database unavailable, running with in-memory session state", "error", err.Error())
		db = nil
	}

	// Initialize repositories
	var sessionRepo repositories.SessionRepository
	var userRepo repositories.UserRepository
	if db != nil {
		sessionRepo = repositories.NewSessionRepository(db)
		userRepo = repositories.NewUserRepository(db)
	} else {
		sessionRepo = repositories.NewMemorySessionRepository()
		userRepo = repositories.NewMemoryUserRepository()
	}

	// Initialize services
	authService := services.NewAuthService(userRepo)
	workflowService := services.NewWorkflowService(sessionRepo)
	defectService := services.NewDefectService(sessionRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	articleHandler := handlers.NewArticleHandler(workflowService, defectService)
	defectHandler := handlers.NewDefectHandler(defectService)

	// Setup router
	router := gin.Default()
	router.Use(middleware.Metrics())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	v1 := router.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Protected routes
		protected := v1.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			// Profile
			protected.GET("/profile", authHandler.GetProfile)

			// Articles
			articles := protected.Group("/articles")
			{
				articles.POST("", articleHandler.CreateArticle)
				articles.GET("", articleHandler.GetArticles)
				articles.GET("/:id", articleHandler.GetArticle)
				articles.PUT("/:id", articleHandler.UpdateArticle)
				articles.POST("/:id/actions", articleHandler.PerformAction)
				articles.DELETE("", articleHandler.ClearArticles)
			}

			// Defect progress
			defects := protected.Group("/defects")
			{
				defects.GET("", defectHandler.GetDefects)
				defects.POST("", defectHandler.RegisterDefect)
				defects.DELETE("", defectHandler.ResetDefects)
			}
		}
	}

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Info("server starting", "port", port)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		logger.Fatal("server stopped", "error", err.Error())
	}
}
