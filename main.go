package main

import (
	"log"
	"log/slog"
	"net/http"

	"github.com/dslans/bot-aitools/config"
	"github.com/dslans/bot-aitools/handlers"
	"github.com/dslans/bot-aitools/middleware"
	"github.com/dslans/bot-aitools/repositories"
	"github.com/dslans/bot-aitools/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.Load()
	logger := config.NewLogger(cfg)

	// Initialize database
	db := config.InitDB()

	// Initialize repositories
	entryRepo := repositories.NewEntryRepository(db)
	voteRepo := repositories.NewVoteRepository(db)
	suggestionRepo := repositories.NewSuggestionRepository(db)
	communityTagRepo := repositories.NewCommunityTagRepository(db)

	// Initialize services
	scraperService := services.NewScraperService()
	aiService := services.NewAIService(cfg, logger)
	securityService := services.NewSecurityService(cfg, logger)
	entryService := services.NewEntryService(entryRepo, voteRepo, scraperService, aiService, securityService, cfg, logger)
	suggestionService := services.NewSuggestionService(suggestionRepo, communityTagRepo, entryRepo, logger)
	tagService := services.NewTagService(entryRepo, communityTagRepo)
	authService := services.NewAuthService(cfg)

	// Initialize handlers
	slackHandler := handlers.NewSlackHandler(entryService, suggestionService, tagService, cfg, logger)
	authHandler := handlers.NewAuthHandler(authService)
	apiHandler := handlers.NewAPIHandler(entryService, suggestionService, tagService)

	// Setup router
	router := gin.Default()

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// Slack routes (signed requests only)
	slackRoutes := router.Group("/slack")
	slackRoutes.Use(middleware.SlackSignature(cfg.SlackSigningSecret))
	{
		slackRoutes.POST("/commands", slackHandler.HandleCommand)
		slackRoutes.POST("/interactions", slackHandler.HandleInteraction)
	}

	// API routes
	v1 := router.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
		}

		// Public read routes
		v1.GET("/entries", apiHandler.GetEntries)
		v1.GET("/entries/:id", apiHandler.GetEntry)
		v1.GET("/tags", apiHandler.GetTags)

		// Protected admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthMiddleware(), middleware.RequireRole("admin"))
		{
			admin.GET("/entries", apiHandler.GetAdminEntries)
			admin.GET("/suggestions", apiHandler.GetAdminSuggestions)
		}
	}

	// Start server
	logger.Info("server starting", slog.String("port", cfg.Port))
	log.Fatal(http.ListenAndServe(":"+cfg.Port, router))
}
