package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alimgiray/commentbox/internal/handlers"
	"github.com/alimgiray/commentbox/internal/middleware"
	"github.com/alimgiray/commentbox/internal/repositories"
	"github.com/alimgiray/commentbox/internal/services"
	"github.com/alimgiray/commentbox/internal/workers"
	"github.com/alimgiray/commentbox/pkg/config"
	"github.com/alimgiray/commentbox/pkg/database"
	"github.com/alimgiray/commentbox/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	// Load configuration
	if err := config.Load(); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init()

	// Initialize database
	if err := database.Init(config.AppConfig.Database.Path); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	// Initialize dependencies
	userRepo := repositories.NewUserRepository(database.DB)
	commentRepo := repositories.NewCommentRepository(database.DB)
	sessionRepo := repositories.NewSessionRepository(database.DB)
	stateRepo := repositories.NewLoginStateRepository(database.DB)

	userService := services.NewUserService(userRepo)
	commentService := services.NewCommentService(commentRepo)
	sessionService := services.NewSessionService(sessionRepo, time.Duration(config.AppConfig.Session.SessionHours)*time.Hour)
	stateService := services.NewLoginStateService(stateRepo, time.Duration(config.AppConfig.Session.StateMinutes)*time.Minute)
	githubService := services.NewGitHubService()
	whitelist := services.NewWhitelist(
		config.AppConfig.Whitelist.BlogIDs,
		config.AppConfig.Whitelist.BlogURLs,
		config.AppConfig.Whitelist.Admins,
	)

	// Initialize worker manager
	workerManager := workers.NewWorkerManager(
		sessionRepo, stateRepo,
		time.Duration(config.AppConfig.Session.CleanupMinutes)*time.Minute,
		config.AppConfig.Hooks.OnCommentCmds,
	)

	// Initialize router
	router := gin.Default()

	// Apply middleware
	router.Use(middleware.SessionMiddleware(sessionService, userService))

	// Setup routes
	setupRoutes(router, userService, commentService, sessionService, stateService, githubService, whitelist, workerManager)

	// Start workers
	if err := workerManager.StartAll(); err != nil {
		log.Fatalf("Failed to start workers: %v", err)
	}
	defer workerManager.StopAll()

	// Setup server
	server := &http.Server{
		Addr:    ":" + config.AppConfig.Server.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		logger.Infof("Server starting on :%s", config.AppConfig.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Errorf("Server forced to shutdown")
	}

	logger.Info("Server stopped")
}

func setupRoutes(router *gin.Engine, userService *services.UserService, commentService *services.CommentService, sessionService *services.SessionService, stateService *services.LoginStateService, githubService *services.GitHubService, whitelist *services.Whitelist, workerManager *workers.WorkerManager) {
	// Initialize handlers
	homeHandler := handlers.NewHomeHandler()
	healthHandler := handlers.NewHealthHandler()
	commentHandler := handlers.NewCommentHandler(commentService, stateService, githubService, whitelist, workerManager.Publish)
	authHandler := handlers.NewAuthHandler(userService, sessionService, stateService, githubService, config.AppConfig.Server.BaseURL)

	// Home page
	router.GET("/", homeHandler.Index)

	// Public read API
	router.GET("/get_comment", commentHandler.GetComment)
	router.GET("/get_comments", commentHandler.GetComments)

	// Browser-navigation write endpoints
	router.GET("/do_comment", commentHandler.DoComment)
	router.GET("/edit_comment", commentHandler.EditComment)
	router.GET("/del_comment", commentHandler.DelComment)

	// Admin export
	router.GET("/export_comments", commentHandler.ExportComments)

	// Auth routes
	router.GET("/auth/github/callback", authHandler.GitHubCallback)
	router.GET("/logout", authHandler.Logout)

	// Health check endpoint
	router.GET("/health", healthHandler.HealthCheck)
}
