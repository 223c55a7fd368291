package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"todoapi/internal/agent"
	"todoapi/internal/config"
	"todoapi/internal/handler"
	"todoapi/internal/middleware"
	"todoapi/internal/model"
	"todoapi/internal/repository"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
}

func Init(cfg *config.Config) (*Server, error) {
	// Setup GORM
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("❌ failed to connect to DB: %w", err)
	}
	log.Println("✅ Connected to database")

	if err := db.AutoMigrate(&model.User{}, &model.Task{}, &model.Conversation{}, &model.Message{}); err != nil {
		return nil, fmt.Errorf("❌ failed to migrate schema: %w", err)
	}

	// Setup Gin
	r := gin.Default()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	convRepo := repository.NewConversationRepository(db)

	// Initialize the chat agent when its upstreams are configured
	var chatAgent handler.ChatAgent
	if cfg.OpenAIAPIKey != "" && cfg.TaskAPIBaseURL != "" {
		taskAgent := agent.NewTaskAgent(cfg.TaskAPIBaseURL, cfg.TaskAPIToken)
		chatService, err := agent.NewChatService(context.Background(), agent.ChatConfig{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
		}, agent.InitTaskTools(taskAgent))
		if err != nil {
			log.Printf("⚠️  Chat agent disabled: %v", err)
		} else {
			chatAgent = chatService
			log.Println("✅ Chat agent initialized")
		}
	} else {
		log.Println("⚠️  Chat agent disabled: OPENAI_API_KEY or TASK_API_BASE_URL not set")
	}

	// Initialize handlers
	userHandler := handler.NewUserHandler(userRepo)
	taskHandler := handler.NewTaskHandler(taskRepo)
	convHandler := handler.NewConversationHandler(convRepo, chatAgent)

	// Service routes
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Todo API is running!"})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "version": "1.0.0"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Public routes
	r.POST("/auth/register", userHandler.Register)
	r.POST("/auth/login", userHandler.Login)

	// Protected routes - require authentication
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		// Conversation routes
		authorized.POST("/conversations", convHandler.Create)
		authorized.GET("/conversations", convHandler.GetAll)
		authorized.GET("/conversations/:id", convHandler.GetByID)
		authorized.POST("/conversations/:id/messages", convHandler.AddMessage)
		authorized.GET("/conversations/:id/messages", convHandler.GetMessages)
		authorized.POST("/conversations/:id/chat", convHandler.Chat)

		// Task routes, namespaced by the owning user
		authorized.GET("/:user_id/tasks", taskHandler.GetAll)
		authorized.POST("/:user_id/tasks", taskHandler.Create)
		authorized.GET("/:user_id/tasks/:task_id", taskHandler.GetByID)
		authorized.PUT("/:user_id/tasks/:task_id", taskHandler.Update)
		authorized.DELETE("/:user_id/tasks/:task_id", taskHandler.Delete)
		authorized.PATCH("/:user_id/tasks/:task_id/complete", taskHandler.UpdateCompletion)
	}

	return &Server{
		Engine: r,
		DB:     db,
		Config: cfg,
	}, nil
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		log.Printf("🚀 Server running on port %s\n", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %s", err)
	}

	log.Println("✅ Server exited properly")
}
