package app

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "teamdesk/docs"
	"teamdesk/internal/config"
	"teamdesk/internal/handlers"
	"teamdesk/internal/logger"
	"teamdesk/internal/middleware"
	"teamdesk/internal/notify"
	"teamdesk/internal/repositories"
	"teamdesk/internal/routes"
	"teamdesk/internal/services"
)

func Run() {
	cfg := config.LoadConfig()

	log, err := logger.Init(cfg.Server.Debug)
	if err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer logger.Sync()

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("failed to close database", zap.Error(err))
		}
	}()
	if err := db.Ping(); err != nil {
		log.Fatal("failed to reach database", zap.Error(err))
	}

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	teamRepo := repositories.NewTeamRepository(db)
	projectRepo := repositories.NewProjectRepository(db)
	taskRepo := repositories.NewTaskRepository(db)
	assignmentRepo := repositories.NewAssignmentRepository(db)
	commentRepo := repositories.NewCommentRepository(db)
	fileRepo := repositories.NewFileRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	cascadeRepo := repositories.NewCascadeRepository(db)

	// === External channels ===
	var emailSender notify.EmailSender
	if cfg.Email.SMTPHost != "" {
		emailSender = notify.NewEmailSender(
			cfg.Email.SMTPHost,
			cfg.Email.SMTPPort,
			cfg.Email.SMTPUser,
			cfg.Email.SMTPPassword,
			cfg.Email.FromEmail,
		)
	}
	telegramSender, err := notify.NewTelegramSender(cfg.Telegram.BotToken)
	if err != nil {
		log.Warn("telegram disabled", zap.Error(err))
		telegramSender = nil
	}

	dueSoon := time.Duration(cfg.Notify.DueSoonHours) * time.Hour
	accessTTL := time.Duration(cfg.Auth.AccessTTLMin) * time.Minute
	jwtSecret := []byte(cfg.Auth.JWTSecret)

	// === Services ===
	authService := services.NewAuthService(userRepo, jwtSecret, accessTTL)
	userService := services.NewUserService(userRepo, notificationRepo)
	teamService := services.NewTeamService(teamRepo, userRepo, cascadeRepo, notificationRepo, emailSender)
	projectService := services.NewProjectService(projectRepo, teamRepo, cascadeRepo)
	taskService := services.NewTaskService(taskRepo, projectRepo, teamRepo, assignmentRepo, notificationRepo, dueSoon)
	commentService := services.NewCommentService(commentRepo, taskRepo, teamRepo)
	fileService := services.NewFileService(fileRepo, taskRepo, teamRepo)
	notificationService := services.NewNotificationService(notificationRepo, taskRepo, userRepo, emailSender, telegramSender, dueSoon)

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	teamHandler := handlers.NewTeamHandler(teamService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)
	commentHandler := handlers.NewCommentHandler(commentService)
	fileHandler := handlers.NewFileHandler(fileService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// === Gin ===
	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID(log))
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(
		router,
		jwtSecret,
		authHandler,
		userHandler,
		teamHandler,
		projectHandler,
		taskHandler,
		commentHandler,
		fileHandler,
		notificationHandler,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Info("server listening", zap.String("addr", listenAddr))
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
