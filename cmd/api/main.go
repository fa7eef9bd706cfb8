package main

import (
	"context"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/api/handlers"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/api/middleware"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/api/routes"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/domain/activity"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/domain/analytics"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/domain/notification"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/domain/project"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/domain/task"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/domain/timelog"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/domain/user"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/infrastructure/cache"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/infrastructure/persistence/postgres/connection"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/infrastructure/persistence/postgres/migrations"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/pkg/config"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/pkg/logger"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/pkg/security/auth"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

// RequestLoggerMiddleware logs all incoming HTTP requests
func RequestLoggerMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		log.Info("Request completed",
			zap.String("path", path),
			zap.String("method", method),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func main() {
	cfg, err := config.LoadConfig("")
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}

	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Configuration loaded successfully")
	log.Info("Server mode: " + cfg.Server.Mode)

	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	gin.DefaultWriter = os.Stdout

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLoggerMiddleware(log))
	router.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORS.AllowedOrigins,
		AllowMethods: cfg.CORS.AllowedMethods,
		AllowHeaders: append(cfg.CORS.AllowedHeaders,
			"Accept-Encoding",
			"Content-Type",
			"Authorization",
			"X-Forwarded-For",
			"X-Real-IP",
		),
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Content-Disposition"},
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Connect to database and migrate
	db, err := connection.NewDatabase(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := migrations.AutoMigrate(db, log.Logger); err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Connect to Redis
	redisConfig := cache.NewConfigFromEnv(cfg)
	redisClient, err := cache.NewRedisClient(redisConfig)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Notification domain logs through logrus
	notificationLogger := logrus.New()
	notificationLogger.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Server.Mode == "production" {
		notificationLogger.SetLevel(logrus.InfoLevel)
	} else {
		notificationLogger.SetLevel(logrus.DebugLevel)
	}

	// Repositories
	userRepo := user.NewRepository(db)
	taskRepo := task.NewRepository(db)
	projectRepo := project.NewRepository(db)
	timelogRepo := timelog.NewRepository(db)
	notificationRepo := notification.NewRepository(db)
	activityRepo := activity.NewRepository(db)

	// Notification service and the notifier used by the other domains
	notificationService := notification.NewService(notification.ServiceConfig{
		Repository: notificationRepo,
		Logger:     notificationLogger,
	})
	notifier := notification.NewDomainNotifier(notificationService, notificationLogger)

	// Services. The user and task services reference each other through
	// narrow interfaces, so the user service is built first without the
	// cascade and rebuilt once the task service exists.
	bootstrapUsers := user.NewService(userRepo, nil, log.Logger)
	taskService := task.NewService(taskRepo, bootstrapUsers, notifier, activityRepo, timelogRepo, redisClient, log.Logger)
	userService := user.NewService(userRepo, taskService, log.Logger)
	projectService := project.NewService(projectRepo, taskService, activityRepo, redisClient, log.Logger)
	timelogService := timelog.NewService(timelogRepo, taskRepo, userRepo, log.Logger)
	analyticsService := analytics.NewService(taskRepo, projectRepo, userRepo, timelogRepo, redisClient, log.Logger)

	// Invalidate analytics rollups whenever a dashboard event arrives
	watchCtx, stopWatching := context.WithCancel(context.Background())
	defer stopWatching()
	go analyticsService.WatchInvalidation(watchCtx, redisClient)

	jwtService := auth.NewJWTService(cfg)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, jwtService)
	userHandler := handlers.NewUserHandler(userService)
	taskHandler := handlers.NewTaskHandler(taskService, userService)
	projectHandler := handlers.NewProjectHandler(projectService)
	timelogHandler := handlers.NewTimelogHandler(timelogService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	activityHandler := handlers.NewActivityHandler(activityRepo)

	metrics := middleware.NewMetricsMiddleware()

	// Routes
	routes.SetupHealthRoutes(router)
	routes.NewAuthRoutes(authHandler, jwtService).RegisterRoutes(router)
	routes.NewUserRoutes(userHandler, authHandler, jwtService).RegisterRoutes(router, metrics)
	routes.NewTaskRoutes(taskHandler, jwtService).RegisterRoutes(router, metrics)
	routes.NewProjectRoutes(projectHandler, jwtService).RegisterRoutes(router, metrics)
	routes.NewTimelogRoutes(timelogHandler, jwtService).RegisterRoutes(router, metrics)
	routes.NewAnalyticsRoutes(analyticsHandler, jwtService).RegisterRoutes(router, metrics)
	routes.NewNotificationRoutes(notificationHandler, jwtService).RegisterRoutes(router, metrics)
	routes.NewActivityRoutes(activityHandler, jwtService).RegisterRoutes(router, metrics)

	for _, route := range router.Routes() {
		log.Info("Route registered",
			zap.String("method", route.Method),
			zap.String("path", route.Path),
		)
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Info(fmt.Sprintf("Server starting on port %d", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	log.Info("Shutting down server...")
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited properly")
}
