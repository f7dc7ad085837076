package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/grandmeridian/room-ops-backend/internal/config"
	"github.com/grandmeridian/room-ops-backend/internal/database"
	"github.com/grandmeridian/room-ops-backend/internal/engine"
	"github.com/grandmeridian/room-ops-backend/internal/handlers"
	"github.com/grandmeridian/room-ops-backend/internal/middleware"
	"github.com/grandmeridian/room-ops-backend/internal/realtime"
	"github.com/grandmeridian/room-ops-backend/internal/services"
	"github.com/grandmeridian/room-ops-backend/internal/utils"
	"github.com/grandmeridian/room-ops-backend/pkg/jwt"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting Grand Meridian Room Operations Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize push stream broker
	logger.Info("Connecting to Redis...")
	redisClient := realtime.NewClient(cfg.Redis)
	defer redisClient.Close()

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := realtime.Ping(pingCtx, redisClient); err != nil {
		pingCancel()
		logger.Fatalf("Failed to ping Redis: %v", err)
	}
	pingCancel()
	logger.Info("Redis connection established")

	// Initialize repositories and store
	roomRepo := database.NewRoomRepository(db)
	ticketRepo := database.NewTicketRepository(db)
	activityRepo := database.NewActivityRepository(db)
	staffRepo := database.NewStaffRepository(db)
	hotelConfigRepo := database.NewHotelConfigRepository(db)

	publisher := realtime.NewPublisher(redisClient, logger)
	subscriber := realtime.NewSubscriber(redisClient, logger)

	store := database.NewStore(roomRepo, ticketRepo, activityRepo, staffRepo, publisher, subscriber, logger)

	// Initialize the reconciliation engine
	logger.Info("Starting reconciliation engine...")
	eng := engine.NewEngine(store, cfg.Alert.WelfareThreshold, logger)

	startCtx, startCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := eng.Start(startCtx); err != nil {
		startCancel()
		logger.Fatalf("Failed to start engine: %v", err)
	}
	startCancel()
	defer eng.Close()
	logger.Info("Reconciliation engine started")

	// Initialize and start the welfare alert scan
	alertService := services.NewAlertService(eng, cfg.Alert.ScanSchedule, logger)
	if err := alertService.Start(); err != nil {
		logger.Fatalf("Failed to start alert service: %v", err)
	}

	// Initialize services
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	// Initialize handlers
	roomHandler := handlers.NewRoomHandler(eng)
	ticketHandler := handlers.NewTicketHandler(eng)
	staffHandler := handlers.NewStaffHandler(eng)
	activityHandler := handlers.NewActivityHandler(eng)
	hotelConfigHandler := handlers.NewHotelConfigHandler(hotelConfigRepo)
	eventsHandler := handlers.NewEventsHandler(eng)

	// Initialize Gin router
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db, redisClient))

	// API v1 routes (all protected)
	v1 := router.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(jwtService))
	{
		// Room routes
		rooms := v1.Group("/rooms")
		{
			rooms.GET("", roomHandler.ListRooms)
			rooms.GET("/stats", roomHandler.Stats)
			rooms.GET("/attention", roomHandler.Attention)
			rooms.GET("/my-queue", roomHandler.MyQueue)
			rooms.GET("/:id", roomHandler.GetRoom)
			rooms.POST("/:id/advance", roomHandler.Advance)
			rooms.POST("/:id/status", roomHandler.SetStatus)
			rooms.POST("/:id/effort", roomHandler.SetEffort)
			rooms.GET("/:id/tickets", ticketHandler.ListRoomTickets)
			rooms.POST("/:id/tickets", ticketHandler.CreateTicket)

			// Supervisor-only room actions
			rooms.POST("/:id/assign", middleware.RequireSupervisor(), roomHandler.Assign)
			rooms.POST("/:id/priority", middleware.RequireSupervisor(), roomHandler.SetPriority)
		}

		// Ticket routes
		tickets := v1.Group("/tickets")
		{
			tickets.POST("/:id/resolve", middleware.RequireSupervisor(), ticketHandler.ResolveTicket)
		}

		// Staff routes
		staff := v1.Group("/staff")
		{
			staff.GET("", staffHandler.ListStaff)
			staff.GET("/:id/workload", staffHandler.Workload)
		}

		// Activity feed
		v1.GET("/activity", activityHandler.ListActivity)

		// Realtime snapshot stream
		v1.GET("/events", eventsHandler.Stream)

		// Hotel settings
		v1.GET("/hotel-config", hotelConfigHandler.GetConfig)
		v1.PUT("/hotel-config", middleware.RequireSupervisor(), hotelConfigHandler.UpdateConfig)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // SSE connections stay open
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	alertService.Stop()
	eng.Close()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		device := utils.ParseUserAgent(utils.GetUserAgent(c))

		fields := logrus.Fields{
			"status":      c.Writer.Status(),
			"method":      c.Request.Method,
			"path":        path,
			"query":       query,
			"ip":          utils.GetRealIP(c),
			"latency_ms":  latency.Milliseconds(),
			"device_type": device.DeviceType,
			"platform":    device.Platform,
		}

		// Add actor context if available
		if actor, exists := middleware.GetActor(c); exists {
			fields["staff_id"] = actor.ID
			fields["role"] = actor.Role
		}

		entry := logger.WithFields(fields)

		status := c.Writer.Status()
		switch {
		case len(c.Errors) > 0:
			entry.WithField("errors", c.Errors.String()).Error("Request failed with errors")
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB, redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Check database connection
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		// Check push stream broker
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		redisStatus := "healthy"
		if err := realtime.Ping(ctx, redisClient); err != nil {
			redisStatus = "unhealthy"
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"redis":     redisStatus,
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
