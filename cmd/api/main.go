package main

import (
	"log"
	"os"

	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/internal/config"
	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/internal/database"
	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/internal/handler"
	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/internal/middleware"
	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/internal/notifier"
	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/internal/repository"
	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/internal/service"
	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           RMV Stainless Steel Fabrication API
// @version         1.0
// @description     Order pipeline for custom stainless-steel fabrication: appointments, projects, staged payments.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "postgres"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	schedulingCfg := config.LoadScheduling()

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Notification fan-out: SMS to customers, live feed for staff dashboards
	notify := notifier.Multi{
		notifier.NewSMSNotifier(),
		notifier.NewFeedNotifier(wsHub),
	}

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	staffDirectory := service.NewStaffDirectory(userRepo)
	userService := service.NewUserService(userRepo, activityRepo)
	schedulingService := service.NewSchedulingService(schedulingCfg, appointmentRepo, staffDirectory, userRepo, txManager, activityRepo, notify)
	projectService := service.NewProjectService(projectRepo, paymentRepo, appointmentRepo, userRepo, txManager, activityRepo, notify)
	paymentService := service.NewPaymentService(paymentRepo, projectRepo, userRepo, txManager, activityRepo, notify)
	auditService := service.NewAuditService(activityRepo)

	// Daily appointment reminder sweep
	reminders := notifier.NewReminderScheduler(appointmentRepo, notify)
	reminders.Start()
	defer reminders.Stop()

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService)
	appointmentHandler := handler.NewAppointmentHandler(schedulingService)
	projectHandler := handler.NewProjectHandler(projectService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	auditHandler := handler.NewAuditHandler(auditService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	userHandler.RegisterRoutes(router.Group(""))
	appointmentHandler.RegisterRoutes(router.Group(""))
	projectHandler.RegisterRoutes(router.Group(""))
	paymentHandler.RegisterRoutes(router.Group(""))
	auditHandler.RegisterRoutes(router.Group(""))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
