package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/taskman-app/taskman-api/config"
	"github.com/taskman-app/taskman-api/controllers"
	"github.com/taskman-app/taskman-api/middleware"
	"github.com/taskman-app/taskman-api/models"
	"github.com/taskman-app/taskman-api/services"
)

func main() {
	// Basic logging
	log.Println("Starting Taskman table-service API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.User{},
		&models.MenuItem{},
		&models.Order{},
		&models.Task{},
		&models.Bill{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	if cfg.SeedDB {
		if err := config.Seed(db); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
	}

	// Notification sink is optional; without NATS staff poll their queues
	var notifier services.Notifier
	if cfg.NATSUrl != "" {
		natsNotifier, err := services.NewNATSNotifier(cfg.NATSUrl)
		if err != nil {
			log.Fatalf("Failed to connect to NATS: %v", err)
		}
		defer natsNotifier.Close()
		notifier = natsNotifier
		log.Printf("Connected to NATS at %s", cfg.NATSUrl)
	} else {
		log.Println("NATS_URL not set, real-time notifications disabled")
	}

	// Image storage is optional; without a bucket upload routes are disabled
	var images services.ImageService
	if cfg.AWSS3Bucket != "" {
		s3Service, err := services.NewS3Service(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize S3: %v", err)
		}
		images = services.NewImageService(s3Service)
	} else {
		log.Println("AWS_S3_BUCKET not set, image uploads disabled")
	}

	tokens := middleware.NewTokenService(cfg.JWTSecret)
	router := newRouter(db, tokens, notifier, images)

	// Start server
	addr := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// newRouter wires services, controllers and routes onto a Gin engine.
func newRouter(db *gorm.DB, tokens *middleware.TokenService, notifier services.Notifier, images services.ImageService) *gin.Engine {
	taskService := services.NewTaskService(db, notifier)
	orderService := services.NewOrderService(db, taskService)
	billService := services.NewBillService(db)

	userController := controllers.NewUserController(db, tokens, images)
	menuItemController := controllers.NewMenuItemController(db, images)
	orderController := controllers.NewOrderController(orderService)
	taskController := controllers.NewTaskController(taskService)
	billController := controllers.NewBillController(billService)

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Authorization", "Content-Type"},
	}))

	authenticated := middleware.EnsureValidToken(tokens)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)

		users := v1.Group("/users")
		{
			users.POST("/sign-up", userController.SignUp)
			users.POST("/sign-in", userController.SignIn)
			users.GET("/:id", userController.GetUser)
			users.PATCH("", authenticated, userController.UpdateProfile)
			users.POST("/avatar", authenticated, userController.UploadAvatar)
			users.DELETE("/sign-out", authenticated, userController.SignOut)
		}

		menuItems := v1.Group("/menu-items")
		{
			menuItems.GET("", menuItemController.ListMenuItems)
			menuItems.GET("/:id", menuItemController.GetMenuItem)
			menuItems.POST("", authenticated, adminOnly, menuItemController.CreateMenuItem)
			menuItems.PATCH("/:id", authenticated, adminOnly, menuItemController.UpdateMenuItem)
			menuItems.DELETE("/:id", authenticated, adminOnly, menuItemController.DeleteMenuItem)
			menuItems.POST("/:id/image", authenticated, adminOnly, menuItemController.UploadMenuItemImage)
			menuItems.POST("/:id/comments", authenticated, menuItemController.AddComment)
			menuItems.POST("/:id/ratings", authenticated, menuItemController.RateMenuItem)
		}

		orders := v1.Group("/orders", authenticated)
		{
			orders.GET("", orderController.ListMyOrders)
			orders.POST("", orderController.SubmitOrder)
		}

		tasks := v1.Group("/tasks", authenticated)
		{
			tasks.GET("", taskController.ListTasks)
			tasks.POST("", taskController.RequestTask)
			tasks.POST("/:id/next", taskController.AdvanceTask)
		}

		bills := v1.Group("/bills", authenticated)
		{
			bills.GET("", billController.ListBills)
			bills.GET("/my-bill", billController.GetMyBill)
			bills.GET("/draft", billController.GetDraftBill)
			bills.GET("/:id", billController.GetBill)
			bills.POST("", billController.SettleBill)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Taskman API is running",
	})
}
