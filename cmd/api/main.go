package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"go-socialstore-ws/internal/cache"
	"go-socialstore-ws/internal/handler"
	"go-socialstore-ws/internal/middleware"
	"go-socialstore-ws/internal/model"
	"go-socialstore-ws/internal/repository"
	"go-socialstore-ws/internal/service"
	"go-socialstore-ws/internal/ws"
	"go-socialstore-ws/pkg/database"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	db := database.ConnectDB()
	if err := db.AutoMigrate(
		&model.Product{}, &model.StockMovement{}, &model.Order{}, &model.Delivery{},
		&model.Candidature{}, &model.Donation{}, &model.Campaign{},
		&model.Notification{}, &model.User{}, &model.Privilege{}, &model.Role{},
	); err != nil {
		log.Fatal("Failed to migrate database: ", err)
	}

	seedPrivilegesRolesAndAdmin(db)

	wsHub := ws.NewHub()
	go wsHub.Run()

	stockCache := connectCache()

	productRepo := repository.NewProductRepo(db)
	movementRepo := repository.NewMovementRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	deliveryRepo := repository.NewDeliveryRepo(db)
	candidatureRepo := repository.NewCandidatureRepo(db)
	donationRepo := repository.NewDonationRepo(db)
	campaignRepo := repository.NewCampaignRepo(db)
	notificationRepo := repository.NewNotificationRepo(db)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	maxAttempts, _ := strconv.Atoi(os.Getenv("TX_MAX_ATTEMPTS"))
	atomic := repository.NewAtomic(db, maxAttempts)

	stockService := service.NewStockService(productRepo, movementRepo, atomic, wsHub, stockCache)
	donationService := service.NewDonationService(donationRepo, campaignRepo, productRepo, movementRepo, atomic, wsHub, stockCache)
	orderService := service.NewOrderService(orderRepo, deliveryRepo, productRepo, movementRepo, atomic, wsHub, stockCache)
	deliveryService := service.NewDeliveryService(deliveryRepo, notificationRepo, atomic, wsHub)
	candidatureService := service.NewCandidatureService(candidatureRepo, userRepo, atomic, wsHub)
	urgentService := service.NewUrgentService(orderRepo, deliveryRepo, productRepo, movementRepo, atomic, wsHub, stockCache)
	overviewService := service.NewOverviewService(orderRepo, candidatureRepo, deliveryRepo, movementRepo)
	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo, privilegeRepo, roleRepo)

	stockHandler := handler.NewStockHandler(stockService)
	donationHandler := handler.NewDonationHandler(donationService)
	orderHandler := handler.NewOrderHandler(orderService)
	deliveryHandler := handler.NewDeliveryHandler(deliveryService)
	candidatureHandler := handler.NewCandidatureHandler(candidatureService)
	urgentHandler := handler.NewUrgentHandler(urgentService)
	overviewHandler := handler.NewOverviewHandler(overviewService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)

	app := fiber.New(fiber.Config{
		AppName: "Social Store v1.0",
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", middleware.RequireAuth(userRepo), authHandler.Me)
	auth.Post("/heartbeat", middleware.RequireAuth(userRepo), authHandler.Heartbeat)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Overview
	protected.Get("/overview/pending", overviewHandler.GetPendingCounts)
	protected.Get("/overview/stock-flow", overviewHandler.GetStockFlow)

	// Stock
	protected.Get("/stock", middleware.RequirePrivilege("stock:view"), stockHandler.GetStock)
	protected.Post("/stock/entries", middleware.RequirePrivilege("stock:edit"), stockHandler.RegisterEntry)
	protected.Put("/stock/:id/batches/:index", middleware.RequirePrivilege("stock:edit"), stockHandler.EditBatch)
	protected.Delete("/stock/:id", middleware.RequirePrivilege("product:delete"), stockHandler.DeleteProduct)
	protected.Get("/stock/movements", middleware.RequirePrivilege("movement:view"), stockHandler.GetMovements)

	// Donations
	protected.Post("/donations", middleware.RequirePrivilege("donation:create"), donationHandler.Register)
	protected.Get("/donations", middleware.RequirePrivilege("donation:view"), donationHandler.GetDonations)
	protected.Post("/campaigns", middleware.RequirePrivilege("donation:create"), donationHandler.CreateCampaign)
	protected.Get("/campaigns", middleware.RequirePrivilege("donation:view"), donationHandler.GetCampaigns)

	// Orders
	protected.Post("/orders", orderHandler.Submit)
	protected.Get("/orders", middleware.RequirePrivilege("order:review"), orderHandler.GetOrders)
	protected.Post("/orders/:id/approve", middleware.RequirePrivilege("order:review"), orderHandler.Approve)
	protected.Post("/orders/:id/reject", middleware.RequirePrivilege("order:review"), orderHandler.Reject)

	// Deliveries
	protected.Get("/deliveries", middleware.RequirePrivilege("delivery:review"), deliveryHandler.GetDeliveries)
	protected.Post("/deliveries/:id/approve", middleware.RequirePrivilege("delivery:review"), deliveryHandler.Approve)
	protected.Post("/deliveries/:id/reject", middleware.RequirePrivilege("delivery:review"), deliveryHandler.Reject)

	// Candidatures
	protected.Post("/candidatures", candidatureHandler.Submit)
	protected.Get("/candidatures", middleware.RequirePrivilege("candidature:review"), candidatureHandler.GetCandidatures)
	protected.Post("/candidatures/:id/approve", middleware.RequirePrivilege("candidature:review"), candidatureHandler.Approve)
	protected.Post("/candidatures/:id/reject", middleware.RequirePrivilege("candidature:review"), candidatureHandler.Reject)

	// Urgent walk-in fulfillment
	protected.Post("/urgent-deliveries", middleware.RequirePrivilege("urgent:create"), urgentHandler.Fulfill)

	// Users
	protected.Get("/users", middleware.RequirePrivilege("user:view"), userHandler.GetUsers)
	protected.Get("/users/:id", middleware.RequirePrivilege("user:view"), userHandler.GetUser)
	protected.Post("/users", middleware.RequirePrivilege("user:create"), userHandler.CreateUser)
	protected.Put("/users/:id/privileges", middleware.RequirePrivilege("user:update"), userHandler.UpdatePrivileges)

	protected.Get("/roles", func(c *fiber.Ctx) error {
		roles, err := roleRepo.FindAll()
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch roles"})
		}
		return c.JSON(roles)
	})
	protected.Get("/privileges", func(c *fiber.Ctx) error {
		privileges, err := privilegeRepo.FindAll()
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch privileges"})
		}
		return c.JSON(privileges)
	})

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}
	log.Println("Server exited")
}

// connectCache wires Redis when configured and degrades to a no-op cache
// otherwise. The cache is read-through only, so running without it is safe.
func connectCache() cache.StockCache {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		log.Println("REDIS_ADDR not set, stock listing cache disabled")
		return cache.NoopStockCache{}
	}

	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisCache := cache.NewRedisStockCache(addr, os.Getenv("REDIS_PASSWORD"), redisDB)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := redisCache.Ping(ctx); err != nil {
		log.Printf("Warning: redis unreachable (%v), stock listing cache disabled", err)
		return cache.NoopStockCache{}
	}

	log.Println("Redis cache connected")
	return redisCache
}

// seedPrivilegesRolesAndAdmin creates default privileges, roles, and admin user if they don't exist
func seedPrivilegesRolesAndAdmin(db *gorm.DB) {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	if err := privilegeRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed privileges: %v", err)
	}
	if err := roleRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed roles: %v", err)
	}

	allPrivileges, _ := privilegeRepo.FindAll()

	// MASTER_ADMIN gets ALL privileges
	masterRole, err := roleRepo.FindByCode(model.RoleMasterAdmin)
	if err == nil && len(masterRole.Privileges) == 0 {
		db.Model(&masterRole).Association("Privileges").Replace(allPrivileges)
		log.Println("MASTER_ADMIN role assigned all privileges")
	}

	// VOLUNTEER runs the daily store but cannot manage accounts or walk-ins
	volunteerRole, err := roleRepo.FindByCode(model.RoleVolunteer)
	if err == nil && len(volunteerRole.Privileges) == 0 {
		volunteerPrivileges := []model.Privilege{}
		for _, p := range allPrivileges {
			switch p.Code {
			case "user:view", "user:create", "user:update", "urgent:create":
				continue
			}
			volunteerPrivileges = append(volunteerPrivileges, p)
		}
		db.Model(&volunteerRole).Association("Privileges").Replace(volunteerPrivileges)
		log.Println("VOLUNTEER role assigned store privileges")
	}

	if _, err := userRepo.FindByEmail("admin@example.com"); err != nil {
		masterRole, _ := roleRepo.FindByCode(model.RoleMasterAdmin)

		admin := &model.User{
			Email:      "admin@example.com",
			FullName:   "Master Administrator",
			RoleID:     &masterRole.ID,
			IsActive:   true,
			Privileges: masterRole.Privileges,
		}
		admin.CreatedBy = "system"
		admin.UpdatedBy = "system"

		if err := admin.SetPassword("admin123"); err != nil {
			log.Printf("Warning: Failed to hash admin password: %v", err)
			return
		}
		if err := userRepo.Create(admin); err != nil {
			log.Printf("Warning: Failed to create admin user: %v", err)
		} else {
			log.Println("Admin user created: admin@example.com / admin123 (MASTER_ADMIN)")
		}
	}
}
