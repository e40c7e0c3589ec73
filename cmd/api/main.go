package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-pos-backoffice/internal/handler"
	"go-pos-backoffice/internal/middleware"
	"go-pos-backoffice/internal/model"
	"go-pos-backoffice/internal/repository"
	"go-pos-backoffice/internal/service"
	"go-pos-backoffice/internal/ws"
	"go-pos-backoffice/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	db.AutoMigrate(
		&model.Product{},
		&model.StockMovement{},
		&model.User{},
		&model.Employee{},
		&model.Client{},
		&model.Privilege{},
		&model.Role{},
	)

	// 3. Seed default privileges, roles, and admin user
	seedPrivilegesRolesAndAdmin(db)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	movementRepo := repository.NewMovementRepo(db)
	userRepo := repository.NewUserRepo(db)
	employeeRepo := repository.NewEmployeeRepo(db)
	clientRepo := repository.NewClientRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	invService := service.NewInventoryService(productRepo, movementRepo, db, wsHub)
	salesService := service.NewSalesService(productRepo, movementRepo, db, wsHub)
	dashService := service.NewDashboardService(movementRepo)
	authService := service.NewAuthService(userRepo, wsHub)
	userService := service.NewUserService(userRepo, employeeRepo, privilegeRepo, roleRepo, db)
	clientService := service.NewClientService(clientRepo)

	invHandler := handler.NewInventoryHandler(invService)
	salesHandler := handler.NewSalesHandler(salesService)
	dashHandler := handler.NewDashboardHandler(dashService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	clientHandler := handler.NewClientHandler(clientService)
	roleHandler := handler.NewRoleHandler(roleRepo)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "POS Backoffice v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	// Auth Routes (No authentication required)
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Post("/heartbeat", middleware.RequireAuth(userRepo), authHandler.Heartbeat)

	// ============ PROTECTED ROUTES ============
	// All routes below require authentication
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Dashboard Routes
	protected.Get("/dashboard/stats", middleware.RequirePrivilege("dashboard:view"), dashHandler.GetDashboardStats)
	protected.Get("/dashboard/stock-movement", middleware.RequirePrivilege("dashboard:view"), dashHandler.GetStockMovement)
	protected.Get("/dashboard/financial", middleware.RequirePrivilege("dashboard:view"), dashHandler.GetFinancialStats)

	// Product Routes (with privilege checks)
	protected.Get("/products", invHandler.GetProducts)
	protected.Get("/products/:id", invHandler.GetProduct)
	protected.Post("/products", middleware.RequirePrivilege("product:create"), invHandler.CreateProduct)
	protected.Put("/products/:id", middleware.RequirePrivilege("product:update"), invHandler.UpdateProduct)
	protected.Delete("/products/:id", middleware.RequirePrivilege("product:delete"), invHandler.DeleteProduct)
	protected.Post("/products/import", middleware.RequirePrivilege("product:import"), invHandler.ImportInvoice)

	// Sales Routes
	protected.Post("/sales/checkout", middleware.RequirePrivilege("sale:create"), salesHandler.Checkout)

	// Stock Movement Routes
	protected.Get("/movements", middleware.RequirePrivilege("movement:view"), invHandler.GetMovements)
	protected.Get("/movements/:id", middleware.RequirePrivilege("movement:view"), invHandler.GetMovement)

	// Client Routes
	protected.Get("/clients", middleware.RequirePrivilege("client:view"), clientHandler.GetClients)
	protected.Get("/clients/:id", middleware.RequirePrivilege("client:view"), clientHandler.GetClient)
	protected.Post("/clients", middleware.RequirePrivilege("client:create"), clientHandler.CreateClient)
	protected.Put("/clients/:id", middleware.RequirePrivilege("client:update"), clientHandler.UpdateClient)
	protected.Delete("/clients/:id", middleware.RequirePrivilege("client:delete"), clientHandler.DeleteClient)

	// User Management Routes (with privilege checks)
	protected.Get("/users", middleware.RequirePrivilege("user:view"), userHandler.GetUsers)
	protected.Get("/users/:id", middleware.RequirePrivilege("user:view"), userHandler.GetUser)
	protected.Post("/users", middleware.RequirePrivilege("user:create"), userHandler.CreateUser)
	protected.Put("/users/:id", middleware.RequirePrivilege("user:update"), userHandler.UpdateUser)
	protected.Delete("/users/:id", middleware.RequirePrivilege("user:delete"), userHandler.DeleteUser)
	protected.Put("/users/:id/privileges", middleware.RequirePrivilege("user:update_privilege"), userHandler.UpdateUserPrivileges)

	// Role Routes
	protected.Get("/roles", roleHandler.GetRoles)

	// Privileges Route (list all available privileges)
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
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedPrivilegesRolesAndAdmin creates default privileges, roles, and the
// protected admin user if they don't exist yet
func seedPrivilegesRolesAndAdmin(db *gorm.DB) {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	// 1. Seed privileges first
	if err := privilegeRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed privileges: %v", err)
	}

	// 2. Seed roles
	if err := roleRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed roles: %v", err)
	}

	// 3. Assign privileges to roles
	allPrivileges, _ := privilegeRepo.FindAll()

	// ADMIN gets ALL privileges
	adminRole, err := roleRepo.FindByCode(model.RoleAdmin)
	if err == nil && len(adminRole.Privileges) == 0 {
		db.Model(&adminRole).Association("Privileges").Replace(allPrivileges)
		log.Println("ADMIN role assigned all privileges")
	}

	// MANAGER gets everything except user administration
	managerRole, err := roleRepo.FindByCode(model.RoleManager)
	if err == nil && len(managerRole.Privileges) == 0 {
		managerPrivileges := []model.Privilege{}
		for _, p := range allPrivileges {
			switch p.Code {
			case "user:create", "user:delete", "user:update_privilege":
				continue
			}
			managerPrivileges = append(managerPrivileges, p)
		}
		db.Model(&managerRole).Association("Privileges").Replace(managerPrivileges)
		log.Println("MANAGER role assigned store privileges")
	}

	// STAFF only sells and browses the catalog
	staffRole, err := roleRepo.FindByCode(model.RoleStaff)
	if err == nil && len(staffRole.Privileges) == 0 {
		staffCodes := map[string]bool{
			"product:view":   true,
			"sale:create":    true,
			"sale:view":      true,
			"client:view":    true,
			"dashboard:view": true,
		}
		staffPrivileges := []model.Privilege{}
		for _, p := range allPrivileges {
			if staffCodes[p.Code] {
				staffPrivileges = append(staffPrivileges, p)
			}
		}
		db.Model(&staffRole).Association("Privileges").Replace(staffPrivileges)
		log.Println("STAFF role assigned point-of-sale privileges")
	}

	// 4. Create the protected admin account
	_, err = userRepo.FindByEmail("admin@example.com")
	if err != nil {
		adminRole, _ := roleRepo.FindByCode(model.RoleAdmin)

		admin := &model.User{
			Email:       "admin@example.com",
			FullName:    "Administrator",
			PhoneNumber: "",
			RoleID:      &adminRole.ID,
			IsActive:    true,
			Protected:   true,
			Privileges:  adminRole.Privileges,
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
			log.Println("Admin user created: admin@example.com / admin123 (ADMIN, protected)")
		}
	}
}
