package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-cms-admin/internal/audit"
	"go-cms-admin/internal/catalog"
	"go-cms-admin/internal/handler"
	"go-cms-admin/internal/middleware"
	"go-cms-admin/internal/model"
	"go-cms-admin/internal/repository"
	"go-cms-admin/internal/service"
	"go-cms-admin/internal/ws"
	"go-cms-admin/pkg/database"
	"go-cms-admin/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	zapLogger, err := logger.New(os.Getenv("LOG_LEVEL"))
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer zapLogger.Sync()

	// 2. Setup Database
	db := database.ConnectDB()
	db.AutoMigrate(
		&model.Permission{},
		&model.Role{},
		&model.User{},
		&model.Content{},
		&model.ReviewRecord{},
		&model.AuditLog{},
	)

	// 3. Seed default catalog, roles, and admin user
	seedCatalogRolesAndAdmin(db)

	// 4. Compile the permission catalog into the in-process cache
	permissionRepo := repository.NewPermissionRepo(db)
	cache := catalog.NewCache()
	if perms, err := permissionRepo.FindAll(); err != nil {
		log.Printf("Warning: Failed to load permission catalog: %v", err)
	} else {
		cache.Swap(catalog.Compile(perms))
	}

	// 5. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 6. Dependency Injection (Wiring Layers)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	contentRepo := repository.NewContentRepo(db)
	reviewRepo := repository.NewReviewRecordRepo(db)
	auditLogRepo := repository.NewAuditLogRepo(db)

	geoClient := audit.NewGeoClient(os.Getenv("GEOIP_URL"), zapLogger)
	auditor := audit.NewAuditor(auditLogRepo, geoClient, zapLogger)

	authService := service.NewAuthService(userRepo, roleRepo, cache, auditor, zapLogger)
	permissionService := service.NewPermissionService(permissionRepo, cache, auditor, zapLogger)
	roleService := service.NewRoleService(roleRepo, permissionRepo, auditor)
	userService := service.NewUserService(userRepo, roleRepo, auditor)
	contentService := service.NewContentService(contentRepo, reviewRepo, db, auditor, wsHub)

	authHandler := handler.NewAuthHandler(authService)
	permissionHandler := handler.NewPermissionHandler(permissionService)
	roleHandler := handler.NewRoleHandler(roleService)
	userHandler := handler.NewUserHandler(userService)
	contentHandler := handler.NewContentHandler(contentService)
	logHandler := handler.NewLogHandler(auditLogRepo)

	// 7. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "CMS Admin v1.0",
	})

	// Middleware
	app.Use(fiberlogger.New()) // Logging request
	app.Use(recover.New())     // Panic recovery
	app.Use(cors.New())        // CORS

	// ============ PUBLIC ROUTES ============
	app.Post("/auth/login", authHandler.Login)

	// WebSocket Route (listed in the bypass set, registered before the gate)
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

	// ============ PROTECTED ROUTES ============
	// Everything below carries a valid credential; /admin paths additionally
	// need a matching allowed-path prefix.
	app.Use(middleware.Gate())

	app.Post("/auth/logout", authHandler.Logout)
	app.Get("/auth/me", authHandler.Me)

	admin := app.Group("/admin")

	// Content Routes (nested under the content menu paths)
	contents := admin.Group("/contents")
	contents.Get("/list", contentHandler.List)
	contents.Post("/list", contentHandler.Create)
	contents.Put("/list/:id", contentHandler.Update)
	contents.Delete("/list", middleware.RequirePermission("content:delete"), contentHandler.Delete)
	contents.Post("/list/:id/submit", contentHandler.Submit)
	contents.Post("/list/:id/review", middleware.RequirePermission("content:review"), contentHandler.Review)
	contents.Post("/list/:id/archive", middleware.RequirePermission("content:archive"), contentHandler.Archive)
	contents.Get("/list/:id/history", contentHandler.History)
	contents.Get("/preview/:id", contentHandler.Preview)

	// User Management Routes
	users := admin.Group("/users")
	users.Get("/list", userHandler.GetUsers)
	users.Get("/list/:id", userHandler.GetUser)
	users.Post("/list", middleware.RequirePermission("user:manage"), userHandler.CreateUser)
	users.Put("/list/:id", middleware.RequirePermission("user:manage"), userHandler.UpdateUser)
	users.Put("/list/:id/password", middleware.RequirePermission("user:manage"), userHandler.UpdatePassword)
	users.Delete("/list", middleware.RequirePermission("user:manage"), userHandler.DeleteUsers)

	// Role Routes
	users.Get("/roles", roleHandler.GetRoles)
	users.Post("/roles", middleware.RequirePermission("role:manage"), roleHandler.Create)
	users.Put("/roles/:id", middleware.RequirePermission("role:manage"), roleHandler.Update)
	users.Put("/roles/:id/status", middleware.RequirePermission("role:manage"), roleHandler.UpdateStatus)
	users.Put("/roles/:id/permissions", middleware.RequirePermission("role:manage"), roleHandler.ReplacePermissions)
	users.Delete("/roles", middleware.RequirePermission("role:manage"), roleHandler.Delete)

	// Permission Catalog Routes
	system := admin.Group("/system")
	system.Get("/permission", permissionHandler.GetTree)
	system.Post("/permission", middleware.RequirePermission("permission:manage"), permissionHandler.Create)
	system.Put("/permission/:id", middleware.RequirePermission("permission:manage"), permissionHandler.Update)
	system.Delete("/permission", middleware.RequirePermission("permission:manage"), permissionHandler.Delete)

	// Audit Log Routes
	system.Get("/logs", middleware.RequirePermission("log:view"), logHandler.GetLogs)

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

// seedCatalogRolesAndAdmin creates the default permission catalog, roles,
// and admin user if they don't exist
func seedCatalogRolesAndAdmin(db *gorm.DB) {
	permissionRepo := repository.NewPermissionRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	userRepo := repository.NewUserRepo(db)

	// 1. Seed the permission catalog first
	if err := permissionRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed permissions: %v", err)
	}

	// 2. Seed roles
	if err := roleRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed roles: %v", err)
	}

	// 3. Assign permissions to roles
	allPermissions, _ := permissionRepo.FindAll()

	// admin gets the full catalog
	adminRole, err := roleRepo.FindByCode(model.RoleAdmin)
	if err == nil && len(adminRole.Permissions) == 0 {
		db.Model(&adminRole).Association("Permissions").Replace(allPermissions)
		log.Println("✅ admin role assigned all permissions")
	}

	// editor works on content but never reviews or manages accounts
	editorRole, err := roleRepo.FindByCode(model.RoleEditor)
	if err == nil && len(editorRole.Permissions) == 0 {
		editorCodes := map[string]bool{
			"menu:dashboard":        true,
			"menu:contents":         true,
			"menu:contents:preview": true,
			"content:create":        true,
			"content:update":        true,
			"content:delete":        true,
			"content:viewPublished": true,
		}
		editorPermissions := []model.Permission{}
		for _, p := range allPermissions {
			if editorCodes[p.Code] {
				editorPermissions = append(editorPermissions, p)
			}
		}
		db.Model(&editorRole).Association("Permissions").Replace(editorPermissions)
		log.Println("✅ editor role assigned content permissions")
	}

	// viewer only reads published content
	viewerRole, err := roleRepo.FindByCode(model.RoleViewer)
	if err == nil && len(viewerRole.Permissions) == 0 {
		viewerCodes := map[string]bool{
			"menu:dashboard":        true,
			"menu:contents":         true,
			"menu:contents:preview": true,
		}
		viewerPermissions := []model.Permission{}
		for _, p := range allPermissions {
			if viewerCodes[p.Code] {
				viewerPermissions = append(viewerPermissions, p)
			}
		}
		db.Model(&viewerRole).Association("Permissions").Replace(viewerPermissions)
		log.Println("✅ viewer role assigned read-only permissions")
	}

	// 4. Create default admin user with the admin role's snapshot
	_, err = userRepo.FindByUsername("admin")
	if err != nil {
		adminRole, roleErr := roleRepo.FindByCode(model.RoleAdmin)
		if roleErr != nil {
			log.Printf("Warning: admin role missing, skipping admin user: %v", roleErr)
			return
		}

		admin := &model.User{
			Username:    "admin",
			Nickname:    "Administrator",
			Email:       "admin@example.com",
			RoleCode:    model.RoleAdmin,
			Status:      model.UserActive,
			Permissions: adminRole.Permissions,
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
			log.Println("✅ Admin user created: admin / admin123")
		}
	}
}
