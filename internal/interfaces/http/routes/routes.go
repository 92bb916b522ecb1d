// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/your-org/church-inventory-backend/internal/config"
	"github.com/your-org/church-inventory-backend/internal/interfaces/http/handlers"
	"github.com/your-org/church-inventory-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// SetupRoutes wires every route group under the API base group
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	SetupAuthRoutes(rg, db, redisClient, cfg)
	SetupCategoryRoutes(rg, db, redisClient, cfg)
	SetupMinistryRoutes(rg, db, redisClient, cfg)
	SetupItemRoutes(rg, db, redisClient, cfg)
	SetupCheckoutRoutes(rg, db, redisClient, cfg)
	SetupAdminRoutes(rg, db, redisClient, cfg)
}

// SetupAuthRoutes sets up authentication related routes
func SetupAuthRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(db, cfg)

	auth := rg.Group("/auth")
	{
		// Public auth endpoints
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)

		// Protected auth endpoints
		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.POST("/logout", authHandler.Logout)
			protected.GET("/profile", authHandler.GetProfile)
			protected.PUT("/profile", authHandler.UpdateProfile)
			protected.GET("/me", authHandler.GetCurrentUser)
			protected.GET("/validate", authHandler.ValidateToken)
		}
	}
}

// SetupCategoryRoutes sets up category related routes
func SetupCategoryRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	categoryHandler := handlers.NewCategoryHandler(db, cfg)

	categories := rg.Group("/categories")
	categories.Use(middleware.AuthMiddleware(cfg))
	{
		// Reads are open to every authenticated user
		categories.GET("", categoryHandler.GetCategories)
		categories.GET("/tree", categoryHandler.GetCategoryTree)
		categories.GET("/:id", categoryHandler.GetCategory)

		// Writes require staff privileges
		staff := categories.Group("")
		staff.Use(middleware.StaffMiddleware())
		{
			staff.POST("", categoryHandler.CreateCategory)
			staff.PUT("/:id", categoryHandler.UpdateCategory)
			staff.DELETE("/:id", categoryHandler.DeleteCategory)
		}
	}
}

// SetupMinistryRoutes sets up ministry area related routes
func SetupMinistryRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	ministryHandler := handlers.NewMinistryHandler(db, cfg)

	areas := rg.Group("/ministry-areas")
	areas.Use(middleware.AuthMiddleware(cfg))
	{
		areas.GET("", ministryHandler.GetMinistryAreas)
		areas.GET("/:id", ministryHandler.GetMinistryArea)

		staff := areas.Group("")
		staff.Use(middleware.StaffMiddleware())
		{
			staff.POST("", ministryHandler.CreateMinistryArea)
			staff.PUT("/:id", ministryHandler.UpdateMinistryArea)
			staff.DELETE("/:id", ministryHandler.DeleteMinistryArea)
		}
	}
}

// SetupItemRoutes sets up item, transaction and maintenance routes
func SetupItemRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	itemHandler := handlers.NewItemHandler(db, cfg)
	maintenanceHandler := handlers.NewMaintenanceHandler(db, cfg)
	checkoutHandler := handlers.NewCheckoutHandler(db, cfg)

	items := rg.Group("/items")
	items.Use(middleware.AuthMiddleware(cfg))
	{
		items.GET("", itemHandler.ListItems)
		items.GET("/:id", itemHandler.GetItem)
		items.GET("/barcode/:barcode", itemHandler.GetItemByBarcode)
		items.GET("/:id/availability", checkoutHandler.GetAvailability)

		// The ledger is readable by anyone who can see the item
		items.GET("/:id/transactions", itemHandler.GetTransactions)
		items.GET("/:id/maintenance", maintenanceHandler.GetMaintenanceRecords)

		staff := items.Group("")
		staff.Use(middleware.StaffMiddleware())
		{
			staff.POST("", itemHandler.CreateItem)
			staff.PUT("/:id", itemHandler.UpdateItem)
			staff.DELETE("/:id", itemHandler.DeleteItem)

			// Stock changes only happen here, never through item updates
			staff.POST("/:id/transactions", itemHandler.RecordTransaction)

			staff.POST("/:id/maintenance", maintenanceHandler.CreateMaintenanceRecord)
			staff.PUT("/:id/maintenance/:recordId", maintenanceHandler.UpdateMaintenanceRecord)
			staff.DELETE("/:id/maintenance/:recordId", maintenanceHandler.DeleteMaintenanceRecord)
		}
	}

	maintenance := rg.Group("/maintenance")
	maintenance.Use(middleware.AuthMiddleware(cfg))
	maintenance.Use(middleware.StaffMiddleware())
	{
		maintenance.GET("/upcoming", maintenanceHandler.GetUpcomingMaintenance)
	}
}

// SetupCheckoutRoutes sets up checkout related routes
func SetupCheckoutRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	checkoutHandler := handlers.NewCheckoutHandler(db, cfg)

	checkouts := rg.Group("/checkouts")
	checkouts.Use(middleware.AuthMiddleware(cfg))
	{
		checkouts.POST("", checkoutHandler.Checkout)
		checkouts.GET("/my", checkoutHandler.ListMyCheckouts)
		checkouts.GET("/:id", checkoutHandler.GetCheckout)
		checkouts.PUT("/:id/checkin", checkoutHandler.CheckIn)

		staff := checkouts.Group("")
		staff.Use(middleware.StaffMiddleware())
		{
			staff.GET("", checkoutHandler.ListCheckouts)
		}
	}
}

// SetupAdminRoutes sets up admin related routes
func SetupAdminRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	userAdminHandler := handlers.NewUserAdminHandler(db, cfg)
	analyticsHandler := handlers.NewAnalyticsHandler(db, cfg)

	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg)) // Require authentication
	admin.Use(middleware.AdminMiddleware())   // Require admin privileges
	{
		// User management
		users := admin.Group("/users")
		{
			users.GET("", userAdminHandler.ListUsers)
			users.PUT("/:id/role", userAdminHandler.UpdateUserRole)
			users.PUT("/:id/activate", userAdminHandler.ActivateUser)
			users.PUT("/:id/deactivate", userAdminHandler.DeactivateUser)
		}

		// Analytics
		analytics := admin.Group("/analytics")
		{
			analytics.GET("/dashboard", analyticsHandler.GetDashboard)
			analytics.GET("/transactions", analyticsHandler.GetTransactionSummary)
			analytics.GET("/low-stock", analyticsHandler.GetLowStockItems)
			analytics.GET("/value-by-ministry", analyticsHandler.GetValueByMinistryArea)
		}
	}
}
