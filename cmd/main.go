package main

import (
	"pos-service/internal/authz"
	"pos-service/internal/handler"
	"pos-service/internal/middleware"
	"pos-service/internal/model"
	"pos-service/internal/tenant"
	"pos-service/pkg/config"
	"pos-service/pkg/database"
	"pos-service/pkg/jwtutil"
	"pos-service/pkg/logger"
	"pos-service/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	if err := logger.InitLogger(cfg); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	log.Info("Starting point-of-sale service...", zap.String("environment", cfg.Server.Env))

	// Initialize database
	if _, err := database.InitDB(&cfg.DB); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	if err := database.MigrateModels(
		&model.Tenant{},
		&model.User{},
		&model.Product{},
		&model.Category{},
		&model.Inventory{},
		&model.Customer{},
		&model.Client{},
		&model.Employee{},
		&model.Supplier{},
		&model.Transaction{},
		&model.TransactionItem{},
		&model.Settings{},
	); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database migrations applied")

	// Initialize JWT utility
	jwtutil.Initialize(&cfg.JWT)
	log.Info("JWT utility initialized")

	// Handler behavior (error detail exposure) depends on environment
	handler.Configure(cfg)

	// Tenant resolver walks subdomain, header, query parameter and,
	// outside production, a configured default store.
	resolver := tenant.NewResolver(
		tenant.NewStore(database.GetDB()),
		cfg.Tenant.DefaultSubdomain,
		cfg.Server.IsProduction(),
	)

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())
	e.Use(middleware.TenantContext(resolver))

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	// Store sign-up is public and not tenant-scoped
	e.POST("/api/tenants/register", handler.RegisterStore)

	// Authentication routes - tenant-scoped but unauthenticated
	auth := e.Group("/auth")
	auth.Use(middleware.RequireTenantContext)
	auth.POST("/login", handler.Login)
	auth.POST("/register", handler.Register)

	// API routes - all require authentication, a resolved tenant and a
	// token belonging to that tenant
	api := e.Group("/api")
	api.Use(middleware.AuthMiddleware)
	api.Use(middleware.RequireTenantContext)
	api.Use(middleware.CrossTenantGuard)

	// Profile
	api.GET("/profile", handler.GetProfile)
	api.PATCH("/profile", handler.UpdateProfile)
	api.POST("/change-password", handler.ChangePassword)

	// Tenant info and administration
	api.GET("/tenant", handler.GetTenantInfo, authz.Require(authz.ResourceTenant, authz.OpRead))
	api.PATCH("/tenant", handler.UpdateTenant, authz.Require(authz.ResourceTenant, authz.OpUpdate))

	// User management
	users := api.Group("/users")
	users.GET("", handler.ListUsers, authz.Require(authz.ResourceUsers, authz.OpRead))
	users.POST("", handler.CreateUser, authz.Require(authz.ResourceUsers, authz.OpCreate))
	users.PATCH("/:id", handler.UpdateUser, authz.Require(authz.ResourceUsers, authz.OpUpdate))
	users.DELETE("/:id", handler.DeleteUser, authz.Require(authz.ResourceUsers, authz.OpDelete))

	// Products
	products := api.Group("/products")
	products.GET("", handler.ListProducts, authz.Require(authz.ResourceProducts, authz.OpRead))
	products.GET("/:id", handler.GetProduct, authz.Require(authz.ResourceProducts, authz.OpRead))
	products.POST("", handler.CreateProduct, authz.Require(authz.ResourceProducts, authz.OpCreate))
	products.PUT("/:id", handler.UpdateProduct, authz.Require(authz.ResourceProducts, authz.OpUpdate))
	products.DELETE("/:id", handler.DeleteProduct, authz.Require(authz.ResourceProducts, authz.OpDelete))

	// Categories
	categories := api.Group("/categories")
	categories.GET("", handler.ListCategories, authz.Require(authz.ResourceCategories, authz.OpRead))
	categories.POST("", handler.CreateCategory, authz.Require(authz.ResourceCategories, authz.OpCreate))
	categories.PUT("/:id", handler.UpdateCategory, authz.Require(authz.ResourceCategories, authz.OpUpdate))
	categories.DELETE("/:id", handler.DeleteCategory, authz.Require(authz.ResourceCategories, authz.OpDelete))

	// Inventory ledger
	inventory := api.Group("/inventory")
	inventory.GET("", handler.ListInventory, authz.Require(authz.ResourceInventory, authz.OpRead))
	inventory.POST("", handler.CreateInventory, authz.Require(authz.ResourceInventory, authz.OpCreate))
	inventory.PATCH("/:id", handler.UpdateInventory, authz.Require(authz.ResourceInventory, authz.OpUpdate))
	inventory.DELETE("/:id", handler.DeleteInventory, authz.Require(authz.ResourceInventory, authz.OpDelete))

	// Customers
	customers := api.Group("/customers")
	customers.GET("", handler.ListCustomers, authz.Require(authz.ResourceCustomers, authz.OpRead))
	customers.GET("/:id", handler.GetCustomer, authz.Require(authz.ResourceCustomers, authz.OpRead))
	customers.POST("", handler.CreateCustomer, authz.Require(authz.ResourceCustomers, authz.OpCreate))
	customers.PATCH("/:id", handler.UpdateCustomer, authz.Require(authz.ResourceCustomers, authz.OpUpdate))
	customers.DELETE("/:id", handler.DeleteCustomer, authz.Require(authz.ResourceCustomers, authz.OpDelete))

	// Clients
	clients := api.Group("/clients")
	clients.GET("", handler.ListClients, authz.Require(authz.ResourceClients, authz.OpRead))
	clients.GET("/:id", handler.GetClient, authz.Require(authz.ResourceClients, authz.OpRead))
	clients.POST("", handler.CreateClient, authz.Require(authz.ResourceClients, authz.OpCreate))
	clients.PATCH("/:id", handler.UpdateClient, authz.Require(authz.ResourceClients, authz.OpUpdate))
	clients.DELETE("/:id", handler.DeleteClient, authz.Require(authz.ResourceClients, authz.OpDelete))

	// Employees
	employees := api.Group("/employees")
	employees.GET("", handler.ListEmployees, authz.Require(authz.ResourceEmployees, authz.OpRead))
	employees.GET("/:id", handler.GetEmployee, authz.Require(authz.ResourceEmployees, authz.OpRead))
	employees.POST("", handler.CreateEmployee, authz.Require(authz.ResourceEmployees, authz.OpCreate))
	employees.PUT("/:id", handler.UpdateEmployee, authz.Require(authz.ResourceEmployees, authz.OpUpdate))
	employees.DELETE("/:id", handler.DeleteEmployee, authz.Require(authz.ResourceEmployees, authz.OpDelete))

	// Suppliers
	suppliers := api.Group("/suppliers")
	suppliers.GET("", handler.ListSuppliers, authz.Require(authz.ResourceSuppliers, authz.OpRead))
	suppliers.GET("/:id", handler.GetSupplier, authz.Require(authz.ResourceSuppliers, authz.OpRead))
	suppliers.POST("", handler.CreateSupplier, authz.Require(authz.ResourceSuppliers, authz.OpCreate))
	suppliers.PUT("/:id", handler.UpdateSupplier, authz.Require(authz.ResourceSuppliers, authz.OpUpdate))
	suppliers.DELETE("/:id", handler.DeleteSupplier, authz.Require(authz.ResourceSuppliers, authz.OpDelete))

	// Transactions (checkout, history, refunds)
	transactions := api.Group("/transactions")
	transactions.GET("", handler.ListTransactions, authz.Require(authz.ResourceTransactions, authz.OpRead))
	transactions.GET("/:id", handler.GetTransaction, authz.Require(authz.ResourceTransactions, authz.OpRead))
	transactions.POST("", handler.CreateTransaction, authz.Require(authz.ResourceTransactions, authz.OpCreate))
	transactions.PATCH("/:id/status", handler.UpdateTransactionStatus, authz.Require(authz.ResourceTransactions, authz.OpUpdate))

	// Settings
	api.GET("/settings", handler.GetSettings, authz.Require(authz.ResourceSettings, authz.OpRead))
	api.PUT("/settings", handler.UpdateSettings, authz.Require(authz.ResourceSettings, authz.OpUpdate))

	// Reports
	reports := api.Group("/reports")
	reports.Use(authz.Require(authz.ResourceReports, authz.OpRead))
	reports.GET("/sales", handler.SalesReport)
	reports.GET("/low-stock", handler.LowStockReport)
	reports.GET("/top-products", handler.TopProductsReport)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
