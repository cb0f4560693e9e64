package main

import (
	"log"
	"os"
	"time"

	"go-pos-sync/internal/database"
	"go-pos-sync/internal/handlers"
	"go-pos-sync/internal/logger"
	"go-pos-sync/internal/middleware"
	syncpkg "go-pos-sync/internal/sync"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// The local tier: embedded sqlite store plus the HTTP API the desktop
// shell talks to. Startup order matters: schema first (fatal if it fails),
// then bootstrap accounts (logged if it fails), then the sync engine.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found")
	}

	zlog := logger.New()
	defer zlog.Sync()

	dbPath := os.Getenv("LOCAL_DB_PATH")
	if dbPath == "" {
		dbPath = "pos.db"
	}

	db, err := database.Open(dbPath, zlog)
	if err != nil {
		zlog.Fatal("local store unavailable", zap.Error(err))
	}

	// Survivable: the app runs with no accounts until an operator fixes it.
	if err := database.EnsureBootstrapAccounts(db, zlog); err != nil {
		zlog.Error("bootstrap accounts failed", zap.Error(err))
	}

	cloudURL := os.Getenv("CLOUD_URL")
	if cloudURL == "" {
		cloudURL = "http://localhost:9090"
	}
	engine := syncpkg.NewEngine(db, syncpkg.NewHTTPClient(cloudURL), zlog)
	handlers.SetSyncEngine(engine)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "online"}) })
	r.POST("/login", handlers.Login)
	r.Static("/uploads", "./uploads")

	// Activation must work before anyone can log in usefully.
	r.GET("/api/system/status", handlers.GetSystemStatus)
	r.POST("/api/system/activate", handlers.ActivateLicense)

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		api.POST("/sync", middleware.RequirePermission("settings", middleware.ActionView), handlers.TriggerSync)
		api.GET("/sync/status", middleware.RequirePermission("settings", middleware.ActionView), handlers.SyncStatus)

		api.GET("/products", middleware.RequirePermission("products", middleware.ActionView), handlers.GetProducts)
		api.GET("/products/scan/:barcode", middleware.RequirePermission("products", middleware.ActionView), handlers.ScanProduct)
		api.POST("/products", middleware.RequirePermission("products", middleware.ActionCreate), handlers.AddProduct)
		api.PUT("/products/:id", middleware.RequirePermission("products", middleware.ActionEdit), handlers.UpdateProduct)
		api.DELETE("/products/:id", middleware.RequirePermission("products", middleware.ActionDelete), handlers.DeleteProduct)
		api.POST("/upload", middleware.RequirePermission("products", middleware.ActionEdit), handlers.UploadImage)

		api.GET("/categories", middleware.RequirePermission("categories", middleware.ActionView), handlers.GetCategories)
		api.POST("/categories", middleware.RequirePermission("categories", middleware.ActionCreate), handlers.AddCategory)
		api.GET("/vendors", middleware.RequirePermission("vendors", middleware.ActionView), handlers.GetVendors)
		api.POST("/vendors", middleware.RequirePermission("vendors", middleware.ActionCreate), handlers.AddVendor)
		api.GET("/customers", middleware.RequirePermission("customers", middleware.ActionView), handlers.GetCustomers)
		api.POST("/customers", middleware.RequirePermission("customers", middleware.ActionCreate), handlers.AddCustomer)

		api.POST("/checkout", middleware.RequirePermission("sales", middleware.ActionCreate), handlers.ProcessSale)
		api.POST("/purchases", middleware.RequirePermission("purchases", middleware.ActionCreate), handlers.ReceivePurchase)
		api.GET("/purchases", middleware.RequirePermission("purchases", middleware.ActionView), handlers.GetPurchases)

		api.GET("/reports", middleware.RequirePermission("reports", middleware.ActionView), handlers.GetSalesReport)
		api.GET("/reports/valuation", middleware.RequirePermission("reports", middleware.ActionView), handlers.GetStockValuation)

		api.GET("/users", middleware.RequirePermission("users", middleware.ActionView), handlers.GetUsers)
		api.POST("/users", middleware.RequirePermission("users", middleware.ActionCreate), handlers.CreateUser)
		api.DELETE("/users/:id", middleware.RequirePermission("users", middleware.ActionDelete), handlers.DeactivateUser)

		api.POST("/ask", middleware.RequirePermission("reports", middleware.ActionView), handlers.AskAI)
	}

	addr := os.Getenv("AGENT_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	zlog.Info("agent starting", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		zlog.Fatal("agent failed to start", zap.Error(err))
	}
}
