package main

import (
	"log"
	"os"
	"time"

	"go-pos-sync/internal/cloud"
	"go-pos-sync/internal/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// The cloud tier: one mysql store shared by every tenant, fronted by the
// activation endpoint and the per-collection sync create endpoints.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found")
	}

	zlog := logger.New()
	defer zlog.Sync()

	dsn := os.Getenv("CLOUD_DB_DSN")
	if dsn == "" {
		zlog.Fatal("CLOUD_DB_DSN is not configured")
	}

	db, err := cloud.Open(dsn, zlog)
	if err != nil {
		zlog.Fatal("cloud store unavailable", zap.Error(err))
	}

	h := cloud.NewHandler(db, zlog)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Device-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "online"}) })

	// Activation must stay open; everything else needs a sync token.
	r.POST("/api/v1/activate", h.Activate)

	api := r.Group("/api/v1/sync")
	api.Use(h.RequireSyncAuth())
	{
		api.POST("/companies", h.CreateCompany)
		api.POST("/users", h.CreateUser)
		api.POST("/categories", h.CreateCategory)
		api.POST("/vendors", h.CreateVendor)
		api.POST("/products", h.CreateProduct)
		api.POST("/customers", h.CreateCustomer)
	}

	addr := os.Getenv("SERVER_ADDR")
	if addr == "" {
		addr = ":9090"
	}
	zlog.Info("cloud server starting", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		zlog.Fatal("server failed to start", zap.Error(err))
	}
}
