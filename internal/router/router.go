// internal/router/router.go
package router

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stationeryhq/ledger/internal/cache"
	"github.com/stationeryhq/ledger/internal/config"
	"github.com/stationeryhq/ledger/internal/database"
	"github.com/stationeryhq/ledger/internal/handlers"
	"github.com/stationeryhq/ledger/internal/middleware"
	"github.com/stationeryhq/ledger/internal/services"
)

const Version = "1.0.0"

// Initialize wires services and handlers onto a gin engine. Background work
// started here (rate limiter cleanup) stops when ctx is done.
func Initialize(ctx context.Context, client *database.Client, cfg *config.Config, analyticsCache cache.Cache) (*gin.Engine, error) {
	location, err := cfg.Shop.Location()
	if err != nil {
		return nil, err
	}

	// Initialize services
	storageService, err := services.NewStorageService(cfg.AWS, cfg.Shop.BackupDir)
	if err != nil {
		return nil, err
	}

	analyticsService := services.NewAnalyticsService(client, analyticsCache,
		time.Duration(cfg.Cache.AnalyticsTTL)*time.Second, location)
	productService := services.NewProductService(client, analyticsService, cfg.Shop)
	saleService := services.NewSaleService(client, analyticsService, cfg.Shop)
	dataService := services.NewDataService(client, analyticsService, storageService)

	// Initialize handlers
	productHandler := handlers.NewProductHandler(productService)
	saleHandler := handlers.NewSaleHandler(saleService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	dataHandler := handlers.NewDataHandler(dataService)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.I18nMiddleware())
	if limiter := middleware.NewRateLimiterFromConfig(cfg.RateLimit); limiter != nil {
		go limiter.CleanupVisitors(ctx)
		r.Use(limiter.Middleware())
	}

	// Health check
	r.GET("/health", healthHandler(client))

	api := r.Group("/api")
	{
		products := api.Group("/products")
		{
			products.GET("", productHandler.GetProducts)
			products.POST("", productHandler.CreateProduct)
			products.GET("/:id", productHandler.GetProduct)
			products.PUT("/:id/stock", productHandler.UpdateStock)
			products.DELETE("/:id", productHandler.DeleteProduct)
		}

		sales := api.Group("/sales")
		{
			sales.GET("", saleHandler.GetSales)
			sales.POST("", saleHandler.RecordSale)
		}

		api.GET("/analytics", analyticsHandler.GetAnalytics)

		// Data management
		api.GET("/export", dataHandler.Export)
		api.POST("/export/archive", dataHandler.Archive)
		api.POST("/import", dataHandler.Import)
		api.DELETE("/clear", dataHandler.Clear)
	}

	return r, nil
}

func healthHandler(client *database.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := client.Err()
		switch {
		case err == nil:
			c.JSON(http.StatusOK, gin.H{
				"status":  "healthy",
				"storage": "ready",
				"version": Version,
			})
		case errors.Is(err, database.ErrNotReady):
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "starting",
				"storage": "connecting",
				"version": Version,
			})
		default:
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"storage": "failed",
				"error":   err.Error(),
				"version": Version,
			})
		}
	}
}
