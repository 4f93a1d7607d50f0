package main

import (
	"log"

	"vending-console/internal/api"
	"vending-console/internal/apiclient"
	"vending-console/internal/config"
	"vending-console/internal/dashboard"
	"vending-console/internal/database"
	"vending-console/internal/metrics"
	"vending-console/internal/middleware"
	"vending-console/internal/notice"
	"vending-console/internal/purchase"
	"vending-console/internal/resources"
	"vending-console/internal/stats"
	"vending-console/internal/views"
	"vending-console/pkg/logging"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Initialize configuration
	if err := config.InitConfig(); err != nil {
		log.Fatal("Failed to initialize config:", err)
	}
	cfg := config.AppConfig

	// Initialize logging
	logging.InitLogging(cfg.LogLevel)

	// Metrics
	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(promRegistry)

	// Upstream API client
	client, err := apiclient.New(cfg.APIBaseURL,
		apiclient.WithTimeout(cfg.APITimeout()),
		apiclient.WithObserver(m.Observe),
	)
	if err != nil {
		log.Fatal("Failed to initialize API client:", err)
	}

	// Initialize database
	db, err := database.InitDatabase(cfg)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close(db)
	operationLogs := database.NewOperationLogStore(db)

	// Notices
	var store notice.Store = notice.NewMemoryStore(cfg.NoticeCapacity, cfg.NoticeTTL())
	if cfg.RedisURL != "" {
		redisStore, err := notice.NewRedisStore(cfg.RedisURL, cfg.NoticeCapacity, cfg.NoticeTTL())
		if err != nil {
			logging.Errorf("Redis unavailable, keeping notices in memory: %v", err)
		} else {
			defer redisStore.Close()
			store = redisStore
			logging.Infof("Redis connected successfully")
		}
	}
	notifier := notice.Multi(store, operationLogs)

	reg := resources.NewRegistry(client, notifier)
	handler := &api.Handler{
		Registry:      reg,
		Tables:        views.NewSet(reg, cfg.LowStockThreshold),
		Dashboard:     dashboard.New(reg, cfg.LowStockThreshold, cfg.Location()),
		Purchase:      purchase.New(reg, client, notifier, cfg.PurchaseDisplay()),
		Stats:         stats.New(client, notifier),
		Notices:       store,
		OperationLogs: operationLogs,
		Metrics:       promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}),
	}

	// Set Gin mode
	gin.SetMode(cfg.Mode)

	// Create Gin engine
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(), middleware.CORS(cfg.CORSAllowedOrigins))

	// Setup routes
	api.SetupRoutes(r, handler)

	// Start server
	logging.Infof("Starting server on port %s, upstream %s", cfg.Port, client.BaseURL())
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
