package main

import (
	"net/http"
	"os"
	"time"

	"nfl-pickem-go/config"
	"nfl-pickem-go/database"
	"nfl-pickem-go/handlers"
	"nfl-pickem-go/logging"
	"nfl-pickem-go/services"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Failed to load configuration: %v", err)
	}

	logging.Configure(logging.Config{
		Level:       cfg.Logging.Level,
		Output:      os.Stdout,
		Prefix:      cfg.Logging.Prefix,
		EnableColor: cfg.Logging.EnableColor,
	})
	cfg.LogConfiguration()

	// Connect to MongoDB
	db, err := database.NewMongoConnection(database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		Database: cfg.Database.Database,
	})
	if err != nil {
		logging.Fatalf("Database connection failed: %v", err)
	}
	defer db.Close()

	if err := db.TestConnection(); err != nil {
		logging.Warnf("Database test failed: %v", err)
	}

	// Repositories
	resultRepo := database.NewMongoResultRepository(db)
	spreadRepo := database.NewMongoSpreadRepository(db)
	analyticsRepo := database.NewMongoAnalyticsRepository(db)

	// Optional Redis cache in front of the analytics store
	var analyticsCache services.AnalyticsCache
	if cfg.Cache.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr: cfg.Cache.Addr,
			DB:   cfg.Cache.DB,
		})
		analyticsCache = database.NewRedisAnalyticsCache(redisClient)
		logging.Infof("Analytics cache enabled at %s", cfg.Cache.Addr)
	} else {
		logging.Info("Analytics cache disabled; reads go straight to MongoDB")
	}

	// Services
	espnService := services.NewESPNService(cfg.App.FeedBaseURL)
	metricsService := services.NewMetricsService()
	backtestService := services.NewBacktestService(metricsService)
	confidenceService := services.NewConfidenceService()
	analyticsService := services.NewAnalyticsService(resultRepo, analyticsRepo, analyticsCache)
	summaryService := services.NewSummaryService(resultRepo, spreadRepo, analyticsService, espnService, backtestService, confidenceService, cfg.App.CurrentSeason)
	ingestionService := services.NewIngestionService(espnService, spreadRepo, resultRepo, cfg.App.CurrentSeason)

	// Routes
	r := mux.NewRouter()
	analyticsHandler := handlers.NewAnalyticsHandler(resultRepo, spreadRepo, backtestService, summaryService, analyticsService, ingestionService)
	analyticsHandler.RegisterRoutes(r)

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	logging.Infof("Server starting on %s", cfg.GetServerAddress())
	if err := server.ListenAndServe(); err != nil {
		logging.Fatalf("Server failed: %v", err)
	}
}
