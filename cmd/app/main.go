package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexivanou/geocity-weather/internal/api"
	"github.com/alexivanou/geocity-weather/internal/config"
	"github.com/alexivanou/geocity-weather/internal/database"
	"github.com/alexivanou/geocity-weather/internal/model"
	"github.com/alexivanou/geocity-weather/internal/owm"
	"github.com/alexivanou/geocity-weather/internal/repository"
	"github.com/alexivanou/geocity-weather/internal/seeder"
	"github.com/alexivanou/geocity-weather/internal/service"
	"github.com/alexivanou/geocity-weather/internal/stats"
	"github.com/alexivanou/geocity-weather/internal/suggest"
	"github.com/alexivanou/geocity-weather/internal/weather"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if cfg.Weather.APIKey == "" {
		logger.Warn("OWM_API_KEY is not set; weather lookups will fail")
	}

	client := owm.New(owm.Options{
		APIKey:     cfg.Weather.APIKey,
		WeatherURL: cfg.Weather.WeatherURL,
		GeoURL:     cfg.Weather.GeoURL,
		Units:      cfg.Weather.Units,
		Timeout:    cfg.Weather.HTTPTimeout,
	})
	fetcher := weather.NewFetcher(client, cfg.Weather.IconURL, logger.Named("weather"))

	ctx := context.Background()

	// The catalog database is only opened when it backs the suggestions
	var db *sqlx.DB
	var source suggest.Source
	switch cfg.Suggest.Source {
	case config.SuggestSourceCatalog:
		db, err = openCatalog(ctx, cfg, logger)
		if err != nil {
			logger.Fatal("Failed to prepare city catalog", zap.Error(err))
		}
		defer db.Close()
		source = suggest.NewCatalogSource(repository.NewRepositories(db, cfg.DB.Type).City)
	case config.SuggestSourceGeocoder:
		source = suggest.NewGeocoderSource(client)
	default:
		source = suggest.NewStaticSource(nil)
	}
	logger.Info("Suggestion source configured", zap.String("source", source.Name()))

	engine := suggest.NewEngine(source, logger.Named("suggest"))
	svc := service.NewService(engine, fetcher, source.Name(), logger.Named("service"))
	statsCollector := stats.NewCollector(db, cfg.DB, source.Name())

	opts := api.SessionOptions{GeolocationTimeout: cfg.Geolocation.Timeout}
	if cfg.Geolocation.HasDefault {
		opts.DefaultLocation = &model.Coordinate{Lat: cfg.Geolocation.Lat, Lon: cfg.Geolocation.Lon}
	}
	router := api.NewRouter(svc, statsCollector, opts, logger.Named("api"))

	// No WriteTimeout: session sockets are long-lived and manage their own deadlines
	srv := &http.Server{
		Addr:        ":" + cfg.Server.Port,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// openCatalog connects, migrates and, when empty, seeds the city catalog
func openCatalog(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*sqlx.DB, error) {
	db, err := database.Connect(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	logger.Info("Connected to database", zap.String("type", string(cfg.DB.Type)))

	if err := database.Migrate(db, cfg.DB, "migrations"); err != nil {
		db.Close()
		return nil, err
	}

	isEmpty, err := repository.IsDatabaseEmpty(ctx, db)
	if err != nil {
		logger.Warn("Failed to check if database is empty", zap.Error(err))
		return db, nil
	}
	if !isEmpty {
		return db, nil
	}

	logger.Info("Database is empty, auto-seeding data...")
	repos := repository.NewRepositories(db, cfg.DB.Type)
	res, err := seeder.Run(ctx, repos, seeder.NewParser(cfg.Seeder.DataDir, cfg.Seeder), logger.Named("seeder"))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to auto-seed database: %w", err)
	}
	logger.Info("Database seeded successfully",
		zap.String("origin", string(res.Origin)),
		zap.Int("cities", res.Cities),
	)
	return db, nil
}
