package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	"github.com/coc-ops/roombook-api/internal/allocator"
	"github.com/coc-ops/roombook-api/internal/finder"
	"github.com/coc-ops/roombook-api/internal/forecast"
	"github.com/coc-ops/roombook-api/internal/handler"
	"github.com/coc-ops/roombook-api/internal/lp"
	"github.com/coc-ops/roombook-api/internal/middleware"
	"github.com/coc-ops/roombook-api/internal/repository"
	"github.com/coc-ops/roombook-api/internal/service"
	"github.com/coc-ops/roombook-api/pkg/cache"
	"github.com/coc-ops/roombook-api/pkg/config"
	"github.com/coc-ops/roombook-api/pkg/database"
	"github.com/coc-ops/roombook-api/pkg/logger"
	corsmiddleware "github.com/coc-ops/roombook-api/pkg/middleware/cors"
	reqidmiddleware "github.com/coc-ops/roombook-api/pkg/middleware/requestid"
	"github.com/coc-ops/roombook-api/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	var db *sqlx.DB
	if cfg.Database.Enabled {
		db, err = database.NewPostgres(cfg.Database)
		if err != nil {
			logr.Sugar().Warnw("database unavailable, using static room catalog", "error", err)
			db = nil
		}
	}

	var cacheRepo *repository.CacheRepository
	if cfg.Redis.Enabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, forecast cache disabled", "error", err)
		} else {
			cacheRepo = repository.NewCacheRepository(client, logr)
		}
	}

	var rooms roomProvider
	if db != nil {
		rooms = repository.NewRoomRepository(db)
	} else {
		rooms = repository.NewStaticRoomProvider(cfg.Facility.Rooms)
	}

	store, err := repository.NewBookingFileRepository(cfg.Facility.DataDir, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to open booking data directory", "error", err)
	}

	weights := allocator.Weights{
		Priority:    cfg.Allocator.WPriority,
		WindowBonus: cfg.Allocator.WWindowBonus,
		Waste:       cfg.Allocator.WWaste,
		Order:       cfg.Allocator.WOrder,
	}
	var solver lp.Solver
	if cfg.Allocator.SolverBinary != "" {
		solver = lp.WithTimeout(lp.NewCBCSolver(cfg.Allocator.SolverBinary), cfg.Allocator.SolverTimeout)
	}
	heuristic := allocator.NewHeuristic(weights, logr)
	exact := allocator.NewExact(solver, logr)

	suggester := finder.New(finder.Config{
		OpenHour:   cfg.Facility.OpenHour,
		CloseHour:  cfg.Facility.CloseHour,
		MaxResults: cfg.Suggestions.MaxResults,
	}, logr)

	metrics := service.NewMetricsService()
	validate := validator.New()

	bookingSvc := service.NewBookingService(rooms, store, suggester, invalidator(cacheRepo), heuristic, exact, validate, logr, metrics, service.BookingConfig{
		DefaultStrategy: allocator.ParseStrategy(cfg.Allocator.Strategy),
		OpenHour:        cfg.Facility.OpenHour,
		CloseHour:       cfg.Facility.CloseHour,
		SuggestionTTL:   cfg.Suggestions.TTL,
	})

	engine := forecast.New(int(cfg.Facility.OpenHour), int(cfg.Facility.CloseHour), nil)
	forecastSvc := service.NewForecastService(rooms, store, engine, forecastCache(cacheRepo), metrics, logr, service.ForecastConfig{
		Enabled:  cfg.Forecast.Enabled,
		CacheTTL: cfg.Forecast.CacheTTL,
	})

	var exportStorage *storage.LocalStorage
	if cfg.Exports.Enabled {
		exportStorage, err = storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Sugar().Warnw("export storage unavailable, archiving disabled", "error", err)
		}
	}
	exportSvc := service.NewExportService(bookingSvc, archiveStorage(exportStorage), service.ExportConfig{Enabled: cfg.Exports.Enabled}, logr, nil, nil)
	exportSvc.Start(context.Background())
	defer exportSvc.Stop()

	bookingHandler := handler.NewBookingHandler(bookingSvc)
	scheduleHandler := handler.NewScheduleHandler(bookingSvc)
	forecastHandler := handler.NewForecastHandler(forecastSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metrics, readinessChecks(db)...)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/bookings", bookingHandler.Create)
		api.POST("/bookings/suggestions/confirm", bookingHandler.ConfirmSuggestion)
		api.POST("/bookings/suggestions/decline", bookingHandler.DeclineSuggestion)
		api.POST("/allocations/run", bookingHandler.Run)
		api.GET("/schedule", scheduleHandler.Get)
		api.GET("/rooms", scheduleHandler.Rooms)
		api.GET("/forecast", forecastHandler.Get)
		api.GET("/exports/schedule.csv", exportHandler.ScheduleCSV)
		api.GET("/exports/schedule.pdf", exportHandler.SchedulePDF)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "strategy", cfg.Allocator.Strategy)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

type roomProvider = service.RoomSource

// invalidator narrows the cache repository to the interface the booking
// service needs while keeping a plain nil when redis is absent.
func invalidator(repo *repository.CacheRepository) service.CacheInvalidator {
	if repo == nil {
		return nil
	}
	return repo
}

func forecastCache(repo *repository.CacheRepository) service.ForecastCache {
	if repo == nil {
		return nil
	}
	return repo
}

func archiveStorage(store *storage.LocalStorage) service.FileStorage {
	if store == nil {
		return nil
	}
	return store
}

func readinessChecks(db *sqlx.DB) []func() error {
	if db == nil {
		return nil
	}
	return []func() error{db.Ping}
}
