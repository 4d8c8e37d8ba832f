package service

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"go.uber.org/zap"

	"github.com/coc-ops/roombook-api/internal/dto"
	"github.com/coc-ops/roombook-api/internal/forecast"
	"github.com/coc-ops/roombook-api/internal/models"
	appErrors "github.com/coc-ops/roombook-api/pkg/errors"
)

// ForecastCache reads and writes serialized forecast payloads.
type ForecastCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type demandEngine interface {
	HourlyDemand(requests []models.Request, rooms []models.Room) (map[int]float64, error)
}

// ForecastService serves cached hourly demand estimates for a day.
type ForecastService struct {
	rooms   RoomSource
	store   BookingStore
	engine  demandEngine
	cache   ForecastCache
	ttl     time.Duration
	enabled bool
	metrics *MetricsService
	logger  *zap.Logger
}

// ForecastConfig tunes the service.
type ForecastConfig struct {
	Enabled  bool
	CacheTTL time.Duration
}

// NewForecastService wires the forecast pipeline.
func NewForecastService(
	rooms RoomSource,
	store BookingStore,
	engine demandEngine,
	cache ForecastCache,
	metrics *MetricsService,
	logger *zap.Logger,
	cfg ForecastConfig,
) *ForecastService {
	if engine == nil {
		engine = forecast.New(0, 0, nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	return &ForecastService{
		rooms:   rooms,
		store:   store,
		engine:  engine,
		cache:   cache,
		ttl:     cfg.CacheTTL,
		enabled: cfg.Enabled,
		metrics: metrics,
		logger:  logger,
	}
}

// HourlyDemand returns the day's forecast, reading through the cache.
func (s *ForecastService) HourlyDemand(ctx context.Context, day string) (*dto.ForecastResponse, error) {
	if !s.enabled {
		return nil, appErrors.Clone(appErrors.ErrFeatureDisabled, "forecast disabled")
	}
	if day == "" {
		day = time.Now().UTC().Format("2006-01-02")
	}

	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room catalog")
	}
	// The key covers the catalog so a changed room set never serves a stale
	// forecast past the day-pattern invalidation.
	key := forecastCacheKey(day, rooms)

	if s.cache != nil {
		start := time.Now()
		var cached dto.ForecastResponse
		err := s.cache.Get(ctx, key, &cached)
		if err == nil {
			s.metrics.RecordCacheOperation(true, time.Since(start))
			return &cached, nil
		}
		s.metrics.RecordCacheOperation(false, time.Since(start))
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("forecast cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	requests, err := s.store.Load(day)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load booking requests")
	}

	demand, err := s.engine.HourlyDemand(requests, rooms)
	if err != nil {
		return nil, err
	}
	peak, quiet := forecast.PeakAndQuiet(demand)
	response := &dto.ForecastResponse{Day: day, Hours: demand, PeakHour: peak, QuietHour: quiet}

	if s.cache != nil {
		start := time.Now()
		if err := s.cache.Set(ctx, key, response, s.ttl); err != nil {
			s.logger.Warn("forecast cache write failed", zap.String("key", key), zap.Error(err))
		}
		s.metrics.ObserveCacheWrite(time.Since(start))
	}
	return response, nil
}

func forecastCacheKey(day string, rooms []models.Room) string {
	h := fnv.New64a()
	for _, room := range rooms {
		fmt.Fprintf(h, "%s=%d;", room.ID, room.Capacity)
	}
	return fmt.Sprintf("forecast:%s:%x", day, h.Sum64())
}
