package config

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database    DatabaseConfig
	Redis       RedisConfig
	CORS        CORSConfig
	Log         LogConfig
	Facility    FacilityConfig
	Allocator   AllocatorConfig
	Suggestions SuggestionsConfig
	Forecast    ForecastConfig
	Exports     ExportsConfig
}

type DatabaseConfig struct {
	Enabled      bool
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// FacilityConfig describes the bookable facility: opening interval and the
// static room catalog used when no database is attached.
type FacilityConfig struct {
	OpenHour  float64
	CloseHour float64
	DataDir   string
	Rooms     []StaticRoom
}

// StaticRoom is a config-declared room, "name:capacity".
type StaticRoom struct {
	ID       string
	Capacity int
}

// AllocatorConfig selects the allocation strategy and its scoring weights.
type AllocatorConfig struct {
	Strategy      string
	WPriority     float64
	WWindowBonus  float64
	WWaste        float64
	WOrder        float64
	SolverBinary  string
	SolverTimeout time.Duration
}

// SuggestionsConfig tunes the alternative-slot flow.
type SuggestionsConfig struct {
	TTL        time.Duration
	MaxResults int
}

// ForecastConfig gates the demand forecast endpoint and its cache.
type ForecastConfig struct {
	Enabled  bool
	CacheTTL time.Duration
}

// ExportsConfig controls schedule export rendering and archival.
type ExportsConfig struct {
	Enabled    bool
	StorageDir string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Enabled:      v.GetBool("DB_ENABLED"),
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("REDIS_ENABLED"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Facility = FacilityConfig{
		OpenHour:  v.GetFloat64("FACILITY_OPEN_HOUR"),
		CloseHour: v.GetFloat64("FACILITY_CLOSE_HOUR"),
		DataDir:   v.GetString("FACILITY_DATA_DIR"),
		Rooms:     parseRooms(v.GetString("FACILITY_ROOMS")),
	}

	cfg.Allocator = AllocatorConfig{
		Strategy:      v.GetString("ALLOCATOR_STRATEGY"),
		WPriority:     v.GetFloat64("ALLOCATOR_WEIGHT_PRIORITY"),
		WWindowBonus:  v.GetFloat64("ALLOCATOR_WEIGHT_WINDOW_BONUS"),
		WWaste:        v.GetFloat64("ALLOCATOR_WEIGHT_WASTE"),
		WOrder:        v.GetFloat64("ALLOCATOR_WEIGHT_ORDER"),
		SolverBinary:  v.GetString("ALLOCATOR_SOLVER_BINARY"),
		SolverTimeout: parseDuration(v.GetString("ALLOCATOR_SOLVER_TIMEOUT"), 30*time.Second),
	}

	cfg.Suggestions = SuggestionsConfig{
		TTL:        parseDuration(v.GetString("SUGGESTIONS_TTL"), 10*time.Minute),
		MaxResults: v.GetInt("SUGGESTIONS_MAX_RESULTS"),
	}

	cfg.Forecast = ForecastConfig{
		Enabled:  v.GetBool("ENABLE_FORECAST"),
		CacheTTL: parseDuration(v.GetString("FORECAST_CACHE_TTL"), 10*time.Minute),
	}

	cfg.Exports = ExportsConfig{
		Enabled:    v.GetBool("ENABLE_EXPORTS"),
		StorageDir: v.GetString("EXPORTS_STORAGE_DIR"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_ENABLED", false)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "roombook")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("FACILITY_OPEN_HOUR", 8.0)
	v.SetDefault("FACILITY_CLOSE_HOUR", 18.0)
	v.SetDefault("FACILITY_DATA_DIR", "./data")
	v.SetDefault("FACILITY_ROOMS", "Meeting A:4,Meeting B:6,Meeting C:10,Auditorium:20")

	v.SetDefault("ALLOCATOR_STRATEGY", "heuristic")
	v.SetDefault("ALLOCATOR_WEIGHT_PRIORITY", 10.0)
	v.SetDefault("ALLOCATOR_WEIGHT_WINDOW_BONUS", 5.0)
	v.SetDefault("ALLOCATOR_WEIGHT_WASTE", 0.5)
	v.SetDefault("ALLOCATOR_WEIGHT_ORDER", 1.0)
	v.SetDefault("ALLOCATOR_SOLVER_BINARY", "")
	v.SetDefault("ALLOCATOR_SOLVER_TIMEOUT", "30s")

	v.SetDefault("SUGGESTIONS_TTL", "10m")
	v.SetDefault("SUGGESTIONS_MAX_RESULTS", 3)

	v.SetDefault("ENABLE_FORECAST", true)
	v.SetDefault("FORECAST_CACHE_TTL", "10m")

	v.SetDefault("ENABLE_EXPORTS", true)
	v.SetDefault("EXPORTS_STORAGE_DIR", "./exports")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

func parseRooms(raw string) []StaticRoom {
	var rooms []StaticRoom
	for _, entry := range splitAndTrim(raw) {
		idx := strings.LastIndex(entry, ":")
		if idx <= 0 {
			continue
		}
		capacity, err := strconv.Atoi(strings.TrimSpace(entry[idx+1:]))
		if err != nil || capacity <= 0 {
			continue
		}
		rooms = append(rooms, StaticRoom{ID: strings.TrimSpace(entry[:idx]), Capacity: capacity})
	}
	return rooms
}
