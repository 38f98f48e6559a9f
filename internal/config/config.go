package config

import (
	"eco-route-service/internal/domain"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// MaxSupportedStops is the hard ceiling accepted for MAX_STOPS.
const MaxSupportedStops = domain.MaxSupportedStops

// Config is the immutable process configuration, built once at startup.
type Config struct {
	Port string

	OSRMBaseURL    string
	OSRMProfile    string
	RouteGeometry  string
	ORSBaseURL     string
	ORSAPIKey      string
	NominatimURL   string
	UserAgent      string
	AllowedOrigins []string

	UpstreamTimeout time.Duration
	RequestTimeout  time.Duration
	MaxStops        int

	GeocodeCache    string
	GeocodeCacheTTL time.Duration
	SQLitePath      string
	DatabaseURL     string
	RedisURL        string
}

// Load reads an optional .env file and the environment into a Config.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	upstreamTimeout, err := getDuration("UPSTREAM_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}
	requestTimeout, err := getDuration("REQUEST_TIMEOUT", 30*time.Second)
	if err != nil {
		return Config{}, err
	}
	cacheTTL, err := getDuration("GEOCODE_CACHE_TTL", 30*24*time.Hour)
	if err != nil {
		return Config{}, err
	}
	maxStops, err := getInt("MAX_STOPS", 8)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:            Get("PORT", "8080"),
		OSRMBaseURL:     strings.TrimRight(Get("OSRM_BASE_URL", "https://router.project-osrm.org"), "/"),
		OSRMProfile:     Get("OSRM_PROFILE", "driving"),
		RouteGeometry:   Get("ROUTE_GEOMETRY", "geojson"),
		ORSBaseURL:      strings.TrimRight(Get("ORS_BASE_URL", "https://api.openrouteservice.org"), "/"),
		ORSAPIKey:       strings.TrimSpace(os.Getenv("ORS_API_KEY")),
		NominatimURL:    strings.TrimRight(Get("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org"), "/"),
		UserAgent:       Get("USER_AGENT", "eco-route-service/1.0"),
		AllowedOrigins:  splitList(Get("CORS_ALLOWED_ORIGINS", "*")),
		UpstreamTimeout: upstreamTimeout,
		RequestTimeout:  requestTimeout,
		MaxStops:        maxStops,
		GeocodeCache:    strings.ToLower(Get("GEOCODE_CACHE", "none")),
		GeocodeCacheTTL: cacheTTL,
		SQLitePath:      Get("SQLITE_PATH", "data/geocode.db"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisURL:        Get("REDIS_URL", "redis://localhost:6379/0"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	if c.MaxStops < 1 || c.MaxStops > MaxSupportedStops {
		return fmt.Errorf("config: MAX_STOPS must be between 1 and %d, got %d", MaxSupportedStops, c.MaxStops)
	}

	switch c.RouteGeometry {
	case "geojson", "polyline":
	default:
		return fmt.Errorf("config: ROUTE_GEOMETRY must be geojson or polyline, got %q", c.RouteGeometry)
	}

	switch c.GeocodeCache {
	case "none", "sqlite", "redis":
	case "postgres":
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("config: DATABASE_URL is required when GEOCODE_CACHE=postgres")
		}
	default:
		return fmt.Errorf("config: unknown GEOCODE_CACHE %q", c.GeocodeCache)
	}

	if c.UpstreamTimeout <= 0 || c.RequestTimeout <= 0 {
		return fmt.Errorf("config: timeouts must be positive")
	}

	return nil
}

// Get returns the environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: parse %s=%q: %w", key, v, err)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: parse %s=%q: %w", key, v, err)
	}
	return n, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
