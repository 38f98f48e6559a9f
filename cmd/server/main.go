package main

import (
	"context"
	"database/sql"
	"eco-route-service/internal/adapters/cache"
	"eco-route-service/internal/adapters/distance"
	"eco-route-service/internal/adapters/geocoding"
	"eco-route-service/internal/api"
	"eco-route-service/internal/config"
	"eco-route-service/internal/platform/db"
	"eco-route-service/internal/ports"
	"eco-route-service/internal/services"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
)

// main is the application composition root.
// It wires concrete adapters (OSRM, ORS, Nominatim, geocode cache) behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	routing, err := distance.NewOSRMProvider(cfg.OSRMBaseURL, cfg.OSRMProfile, cfg.RouteGeometry, cfg.UpstreamTimeout)
	if err != nil {
		log.Fatal(err)
	}

	// Without an ORS key every duration comes from the vehicle's fallback speed.
	var directions ports.DirectionsProvider
	if cfg.ORSAPIKey != "" {
		ors, err := distance.NewORSDirections(cfg.ORSAPIKey, cfg.ORSBaseURL, cfg.UpstreamTimeout)
		if err != nil {
			log.Fatal(err)
		}
		directions = ors
	} else {
		log.Println("ORS_API_KEY not set; travel time uses fallback speeds")
	}

	optimizer, err := services.NewRouteOptimizer(routing, routing, services.NewDurationEstimator(directions), services.OptimizerConfig{
		MaxStops: cfg.MaxStops,
		Timeout:  cfg.RequestTimeout,
	})
	if err != nil {
		log.Fatal(err)
	}

	geocodeCache, closeCache, err := openGeocodeCache(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeCache()

	nominatim := geocoding.NewNominatimGeocoder(cfg.NominatimURL, cfg.UserAgent, cfg.UpstreamTimeout)
	geocoder := services.NewGeocodeService(nominatim, geocodeCache)

	router := api.NewRouter(optimizer, geocoder, cfg.AllowedOrigins)

	// WriteTimeout leaves headroom over REQUEST_TIMEOUT so timeouts surface as 504s, not dropped connections.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Server listening addr=:%s geocode_cache=%s max_stops=%d", cfg.Port, cfg.GeocodeCache, cfg.MaxStops)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown failed: %v", err)
	}
}

// openGeocodeCache builds the backend selected by GEOCODE_CACHE.
// The returned close func is always safe to call.
func openGeocodeCache(cfg config.Config) (ports.GeocodeCache, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch cfg.GeocodeCache {
	case "sqlite":
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, func() {}, fmt.Errorf("open geocode cache: create %q: %w", dir, err)
			}
		}
		conn, err := db.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, func() {}, err
		}
		if err := cache.InitSchema(ctx, conn, cache.DialectSQLite); err != nil {
			conn.Close()
			return nil, func() {}, err
		}
		return cache.NewSqliteGeocodeCache(conn, cfg.GeocodeCacheTTL), closeDB(conn), nil

	case "postgres":
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, func() {}, err
		}
		if err := cache.InitSchema(ctx, conn, cache.DialectPostgres); err != nil {
			conn.Close()
			return nil, func() {}, err
		}
		return cache.NewSQLGeocodeCache(conn, cfg.GeocodeCacheTTL), closeDB(conn), nil

	case "redis":
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, func() {}, fmt.Errorf("open geocode cache: parse REDIS_URL: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, func() {}, fmt.Errorf("open geocode cache: ping redis: %w", err)
		}
		return cache.NewRedisGeocodeCache(client, cfg.GeocodeCacheTTL), func() { client.Close() }, nil

	default:
		return nil, func() {}, nil
	}
}

func closeDB(conn *sql.DB) func() {
	return func() {
		if err := conn.Close(); err != nil {
			log.Printf("close db: %v", err)
		}
	}
}
