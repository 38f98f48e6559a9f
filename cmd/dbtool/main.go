package main

import (
	"context"
	"database/sql"
	"eco-route-service/internal/adapters/cache"
	"eco-route-service/internal/config"
	"eco-route-service/internal/platform/db"
	"eco-route-service/internal/ports"
	"eco-route-service/internal/services"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// dbtool prepares the geocode cache table ahead of a deployment and
// optionally preloads it with known addresses.
func main() {
	dialect := flag.String("dialect", "postgres", "database dialect: postgres or sqlite")
	seedPath := flag.String("seed", "", "optional JSON file of addresses to preload")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	conn, err := open(cache.Dialect(*dialect))
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log.Println("Initializing geocode cache schema...")
	if err := cache.InitSchema(ctx, conn, cache.Dialect(*dialect)); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	if *seedPath == "" {
		return
	}

	var gc ports.GeocodeCache
	if cache.Dialect(*dialect) == cache.DialectSQLite {
		gc = cache.NewSqliteGeocodeCache(conn, 0)
	} else {
		gc = cache.NewSQLGeocodeCache(conn, 0)
	}

	f, err := os.Open(*seedPath)
	if err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	defer f.Close()

	log.Println("Seeding geocode cache...")
	n, err := services.SeedGeocodeCache(ctx, gc, f)
	if err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Printf("Seeding complete. entries=%d", n)
}

func open(dialect cache.Dialect) (*sql.DB, error) {
	switch dialect {
	case cache.DialectPostgres:
		databaseURL := config.Get("DATABASE_URL", "")
		if strings.TrimSpace(databaseURL) == "" {
			log.Fatal("DATABASE_URL is required")
		}
		return db.Open(databaseURL)
	case cache.DialectSQLite:
		return db.OpenSQLite(config.Get("SQLITE_PATH", "data/geocode.db"))
	default:
		log.Fatalf("unknown dialect %q", dialect)
		return nil, nil
	}
}
