package api

import (
	"eco-route-service/internal/api/handlers"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(optimizer handlers.RouteOptimizer, geocoder handlers.Geocoder, allowedOrigins []string) http.Handler {
	r := mux.NewRouter()

	routeHandler := &handlers.RouteHandler{Optimizer: optimizer}
	geocodeHandler := &handlers.GeocodeHandler{Geocoder: geocoder}

	r.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)

	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.HandleFunc("/calculate-route", routeHandler.Calculate).Methods(http.MethodPost)
	apiRouter.HandleFunc("/geocode-address", geocodeHandler.Geocode).Methods(http.MethodPost)
	apiRouter.HandleFunc("/export-gpx", routeHandler.ExportGPX).Methods(http.MethodPost)
	apiRouter.HandleFunc("/export-googlemaps", routeHandler.ExportGoogleMaps).Methods(http.MethodPost)

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
	})

	return requestIDMiddleware(loggingMiddleware(c.Handler(r)))
}
