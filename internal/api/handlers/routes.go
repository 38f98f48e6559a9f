package handlers

import (
	"context"
	"eco-route-service/internal/api/dto"
	"eco-route-service/internal/domain"
	"eco-route-service/internal/export"
	"eco-route-service/internal/services"
	"net/http"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// RouteOptimizer is the pipeline the route handlers drive.
type RouteOptimizer interface {
	OptimizeRoute(ctx context.Context, req services.OptimizeRouteRequest) (*domain.RouteResult, error)
	OptimizeOrder(ctx context.Context, req services.OptimizeRouteRequest) (*services.OrderedRoute, error)
}

// RouteHandler exposes route optimization and its exports.
type RouteHandler struct {
	Optimizer RouteOptimizer
}

// Calculate optimizes the stop order and returns geometry, distance, time and emissions.
func (h *RouteHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req dto.RouteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.Optimizer.OptimizeRoute(r.Context(), toServiceRequest(req))
	if err != nil {
		writeServiceError(w, r, "calculate route", err)
		return
	}

	line := res.Geometry
	if line == nil {
		line = orb.LineString{}
	}

	writeJSON(w, r, http.StatusOK, dto.RouteResponse{
		OptimizedPoints: toDTOPoints(res.OptimizedPoints),
		Geometry:        geojson.NewGeometry(line),
		TotalDistance:   res.TotalDistanceKm(),
		TotalTime:       res.TotalTimeMin(),
		CarbonFootprint: res.CarbonFootprint(),
		DurationSource:  string(res.Duration.Source),
	})
}

// ExportGPX returns the optimized stop order as a GPX track.
func (h *RouteHandler) ExportGPX(w http.ResponseWriter, r *http.Request) {
	var req dto.RouteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ordered, err := h.Optimizer.OptimizeOrder(r.Context(), toServiceRequest(req))
	if err != nil {
		writeServiceError(w, r, "export gpx", err)
		return
	}

	body, err := export.GPX(ordered.Points, ordered.Vehicle)
	if err != nil {
		writeServiceError(w, r, "export gpx", err)
		return
	}

	w.Header().Set("Content-Type", "application/gpx+xml")
	w.Header().Set("Content-Disposition", `attachment; filename="route.gpx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// ExportGoogleMaps returns a Google Maps directions link for the optimized stop order.
func (h *RouteHandler) ExportGoogleMaps(w http.ResponseWriter, r *http.Request) {
	var req dto.RouteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ordered, err := h.Optimizer.OptimizeOrder(r.Context(), toServiceRequest(req))
	if err != nil {
		writeServiceError(w, r, "export google maps", err)
		return
	}

	url, err := export.GoogleMapsURL(ordered.Points, ordered.Vehicle)
	if err != nil {
		writeServiceError(w, r, "export google maps", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.GoogleMapsResponse{URL: url})
}

func toServiceRequest(req dto.RouteRequest) services.OptimizeRouteRequest {
	out := services.OptimizeRouteRequest{Vehicle: req.Vehicle}
	if req.BaseAddress != nil {
		base := domain.Point(*req.BaseAddress)
		out.Base = &base
	}
	for _, p := range req.FollowingAddresses {
		out.Stops = append(out.Stops, domain.Point(p))
	}
	return out
}

func toDTOPoints(points []domain.Point) []dto.Point {
	out := make([]dto.Point, 0, len(points))
	for _, p := range points {
		out = append(out, dto.Point(p))
	}
	return out
}
