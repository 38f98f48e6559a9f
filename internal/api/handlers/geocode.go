package handlers

import (
	"context"
	"eco-route-service/internal/api/dto"
	"eco-route-service/internal/domain"
	"net/http"
)

// Geocoder resolves a free-text address.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (domain.Point, error)
}

type GeocodeHandler struct {
	Geocoder Geocoder
}

func (h *GeocodeHandler) Geocode(w http.ResponseWriter, r *http.Request) {
	var req dto.GeocodeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := h.Geocoder.Geocode(r.Context(), req.Query)
	if err != nil {
		writeServiceError(w, r, "geocode address", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.Point(p))
}
