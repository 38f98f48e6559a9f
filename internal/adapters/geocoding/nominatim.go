package geocoding

import (
	"context"
	"eco-route-service/internal/domain"
	"eco-route-service/internal/platform/obs"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// NominatimGeocoder implements Geocoder using the OpenStreetMap Nominatim search API.
type NominatimGeocoder struct {
	session   *http.Client
	baseURL   string
	userAgent string
}

func NewNominatimGeocoder(baseURL, userAgent string, timeout time.Duration) *NominatimGeocoder {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "https://nominatim.openstreetmap.org"
	}
	return &NominatimGeocoder{
		session:   &http.Client{Timeout: timeout},
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
	}
}

type searchResult struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// Search resolves query to the single best Nominatim match.
func (g *NominatimGeocoder) Search(ctx context.Context, query string) (_ domain.Point, err error) {
	defer obs.Time(ctx, "nominatim.Search")(&err)

	query = strings.TrimSpace(query)
	if query == "" {
		return domain.Point{}, &domain.ValidationError{Field: "query", Reason: "is required"}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/search", nil)
	if err != nil {
		return domain.Point{}, fmt.Errorf("create geocode request: %w", err)
	}

	q := req.URL.Query()
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("limit", "1")
	req.URL.RawQuery = q.Encode()

	// Nominatim's usage policy requires an identifying User-Agent.
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := g.session.Do(req)
	if err != nil {
		return domain.Point{}, g.upstreamError(0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<12))
		return domain.Point{}, g.upstreamError(resp.StatusCode, errors.New(strings.TrimSpace(string(b))))
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return domain.Point{}, g.upstreamError(0, fmt.Errorf("decode geocode response: %w", err))
	}

	if len(results) == 0 {
		return domain.Point{}, fmt.Errorf("geocode %q: %w", query, domain.ErrNotFound)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return domain.Point{}, g.upstreamError(0, fmt.Errorf("invalid latitude %q: %w", results[0].Lat, err))
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return domain.Point{}, g.upstreamError(0, fmt.Errorf("invalid longitude %q: %w", results[0].Lon, err))
	}

	return domain.Point{
		Address: results[0].DisplayName,
		Lat:     lat,
		Lon:     lon,
	}, nil
}

func (g *NominatimGeocoder) upstreamError(status int, err error) error {
	return &domain.UpstreamServiceError{
		Service:    "nominatim",
		Op:         "search",
		StatusCode: status,
		Err:        err,
	}
}
