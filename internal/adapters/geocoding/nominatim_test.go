package geocoding

import (
	"context"
	"eco-route-service/internal/domain"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestGeocoder(t *testing.T, h http.HandlerFunc) *NominatimGeocoder {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewNominatimGeocoder(srv.URL, "eco-route-service-test", 5*time.Second)
}

func TestNominatimSearch(t *testing.T) {
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("q") != "Eiffel Tower" || q.Get("format") != "json" || q.Get("limit") != "1" {
			t.Errorf("query = %v", q)
		}
		if r.Header.Get("User-Agent") != "eco-route-service-test" {
			t.Errorf("user agent = %q", r.Header.Get("User-Agent"))
		}
		fmt.Fprint(w, `[{"display_name":"Tour Eiffel, Paris","lat":"48.8584","lon":"2.2945"}]`)
	})

	p, err := g.Search(context.Background(), "  Eiffel Tower ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Address != "Tour Eiffel, Paris" || p.Lat != 48.8584 || p.Lon != 2.2945 {
		t.Fatalf("point = %+v", p)
	}
}

func TestNominatimSearchNotFound(t *testing.T) {
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	})

	_, err := g.Search(context.Background(), "nowhere at all")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestNominatimSearchErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"rate limited", http.StatusTooManyRequests, "slow down"},
		{"bad json", http.StatusOK, "<html>"},
		{"bad latitude", http.StatusOK, `[{"display_name":"x","lat":"north","lon":"1"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			})

			_, err := g.Search(context.Background(), "somewhere")
			var ue *domain.UpstreamServiceError
			if !errors.As(err, &ue) {
				t.Fatalf("err = %v, want UpstreamServiceError", err)
			}
		})
	}
}

func TestNominatimSearchEmptyQuery(t *testing.T) {
	g := NewNominatimGeocoder("http://unused.invalid", "ua", time.Second)

	_, err := g.Search(context.Background(), "   ")
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}
