package handlers

import (
	"context"
	"eco-route-service/internal/domain"
	"eco-route-service/internal/platform/obs"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// decodeJSON reads exactly one JSON object from the body into v.
// It writes the 400 response itself and returns false on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

// writeServiceError maps domain errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	reqID := obs.RequestID(r.Context())

	var ve *domain.ValidationError
	var ue *domain.UpstreamServiceError

	switch {
	case errors.As(err, &ve):
		status := http.StatusBadRequest
		if errors.Is(err, domain.ErrTooManyStops) {
			status = http.StatusUnprocessableEntity
		}
		writeError(w, r, status, ve.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "address not found")
	case errors.Is(err, context.DeadlineExceeded):
		log.Printf("req_id=%s %s timed out: %v", reqID, op, err)
		writeError(w, r, http.StatusGatewayTimeout, "upstream service timed out")
	case errors.As(err, &ue):
		log.Printf("req_id=%s %s failed: service=%s op=%s status=%d err=%v", reqID, op, ue.Service, ue.Op, ue.StatusCode, err)
		writeError(w, r, http.StatusBadGateway, "upstream service error")
	default:
		log.Printf("req_id=%s %s failed: %v", reqID, op, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
