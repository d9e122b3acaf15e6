package adapthttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"fooddiary/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

// writeServiceError maps a service error onto its HTTP status. Server-side
// failures are logged and answered with a generic message.
func writeServiceError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": verr.Error(), "field": verr.Field})
	case errors.Is(err, domain.ErrInvalidDate):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, domain.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, domain.ErrUnauthenticated)
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, domain.ErrNotFound)
	case errors.Is(err, domain.ErrExternalLookup):
		log.Printf("product lookup: %v", err)
		writeError(w, http.StatusBadGateway, errors.New("product lookup failed, try again or enter the food manually"))
	default:
		log.Printf("internal error: %v", err)
		writeError(w, http.StatusInternalServerError, errors.New("internal error"))
	}
}

func parseJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}

func intQuery(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// pathID parses the {id} wildcard.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Invalid("id", "must be a positive integer")
	}
	return id, nil
}

// dayQuery returns the day query parameter, defaulting to today.
func (s *Server) dayQuery(r *http.Request) string {
	if day := r.URL.Query().Get("day"); day != "" {
		return day
	}
	return s.resolver.Today()
}

// categoryQuery parses the category query parameter. It returns nil when the
// parameter is absent.
func categoryQuery(r *http.Request) (*domain.MealCategory, error) {
	v := r.URL.Query().Get("category")
	if v == "" {
		return nil, nil
	}
	c, err := domain.ParseMealCategory(v)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
