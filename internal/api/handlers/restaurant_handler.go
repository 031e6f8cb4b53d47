package handlers

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/hungrymonkey/finder/internal/api/fixtures"
	"github.com/hungrymonkey/finder/internal/infrastructure/observability"
	apperrors "github.com/hungrymonkey/finder/pkg/errors"
)

const (
	// maxImageBackfill caps how many records get a placeholder photo per request
	maxImageBackfill = 10
	placeholderImage = "https://placehold.co/600x400?text="
)

// RestaurantHandler handles restaurant-related HTTP requests
type RestaurantHandler struct {
	store    *fixtures.Store
	verifier *fixtures.HoursVerifier
}

// NewRestaurantHandler creates a new restaurant handler
func NewRestaurantHandler(store *fixtures.Store, verifier *fixtures.HoursVerifier) *RestaurantHandler {
	return &RestaurantHandler{
		store:    store,
		verifier: verifier,
	}
}

// SearchRestaurants handles GET /api/restaurants/search
func (h *RestaurantHandler) SearchRestaurants(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	location := strings.TrimSpace(q.Get("location"))
	if location == "" {
		respondWithError(w, http.StatusUnprocessableEntity, "location is required")
		return
	}

	query := fixtures.Query{
		Term:       q.Get("term"),
		Location:   location,
		Price:      q.Get("price"),
		Categories: q.Get("categories"),
	}

	if raw := q.Get("open_now"); raw != "" {
		openNow, err := strconv.ParseBool(raw)
		if err != nil {
			respondWithError(w, http.StatusUnprocessableEntity, "open_now must be a boolean")
			return
		}
		query.OpenNow = &openNow
	}

	limit, err := parseLimit(q.Get("limit"))
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	query.Limit = limit

	results := h.store.Search(query)
	for i := range results {
		results[i] = h.verifier.Overlay(r.Context(), results[i])
	}

	observability.LoggerFromContext(r.Context()).Debug().
		Str("term", query.Term).
		Str("location", query.Location).
		Int("results", len(results)).
		Msg("Fixture search")

	respondWithJSON(w, http.StatusOK, results)
}

// GetCachedRestaurants handles GET /api/restaurants/cached
func (h *RestaurantHandler) GetCachedRestaurants(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, err := parseLimit(q.Get("limit"))
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	fetchImages := false
	if raw := q.Get("fetch_images"); raw != "" {
		if fetchImages, err = strconv.ParseBool(raw); err != nil {
			respondWithError(w, http.StatusUnprocessableEntity, "fetch_images must be a boolean")
			return
		}
	}

	results := h.store.All()
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	for i := range results {
		results[i] = h.verifier.Overlay(r.Context(), results[i])
	}
	if fetchImages {
		backfillImages(results)
	}

	respondWithJSON(w, http.StatusOK, results)
}

// GetRestaurant handles GET /api/restaurants/{id}
func (h *RestaurantHandler) GetRestaurant(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.lookup(w, r)
	if !ok {
		return
	}
	respondWithJSON(w, http.StatusOK, h.verifier.Overlay(r.Context(), rec))
}

// VerifyHours handles POST /api/restaurants/{id}/verify-hours
func (h *RestaurantHandler) VerifyHours(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.lookup(w, r)
	if !ok {
		return
	}

	call, err := h.verifier.Request(r.Context(), rec)
	if err != nil {
		observability.LoggerFromContext(r.Context()).Error().Err(err).Str("restaurant_id", rec.ID()).Msg("Failed to start verification")
		respondWithError(w, http.StatusInternalServerError, "failed to start verification")
		return
	}

	respondWithJSON(w, http.StatusAccepted, map[string]string{
		"status":  "success",
		"call_id": call.CallID,
	})
}

// GetVerification handles GET /api/restaurants/{id}/verification
func (h *RestaurantHandler) GetVerification(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	call, found, err := h.verifier.Status(r.Context(), id)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to read verification")
		return
	}
	if !found {
		respondWithError(w, http.StatusNotFound, "no verification requested")
		return
	}
	respondWithJSON(w, http.StatusOK, call)
}

func (h *RestaurantHandler) lookup(w http.ResponseWriter, r *http.Request) (fixtures.Record, bool) {
	id := r.PathValue("id")
	if strings.TrimSpace(id) == "" {
		respondWithError(w, http.StatusBadRequest, "restaurant ID is required")
		return nil, false
	}
	rec, ok := h.store.Get(id)
	if !ok {
		respondWithAppError(w, apperrors.NewNotFoundError("Restaurant not found"))
		return nil, false
	}
	return rec, true
}

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, apperrors.NewInvalidArgumentError("limit must be a non-negative integer")
	}
	return limit, nil
}

// backfillImages gives a placeholder photo to the first records lacking one
func backfillImages(records []fixtures.Record) {
	filled := 0
	for _, rec := range records {
		if filled == maxImageBackfill {
			return
		}
		if rec.HasPhoto() {
			continue
		}
		rec["photos"] = []any{placeholderImage + url.QueryEscape(rec.Name())}
		filled++
	}
}
