package handlers

import (
	"net/http"

	"github.com/hungrymonkey/finder/internal/api/middleware"
)

// ProfileHandler handles user-scoped HTTP requests
type ProfileHandler struct{}

// NewProfileHandler creates a new profile handler
func NewProfileHandler() *ProfileHandler {
	return &ProfileHandler{}
}

// GetProfile handles GET /api/user/profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	payload := map[string]interface{}{
		"message": "This is a protected route",
		"user_id": claims.UserID,
	}
	if claims.Email != "" {
		payload["email"] = claims.Email
	}
	if !claims.ExpiresAt.IsZero() {
		payload["expires_at"] = claims.ExpiresAt.UTC()
	}

	respondWithJSON(w, http.StatusOK, payload)
}

// Health handles GET /api/health
func Health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
