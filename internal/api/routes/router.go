package routes

import (
	"net/http"

	"github.com/hungrymonkey/finder/internal/api/handlers"
	"github.com/hungrymonkey/finder/internal/api/middleware"
	"github.com/hungrymonkey/finder/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	restaurantHandler *handlers.RestaurantHandler
	profileHandler    *handlers.ProfileHandler

	jwtSecret      []byte
	allowedOrigins []string
	metrics        *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	restaurantHandler *handlers.RestaurantHandler,
	profileHandler *handlers.ProfileHandler,
	jwtSecret []byte,
	allowedOrigins []string,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:               http.NewServeMux(),
		restaurantHandler: restaurantHandler,
		profileHandler:    profileHandler,
		jwtSecret:         jwtSecret,
		allowedOrigins:    allowedOrigins,
		metrics:           metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	requireAuth := middleware.RequireAuth(r.jwtSecret)
	protected := func(h http.HandlerFunc) http.Handler {
		return requireAuth(h)
	}

	r.mux.HandleFunc("GET /api/health", handlers.Health)

	// Restaurant endpoints
	r.mux.HandleFunc("GET /api/restaurants/search", r.restaurantHandler.SearchRestaurants)
	r.mux.HandleFunc("GET /api/restaurants/cached", r.restaurantHandler.GetCachedRestaurants)
	r.mux.Handle("GET /api/restaurants/{id}", protected(r.restaurantHandler.GetRestaurant))
	r.mux.Handle("POST /api/restaurants/{id}/verify-hours", protected(r.restaurantHandler.VerifyHours))
	r.mux.Handle("GET /api/restaurants/{id}/verification", protected(r.restaurantHandler.GetVerification))

	// User endpoints
	r.mux.Handle("GET /api/user/profile", protected(r.profileHandler.GetProfile))

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.ResponseOptimization(handler)

	// CORS wraps everything so preflight requests never reach auth
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
