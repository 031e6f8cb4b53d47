package repositories

import (
	"context"

	"github.com/hungrymonkey/finder/internal/domain/entities"
)

// RestaurantRepository defines the remote restaurant data operations. Every
// returned record is normalized.
type RestaurantRepository interface {
	// Search queries the collection endpoint
	Search(ctx context.Context, params entities.SearchParams) ([]entities.Restaurant, error)

	// Cached retrieves the cached snapshot
	Cached(ctx context.Context, opts entities.CachedOptions) ([]entities.Restaurant, error)

	// GetByID retrieves a single restaurant. Requires authentication.
	GetByID(ctx context.Context, id string) (*entities.Restaurant, error)

	// RequestHoursVerification starts an asynchronous hours check. Requires authentication.
	RequestHoursVerification(ctx context.Context, id string) (*entities.VerificationReceipt, error)
}

// ProfileRepository defines user-scoped operations
type ProfileRepository interface {
	// GetProfile retrieves the signed-in user's profile. Requires authentication.
	GetProfile(ctx context.Context) (*entities.UserProfile, error)
}
