package restaurants

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hungrymonkey/finder/internal/domain/entities"
	"github.com/hungrymonkey/finder/internal/domain/repositories"
	"github.com/hungrymonkey/finder/internal/infrastructure/clients/restaurantapi"
	apperrors "github.com/hungrymonkey/finder/pkg/errors"
)

// APIAdapter implements the restaurant and profile repositories on top of the
// remote restaurant API.
type APIAdapter struct {
	client restaurantapi.Client
}

var (
	_ repositories.RestaurantRepository = (*APIAdapter)(nil)
	_ repositories.ProfileRepository    = (*APIAdapter)(nil)
)

// NewAPIAdapter creates a new API-backed restaurant adapter
func NewAPIAdapter(client restaurantapi.Client) *APIAdapter {
	return &APIAdapter{client: client}
}

// Search queries the collection endpoint and normalizes the result
func (a *APIAdapter) Search(ctx context.Context, params entities.SearchParams) ([]entities.Restaurant, error) {
	req := restaurantapi.SearchRequest{
		Term:       params.Term,
		Location:   params.Location,
		OpenNow:    params.OpenNow,
		Categories: params.Categories,
		Limit:      params.Limit,
	}
	if level := params.Price.Level(); level > 0 {
		req.Price = strconv.Itoa(level)
	}

	raws, err := a.client.SearchRestaurants(ctx, req)
	if err != nil {
		return nil, err
	}
	return Normalize(ctx, raws), nil
}

// Cached retrieves and normalizes the cached snapshot
func (a *APIAdapter) Cached(ctx context.Context, opts entities.CachedOptions) ([]entities.Restaurant, error) {
	raws, err := a.client.GetCachedRestaurants(ctx, restaurantapi.CachedRequest{
		Limit:       opts.Limit,
		FetchImages: opts.FetchImages,
	})
	if err != nil {
		return nil, err
	}
	return Normalize(ctx, raws), nil
}

// GetByID retrieves a single restaurant
func (a *APIAdapter) GetByID(ctx context.Context, id string) (*entities.Restaurant, error) {
	raw, err := a.client.GetRestaurant(ctx, id)
	if err != nil {
		return nil, err
	}
	r, ok := NormalizeOne(raw)
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("restaurant %s", id))
	}
	return &r, nil
}

// RequestHoursVerification starts an asynchronous hours check
func (a *APIAdapter) RequestHoursVerification(ctx context.Context, id string) (*entities.VerificationReceipt, error) {
	resp, err := a.client.VerifyHours(ctx, id)
	if err != nil {
		return nil, err
	}
	return &entities.VerificationReceipt{
		RestaurantID: id,
		Status:       resp.Status,
		CallID:       resp.CallID,
	}, nil
}

// GetProfile retrieves the signed-in user's profile
func (a *APIAdapter) GetProfile(ctx context.Context) (*entities.UserProfile, error) {
	raw, err := a.client.GetProfile(ctx)
	if err != nil {
		return nil, err
	}

	profile := &entities.UserProfile{Raw: raw}
	profile.Message, _ = raw["message"].(string)
	profile.UserID, _ = raw["user_id"].(string)
	profile.Email, _ = raw["email"].(string)

	if user, ok := raw["user"].(map[string]any); ok {
		if profile.UserID == "" {
			profile.UserID, _ = user["id"].(string)
		}
		if profile.Email == "" {
			profile.Email, _ = user["email"].(string)
		}
	}
	return profile, nil
}
