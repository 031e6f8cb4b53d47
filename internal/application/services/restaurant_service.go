package services

import (
	"context"
	"strings"

	"github.com/hungrymonkey/finder/internal/domain/entities"
	"github.com/hungrymonkey/finder/internal/domain/repositories"
	"github.com/hungrymonkey/finder/internal/infrastructure/observability"
	apperrors "github.com/hungrymonkey/finder/pkg/errors"
)

// RestaurantService is the data access entry point used by the UI layer
type RestaurantService struct {
	repo        repositories.RestaurantRepository
	profiles    repositories.ProfileRepository
	cachedLimit int
	fetchImages bool
}

// NewRestaurantService creates a new restaurant service. cachedLimit and
// fetchImages are the options used by GetCached.
func NewRestaurantService(
	repo repositories.RestaurantRepository,
	profiles repositories.ProfileRepository,
	cachedLimit int,
	fetchImages bool,
) *RestaurantService {
	return &RestaurantService{
		repo:        repo,
		profiles:    profiles,
		cachedLimit: cachedLimit,
		fetchImages: fetchImages,
	}
}

// Search queries the collection endpoint. An empty term is rejected before
// any request is made; an empty location falls back to the term.
func (s *RestaurantService) Search(ctx context.Context, params entities.SearchParams) ([]entities.Restaurant, error) {
	params.Term = strings.TrimSpace(params.Term)
	if params.Term == "" {
		return nil, apperrors.NewInvalidArgumentError("Please enter a search term")
	}
	params.Location = strings.TrimSpace(params.Location)
	if params.Location == "" {
		params.Location = params.Term
	}

	ctx, span := observability.StartSpan(ctx, "RestaurantService.Search")
	defer span.End()

	results, err := s.repo.Search(ctx, params)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	observability.LoggerFromContext(ctx).Debug().
		Str("term", params.Term).
		Str("location", params.Location).
		Int("results", len(results)).
		Msg("Search completed")
	return results, nil
}

// GetCached retrieves the cached snapshot using the service defaults
func (s *RestaurantService) GetCached(ctx context.Context) ([]entities.Restaurant, error) {
	return s.GetCachedWith(ctx, entities.CachedOptions{Limit: s.cachedLimit, FetchImages: s.fetchImages})
}

// GetCachedWith retrieves the cached snapshot with explicit options. An empty
// snapshot is not an error.
func (s *RestaurantService) GetCachedWith(ctx context.Context, opts entities.CachedOptions) ([]entities.Restaurant, error) {
	ctx, span := observability.StartSpan(ctx, "RestaurantService.GetCached")
	defer span.End()

	results, err := s.repo.Cached(ctx, opts)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	return results, nil
}

// GetDetails retrieves one restaurant
func (s *RestaurantService) GetDetails(ctx context.Context, id string) (*entities.Restaurant, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperrors.NewInvalidArgumentError("restaurant id is required")
	}
	return s.repo.GetByID(ctx, id)
}

// VerifyHours requests an out-of-band hours check. The verified hours appear
// on a later GetDetails or GetCached.
func (s *RestaurantService) VerifyHours(ctx context.Context, id string) (*entities.VerificationReceipt, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperrors.NewInvalidArgumentError("restaurant id is required")
	}

	receipt, err := s.repo.RequestHoursVerification(ctx, id)
	if err != nil {
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info().
		Str("restaurant_id", id).
		Str("call_id", receipt.CallID).
		Msg("Hours verification requested")
	return receipt, nil
}

// GetProfile retrieves the signed-in user's profile
func (s *RestaurantService) GetProfile(ctx context.Context) (*entities.UserProfile, error) {
	if s.profiles == nil {
		return nil, apperrors.NewInternalError("profile repository is not configured", nil)
	}
	return s.profiles.GetProfile(ctx)
}
