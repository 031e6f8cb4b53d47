package restaurantapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/hungrymonkey/finder/internal/domain/providers"
	"github.com/hungrymonkey/finder/internal/infrastructure/observability"
	apperrors "github.com/hungrymonkey/finder/pkg/errors"
)

const (
	restaurantsPath = "/api/restaurants"
	profilePath     = "/api/user/profile"

	maxErrorBody = 64 << 10
)

// Client is the remote restaurant API
type Client interface {
	SearchRestaurants(ctx context.Context, req SearchRequest) ([]RawRestaurant, error)
	GetCachedRestaurants(ctx context.Context, req CachedRequest) ([]RawRestaurant, error)
	GetRestaurant(ctx context.Context, id string) (*RawRestaurant, error)
	VerifyHours(ctx context.Context, id string) (*VerifyResponse, error)
	GetProfile(ctx context.Context) (map[string]any, error)
}

// SearchRequest holds the collection query parameters in wire form
type SearchRequest struct {
	Term       string
	Location   string
	Price      string
	OpenNow    *bool
	Categories string
	Limit      int
}

// CachedRequest holds the cached-snapshot query parameters
type CachedRequest struct {
	Limit       int
	FetchImages bool
}

type authMode int

const (
	// authOptional attaches a token when one is available
	authOptional authMode = iota
	// authRequired fails before any I/O when no token is available
	authRequired
)

// HTTPClient talks to the restaurant API over HTTP
type HTTPClient struct {
	baseURL            string
	httpClient         *http.Client
	tokens             providers.TokenProvider
	metrics            *observability.Metrics
	searchRequiresAuth bool
}

// Option configures an HTTPClient
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) { h.httpClient = c }
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(h *HTTPClient) { h.httpClient.Timeout = d }
}

// WithTokenProvider enables authenticated requests
func WithTokenProvider(p providers.TokenProvider) Option {
	return func(h *HTTPClient) { h.tokens = p }
}

// WithMetrics records per-request metrics
func WithMetrics(m *observability.Metrics) Option {
	return func(h *HTTPClient) { h.metrics = m }
}

// WithSearchRequiresAuth makes the search endpoint demand a token
func WithSearchRequiresAuth(required bool) Option {
	return func(h *HTTPClient) { h.searchRequiresAuth = required }
}

// NewClient creates a client for the API rooted at baseURL
func NewClient(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchRestaurants queries the collection endpoint
func (c *HTTPClient) SearchRestaurants(ctx context.Context, req SearchRequest) ([]RawRestaurant, error) {
	query := url.Values{}
	if req.Term != "" {
		query.Set("term", req.Term)
	}
	if req.Location != "" {
		query.Set("location", req.Location)
	}
	if req.Price != "" {
		query.Set("price", req.Price)
	}
	if req.OpenNow != nil {
		query.Set("open_now", strconv.FormatBool(*req.OpenNow))
	}
	if req.Categories != "" {
		query.Set("categories", req.Categories)
	}
	if req.Limit > 0 {
		query.Set("limit", strconv.Itoa(req.Limit))
	}

	mode := authOptional
	if c.searchRequiresAuth {
		mode = authRequired
	}

	var out restaurantList
	if err := c.doJSON(ctx, "search", http.MethodGet, restaurantsPath+"/search", query, mode, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetCachedRestaurants queries the cached-snapshot endpoint
func (c *HTTPClient) GetCachedRestaurants(ctx context.Context, req CachedRequest) ([]RawRestaurant, error) {
	query := url.Values{}
	if req.Limit > 0 {
		query.Set("limit", strconv.Itoa(req.Limit))
	}
	if req.FetchImages {
		query.Set("fetch_images", "true")
	}

	var out restaurantList
	if err := c.doJSON(ctx, "cached", http.MethodGet, restaurantsPath+"/cached", query, authOptional, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetRestaurant fetches a single restaurant
func (c *HTTPClient) GetRestaurant(ctx context.Context, id string) (*RawRestaurant, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.NewInvalidArgumentError("restaurant id is required")
	}
	out := &RawRestaurant{}
	if err := c.doJSON(ctx, "details", http.MethodGet, restaurantsPath+"/"+url.PathEscape(id), nil, authRequired, out); err != nil {
		return nil, err
	}
	return out, nil
}

// VerifyHours asks the API to confirm a restaurant's hours out of band
func (c *HTTPClient) VerifyHours(ctx context.Context, id string) (*VerifyResponse, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.NewInvalidArgumentError("restaurant id is required")
	}
	out := &VerifyResponse{}
	path := restaurantsPath + "/" + url.PathEscape(id) + "/verify-hours"
	if err := c.doJSON(ctx, "verify_hours", http.MethodPost, path, nil, authRequired, out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProfile fetches the signed-in user's profile payload
func (c *HTTPClient) GetProfile(ctx context.Context) (map[string]any, error) {
	out := map[string]any{}
	if err := c.doJSON(ctx, "profile", http.MethodGet, profilePath, nil, authRequired, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) bearerToken(ctx context.Context, mode authMode) (string, error) {
	if c.tokens == nil {
		if mode == authRequired {
			return "", apperrors.NewAuthenticationRequiredError("Authentication required but no token available")
		}
		return "", nil
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		if mode == authRequired {
			appErr := apperrors.NewAuthenticationRequiredError("failed to acquire token")
			appErr.Err = err
			return "", appErr
		}
		observability.LoggerFromContext(ctx).Debug().Err(err).Msg("Continuing without token")
		return "", nil
	}
	if token == "" && mode == authRequired {
		return "", apperrors.NewAuthenticationRequiredError("Authentication required but no token available")
	}
	return token, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, endpoint, method, path string, query url.Values, mode authMode, out interface{}) error {
	token, err := c.bearerToken(ctx, mode)
	if err != nil {
		return err
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	ctx, span := observability.StartSpan(ctx, "restaurantapi."+endpoint)
	defer span.End()

	httpReq, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return apperrors.NewInternalError("failed to build request", err)
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	observability.SetSpanAttributes(span,
		attribute.String("http.method", method),
		attribute.String("http.url", target),
		attribute.String("request.id", requestID),
		attribute.Bool("auth.attached", token != ""),
	)

	logger := observability.LoggerFromContext(ctx)
	start := time.Now()

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		observability.RecordAPICallMetric(ctx, c.metrics, endpoint, 0, time.Since(start))
		observability.RecordError(span, err)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		logger.Warn().Err(err).Str("endpoint", endpoint).Str("request_id", requestID).Msg("Restaurant API unreachable")
		return apperrors.NewNetworkUnavailableError(fmt.Sprintf("%s %s failed", method, path), err)
	}
	defer resp.Body.Close()

	observability.RecordAPICallMetric(ctx, c.metrics, endpoint, resp.StatusCode, time.Since(start))
	observability.SetSpanAttributes(span, attribute.Int("http.status_code", resp.StatusCode))

	logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Str("request_id", requestID).
		Msg("Restaurant API request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		appErr := apperrors.NewRequestFailedError(resp.StatusCode, errorMessage(resp, body))
		observability.RecordError(span, appErr)
		logger.Warn().
			Int("status", resp.StatusCode).
			Str("endpoint", endpoint).
			Str("body", string(body)).
			Msg("Restaurant API error")
		return appErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		appErr := apperrors.NewRequestFailedError(resp.StatusCode, "malformed response body")
		appErr.Err = err
		observability.RecordError(span, appErr)
		return appErr
	}

	return nil
}

// errorMessage extracts the server's explanation from an error response:
// {"detail": ...}, {"error"/"message": ...}, plain text, or the
// status text as a last resort.
func errorMessage(resp *http.Response, body []byte) string {
	var payload map[string]any
	if json.Unmarshal(body, &payload) == nil {
		for _, key := range []string{"detail", "message", "error"} {
			if s, ok := payload[key].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" && !strings.HasPrefix(text, "{") && len(text) <= 200 {
		return text
	}
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return fmt.Sprintf("status %d", resp.StatusCode)
}
