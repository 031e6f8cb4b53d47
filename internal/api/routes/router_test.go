package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hungrymonkey/finder/internal/adapters/cache"
	"github.com/hungrymonkey/finder/internal/adapters/restaurants"
	"github.com/hungrymonkey/finder/internal/api/fixtures"
	"github.com/hungrymonkey/finder/internal/api/handlers"
	"github.com/hungrymonkey/finder/internal/application/services"
	"github.com/hungrymonkey/finder/internal/domain/entities"
	"github.com/hungrymonkey/finder/internal/infrastructure/auth"
	"github.com/hungrymonkey/finder/internal/infrastructure/clients/restaurantapi"
	apperrors "github.com/hungrymonkey/finder/pkg/errors"
)

var testSecret = []byte("router-test-secret")

func newTestServer(t *testing.T, verifyDelay time.Duration) *httptest.Server {
	t.Helper()

	store, err := fixtures.LoadStore()
	require.NoError(t, err)

	verifier := fixtures.NewHoursVerifier(cache.NewMemoryAdapter(), verifyDelay, nil)
	t.Cleanup(verifier.Close)

	router := NewRouter(
		handlers.NewRestaurantHandler(store, verifier),
		handlers.NewProfileHandler(),
		testSecret,
		[]string{"http://localhost:5173"},
		nil,
	)

	server := httptest.NewServer(router.SetupRoutes())
	t.Cleanup(server.Close)
	return server
}

func validToken(t *testing.T) string {
	t.Helper()
	token, err := auth.GenerateToken(testSecret, "user-42", "diner@example.com", time.Hour)
	require.NoError(t, err)
	return token
}

func get(t *testing.T, url, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestRouter_Health(t *testing.T) {
	server := newTestServer(t, time.Hour)

	resp := get(t, server.URL+"/api/health", "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
}

func TestRouter_SearchRequiresLocation(t *testing.T) {
	server := newTestServer(t, time.Hour)

	resp := get(t, server.URL+"/api/restaurants/search?term=pizza", "")

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "location is required", body["detail"])
}

func TestRouter_ProtectedRoutes(t *testing.T) {
	server := newTestServer(t, time.Hour)

	expired, err := auth.GenerateToken(testSecret, "user-42", "", -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		token  string
		status int
	}{
		{"details without token", "/api/restaurants/la-piazza-anytown", "", http.StatusUnauthorized},
		{"details with forged token", "/api/restaurants/la-piazza-anytown", "abc.def.ghi", http.StatusUnauthorized},
		{"details with expired token", "/api/restaurants/la-piazza-anytown", expired, http.StatusUnauthorized},
		{"details with valid token", "/api/restaurants/la-piazza-anytown", validToken(t), http.StatusOK},
		{"unknown restaurant", "/api/restaurants/nowhere", validToken(t), http.StatusNotFound},
		{"profile without token", "/api/user/profile", "", http.StatusUnauthorized},
		{"cached is public", "/api/restaurants/cached", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := get(t, server.URL+tt.path, tt.token)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestRouter_Profile(t *testing.T) {
	server := newTestServer(t, time.Hour)

	resp := get(t, server.URL+"/api/user/profile", validToken(t))

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "private, no-store", resp.Header.Get("Cache-Control"))

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "user-42", body["user_id"])
	assert.Equal(t, "diner@example.com", body["email"])
}

func TestRouter_CORSPreflight(t *testing.T) {
	server := newTestServer(t, time.Hour)

	req, err := http.NewRequest(http.MethodOptions, server.URL+"/api/restaurants/abc/verify-hours", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Less(t, resp.StatusCode, 300)
}

func newAdapter(server *httptest.Server, token string) *restaurants.APIAdapter {
	opts := []restaurantapi.Option{restaurantapi.WithTimeout(5 * time.Second)}
	if token != "" {
		opts = append(opts, restaurantapi.WithTokenProvider(auth.NewStaticTokenProvider(token)))
	}
	return restaurants.NewAPIAdapter(restaurantapi.NewClient(server.URL, opts...))
}

func TestClientAgainstFixtures_CachedIsNormalized(t *testing.T) {
	server := newTestServer(t, time.Hour)
	svc := services.NewRestaurantService(newAdapter(server, ""), nil, 0, true)

	list, err := svc.GetCached(context.Background())
	require.NoError(t, err)

	// The nameless fixture is dropped.
	require.Len(t, list, 9)
	for _, r := range list {
		assert.NotEmpty(t, r.ID)
		assert.NotEmpty(t, r.Name)
		assert.NotNil(t, r.Categories)
		assert.NotNil(t, r.Location.DisplayAddress)
		assert.NotEmpty(t, r.Photos, "fetch_images backfills %s", r.ID)
	}

	byID := map[string]entities.Restaurant{}
	for _, r := range list {
		byID[r.ID] = r
	}
	assert.Equal(t, 4.8, byID["sakura-sushi-anytown"].Rating)
	assert.Equal(t, entities.PriceExpensive, byID["sakura-sushi-anytown"].Price)
	assert.Equal(t, []string{"456 Cherry Blossom Lane", "Anytown, CA 94016", "US"}, byID["sakura-sushi-anytown"].Location.DisplayAddress)
	assert.Equal(t, []entities.Category{{Title: "Italian"}, {Title: "Wine Bars"}}, byID["la-piazza-anytown"].Categories)
	assert.False(t, byID["golden-dragon-springfield"].IsOpen)
}

func TestClientAgainstFixtures_SearchAndFilter(t *testing.T) {
	server := newTestServer(t, time.Hour)
	svc := services.NewRestaurantService(newAdapter(server, ""), nil, 0, true)

	list, err := svc.Search(context.Background(), entities.SearchParams{Term: "Springfield"})
	require.NoError(t, err)
	require.Len(t, list, 3)

	dinner := entities.DinnerWindow
	out := services.NewFilterEngine().Apply(list, entities.FilterCriteria{Window: &dinner})
	assert.Empty(t, out)

	out = services.NewFilterEngine().Apply(list, entities.FilterCriteria{OpenNow: true})
	require.Len(t, out, 1)
	assert.Equal(t, "night-owl-diner-springfield", out[0].ID)

	_, err = svc.Search(context.Background(), entities.SearchParams{Term: " "})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalidArgument))
}

func TestClientAgainstFixtures_AuthenticatedFlow(t *testing.T) {
	server := newTestServer(t, 20*time.Millisecond)

	anonymous := services.NewRestaurantService(newAdapter(server, ""), nil, 0, false)
	_, err := anonymous.VerifyHours(context.Background(), "sakura-sushi-anytown")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeAuthenticationRequired))

	adapter := newAdapter(server, validToken(t))
	svc := services.NewRestaurantService(adapter, adapter, 0, false)

	before, err := svc.GetDetails(context.Background(), "sakura-sushi-anytown")
	require.NoError(t, err)
	require.NotNil(t, before.Hours)
	assert.False(t, before.Hours.Verified)

	receipt, err := svc.VerifyHours(context.Background(), "sakura-sushi-anytown")
	require.NoError(t, err)
	assert.Equal(t, "success", receipt.Status)
	assert.NotEmpty(t, receipt.CallID)

	assert.Eventually(t, func() bool {
		r, err := svc.GetDetails(context.Background(), "sakura-sushi-anytown")
		return err == nil && r.Hours != nil && r.Hours.Verified
	}, time.Second, 10*time.Millisecond)

	profile, err := svc.GetProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "user-42", profile.UserID)
	assert.Equal(t, "This is a protected route", profile.Message)

	_, err = svc.GetDetails(context.Background(), "nowhere")
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeRequestFailed, appErr.Type)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
	assert.Equal(t, "Restaurant not found", appErr.Message)
}
