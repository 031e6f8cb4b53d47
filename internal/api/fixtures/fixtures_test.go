package fixtures

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hungrymonkey/finder/internal/adapters/cache"
)

func ids(records []Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID())
	}
	return out
}

func TestLoadStore_EmbeddedFixtures(t *testing.T) {
	store, err := LoadStore()
	require.NoError(t, err)

	all := store.All()
	assert.Len(t, all, 10)

	r, ok := store.Get("la-piazza-anytown")
	require.True(t, ok)
	assert.Equal(t, "La Piazza", r.Name())

	_, ok = store.Get("nope")
	assert.False(t, ok)
}

func TestStore_GetReturnsCopy(t *testing.T) {
	store, err := LoadStore()
	require.NoError(t, err)

	r, _ := store.Get("green-bowl-springfield")
	r["photos"] = []any{"x"}

	again, _ := store.Get("green-bowl-springfield")
	assert.False(t, again.HasPhoto())
}

func TestStore_Search(t *testing.T) {
	store, err := NewStore([]byte(`[
		{"business_id":"a","name":"Pizza Palace","price":"$$","categories":[{"alias":"pizza","title":"Pizza"}],"location":{"city":"Austin","zip_code":"78701"},"is_closed":false},
		{"business_id":"b","name":"Taco Town","price":1,"categories":["Mexican"],"location":{"city":"Austin"},"is_open":false},
		{"id":"c","name":"Noodle Bar","price":"2","categories":[{"alias":"ramen","title":"Ramen"}],"location":{"city":"Dallas"}}
	]`))
	require.NoError(t, err)

	yes := true
	tests := []struct {
		name string
		q    Query
		want []string
	}{
		{"no parameters", Query{}, []string{"a", "b", "c"}},
		{"term in name", Query{Term: "pizza", Location: "pizza"}, []string{"a"}},
		{"term in category", Query{Term: "mexican"}, []string{"b"}},
		{"location contains city", Query{Term: "food", Location: "Austin, TX"}, []string{"a", "b"}},
		{"numeric price", Query{Price: "2"}, []string{"a", "c"}},
		{"symbolic price", Query{Price: "$"}, []string{"b"}},
		{"open now", Query{OpenNow: &yes}, []string{"a", "c"}},
		{"categories list", Query{Categories: "ramen, pizza"}, []string{"a", "c"}},
		{"limit", Query{Limit: 2}, []string{"a", "b"}},
		{"no match", Query{Term: "sushi", Location: "Seattle"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(store.Search(tt.q)))
		})
	}
}

func TestPriceLevel(t *testing.T) {
	assert.Equal(t, 2, priceLevel("$$"))
	assert.Equal(t, 3, priceLevel("3"))
	assert.Equal(t, 4, priceLevel(float64(4)))
	assert.Equal(t, 0, priceLevel(nil))
	assert.Equal(t, 0, priceLevel("cheap"))
}

func TestHoursVerifier_CompletesAfterDelay(t *testing.T) {
	ctx := context.Background()
	store, err := LoadStore()
	require.NoError(t, err)

	verifier := NewHoursVerifier(cache.NewMemoryAdapter(), 20*time.Millisecond, nil)
	defer verifier.Close()

	rec, ok := store.Get("sakura-sushi-anytown")
	require.True(t, ok)

	call, err := verifier.Request(ctx, rec)
	require.NoError(t, err)
	assert.NotEmpty(t, call.CallID)
	assert.Equal(t, StatusInProgress, call.Status)

	before := verifier.Overlay(ctx, rec.Clone())
	hours := before["operating_hours"].(map[string]any)
	assert.Equal(t, false, hours["is_hours_verified"])

	assert.Eventually(t, func() bool {
		status, found, err := verifier.Status(ctx, rec.ID())
		return err == nil && found && status.Status == StatusCompleted
	}, time.Second, 5*time.Millisecond)

	after := verifier.Overlay(ctx, rec.Clone())
	hours = after["operating_hours"].(map[string]any)
	assert.Equal(t, true, hours["is_hours_verified"])
	assert.Equal(t, "12:00", hours["time_open"])
	assert.Equal(t, "22:30", hours["time_closed"])
}

func TestHoursVerifier_DefaultHours(t *testing.T) {
	hours := confirmedHours(Record{"business_id": "x", "is_closed": true})

	assert.Equal(t, defaultTimeOpen, hours["time_open"])
	assert.Equal(t, defaultTimeClosed, hours["time_closed"])
	assert.Equal(t, false, hours["is_open"])
}

func TestHoursVerifier_CloseAbandonsPending(t *testing.T) {
	ctx := context.Background()
	verifier := NewHoursVerifier(cache.NewMemoryAdapter(), time.Hour, nil)

	_, err := verifier.Request(ctx, Record{"business_id": "x", "name": "X"})
	require.NoError(t, err)

	verifier.Close()

	status, found, err := verifier.Status(ctx, "x")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, StatusInProgress, status.Status)
}
