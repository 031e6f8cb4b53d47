package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hungrymonkey/finder/internal/domain/entities"
)

func ratingPtr(v float64) *float64 { return &v }

func ids(records []entities.Restaurant) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func verifiedHours(open, close string) *entities.OperatingHours {
	return &entities.OperatingHours{
		TimeOpen:   open,
		TimeClosed: close,
		Open:       entities.MustClock(open),
		Close:      entities.MustClock(close),
		HasTimes:   true,
		Verified:   true,
	}
}

func sampleRestaurants() []entities.Restaurant {
	return []entities.Restaurant{
		{
			ID: "taqueria", Name: "La Taqueria", Rating: 4.5, Price: entities.PriceBudget,
			Categories: []entities.Category{{Alias: "mexican", Title: "Mexican"}},
			Photos:     []string{"https://img/taq.jpg"}, IsOpen: true,
			Hours: verifiedHours("10:00", "23:00"),
		},
		{
			ID: "sushi", Name: "Sushi Zone", Rating: 4.8, Price: entities.PriceExpensive,
			Categories: []entities.Category{{Alias: "sushi", Title: "Sushi Bars"}},
			Photos:     []string{}, IsOpen: false,
			Hours: verifiedHours("17:00", "22:00"),
		},
		{
			ID: "diner", Name: "Night Owl Diner", Rating: 3.9, Price: entities.PriceBudget,
			Categories: []entities.Category{{Alias: "diners", Title: "Diners"}},
			Photos:     []string{}, IsOpen: true,
			Hours: verifiedHours("18:00", "04:00"),
		},
		{
			ID: "bistro", Name: "Corner Bistro", Rating: 4.5, Price: entities.PriceModerate,
			Categories: []entities.Category{{Alias: "french", Title: "French"}},
			Photos:     []string{"https://img/bistro.jpg"}, IsOpen: true,
			Hours: &entities.OperatingHours{
				Open: entities.MustClock("08:00"), Close: entities.MustClock("23:00"), HasTimes: true,
			},
		},
		{
			ID: "cart", Name: "Taco Cart", Rating: 4.1, Price: entities.PriceUnset,
			Categories: []entities.Category{{Alias: "foodtrucks", Title: "Food Trucks"}},
			Photos:     []string{}, IsOpen: true,
		},
	}
}

func TestFilterEngine_PriceScenario(t *testing.T) {
	records := []entities.Restaurant{
		{ID: "a", Name: "A", Rating: 4.5, Price: entities.PriceModerate},
		{ID: "b", Name: "B", Rating: 4.8, Price: entities.PriceExpensive},
		{ID: "c", Name: "C", Rating: 3.0, Price: entities.PriceModerate},
	}

	out := NewFilterEngine().Apply(records, entities.FilterCriteria{Price: entities.PriceModerate})

	assert.Equal(t, []string{"a", "c"}, ids(out))
}

func TestFilterEngine_EmptyCriteriaOnlySorts(t *testing.T) {
	out := NewFilterEngine().Apply(sampleRestaurants(), entities.FilterCriteria{})

	// Equal ratings keep input order.
	assert.Equal(t, []string{"sushi", "taqueria", "bistro", "cart", "diner"}, ids(out))
}

func TestFilterEngine_Predicates(t *testing.T) {
	lunch := entities.LunchWindow
	dinner := entities.DinnerWindow
	lateNight := entities.TimeWindow{Open: entities.MustClock("23:00"), Close: entities.MustClock("02:00")}

	tests := []struct {
		name     string
		criteria entities.FilterCriteria
		want     []string
	}{
		{"price", entities.FilterCriteria{Price: entities.PriceBudget}, []string{"taqueria", "diner"}},
		{"min rating inclusive", entities.FilterCriteria{MinRating: ratingPtr(4.5)}, []string{"sushi", "taqueria", "bistro"}},
		{"category alias", entities.FilterCriteria{Category: "sushi"}, []string{"sushi"}},
		{"category title any case", entities.FilterCriteria{Category: "FOOD TRUCKS"}, []string{"cart"}},
		{"category is not substring", entities.FilterCriteria{Category: "food"}, []string{}},
		{"term in name", entities.FilterCriteria{Term: "taco"}, []string{"cart"}},
		{"term in category", entities.FilterCriteria{Term: "mex"}, []string{"taqueria"}},
		{"open now", entities.FilterCriteria{OpenNow: true}, []string{"taqueria", "bistro", "cart", "diner"}},
		{"lunch needs verified containing hours", entities.FilterCriteria{Window: &lunch}, []string{"taqueria"}},
		{"dinner exact bounds", entities.FilterCriteria{Window: &dinner}, []string{"sushi", "taqueria"}},
		{"window past midnight", entities.FilterCriteria{Window: &lateNight}, []string{"diner"}},
		{
			"and semantics",
			entities.FilterCriteria{Price: entities.PriceBudget, MinRating: ratingPtr(4.0), OpenNow: true},
			[]string{"taqueria"},
		},
	}

	engine := NewFilterEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := engine.Apply(sampleRestaurants(), tt.criteria)
			assert.Equal(t, tt.want, ids(out))
		})
	}
}

func TestFilterEngine_ImagesFirst(t *testing.T) {
	engine := NewFilterEngine(WithImagesFirst(true))
	require.True(t, engine.ImagesFirst())

	out := engine.Apply(sampleRestaurants(), entities.FilterCriteria{})

	assert.Equal(t, []string{"taqueria", "bistro", "sushi", "cart", "diner"}, ids(out))
}

func TestFilterEngine_DoesNotMutateInput(t *testing.T) {
	records := sampleRestaurants()
	before := ids(records)

	_ = NewFilterEngine(WithImagesFirst(true)).Apply(records, entities.FilterCriteria{MinRating: ratingPtr(4.0)})

	assert.Equal(t, before, ids(records))
	assert.Equal(t, sampleRestaurants(), records)
}

func TestFilterEngine_Idempotent(t *testing.T) {
	dinner := entities.DinnerWindow
	criteria := []entities.FilterCriteria{
		{},
		{Price: entities.PriceBudget},
		{MinRating: ratingPtr(4.1), Term: "a"},
		{Window: &dinner},
	}

	for _, engine := range []*FilterEngine{NewFilterEngine(), NewFilterEngine(WithImagesFirst(true))} {
		for _, c := range criteria {
			once := engine.Apply(sampleRestaurants(), c)
			twice := engine.Apply(once, c)
			assert.Equal(t, once, twice)
		}
	}
}

func TestFilterEngine_Properties(t *testing.T) {
	records := sampleRestaurants()
	engine := NewFilterEngine()

	t.Run("result is a subset sorted by rating", func(t *testing.T) {
		out := engine.Apply(records, entities.FilterCriteria{})
		require.Len(t, out, len(records))
		for i := 1; i < len(out); i++ {
			assert.GreaterOrEqual(t, out[i-1].Rating, out[i].Rating)
		}
	})

	t.Run("price equality is exact", func(t *testing.T) {
		for _, tier := range entities.PriceTiers {
			for _, r := range engine.Apply(records, entities.FilterCriteria{Price: tier}) {
				assert.Equal(t, tier, r.Price)
			}
		}
	})

	t.Run("rating threshold holds", func(t *testing.T) {
		for _, floor := range []float64{0, 3.9, 4.2, 5} {
			for _, r := range engine.Apply(records, entities.FilterCriteria{MinRating: ratingPtr(floor)}) {
				assert.GreaterOrEqual(t, r.Rating, floor)
			}
		}
	})

	t.Run("window is contained in verified hours", func(t *testing.T) {
		windows := map[string]struct {
			window entities.TimeWindow
			want   []string
		}{
			"early dinner": {
				window: entities.TimeWindow{Open: entities.MustClock("17:00"), Close: entities.MustClock("21:00")},
				want:   []string{"sushi", "taqueria"},
			},
			"late dinner": {
				window: entities.TimeWindow{Open: entities.MustClock("19:00"), Close: entities.MustClock("22:00")},
				want:   []string{"sushi", "taqueria", "diner"},
			},
		}
		for name, tc := range windows {
			t.Run(name, func(t *testing.T) {
				out := engine.Apply(records, entities.FilterCriteria{Window: &tc.window})
				require.NotEmpty(t, out)
				assert.Equal(t, tc.want, ids(out))
				for _, r := range out {
					require.NotNil(t, r.Hours)
					assert.True(t, r.Hours.Verified)
					assert.True(t, r.Hours.Covers(tc.window), "%s does not cover the window", r.ID)
				}
			})
		}
	})
}

func TestFilterEngine_EmptyInput(t *testing.T) {
	out := NewFilterEngine().Apply(nil, entities.FilterCriteria{Term: "x"})
	assert.NotNil(t, out)
	assert.Empty(t, out)
}
