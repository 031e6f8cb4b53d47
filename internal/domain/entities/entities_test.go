package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClockTime(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"11:00", "11:00"},
		{"9:30", "09:30"},
		{"10:00 AM", "10:00"},
		{"2:00 PM", "14:00"},
		{"2:00PM", "14:00"},
		{"5 pm", "17:00"},
		{"12 AM", "00:00"},
		{"24:00", "24:00"},
		{"22:30:00", "22:30"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClockTime(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}

	_, err := ParseClockTime("noonish")
	assert.Error(t, err)
	_, err = ParseClockTime("")
	assert.Error(t, err)
}

func TestParseTimeWindow(t *testing.T) {
	w, err := ParseTimeWindow("Lunch")
	require.NoError(t, err)
	assert.Equal(t, LunchWindow, w)

	w, err = ParseTimeWindow("18:00-21:30")
	require.NoError(t, err)
	assert.Equal(t, "18:00-21:30", w.String())

	_, err = ParseTimeWindow("brunch")
	assert.Error(t, err)
}

func TestParsePriceTier(t *testing.T) {
	p, ok := ParsePriceTier("2")
	assert.True(t, ok)
	assert.Equal(t, PriceModerate, p)
	assert.Equal(t, 2, p.Level())

	p, ok = ParsePriceTier("$$$$")
	assert.True(t, ok)
	assert.Equal(t, 4, p.Level())

	p, ok = ParsePriceTier("cheap")
	assert.False(t, ok)
	assert.Equal(t, PriceUnset, p)
	assert.Equal(t, 0, p.Level())
}

func TestOperatingHours_Covers(t *testing.T) {
	hours := func(open, closing string, verified bool) *OperatingHours {
		return &OperatingHours{
			Open:     MustClock(open),
			Close:    MustClock(closing),
			HasTimes: true,
			Verified: verified,
		}
	}

	assert.True(t, hours("10:00", "22:00", true).Covers(LunchWindow))
	assert.False(t, hours("10:00", "22:00", false).Covers(LunchWindow))
	assert.False(t, hours("12:00", "22:00", true).Covers(LunchWindow), "opens after the window starts")
	assert.False(t, hours("10:00", "14:00", true).Covers(LunchWindow), "closes before the window ends")
	assert.True(t, hours("17:00", "00:00", true).Covers(DinnerWindow), "closing at midnight wraps")
	assert.False(t, (&OperatingHours{Verified: true}).Covers(LunchWindow), "unknown times")

	var missing *OperatingHours
	assert.False(t, missing.Covers(LunchWindow))
}

func TestFilterCriteria_IsEmpty(t *testing.T) {
	assert.True(t, FilterCriteria{}.IsEmpty())
	assert.True(t, FilterCriteria{Term: "  "}.IsEmpty())
	assert.False(t, FilterCriteria{Price: PriceBudget}.IsEmpty())
	assert.False(t, FilterCriteria{OpenNow: true}.IsEmpty())
}

func TestRestaurant_Helpers(t *testing.T) {
	r := Restaurant{
		Categories: []Category{{Alias: "sushi", Title: "Sushi Bars"}, {Alias: "bars"}},
		Location:   Location{DisplayAddress: []string{"1 Main St", "Austin, TX 78701"}},
	}

	assert.Equal(t, []string{"Sushi Bars", "bars"}, r.CategoryTitles())
	assert.Equal(t, "1 Main St, Austin, TX 78701", r.AddressLine())
	assert.False(t, r.HasPhoto())
}
