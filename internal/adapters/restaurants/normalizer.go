package restaurants

import (
	"context"
	"math"
	"strings"

	"github.com/hungrymonkey/finder/internal/domain/entities"
	"github.com/hungrymonkey/finder/internal/infrastructure/clients/restaurantapi"
	"github.com/hungrymonkey/finder/internal/infrastructure/observability"
)

const maxRating = 5.0

// Normalize maps raw API records onto entities.Restaurant, dropping records
// that still lack an identifier or a name after fallbacks. Input order is kept.
func Normalize(ctx context.Context, raws []restaurantapi.RawRestaurant) []entities.Restaurant {
	out := make([]entities.Restaurant, 0, len(raws))
	dropped := 0
	for i := range raws {
		r, ok := NormalizeOne(&raws[i])
		if !ok {
			dropped++
			continue
		}
		out = append(out, r)
	}
	if dropped > 0 {
		observability.LoggerFromContext(ctx).Warn().
			Int("dropped", dropped).
			Int("received", len(raws)).
			Msg("Dropped restaurant records without id or name")
	}
	return out
}

// NormalizeOne maps a single raw record. The boolean is false when the record
// has no usable identifier or name.
func NormalizeOne(raw *restaurantapi.RawRestaurant) (entities.Restaurant, bool) {
	if raw == nil {
		return entities.Restaurant{}, false
	}

	id := firstNonEmpty(str(raw.BusinessID), str(raw.ID))
	name := strings.TrimSpace(str(raw.Name))
	if id == "" || name == "" {
		return entities.Restaurant{}, false
	}

	r := entities.Restaurant{
		ID:         id,
		Name:       name,
		Rating:     rating(raw.Rating),
		Price:      price(raw.Price),
		Phone:      strings.TrimSpace(str(raw.Phone)),
		Categories: categories(raw.Categories),
		Location:   location(raw.Location),
		Photos:     photos(raw.Photos, str(raw.ImageURL)),
		IsOpen:     isOpen(raw.IsOpen, raw.IsClosed),
		Hours:      hours(raw.OperatingHours),
	}
	if raw.Coordinates != nil {
		r.Coordinates = entities.Coordinates{
			Latitude:  flex(raw.Coordinates.Latitude),
			Longitude: flex(raw.Coordinates.Longitude),
		}
	}
	return r, true
}

func rating(f *restaurantapi.FlexFloat) float64 {
	v := flex(f)
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return math.Min(v, maxRating)
}

func price(s *restaurantapi.FlexString) entities.PriceTier {
	if s == nil {
		return entities.PriceUnset
	}
	tier, _ := entities.ParsePriceTier(string(*s))
	return tier
}

func categories(raws []restaurantapi.RawCategory) []entities.Category {
	out := make([]entities.Category, 0, len(raws))
	for _, c := range raws {
		alias, title := strings.TrimSpace(c.Alias), strings.TrimSpace(c.Title)
		if alias == "" && title == "" {
			continue
		}
		out = append(out, entities.Category{Alias: alias, Title: title})
	}
	return out
}

func location(raw *restaurantapi.RawLocation) entities.Location {
	loc := entities.Location{DisplayAddress: []string{}}
	if raw == nil {
		return loc
	}

	loc.Address1 = strings.TrimSpace(str(raw.Address1))
	loc.Address2 = strings.TrimSpace(str(raw.Address2))
	loc.Address3 = strings.TrimSpace(str(raw.Address3))
	loc.City = strings.TrimSpace(str(raw.City))
	loc.State = strings.TrimSpace(str(raw.State))
	loc.ZipCode = strings.TrimSpace(str(raw.ZipCode))
	loc.Country = strings.TrimSpace(str(raw.Country))

	if display := nonBlank(raw.DisplayAddress); len(display) > 0 {
		loc.DisplayAddress = display
		return loc
	}
	loc.DisplayAddress = nonBlank([]string{
		loc.Address1,
		loc.Address2,
		loc.Address3,
		cityLine(loc.City, loc.State, loc.ZipCode),
		loc.Country,
	})
	return loc
}

// cityLine formats "City, State Zip" leaving out whatever is missing.
func cityLine(city, state, zip string) string {
	tail := strings.TrimSpace(state + " " + zip)
	switch {
	case city == "":
		return tail
	case tail == "":
		return city
	default:
		return city + ", " + tail
	}
}

func photos(raws []string, imageURL string) []string {
	out := nonBlank(raws)
	if len(out) == 0 && strings.TrimSpace(imageURL) != "" {
		out = append(out, strings.TrimSpace(imageURL))
	}
	return out
}

func isOpen(open, closed *bool) bool {
	if open != nil {
		return *open
	}
	if closed != nil {
		return !*closed
	}
	return true
}

func hours(raw *restaurantapi.RawOperatingHours) *entities.OperatingHours {
	if raw == nil {
		return nil
	}
	h := &entities.OperatingHours{
		TimeOpen:   strings.TrimSpace(str(raw.TimeOpen)),
		TimeClosed: strings.TrimSpace(str(raw.TimeClosed)),
		Verified:   boolean(raw.IsHoursVerified),
		Consenting: boolean(raw.IsConsenting),
		OpenNow:    raw.IsOpen,
	}

	open, openErr := entities.ParseClockTime(h.TimeOpen)
	closing, closeErr := entities.ParseClockTime(h.TimeClosed)
	if h.TimeOpen != "" && h.TimeClosed != "" && openErr == nil && closeErr == nil {
		h.Open, h.Close, h.HasTimes = open, closing, true
	}
	return h
}

func nonBlank(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func boolean(p *bool) bool {
	return p != nil && *p
}

func flex(f *restaurantapi.FlexFloat) float64 {
	if f == nil {
		return 0
	}
	return float64(*f)
}
