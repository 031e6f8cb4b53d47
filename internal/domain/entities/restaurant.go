package entities

import "strings"

// PriceTier is the symbolic price level of a restaurant. The zero value means
// the price is unknown.
type PriceTier string

const (
	PriceUnset     PriceTier = ""
	PriceBudget    PriceTier = "$"
	PriceModerate  PriceTier = "$$"
	PriceExpensive PriceTier = "$$$"
	PriceLuxury    PriceTier = "$$$$"
)

// PriceTiers lists the known tiers from cheapest to most expensive.
var PriceTiers = []PriceTier{PriceBudget, PriceModerate, PriceExpensive, PriceLuxury}

// ParsePriceTier accepts either the symbolic form ("$$") or the numeric level
// ("2") used by the remote API. Anything else yields PriceUnset and false.
func ParsePriceTier(s string) (PriceTier, bool) {
	s = strings.TrimSpace(s)
	switch s {
	case "$", "1":
		return PriceBudget, true
	case "$$", "2":
		return PriceModerate, true
	case "$$$", "3":
		return PriceExpensive, true
	case "$$$$", "4":
		return PriceLuxury, true
	}
	return PriceUnset, false
}

// Level returns the numeric level (1-4) or 0 when unset.
func (p PriceTier) Level() int {
	for i, t := range PriceTiers {
		if t == p {
			return i + 1
		}
	}
	return 0
}

// Restaurant is one normalized restaurant as consumed by the finder.
// Every field except Hours is always populated, with empty defaults.
type Restaurant struct {
	ID          string          `json:"business_id"`
	Name        string          `json:"name"`
	Rating      float64         `json:"rating"`
	Price       PriceTier       `json:"price"`
	Phone       string          `json:"phone"`
	Categories  []Category      `json:"categories"`
	Location    Location        `json:"location"`
	Coordinates Coordinates     `json:"coordinates"`
	Photos      []string        `json:"photos"`
	IsOpen      bool            `json:"is_open"`
	Hours       *OperatingHours `json:"operating_hours,omitempty"`
}

// Category is a category tag of a restaurant
type Category struct {
	Alias string `json:"alias"`
	Title string `json:"title"`
}

// Location is a postal address plus its precomputed display lines
type Location struct {
	Address1       string   `json:"address1"`
	Address2       string   `json:"address2"`
	Address3       string   `json:"address3"`
	City           string   `json:"city"`
	State          string   `json:"state"`
	ZipCode        string   `json:"zip_code"`
	Country        string   `json:"country"`
	DisplayAddress []string `json:"display_address"`
}

// Coordinates represents geographical coordinates
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// OperatingHours holds hours confirmed out of band, e.g. by a verification call.
type OperatingHours struct {
	TimeOpen   string    `json:"time_open"`
	TimeClosed string    `json:"time_closed"`
	Open       ClockTime `json:"-"`
	Close      ClockTime `json:"-"`
	// HasTimes is false when either time was missing or unparseable.
	HasTimes   bool      `json:"-"`
	Verified   bool      `json:"is_hours_verified"`
	Consenting bool      `json:"is_consenting"`
	OpenNow    *bool     `json:"is_open,omitempty"`
}

// Covers reports whether the hours are verified and span the whole window.
func (h *OperatingHours) Covers(w TimeWindow) bool {
	if h == nil || !h.Verified || !h.HasTimes {
		return false
	}
	open, closing := h.Open.Minutes(), h.Close.Minutes()
	if closing <= open {
		closing += minutesPerDay
	}
	wantOpen, wantClose := w.Open.Minutes(), w.Close.Minutes()
	if wantClose <= wantOpen {
		wantClose += minutesPerDay
	}
	return open <= wantOpen && closing >= wantClose
}

// HasPhoto reports whether the restaurant has at least one photo
func (r *Restaurant) HasPhoto() bool {
	return len(r.Photos) > 0
}

// AddressLine joins the display address into one line.
func (r *Restaurant) AddressLine() string {
	return strings.Join(r.Location.DisplayAddress, ", ")
}

// CategoryTitles returns the category titles in order.
func (r *Restaurant) CategoryTitles() []string {
	titles := make([]string, 0, len(r.Categories))
	for _, c := range r.Categories {
		if c.Title != "" {
			titles = append(titles, c.Title)
		} else if c.Alias != "" {
			titles = append(titles, c.Alias)
		}
	}
	return titles
}
