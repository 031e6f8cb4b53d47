package entities

import "strings"

// FilterCriteria is the set of user-selected filter predicates. Every field is
// independently optional; the zero value matches every restaurant.
type FilterCriteria struct {
	Price     PriceTier   `json:"price,omitempty"`
	MinRating *float64    `json:"min_rating,omitempty"`
	Category  string      `json:"category,omitempty"`
	Window    *TimeWindow `json:"window,omitempty"`
	Term      string      `json:"term,omitempty"`
	OpenNow   bool        `json:"open_now,omitempty"`
}

// IsEmpty reports whether no predicate is active
func (c FilterCriteria) IsEmpty() bool {
	return c.Price == PriceUnset &&
		c.MinRating == nil &&
		strings.TrimSpace(c.Category) == "" &&
		c.Window == nil &&
		strings.TrimSpace(c.Term) == "" &&
		!c.OpenNow
}

// SearchParams are the collection query parameters
type SearchParams struct {
	Term       string
	Location   string
	Price      PriceTier
	OpenNow    *bool
	Categories string
	Limit      int
}

// CachedOptions are the cached-snapshot query parameters
type CachedOptions struct {
	Limit       int
	FetchImages bool
}

// VerificationReceipt acknowledges a requested hours verification. The
// verified hours themselves arrive later through a re-fetch.
type VerificationReceipt struct {
	RestaurantID string `json:"restaurant_id"`
	Status       string `json:"status"`
	CallID       string `json:"call_id"`
}

// UserProfile is the user-scoped payload of the profile endpoint
type UserProfile struct {
	UserID  string         `json:"user_id,omitempty"`
	Email   string         `json:"email,omitempty"`
	Message string         `json:"message,omitempty"`
	Raw     map[string]any `json:"raw,omitempty"`
}
