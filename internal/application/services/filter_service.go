package services

import (
	"sort"
	"strings"

	"github.com/hungrymonkey/finder/internal/domain/entities"
)

// FilterEngine narrows and ranks an in-memory restaurant list. It performs no
// I/O and never mutates its input.
type FilterEngine struct {
	imagesFirst bool
}

// FilterOption configures a FilterEngine
type FilterOption func(*FilterEngine)

// WithImagesFirst ranks restaurants with at least one photo ahead of those
// without, regardless of rating.
func WithImagesFirst(enabled bool) FilterOption {
	return func(e *FilterEngine) { e.imagesFirst = enabled }
}

// NewFilterEngine creates a new filter engine
func NewFilterEngine(opts ...FilterOption) *FilterEngine {
	e := &FilterEngine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ImagesFirst reports whether the photo tie-break is in effect
func (e *FilterEngine) ImagesFirst() bool {
	return e.imagesFirst
}

// Apply returns the restaurants matching every active criterion, sorted by
// rating descending. Equal keys keep their input order.
func (e *FilterEngine) Apply(records []entities.Restaurant, criteria entities.FilterCriteria) []entities.Restaurant {
	m := newMatcher(criteria)

	out := make([]entities.Restaurant, 0, len(records))
	for i := range records {
		if m.matches(&records[i]) {
			out = append(out, records[i])
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if e.imagesFirst {
			pi, pj := out[i].HasPhoto(), out[j].HasPhoto()
			if pi != pj {
				return pi
			}
		}
		return out[i].Rating > out[j].Rating
	})

	return out
}

// matcher holds the criteria in the form the predicates compare against.
type matcher struct {
	price     entities.PriceTier
	minRating *float64
	category  string
	window    *entities.TimeWindow
	term      string
	openNow   bool
}

func newMatcher(c entities.FilterCriteria) matcher {
	return matcher{
		price:     c.Price,
		minRating: c.MinRating,
		category:  strings.ToLower(strings.TrimSpace(c.Category)),
		window:    c.Window,
		term:      strings.ToLower(strings.TrimSpace(c.Term)),
		openNow:   c.OpenNow,
	}
}

func (m matcher) matches(r *entities.Restaurant) bool {
	if m.price != entities.PriceUnset && r.Price != m.price {
		return false
	}
	if m.minRating != nil && r.Rating < *m.minRating {
		return false
	}
	if m.category != "" && !hasCategory(r, m.category) {
		return false
	}
	if m.window != nil && !r.Hours.Covers(*m.window) {
		return false
	}
	if m.term != "" && !matchesTerm(r, m.term) {
		return false
	}
	if m.openNow && !r.IsOpen {
		return false
	}
	return true
}

// hasCategory matches an alias or a title, ignoring case.
func hasCategory(r *entities.Restaurant, want string) bool {
	for _, c := range r.Categories {
		if strings.ToLower(c.Alias) == want || strings.ToLower(c.Title) == want {
			return true
		}
	}
	return false
}

func matchesTerm(r *entities.Restaurant, term string) bool {
	if strings.Contains(strings.ToLower(r.Name), term) {
		return true
	}
	for _, c := range r.Categories {
		if strings.Contains(strings.ToLower(c.Title), term) || strings.Contains(strings.ToLower(c.Alias), term) {
			return true
		}
	}
	return false
}
