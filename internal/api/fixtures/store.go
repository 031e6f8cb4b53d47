// Package fixtures holds the embedded restaurant data and the hours
// verification workflow served by the mock API.
package fixtures

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

//go:embed restaurants.json
var restaurantsJSON []byte

// Record is one restaurant in the loosely-typed wire shape. Records are kept
// as decoded maps so the mixed field shapes of the fixture file survive
// round trips unchanged.
type Record map[string]any

// ID returns business_id, falling back to id
func (r Record) ID() string {
	for _, key := range []string{"business_id", "id"} {
		if s, ok := r[key].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// Name returns the record's name or ""
func (r Record) Name() string {
	s, _ := r["name"].(string)
	return s
}

// Clone returns a copy whose top-level keys may be replaced without
// affecting the store.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// HasPhoto reports whether photos or image_url is set
func (r Record) HasPhoto() bool {
	if photos, ok := r["photos"].([]any); ok && len(photos) > 0 {
		return true
	}
	s, _ := r["image_url"].(string)
	return strings.TrimSpace(s) != ""
}

// Store is the read-only set of fixture restaurants
type Store struct {
	records []Record
	byID    map[string]Record
}

// LoadStore decodes the embedded fixture file
func LoadStore() (*Store, error) {
	return NewStore(restaurantsJSON)
}

// NewStore decodes a JSON array of restaurants
func NewStore(data []byte) (*Store, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode fixtures: %w", err)
	}

	s := &Store{records: records, byID: make(map[string]Record, len(records))}
	for _, r := range records {
		if id := r.ID(); id != "" {
			s.byID[id] = r
		}
	}
	return s, nil
}

// Get returns a copy of the record with id
func (s *Store) Get(id string) (Record, bool) {
	r, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return r.Clone(), true
}

// All returns copies of every record in file order
func (s *Store) All() []Record {
	out := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r.Clone())
	}
	return out
}

// Query holds the collection endpoint parameters
type Query struct {
	Term       string
	Location   string
	Price      string
	OpenNow    *bool
	Categories string
	Limit      int
}

// Search returns copies of the records matching q. Term and location are
// alternatives: a record matches when either one does.
func (s *Store) Search(q Query) []Record {
	term := strings.ToLower(strings.TrimSpace(q.Term))
	loc := strings.ToLower(strings.TrimSpace(q.Location))
	price := priceLevel(q.Price)
	cats := splitList(q.Categories)

	out := []Record{}
	for _, r := range s.records {
		if (term != "" || loc != "") && !(matchesText(r, term) || matchesLocation(r, loc)) {
			continue
		}
		if price != 0 && priceLevel(r["price"]) != price {
			continue
		}
		if q.OpenNow != nil && *q.OpenNow && !isOpen(r) {
			continue
		}
		if len(cats) > 0 && !hasAnyCategory(r, cats) {
			continue
		}
		out = append(out, r.Clone())
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out
}

func matchesText(r Record, term string) bool {
	if term == "" {
		return false
	}
	if strings.Contains(strings.ToLower(r.Name()), term) {
		return true
	}
	for _, c := range categoryNames(r) {
		if strings.Contains(c, term) {
			return true
		}
	}
	return false
}

func matchesLocation(r Record, loc string) bool {
	if loc == "" {
		return false
	}
	l, ok := r["location"].(map[string]any)
	if !ok {
		return false
	}
	for _, key := range []string{"address1", "city", "zip_code"} {
		if s, ok := l[key].(string); ok && s != "" && strings.Contains(loc, strings.ToLower(s)) {
			return true
		}
	}
	return false
}

func hasAnyCategory(r Record, want []string) bool {
	names := categoryNames(r)
	for _, w := range want {
		for _, n := range names {
			if n == w {
				return true
			}
		}
	}
	return false
}

// categoryNames returns lower-cased aliases and titles
func categoryNames(r Record) []string {
	cats, _ := r["categories"].([]any)
	var out []string
	for _, c := range cats {
		switch v := c.(type) {
		case string:
			out = append(out, strings.ToLower(v))
		case map[string]any:
			for _, key := range []string{"alias", "title"} {
				if s, ok := v[key].(string); ok && s != "" {
					out = append(out, strings.ToLower(s))
				}
			}
		}
	}
	return out
}

func isOpen(r Record) bool {
	if b, ok := r["is_open"].(bool); ok {
		return b
	}
	if b, ok := r["is_closed"].(bool); ok {
		return !b
	}
	return true
}

// priceLevel maps "$$", "2" or 2 to 2; anything else to 0
func priceLevel(v any) int {
	switch p := v.(type) {
	case float64:
		return int(p)
	case string:
		p = strings.TrimSpace(p)
		if p != "" && strings.Trim(p, "$") == "" {
			return len(p)
		}
		n, _ := strconv.Atoi(p)
		return n
	}
	return 0
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}
