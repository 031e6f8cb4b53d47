package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/hungrymonkey/finder/internal/domain/entities"
	"github.com/hungrymonkey/finder/internal/infrastructure/observability"
	apperrors "github.com/hungrymonkey/finder/pkg/errors"
)

const (
	// DefaultDebounce is the quiet interval before typed input is searched
	DefaultDebounce = 300 * time.Millisecond

	NoticeEmptyTerm   = "Please enter a search term"
	NoticeNoResults   = "No restaurants found"
	noticeSearchEmpty = "No restaurants match your search"
)

// RestaurantSource is the subset of RestaurantService a session needs
type RestaurantSource interface {
	Search(ctx context.Context, params entities.SearchParams) ([]entities.Restaurant, error)
	GetCached(ctx context.Context) ([]entities.Restaurant, error)
}

// SessionView is a snapshot of the session for rendering
type SessionView struct {
	Restaurants []entities.Restaurant
	Total       int
	Loading     bool
	Err         error
	Notice      string
	Criteria    entities.FilterCriteria
	Query       string
}

// SearchSession owns the result, loading, error and notice state behind the
// list view. Requests are never cancelled when superseded; whichever finishes
// last sets the results.
type SearchSession struct {
	source    RestaurantSource
	engine    *FilterEngine
	debouncer *Debouncer[string]
	onUpdate  func(SessionView)

	mu       sync.Mutex
	results  []entities.Restaurant
	inFlight int
	err      error
	notice   string
	criteria entities.FilterCriteria
	query    string
}

// SessionOption configures a SearchSession
type SessionOption func(*SearchSession)

// WithDebounce sets the input quiet interval
func WithDebounce(d time.Duration) SessionOption {
	return func(s *SearchSession) {
		if d > 0 {
			s.debouncer = NewDebouncer(d, s.searchDebounced)
		}
	}
}

// WithUpdates registers a callback invoked with a fresh view after every
// completed request.
func WithUpdates(fn func(SessionView)) SessionOption {
	return func(s *SearchSession) { s.onUpdate = fn }
}

// WithFilterEngine replaces the default engine
func WithFilterEngine(e *FilterEngine) SessionOption {
	return func(s *SearchSession) { s.engine = e }
}

// NewSearchSession creates a new search session
func NewSearchSession(source RestaurantSource, opts ...SessionOption) *SearchSession {
	s := &SearchSession{
		source:  source,
		engine:  NewFilterEngine(),
		results: []entities.Restaurant{},
	}
	s.debouncer = NewDebouncer(DefaultDebounce, s.searchDebounced)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadCached fills the list from the cached snapshot
func (s *SearchSession) LoadCached(ctx context.Context) error {
	s.begin()
	results, err := s.source.GetCached(ctx)
	s.finish(ctx, "", results, err, NoticeNoResults)
	return err
}

// Input feeds one value of the text box. Only the last value within the
// debounce interval is searched; empty values are ignored.
func (s *SearchSession) Input(text string) {
	s.debouncer.Trigger(text)
}

// Submit searches for term immediately
func (s *SearchSession) Submit(ctx context.Context, term string) error {
	term = strings.TrimSpace(term)
	if term == "" {
		err := apperrors.NewInvalidArgumentError(NoticeEmptyTerm)
		s.mu.Lock()
		s.err = err
		s.notice = ""
		s.mu.Unlock()
		s.publish()
		return err
	}

	s.mu.Lock()
	price := s.criteria.Price
	s.mu.Unlock()

	s.begin()
	results, err := s.source.Search(ctx, entities.SearchParams{
		Term:     term,
		Location: term,
		Price:    price,
	})
	s.finish(ctx, term, results, err, noticeSearchEmpty)
	return err
}

// Flush searches pending debounced input now and returns once every
// debounced search has completed.
func (s *SearchSession) Flush() {
	s.debouncer.Flush()
}

// Close drops any pending debounced input
func (s *SearchSession) Close() {
	s.debouncer.Stop()
}

// SetCriteria replaces the filter criteria
func (s *SearchSession) SetCriteria(c entities.FilterCriteria) {
	s.mu.Lock()
	s.criteria = c
	s.mu.Unlock()
}

// UpdateCriteria edits the filter criteria in place
func (s *SearchSession) UpdateCriteria(fn func(*entities.FilterCriteria)) {
	s.mu.Lock()
	fn(&s.criteria)
	s.mu.Unlock()
}

// View returns the filtered and ranked snapshot
func (s *SearchSession) View() SessionView {
	s.mu.Lock()
	results := s.results
	view := SessionView{
		Total:    len(s.results),
		Loading:  s.inFlight > 0,
		Err:      s.err,
		Notice:   s.notice,
		Criteria: s.criteria,
		Query:    s.query,
	}
	s.mu.Unlock()

	view.Restaurants = s.engine.Apply(results, view.Criteria)
	return view
}

func (s *SearchSession) searchDebounced(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	if err := s.Submit(context.Background(), text); err != nil {
		observability.GetLogger().Debug().Err(err).Str("term", text).Msg("Debounced search failed")
	}
}

func (s *SearchSession) begin() {
	s.mu.Lock()
	s.inFlight++
	s.err = nil
	s.mu.Unlock()
}

// finish records a completed request. Results are replaced wholesale and
// kept unchanged on error.
func (s *SearchSession) finish(ctx context.Context, query string, results []entities.Restaurant, err error, emptyNotice string) {
	s.mu.Lock()
	s.inFlight--
	if err != nil {
		s.err = err
		s.notice = ""
	} else {
		if results == nil {
			results = []entities.Restaurant{}
		}
		s.results = results
		s.query = query
		s.err = nil
		s.notice = ""
		if len(results) == 0 {
			s.notice = emptyNotice
		}
	}
	s.mu.Unlock()

	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("query", query).Msg("Restaurant request failed")
	}
	s.publish()
}

func (s *SearchSession) publish() {
	if s.onUpdate != nil {
		s.onUpdate(s.View())
	}
}
