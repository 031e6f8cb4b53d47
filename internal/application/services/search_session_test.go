package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hungrymonkey/finder/internal/domain/entities"
	apperrors "github.com/hungrymonkey/finder/pkg/errors"
)

// MockRestaurantSource mocks the session's RestaurantSource
type MockRestaurantSource struct {
	mock.Mock
}

func (m *MockRestaurantSource) Search(ctx context.Context, params entities.SearchParams) ([]entities.Restaurant, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Restaurant), args.Error(1)
}

func (m *MockRestaurantSource) GetCached(ctx context.Context) ([]entities.Restaurant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Restaurant), args.Error(1)
}

func TestSearchSession_LoadCached(t *testing.T) {
	t.Run("fills results", func(t *testing.T) {
		source := new(MockRestaurantSource)
		source.On("GetCached", mock.Anything).Return(sampleRestaurants(), nil)

		session := NewSearchSession(source)
		require.NoError(t, session.LoadCached(context.Background()))

		view := session.View()
		assert.Equal(t, 5, view.Total)
		assert.Equal(t, "sushi", view.Restaurants[0].ID)
		assert.False(t, view.Loading)
		assert.NoError(t, view.Err)
		assert.Empty(t, view.Notice)
	})

	t.Run("empty snapshot is a notice", func(t *testing.T) {
		source := new(MockRestaurantSource)
		source.On("GetCached", mock.Anything).Return([]entities.Restaurant{}, nil)

		session := NewSearchSession(source)
		require.NoError(t, session.LoadCached(context.Background()))

		view := session.View()
		assert.NoError(t, view.Err)
		assert.Equal(t, NoticeNoResults, view.Notice)
		assert.NotNil(t, view.Restaurants)
	})

	t.Run("failure keeps previous results", func(t *testing.T) {
		source := new(MockRestaurantSource)
		source.On("GetCached", mock.Anything).Return(sampleRestaurants(), nil).Once()
		source.On("GetCached", mock.Anything).Return(nil, apperrors.NewNetworkUnavailableError("down", errors.New("dial"))).Once()

		session := NewSearchSession(source)
		require.NoError(t, session.LoadCached(context.Background()))
		require.Error(t, session.LoadCached(context.Background()))

		view := session.View()
		assert.Equal(t, 5, view.Total)
		assert.True(t, apperrors.IsType(view.Err, apperrors.ErrorTypeNetworkUnavailable))
	})
}

func TestSearchSession_Submit(t *testing.T) {
	t.Run("empty term sets error without request", func(t *testing.T) {
		source := new(MockRestaurantSource)
		session := NewSearchSession(source)

		err := session.Submit(context.Background(), "  ")

		require.Error(t, err)
		assert.Equal(t, NoticeEmptyTerm, apperrors.UserMessage(session.View().Err))
		source.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
	})

	t.Run("searches term as location with the price filter", func(t *testing.T) {
		source := new(MockRestaurantSource)
		source.On("Search", mock.Anything, entities.SearchParams{
			Term:     "brunch",
			Location: "brunch",
			Price:    entities.PriceModerate,
		}).Return([]entities.Restaurant{
			{ID: "a", Name: "A", Rating: 3.5, Price: entities.PriceModerate},
			{ID: "b", Name: "B", Rating: 4.5, Price: entities.PriceModerate},
		}, nil)

		session := NewSearchSession(source)
		session.SetCriteria(entities.FilterCriteria{Price: entities.PriceModerate})

		require.NoError(t, session.Submit(context.Background(), " brunch "))

		view := session.View()
		assert.Equal(t, []string{"b", "a"}, ids(view.Restaurants))
		assert.Equal(t, "brunch", view.Query)
		source.AssertExpectations(t)
	})

	t.Run("criteria changes re-filter without a request", func(t *testing.T) {
		source := new(MockRestaurantSource)
		source.On("GetCached", mock.Anything).Return(sampleRestaurants(), nil).Once()

		session := NewSearchSession(source)
		require.NoError(t, session.LoadCached(context.Background()))

		session.UpdateCriteria(func(c *entities.FilterCriteria) { c.Category = "mexican" })
		assert.Equal(t, []string{"taqueria"}, ids(session.View().Restaurants))

		session.UpdateCriteria(func(c *entities.FilterCriteria) { c.Category = "" })
		assert.Len(t, session.View().Restaurants, 5)
		source.AssertNumberOfCalls(t, "GetCached", 1)
	})
}

func TestSearchSession_InputIsDebounced(t *testing.T) {
	source := new(MockRestaurantSource)
	source.On("Search", mock.Anything, mock.MatchedBy(func(p entities.SearchParams) bool {
		return p.Term == "noodles"
	})).Return([]entities.Restaurant{{ID: "n", Name: "Noodle House", Rating: 4}}, nil)

	updates := make(chan SessionView, 4)
	session := NewSearchSession(source,
		WithDebounce(20*time.Millisecond),
		WithUpdates(func(v SessionView) { updates <- v }),
	)
	defer session.Close()

	for _, v := range []string{"n", "noo", "nood", "noodles"} {
		session.Input(v)
	}

	select {
	case view := <-updates:
		assert.Equal(t, []string{"n"}, ids(view.Restaurants))
	case <-time.After(time.Second):
		t.Fatal("no search after debounce interval")
	}

	time.Sleep(50 * time.Millisecond)
	source.AssertNumberOfCalls(t, "Search", 1)
}

func TestSearchSession_EmptyInputIgnored(t *testing.T) {
	source := new(MockRestaurantSource)
	session := NewSearchSession(source, WithDebounce(10*time.Millisecond))
	defer session.Close()

	session.Input("pizza")
	session.Input("")

	time.Sleep(50 * time.Millisecond)
	source.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
	assert.NoError(t, session.View().Err)
}

func TestSearchSession_FlushSearchesPendingInput(t *testing.T) {
	source := new(MockRestaurantSource)
	source.On("Search", mock.Anything, entities.SearchParams{Term: "curry", Location: "curry"}).
		Return([]entities.Restaurant{{ID: "c", Name: "Curry Corner", Rating: 4.2}}, nil).Once()

	session := NewSearchSession(source, WithDebounce(time.Hour))
	defer session.Close()

	session.Input("cur")
	session.Input("curry")
	session.Flush()

	view := session.View()
	assert.Equal(t, []string{"c"}, ids(view.Restaurants))
	assert.Equal(t, "curry", view.Query)
	assert.False(t, view.Loading)
	source.AssertExpectations(t)
}

// blockingSource releases each search only when told to, to order completions.
type blockingSource struct {
	mu      sync.Mutex
	release map[string]chan []entities.Restaurant
}

func (b *blockingSource) channel(term string) chan []entities.Restaurant {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.release == nil {
		b.release = map[string]chan []entities.Restaurant{}
	}
	if _, ok := b.release[term]; !ok {
		b.release[term] = make(chan []entities.Restaurant)
	}
	return b.release[term]
}

func (b *blockingSource) Search(ctx context.Context, params entities.SearchParams) ([]entities.Restaurant, error) {
	return <-b.channel(params.Term), nil
}

func (b *blockingSource) GetCached(ctx context.Context) ([]entities.Restaurant, error) {
	return nil, nil
}

func TestSearchSession_LastCompletionWins(t *testing.T) {
	source := &blockingSource{}
	session := NewSearchSession(source)

	var wg sync.WaitGroup
	for _, term := range []string{"first", "second"} {
		wg.Add(1)
		go func(term string) {
			defer wg.Done()
			_ = session.Submit(context.Background(), term)
		}(term)
	}

	assert.Eventually(t, func() bool { return session.View().Loading }, time.Second, time.Millisecond)

	// The newer request completes first; the older one lands last and wins.
	source.channel("second") <- []entities.Restaurant{{ID: "s", Name: "Second"}}
	source.channel("first") <- []entities.Restaurant{{ID: "f", Name: "First"}}
	wg.Wait()

	view := session.View()
	assert.False(t, view.Loading)
	assert.Equal(t, []string{"f"}, ids(view.Restaurants))
	assert.Equal(t, "first", view.Query)
}
