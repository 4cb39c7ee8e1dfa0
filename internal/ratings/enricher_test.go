package ratings

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/readreviews/internal/entities"
)

type mockClient struct {
	ratings  map[string]*Ratings
	widget   string
	delay    time.Duration
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func (m *mockClient) FetchRatings(ctx context.Context, isbn string) (*Ratings, error) {
	n := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		seen := m.maxSeen.Load()
		if n <= seen || m.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}
	if m.delay > 0 {
		time.Sleep(m.delay)
	}

	r, ok := m.ratings[isbn]
	if !ok {
		return nil, fmt.Errorf("%w: unknown isbn %s", ErrEnrichment, isbn)
	}
	return r, nil
}

func (m *mockClient) FetchReviewsWidget(ctx context.Context, isbn string) (string, error) {
	if m.widget == "" {
		return "", ErrNoWidget
	}
	return m.widget, nil
}

type mockStore struct {
	mu      sync.Mutex
	isbns   []string
	updates map[string]Ratings
	failOn  string
}

func (m *mockStore) UpdateRatings(isbn string, reviewsCount int, rating float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if isbn == m.failOn {
		return fmt.Errorf("book %s not found", isbn)
	}
	if m.updates == nil {
		m.updates = make(map[string]Ratings)
	}
	m.updates[isbn] = Ratings{ISBN: isbn, ReviewsCount: reviewsCount, AverageRating: rating}
	return nil
}

func (m *mockStore) ListISBNs() ([]string, error) {
	return m.isbns, nil
}

func TestEnrichBooks_OverlaysLiveRatings(t *testing.T) {
	client := &mockClient{ratings: map[string]*Ratings{
		"111": {ISBN: "111", ReviewsCount: 500, AverageRating: 4.2},
	}}
	enricher := NewEnricher(client, nil, 2)

	books := []entities.Book{
		{ISBN: "111", Title: "Live", Rating: 1.0, ReviewsCount: 1},
		{ISBN: "222", Title: "Stored", Rating: 3.5, ReviewsCount: 10},
	}

	got := enricher.EnrichBooks(context.Background(), books)
	require.Len(t, got, 2)

	assert.Equal(t, 500, got[0].ReviewsCount)
	assert.InDelta(t, 4.2, got[0].Rating, 0.0001)

	// Failed lookup keeps stored values
	assert.Equal(t, 10, got[1].ReviewsCount)
	assert.InDelta(t, 3.5, got[1].Rating, 0.0001)

	// Input is untouched
	assert.Equal(t, 1, books[0].ReviewsCount)
}

func TestEnrichBooks_BoundsConcurrency(t *testing.T) {
	client := &mockClient{ratings: map[string]*Ratings{}, delay: 20 * time.Millisecond}
	enricher := NewEnricher(client, nil, 3)

	books := make([]entities.Book, 10)
	for i := range books {
		books[i] = entities.Book{ISBN: fmt.Sprintf("%03d", i)}
		client.ratings[books[i].ISBN] = &Ratings{ReviewsCount: i}
	}

	got := enricher.EnrichBooks(context.Background(), books)
	for i, book := range got {
		assert.Equal(t, i, book.ReviewsCount)
	}
	assert.LessOrEqual(t, client.maxSeen.Load(), int32(3))
	assert.Greater(t, client.maxSeen.Load(), int32(1))
}

func TestEnrichBooks_NilEnricher(t *testing.T) {
	var enricher *Enricher
	books := []entities.Book{{ISBN: "111", Rating: 2}}

	got := enricher.EnrichBooks(context.Background(), books)
	assert.Equal(t, books, got)
	assert.Equal(t, "", enricher.ReviewsWidget(context.Background(), "111"))
}

func TestReviewsWidget(t *testing.T) {
	enricher := NewEnricher(&mockClient{widget: "<div>reviews</div>"}, nil, 0)
	assert.Equal(t, "<div>reviews</div>", enricher.ReviewsWidget(context.Background(), "111"))

	enricher = NewEnricher(&mockClient{}, nil, 0)
	assert.Equal(t, "", enricher.ReviewsWidget(context.Background(), "111"))
}

func TestRefreshBook(t *testing.T) {
	store := &mockStore{}
	client := &mockClient{ratings: map[string]*Ratings{
		"111": {ISBN: "111", ReviewsCount: 42, AverageRating: 3.9},
	}}
	enricher := NewEnricher(client, store, 1)

	r, err := enricher.RefreshBook(context.Background(), "111")
	require.NoError(t, err)
	assert.Equal(t, 42, r.ReviewsCount)
	assert.Equal(t, 42, store.updates["111"].ReviewsCount)

	_, err = enricher.RefreshBook(context.Background(), "999")
	assert.ErrorIs(t, err, ErrEnrichment)
}

func TestRefreshAll(t *testing.T) {
	store := &mockStore{isbns: []string{"111", "222", "333"}, failOn: "333"}
	client := &mockClient{ratings: map[string]*Ratings{
		"111": {ReviewsCount: 1, AverageRating: 4},
		"333": {ReviewsCount: 3, AverageRating: 2},
	}}
	enricher := NewEnricher(client, store, 1)

	result, err := enricher.RefreshAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalBooks)
	assert.Equal(t, 1, result.Refreshed)
	assert.Equal(t, 2, result.Failed)
	assert.Len(t, result.Errors, 2)
}

func TestRefreshAll_Cancelled(t *testing.T) {
	store := &mockStore{isbns: []string{"111"}}
	enricher := NewEnricher(&mockClient{}, store, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := enricher.RefreshAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, result.Refreshed)
}

func TestRefresh_NoStore(t *testing.T) {
	enricher := NewEnricher(&mockClient{}, nil, 1)

	_, err := enricher.RefreshBook(context.Background(), "111")
	assert.Error(t, err)
	_, err = enricher.RefreshAll(context.Background())
	assert.Error(t, err)
}
