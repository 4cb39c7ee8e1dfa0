// Package ratings fetches live review statistics and review widgets for
// catalog books from an external API, and refreshes the stored copies.
package ratings

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mrlokans/readreviews/internal/apperrors"
)

// ErrEnrichment is returned for every failed ratings lookup. Callers treat it
// as "no live data" and keep what the database holds.
var ErrEnrichment = apperrors.ErrEnrichment

var (
	ErrMissingKey  = fmt.Errorf("%w: ratings API key is not configured", ErrEnrichment)
	ErrISBNMissing = fmt.Errorf("%w: isbn is required", ErrEnrichment)
	ErrNoRatings   = fmt.Errorf("%w: no ratings returned", ErrEnrichment)
	ErrNoWidget    = fmt.Errorf("%w: no reviews widget returned", ErrEnrichment)
)

// DefaultBaseURL is the public Goodreads API host.
const DefaultBaseURL = "https://www.goodreads.com"

// Ratings holds the live review statistics for one ISBN.
type Ratings struct {
	ISBN          string  `json:"isbn"`
	ReviewsCount  int     `json:"reviews_count"`
	AverageRating float64 `json:"average_rating"`
}

// Client fetches live ratings and review widgets for books.
type Client interface {
	FetchRatings(ctx context.Context, isbn string) (*Ratings, error)
	FetchReviewsWidget(ctx context.Context, isbn string) (string, error)
}

// StatusError reports a non-200 response from the ratings service.
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.Endpoint, e.StatusCode)
}

// Unwrap makes every StatusError match ErrEnrichment.
func (e *StatusError) Unwrap() error {
	return ErrEnrichment
}

// GoodreadsClient talks to the Goodreads review API.
type GoodreadsClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	timeout    time.Duration
}

// NewGoodreadsClient creates a client. An empty baseURL uses DefaultBaseURL
// and a zero timeout falls back to five seconds.
func NewGoodreadsClient(baseURL, apiKey string, timeout time.Duration) *GoodreadsClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &GoodreadsClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		timeout: timeout,
	}
}

// BaseURL returns the configured API host.
func (c *GoodreadsClient) BaseURL() string {
	return c.baseURL
}

// flexibleFloat accepts both "3.94" and 3.94; the API has served both.
type flexibleFloat float64

func (f *flexibleFloat) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("parse rating %q: %w", raw, err)
	}
	*f = flexibleFloat(v)
	return nil
}

type reviewCountsResponse struct {
	Books []struct {
		ISBN          string        `json:"isbn"`
		ReviewsCount  int           `json:"reviews_count"`
		AverageRating flexibleFloat `json:"average_rating"`
	} `json:"books"`
}

type bookResponse struct {
	ReviewsWidget string `json:"reviews_widget"`
}

// FetchRatings returns the review count and average rating for isbn.
func (c *GoodreadsClient) FetchRatings(ctx context.Context, isbn string) (*Ratings, error) {
	if err := c.check(isbn); err != nil {
		return nil, err
	}

	query := url.Values{
		"key":   {c.apiKey},
		"isbns": {isbn},
	}
	var body reviewCountsResponse
	if err := c.get(ctx, "/book/review_counts.json", query, &body); err != nil {
		return nil, err
	}
	if len(body.Books) == 0 {
		return nil, ErrNoRatings
	}

	book := body.Books[0]
	return &Ratings{
		ISBN:          isbn,
		ReviewsCount:  book.ReviewsCount,
		AverageRating: float64(book.AverageRating),
	}, nil
}

// FetchReviewsWidget returns the embeddable reviews markup for isbn.
func (c *GoodreadsClient) FetchReviewsWidget(ctx context.Context, isbn string) (string, error) {
	if err := c.check(isbn); err != nil {
		return "", err
	}

	query := url.Values{
		"format": {"json"},
		"key":    {c.apiKey},
	}
	var body bookResponse
	if err := c.get(ctx, "/book/isbn/"+url.PathEscape(isbn), query, &body); err != nil {
		return "", err
	}
	if body.ReviewsWidget == "" {
		return "", ErrNoWidget
	}
	return body.ReviewsWidget, nil
}

func (c *GoodreadsClient) check(isbn string) error {
	if c.apiKey == "" {
		return ErrMissingKey
	}
	if strings.TrimSpace(isbn) == "" {
		return ErrISBNMissing
	}
	return nil
}

// get performs a bounded GET and decodes the JSON body into out. Every
// failure is reported as ErrEnrichment.
func (c *GoodreadsClient) get(ctx context.Context, path string, query url.Values, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("%w: create request: %v", ErrEnrichment, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "ReadReviews/1.0 (https://github.com/mrlokans/readreviews)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request %s: %v", ErrEnrichment, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Endpoint: path, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrEnrichment, path, err)
	}
	return nil
}
