// Package places fetches Google Place reviews and turns them into testimonials.
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/herobrain/site/internal/metrics"
)

// DetailsEndpoint is the Places Details API, it returns at most five reviews.
const DetailsEndpoint = "https://maps.googleapis.com/maps/api/place/details/json"

// Review is a single review as returned by the Places Details API.
type Review struct {
	AuthorName              string `json:"author_name"`
	Rating                  int    `json:"rating"`
	RelativeTimeDescription string `json:"relative_time_description"`
	Text                    string `json:"text"`
	Time                    int64  `json:"time"`
}

type detailsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Result       struct {
		Reviews []Review `json:"reviews"`
	} `json:"result"`
}

// StatusError is returned when the API answers but not with status OK.
type StatusError struct {
	Status  string
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("places api status not OK: %s | %s", e.Status, e.Message)
}

type Client struct {
	apiKey   string
	endpoint string
	http     *http.Client
	retries  uint64
	backoff  time.Duration
}

type Option func(*Client)

// WithEndpoint points the client somewhere other than DetailsEndpoint.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) { c.endpoint = endpoint }
}

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) { c.http = client }
}

// WithRetries sets how many times a failed request is retried and the first wait between tries.
func WithRetries(retries int, backoff time.Duration) Option {
	return func(c *Client) {
		c.retries = uint64(max(retries, 0))
		c.backoff = backoff
	}
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:   apiKey,
		endpoint: DetailsEndpoint,
		http:     &http.Client{Timeout: 15 * time.Second},
		retries:  2,
		backoff:  500 * time.Millisecond,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Reviews returns the reviews for placeID in language, untranslated.
// Transport errors and server errors are retried, anything else fails straight away.
func (c *Client) Reviews(ctx context.Context, placeID, language string) ([]Review, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to parse places endpoint: %w", err)
	}
	q := u.Query()
	q.Set("place_id", placeID)
	q.Set("fields", "reviews")
	q.Set("key", c.apiKey)
	q.Set("language", language)
	q.Set("reviews_no_translations", "true")
	u.RawQuery = q.Encode()

	var body detailsResponse
	backoff := retry.WithMaxRetries(c.retries, retry.NewExponential(c.backoff))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return fmt.Errorf("failed to create places request: %w", err)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return retry.RetryableError(fmt.Errorf("failed to call places api: %w", err))
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
			err := fmt.Errorf("places api returned HTTP %d: %s", resp.StatusCode, snippet)
			if resp.StatusCode >= http.StatusInternalServerError {
				return retry.RetryableError(err)
			}

			return err
		}

		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return fmt.Errorf("failed to decode places response: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if body.Status != "OK" {
		return nil, &StatusError{Status: body.Status, Message: body.ErrorMessage}
	}

	metrics.ReviewsFetched.Add(float64(len(body.Result.Reviews)))

	return body.Result.Reviews, nil
}
