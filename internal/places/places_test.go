package places_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/herobrain/site/internal/places"
	"github.com/herobrain/site/internal/testimonial"
)

func TestClient(t *testing.T) {
	ctx := context.Background()

	t.Run("asks for the reviews of the place and returns them", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			require.Equal(t, "place-1", q.Get("place_id"))
			require.Equal(t, "reviews", q.Get("fields"))
			require.Equal(t, "secret", q.Get("key"))
			require.Equal(t, "sv", q.Get("language"))
			require.Equal(t, "true", q.Get("reviews_no_translations"))

			_, _ = w.Write([]byte(`{"status": "OK", "result": {"reviews": [
				{"author_name": "Sarah M.", "rating": 4, "text": "Great", "time": 1700000000, "relative_time_description": "a month ago"}
			]}}`))
		}))
		defer server.Close()
		client := places.NewClient("secret", places.WithEndpoint(server.URL))

		actual, err := client.Reviews(ctx, "place-1", "sv")

		require.NoError(t, err)
		require.Equal(t, []places.Review{{
			AuthorName:              "Sarah M.",
			Rating:                  4,
			RelativeTimeDescription: "a month ago",
			Text:                    "Great",
			Time:                    1700000000,
		}}, actual)
	})

	t.Run("a status other than OK is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status": "REQUEST_DENIED", "error_message": "The provided API key is invalid."}`))
		}))
		defer server.Close()
		client := places.NewClient("bad", places.WithEndpoint(server.URL))

		_, err := client.Reviews(ctx, "place-1", "en")

		var statusErr *places.StatusError
		require.ErrorAs(t, err, &statusErr)
		require.Equal(t, "REQUEST_DENIED", statusErr.Status)
	})

	t.Run("retries server errors", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}

			_, _ = w.Write([]byte(`{"status": "OK", "result": {"reviews": []}}`))
		}))
		defer server.Close()
		client := places.NewClient("secret", places.WithEndpoint(server.URL), places.WithRetries(2, time.Millisecond))

		_, err := client.Reviews(ctx, "place-1", "en")

		require.NoError(t, err)
		require.EqualValues(t, 2, calls.Load())
	})

	t.Run("doesn't retry client errors", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()
		client := places.NewClient("secret", places.WithEndpoint(server.URL), places.WithRetries(2, time.Millisecond))

		_, err := client.Reviews(ctx, "place-1", "en")

		require.ErrorContains(t, err, "HTTP 403")
		require.EqualValues(t, 1, calls.Load())
	})
}

func TestNormalize(t *testing.T) {
	t.Run("maps every field of a full review", func(t *testing.T) {
		actual := places.Normalize(places.Review{
			AuthorName:              "Sarah M.",
			Rating:                  4,
			RelativeTimeDescription: "2 weeks ago",
			Text:                    "  Wonderful tutors.\n",
			Time:                    1700000001,
		})

		require.Equal(t, "google-1700000001", actual.ID)
		require.Equal(t, "Wonderful tutors.", actual.Quote)
		require.Equal(t, "Sarah M.", actual.Author)
		require.Equal(t, "Parent", actual.Role)
		require.Equal(t, "2 weeks ago", actual.Company)
		require.Equal(t, 4, actual.Rating)
		require.Equal(t, places.Palette[(4+1700000001)%5], actual.Color)
		require.Equal(t, testimonial.StatusApproved, actual.Status)
		require.Equal(t, time.Unix(1700000001, 0).UTC(), actual.CreatedAt.Time)
	})

	t.Run("fills in defaults for what the review is missing", func(t *testing.T) {
		actual := places.Normalize(places.Review{Text: "Nice"})

		require.Equal(t, "Anonymous", actual.Author)
		require.Equal(t, "Google Review", actual.Company)
		require.Equal(t, 5, actual.Rating)
		require.Equal(t, places.Palette[0], actual.Color, "expected (5+0) mod 5")
		require.True(t, actual.CreatedAt.IsZero())
		require.Regexp(t, `^google-\d+$`, actual.ID)
	})

	t.Run("reviews without a time get an ID from their text", func(t *testing.T) {
		first := places.Normalize(places.Review{Text: "Nice"})
		again := places.Normalize(places.Review{Text: "Nice"})
		other := places.Normalize(places.Review{Text: "Lovely"})

		require.Equal(t, first.ID, again.ID)
		require.NotEqual(t, first.ID, other.ID)
	})
}
