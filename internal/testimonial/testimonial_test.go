package testimonial_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/herobrain/site/internal/testimonial"
	"github.com/herobrain/site/test/a"
)

func TestTestimonial_Stars(t *testing.T) {
	for rating, expected := range map[int]int{-2: 0, 0: 0, 1: 1, 4: 4, 5: 5, 12: 5} {
		actual := a.Testimonial().WithRating(rating).Build().Stars()
		require.Equal(t, expected, actual, "rating %d", rating)
	}
}

func TestParseTimestamp(t *testing.T) {
	t.Run("understands the formats found in the data file", func(t *testing.T) {
		for in, expected := range map[string]time.Time{
			"2025-01-02":                       time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
			"2025-01-02T03:04:05Z":             time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
			"2025-01-02T03:04:05.5Z":           time.Date(2025, 1, 2, 3, 4, 5, 500_000_000, time.UTC),
			"2024-05-01T10:00:00+00:00":        time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
			"2025-01-02T03:04:05":              time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
			"  2025-01-02T03:04:05.123456789 ": time.Date(2025, 1, 2, 3, 4, 5, 123456789, time.UTC),
		} {
			actual := testimonial.ParseTimestamp(in)
			require.True(t, expected.Equal(actual.Time), "%q parsed as %s", in, actual)
		}
	})

	t.Run("blank and garbage are not set", func(t *testing.T) {
		for _, in := range []string{"", "   ", "yesterday", "01/02/2025"} {
			require.True(t, testimonial.ParseTimestamp(in).IsZero(), "expected %q to not be set", in)
		}
	})
}

func TestTimestamp_JSON(t *testing.T) {
	t.Run("decodes leniently instead of failing the document", func(t *testing.T) {
		var ts []testimonial.Testimonial
		err := json.Unmarshal([]byte(`[
			{"id": "dated", "createdAt": "2025-01-02"},
			{"id": "null", "createdAt": null},
			{"id": "number", "createdAt": 1735776000},
			{"id": "missing"}
		]`), &ts)

		require.NoError(t, err)
		require.Equal(t, "dated", ts[0].ID)
		require.False(t, ts[0].CreatedAt.IsZero())
		for _, tm := range ts[1:] {
			require.True(t, tm.CreatedAt.IsZero(), "expected %s to have no date", tm.ID)
		}
	})

	t.Run("encodes a missing date by leaving the field out", func(t *testing.T) {
		b, err := json.Marshal(testimonial.Testimonial{ID: "x", Quote: "q", Author: "a"})

		require.NoError(t, err)
		require.JSONEq(t, `{"id":"x","quote":"q","author":"a","rating":0}`, string(b))
	})

	t.Run("a dated testimonial survives a round trip through the file format", func(t *testing.T) {
		expected := a.Testimonial().Build()

		b, err := json.Marshal(expected)
		require.NoError(t, err)
		var actual testimonial.Testimonial
		require.NoError(t, json.Unmarshal(b, &actual))

		require.True(t, expected.CreatedAt.Equal(actual.CreatedAt.Time))
		actual.CreatedAt = expected.CreatedAt
		require.Equal(t, expected, actual)
	})
}

func TestLoadError(t *testing.T) {
	cause := json.Unmarshal([]byte("{"), &struct{}{})
	err := &testimonial.LoadError{Source: "testimonials.json", Err: cause}

	require.ErrorIs(t, err, cause)
	require.ErrorContains(t, err, "failed to load testimonials from testimonials.json:")
}
