package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/herobrain/site/internal/testimonial"
	"github.com/herobrain/site/test/a"
)

// StorageTest is a base suite used to test across the implementations of testimonial.Storage.
// The factory returns a store holding exactly seed, in that order.
func StorageTest(t *testing.T, ctx context.Context, storeFactory func(t *testing.T, seed []testimonial.Testimonial) testimonial.Storage) {
	t.Run("All", func(t *testing.T) {
		t.Run("returns an empty collection when nothing is stored", func(t *testing.T) {
			store := storeFactory(t, nil)

			actual, err := store.All(ctx)

			require.NoError(t, err)
			require.Empty(t, actual)
		})

		t.Run("returns every testimonial in the order they were stored", func(t *testing.T) {
			seed := []testimonial.Testimonial{
				a.Testimonial().WithID("b").WithCreatedAt("2024-01-01T00:00:00Z").Build(),
				a.Testimonial().WithID("a").WithCreatedAt("2025-01-01T00:00:00Z").IsPending().Build(),
				a.Testimonial().WithID("c").WithRating(3).Build(),
			}
			store := storeFactory(t, seed)

			actual, err := store.All(ctx)

			require.NoError(t, err)
			require.Equal(t, []string{"b", "a", "c"}, a.IDs(actual), "expected the stored order and no filtering")
			require.Equal(t, testimonial.StatusPending, actual[1].Status, "expected pending testimonials to be returned as is")
		})

		t.Run("keeps every field of a testimonial", func(t *testing.T) {
			expected := a.Testimonial().WithID("full").Build()
			store := storeFactory(t, []testimonial.Testimonial{expected})

			actual, err := store.All(ctx)

			require.NoError(t, err)
			require.Len(t, actual, 1)
			require.Equal(t, expected.ID, actual[0].ID)
			require.Equal(t, expected.Quote, actual[0].Quote)
			require.Equal(t, expected.Author, actual[0].Author)
			require.Equal(t, expected.Role, actual[0].Role)
			require.Equal(t, expected.Company, actual[0].Company)
			require.Equal(t, expected.Rating, actual[0].Rating)
			require.Equal(t, expected.Color, actual[0].Color)
			require.Equal(t, expected.Status, actual[0].Status)
			require.True(t, expected.CreatedAt.Equal(actual[0].CreatedAt.Time), "expected the same instant, got %s", actual[0].CreatedAt)
		})

		t.Run("keeps a missing creation date missing", func(t *testing.T) {
			store := storeFactory(t, []testimonial.Testimonial{
				a.Testimonial().Modify(func(t *testimonial.Testimonial) { t.CreatedAt = testimonial.Timestamp{} }).Build(),
			})

			actual, err := store.All(ctx)

			require.NoError(t, err)
			require.Len(t, actual, 1)
			require.True(t, actual[0].CreatedAt.IsZero())
		})

		t.Run("changing the returned collection doesn't change the store", func(t *testing.T) {
			store := storeFactory(t, []testimonial.Testimonial{a.Testimonial().Build()})

			first, err := store.All(ctx)
			require.NoError(t, err)
			first[0].Author = "Someone else"

			second, err := store.All(ctx)
			require.NoError(t, err)
			require.Equal(t, "Sarah M.", second[0].Author)
		})
	})
}
