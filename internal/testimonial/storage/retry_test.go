package storage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/herobrain/site/internal/testimonial"
	"github.com/herobrain/site/internal/testimonial/storage"
	"github.com/herobrain/site/test/a"
)

type storageMock struct {
	mock.Mock
}

func (m *storageMock) All(ctx context.Context) ([]testimonial.Testimonial, error) {
	args := m.Called(ctx)

	return args.Get(0).([]testimonial.Testimonial), args.Error(1)
}

func TestRetryingStore(t *testing.T) {
	ctx := context.Background()

	StorageTest(t, ctx, func(t *testing.T, seed []testimonial.Testimonial) testimonial.Storage {
		return storage.NewRetryingStore(storage.NewStaticStoreFrom("memory", seed), time.Second, 2)
	})

	t.Run("retries until the store answers", func(t *testing.T) {
		next := new(storageMock)
		next.On("All", mock.Anything).Return([]testimonial.Testimonial(nil), errors.New("connection reset")).Twice()
		next.On("All", mock.Anything).Return([]testimonial.Testimonial{a.Testimonial().Build()}, nil).Once()
		store := storage.NewRetryingStore(next, time.Second, 3).WithBackoff(time.Millisecond)

		actual, err := store.All(ctx)

		require.NoError(t, err)
		require.Len(t, actual, 1)
		next.AssertExpectations(t)
	})

	t.Run("gives up after the configured retries", func(t *testing.T) {
		next := new(storageMock)
		next.On("All", mock.Anything).Return([]testimonial.Testimonial(nil), errors.New("connection refused"))
		store := storage.NewRetryingStore(next, time.Second, 2).WithBackoff(time.Millisecond)

		_, err := store.All(ctx)

		require.ErrorContains(t, err, "connection refused")
		next.AssertNumberOfCalls(t, "All", 3)
	})

	t.Run("doesn't retry a load error", func(t *testing.T) {
		next := new(storageMock)
		next.On("All", mock.Anything).Return([]testimonial.Testimonial(nil), &testimonial.LoadError{Source: "file", Err: errors.New("bad json")})
		store := storage.NewRetryingStore(next, time.Second, 3).WithBackoff(time.Millisecond)

		_, err := store.All(ctx)

		var loadErr *testimonial.LoadError
		require.ErrorAs(t, err, &loadErr)
		next.AssertNumberOfCalls(t, "All", 1)
	})

	t.Run("each attempt gets a deadline", func(t *testing.T) {
		next := new(storageMock)
		next.On("All", mock.MatchedBy(func(ctx context.Context) bool {
			_, ok := ctx.Deadline()
			return ok
		})).Return([]testimonial.Testimonial{}, nil).Once()
		store := storage.NewRetryingStore(next, time.Second, 0)

		_, err := store.All(ctx)

		require.NoError(t, err)
		next.AssertExpectations(t)
	})
}
