package testimonial

import (
	"cmp"
	"context"
	"errors"
	"slices"

	"github.com/google/uuid"

	"github.com/herobrain/site/internal/metrics"
	"github.com/herobrain/site/internal/platform/action"
)

// FeaturedLimit is how many testimonials the carousel rotates through.
const FeaturedLimit = 5

type FetchOptions struct {
	// IncludePending also returns testimonials that haven't been approved yet.
	IncludePending bool
}

type Service struct {
	store   Storage
	actions *action.Mapper
}

func NewService(store Storage) *Service {
	return &Service{
		store:   store,
		actions: serviceActions(),
	}
}

// Fetch returns the visible testimonials, newest first and then by highest rating.
// Testimonials without a creation date sort as the oldest.
// Testimonials tied on both keep the order of the source collection.
func (s *Service) Fetch(ctx context.Context, opts FetchOptions) ([]Testimonial, error) {
	all, err := s.store.All(ctx)
	if err != nil {
		metrics.TestimonialFetches.WithLabelValues("error").Inc()

		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			return nil, err
		}

		return nil, &LoadError{Source: "storage", Err: err}
	}

	arrange, err := action.Lookup[func([]Testimonial, FetchOptions) []Testimonial](s.actions, "Fetch")
	if err != nil {
		return nil, err
	}

	metrics.TestimonialFetches.WithLabelValues("ok").Inc()

	return arrange(all, opts), nil
}

// AddLocal shapes a submitted testimonial and gives it an ID.
// Nothing is stored, the returned testimonial only exists for the caller.
func (s *Service) AddLocal(ctx context.Context, t Testimonial) (Testimonial, error) {
	add, err := action.Lookup[func(context.Context, Testimonial) (Testimonial, error)](s.actions, "AddLocal")
	if err != nil {
		return Testimonial{}, err
	}

	return add(ctx, t)
}

// Featured picks the highest rated testimonials for the carousel, at most limit of them.
// A negative limit keeps all of them.
func Featured(ts []Testimonial, limit int) []Testimonial {
	ret := slices.Clone(ts)
	slices.SortStableFunc(ret, func(a, b Testimonial) int {
		return cmp.Compare(b.Rating, a.Rating)
	})

	if limit >= 0 && len(ret) > limit {
		ret = ret[:limit]
	}

	return ret
}

// NewLocalID returns an ID for a testimonial that was never stored.
func NewLocalID() string {
	return "local-" + uuid.Must(uuid.NewV7()).String()
}

func arrange(all []Testimonial, opts FetchOptions) []Testimonial {
	ret := make([]Testimonial, 0, len(all))
	for _, t := range all {
		if !opts.IncludePending && !t.Visible() {
			continue
		}
		ret = append(ret, t)
	}

	slices.SortStableFunc(ret, newestFirst)

	return ret
}

func newestFirst(a, b Testimonial) int {
	if c := cmp.Compare(b.CreatedAt.sortKey(), a.CreatedAt.sortKey()); c != 0 {
		return c
	}

	return cmp.Compare(b.Rating, a.Rating)
}
