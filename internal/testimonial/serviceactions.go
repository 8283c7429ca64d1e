package testimonial

import (
	"context"
	"fmt"

	"github.com/herobrain/site/internal/platform/action"
	"github.com/herobrain/site/internal/platform/validate"
)

// serviceActions are the pieces of logic the Service hands off to.
// Keeping them behind names lets the Service stay about collaboration with the store.
func serviceActions() *action.Mapper {
	m := &action.Mapper{}

	m.Add("Fetch", func(all []Testimonial, opts FetchOptions) []Testimonial {
		return arrange(all, opts)
	})

	m.Add("AddLocal", func(ctx context.Context, t Testimonial) (Testimonial, error) {
		if err := validate.Struct(ctx, t); err != nil {
			return t, fmt.Errorf("failed to validate testimonial: %w", err)
		}

		t.ID = NewLocalID()

		return t, nil
	})

	return m
}
