package testimonial

import "context"

type Storage interface {
	// All returns every stored testimonial in the order of the source collection.
	All(ctx context.Context) ([]Testimonial, error)
}
