// Package a happily stolen from Working Effectively with Unit Tests.
package a

import (
	"github.com/herobrain/site/internal/testimonial"
)

type BuilderTestimonial struct {
	t testimonial.Testimonial
}

// Testimonial prepares a testimonial.Testimonial that is valid and approved by default but allows for customization.
func Testimonial() BuilderTestimonial {
	return BuilderTestimonial{}.IsValid().IsApproved()
}

// Build returns the prepared testimonial.Testimonial.
func (b BuilderTestimonial) Build() testimonial.Testimonial {
	return b.t
}

// IsValid prepares a testimonial.Testimonial with every field set.
func (b BuilderTestimonial) IsValid() BuilderTestimonial {
	b.t.ID = "t-1"
	b.t.Quote = "Our son reads for fun now, which we never thought we'd see."
	b.t.Author = "Sarah M."
	b.t.Role = "Parent"
	b.t.Company = "Google Review"
	b.t.Rating = 5
	b.t.Color = "#E77C96"
	b.t.CreatedAt = testimonial.ParseTimestamp("2025-01-01T09:30:00Z")

	return b
}

// IsInvalid prepares a testimonial.Testimonial that will fail validation.
func (b BuilderTestimonial) IsInvalid() BuilderTestimonial {
	b.t = testimonial.Testimonial{Rating: 9}

	return b
}

// IsApproved marks the testimonial as visible by default.
func (b BuilderTestimonial) IsApproved() BuilderTestimonial {
	b.t.Status = testimonial.StatusApproved

	return b
}

// IsPending marks the testimonial as waiting for approval.
func (b BuilderTestimonial) IsPending() BuilderTestimonial {
	b.t.Status = testimonial.StatusPending

	return b
}

// IsLocal prepares a submitted testimonial that has no ID yet.
func (b BuilderTestimonial) IsLocal() BuilderTestimonial {
	b.t.ID = ""

	return b
}

func (b BuilderTestimonial) WithID(id string) BuilderTestimonial {
	b.t.ID = id

	return b
}

func (b BuilderTestimonial) WithRating(rating int) BuilderTestimonial {
	b.t.Rating = rating

	return b
}

// WithCreatedAt sets the creation time from an ISO-8601 string, "" clears it.
func (b BuilderTestimonial) WithCreatedAt(iso string) BuilderTestimonial {
	b.t.CreatedAt = testimonial.ParseTimestamp(iso)

	return b
}

// Modify allows you to specify a custom override while preparing.
// Note: consider naming your pattern and adding it to the builder.
func (b BuilderTestimonial) Modify(mods ...func(t *testimonial.Testimonial)) BuilderTestimonial {
	for _, mod := range mods {
		mod(&b.t)
	}

	return b
}

// IDs returns the IDs of the testimonials in order, handy for asserting on ordering.
func IDs(ts []testimonial.Testimonial) []string {
	ret := make([]string, 0, len(ts))
	for _, t := range ts {
		ret = append(ret, t.ID)
	}

	return ret
}
