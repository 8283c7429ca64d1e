package web

import (
	"strings"
	"unicode/utf8"

	"github.com/herobrain/site/internal/carousel"
	"github.com/herobrain/site/internal/testimonial"
)

// TestimonialBasic is a simplified version of testimonial.Testimonial for use in templates.
type TestimonialBasic struct {
	ID      string
	Quote   string
	Author  string
	Initial string
	Role    string
	Company string
	Color   string
	// Stars has one element per filled star.
	Stars     []int
	CreatedAt string
	Pending   bool
}

func convertTestimonialToHttpObject(t testimonial.Testimonial) TestimonialBasic {
	stars := make([]int, t.Stars())
	for i := range stars {
		stars[i] = i + 1
	}

	var createdAt string
	if !t.CreatedAt.IsZero() {
		createdAt = t.CreatedAt.Format("2 January 2006")
	}

	initial, _ := utf8.DecodeRuneInString(strings.TrimSpace(t.Author))
	basic := TestimonialBasic{
		ID:        t.ID,
		Quote:     t.Quote,
		Author:    t.Author,
		Role:      t.Role,
		Company:   t.Company,
		Color:     t.Color,
		Stars:     stars,
		CreatedAt: createdAt,
		Pending:   !t.Visible(),
	}
	if initial != utf8.RuneError {
		basic.Initial = string(initial)
	}
	if basic.Color == "" {
		basic.Color = "#647C9F"
	}

	return basic
}

func convertTestimonialsToHttpObjects(ts []testimonial.Testimonial) []TestimonialBasic {
	ret := make([]TestimonialBasic, 0, len(ts))
	for _, t := range ts {
		ret = append(ret, convertTestimonialToHttpObject(t))
	}

	return ret
}

type CarouselIndicator struct {
	Index  int
	Active bool
}

// CarouselBasic is what the carousel fragment needs to render one state.
type CarouselBasic struct {
	// Error is set when the testimonials couldn't be loaded, nothing else is.
	Error      bool
	Empty      bool
	Current    TestimonialBasic
	Indicators []CarouselIndicator
}

func convertCarouselToHttpObject(s carousel.State) CarouselBasic {
	current, ok := s.Current()
	if !ok {
		return CarouselBasic{Empty: true}
	}

	indicators := make([]CarouselIndicator, 0, len(s.Featured))
	for i := range s.Featured {
		indicators = append(indicators, CarouselIndicator{Index: i, Active: i == s.Active})
	}

	return CarouselBasic{
		Current:    convertTestimonialToHttpObject(current),
		Indicators: indicators,
	}
}
