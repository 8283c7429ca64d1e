//go:build ruleguard
// +build ruleguard

package ruleguard

import (
	"github.com/quasilyte/go-ruleguard/dsl"
)

// domainObjectsInTemplates flags testimonials handed straight to a template.
// Templates get the TestimonialBasic views from internal/app/web so they never
// depend on the storage format.
//
// ruleguard -rules ruleguard/rules-dont-pass-domain-objects-to-templates.go ./internal/app/web/...
func domainObjectsInTemplates(m dsl.Matcher) {
	m.Import("github.com/herobrain/site/internal/testimonial")

	m.Match(`map[string]any{$*_, $key: $val, $*_}`).
		Where(m["val"].Type.Is(`testimonial.Testimonial`) || m["val"].Type.Is(`[]testimonial.Testimonial`)).
		Report(`passing testimonial.Testimonial into a template's data map. Use: convertTestimonialToHttpObject($val)`)

	m.Match(`$p.AddData($key, $val)`, `$p.SetData($key, $val)`).
		Where(m["val"].Type.Is(`testimonial.Testimonial`) || m["val"].Type.Is(`[]testimonial.Testimonial`)).
		Report(`passing testimonial.Testimonial into a partial. Use: convertTestimonialsToHttpObjects($val)`)
}
