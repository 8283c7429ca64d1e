// Package data bundles the testimonials the site ships with.
package data

import "embed"

// TestimonialsFile is the name of the bundled testimonials document in FS.
const TestimonialsFile = "testimonials.json"

//go:embed testimonials.json
var FS embed.FS
