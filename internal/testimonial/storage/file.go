package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/herobrain/site/internal/testimonial"
)

// WriteFile writes the testimonials as the indented JSON document the site bundles.
func WriteFile(name string, ts []testimonial.Testimonial) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	if ts == nil {
		ts = []testimonial.Testimonial{}
	}
	if err := enc.Encode(ts); err != nil {
		return fmt.Errorf("failed to encode testimonials: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %q: %w", name, err)
	}

	if err := os.WriteFile(name, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %q: %w", name, err)
	}

	return nil
}
