package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/herobrain/site/internal/testimonial"
	"github.com/herobrain/site/internal/testimonial/storage"
	"github.com/herobrain/site/test/a"
)

func TestLoadExisting(t *testing.T) {
	ctx := context.Background()

	t.Run("a missing file has no testimonials", func(t *testing.T) {
		actual, err := loadExisting(ctx, filepath.Join(t.TempDir(), "testimonials.json"))

		require.NoError(t, err)
		require.Empty(t, actual)
	})

	t.Run("a file that isn't a list of testimonials is an error and is left alone", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "testimonials.json")
		content := []byte(`{"testimonials": [{"id": "keep-me", "quote": "Lovely", "author": "Lisa W."}]}`)
		require.NoError(t, os.WriteFile(file, content, 0o644))

		actual, err := loadExisting(ctx, file)

		var loadErr *testimonial.LoadError
		require.ErrorAs(t, err, &loadErr)
		require.Empty(t, actual)

		after, err := os.ReadFile(file)
		require.NoError(t, err)
		require.Equal(t, content, after)
	})

	t.Run("reads the testimonials in the file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "testimonials.json")
		require.NoError(t, storage.WriteFile(file, []testimonial.Testimonial{a.Testimonial().Build()}))

		actual, err := loadExisting(ctx, file)

		require.NoError(t, err)
		require.Equal(t, []string{"t-1"}, a.IDs(actual))
	})
}

func TestOrDefault(t *testing.T) {
	require.Equal(t, "flag", orDefault("flag", "env"))
	require.Equal(t, "env", orDefault("", "env"))
}
