package web_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/herobrain/site/internal/app/web"
)

func TestPagesHandler(t *testing.T) {
	r := chi.NewRouter()
	r.Group(web.PagesHandler())
	server := httptest.NewServer(r)
	defer server.Close()

	for _, p := range web.Pages {
		t.Run(p.Path+" renders in the standard layout", func(t *testing.T) {
			status, body := get(t, server.URL+p.Path)

			require.Equal(t, http.StatusOK, status)
			require.Contains(t, body, p.Title)
			require.Contains(t, body, `<nav>`, "expected the shared layout around the page")
		})
	}

	t.Run("unknown pages are not found", func(t *testing.T) {
		status, _ := get(t, server.URL+"/blog")

		require.Equal(t, http.StatusNotFound, status)
	})
}
