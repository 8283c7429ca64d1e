package web

import (
	"log/slog"
	"net/http"

	"github.com/gaqzi/passepartout"
	"github.com/go-chi/chi/v5"
)

// Page is one of the informational pages rendered in the standard layout.
type Page struct {
	Path     string
	Template string
	Title    string
}

var Pages = []Page{
	{Path: "/", Template: "pages/home.html", Title: "Hero Brain Education Centre"},
	{Path: "/services", Template: "pages/services.html", Title: "Our Services"},
	{Path: "/team", Template: "pages/team.html", Title: "Our Team"},
	{Path: "/collaborate", Template: "pages/collaborate.html", Title: "Collaborate with Us"},
	{Path: "/contact", Template: "pages/contact.html", Title: "Contact"},
}

type pagesHandler struct {
	pp *passepartout.Passepartout
}

func PagesHandler() func(chi.Router) {
	a := pagesHandler{pp: newPassepartout()}

	return func(r chi.Router) {
		for _, p := range Pages {
			r.Get(p.Path, a.Show(p))
		}
	}
}

func (a *pagesHandler) Show(p Page) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := map[string]any{"Title": p.Title, "Path": p.Path}

		if err := a.pp.RenderInLayout(w, "layouts/standard.html", p.Template, map[string]any{"Data": data}); err != nil {
			slog.Error("failed to render page", "page", p.Template, "error", err)
			http.Error(w, "failed to render", http.StatusInternalServerError)
			return
		}
	}
}
