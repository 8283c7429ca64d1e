package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/donseba/go-htmx"
	"github.com/donseba/go-partial"
	"github.com/donseba/go-partial/connector"
	"github.com/gaqzi/passepartout"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/form/v4"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"github.com/herobrain/site/internal/testimonial"
)

type testimonialService interface {
	// Fetch returns the visible testimonials, newest first, or a *testimonial.LoadError.
	Fetch(ctx context.Context, opts testimonial.FetchOptions) ([]testimonial.Testimonial, error)

	// AddLocal validates a submitted testimonial and gives it an ID without storing it.
	AddLocal(ctx context.Context, t testimonial.Testimonial) (testimonial.Testimonial, error)
}

// CarouselConfig is how every carousel view on the testimonials page behaves.
type CarouselConfig struct {
	Interval time.Duration
	Featured int
	Clock    clockwork.Clock
}

type testimonialsHandler struct {
	htmx     *htmx.HTMX
	decoder  *form.Decoder
	service  testimonialService
	partial  *partial.Service
	pp       *passepartout.Passepartout
	upgrader websocket.Upgrader
	carousel CarouselConfig
}

func (a *testimonialsHandler) layout(p *partial.Partial) *partial.Layout {
	layout := a.partial.NewLayout().FS(templates)
	layout.Set(p)

	return layout
}

func TestimonialsHandler(service testimonialService, cfg CarouselConfig) func(chi.Router) {
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}

	a := testimonialsHandler{
		htmx:    htmx.New(),
		decoder: form.NewDecoder(),
		service: service,
		pp:      newPassepartout(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		carousel: cfg,
	}

	partialConf := partial.Config{
		Connector: connector.NewHTMX(&connector.Config{
			UseURLQuery: true,
		}),
		UseCache: true,
	}
	a.partial = partial.NewService(&partialConf)

	return func(r chi.Router) {
		r.Get("/", a.Index)
		r.Post("/", a.Submit)
		r.Get("/list", a.List)
		r.Get("/carousel/ws", a.Carousel)
	}
}

func (a *testimonialsHandler) Index(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{"Title": "What Our Clients Say", "Path": "/testimonials"}

	if err := a.pp.RenderInLayout(w, "layouts/standard.html", "testimonials/index.html", map[string]any{"Data": data}); err != nil {
		slog.Error("failed to render testimonials page", "error", err)
		http.Error(w, "failed to render", http.StatusInternalServerError)
		return
	}
}

type listQuery struct {
	IncludePending bool `form:"includePending"`
}

func (a *testimonialsHandler) fetchOptions(r *http.Request) (testimonial.FetchOptions, error) {
	var q listQuery
	if err := a.decoder.Decode(&q, r.URL.Query()); err != nil {
		return testimonial.FetchOptions{}, err
	}

	return testimonial.FetchOptions{IncludePending: q.IncludePending}, nil
}

// List renders the full list, or the empty state when there's nothing to show,
// or the error state when the testimonials couldn't be loaded.
func (a *testimonialsHandler) List(w http.ResponseWriter, r *http.Request) {
	h := a.htmx.NewHandler(w, r)

	opts, err := a.fetchOptions(r)
	if err != nil {
		h.WriteHeader(http.StatusBadRequest)
		h.JustWriteString(err.Error())
		return
	}

	var p *partial.Partial
	ts, err := a.service.Fetch(r.Context(), opts)
	switch {
	case err != nil:
		slog.Error("failed to fetch testimonials", "error", err)
		p = partial.NewID("testimonials", "templates/testimonials/_error.html")
	case len(ts) == 0:
		p = partial.NewID("testimonials", "templates/testimonials/_empty.html")
	default:
		p = partial.
			NewID("testimonials",
				"templates/testimonials/_list.html",
				"templates/partials/_testimonial-card.html",
			).
			AddData("Testimonials", convertTestimonialsToHttpObjects(ts))
	}

	if err := a.layout(p).WriteWithRequest(r.Context(), w, r); err != nil {
		slog.Error("failed to render testimonials list", "error", err)
		http.Error(w, "failed to render", http.StatusInternalServerError)
		return
	}
}

type TestimonialForm struct {
	Quote   string `form:"quote"`
	Author  string `form:"author"`
	Role    string `form:"role"`
	Company string `form:"company"`
	Rating  int    `form:"rating"`
}

// Submit shapes a visitor's testimonial and shows it back to them, it's
// pending until someone approves it and nothing is stored.
func (a *testimonialsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	h := a.htmx.NewHandler(w, r)

	if err := r.ParseForm(); err != nil {
		slog.Error("failed to parse form", "error", err)
		h.WriteHeader(http.StatusInternalServerError)
		return
	}

	var f TestimonialForm
	if err := a.decoder.Decode(&f, r.PostForm); err != nil {
		slog.Error("failed to decode testimonial form", "error", err)
		h.WriteHeader(http.StatusBadRequest)
		h.JustWriteString(err.Error())
		return
	}

	t, err := a.service.AddLocal(r.Context(), testimonial.Testimonial{
		Quote:     f.Quote,
		Author:    f.Author,
		Role:      f.Role,
		Company:   f.Company,
		Rating:    f.Rating,
		CreatedAt: testimonial.NewTimestamp(a.carousel.Clock.Now()),
		Status:    testimonial.StatusPending,
	})
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		h.WriteHeader(http.StatusUnprocessableEntity)
		for _, e := range validationErrs {
			h.JustWriteString(e.Field() + " is " + e.Tag() + "\n")
		}
		return
	}
	if err != nil {
		slog.Error("failed to add local testimonial", "error", err)
		h.WriteHeader(http.StatusInternalServerError)
		return
	}

	page := htmx.NewComponent("templates/testimonials/_submitted.html").
		FS(templates).
		Attach("templates/partials/_testimonial-card.html").
		SetData(map[string]any{"Testimonial": convertTestimonialToHttpObject(t)})

	h.WriteHeader(http.StatusCreated)
	if _, err := h.Render(r.Context(), page); err != nil {
		slog.Error("failed to render submitted testimonial", "error", err)
		return
	}
}

type apiHandler struct {
	service testimonialService
	decoder *form.Decoder
}

// APIHandler serves the testimonials as JSON, in the format of the bundled data file.
func APIHandler(service testimonialService) func(chi.Router) {
	a := apiHandler{service: service, decoder: form.NewDecoder()}

	return func(r chi.Router) {
		r.Get("/testimonials", a.Testimonials)
	}
}

func (a *apiHandler) Testimonials(w http.ResponseWriter, r *http.Request) {
	var q listQuery
	if err := a.decoder.Decode(&q, r.URL.Query()); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ts, err := a.service.Fetch(r.Context(), testimonial.FetchOptions{IncludePending: q.IncludePending})
	if err != nil {
		slog.Error("failed to fetch testimonials", "error", err)
		http.Error(w, "failed to load testimonials", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(ts); err != nil {
		slog.Error("failed to encode testimonials", "error", err)
		return
	}
}
