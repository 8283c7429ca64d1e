package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Testimonial store metrics
var (
	// TestimonialFetches counts Fetch calls by result (ok/error)
	TestimonialFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "testimonial_fetches_total",
			Help: "Total testimonial fetches by result",
		},
		[]string{"result"},
	)

	// StoreRetries counts failed attempts against the testimonial store that were retried
	StoreRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "testimonial_store_retries_total",
			Help: "Total retried testimonial store attempts",
		},
	)
)

// Carousel metrics
var (
	// CarouselViewsActive tracks carousel views with a running auto-advance timer
	CarouselViewsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "carousel_views_active",
			Help: "Current carousel views with a running timer",
		},
	)

	// CarouselMoves counts carousel index changes by trigger (auto/manual)
	CarouselMoves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carousel_moves_total",
			Help: "Total carousel moves by trigger",
		},
		[]string{"trigger"},
	)
)

// Review sync metrics
var (
	// ReviewsFetched counts reviews returned by the Places API
	ReviewsFetched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "places_reviews_fetched_total",
			Help: "Total reviews fetched from the Places API",
		},
	)
)
