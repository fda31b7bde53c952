package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Redirect resolution outcomes.
const (
	OutcomeRedirect = "redirect"
	OutcomePage     = "page"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

var (
	// ResolutionsTotal counts catch-all resolutions by outcome.
	ResolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "linkdeck",
		Name:      "resolutions_total",
		Help:      "Catch-all segment resolutions by outcome.",
	}, []string{"outcome"})

	// ClickEventsPublished counts click events published to JetStream.
	ClickEventsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "linkdeck",
		Name:      "click_events_published_total",
		Help:      "Click events published to the click stream.",
	})

	// ClickEventsStored counts click rows written by the consumer.
	ClickEventsStored = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "linkdeck",
		Name:      "click_events_stored_total",
		Help:      "Click events persisted by the consumer.",
	})

	// GeoLookups counts geolocation lookups by result (hit, miss, skipped).
	GeoLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "linkdeck",
		Name:      "geo_lookups_total",
		Help:      "IP geolocation lookups by result.",
	}, []string{"result"})
)
