package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds the service's prometheus collectors. A nil *Collector is
// valid and records nothing.
type Collector struct {
	resolutions        *prometheus.CounterVec
	cacheLookups       *prometheus.CounterVec
	upstreamSearch     prometheus.Histogram
	ingredientsSkipped prometheus.Counter
	httpRequests       *prometheus.CounterVec
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nutriswap_resolutions_total",
				Help: "Nutrition resolutions by provenance",
			},
			[]string{"provenance"},
		),
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nutriswap_cache_lookups_total",
				Help: "Search cache lookups by result",
			},
			[]string{"result"},
		),
		upstreamSearch: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "nutriswap_upstream_search_seconds",
				Help:    "Latency of external nutrition searches",
				Buckets: prometheus.DefBuckets,
			},
		),
		ingredientsSkipped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "nutriswap_composite_ingredients_skipped_total",
				Help: "Composite ingredients dropped because they could not be resolved",
			},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nutriswap_http_requests_total",
				Help: "HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
	}

	reg.MustRegister(
		c.resolutions,
		c.cacheLookups,
		c.upstreamSearch,
		c.ingredientsSkipped,
		c.httpRequests,
	)

	return c
}

// Resolution counts one resolved record
func (c *Collector) Resolution(provenance string) {
	if c == nil {
		return
	}
	c.resolutions.WithLabelValues(provenance).Inc()
}

// CacheLookup counts a cache hit or miss
func (c *Collector) CacheLookup(hit bool) {
	if c == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	c.cacheLookups.WithLabelValues(result).Inc()
}

// UpstreamSearch records the duration of one external search
func (c *Collector) UpstreamSearch(d time.Duration) {
	if c == nil {
		return
	}
	c.upstreamSearch.Observe(d.Seconds())
}

// IngredientSkipped counts one dropped composite ingredient
func (c *Collector) IngredientSkipped() {
	if c == nil {
		return
	}
	c.ingredientsSkipped.Inc()
}

// HTTPRequest counts one served request
func (c *Collector) HTTPRequest(method, route string, status int) {
	if c == nil {
		return
	}
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}
