package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollector_Counts(t *testing.T) {
	c := New(prometheus.NewRegistry())

	c.Resolution("curated")
	c.Resolution("curated")
	c.Resolution("external")
	c.CacheLookup(true)
	c.CacheLookup(false)
	c.CacheLookup(false)
	c.IngredientSkipped()
	c.HTTPRequest("GET", "/health", 200)
	c.UpstreamSearch(150 * time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.resolutions.WithLabelValues("curated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.resolutions.WithLabelValues("external")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.cacheLookups.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ingredientsSkipped))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.httpRequests.WithLabelValues("GET", "/health", "200")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.upstreamSearch))
}

func TestCollector_NilSafe(t *testing.T) {
	var c *Collector

	assert.NotPanics(t, func() {
		c.Resolution("composite")
		c.CacheLookup(true)
		c.UpstreamSearch(time.Second)
		c.IngredientSkipped()
		c.HTTPRequest("POST", "/api/v1/alternatives", 500)
	})
}

func TestNew_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)

	assert.Panics(t, func() { New(reg) })
}
