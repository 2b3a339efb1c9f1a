package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNew_IndependentRegistries(t *testing.T) {
	// a second instance must not panic on duplicate registration
	a := New()
	b := New()

	a.PresignFailed("farm", 2)
	a.PresignFailed("farm", 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(a.PresignFailures.WithLabelValues("farm")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.PresignFailures.WithLabelValues("farm")))
}

func TestObservePhase(t *testing.T) {
	m := New()
	m.ObservePhase("grassland", PhaseCount, time.Now())
	m.ObservePhase("grassland", PhasePage, time.Now())

	assert.Equal(t, 2, testutil.CollectAndCount(m.ListingPhaseDuration))
}

func TestNilMetricsAreNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObservePhase("farm", PhaseMedia, time.Now())
		m.PresignFailed("farm", 1)
		m.CacheHit("demographics")
		m.CacheMiss("demographics")
		m.Cleanup("processed")
	})
}

func TestCacheCounters(t *testing.T) {
	m := New()
	m.CacheHit("demographics")
	m.CacheHit("demographics")
	m.CacheMiss("demographics")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheHits.WithLabelValues("demographics")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheMisses.WithLabelValues("demographics")))
}
