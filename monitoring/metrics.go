package monitoring

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"office-booking/models"
)

var (
	allocationOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "allocation_operations_total",
			Help: "Allocation outcomes per resource kind",
		},
		[]string{"kind", "outcome"},
	)

	requestQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "request_queue_depth",
			Help: "Pending requests awaiting the next allocation pass",
		},
	)

	waitlistDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "waitlist_depth",
			Help: "Waiting-list entries per scope",
		},
		[]string{"scope"},
	)

	bookingsByStatus = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bookings_by_status",
			Help: "Booking records per status",
		},
		[]string{"status"},
	)

	penaltyPoints = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cancellation_penalty_points",
			Help:    "Karma penalty applied per cancellation",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	karmaDeducted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "karma_deducted_points_total",
			Help: "Total karma points deducted by penalties",
		},
	)
)

// StatsProvider is what the collector polls; the allocation engine
// implements it.
type StatsProvider interface {
	Stats() models.EngineStats
}

type Monitor struct{}

func NewMonitor() *Monitor {
	return &Monitor{}
}

// Watch polls the provider and refreshes the depth gauges until the
// context is cancelled.
func (m *Monitor) Watch(ctx context.Context, provider StatsProvider, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.collect(provider)
		case <-ctx.Done():
			return
		}
	}
}

func (m *Monitor) collect(provider StatsProvider) {
	stats := provider.Stats()

	requestQueueDepth.Set(float64(stats.QueueDepth))
	for scope, depth := range stats.WaitlistDepths {
		waitlistDepth.WithLabelValues(scope).Set(float64(depth))
	}
	for status, count := range stats.BookingsByStatus {
		bookingsByStatus.WithLabelValues(string(status)).Set(float64(count))
	}
}

// Track methods are nil-safe so the engine can run without monitoring
// wired, e.g. in tests.

func (m *Monitor) TrackAllocation(kind, outcome string) {
	if m == nil {
		return
	}
	allocationOps.WithLabelValues(kind, outcome).Inc()
}

func (m *Monitor) TrackPenalty(points int) {
	if m == nil {
		return
	}
	penaltyPoints.Observe(float64(points))
	karmaDeducted.Add(float64(points))
}
