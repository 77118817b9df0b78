package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RouteFetchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "triproute",
		Name:      "route_fetches_total",
		Help:      "Total directions provider fetches",
	})

	RouteThrottleHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "triproute",
		Name:      "route_throttle_hits_total",
		Help:      "Route fetches answered from the throttle window",
	})

	RouteFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "triproute",
		Name:      "route_fallbacks_total",
		Help:      "Straight-line fallbacks after a no-route response",
	})

	ETAComputations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "triproute",
		Name:      "eta_computations_total",
		Help:      "ETA computations by mode",
	}, []string{"mode"})

	TrackingSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "triproute",
		Name:      "tracking_sessions_active",
		Help:      "Active live tracking sessions",
	})
)
