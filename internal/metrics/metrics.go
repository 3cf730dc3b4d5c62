package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the optimizer.
	Registry = prometheus.NewRegistry()

	// SolverIterations counts ALNS iterations run, per depot and weekday.
	SolverIterations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "solver_iterations_total", Help: "ALNS iterations run, by depot and weekday."},
		[]string{"depot", "weekday"},
	)
	// SolverDuration records wall-clock solve time per depot/weekday in seconds.
	SolverDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "solver_duration_seconds", Help: "Time spent solving one depot/weekday VRP.", Buckets: prometheus.DefBuckets},
		[]string{"depot", "weekday"},
	)
	// NodesDropped counts visit nodes left unserved by the solver or the
	// post-solve profitability filter, by reason.
	NodesDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "nodes_dropped_total", Help: "Visit nodes dropped, by reason."},
		[]string{"depot", "reason"},
	)
	// OracleDegradations counts depot/weekday sub-problems whose
	// distance/time matrix build failed or needed the Haversine fallback
	// for at least one cell.
	OracleDegradations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "oracle_degradations_total", Help: "Depot/weekday sub-problems whose distance/time matrix failed or used the Haversine fallback."},
		[]string{"depot"},
	)
	// DepotClosures counts depots closed by the network-closure pass.
	DepotClosures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "depot_closures_total", Help: "Depots closed by the network-closure pass."},
		[]string{"depot"},
	)
	// NetworkNetCents tracks the most recent network-wide weekly net P&L.
	NetworkNetCents = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "network_net_cents", Help: "Most recent network-wide weekly net profit, in cents."},
	)
)

// RegisterDefault registers collectors to Registry, once per process.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(SolverIterations)
		Registry.MustRegister(SolverDuration)
		Registry.MustRegister(NodesDropped)
		Registry.MustRegister(OracleDegradations)
		Registry.MustRegister(DepotClosures)
		Registry.MustRegister(NetworkNetCents)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

var regOnce sync.Once
