package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hydrogrid"

// Deactivation reasons.
const (
	ReasonOutOfBand = "out_of_band"
	ReasonShutdown  = "shutdown"
)

// Recorder holds the grid collectors
type Recorder struct {
	generation  prometheus.Gauge
	activeUnits prometheus.Gauge
	waterLevel  *prometheus.GaugeVec
	passes      *prometheus.CounterVec
	retries     prometheus.Counter
	deactivated *prometheus.CounterVec
	shutdowns   *prometheus.CounterVec
}

// New registers collectors with reg; a nil reg uses a fresh registry.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)
	return &Recorder{
		generation: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "generation_total",
			Help:      "Aggregate capacity of active units.",
		}),
		activeUnits: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_units",
			Help:      "Number of units currently generating.",
		}),
		waterLevel: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "water_level",
			Help:      "Current water level per unit.",
		}, []string{"unit"}),
		passes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "allocation_passes_total",
			Help:      "Allocation passes by outcome.",
		}, []string{"outcome"}),
		retries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "allocation_retries_total",
			Help:      "Retries consumed while below minimum generation.",
		}),
		deactivated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deactivations_total",
			Help:      "Unit deactivations by reason.",
		}, []string{"reason"}),
		shutdowns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shutdowns_total",
			Help:      "Grid shutdowns by reason.",
		}, []string{"reason"}),
	}
}

func (r *Recorder) Generation(total float64, active int) {
	if r == nil {
		return
	}
	r.generation.Set(total)
	r.activeUnits.Set(float64(active))
}

func (r *Recorder) WaterLevel(unit string, level float64) {
	if r == nil {
		return
	}
	r.waterLevel.WithLabelValues(unit).Set(level)
}

func (r *Recorder) Pass(success bool) {
	if r == nil {
		return
	}
	outcome := "short"
	if success {
		outcome = "success"
	}
	r.passes.WithLabelValues(outcome).Inc()
}

func (r *Recorder) Retry() {
	if r == nil {
		return
	}
	r.retries.Inc()
}

func (r *Recorder) Deactivated(reason string, count int) {
	if r == nil || count == 0 {
		return
	}
	r.deactivated.WithLabelValues(reason).Add(float64(count))
}

func (r *Recorder) Shutdown(reason string) {
	if r == nil {
		return
	}
	r.shutdowns.WithLabelValues(reason).Inc()
}
