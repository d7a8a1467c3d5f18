package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/san-kum/reactsim/internal/dynamo"
	"github.com/san-kum/reactsim/internal/kinetics"
)

const namespace = "reactsim"

// Recorder exports solver statistics on its own registry so a run can be
// dumped to a node_exporter textfile.
type Recorder struct {
	reg         *prometheus.Registry
	runs        *prometheus.CounterVec
	accepted    *prometheus.CounterVec
	rejected    *prometheus.CounterVec
	evaluations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	simTime     *prometheus.GaugeVec
	final       *prometheus.GaugeVec
	trajectory  *prometheus.GaugeVec
}

func NewRecorder() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Integration runs by outcome.",
		}, []string{"model", "integrator", "outcome"}),
		accepted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "steps_accepted_total",
			Help:      "Accepted solver steps.",
		}, []string{"model"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "steps_rejected_total",
			Help:      "Rejected adaptive solver steps.",
		}, []string{"model"}),
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rhs_evaluations_total",
			Help:      "Right-hand side evaluations.",
		}, []string{"model"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of an integration run.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"model", "integrator"}),
		simTime: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "simulated_time",
			Help:      "Simulated time reached by the latest accepted step.",
		}, []string{"model"}),
		final: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "final_concentration",
			Help:      "Concentration at the last output time.",
		}, []string{"model", "species"}),
		trajectory: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "trajectory_metric",
			Help:      "Per-run trajectory metrics.",
		}, []string{"model", "metric"}),
	}
	r.reg.MustRegister(r.runs, r.accepted, r.rejected, r.evaluations, r.duration, r.simTime, r.final, r.trajectory)
	return r
}

func (r *Recorder) Registry() *prometheus.Registry { return r.reg }

// StepObserver counts steps live while the run is in progress.
func (r *Recorder) StepObserver(model string) *StepObserver {
	return &StepObserver{
		accepted: r.accepted.WithLabelValues(model),
		rejected: r.rejected.WithLabelValues(model),
		simTime:  r.simTime.WithLabelValues(model),
	}
}

// Observe records the outcome of a finished run. res may be a partial
// result when err is non-nil.
func (r *Recorder) Observe(model, integrator string, res *kinetics.Result, elapsed time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "failed"
	}
	r.runs.WithLabelValues(model, integrator, outcome).Inc()
	r.duration.WithLabelValues(model, integrator).Observe(elapsed.Seconds())
	if res == nil {
		return
	}
	r.evaluations.WithLabelValues(model).Add(float64(res.Stats.Evaluations))
	if final := res.Final(); final != nil {
		for i, name := range res.Names {
			r.final.WithLabelValues(model, name).Set(final[i])
		}
	}
}

// ObserveMetrics exports the values of trajectory metrics.
func (r *Recorder) ObserveMetrics(model string, ms []Metric) {
	for _, m := range ms {
		r.trajectory.WithLabelValues(model, m.Name()).Set(m.Value())
	}
}

// WriteTextfile writes the registry in the Prometheus text format.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.reg)
}

// StepObserver implements dynamo.Observer and dynamo.RejectObserver.
type StepObserver struct {
	accepted prometheus.Counter
	rejected prometheus.Counter
	simTime  prometheus.Gauge
}

func (s *StepObserver) OnStep(_ dynamo.State, t float64) {
	s.accepted.Inc()
	s.simTime.Set(t)
}

func (s *StepObserver) OnReject(t, dt float64) { s.rejected.Inc() }
