package metrics

import (
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jakechorley/lesson-scheduler/pkg/core/scheduler"
)

// TrialMetrics records search progress in Prometheus metrics.
// It implements scheduler.TrialObserver and is safe for concurrent use.
type TrialMetrics struct {
	registry *prometheus.Registry

	trials       prometheus.Counter
	improvements prometheus.Counter
	violations   prometheus.Counter
	duration     prometheus.Histogram
	bestMatch    prometheus.Gauge
	utilization  prometheus.Gauge
	unassigned   prometheus.Gauge

	// bestSeen keeps the gauges monotonic when workers report improvements out of order
	mu       sync.Mutex
	bestSeen int
}

var _ scheduler.TrialObserver = (*TrialMetrics)(nil)

// NewTrialMetrics registers the trial metrics on a fresh registry
func NewTrialMetrics() (*TrialMetrics, error) {
	m := &TrialMetrics{
		bestSeen: -1,
		registry: prometheus.NewRegistry(),
		trials: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lesson_scheduler_trials_total",
			Help: "Total number of completed trials",
		}),
		improvements: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lesson_scheduler_best_trial_improvements_total",
			Help: "Number of trials that replaced the best trial",
		}),
		violations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lesson_scheduler_break_violations_total",
			Help: "Break violations found in committed trial grids",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "lesson_scheduler_trial_duration_seconds",
			Help:    "Wall-clock time of a single trial",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		bestMatch: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lesson_scheduler_best_student_match_percent",
			Help: "Student match percentage of the best trial",
		}),
		utilization: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lesson_scheduler_best_teacher_utilization_percent",
			Help: "Teacher utilization percentage of the best trial",
		}),
		unassigned: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lesson_scheduler_best_unassigned_students",
			Help: "Number of students left unassigned by the best trial",
		}),
	}

	collectors := []prometheus.Collector{
		m.trials, m.improvements, m.violations, m.duration, m.bestMatch, m.utilization, m.unassigned,
	}
	for _, c := range collectors {
		if err := m.registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register trial metric: %w", err)
		}
	}

	return m, nil
}

// ObserveTrial records one completed trial
func (m *TrialMetrics) ObserveTrial(result *scheduler.TrialResult, elapsed time.Duration, improved bool) {
	m.trials.Inc()
	m.duration.Observe(elapsed.Seconds())
	m.violations.Add(float64(len(result.BreakViolations)))

	if !improved {
		return
	}
	m.improvements.Inc()

	m.mu.Lock()
	defer m.mu.Unlock()
	if result.Stats.StudentMatch <= m.bestSeen {
		return
	}
	m.bestSeen = result.Stats.StudentMatch
	m.bestMatch.Set(float64(result.Stats.StudentMatch))
	m.utilization.Set(float64(result.Stats.TeacherUtilization))
	m.unassigned.Set(float64(result.Stats.Unassigned))
}

// Registry exposes the registry, e.g. for tests or an HTTP handler
func (m *TrialMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the metrics in the text exposition format, for node_exporter's
// textfile collector
func (m *TrialMetrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}
