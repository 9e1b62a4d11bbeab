package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests            *prometheus.CounterVec
	CounterHandleRequestPanic  prometheus.Counter
	CounterRateLimitedRequests prometheus.Counter
	CounterSessionsStarted     prometheus.Counter
	CounterSessionsFinished    *prometheus.CounterVec
	CounterSessionsCanceled    prometheus.Counter
	CounterSetTransitions      *prometheus.CounterVec
	CounterAutoFinishFailures  prometheus.Counter
	CounterPlanCacheLookups    *prometheus.CounterVec

	// gauges
	GaugeRequests   prometheus.Gauge
	GaugeLifeSignal prometheus.Gauge

	// histograms
	HistogramRequestDuration *prometheus.HistogramVec
	HistogramSessionDuration prometheus.Histogram
	HistogramSweepDuration   prometheus.Histogram
}

func NewTestManager() *Manager {
	return NewManager("gymsessions", "test_server", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("gymsessions", "test_server", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request",
		Help:      "The total number of incoming requests",
	}, []string{"method", "status"})
	counterHandleRequestPanic := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "handle_request_panic",
		Help:      "The total number of serve request panics",
	})
	counterRateLimitedRequests := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "rate_limited_requests",
		Help:      "The total number of rate limited requests",
	})
	counterSessionsStarted := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "sessions_started",
		Help:      "The total number of started workout sessions",
	})
	counterSessionsFinished := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "sessions_finished",
		Help:      "The total number of finished workout sessions, by trigger",
	}, []string{"trigger"})
	counterSessionsCanceled := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "sessions_canceled",
		Help:      "The total number of canceled workout sessions",
	})
	counterSetTransitions := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "set_transitions",
		Help:      "The total number of set transitions, by resulting status",
	}, []string{"status"})
	counterAutoFinishFailures := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "auto_finish_failures",
		Help:      "The total number of failed automatic session finishes",
	})
	counterPlanCacheLookups := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "plan_cache_lookups",
		Help:      "Plan cache lookups, by result",
	}, []string{"result"})

	gaugeRequests := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "current_requests",
		Help:      "Current number of requests served",
	})
	gaugeLifeSignal := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "life_signal",
		Help:      "Shows whether the service is alive",
	})

	histogramRequestDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request_duration_seconds",
		Help:      "Histogram of response time for requests in seconds",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"route", "method", "status_code"})
	histogramSessionDuration := factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "session_duration_minutes",
		Help:      "Recorded duration of finished sessions in minutes",
		Buckets:   []float64{0, 1, 5, 15, 30, 45, 60, 90, 120, 180, 240},
	})
	histogramSweepDuration := factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "sweep_duration_seconds",
		Help:      "Duration of a single stuck-sessions sweep in seconds",
		Buckets:   []float64{.001, .01, .1, .5, 1, 5, 10, 30},
	})

	return &Manager{
		CounterRequests:            counterRequests,
		CounterHandleRequestPanic:  counterHandleRequestPanic,
		CounterRateLimitedRequests: counterRateLimitedRequests,
		CounterSessionsStarted:     counterSessionsStarted,
		CounterSessionsFinished:    counterSessionsFinished,
		CounterSessionsCanceled:    counterSessionsCanceled,
		CounterSetTransitions:      counterSetTransitions,
		CounterAutoFinishFailures:  counterAutoFinishFailures,
		CounterPlanCacheLookups:    counterPlanCacheLookups,
		GaugeRequests:              gaugeRequests,
		GaugeLifeSignal:            gaugeLifeSignal,
		HistogramRequestDuration:   histogramRequestDuration,
		HistogramSessionDuration:   histogramSessionDuration,
		HistogramSweepDuration:     histogramSweepDuration,
	}
}
