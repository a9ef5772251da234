package operator

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	operatorDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "image_operators",
		Name:      "operator_duration_seconds",
		Help:      "Time spent running an operator, including decoding and encoding.",
		Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"operation"})

	operatorErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "image_operators",
		Name:      "operator_errors_total",
		Help:      "Operator runs that failed.",
	}, []string{"operation"})
)

// Register registers the processor metrics with a prometheus registry
func Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{operatorDuration, operatorErrors} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}

	return nil
}

func observe(operation string, elapsed time.Duration, err error) {
	operatorDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
	if err != nil {
		operatorErrors.WithLabelValues(operation).Inc()
	}
}
