package checker

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	checksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "archcheck",
		Name:      "checks_total",
		Help:      "Number of image checks by resulting status.",
	}, []string{"status"})
)

// Collectors returns the metrics recorded by the package.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{checksTotal}
}
