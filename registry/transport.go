package registry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "archcheck",
		Name:      "registry_request_duration_seconds",
		Help:      "Duration of requests sent to the token service and the registry.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"host", "code"})
)

// Collectors returns the metrics recorded by the package.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{requestDuration}
}

// InstrumentedTransport records the duration of every request it sends.
type InstrumentedTransport struct {
	Transport http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *InstrumentedTransport) RoundTrip(request *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.transport().RoundTrip(request)
	code := "error"
	if err == nil {
		code = strconv.Itoa(resp.StatusCode)
	}

	requestDuration.WithLabelValues(request.URL.Host, code).Observe(time.Since(start).Seconds())
	return resp, err
}

func (t *InstrumentedTransport) transport() http.RoundTripper {
	if t.Transport == nil {
		return http.DefaultTransport
	}

	return t.Transport
}
