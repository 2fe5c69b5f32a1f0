// Package metrics2 exposes the few metric kinds the visual diff engine
// records (counters, float64 summaries, timers) on top of Prometheus.
package metrics2

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.skia.org/visualdiff/go/sklog"
)

// Counter is a monotonically adjustable int64 metric.
type Counter interface {
	Get() int64
	Inc(i int64)
	Reset()
}

// Float64SummaryMetric tracks the distribution of observed values.
type Float64SummaryMetric interface {
	Observe(v float64)
}

var defaultClient = newPromClient()

// GetCounter returns the Counter with the given name and tags, creating and
// registering it on first use.
func GetCounter(name string, tags ...map[string]string) Counter {
	return defaultClient.GetCounter(name, tags...)
}

// GetFloat64SummaryMetric returns the summary with the given name and tags,
// creating and registering it on first use.
func GetFloat64SummaryMetric(name string, tags ...map[string]string) Float64SummaryMetric {
	return defaultClient.GetFloat64SummaryMetric(name, tags...)
}

// Timer measures elapsed time and reports it, in seconds, to a summary when
// Stop is called.
type Timer struct {
	begin   time.Time
	summary Float64SummaryMetric
}

// NewTimer starts a Timer that reports to the "timer" summary tagged with the
// given name.
func NewTimer(name string, tags ...map[string]string) *Timer {
	allTags := append([]map[string]string{{"name": name}}, tags...)
	return &Timer{
		begin:   time.Now(),
		summary: GetFloat64SummaryMetric(measurementTimer, allTags...),
	}
}

// Stop reports the elapsed time and returns it.
func (t *Timer) Stop() time.Duration {
	d := time.Since(t.begin)
	t.summary.Observe(d.Seconds())
	return d
}

const measurementTimer = "vdiff_timer"

// InitPrometheus serves /metrics on the given port (e.g. ":20000") in a
// background goroutine. An empty port disables the endpoint.
func InitPrometheus(port string) {
	if port == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		sklog.Infof("Serving Prometheus metrics on %s", port)
		if err := http.ListenAndServe(port, mux); err != nil {
			sklog.Errorf("Prometheus endpoint stopped: %s", err)
		}
	}()
}
