package handler

import (
	"expvar"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/felixge/httpsnoop"
)

var httpRequestsInFlight = expvar.NewInt("gauge_http_requests_in_flight")
var httpRequestDurationSeconds = &RequestHistogram{
	buckets: make(map[string]*bucket),
}

// Buckets reach up to the handler timeout
var durationBuckets = []string{
	"0.01s",
	"0.05s",
	"0.1s",
	"0.25s",
	"0.5s",
	"1s",
	"2.5s",
	"5s",
	"10s",
	"30s",
}

func init() {
	expvar.Publish("http_request_duration_seconds", httpRequestDurationSeconds)
}

// Metrics is a handler that collects performance metrics
func Metrics(h http.Handler, routeMatcher RouteMatcher) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := routeMatcher.Match(r)

		httpRequestsInFlight.Add(1)
		defer httpRequestsInFlight.Add(-1)

		respMetrics := httpsnoop.CaptureMetricsFn(w, func(ww http.ResponseWriter) {
			h.ServeHTTP(ww, r)
		})

		httpRequestDurationSeconds.Add(r.Method, route, respMetrics.Code, respMetrics.Duration)
	})
}

type bucket struct {
	m             expvar.Map
	count         expvar.Int
	totalDuration expvar.Float
}

// RequestHistogram is an expvar histogram of request durations by route, method and status code
type RequestHistogram struct {
	mu      sync.Mutex
	buckets map[string]*bucket
}

// Add records a request duration
func (r *RequestHistogram) Add(method string, path string, code int, duration time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := fmt.Sprintf("%d;%s;%s", code, method, path)

	b, exists := r.buckets[key]
	if !exists {
		newBucket := &bucket{}
		r.buckets[key], b = newBucket, newBucket
	}

	b.count.Add(1)
	b.totalDuration.Add(duration.Seconds())

	for _, db := range durationBuckets {
		pdb, _ := time.ParseDuration(db)
		if duration <= pdb {
			b.m.Add(strings.Trim(db, "s"), 1)
		}
	}

	b.m.Add("+Inf", 1)
}

// WritePrometheus writes the histogram in the prometheus text format
func (r *RequestHistogram) WritePrometheus(w io.Writer, prefix string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintf(w, "# TYPE %s histogram\n", prefix)

	keys := make([]string, 0, len(r.buckets))
	for key := range r.buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		parts := strings.SplitN(key, ";", 3)
		if len(parts) != 3 {
			continue
		}

		b := r.buckets[key]
		labels := fmt.Sprintf("path=%q,method=%q,code=%q", parts[2], parts[1], parts[0])

		b.m.Do(func(kv expvar.KeyValue) {
			fmt.Fprintf(w, "%s_bucket{%s,le=%q} %v\n", prefix, labels, kv.Key, kv.Value)
		})

		fmt.Fprintf(w, "%s_count{%s} %v\n", prefix, labels, b.count.String())
		fmt.Fprintf(w, "%s_sum{%s} %v\n", prefix, labels, b.totalDuration.String())
	}
}

func (r *RequestHistogram) String() string {
	return ""
}
