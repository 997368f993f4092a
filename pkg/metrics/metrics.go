// Package metrics is a small Prometheus-text-format registry for pipeline
// instrumentation: query counters, retrieval sizes, stage latency histograms.
package metrics

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// LatencyBuckets cover the retrieval pipeline, from in-memory lookups to
// remote LLM calls (seconds).
var LatencyBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30}

// Counter is a monotonically increasing value.
type Counter struct{ v atomic.Int64 }

func (c *Counter) Inc()         { c.v.Add(1) }
func (c *Counter) Add(n int64)  { c.v.Add(n) }
func (c *Counter) Value() int64 { return c.v.Load() }

// Gauge is a value that can move in both directions.
type Gauge struct{ v atomic.Int64 }

func (g *Gauge) Set(n int64)  { g.v.Store(n) }
func (g *Gauge) Inc()         { g.v.Add(1) }
func (g *Gauge) Dec()         { g.v.Add(-1) }
func (g *Gauge) Value() int64 { return g.v.Load() }

// Histogram records observations into fixed cumulative buckets.
type Histogram struct {
	mu     sync.Mutex
	bounds []float64
	counts []uint64
	sum    float64
	total  uint64
}

// Observe records one value.
func (h *Histogram) Observe(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sum += v
	h.total++
	for i, b := range h.bounds {
		if v <= b {
			h.counts[i]++
		}
	}
}

// ObserveSince records the seconds elapsed since start.
func (h *Histogram) ObserveSince(start time.Time) {
	h.Observe(time.Since(start).Seconds())
}

type series struct {
	name   string // full name including label set
	metric any    // *Counter, *Gauge, or *Histogram
}

type family struct {
	help   string
	kind   string // counter, gauge, histogram
	series []*series
	byName map[string]*series
}

// Registry holds metric families and renders them in the Prometheus text
// exposition format.
type Registry struct {
	mu       sync.Mutex
	families map[string]*family
	order    []string
}

func New() *Registry {
	return &Registry{families: make(map[string]*family)}
}

// Default is the process-wide registry used by the engine packages.
var Default = New()

func (r *Registry) family(base, kind, help string) *family {
	f, ok := r.families[base]
	if !ok {
		f = &family{help: help, kind: kind, byName: make(map[string]*series)}
		r.families[base] = f
		r.order = append(r.order, base)
	}
	return f
}

func (r *Registry) lookup(name, kind, help string, build func() any) any {
	r.mu.Lock()
	defer r.mu.Unlock()
	f := r.family(baseName(name), kind, help)
	if s, ok := f.byName[name]; ok {
		return s.metric
	}
	s := &series{name: name, metric: build()}
	f.series = append(f.series, s)
	f.byName[name] = s
	return s.metric
}

// Counter returns the counter for name, creating it on first use. Use
// Labeled to produce per-label series names.
func (r *Registry) Counter(name, help string) *Counter {
	return r.lookup(name, "counter", help, func() any { return &Counter{} }).(*Counter)
}

// Gauge returns the gauge for name, creating it on first use.
func (r *Registry) Gauge(name, help string) *Gauge {
	return r.lookup(name, "gauge", help, func() any { return &Gauge{} }).(*Gauge)
}

// Histogram returns the histogram for name, creating it on first use with
// the given bucket upper bounds (LatencyBuckets when nil).
func (r *Registry) Histogram(name, help string, bounds []float64) *Histogram {
	if bounds == nil {
		bounds = LatencyBuckets
	}
	return r.lookup(name, "histogram", help, func() any {
		b := make([]float64, len(bounds))
		copy(b, bounds)
		sort.Float64s(b)
		return &Histogram{bounds: b, counts: make([]uint64, len(b))}
	}).(*Histogram)
}

// Labeled appends a label set to a metric name: Labeled("x", "k", "v")
// yields `x{k="v"}`. Odd or empty kv lists return the name unchanged.
func Labeled(name string, kv ...string) string {
	if len(kv) == 0 || len(kv)%2 != 0 {
		return name
	}
	pairs := make([]string, 0, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		pairs = append(pairs, fmt.Sprintf("%s=%q", kv[i], kv[i+1]))
	}
	return name + "{" + strings.Join(pairs, ",") + "}"
}

func baseName(name string) string {
	if i := strings.IndexByte(name, '{'); i >= 0 {
		return name[:i]
	}
	return name
}

// labelBody returns the inner label text of `x{a="b"}`, or "".
func labelBody(name string) string {
	i := strings.IndexByte(name, '{')
	if i < 0 {
		return ""
	}
	return name[i+1 : len(name)-1]
}

// Render produces the text exposition of every registered family.
func (r *Registry) Render() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var b strings.Builder
	for _, base := range r.order {
		f := r.families[base]
		if f.help != "" {
			fmt.Fprintf(&b, "# HELP %s %s\n", base, f.help)
		}
		fmt.Fprintf(&b, "# TYPE %s %s\n", base, f.kind)

		sorted := make([]*series, len(f.series))
		copy(sorted, f.series)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].name < sorted[j].name })

		for _, s := range sorted {
			switch m := s.metric.(type) {
			case *Counter:
				fmt.Fprintf(&b, "%s %d\n", s.name, m.Value())
			case *Gauge:
				fmt.Fprintf(&b, "%s %d\n", s.name, m.Value())
			case *Histogram:
				renderHistogram(&b, base, labelBody(s.name), m)
			}
		}
	}
	return b.String()
}

func renderHistogram(b *strings.Builder, base, labels string, h *Histogram) {
	h.mu.Lock()
	bounds := h.bounds
	counts := make([]uint64, len(h.counts))
	copy(counts, h.counts)
	sum, total := h.sum, h.total
	h.mu.Unlock()

	sep := ""
	if labels != "" {
		sep = ","
	}
	for i, bound := range bounds {
		fmt.Fprintf(b, "%s_bucket{%sle=\"%g\"} %d\n", base, labels+sep, bound, counts[i])
	}
	fmt.Fprintf(b, "%s_bucket{%sle=\"+Inf\"} %d\n", base, labels+sep, total)
	if labels != "" {
		labels = "{" + labels + "}"
	}
	fmt.Fprintf(b, "%s_sum%s %g\n", base, labels, sum)
	fmt.Fprintf(b, "%s_count%s %d\n", base, labels, total)
}

// Handler serves the rendered registry.
func (r *Registry) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		fmt.Fprint(w, r.Render())
	})
}

// Serve exposes /metrics on addr. Blocks like http.ListenAndServe.
func (r *Registry) Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintln(w, "ok")
	})
	return http.ListenAndServe(addr, mux)
}
