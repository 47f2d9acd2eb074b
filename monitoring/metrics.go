// Package monitoring collects in-process counters and latency summaries.
package monitoring

import (
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"
)

// MetricType is the kind of a series.
type MetricType string

const (
	MetricTypeCounter MetricType = "counter"
	MetricTypeGauge   MetricType = "gauge"
	MetricTypeSummary MetricType = "summary"
)

// Metric is the point-in-time value of one named series.
type Metric struct {
	Name   string            `json:"name"`
	Type   MetricType        `json:"type"`
	Value  float64           `json:"value"`
	Labels map[string]string `json:"labels,omitempty"`
	Help   string            `json:"help,omitempty"`

	// Summary fields, set for MetricTypeSummary.
	Count int     `json:"count,omitempty"`
	Min   float64 `json:"min,omitempty"`
	Max   float64 `json:"max,omitempty"`
	Mean  float64 `json:"mean,omitempty"`
}

type summary struct {
	count    int
	sum      float64
	min, max float64
}

// MetricsCollector aggregates counters and latency summaries in memory.
type MetricsCollector struct {
	metricsLock sync.RWMutex
	counters    map[string]*Metric
	summaries   map[string]*summary
	help        map[string]string

	startTime time.Time
}

// NewMetricsCollector creates an empty collector.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		counters:  make(map[string]*Metric),
		summaries: make(map[string]*summary),
		help:      make(map[string]string),
		startTime: time.Now(),
	}
}

// Describe attaches help text to a series name.
func (mc *MetricsCollector) Describe(name, help string) {
	mc.metricsLock.Lock()
	defer mc.metricsLock.Unlock()
	mc.help[name] = help
}

// IncrCounter adds value to the counter identified by name and labels.
func (mc *MetricsCollector) IncrCounter(name string, value float64, labels map[string]string) {
	key := seriesKey(name, labels)

	mc.metricsLock.Lock()
	defer mc.metricsLock.Unlock()

	m, ok := mc.counters[key]
	if !ok {
		m = &Metric{Name: name, Type: MetricTypeCounter, Labels: copyLabels(labels)}
		mc.counters[key] = m
	}
	m.Value += value
}

// ObserveDuration records one latency sample in seconds.
func (mc *MetricsCollector) ObserveDuration(name string, d time.Duration) {
	v := d.Seconds()

	mc.metricsLock.Lock()
	defer mc.metricsLock.Unlock()

	s, ok := mc.summaries[name]
	if !ok {
		mc.summaries[name] = &summary{count: 1, sum: v, min: v, max: v}
		return
	}
	s.count++
	s.sum += v
	if v < s.min {
		s.min = v
	}
	if v > s.max {
		s.max = v
	}
}

// Counter returns the current value of a counter series, zero if unseen.
func (mc *MetricsCollector) Counter(name string, labels map[string]string) float64 {
	mc.metricsLock.RLock()
	defer mc.metricsLock.RUnlock()
	if m, ok := mc.counters[seriesKey(name, labels)]; ok {
		return m.Value
	}
	return 0
}

// GetAllMetrics returns a sorted snapshot of every series plus runtime gauges.
func (mc *MetricsCollector) GetAllMetrics() []Metric {
	mc.metricsLock.RLock()
	out := make([]Metric, 0, len(mc.counters)+len(mc.summaries)+3)
	for _, m := range mc.counters {
		c := *m
		c.Labels = copyLabels(m.Labels)
		c.Help = mc.help[m.Name]
		out = append(out, c)
	}
	for name, s := range mc.summaries {
		out = append(out, Metric{
			Name:  name,
			Type:  MetricTypeSummary,
			Value: s.sum,
			Help:  mc.help[name],
			Count: s.count,
			Min:   s.min,
			Max:   s.max,
			Mean:  s.sum / float64(s.count),
		})
	}
	mc.metricsLock.RUnlock()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	out = append(out,
		Metric{Name: "uptime_seconds", Type: MetricTypeGauge, Value: time.Since(mc.startTime).Seconds()},
		Metric{Name: "memory_heap_alloc", Type: MetricTypeGauge, Value: float64(mem.HeapAlloc)},
		Metric{Name: "system_goroutines", Type: MetricTypeGauge, Value: float64(runtime.NumGoroutine())},
	)

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return labelString(out[i].Labels) < labelString(out[j].Labels)
	})
	return out
}

func seriesKey(name string, labels map[string]string) string {
	if len(labels) == 0 {
		return name
	}
	return name + "{" + labelString(labels) + "}"
}

func labelString(labels map[string]string) string {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%q", k, labels[k]))
	}
	return strings.Join(parts, ",")
}

func copyLabels(labels map[string]string) map[string]string {
	if len(labels) == 0 {
		return nil
	}
	out := make(map[string]string, len(labels))
	for k, v := range labels {
		out[k] = v
	}
	return out
}
