package metric

import (
	"expvar"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/neurograph/graph/signal"
)

const nodesLabel = "graph.nodes"

const (
	// UpdateCounter measures number of updates.
	UpdateCounter = "Updates"
	// SampleCounter measures number of samples.
	SampleCounter = "Samples"
	// LatencyCounter measures latency between updates.
	LatencyCounter = "Latency"
	// DurationCounter counts what's the duration of signal.
	DurationCounter = "Duration"
	// NodeCounter counts number of metered nodes.
	NodeCounter = "Nodes"
)

var (
	nodes = metrics{
		m: make(map[string]metric),
	}

	counters = []string{
		UpdateCounter,
		SampleCounter,
		LatencyCounter,
		DurationCounter,
		NodeCounter,
	}
)

// Get metrics values for provided node component type.
func Get(component interface{}) map[string]string {
	return getCounters(getType(component))
}

// GetAll returns counters for all measured node types.
func GetAll() map[string]map[string]string {
	m := make(map[string]map[string]string)
	nodes.Lock()
	defer nodes.Unlock()
	for node := range nodes.m {
		m[node] = getCounters(node)
	}
	return m
}

func getCounters(nodeType string) map[string]string {
	m := make(map[string]string)
	for _, counter := range counters {
		v := expvar.Get(key(nodeType, counter))
		if v != nil {
			m[counter] = v.String()
		}
	}
	return m
}

// ResetFunc returns new Measure closure. This closure is needed to postpone
// metrics capture until the node is actually ticking.
type ResetFunc func() MeasureFunc

// MeasureFunc captures metrics when a buffer is processed.
type MeasureFunc func(bufferSize int64)

// Meter creates new meter closure to capture node counters.
func Meter(component interface{}, sampleRate int) ResetFunc {
	t := getType(component)
	metric := nodes.get(t)
	metric.nodes.Add(1)
	return func() MeasureFunc {
		calledAt := time.Now()
		var (
			bufferSize     int64
			bufferDuration time.Duration
		)
		return func(s int64) {
			metric.latency.set(time.Since(calledAt))
			metric.updates.Add(1)
			metric.samples.Add(s)
			// recalculate buffer duration only when buffer size has changed
			if bufferSize != s {
				bufferSize = s
				bufferDuration = signal.DurationOf(sampleRate, s)
			}
			metric.duration.add(bufferDuration)
			calledAt = time.Now()
		}
	}
}

type metrics struct {
	sync.Mutex
	m map[string]metric
}

func (m *metrics) get(nodeType string) metric {
	m.Lock()
	defer m.Unlock()
	if metric, ok := m.m[nodeType]; ok {
		// return existing metric if available
		return metric
	}
	// create new metric
	metric := newMetric(nodeType)
	m.m[nodeType] = metric
	return metric
}

type metric struct {
	key      string
	nodes    *expvar.Int
	updates  *expvar.Int
	samples  *expvar.Int
	latency  *duration
	duration *duration
}

func newMetric(nodeType string) metric {
	m := metric{
		key:      nodeType,
		nodes:    expvar.NewInt(key(nodeType, NodeCounter)),
		updates:  expvar.NewInt(key(nodeType, UpdateCounter)),
		samples:  expvar.NewInt(key(nodeType, SampleCounter)),
		latency:  &duration{},
		duration: &duration{},
	}
	expvar.Publish(key(nodeType, LatencyCounter), m.latency)
	expvar.Publish(key(nodeType, DurationCounter), m.duration)
	return m
}

func key(nodeType, counter string) string {
	return fmt.Sprintf("%s.%s.%s", nodesLabel, nodeType, counter)
}

func getType(component interface{}) string {
	rv := reflect.ValueOf(component)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}
	return rv.Type().String()
}

// duration allows to format time.Duration metric values.
type duration struct {
	d int64
}

func (v *duration) String() string {
	return fmt.Sprintf("%v", time.Duration(atomic.LoadInt64(&v.d)))
}

func (v *duration) add(delta time.Duration) {
	atomic.AddInt64(&v.d, int64(delta))
}

func (v *duration) set(value time.Duration) {
	atomic.StoreInt64(&v.d, int64(value))
}
