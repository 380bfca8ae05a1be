// Package mock provides mocks for graph nodes and allows to execute
// integration tests of the lifecycle machinery.
package mock

import (
	"github.com/neurograph/graph"
	"github.com/neurograph/graph/signal"
)

const (
	defaultBufferSize = 10
	defaultSampleRate = 250
)

// Calls counts lifecycle hook invocations.
type Calls struct {
	Init    int
	Produce int
	Process int
	Consume int
	Reset   int
	Flush   int
}

// Hooks allows to inject behaviour into mock lifecycle handlers.
type Hooks struct {
	OnInitialize func() error
	OnReset      func() error
}

// Source mocks a source node. Every Produce call emits a buffer filled with
// Value until Limit samples have been produced, then empty buffers.
type Source struct {
	graph.Attached
	Calls
	Hooks

	Channels   []string
	SampleRate int
	BufferSize int
	Value      float64
	Limit      int

	// OmitInfo leaves the descriptor unset so that initialization fails
	// its structural validation.
	OmitInfo bool

	// Attrs are exposed to downstream drift tracking.
	Attrs map[string]interface{}

	info     *signal.Info
	produced int
}

// Initialize populates the descriptor.
func (m *Source) Initialize(*graph.Node) error {
	m.Calls.Init++
	if m.OnInitialize != nil {
		if err := m.OnInitialize(); err != nil {
			return err
		}
	}
	m.info = nil
	m.produced = 0
	if m.OmitInfo {
		return nil
	}
	if m.SampleRate == 0 {
		m.SampleRate = defaultSampleRate
	}
	if m.BufferSize == 0 {
		m.BufferSize = defaultBufferSize
	}
	if len(m.Channels) == 0 {
		m.Channels = []string{"ch1", "ch2"}
	}
	m.info = &signal.Info{
		Labels:     append([]string{}, m.Channels...),
		SampleRate: m.SampleRate,
	}
	return nil
}

// Info returns the descriptor populated by Initialize.
func (m *Source) Info() *signal.Info {
	return m.info
}

// Produce returns the next buffer, nil once Limit is exhausted.
func (m *Source) Produce(*graph.Node) (signal.Float64, error) {
	m.Calls.Produce++
	if m.Limit > 0 && m.produced >= m.Limit {
		return nil, nil
	}
	size := m.BufferSize
	if m.Limit > 0 && m.Limit-m.produced < size {
		size = m.Limit - m.produced
	}
	buffer := signal.EmptyFloat64(len(m.Channels), size)
	for i := range buffer {
		for j := range buffer[i] {
			buffer[i][j] = m.Value
		}
	}
	m.produced += size
	return buffer, nil
}

// Attr exposes configured attributes for drift tracking.
func (m *Source) Attr(name string) (interface{}, bool) {
	value, ok := m.Attrs[name]
	return value, ok
}

// SetAttr mutates an exposed attribute and raises the reset flag.
func (m *Source) SetAttr(name string, value interface{}) {
	if m.Attrs == nil {
		m.Attrs = make(map[string]interface{})
	}
	m.Attrs[name] = value
	m.MarkResetNeeded()
}

// Processor mocks a processor node. It passes input through unchanged.
type Processor struct {
	graph.Attached
	Calls
	Hooks

	ErrorOnCall error

	// Scale is a reset-sensitive attribute, assigned via SetScale.
	Scale float64

	// ResetHistoryInvalid is what Reset reports to the engine.
	ResetHistoryInvalid bool

	// TrackedAttrs declares which upstream attributes require this node to
	// reinitialize when they drift.
	TrackedAttrs []graph.TrackedAttr
}

// Initialize counts the call.
func (m *Processor) Initialize(*graph.Node) error {
	m.Calls.Init++
	if m.OnInitialize != nil {
		return m.OnInitialize()
	}
	return nil
}

// Process passes the buffer through.
func (m *Processor) Process(_ *graph.Node, in signal.Float64) (signal.Float64, error) {
	m.Calls.Process++
	if m.ErrorOnCall != nil {
		return nil, m.ErrorOnCall
	}
	return in, nil
}

// Reset counts the call and reports configured history validity.
func (m *Processor) Reset(*graph.Node) (bool, error) {
	m.Calls.Reset++
	if m.OnReset != nil {
		if err := m.OnReset(); err != nil {
			return false, err
		}
	}
	return m.ResetHistoryInvalid, nil
}

// FlushHistory counts the call.
func (m *Processor) FlushHistory(*graph.Node) error {
	m.Calls.Flush++
	return nil
}

// Tracked declares the configured upstream attributes.
func (m *Processor) Tracked() []graph.TrackedAttr {
	return m.TrackedAttrs
}

// SetScale assigns the reset-sensitive attribute.
func (m *Processor) SetScale(scale float64) {
	m.Scale = scale
	m.MarkResetNeeded()
}

// Output mocks an output node and retains the last consumed buffer.
type Output struct {
	graph.Attached
	Calls
	Hooks

	ErrorOnCall error

	// Last is a copy of the most recently consumed buffer.
	Last signal.Float64

	TrackedAttrs []graph.TrackedAttr
}

// Initialize counts the call.
func (m *Output) Initialize(*graph.Node) error {
	m.Calls.Init++
	if m.OnInitialize != nil {
		return m.OnInitialize()
	}
	m.Last = nil
	return nil
}

// Consume copies the buffer: it is only valid until upstream's next update.
func (m *Output) Consume(_ *graph.Node, in signal.Float64) error {
	m.Calls.Consume++
	if m.ErrorOnCall != nil {
		return m.ErrorOnCall
	}
	m.Last = signal.Float64(nil).Append(in)
	return nil
}

// Reset counts the call.
func (m *Output) Reset(*graph.Node) (bool, error) {
	m.Calls.Reset++
	if m.OnReset != nil {
		if err := m.OnReset(); err != nil {
			return false, err
		}
	}
	return false, nil
}

// FlushHistory counts the call and drops the retained buffer.
func (m *Output) FlushHistory(*graph.Node) error {
	m.Calls.Flush++
	m.Last = nil
	return nil
}

// Tracked declares the configured upstream attributes.
func (m *Output) Tracked() []graph.TrackedAttr {
	return m.TrackedAttrs
}
