// Package collect provides an output that accumulates every buffer it
// receives in memory.
package collect

import (
	"github.com/neurograph/graph"
	"github.com/neurograph/graph/signal"
)

// Output appends consumed buffers to an in-memory recording. The recording
// represents a continuous stretch of signal, so it is discarded when input
// history is invalidated.
type Output struct {
	graph.Attached

	buffer signal.Float64
}

// New returns an empty collector.
func New() *Output {
	return &Output{}
}

// Buffer returns the accumulated recording.
func (o *Output) Buffer() signal.Float64 {
	return o.buffer
}

// Initialize drops anything collected before.
func (o *Output) Initialize(*graph.Node) error {
	o.buffer = nil
	return nil
}

// Consume copies the buffer into the recording. Append copies the samples,
// so the upstream buffer is not retained past its validity window.
func (o *Output) Consume(_ *graph.Node, in signal.Float64) error {
	o.buffer = o.buffer.Append(in)
	return nil
}

// FlushHistory discards the recording: new input is no continuation of what
// was collected.
func (o *Output) FlushHistory(*graph.Node) error {
	o.buffer = nil
	return nil
}
