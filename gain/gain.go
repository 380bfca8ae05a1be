// Package gain provides a processor that scales every sample by a constant
// factor.
package gain

import (
	"fmt"
	"math"

	"github.com/neurograph/graph"
	"github.com/neurograph/graph/signal"
)

// Processor multiplies the signal by a factor. It keeps no state between
// updates, so its resets never invalidate output history.
type Processor struct {
	graph.Attached

	factor float64
}

// New returns a gain processor with the given factor.
func New(factor float64) (*Processor, error) {
	p := &Processor{}
	if err := p.SetFactor(factor); err != nil {
		return nil, err
	}
	return p, nil
}

// Factor returns the gain factor.
func (p *Processor) Factor() float64 { return p.factor }

// SetFactor assigns the gain factor and schedules a reset.
func (p *Processor) SetFactor(factor float64) error {
	if math.IsNaN(factor) || math.IsInf(factor, 0) {
		return fmt.Errorf("%w: gain factor must be finite, got %v", graph.ErrInvalidValue, factor)
	}
	p.factor = factor
	p.MarkResetNeeded()
	return nil
}

// Initialize is a no-op: the processor derives nothing from upstream.
func (p *Processor) Initialize(*graph.Node) error {
	return nil
}

// Process scales the buffer into a new one.
func (p *Processor) Process(_ *graph.Node, in signal.Float64) (signal.Float64, error) {
	out := signal.EmptyFloat64(in.NumChannels(), in.Size())
	for c := range in {
		for i := range in[c] {
			out[c][i] = in[c][i] * p.factor
		}
	}
	return out, nil
}

// Reset is a no-op: there is no retained state and the change is strictly
// local, so output history stays valid.
func (p *Processor) Reset(*graph.Node) (bool, error) {
	return false, nil
}
