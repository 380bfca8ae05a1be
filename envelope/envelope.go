// Package envelope provides a processor that extracts a per-channel signal
// envelope by exponential smoothing.
package envelope

import (
	"fmt"
	"math"

	"github.com/neurograph/graph"
	"github.com/neurograph/graph/signal"
)

// MethodExp is the only supported smoothing method.
const MethodExp = "exp"

// Processor smooths the rectified signal with a first-order exponential
// filter. Its state depends on previous inputs, so it discards the smoother
// on history invalidation.
type Processor struct {
	graph.Attached

	factor float64
	method string

	state []float64
}

// New returns an envelope processor with the given smoothing factor.
func New(factor float64) (*Processor, error) {
	p := &Processor{method: MethodExp}
	if err := p.SetFactor(factor); err != nil {
		return nil, err
	}
	return p, nil
}

// Factor returns the smoothing factor.
func (p *Processor) Factor() float64 { return p.factor }

// Method returns the smoothing method.
func (p *Processor) Method() string { return p.method }

// SetFactor assigns the smoothing factor and schedules a reset. The factor
// must lie strictly between 0 and 1.
func (p *Processor) SetFactor(factor float64) error {
	if !(factor > 0 && factor < 1) {
		return fmt.Errorf("%w: envelope factor must be in (0;1), got %v", graph.ErrInvalidValue, factor)
	}
	p.factor = factor
	p.MarkResetNeeded()
	return nil
}

// SetMethod assigns the smoothing method and schedules a reset.
func (p *Processor) SetMethod(method string) error {
	if method != MethodExp {
		return fmt.Errorf("%w: unsupported envelope method %q", graph.ErrInvalidValue, method)
	}
	p.method = method
	p.MarkResetNeeded()
	return nil
}

// Tracked declares that a change of the upstream channel layout requires
// reinitialization.
func (p *Processor) Tracked() []graph.TrackedAttr {
	return graph.TrackInfo()
}

// Initialize allocates smoother state for the upstream channel layout.
func (p *Processor) Initialize(n *graph.Node) error {
	info, err := n.UpstreamInfo()
	if err != nil {
		return err
	}
	// Re-assert the method through its own setter; the hook suppression
	// window keeps this from re-raising the reset flag.
	if err := p.SetMethod(p.method); err != nil {
		return err
	}
	p.state = make([]float64, info.NumChannels())
	return nil
}

// Process updates the envelope with the rectified input.
func (p *Processor) Process(_ *graph.Node, in signal.Float64) (signal.Float64, error) {
	if in.NumChannels() != len(p.state) {
		return nil, fmt.Errorf("%w: got %d channels, smoother has %d",
			graph.ErrInvalidValue, in.NumChannels(), len(p.state))
	}
	out := signal.EmptyFloat64(in.NumChannels(), in.Size())
	for c := range in {
		value := p.state[c]
		for i := range in[c] {
			value = p.factor*value + (1-p.factor)*math.Abs(in[c][i])
			out[c][i] = value
		}
		p.state[c] = value
	}
	return out, nil
}

// Reset drops the smoother state. The envelope restarts from zero, so
// output history is no longer valid.
func (p *Processor) Reset(*graph.Node) (bool, error) {
	p.zero()
	return true, nil
}

// FlushHistory drops the smoother state accumulated from previous inputs.
func (p *Processor) FlushHistory(*graph.Node) error {
	p.zero()
	return nil
}

func (p *Processor) zero() {
	for i := range p.state {
		p.state[i] = 0
	}
}
