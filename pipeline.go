package graph

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/neurograph/graph/log"
	"github.com/neurograph/graph/metric"
)

// Pipeline owns an ordered chain of nodes: one source, a list of processors
// and a list of outputs. It wires upstream references and drives the whole
// graph once per external tick. The pipeline exposes no clock of its own.
type Pipeline struct {
	graph *Graph
	name  string

	source     *Node
	processors []*Node
	outputs    []*Node
	// Explicit parent per output; nil marks a floating output that follows
	// the chain tail across topology edits.
	parents []*Node

	metered bool
	log     logrus.FieldLogger
}

// Option provides a way to set functional parameters to pipeline.
type Option func(p *Pipeline)

// WithName sets name to Pipeline.
func WithName(n string) Option {
	return func(p *Pipeline) {
		p.name = n
	}
}

// WithLogger sets the logger used by the pipeline and its nodes.
func WithLogger(l logrus.FieldLogger) Option {
	return func(p *Pipeline) {
		p.log = l
		p.graph.SetLogger(l)
	}
}

// WithMetric enables expvar counters for every node of this pipeline.
func WithMetric() Option {
	return func(p *Pipeline) {
		p.metered = true
	}
}

// NewPipeline creates an empty pipeline and applies provided options.
func NewPipeline(options ...Option) *Pipeline {
	p := &Pipeline{
		graph: New(),
		log:   log.GetLogger(),
	}
	for _, option := range options {
		option(p)
	}
	return p
}

// Graph returns the node arena backing this pipeline.
func (p *Pipeline) Graph() *Graph {
	return p.graph
}

// Source returns the source node, nil when none has been set.
func (p *Pipeline) Source() *Node {
	return p.source
}

// SetSource assigns the source and rewires the first processor and all
// floating outputs to the new chain.
func (p *Pipeline) SetSource(source *Node) error {
	if source.role != roleSource {
		return ErrWrongRole
	}
	p.source = source
	if len(p.processors) > 0 {
		if err := p.graph.Connect(p.processors[0], source); err != nil {
			return err
		}
	}
	return p.reconnectFloatingOutputs()
}

// AddProcessor appends a processor to the chain and connects it to the
// current tail. Re-adding a processor instance is rejected.
func (p *Pipeline) AddProcessor(processor *Node) error {
	if processor.role != roleProcessor {
		return ErrWrongRole
	}
	for _, existing := range p.processors {
		if existing == processor {
			return ErrAlreadyAdded
		}
	}
	if err := p.graph.Connect(processor, p.tail()); err != nil {
		return err
	}
	p.processors = append(p.processors, processor)
	return p.reconnectFloatingOutputs()
}

// AddOutput connects an output to the given parent node. A nil parent
// attaches the output to the current chain tail and keeps it there across
// later topology edits.
func (p *Pipeline) AddOutput(output *Node, parent *Node) error {
	if output.role != roleOutput {
		return ErrWrongRole
	}
	target := parent
	if target == nil {
		target = p.tail()
	}
	if err := p.graph.Connect(output, target); err != nil {
		return err
	}
	p.outputs = append(p.outputs, output)
	p.parents = append(p.parents, parent)
	return nil
}

// tail returns the last node before the outputs.
func (p *Pipeline) tail() *Node {
	if len(p.processors) > 0 {
		return p.processors[len(p.processors)-1]
	}
	return p.source
}

func (p *Pipeline) reconnectFloatingOutputs() error {
	tail := p.tail()
	for i, output := range p.outputs {
		target := p.parents[i]
		if target == nil {
			target = tail
		}
		if err := p.graph.Connect(output, target); err != nil {
			return err
		}
	}
	return nil
}

// Nodes returns the chain in topological order: source, processors, outputs.
func (p *Pipeline) Nodes() []*Node {
	nodes := make([]*Node, 0, 1+len(p.processors)+len(p.outputs))
	if p.source != nil {
		nodes = append(nodes, p.source)
	}
	nodes = append(nodes, p.processors...)
	nodes = append(nodes, p.outputs...)
	return nodes
}

// Frequency returns the sample rate declared by the source.
func (p *Pipeline) Frequency() (int, error) {
	if p.source == nil {
		return 0, ErrNoSource
	}
	info := p.source.src.Info()
	if info == nil {
		return 0, ErrInvalidInfo
	}
	return info.SampleRate, nil
}

// InitializeAll initializes every node of the chain front to back. The
// source's initialization message cascades down and each node resolves it
// in turn.
func (p *Pipeline) InitializeAll() error {
	if p.source == nil {
		return ErrNoSource
	}
	p.log.Info("initialize")
	start := time.Now()
	for _, n := range p.Nodes() {
		if n.initialized && !n.pendingReinitialize {
			continue
		}
		if err := n.Initialize(); err != nil {
			return err
		}
	}
	if p.metered {
		p.meter()
	}
	p.log.WithField("elapsed", time.Since(start)).Info("initialized")
	return nil
}

func (p *Pipeline) meter() {
	sampleRate, err := p.Frequency()
	if err != nil {
		return
	}
	for _, n := range p.Nodes() {
		if n.measure == nil {
			n.measure = metric.Meter(n.hooks, sampleRate)()
		}
	}
}

// Tick advances every node by one update step, front to back, so each node
// observes the current step's upstream output.
func (p *Pipeline) Tick() error {
	if p.source == nil {
		return ErrNoSource
	}
	start := time.Now()
	for _, n := range p.Nodes() {
		if err := n.Update(); err != nil {
			return err
		}
	}
	p.log.WithField("elapsed", time.Since(start)).Debug("tick")
	return nil
}
