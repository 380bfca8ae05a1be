package graph

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/neurograph/graph/metric"
	"github.com/neurograph/graph/signal"
)

type role int

const (
	roleSource role = iota
	roleProcessor
	roleOutput
)

// Source produces signal without an upstream. Initialize must leave the
// descriptor returned by Info valid; the engine rejects anything else, and
// that is the single structural precondition every downstream node may
// assume. Produce returns the buffer for the current step, nil when nothing
// is available this step.
type Source interface {
	Initialize(*Node) error
	Produce(*Node) (signal.Float64, error)
	Info() *signal.Info
}

// Processor transforms the upstream buffer into a new one. Process is never
// invoked with an empty input.
type Processor interface {
	Initialize(*Node) error
	Process(*Node, signal.Float64) (signal.Float64, error)
}

// Output consumes the upstream buffer. Outputs are terminal: they produce no
// buffer of their own. Consume is never invoked with an empty input. The
// buffer passed in is read-only and valid only until the upstream node's
// next update; an output that needs it longer must copy it.
type Output interface {
	Initialize(*Node) error
	Consume(*Node, signal.Float64) error
}

// Resetter is implemented by components with a cheaper rebuild than full
// reinitialization. Reset reports whether output history is no longer valid:
// true if descendants should forget everything produced before, false if
// the change is strictly local. Components without it fall back to a full
// reinitialization on reset.
type Resetter interface {
	Reset(*Node) (historyInvalid bool, err error)
}

// Flusher is implemented by components whose state depends on previous
// inputs. FlushHistory discards whatever relies on them. Components without
// it treat input history invalidation as a no-op.
type Flusher interface {
	FlushHistory(*Node) error
}

// attacher is satisfied by embedding Attached.
type attacher interface {
	attach(*Node)
}

// Attached is embedded by concrete components to reach the node they are
// registered as.
type Attached struct {
	node *Node
}

func (a *Attached) attach(n *Node) { a.node = n }

// Node returns the graph node this component is registered as, nil before
// registration.
func (a *Attached) Node() *Node { return a.node }

// MarkResetNeeded raises the reset flag of the component's node.
func (a *Attached) MarkResetNeeded() {
	if a.node != nil {
		a.node.MarkResetNeeded()
	}
}

// Node is one stage of the chain. It owns its output buffer exclusively;
// listeners read it and must not retain it past this node's next update.
type Node struct {
	id    string
	name  string
	role  role
	graph *Graph

	hooks interface{}
	src   Source
	proc  Processor
	out   Output

	disabled bool
	output   signal.Float64

	initialized         bool
	upstreamChanged     bool
	pendingReinitialize bool
	pendingReset        bool
	inputHistoryInvalid bool

	// Snapshots of tracked upstream attributes, captured at initialization.
	saved map[string]interface{}

	log     logrus.FieldLogger
	measure metric.MeasureFunc
}

// ID returns the unique id of the node.
func (n *Node) ID() string { return n.id }

// Name returns the component type name of the node.
func (n *Node) Name() string { return n.name }

// Upstream returns the node this node pulls input from, nil for sources and
// unconnected nodes.
func (n *Node) Upstream() *Node { return n.graph.upstream[n] }

// Output returns the buffer produced by the last update. It is read-only
// for the caller and valid only until the next update.
func (n *Node) Output() signal.Float64 { return n.output }

// Initialized reports whether initialization has completed since the last
// full reinitialization.
func (n *Node) Initialized() bool { return n.initialized }

// PendingReset reports an unresolved reset request.
func (n *Node) PendingReset() bool { return n.pendingReset }

// PendingReinitialize reports an unresolved reinitialization request.
func (n *Node) PendingReinitialize() bool { return n.pendingReinitialize }

// InputHistoryInvalid reports an unhandled history invalidation.
func (n *Node) InputHistoryInvalid() bool { return n.inputHistoryInvalid }

// Disabled reports whether the node is administratively disabled.
func (n *Node) Disabled() bool { return n.disabled }

// SetDisabled toggles administrative pass-through for processor nodes.
func (n *Node) SetDisabled(disabled bool) { n.disabled = disabled }

// MarkResetNeeded schedules a reset to be resolved on the next update. It is
// a no-op while one of this node's own hooks is executing: hooks may assign
// their own derived attributes without re-triggering themselves.
func (n *Node) MarkResetNeeded() {
	if n.inHook() {
		return
	}
	n.pendingReset = true
}

func (n *Node) noPendingChanges() bool {
	return !n.pendingReinitialize && !n.pendingReset && !n.inputHistoryInvalid
}

func (n *Node) clearPending() {
	n.pendingReinitialize = false
	n.pendingReset = false
	n.inputHistoryInvalid = false
}

func (n *Node) upstreamOutput() signal.Float64 {
	if u := n.Upstream(); u != nil {
		return u.output
	}
	return nil
}

// Update advances the node by one step: it resolves any pending lifecycle
// transition and otherwise runs the node's computation on the current
// upstream output.
func (n *Node) Update() error {
	// Role short-circuits come before any lifecycle machinery.
	switch n.role {
	case roleProcessor:
		if n.disabled {
			n.output = n.upstreamOutput()
			return nil
		}
		if n.upstreamOutput().Empty() {
			n.output = nil
			return nil
		}
	case roleOutput:
		if n.upstreamOutput().Empty() {
			return nil
		}
	}
	return n.update()
}

func (n *Node) update() error {
	start := time.Now()
	// Reset output in case update does not succeed.
	n.output = nil

	if n.upstreamChanged {
		drifted, err := n.upstreamDrifted()
		if err != nil {
			return err
		}
		if drifted {
			n.pendingReinitialize = true
		}
		n.upstreamChanged = false
	}

	switch {
	case n.initialized && n.noPendingChanges():
		if err := n.runUpdate(); err != nil {
			return err
		}
	case !n.initialized || n.pendingReinitialize:
		if err := n.Initialize(); err != nil {
			return err
		}
	default:
		if n.pendingReset {
			if err := n.Reset(); err != nil {
				return err
			}
		}
		if n.inputHistoryInvalid {
			if err := n.FlushHistory(); err != nil {
				return err
			}
		}
	}
	n.log.WithField("elapsed", time.Since(start)).Debug("updated")
	return nil
}

func (n *Node) runUpdate() error {
	switch n.role {
	case roleSource:
		out, err := n.src.Produce(n)
		if err != nil {
			return err
		}
		n.output = out
	case roleProcessor:
		out, err := n.proc.Process(n, n.upstreamOutput())
		if err != nil {
			return err
		}
		n.output = out
	case roleOutput:
		if err := n.out.Consume(n, n.upstreamOutput()); err != nil {
			return err
		}
	}
	if n.measure != nil {
		// Outputs produce no buffer of their own; meter what they consumed.
		processed := n.output
		if n.role == roleOutput {
			processed = n.upstreamOutput()
		}
		n.measure(int64(processed.Size()))
	}
	return nil
}

// Initialize prepares the node for its first update, or rebuilds its
// derived state after upstream drift. Calling it when the node is
// initialized and no reinitialization is pending is a protocol violation.
func (n *Node) Initialize() error {
	if n.initialized && !n.pendingReinitialize {
		return fmt.Errorf("%w: initialize", ErrInvalidCall)
	}
	if err := n.captureUpstream(); err != nil {
		return err
	}

	done := n.beginHook()
	defer done()

	start := time.Now()
	n.log.Info("initializing")
	if err := n.initHook(); err != nil {
		return err
	}
	n.initialized = true
	n.clearPending()
	n.upstreamChanged = false
	n.log.WithField("elapsed", time.Since(start)).Info("initialized")

	n.deliver(Message{Changed: true, HistoryInvalid: true})
	return nil
}

func (n *Node) initHook() error {
	var err error
	switch n.role {
	case roleSource:
		if err = n.src.Initialize(n); err != nil {
			return err
		}
		// The one structural guarantee the rest of the chain relies on.
		if verr := n.src.Info().Validate(); verr != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidInfo, n.name, verr)
		}
	case roleProcessor:
		err = n.proc.Initialize(n)
	case roleOutput:
		err = n.out.Initialize(n)
	}
	return err
}

// Reset resolves a pending reset. Calling it without the flag raised is a
// protocol violation.
func (n *Node) Reset() error {
	if !n.pendingReset {
		return fmt.Errorf("%w: reset", ErrInvalidCall)
	}

	done := n.beginHook()
	defer done()

	n.log.Info("resetting after attribute change")
	historyInvalid := true
	if resetter, ok := n.hooks.(Resetter); ok {
		var err error
		if historyInvalid, err = resetter.Reset(n); err != nil {
			return err
		}
		n.pendingReset = false
	} else {
		// No cheaper rebuild declared: reinitialize from scratch.
		n.pendingReinitialize = true
		if err := n.Initialize(); err != nil {
			return err
		}
	}

	n.deliver(Message{Changed: true, HistoryInvalid: historyInvalid})
	return nil
}

// FlushHistory resolves a pending input history invalidation. Calling it
// without the flag raised is a protocol violation.
func (n *Node) FlushHistory() error {
	if !n.inputHistoryInvalid {
		return fmt.Errorf("%w: flush history", ErrInvalidCall)
	}

	done := n.beginHook()
	defer done()

	n.log.Info("discarding state: input history is no longer valid")
	if flusher, ok := n.hooks.(Flusher); ok {
		if err := flusher.FlushHistory(n); err != nil {
			return err
		}
	}
	n.inputHistoryInvalid = false

	n.deliver(Message{Changed: true, HistoryInvalid: true})
	return nil
}
