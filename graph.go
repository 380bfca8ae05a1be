package graph

import (
	"fmt"
	"reflect"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/neurograph/graph/log"
)

// Graph is an arena of nodes. It owns the upstream edges and the listener
// adjacency lists, so the chain can be validated acyclic and iterated in a
// deterministic order. Nodes never hold live references to their listeners.
type Graph struct {
	nodes     []*Node
	upstream  map[*Node]*Node
	listeners map[*Node][]*Node
	log       logrus.FieldLogger
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		upstream:  make(map[*Node]*Node),
		listeners: make(map[*Node][]*Node),
		log:       log.GetLogger(),
	}
}

// SetLogger replaces the logger used by the graph and by nodes registered
// after the call.
func (g *Graph) SetLogger(l logrus.FieldLogger) {
	g.log = l
}

// NewSource registers a new source node.
func (g *Graph) NewSource(s Source) *Node {
	return g.newNode(roleSource, s)
}

// NewProcessor registers a new processor node.
func (g *Graph) NewProcessor(p Processor) *Node {
	return g.newNode(roleProcessor, p)
}

// NewOutput registers a new output node.
func (g *Graph) NewOutput(o Output) *Node {
	return g.newNode(roleOutput, o)
}

func (g *Graph) newNode(r role, hooks interface{}) *Node {
	name := typeName(hooks)
	n := &Node{
		id:    newUID(),
		name:  name,
		role:  r,
		graph: g,
		hooks: hooks,
		log:   g.log.WithField("node", name),
	}
	switch r {
	case roleSource:
		n.src = hooks.(Source)
	case roleProcessor:
		n.proc = hooks.(Processor)
	case roleOutput:
		n.out = hooks.(Output)
	}
	if a, ok := hooks.(attacher); ok {
		a.attach(n)
	}
	g.nodes = append(g.nodes, n)
	g.listeners[n] = nil
	return n
}

// Connect assigns the upstream of a node. A nil upstream disconnects it.
// The node gaining an upstream immediately receives a synthetic message with
// both flags raised: a changed upstream identity invalidates everything.
func (g *Graph) Connect(n, upstream *Node) error {
	if n == nil {
		return fmt.Errorf("%w: nil node", ErrForeignNode)
	}
	if n.graph != g || (upstream != nil && upstream.graph != g) {
		return ErrForeignNode
	}
	if n.role == roleSource && upstream != nil {
		return fmt.Errorf("%w: a source has no upstream", ErrWrongRole)
	}
	current := g.upstream[n]
	if current == upstream {
		return nil
	}
	// The edge must never make the chain cyclic.
	for u := upstream; u != nil; u = g.upstream[u] {
		if u == n {
			return ErrCycle
		}
	}

	// Swapping the upstream of an initialized node schedules a rebuild.
	n.pendingReinitialize = n.initialized

	if current != nil {
		g.removeListener(current, n)
	}
	if upstream == nil {
		delete(g.upstream, n)
	} else {
		g.upstream[n] = upstream
		g.listeners[upstream] = append(g.listeners[upstream], n)
		n.receive(Message{Changed: true, HistoryInvalid: true})
	}
	return nil
}

func (g *Graph) removeListener(of, listener *Node) {
	listeners := g.listeners[of]
	for i, l := range listeners {
		if l == listener {
			g.listeners[of] = append(listeners[:i], listeners[i+1:]...)
			return
		}
	}
}

// listenersOf returns the listeners of a node in registration order.
func (g *Graph) listenersOf(n *Node) []*Node {
	return g.listeners[n]
}

// Nodes returns all registered nodes in registration order.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, len(g.nodes))
	copy(nodes, g.nodes)
	return nodes
}

// newUID returns new unique id value.
func newUID() string {
	return xid.New().String()
}

// typeName returns the type of the component without package prefixes.
func typeName(component interface{}) string {
	rv := reflect.ValueOf(component)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}
	return rv.Type().String()
}
