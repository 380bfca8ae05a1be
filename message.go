package graph

// Message is sent from a node to its listeners when the node's
// output-producing contract has changed. It is immutable once constructed.
type Message struct {
	// Changed reports that this node or one of its predecessors changed.
	Changed bool
	// HistoryInvalid reports that new outputs cannot be considered a
	// continuation of the previous ones.
	HistoryInvalid bool
}

// receive folds an upstream message into the node's pending flags. Flags are
// only ever raised here; they are cleared by the handlers that resolve them.
func (n *Node) receive(m Message) {
	if m.Changed {
		n.upstreamChanged = true
	}
	if m.HistoryInvalid {
		n.inputHistoryInvalid = true
	}
}

// deliver sends the message to every listener in registration order, before
// returning control to the caller.
func (n *Node) deliver(m Message) {
	for _, listener := range n.graph.listenersOf(n) {
		listener.receive(m)
	}
}
