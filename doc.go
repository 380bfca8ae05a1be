// Package graph implements a reactive dataflow graph for incremental signal
// processing. A graph is a chain of nodes: one source, any number of
// processors and one or more outputs. Each node pulls the output of its
// upstream neighbour, so a single front-to-back pass over the chain advances
// the whole graph by one step.
//
// Nodes are lazy. Changing an attribute of a node, or swapping its upstream,
// only raises a pending flag; the flag is resolved on the next update call.
// Three kinds of pending work exist, from most to least disruptive:
// reinitialization (upstream structural drift), reset (local attribute
// change) and history invalidation (time-series continuity is broken).
// An update resolves at most the most disruptive of them.
//
// The engine is single-threaded and exposes no clock: an external caller
// drives it by ticking a Pipeline.
package graph
