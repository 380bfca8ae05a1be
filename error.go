package graph

import "errors"

var (
	// ErrInvalidCall is returned if a lifecycle handler is invoked without
	// its pending flag being raised. It indicates a caller bypassing the
	// flag protocol and is never recovered by the engine.
	ErrInvalidCall = errors.New("call without pending flag")

	// ErrCycle is returned if connecting two nodes would make the chain
	// cyclic.
	ErrCycle = errors.New("cycle detected")

	// ErrAlreadyAdded is returned if a node instance is added to a
	// collection it is already part of.
	ErrAlreadyAdded = errors.New("node already added")

	// ErrForeignNode is returned if a node from another graph is used.
	ErrForeignNode = errors.New("node belongs to another graph")

	// ErrNoSource is returned if an operation requires a source and none
	// has been set.
	ErrNoSource = errors.New("no source has been set")

	// ErrNoUpstreamAttribute is returned if no predecessor of a node
	// provides a tracked attribute.
	ErrNoUpstreamAttribute = errors.New("no upstream node provides attribute")

	// ErrInvalidValue is returned by attribute setters when the value is
	// outside of the attribute's declared domain.
	ErrInvalidValue = errors.New("invalid attribute value")

	// ErrInvalidInfo is returned if a source completes initialization with
	// a missing or inconsistent signal descriptor.
	ErrInvalidInfo = errors.New("invalid signal info")

	// ErrWrongRole is returned if a node of one role is used where another
	// role is required.
	ErrWrongRole = errors.New("wrong node role")
)
