package graph

import (
	"fmt"
	"reflect"

	"github.com/neurograph/graph/signal"
)

// AttrInfo is the attribute name under which a source exposes its signal
// descriptor. It is the single attribute every chain provides.
const AttrInfo = "Info"

// AttrProvider exposes named attributes to downstream nodes. Concrete nodes
// implement it to publish values that their descendants may track.
type AttrProvider interface {
	Attr(name string) (value interface{}, ok bool)
}

// SnapshotFunc reduces a mutable attribute value to a comparable snapshot.
// Raw identity or equality on mutable objects is unreliable, so tracking a
// mutable attribute requires one.
type SnapshotFunc func(value interface{}) interface{}

// TrackedAttr declares an upstream attribute whose drift since the last
// initialization requires the node to reinitialize.
type TrackedAttr struct {
	Name     string
	Snapshot SnapshotFunc
}

// Tracker is implemented by concrete nodes that track upstream attributes.
// Nodes without it never reinitialize on upstream messages.
type Tracker interface {
	Tracked() []TrackedAttr
}

// InfoSnapshot reduces a *signal.Info attribute to its comparable channel
// layout.
func InfoSnapshot(value interface{}) interface{} {
	if info, ok := value.(*signal.Info); ok {
		return info.Snapshot()
	}
	return value
}

// TrackInfo declares drift tracking of the upstream signal descriptor.
func TrackInfo() []TrackedAttr {
	return []TrackedAttr{{Name: AttrInfo, Snapshot: InfoSnapshot}}
}

// UpstreamAttr walks up the chain until a node provides the named attribute.
func (n *Node) UpstreamAttr(name string) (interface{}, error) {
	for u := n.Upstream(); u != nil; u = u.Upstream() {
		if value, ok := u.attr(name); ok {
			return value, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNoUpstreamAttribute, name)
}

// UpstreamInfo resolves the signal descriptor of the chain this node is
// connected to.
func (n *Node) UpstreamInfo() (*signal.Info, error) {
	value, err := n.UpstreamAttr(AttrInfo)
	if err != nil {
		return nil, err
	}
	info, ok := value.(*signal.Info)
	if !ok {
		return nil, fmt.Errorf("%w: %s is %T, not *signal.Info", ErrInvalidValue, AttrInfo, value)
	}
	return info, nil
}

// attr resolves an attribute on this node only.
func (n *Node) attr(name string) (interface{}, bool) {
	if provider, ok := n.hooks.(AttrProvider); ok {
		if value, ok := provider.Attr(name); ok {
			return value, true
		}
	}
	if n.role == roleSource && name == AttrInfo {
		if info := n.src.Info(); info != nil {
			return info, true
		}
	}
	return nil, false
}

// captureUpstream saves a snapshot of every tracked upstream attribute.
// Called right before initialization, so drift is always measured against
// the values the node was initialized with.
func (n *Node) captureUpstream() error {
	tracker, ok := n.hooks.(Tracker)
	if !ok {
		n.saved = nil
		return nil
	}
	tracked := tracker.Tracked()
	saved := make(map[string]interface{}, len(tracked))
	for _, attr := range tracked {
		value, err := n.UpstreamAttr(attr.Name)
		if err != nil {
			return err
		}
		if attr.Snapshot != nil {
			value = attr.Snapshot(value)
		}
		saved[attr.Name] = value
	}
	n.saved = saved
	return nil
}

// upstreamDrifted compares the live upstream attributes against the
// snapshots captured at initialization.
func (n *Node) upstreamDrifted() (bool, error) {
	tracker, ok := n.hooks.(Tracker)
	if !ok || n.saved == nil {
		return false, nil
	}
	for _, attr := range tracker.Tracked() {
		saved, ok := n.saved[attr.Name]
		if !ok {
			return true, nil
		}
		value, err := n.UpstreamAttr(attr.Name)
		if err != nil {
			return false, err
		}
		if attr.Snapshot != nil {
			value = attr.Snapshot(value)
		}
		if !reflect.DeepEqual(saved, value) {
			return true, nil
		}
	}
	return false, nil
}
