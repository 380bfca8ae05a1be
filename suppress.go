package graph

import (
	"sync"

	"github.com/petermattis/goid"
)

// hookOwners maps a goroutine id to the node whose lifecycle hook is
// currently executing on it. Attribute setters called from within a hook
// funnel into MarkResetNeeded; the guard keeps those self-inflicted
// mutations from re-raising the reset flag of the very node being handled.
var hookOwners sync.Map // int64 -> *Node

// beginHook installs the suppression guard for the duration of a hook call.
// The returned func restores the previous guard, so hooks may nest.
func (n *Node) beginHook() func() {
	gid := goid.Get()
	prev, restore := hookOwners.Load(gid)
	hookOwners.Store(gid, n)
	return func() {
		if restore {
			hookOwners.Store(gid, prev)
		} else {
			hookOwners.Delete(gid)
		}
	}
}

// inHook returns true if this node's own hook is executing on the calling
// goroutine.
func (n *Node) inHook() bool {
	owner, ok := hookOwners.Load(goid.Get())
	return ok && owner == n
}
