// Package node defines the runtime vertex of the execution graph: one
// module instance, its resolved arguments, and its atomically managed
// execution state.
package node

import (
	"sync"
	"sync/atomic"

	"github.com/vk/orchid/internal/module"
)

// State is the execution state of a node. Succeeded, Failed and Skipped are
// terminal; every node reaches exactly one of them.
type State int32

const (
	// Pending indicates the node is waiting for its dependencies.
	Pending State = iota
	// Ready indicates all dependencies have succeeded and the node is
	// queued for dispatch.
	Ready
	// Running indicates a worker is executing the node's lifecycle.
	Running
	// Succeeded indicates the lifecycle completed without error.
	Succeeded
	// Failed indicates SetUp or Process returned an error, or the run was
	// cancelled while the node was live.
	Failed
	// Skipped indicates the node never ran because an ancestor failed. It
	// is reachable only from Pending.
	Skipped
)

// String returns the lower-case state name used in logs and reports.
func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Ready:
		return "ready"
	case Running:
		return "running"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Node binds one recipe module entry to its instantiated module and tracks
// its progress through the run. A node is owned by a single run and never
// reused.
type Node struct {
	// RuntimeName is the unique instance name within the recipe.
	RuntimeName string
	// TypeName is the module type the instance was constructed from.
	TypeName string
	// Args holds the fully resolved arguments passed to SetUp.
	Args module.Args
	// Instance is the module implementation executing this node.
	Instance module.Module

	// Deps are the nodes this node waits for.
	Deps []*Node
	// Dependents are the nodes waiting for this node.
	Dependents []*Node

	// Err records the failure or skip cause once the node is terminal.
	Err error

	state    atomic.Int32
	depCount atomic.Int32
	skipOnce sync.Once
}

// New creates a Pending node for one module instance.
func New(runtimeName, typeName string, arguments module.Args, instance module.Module) *Node {
	return &Node{
		RuntimeName: runtimeName,
		TypeName:    typeName,
		Args:        arguments,
		Instance:    instance,
	}
}

// SetInitialCounters seeds the unmet-dependency counter from the linked
// dependency edges. Called once, after graph linking and before execution.
func (n *Node) SetInitialCounters() {
	n.depCount.Store(int32(len(n.Deps)))
}

// DepCount atomically returns the current number of unmet dependencies.
func (n *Node) DepCount() int32 {
	return n.depCount.Load()
}

// DecrementDepCount atomically decrements the dependency counter and
// returns the new value. The dependent reaching zero becomes Ready.
func (n *Node) DecrementDepCount() int32 {
	return n.depCount.Add(-1)
}

// SetState atomically sets the node's execution state.
func (n *Node) SetState(s State) {
	n.state.Store(int32(s))
}

// State atomically retrieves the node's execution state.
func (n *Node) State() State {
	return State(n.state.Load())
}

// Skip marks the node Skipped exactly once and records the cause. It
// reports whether this call performed the transition, so cascades touching
// a node through several failed ancestors account for it only once.
func (n *Node) Skip(cause error) bool {
	var first bool
	n.skipOnce.Do(func() {
		n.SetState(Skipped)
		n.Err = cause
		first = true
	})
	return first
}
