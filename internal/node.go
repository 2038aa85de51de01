package internal

import (
	"fmt"
	"weak"
)

type NodeKind int

const (
	KindSignal NodeKind = iota
	KindComputed
	KindWatcher
)

func (k NodeKind) String() string {
	switch k {
	case KindSignal:
		return "signal"
	case KindComputed:
		return "computed"
	case KindWatcher:
		return "watcher"
	default:
		return "node"
	}
}

// NodeOptions configures a node at creation time.
type NodeOptions struct {
	Name  string
	Equal EqualFunc
}

type ReactiveNode struct {
	runtime *Runtime

	kind  NodeKind
	label string

	value    any
	hasValue bool

	// bumped each time value changes
	version uint64

	// possibly stale, pending confirmation by polling the dependencies
	dirty bool

	// runtime epoch at which the node was last known to be up to date
	lastCleanEpoch uint64

	// called once whenever the node goes from clean to dirty
	fn func()

	// pulls the node up to date, nil for signals
	refresh func()

	// producers read during the last evaluation, in read order
	deps []*DependencyLink

	// consumers of this node, held weakly
	subsHead *DependencyLink
}

func (r *Runtime) NewNode(kind NodeKind, opts NodeOptions) *ReactiveNode {
	r.ids++

	label := opts.Name
	if label == "" {
		label = fmt.Sprintf("%s#%d", kind, r.ids)
	}

	return &ReactiveNode{
		runtime: r,
		kind:    kind,
		label:   label,
	}
}

func (n *ReactiveNode) Kind() NodeKind  { return n.kind }
func (n *ReactiveNode) Label() string   { return n.label }
func (n *ReactiveNode) Version() uint64 { return n.version }
func (n *ReactiveNode) IsDirty() bool   { return n.dirty }
func (n *ReactiveNode) Runtime() *Runtime {
	return n.runtime
}

// Value returns the raw stored value without tracking or refreshing.
func (n *ReactiveNode) Value() any {
	return n.value
}

// Deps returns the producers recorded during the last evaluation.
func (n *ReactiveNode) Deps() []*ReactiveNode {
	deps := make([]*ReactiveNode, 0, len(n.deps))
	for _, link := range n.deps {
		deps = append(deps, link.dep)
	}
	return deps
}

// propagate marks every live consumer dirty, visiting each at most once.
func (n *ReactiveNode) propagate() {
	for _, sub := range n.liveSubs() {
		if sub.dirty {
			continue
		}
		sub.dirty = true

		if sub.fn != nil {
			sub.fn()
		}

		sub.propagate()
	}
}

// pollDeps reports whether any recorded producer changed since it was read.
func (n *ReactiveNode) pollDeps() bool {
	for _, link := range n.deps {
		if link.dep.version != link.version {
			return true
		}

		if link.dep.refresh != nil {
			link.dep.refresh()
		}

		if link.dep.version != link.version {
			return true
		}
	}

	return false
}

// replaceDeps swaps the dependency set for the producers read during the
// last evaluation, unsubscribing from the ones no longer read.
func (n *ReactiveNode) replaceDeps(reads []*DependencyLink) {
	kept := make(map[*ReactiveNode]*DependencyLink, len(n.deps))
	read := make(map[*ReactiveNode]struct{}, len(reads))
	for _, link := range reads {
		read[link.dep] = struct{}{}
	}

	for _, link := range n.deps {
		if _, ok := read[link.dep]; ok {
			kept[link.dep] = link
			continue
		}
		link.dep.removeSubLink(link)
	}

	stale := false
	deps := make([]*DependencyLink, 0, len(reads))
	for _, link := range reads {
		if prev, ok := kept[link.dep]; ok {
			prev.version = link.version
			deps = append(deps, prev)
			continue
		}

		link.sub = weak.Make(n)
		link.dep.addSubLink(link)
		deps = append(deps, link)

		if link.dep.dirty || link.dep.version != link.version {
			// changed after the read but before the link existed,
			// propagation could not reach n
			stale = true
		}
	}

	n.deps = deps

	if stale && !n.dirty {
		n.dirty = true
		if n.fn != nil {
			n.fn()
		}
	}
}

// ClearDeps removes all dependencies
func (n *ReactiveNode) ClearDeps() {
	for _, link := range n.deps {
		link.dep.removeSubLink(link)
	}

	n.deps = nil
}
