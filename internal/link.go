package internal

import (
	"iter"
	"weak"
)

// DependencyLink is one producer -> consumer edge. The consumer owns the
// link through its deps slice; the producer only sees the consumer weakly.
type DependencyLink struct {
	dep *ReactiveNode
	sub weak.Pointer[ReactiveNode]

	// producer version observed by the consumer when it read it
	version uint64

	linked bool

	prevSub *DependencyLink
	nextSub *DependencyLink
}

func (n *ReactiveNode) addSubLink(link *DependencyLink) {
	if link.linked {
		return
	}
	link.linked = true

	if n.subsHead == nil {
		n.subsHead = link
		link.prevSub = link // loop to self
		link.nextSub = nil
	} else {
		tail := n.subsHead.prevSub
		tail.nextSub = link
		link.prevSub = tail
		link.nextSub = nil
		n.subsHead.prevSub = link
	}
}

func (n *ReactiveNode) removeSubLink(link *DependencyLink) {
	if !link.linked {
		return
	}
	link.linked = false

	head := n.subsHead

	if link == head {
		n.subsHead = link.nextSub
		if n.subsHead != nil {
			n.subsHead.prevSub = link.prevSub
		}
	} else {
		link.prevSub.nextSub = link.nextSub
		if link.nextSub != nil {
			link.nextSub.prevSub = link.prevSub
		} else {
			head.prevSub = link.prevSub
		}
	}

	link.prevSub = nil
	link.nextSub = nil
}

// Subs returns an iterator over the consumers still alive.
// Links whose consumer was collected are dropped on the way.
func (n *ReactiveNode) Subs() iter.Seq[*ReactiveNode] {
	return func(yield func(*ReactiveNode) bool) {
		for link := n.subsHead; link != nil; {
			next := link.nextSub

			sub := link.sub.Value()
			if sub == nil {
				n.removeSubLink(link)
			} else if !yield(sub) {
				return
			}

			link = next
		}
	}
}

// liveSubs snapshots the consumers so callbacks may relink while we walk.
func (n *ReactiveNode) liveSubs() []*ReactiveNode {
	var subs []*ReactiveNode
	for sub := range n.Subs() {
		subs = append(subs, sub)
	}
	return subs
}
