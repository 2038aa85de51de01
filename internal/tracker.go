package internal

type frame struct {
	// nil for an untracked frame
	node *ReactiveNode

	depth int

	reads []*DependencyLink
	seen  map[*ReactiveNode]struct{}
}

// Tracker is the stack of consumers currently evaluating.
type Tracker struct {
	frames []*frame
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// Push makes node the active consumer until the returned frame is popped.
func (t *Tracker) Push(node *ReactiveNode) *frame {
	f := &frame{node: node, depth: len(t.frames)}
	t.frames = append(t.frames, f)
	return f
}

// Pop drops f and every frame above it.
func (t *Tracker) Pop(f *frame) {
	if f.depth > len(t.frames) {
		return
	}
	clear(t.frames[f.depth:])
	t.frames = t.frames[:f.depth]
}

func (t *Tracker) RunUntracked(fn func()) {
	f := t.Push(nil)
	defer t.Pop(f)

	fn()
}

// Track records a read of dep by the active consumer, if any.
func (t *Tracker) Track(dep *ReactiveNode) {
	if !t.ShouldTrack() {
		return
	}

	f := t.frames[len(t.frames)-1]
	if f.seen == nil {
		f.seen = make(map[*ReactiveNode]struct{})
	}
	if _, ok := f.seen[dep]; ok {
		return
	}
	f.seen[dep] = struct{}{}

	f.reads = append(f.reads, &DependencyLink{dep: dep, version: dep.version})
}

func (t *Tracker) ShouldTrack() bool {
	return len(t.frames) > 0 && t.frames[len(t.frames)-1].node != nil
}

func (t *Tracker) CurrentNode() *ReactiveNode {
	if len(t.frames) == 0 {
		return nil
	}
	return t.frames[len(t.frames)-1].node
}

// ActiveComputed returns the innermost computed under evaluation,
// untracked frames included.
func (t *Tracker) ActiveComputed() *ReactiveNode {
	for i := len(t.frames) - 1; i >= 0; i-- {
		if n := t.frames[i].node; n != nil && n.kind == KindComputed {
			return n
		}
	}
	return nil
}

// CyclePath returns the chain of evaluating nodes from node back to
// itself, or nil when node is not being evaluated.
func (t *Tracker) CyclePath(node *ReactiveNode) []string {
	for i, f := range t.frames {
		if f.node != node {
			continue
		}

		var path []string
		for _, g := range t.frames[i:] {
			if g.node != nil {
				path = append(path, g.node.label)
			}
		}
		return append(path, node.label)
	}

	return nil
}
