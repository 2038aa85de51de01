package internal

import "go.uber.org/zap"

type Computed struct {
	*ReactiveNode

	equal EqualFunc

	compute func() any
}

func (r *Runtime) NewComputed(compute func() any, opts NodeOptions) *Computed {
	c := &Computed{
		ReactiveNode: r.NewNode(KindComputed, opts),
		equal:        opts.Equal,
		compute:      compute,
	}
	if c.equal == nil {
		c.equal = isEqual
	}

	// never evaluated: the first read always computes
	c.dirty = true
	c.refresh = c.update

	return c
}

// Read brings the computed up to date, tracks it, and returns its value.
func (c *Computed) Read() any {
	c.update()
	c.runtime.tracker.Track(c.ReactiveNode)

	return c.value
}

// update recomputes the value only if a dependency actually changed.
func (c *Computed) update() {
	r := c.runtime

	if path := r.tracker.CyclePath(c.ReactiveNode); path != nil {
		r.logger.Warn("cyclic dependency detected", zap.Strings("path", path))
		panic(&CyclicDependencyError{Path: path})
	}

	epoch := r.scheduler.Epoch()
	if c.hasValue && !c.dirty && c.lastCleanEpoch == epoch {
		return
	}

	// a failed evaluation still leaves the node clean, so the next write
	// reaches its consumers again; the epoch is left behind and the next
	// read polls once more
	defer func() { c.dirty = false }()

	if !c.hasValue || c.pollDeps() {
		c.recompute()
	}

	c.lastCleanEpoch = epoch
}

func (c *Computed) recompute() {
	r := c.runtime

	f := r.tracker.Push(c.ReactiveNode)
	value := func() any {
		defer r.tracker.Pop(f)
		return c.compute()
	}()

	c.replaceDeps(f.reads)

	changed := !c.hasValue || !c.equal(c.value, value)
	if changed {
		c.value = value
		c.hasValue = true
		c.version++
	}

	r.observer.ComputedEvaluated(changed)
}
