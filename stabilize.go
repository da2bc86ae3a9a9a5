// Copyright (c) The anchordeque Authors. All rights reserved.
// Licensed under the MIT License.

package deque

// stabilize dispatches a non-stable anchor to the matching stabilizer. Any
// goroutine that observes a non-stable anchor calls this to help finish the
// in-progress push before retrying its own operation; this helping is what
// makes the deque lock-free rather than merely obstruction-free. Stable
// anchors are handled defensively, though callers are expected to check
// status before calling.
func (d *Deque[T]) stabilize(a *anchor[T]) {
	switch a.status {
	case statusRPush:
		d.stabilizeRight(a)
	case statusLPush:
		d.stabilizeLeft(a)
	case statusStable:
		// Nothing to do; callers are expected to avoid this case.
	default:
		panic(errInvalidStatus)
	}
}

// stabilizeRight repairs the stale forward link left behind by a PushRight
// that has published its new right-end node but not yet linked the previous
// right-end node forward to it.
func (d *Deque[T]) stabilizeRight(a *anchor[T]) {
	if d.anchor.Load() != a {
		return
	}

	n := a.right
	p := n.Left.Load()
	pNext := p.Right.Load()

	if pNext != n {
		// p's forward link is stale. Re-check that a is still live before
		// touching p: if the anchor has moved on, a pop may already have
		// detached n, and p may no longer be its correct predecessor.
		if d.anchor.Load() != a {
			return
		}
		// A failed CAS here is benign: it means another helper already
		// advanced p.Right on a's behalf.
		p.Right.CompareAndSwap(pNext, n)
	}

	// A failed CAS here just means another helper already stabilized a; the
	// superseded anchor instance, win or lose, is simply left for the
	// garbage collector, since anchors are never pooled.
	d.anchor.CompareAndSwap(a, a.withStatus(statusStable))
}

// stabilizeLeft is the mirror of stabilizeRight.
func (d *Deque[T]) stabilizeLeft(a *anchor[T]) {
	if d.anchor.Load() != a {
		return
	}

	n := a.left
	p := n.Right.Load()
	pPrev := p.Left.Load()

	if pPrev != n {
		if d.anchor.Load() != a {
			return
		}
		p.Left.CompareAndSwap(pPrev, n)
	}

	d.anchor.CompareAndSwap(a, a.withStatus(statusStable))
}
