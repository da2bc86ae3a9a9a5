// Copyright (c) The anchordeque Authors. All rights reserved.
// Licensed under the MIT License.

package deque

import (
	"sync/atomic"

	"github.com/gopherlabs/anchordeque/internal/epoch"
	"github.com/gopherlabs/anchordeque/internal/nodepool"
	"github.com/rs/zerolog"
)

// Deque is a lock-free, concurrent, double-ended queue of T. The zero value
// is not ready to use; construct one with New.
type Deque[T any] struct {
	anchor atomic.Pointer[anchor[T]]
	pool   nodepool.Pool[T]
	epoch  epoch.Manager
}

// Option configures a Deque at construction time.
type Option[T any] func(*Deque[T])

// WithLogger attaches a zerolog.Logger that receives low-volume diagnostic
// events about epoch advancement and node retirement. It never affects the
// push/pop CAS retry loop itself.
func WithLogger[T any](logger zerolog.Logger) Option[T] {
	return func(d *Deque[T]) {
		d.epoch.SetLogger(logger)
	}
}

// New creates an empty Deque.
func New[T any](opts ...Option[T]) *Deque[T] {
	d := &Deque[T]{}
	d.anchor.Store(emptyAnchor[T]())
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// IsEmpty reports whether the deque held no elements at the instant of the
// anchor load. It is a best-effort, racy snapshot: the result may already be
// stale by the time the caller observes it, and carries no guarantee about
// any operation that follows. Invariant (1) (anchor.left == nil iff
// anchor.right == nil) means testing left alone is equivalent to testing
// right; this implementation tests left by convention.
func (d *Deque[T]) IsEmpty() bool {
	g := d.epoch.Pin()
	defer g.Unpin()

	return d.anchor.Load().isEmpty()
}

// PushLeft inserts value at the left end of the deque. It never fails.
func (d *Deque[T]) PushLeft(value T) {
	g := d.epoch.Pin()
	defer g.Unpin()

	n := d.pool.Get(value)
	for {
		a := d.anchor.Load()
		switch {
		case a.isEmpty():
			next := &anchor[T]{left: n, right: n, status: a.status}
			if d.anchor.CompareAndSwap(a, next) {
				return
			}
		case a.status == statusStable:
			n.Right.Store(a.left)
			next := &anchor[T]{left: n, right: a.right, status: statusLPush}
			if d.anchor.CompareAndSwap(a, next) {
				d.stabilizeLeft(next)
				return
			}
		default:
			d.stabilize(a)
		}
	}
}

// PushRight inserts value at the right end of the deque. It never fails.
func (d *Deque[T]) PushRight(value T) {
	g := d.epoch.Pin()
	defer g.Unpin()

	n := d.pool.Get(value)
	for {
		a := d.anchor.Load()
		switch {
		case a.isEmpty():
			next := &anchor[T]{left: n, right: n, status: a.status}
			if d.anchor.CompareAndSwap(a, next) {
				return
			}
		case a.status == statusStable:
			n.Left.Store(a.right)
			next := &anchor[T]{left: a.left, right: n, status: statusRPush}
			if d.anchor.CompareAndSwap(a, next) {
				d.stabilizeRight(next)
				return
			}
		default:
			d.stabilize(a)
		}
	}
}

// TryPopLeft removes and returns the leftmost value. ok is false, and value
// is the zero value of T, if the deque was observed empty.
func (d *Deque[T]) TryPopLeft() (value T, ok bool) {
	g := d.epoch.Pin()
	defer g.Unpin()

	for {
		a := d.anchor.Load()
		if a.isEmpty() {
			var zero T
			return zero, false
		}
		if a.left == a.right {
			next := emptyAnchor[T]()
			if d.anchor.CompareAndSwap(a, next) {
				v := a.left.Value
				d.retireNode(a.left)
				return v, true
			}
			continue
		}
		if a.status != statusStable {
			d.stabilize(a)
			continue
		}
		next := &anchor[T]{left: a.left.Right.Load(), right: a.right, status: a.status}
		if d.anchor.CompareAndSwap(a, next) {
			v := a.left.Value
			d.retireNode(a.left)
			return v, true
		}
	}
}

// TryPopRight removes and returns the rightmost value. ok is false, and
// value is the zero value of T, if the deque was observed empty.
func (d *Deque[T]) TryPopRight() (value T, ok bool) {
	g := d.epoch.Pin()
	defer g.Unpin()

	for {
		a := d.anchor.Load()
		if a.isEmpty() {
			var zero T
			return zero, false
		}
		if a.left == a.right {
			next := emptyAnchor[T]()
			if d.anchor.CompareAndSwap(a, next) {
				v := a.right.Value
				d.retireNode(a.right)
				return v, true
			}
			continue
		}
		if a.status != statusStable {
			d.stabilize(a)
			continue
		}
		next := &anchor[T]{left: a.left, right: a.right.Left.Load(), status: a.status}
		if d.anchor.CompareAndSwap(a, next) {
			v := a.right.Value
			d.retireNode(a.right)
			return v, true
		}
	}
}

// retireNode hands a detached node to the epoch manager, which recycles it
// through the node pool once no pinned operation can still observe it.
func (d *Deque[T]) retireNode(n *node[T]) {
	d.epoch.Retire(func() {
		d.pool.Recycle(n)
	})
}
