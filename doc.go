// Copyright (c) The anchordeque Authors. All rights reserved.
// Licensed under the MIT License.

// Package deque provides a lock-free, concurrent, double-ended queue.
//
// Every pair of end pointers and a short-lived push status are published
// together through a single atomic word, the anchor. Pushes and pops at
// either end update the anchor and node links purely through
// compare-and-swap retry loops, and a goroutine that stalls mid-push never
// blocks any other goroutine's progress, because any observer of a
// non-stable anchor helps finish the push itself. The epoch bookkeeping
// around each operation (see Node Reclamation) is not lock-free: pinning,
// retiring a popped node and advancing the epoch each take short internal
// mutexes.
//
// # Concurrency Usage
//
// A *Deque[T] is safe for concurrent use by any number of goroutines calling
// PushLeft, PushRight, TryPopLeft, TryPopRight, and IsEmpty without external
// synchronization. There is no FIFO guarantee between the two ends: a
// PushLeft racing a PushRight may linearize in either order. Repeated pushes
// at one end followed by pops from the *other* end observe FIFO order; pops
// from the *same* end observe LIFO order with respect to that end's push
// order.
//
// # Node Reclamation
//
// Detached nodes are not freed immediately on pop. They are handed to an
// internal epoch-based reclamation scheme (internal/epoch) that recycles
// them through a sync.Pool-backed allocator (internal/nodepool) only once no
// concurrently pinned operation could still be holding a stale reference to
// them. This keeps the allocator off the hot path without reintroducing the
// ABA hazard that naive address reuse would create.
//
// # Logging
//
// By default a Deque performs no logging. WithLogger attaches a
// github.com/rs/zerolog.Logger that receives low-volume diagnostic events
// about epoch advancement and retirement batch sizes; nothing on the
// push/pop CAS retry loop itself ever logs.
package deque
