// Copyright (c) The anchordeque Authors. All rights reserved.
// Licensed under the MIT License.

// Package epoch implements epoch-based reclamation, the external
// collaborator a lock-free data structure needs so that detached node
// storage can be recycled without reintroducing the ABA hazard that address
// reuse would otherwise create. The scheme follows the classic three-epoch
// design: a global epoch counter, a registry of pinned participants, and one
// retirement bucket per epoch class. A bucket is only drained once every
// currently pinned participant has observed the epoch has moved on twice,
// which guarantees nothing still holds a pointer into it.
//
// Bookkeeping here never waits for another participant: advancing the
// global epoch and draining a bucket are both best-effort and are simply
// skipped if another goroutine advanced first or some pinned participant has
// not yet observed the current epoch. The participant registry and each
// retirement bucket are guarded by short-held mutexes, which Pin, Unpin and
// Retire take.
package epoch

import (
	"sync"
	"sync/atomic"

	"github.com/gammazero/deque"
	"github.com/rs/zerolog"
)

const numBuckets = 3

// Manager owns the global epoch, the participant registry, and the
// per-epoch retirement buckets. The zero value is ready to use.
type Manager struct {
	global  atomic.Uint64
	logger  zerolog.Logger
	slotsMu sync.Mutex
	slots   []*slot

	bucketsMu [numBuckets]sync.Mutex
	buckets   [numBuckets]deque.Deque[func()]
}

type slot struct {
	inUse  atomic.Bool
	active atomic.Bool
	epoch  atomic.Uint64
}

// SetLogger attaches a zerolog.Logger that receives low-volume diagnostic
// events (epoch advancement, retirement batch sizes). A zero Logger, the
// default, discards everything.
func (m *Manager) SetLogger(logger zerolog.Logger) {
	m.logger = logger
}

// Guard represents one pinned participation in the epoch protocol. Callers
// must call Unpin exactly once, typically via defer, before returning from
// the operation that created the Guard.
type Guard struct {
	m *Manager
	s *slot
}

// Pin registers the calling goroutine as a participant protecting the
// current global epoch for the duration of one deque operation. It must be
// called before the operation's first anchor load.
func (m *Manager) Pin() Guard {
	s := m.acquireSlot()
	s.epoch.Store(m.global.Load())
	s.active.Store(true)
	return Guard{m: m, s: s}
}

// Unpin releases the participation registered by Pin. The manager may use
// this opportunity to try to advance the global epoch.
func (g Guard) Unpin() {
	g.s.active.Store(false)
	g.m.tryAdvance()
	g.s.inUse.Store(false)
}

// acquireSlot finds a free participant slot, growing the registry under a
// mutex if none is available. Growth is rare in steady state: the registry
// only grows past the high-water mark of concurrently pinned goroutines.
func (m *Manager) acquireSlot() *slot {
	m.slotsMu.Lock()
	for _, s := range m.slots {
		if s.inUse.CompareAndSwap(false, true) {
			m.slotsMu.Unlock()
			return s
		}
	}
	s := &slot{}
	s.inUse.Store(true)
	m.slots = append(m.slots, s)
	m.slotsMu.Unlock()
	return s
}

// Retire schedules reclaim to run once no participant can still be pinned
// against the epoch in which retirement happened. reclaim typically returns
// a detached node to internal/nodepool; it must not itself call back into
// the deque.
func (m *Manager) Retire(reclaim func()) {
	e := m.global.Load()
	bucket := e % numBuckets
	m.bucketsMu[bucket].Lock()
	m.buckets[bucket].PushBack(reclaim)
	n := m.buckets[bucket].Len()
	m.bucketsMu[bucket].Unlock()
	m.logger.Debug().Uint64("epoch", e).Int("bucket_len", n).Msg("epoch: retired object")
}

// tryAdvance bumps the global epoch if every pinned participant has already
// observed it, then drains the bucket that is now guaranteed unreachable:
// the one two epochs behind the new global epoch. It is a no-op, not an
// error, if another goroutine wins the race to advance first.
func (m *Manager) tryAdvance() {
	current := m.global.Load()

	m.slotsMu.Lock()
	slots := m.slots
	m.slotsMu.Unlock()

	for _, s := range slots {
		if s.inUse.Load() && s.active.Load() && s.epoch.Load() != current {
			return
		}
	}

	if !m.global.CompareAndSwap(current, current+1) {
		return
	}
	m.logger.Debug().Uint64("epoch", current+1).Msg("epoch: advanced")

	drain := (current + 1 + 1) % numBuckets
	m.bucketsMu[drain].Lock()
	pending := m.buckets[drain]
	m.buckets[drain] = deque.Deque[func()]{}
	m.bucketsMu[drain].Unlock()

	n := pending.Len()
	for i := 0; i < n; i++ {
		reclaim := pending.PopFront()
		reclaim()
	}
	if n > 0 {
		m.logger.Debug().Int("count", n).Msg("epoch: drained retirement bucket")
	}
}
