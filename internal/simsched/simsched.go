// Copyright (c) The anchordeque Authors. All rights reserved.
// Licensed under the MIT License.

// Package simsched drives several independent step sequences ("actors")
// through a deterministic, rapid-seeded adversarial schedule, grounded in
// the discrete-event simulator a sibling scatter-gather scheduler uses to
// estimate concurrent task timing: a min-heap of next virtual-time events
// (github.com/addrummond/heap) decides which actor runs next, and a FIFO
// (github.com/gammazero/deque) holds actors whose next event ties at the
// same virtual tick so their arrival order, and then their execution order,
// can be drawn from pgregory.net/rapid the same way the simulator permutes
// concurrent events.
//
// Unlike that simulator, which only ever advances one event at a time,
// simsched actually launches every actor tied for the next tick as
// concurrent goroutines. That turns "pick an adversarial interleaving" from
// a modeling exercise into real, scheduler-chosen concurrent execution
// against the system under test, which is what lets it exercise the
// anchor-CAS races a single goroutine never could.
package simsched

import (
	"cmp"
	"sync"

	"github.com/addrummond/heap"
	gddeque "github.com/gammazero/deque"
	"pgregory.net/rapid"
)

// Step is one unit of work performed by an actor, typically a single push or
// pop call against the system under test.
type Step func()

type tickEvent struct {
	tick  int64
	actor int
}

func (e *tickEvent) Cmp(o *tickEvent) int {
	return cmp.Compare(e.tick, o.tick)
}

// Run executes every step of every actor exactly once, in an order chosen by
// t. Actors whose next step falls due at the same virtual tick run as
// concurrent goroutines; actors due at distinct ticks run alone. Returns
// once every actor has exhausted its steps.
func Run(t *rapid.T, actors [][]Step) {
	progress := make([]int, len(actors))

	var h heap.Heap[tickEvent, heap.Min]
	var pending int

	schedule := func(actorIdx int, tick int64) {
		if progress[actorIdx] >= len(actors[actorIdx]) {
			return
		}
		heap.PushOrderable(&h, tickEvent{tick: tick, actor: actorIdx})
		pending++
	}

	jitter := func() int64 {
		return rapid.Int64Range(0, 2).Draw(t, "simsched/jitter")
	}

	for i := range actors {
		schedule(i, jitter())
	}

	for pending > 0 {
		first, ok := heap.PopOrderable(&h)
		if !ok {
			break
		}
		pending--
		var arrival gddeque.Deque[int]
		arrival.PushBack(first.actor)
		batchTick := first.tick
		for {
			next, ok := heap.Peek(&h)
			if !ok || next.tick != batchTick {
				break
			}
			_, _ = heap.PopOrderable(&h)
			pending--
			arrival.PushBack(next.actor)
		}

		n := arrival.Len()
		order := make([]int, n)
		for i := range order {
			order[i] = arrival.PopFront()
		}
		if n > 1 {
			order = rapid.Permutation(order).Draw(t, "simsched/order")
		}

		var wg sync.WaitGroup
		wg.Add(len(order))
		for _, actorIdx := range order {
			actorIdx := actorIdx
			step := actors[actorIdx][progress[actorIdx]]
			go func() {
				defer wg.Done()
				step()
			}()
		}
		wg.Wait()

		for _, actorIdx := range order {
			progress[actorIdx]++
			schedule(actorIdx, batchTick+jitter())
		}
	}
}
