// Copyright (c) The anchordeque Authors. All rights reserved.
// Licensed under the MIT License.

package deque

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/gopherlabs/anchordeque/internal/simsched"
)

// TestAdversarialPushInterleavings drives many actors' pushes, at both ends,
// through internal/simsched's rapid-seeded scheduler so that scheduler-chosen
// subsets of them race on the anchor CAS concurrently. This exercises the
// PushLeft/PushRight/stabilize races far more densely, seed for seed, than a
// pure stress test would: every rapid trial replays a specific, reproducible
// adversarial interleaving rather than whatever the Go scheduler happened to
// do.
func TestAdversarialPushInterleavings(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		d := New[int]()

		numActors := rapid.IntRange(2, 6).Draw(t, "numActors")
		opsPerActor := rapid.IntRange(1, 8).Draw(t, "opsPerActor")

		want := map[int]struct{}{}
		actors := make([][]simsched.Step, numActors)
		for i := range actors {
			pushRight := rapid.Bool().Draw(t, "pushRight")
			steps := make([]simsched.Step, opsPerActor)
			for j := range steps {
				v := i*1_000_000 + j + 1
				want[v] = struct{}{}
				steps[j] = func() {
					if pushRight {
						d.PushRight(v)
					} else {
						d.PushLeft(v)
					}
				}
			}
			actors[i] = steps
		}

		simsched.Run(t, actors)

		got := map[int]struct{}{}
		for {
			v, ok := d.TryPopRight()
			if !ok {
				break
			}
			_, dup := got[v]
			require.False(t, dup, "value %d drained more than once", v)
			got[v] = struct{}{}
		}

		require.Equal(t, want, got)
		require.True(t, d.IsEmpty())
		require.True(t, d.isStableLocked())
	})
}

// TestAdversarialPopInterleavings pre-seeds a deque single-threaded, then
// drives many actors' pops, at both ends, through the same scheduler. Each
// actor gets a pop budget generous enough that some of its final attempts
// are expected to observe an already-drained deque; the only requirement is
// that the successful attempts across all actors partition the pre-seeded
// set exactly.
func TestAdversarialPopInterleavings(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		d := New[int]()

		total := rapid.IntRange(1, 40).Draw(t, "total")
		for i := range total {
			d.PushRight(i + 1)
		}

		numActors := rapid.IntRange(2, 6).Draw(t, "numActors")
		budget := total/numActors + 4

		var mu sync.Mutex
		got := map[int]int{}

		actors := make([][]simsched.Step, numActors)
		for i := range actors {
			popRight := rapid.Bool().Draw(t, "popRight")
			steps := make([]simsched.Step, budget)
			for j := range steps {
				steps[j] = func() {
					var v int
					var ok bool
					if popRight {
						v, ok = d.TryPopRight()
					} else {
						v, ok = d.TryPopLeft()
					}
					if ok {
						mu.Lock()
						got[v]++
						mu.Unlock()
					}
				}
			}
			actors[i] = steps
		}

		simsched.Run(t, actors)

		require.True(t, d.IsEmpty())
		require.True(t, d.isStableLocked())

		sum := 0
		for v, c := range got {
			require.Equal(t, 1, c, "value %d observed %d times", v, c)
			require.GreaterOrEqual(t, v, 1)
			require.LessOrEqual(t, v, total)
			sum++
		}
		require.Equal(t, total, sum)
	})
}
