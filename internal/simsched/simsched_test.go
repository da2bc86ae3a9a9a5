// Copyright (c) The anchordeque Authors. All rights reserved.
// Licensed under the MIT License.

package simsched_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/gopherlabs/anchordeque/internal/simsched"
)

// TestRunExecutesEveryStepExactlyOnce checks the scheduling mechanics in
// isolation, independent of any system under test: regardless of how rapid
// chooses jitter and tie-break order, every actor's steps run, in that
// actor's own order, exactly once each.
func TestRunExecutesEveryStepExactlyOnce(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numActors := rapid.IntRange(1, 8).Draw(t, "numActors")
		stepsPerActor := rapid.IntRange(0, 10).Draw(t, "stepsPerActor")

		var mu sync.Mutex
		order := make([][]int, numActors)
		var total atomic.Int64

		actors := make([][]simsched.Step, numActors)
		for i := range actors {
			i := i
			steps := make([]simsched.Step, stepsPerActor)
			for j := range steps {
				j := j
				steps[j] = func() {
					mu.Lock()
					order[i] = append(order[i], j)
					mu.Unlock()
					total.Add(1)
				}
			}
			actors[i] = steps
		}

		simsched.Run(t, actors)

		require.Equal(t, int64(numActors*stepsPerActor), total.Load())
		for i, seq := range order {
			var want []int
			for j := 0; j < stepsPerActor; j++ {
				want = append(want, j)
			}
			require.Equal(t, want, seq, "actor %d did not run its steps in order", i)
		}
	})
}
