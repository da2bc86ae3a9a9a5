// Copyright (c) The anchordeque Authors. All rights reserved.
// Licensed under the MIT License.

package nodepool_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gopherlabs/anchordeque/internal/nodepool"
)

func TestPoolGetAndRecycle(t *testing.T) {
	var p nodepool.Pool[string]

	n1 := p.Get("a")
	require.Equal(t, "a", n1.Value)
	require.Nil(t, n1.Left.Load())
	require.Nil(t, n1.Right.Load())

	n1.Left.Store(n1)
	p.Recycle(n1)

	n2 := p.Get("b")
	require.Equal(t, "b", n2.Value)
	require.Nil(t, n2.Left.Load(), "recycled node must have its links cleared before reuse")
}
