// Copyright (c) The anchordeque Authors. All rights reserved.
// Licensed under the MIT License.

package deque

import "github.com/gopherlabs/anchordeque/internal/nodepool"

// node is a doubly-linked cell holding one element. Its definition lives in
// internal/nodepool so that the pool can reset a retired node's fields
// without this package needing to export them; left and right are mutated
// only by CompareAndSwap once the node is reachable from the anchor, and may
// be stored into directly only by whichever goroutine is about to publish
// the node (the pusher, or the pool handing it back out for reuse).
type node[T any] = nodepool.Node[T]
