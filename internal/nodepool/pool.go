// Copyright (c) The anchordeque Authors. All rights reserved.
// Licensed under the MIT License.

package nodepool

import "sync"

// allocPool is a minimal type-safe wrapper over sync.Pool, following the
// same pattern a sibling non-blocking queue implementation uses for its node
// pool: store via sync.Pool.Put, retrieve via a type assertion that yields
// the zero value (nil, for pointer types) on a pool miss.
type allocPool[T any] struct {
	inner sync.Pool
}

func (p *allocPool[T]) get() T {
	v, _ := p.inner.Get().(T)
	return v
}

func (p *allocPool[T]) put(v T) {
	p.inner.Put(v)
}
