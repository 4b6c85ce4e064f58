// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ibot

import (
	"container/heap"
	"math/big"
)

// heapEntry is one (ratio, reaction) candidate in the min-ratio priority
// queue. generation must match the reaction's current generation at pop
// time or the entry is stale and is skipped.
type heapEntry struct {
	ratio      *big.Rat
	reaction   int
	generation int
}

// ratioHeap is a container/heap min-heap ordered by exact rational
// comparison, with ties broken by reaction index for determinism.
type ratioHeap []heapEntry

func (h ratioHeap) Len() int { return len(h) }
func (h ratioHeap) Less(i, j int) bool {
	c := h[i].ratio.Cmp(h[j].ratio)
	if c != 0 {
		return c < 0
	}
	return h[i].reaction < h[j].reaction
}
func (h ratioHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *ratioHeap) Push(x interface{}) {
	*h = append(*h, x.(heapEntry))
}
func (h *ratioHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

var _ heap.Interface = (*ratioHeap)(nil)
