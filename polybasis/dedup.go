// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package polybasis

import (
	"encoding/binary"
	"hash/fnv"
	"sync"

	"golang.org/x/sync/errgroup"
)

// shardedDedup deduplicates projected polymer vectors exactly, sharding by
// a hash of the vector's byte representation so hundreds of thousands of
// vectors can be inserted and merged without one global lock becoming the
// bottleneck.
type shardedDedup struct {
	shards []*dedupShard
}

type dedupShard struct {
	mu   sync.Mutex
	seen map[string][]int64 // keyed by raw byte encoding; value is the canonical vector
}

func newShardedDedup(n int) *shardedDedup {
	d := &shardedDedup{shards: make([]*dedupShard, n)}
	for i := range d.shards {
		d.shards[i] = &dedupShard{seen: make(map[string][]int64)}
	}
	return d
}

func vectorKey(v []int64) string {
	b := make([]byte, 8*len(v))
	for i, x := range v {
		binary.BigEndian.PutUint64(b[8*i:], uint64(x))
	}
	return string(b)
}

func (d *shardedDedup) shardFor(key string) *dedupShard {
	h := fnv.New32a()
	h.Write([]byte(key))
	return d.shards[int(h.Sum32())%len(d.shards)]
}

func (d *shardedDedup) add(v []int64) {
	key := vectorKey(v)
	s := d.shardFor(key)
	s.mu.Lock()
	if _, exists := s.seen[key]; !exists {
		cp := make([]int64, len(v))
		copy(cp, v)
		s.seen[key] = cp
	}
	s.mu.Unlock()
}

// collect flattens every shard's unique vectors. Shards are merged
// concurrently into per-shard slices (the only parallel step) and then
// concatenated in shard-index order, which is itself deterministic; the
// caller performs the final stable lexicographic sort.
func (d *shardedDedup) collect() [][]int64 {
	partials := make([][][]int64, len(d.shards))
	var g errgroup.Group
	for i, s := range d.shards {
		i, s := i, s
		g.Go(func() error {
			out := make([][]int64, 0, len(s.seen))
			for _, v := range s.seen {
				out = append(out, v)
			}
			partials[i] = out
			return nil
		})
	}
	_ = g.Wait()

	var total int
	for _, p := range partials {
		total += len(p)
	}
	merged := make([][]int64, 0, total)
	for _, p := range partials {
		merged = append(merged, p...)
	}
	return merged
}
