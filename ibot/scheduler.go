// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ibot

import (
	"container/heap"
	"math/big"

	"github.com/david-soloveichik/TBNExplorer2/reactions"
)

// reactionState tracks a reaction's current novelty ell(r) and imbalance
// k(r), recomputed only when its support intersects a newly assigned
// polymer.
type reactionState struct {
	ell        int64
	k          *big.Rat
	generation int
	alive      bool // false once ell reaches 0
}

// Scheduler runs the IBOT iteration over a fixed reaction set and exponent
// assignment.
type Scheduler struct {
	rs       []reactions.Reaction
	assign   *Assignment
	state    []reactionState
	invIndex [][]int // polymer index -> reactions whose support includes it
	pq       ratioHeap
	minTrace []*big.Rat // the non-decreasing sequence of mu_min values
}

// NewScheduler builds the inverted index and initial per-reaction state
// from the reaction set and starting assignment.
func NewScheduler(rs []reactions.Reaction, assign *Assignment) *Scheduler {
	s := &Scheduler{rs: rs, assign: assign}
	n := len(assign.mu)
	s.invIndex = make([][]int, n)
	s.state = make([]reactionState, len(rs))
	for ri, r := range rs {
		for p, v := range r.R {
			if v != 0 {
				s.invIndex[p] = append(s.invIndex[p], ri)
			}
		}
		s.recompute(ri)
	}
	heap.Init(&s.pq)
	for ri := range rs {
		s.pushIfAlive(ri)
	}
	return s
}

// recompute updates ell(r) and k(r) for reaction ri from the current
// assignment, bumping its generation so stale heap
// entries referencing the old generation are skipped on pop.
func (s *Scheduler) recompute(ri int) {
	r := s.rs[ri]
	var ell int64
	k := new(big.Rat)
	for p, v := range r.R {
		if v == 0 {
			continue
		}
		if s.assign.onTarget[p] {
			// on-target polymers are always assigned (mu=1); they contribute
			// to k(r) but never to ell(r).
			if v < 0 {
				k.Add(k, new(big.Rat).Mul(big.NewRat(-v, 1), s.assign.mu[p]))
			} else {
				k.Sub(k, new(big.Rat).Mul(big.NewRat(v, 1), s.assign.mu[p]))
			}
			continue
		}
		if s.assign.mu[p].Sign() == 0 {
			ell++
			continue
		}
		if v < 0 {
			k.Add(k, new(big.Rat).Mul(big.NewRat(-v, 1), s.assign.mu[p]))
		} else {
			k.Sub(k, new(big.Rat).Mul(big.NewRat(v, 1), s.assign.mu[p]))
		}
	}
	st := &s.state[ri]
	st.ell = ell
	st.k = k
	st.generation++
	st.alive = ell > 0
}

func (s *Scheduler) pushIfAlive(ri int) {
	st := s.state[ri]
	if !st.alive {
		return
	}
	ratio := new(big.Rat).Quo(st.k, big.NewRat(st.ell, 1))
	heap.Push(&s.pq, heapEntry{ratio: ratio, reaction: ri, generation: st.generation})
}

// Run iterates until no reaction survives, then marks every off-target
// polymer still unassigned as unreachable.
func (s *Scheduler) Run() {
	for {
		// pop until a fresh (non-stale) entry is found.
		var top *heapEntry
		for s.pq.Len() > 0 {
			e := heap.Pop(&s.pq).(heapEntry)
			if e.generation != s.state[e.reaction].generation || !s.state[e.reaction].alive {
				continue // stale: reaction changed since this entry was pushed
			}
			top = &e
			break
		}
		if top == nil {
			break
		}
		muMin := new(big.Rat).Set(s.state[top.reaction].k)
		muMin.Quo(muMin, big.NewRat(s.state[top.reaction].ell, 1))
		s.minTrace = append(s.minTrace, muMin)

		// collect every reaction currently at the minimum ratio by draining
		// equal-ratio entries off the heap as well.
		atMin := []int{top.reaction}
		for s.pq.Len() > 0 {
			peek := s.pq[0]
			if peek.generation != s.state[peek.reaction].generation || !s.state[peek.reaction].alive {
				heap.Pop(&s.pq)
				continue
			}
			if peek.ratio.Cmp(muMin) != 0 {
				break
			}
			heap.Pop(&s.pq)
			atMin = append(atMin, peek.reaction)
		}

		newlyAssigned := make(map[int]bool)
		for _, ri := range atMin {
			r := s.rs[ri]
			for p, v := range r.R {
				if v == 0 || s.assign.onTarget[p] {
					continue
				}
				if s.assign.mu[p].Sign() == 0 {
					s.assign.Assign(p, muMin)
					newlyAssigned[p] = true
				}
			}
		}

		// recompute only reactions whose support intersects a newly
		// assigned polymer.
		touched := make(map[int]bool)
		for p := range newlyAssigned {
			for _, ri := range s.invIndex[p] {
				touched[ri] = true
			}
		}
		for ri := range touched {
			s.recompute(ri)
			s.pushIfAlive(ri)
		}
	}

	for p := range s.assign.mu {
		if !s.assign.onTarget[p] && s.assign.mu[p].Sign() == 0 {
			s.assign.MarkUnreachable(p)
		}
	}
}

// MinTrace returns the sequence of mu_min values assigned across
// iterations, which must be non-decreasing.
func (s *Scheduler) MinTrace() []*big.Rat { return s.minTrace }
