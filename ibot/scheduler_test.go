// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ibot

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/david-soloveichik/TBNExplorer2/reactions"
)

func Test_assignment01(tst *testing.T) {

	chk.PrintTitle("assignment01")

	a := NewAssignment([]bool{true, false, false})
	if !a.IsAssigned(0) {
		tst.Fatal("expected on-target polymer to be assigned")
	}
	if a.IsAssigned(1) || a.IsAssigned(2) {
		tst.Fatal("expected off-target polymers to start unassigned")
	}
	if a.Mu(0).Cmp(unassigned) == 0 {
		tst.Fatal("on-target mu should be 1, not the unassigned sentinel")
	}
}

func Test_scheduler01_single_reaction(tst *testing.T) {

	chk.PrintTitle("scheduler01_single_reaction")

	// on-target polymer 0, off-targets 1 and 2; one reaction consumes one
	// copy of polymer 0 to produce two copies of polymer 1, leaving polymer
	// 2 outside every reaction's support (hence unreachable).
	rs := []reactions.Reaction{
		{R: []int64{-1, 2, 0}},
	}
	assign := NewAssignment([]bool{true, false, false})
	sched := NewScheduler(rs, assign)
	sched.Run()

	if !assign.IsAssigned(1) {
		tst.Fatal("expected polymer 1 to be assigned an exponent")
	}
	want := "1"
	if assign.Mu(1).RatString() != want {
		tst.Fatalf("expected mu(1) = %s, got %s", want, assign.Mu(1).RatString())
	}
	if assign.Reachable(2) {
		tst.Fatal("expected polymer 2 (outside every reaction) to be unreachable")
	}

	trace := sched.MinTrace()
	if len(trace) == 0 {
		tst.Fatal("expected a non-empty min-ratio trace")
	}
	for i := 1; i < len(trace); i++ {
		if trace[i].Cmp(trace[i-1]) < 0 {
			tst.Fatalf("min-ratio trace must be non-decreasing, got %v then %v", trace[i-1], trace[i])
		}
	}
}

func Test_scheduler02_two_independent_reactions(tst *testing.T) {

	chk.PrintTitle("scheduler02_two_independent_reactions")

	// polymer 0 is on-target; two reactions independently assign polymers
	// 1 and 2 at different ratios, exercising the incremental-recompute
	// path (only the touched reaction's state is refreshed after each
	// assignment).
	rs := []reactions.Reaction{
		{R: []int64{-1, 1, 0}}, // p0 -> p1, ratio 1
		{R: []int64{-2, 0, 1}}, // 2 p0 -> p2, ratio 2
	}
	assign := NewAssignment([]bool{true, false, false})
	sched := NewScheduler(rs, assign)
	sched.Run()

	if !assign.IsAssigned(1) || !assign.IsAssigned(2) {
		tst.Fatal("expected both off-target polymers to be assigned")
	}
	if assign.Mu(2).Cmp(assign.Mu(1)) <= 0 {
		tst.Fatalf("expected mu(2) > mu(1), got mu(1)=%v mu(2)=%v", assign.Mu(1), assign.Mu(2))
	}
	if assign.Mu(1).RatString() != "1/1" {
		tst.Fatalf("expected mu(1) = 1, got %s", assign.Mu(1).RatString())
	}
	if assign.Mu(2).RatString() != "2" {
		tst.Fatalf("expected mu(2) = 2, got %s", assign.Mu(2).RatString())
	}
}
