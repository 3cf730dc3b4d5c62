package vrp

import "math"

// greedyInsert inserts each removed node at its single cheapest feasible
// position, cheapest node first. A node is left dropped, rather than
// inserted, whenever its cheapest feasible slot costs at least as much
// as its own drop penalty — the solver should only serve a site when the
// marginal routing cost is less than its net contribution (spec §4.4).
func greedyInsert(p Problem, sol Solution, removed []int) Solution {
	if len(removed) == 0 {
		return sol
	}
	nodes := removed
	for len(nodes) > 0 {
		bestPlan, bestPos, bestNode := -1, -1, 0
		bestCost := math.MaxInt64
		for ni, idx := range nodes {
			for vi, pl := range sol.Plans {
				for pos := 0; pos <= len(pl.Order); pos++ {
					if !feasibleAddAt(p, pl, idx, pos) {
						continue
					}
					c := deltaCostInsert(p, pl, idx, pos)
					if c < bestCost {
						bestCost = c
						bestPlan = vi
						bestPos = pos
						bestNode = ni
					}
				}
			}
		}
		if bestPlan == -1 {
			nodes = nodes[1:] // no feasible slot anywhere; leave it dropped
			continue
		}
		if bestCost >= p.Nodes[nodes[bestNode]].DropPenaltyCents {
			nodes = append(nodes[:bestNode], nodes[bestNode+1:]...)
			continue
		}
		insertAt(&sol.Plans[bestPlan], nodes[bestNode], bestPos)
		nodes = append(nodes[:bestNode], nodes[bestNode+1:]...)
	}
	sol.Cost = cost(p, sol)
	return sol
}

// regretInsert uses regret-2 insertion: at each step, insert the node
// whose gap between its best and second-best feasible position is
// largest, since deferring it risks losing the second-best slot too.
func regretInsert(p Problem, sol Solution, removed []int) Solution {
	if len(removed) == 0 {
		return sol
	}
	nodes := removed
	for len(nodes) > 0 {
		bestNode, bestPlan, bestPos := -1, -1, -1
		bestRegret := -1.0
		bestFirst := math.MaxInt64
		for ni, idx := range nodes {
			first, second := math.MaxInt64, math.MaxInt64
			fp, fpos := -1, -1
			for vi, pl := range sol.Plans {
				for pos := 0; pos <= len(pl.Order); pos++ {
					if !feasibleAddAt(p, pl, idx, pos) {
						continue
					}
					c := deltaCostInsert(p, pl, idx, pos)
					if c < first {
						second = first
						first = c
						fp = vi
						fpos = pos
					} else if c < second {
						second = c
					}
				}
			}
			if first == math.MaxInt64 {
				continue
			}
			regret := 0.0
			if second != math.MaxInt64 {
				regret = float64(second - first)
			}
			if regret > bestRegret || (bestNode == -1) {
				bestRegret = regret
				bestNode = ni
				bestPlan = fp
				bestPos = fpos
				bestFirst = first
			}
		}
		if bestNode == -1 {
			nodes = nodes[1:]
			continue
		}
		if bestFirst >= p.Nodes[nodes[bestNode]].DropPenaltyCents {
			nodes = append(nodes[:bestNode], nodes[bestNode+1:]...)
			continue
		}
		insertAt(&sol.Plans[bestPlan], nodes[bestNode], bestPos)
		nodes = append(nodes[:bestNode], nodes[bestNode+1:]...)
	}
	sol.Cost = cost(p, sol)
	return sol
}

func insertAt(pl *RoutePlan, nodeIdx, pos int) {
	if pos == len(pl.Order) {
		pl.Order = append(pl.Order, nodeIdx)
		return
	}
	pl.Order = append(pl.Order[:pos+1], pl.Order[pos:]...)
	pl.Order[pos] = nodeIdx
}
