// Package vrp solves one (depot, weekday) capacitated VRP sub-problem
// with optional stops, a cumulative-time dimension, and a fixed vehicle
// activation cost (C4). The search is an ALNS-style metaheuristic:
// random/Shaw removal, greedy/regret-2 insertion, a simulated-annealing
// acceptance criterion, and a 2-opt / Or-opt / cross-exchange / 2-opt*
// local-search polish, with roulette-wheel operator-weight selection.
package vrp

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"gpsnav/internal/progress"
)

// Node is one visit-node to route. The depot is not a Node: it is row and
// column 0 of the arc matrices, and Nodes[i] sits at matrix index i+1.
type Node struct {
	SiteRef          int
	VisitIndex       int
	DemandLbs        int
	ServiceMinutes   int
	DropPenaltyCents int
}

// Problem is one (depot, weekday) sub-problem. ArcCostCents and
// ArcTimeMin are produced by internal/geo and are the same dimension as
// len(Nodes)+1 (index 0 is the depot).
type Problem struct {
	Nodes                 []Node
	NumVehicles           int
	CapacityLbs           int
	MaxMinutes            int
	SlackMinutesPerNode   int
	FixedVehicleCostCents int
	ArcCostCents          [][]int
	ArcTimeMin            [][]int

	IterationsLimit         int
	InitialTemp             float64
	Cooling                 float64
	InitialRemovalWeights   []float64 // [random, shaw]
	InitialInsertionWeights []float64 // [greedy, regret2]
}

// RoutePlan is one vehicle's ordered stop list, as indices into
// Problem.Nodes (1-based node indices in the matrices; Order holds
// 0-based indices into Nodes, matrix index is order+1).
type RoutePlan struct {
	VehicleIndex int
	Order        []int
}

// Solution is a full assignment of nodes to vehicle plans; unassigned
// nodes are implicitly dropped.
type Solution struct {
	Plans []RoutePlan
	Cost  int
}

// WeightSnapshot records operator weights at a point in the search, for
// diagnostics/reporting.
type WeightSnapshot struct {
	Iteration int
	Removal   [2]float64
	Insertion [2]float64
}

// Metrics summarizes one Solve call.
type Metrics struct {
	Iterations            int
	Improvements          int
	AcceptedWorse         int
	BestCostCents         int
	FinalCostCents        int
	FinalRemovalWeights   [2]float64
	FinalInsertionWeights [2]float64
	Snapshots             []WeightSnapshot
}

// Solve runs the ALNS search within timeBudget (or until IterationsLimit,
// whichever comes first) and returns the best solution found. progress,
// if non-nil, receives a best-cost snapshot roughly every snapshotEvery
// iterations; Solve never blocks on a slow or absent receiver.
func Solve(p Problem, seed int64, timeBudget time.Duration, prog progress.EventBroker, depotKey string, weekday int) (Solution, Metrics) {
	if len(p.Nodes) == 0 {
		return Solution{Plans: emptyPlans(p.NumVehicles)}, Metrics{}
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	curr := greedySeed(p)
	best := curr

	remW := []float64{1, 1}
	insW := []float64{1, 1}
	if len(p.InitialRemovalWeights) == 2 {
		remW = append([]float64(nil), p.InitialRemovalWeights...)
	}
	if len(p.InitialInsertionWeights) == 2 {
		insW = append([]float64(nil), p.InitialInsertionWeights...)
	}
	temp := 1.0
	if p.InitialTemp > 0 {
		temp = p.InitialTemp
	}
	cool := 0.995
	if p.Cooling > 0 && p.Cooling < 1 {
		cool = p.Cooling
	}

	m := Metrics{BestCostCents: best.Cost}
	deadline := time.Now().Add(timeBudget)
	const snapshotEvery = 25

	for time.Now().Before(deadline) {
		m.Iterations++
		if p.IterationsLimit > 0 && m.Iterations >= p.IterationsLimit {
			break
		}
		k := 1 + rng.Intn(3)
		op := selectOp(remW, rng)
		ip := selectOp(insW, rng)

		prev := curr
		var removed []int
		switch op {
		case 0:
			removed = pickRandomNodes(curr, k, rng)
		case 1:
			removed = shawRemoval(p, curr, k, rng)
		}
		curr = removeNodes(curr, removed)
		switch ip {
		case 0:
			curr = greedyInsert(p, curr, removed)
		case 1:
			curr = regretInsert(p, curr, removed)
		}
		curr = twoOptImprove(p, curr)
		curr = orOptImprove(p, curr)
		curr = crossExchangeImprove(p, curr)
		curr = twoOptStarImprove(p, curr)
		curr.Cost = cost(p, curr)

		delta := curr.Cost - best.Cost
		accept := delta < 0 || rng.Float64() < math.Exp(-float64(delta)/(temp+1e-9))
		if accept {
			if curr.Cost < best.Cost {
				best = curr
				remW[op] += 0.1
				insW[ip] += 0.1
				m.Improvements++
				m.BestCostCents = best.Cost
			} else {
				remW[op] += 0.01
				insW[ip] += 0.01
				m.AcceptedWorse++
			}
		} else {
			curr = prev
			remW[op] = math.Max(0.01, remW[op]*0.999)
			insW[ip] = math.Max(0.01, insW[ip]*0.999)
		}
		temp *= cool

		if m.Iterations%snapshotEvery == 0 {
			snap := WeightSnapshot{Iteration: m.Iterations, Removal: [2]float64{remW[0], remW[1]}, Insertion: [2]float64{insW[0], insW[1]}}
			m.Snapshots = append(m.Snapshots, snap)
			if prog != nil {
				prog.Publish(depotKey, progress.Event{
					DepotKey:  depotKey,
					Weekday:   weekday,
					Iteration: m.Iterations,
					BestCost:  best.Cost,
				})
			}
		}
	}
	m.FinalCostCents = best.Cost
	m.FinalRemovalWeights = [2]float64{remW[0], remW[1]}
	m.FinalInsertionWeights = [2]float64{insW[0], insW[1]}
	return best, m
}

func emptyPlans(numVehicles int) []RoutePlan {
	plans := make([]RoutePlan, numVehicles)
	for i := range plans {
		plans[i] = RoutePlan{VehicleIndex: i}
	}
	return plans
}

// greedySeed builds the initial solution by cheapest-arc greedy
// insertion, node by node; a node whose cheapest feasible insertion
// costs at least as much as its drop penalty is left dropped, per the
// disjunction mechanism in spec §4.4.
func greedySeed(p Problem) Solution {
	all := make([]int, len(p.Nodes))
	for i := range all {
		all[i] = i
	}
	sol := Solution{Plans: emptyPlans(p.NumVehicles)}
	return greedyInsert(p, sol, all)
}

func pickRandomNodes(sol Solution, k int, rng *rand.Rand) []int {
	all := presentIndices(sol)
	if len(all) == 0 {
		return nil
	}
	removed := []int{}
	for i := 0; i < k && len(all) > 0; i++ {
		j := rng.Intn(len(all))
		removed = append(removed, all[j])
		all = append(all[:j], all[j+1:]...)
	}
	return removed
}

// presentIndices returns a sorted slice so callers sampling from it (e.g.
// pickRandomNodes, shawRemoval) are deterministic for a fixed seed; map
// iteration order is not.
func presentIndices(sol Solution) []int {
	present := map[int]bool{}
	for _, pl := range sol.Plans {
		for _, idx := range pl.Order {
			present[idx] = true
		}
	}
	all := make([]int, 0, len(present))
	for idx := range present {
		all = append(all, idx)
	}
	sort.Ints(all)
	return all
}

func removeNodes(sol Solution, removed []int) Solution {
	if len(removed) == 0 {
		return sol
	}
	rm := map[int]bool{}
	for _, i := range removed {
		rm[i] = true
	}
	out := Solution{Plans: make([]RoutePlan, len(sol.Plans))}
	for i := range sol.Plans {
		out.Plans[i].VehicleIndex = sol.Plans[i].VehicleIndex
		for _, idx := range sol.Plans[i].Order {
			if !rm[idx] {
				out.Plans[i].Order = append(out.Plans[i].Order, idx)
			}
		}
	}
	return out
}

// selectOp picks an operator index via roulette-wheel selection.
func selectOp(weights []float64, rng *rand.Rand) int {
	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	if sum <= 0 {
		return 0
	}
	r := rng.Float64() * sum
	acc := 0.0
	for i, w := range weights {
		acc += w
		if r <= acc {
			return i
		}
	}
	return len(weights) - 1
}
