package vrp

// matIdx maps a 0-based Nodes index to its row/column in the
// depot-inclusive arc matrices (index 0 is the depot).
func matIdx(nodeIdx int) int { return nodeIdx + 1 }

// schedulePlan walks a plan's stops in order, accumulating demand and
// cumulative minutes (arc time + service time + per-node slack), and
// reports whether it stays within the vehicle's capacity and time bound.
func schedulePlan(p Problem, pl RoutePlan) (demand int, minutes int, feasible bool) {
	prev := 0 // depot
	for _, idx := range pl.Order {
		n := p.Nodes[idx]
		demand += n.DemandLbs
		if demand > p.CapacityLbs {
			return demand, minutes, false
		}
		minutes += p.ArcTimeMin[prev][matIdx(idx)]
		minutes += n.ServiceMinutes
		minutes += p.SlackMinutesPerNode
		if minutes > p.MaxMinutes {
			return demand, minutes, false
		}
		prev = matIdx(idx)
	}
	// return to depot; spec's cumulative bound covers service + arc time
	// accrued while visiting, the return leg is not charged against the
	// per-node slack budget but still must not push past MaxMinutes.
	minutes += p.ArcTimeMin[prev][0]
	if minutes > p.MaxMinutes {
		return demand, minutes, false
	}
	return demand, minutes, true
}

func feasibleAddAt(p Problem, pl RoutePlan, idx, pos int) bool {
	if pos < 0 || pos > len(pl.Order) {
		return false
	}
	tmp := RoutePlan{VehicleIndex: pl.VehicleIndex, Order: make([]int, 0, len(pl.Order)+1)}
	tmp.Order = append(tmp.Order, pl.Order[:pos]...)
	tmp.Order = append(tmp.Order, idx)
	tmp.Order = append(tmp.Order, pl.Order[pos:]...)
	_, _, ok := schedulePlan(p, tmp)
	return ok
}

// cost implements the objective from spec §4.4: arc cost of used arcs,
// plus a fixed activation cost per dispatched vehicle, plus the drop
// penalty of every node that ended up in no plan.
func cost(p Problem, s Solution) int {
	total := 0
	for _, pl := range s.Plans {
		if len(pl.Order) == 0 {
			continue
		}
		total += p.FixedVehicleCostCents
		prev := 0
		for _, idx := range pl.Order {
			total += p.ArcCostCents[prev][matIdx(idx)]
			prev = matIdx(idx)
		}
		total += p.ArcCostCents[prev][0]
	}
	present := map[int]bool{}
	for _, pl := range s.Plans {
		for _, idx := range pl.Order {
			present[idx] = true
		}
	}
	for i, n := range p.Nodes {
		if !present[i] {
			total += n.DropPenaltyCents
		}
	}
	return total
}

// deltaCostInsert approximates the marginal arc cost of inserting idx at
// pos within pl: prev->new + new->next - prev->next.
func deltaCostInsert(p Problem, pl RoutePlan, idx, pos int) int {
	prev := 0
	if pos > 0 {
		prev = matIdx(pl.Order[pos-1])
	}
	next := 0
	if pos < len(pl.Order) {
		next = matIdx(pl.Order[pos])
	}
	return p.ArcCostCents[prev][matIdx(idx)] + p.ArcCostCents[matIdx(idx)][next] - p.ArcCostCents[prev][next]
}
