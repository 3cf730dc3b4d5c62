// Package depot implements the greedy depot-selection network closure
// with reassignment (C3).
package depot

import (
	"sort"

	"gpsnav/internal/config"
	"gpsnav/internal/geo"
	"gpsnav/internal/model"
)

// ClosureStep narrates one iteration of the closure loop, for reporting.
type ClosureStep struct {
	Candidate          string
	NetworkNetBefore   float64
	NetworkNetAfter    float64
	Committed          bool
	SitesReassigned    int
}

// Result is C3's output: the open-depot set (always including the
// anchor), the final site->depot assignment, and a narration log.
type Result struct {
	OpenDepots []model.Depot
	Assignment model.Assignment
	Log        []ClosureStep
}

// Select runs the closure loop described in spec §4.3 starting from
// nearest-depot initial assignment.
func Select(sites []model.Site, depots []model.Depot, cfg config.Config) Result {
	byKey := make(map[string]model.Depot, len(depots))
	order := make([]string, 0, len(depots))
	for _, d := range depots {
		byKey[d.Key] = d
		order = append(order, d.Key)
	}
	sort.Strings(order) // stable tie-break order for reassignment

	open := make(map[string]bool, len(depots))
	for _, d := range depots {
		open[d.Key] = true
	}

	assignment := nearestDepotAssignment(sites, depots)

	result := Result{Assignment: assignment}

	totalNet := networkNet(sites, assignment, byKey, open, cfg)
	for {
		candidate, candidateNet, ok := lowestNetNonAnchor(sites, assignment, byKey, open, cfg)
		if !ok {
			break
		}

		trialAssignment := cloneAssignment(assignment)
		trialOpen := cloneOpen(open)
		trialOpen[candidate] = false
		reassigned := reassignSitesOf(candidate, sites, trialAssignment, byKey, trialOpen, order)

		trialNet := networkNet(sites, trialAssignment, byKey, trialOpen, cfg)

		step := ClosureStep{
			Candidate:        candidate,
			NetworkNetBefore: totalNet,
			NetworkNetAfter:  trialNet,
			SitesReassigned:  reassigned,
		}

		if trialNet > totalNet {
			step.Committed = true
			assignment = trialAssignment
			open = trialOpen
			totalNet = trialNet
			result.Log = append(result.Log, step)
			continue
		}
		_ = candidateNet
		result.Log = append(result.Log, step)
		break
	}

	for _, d := range depots {
		if open[d.Key] {
			result.OpenDepots = append(result.OpenDepots, d)
		}
	}
	result.Assignment = assignment
	return result
}

func nearestDepotAssignment(sites []model.Site, depots []model.Depot) model.Assignment {
	a := make(model.Assignment, len(sites))
	for _, s := range sites {
		if !s.Geocoded {
			continue
		}
		best := ""
		bestDist := -1.0
		for _, d := range depots {
			dist := geo.HaversineKm(s.Coord.Lat, s.Coord.Lon, d.Coord.Lat, d.Coord.Lon)
			if bestDist < 0 || dist < bestDist {
				bestDist = dist
				best = d.Key
			}
		}
		if best != "" {
			a[s.SiteID] = best
		}
	}
	return a
}

// depotPnL estimates a depot's weekly P&L per spec §4.3.
func depotPnL(depotKey string, sites []model.Site, assignment model.Assignment, byKey map[string]model.Depot, cfg config.Config) float64 {
	d := byKey[depotKey]
	var revenue, variable float64
	for _, s := range sites {
		if assignment[s.SiteID] != depotKey {
			continue
		}
		wv := float64(s.WeeklyVisits())
		revenue += s.RevenuePerVisit * wv
		dist := geo.HaversineKm(s.Coord.Lat, s.Coord.Lon, d.Coord.Lat, d.Coord.Lon)
		driveHours := dist / cfg.AverageSpeedKmh
		driverTimeCost := driveHours * cfg.DriverWagePerHour
		variable += wv * (geo.RoadFactor*dist*cfg.VariableCostPerKm() + driverTimeCost)
	}
	fixed := float64(d.MaxTrucks) * cfg.TruckFixedWeekly()
	return revenue - fixed - variable
}

func networkNet(sites []model.Site, assignment model.Assignment, byKey map[string]model.Depot, open map[string]bool, cfg config.Config) float64 {
	total := 0.0
	for key, isOpen := range open {
		if !isOpen {
			continue
		}
		total += depotPnL(key, sites, assignment, byKey, cfg)
	}
	return total
}

func lowestNetNonAnchor(sites []model.Site, assignment model.Assignment, byKey map[string]model.Depot, open map[string]bool, cfg config.Config) (string, float64, bool) {
	best := ""
	bestNet := 0.0
	found := false
	keys := make([]string, 0, len(open))
	for k := range open {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if !open[key] || byKey[key].Anchor {
			continue
		}
		net := depotPnL(key, sites, assignment, byKey, cfg)
		if !found || net < bestNet {
			bestNet = net
			best = key
			found = true
		}
	}
	return best, bestNet, found
}

// reassignSitesOf moves every site currently assigned to closing into its
// next-nearest currently-open depot, tie-broken by order.
func reassignSitesOf(closing string, sites []model.Site, assignment model.Assignment, byKey map[string]model.Depot, open map[string]bool, order []string) int {
	count := 0
	for _, s := range sites {
		if assignment[s.SiteID] != closing {
			continue
		}
		best := ""
		bestDist := -1.0
		for _, key := range order {
			if !open[key] {
				continue
			}
			d := byKey[key]
			dist := geo.HaversineKm(s.Coord.Lat, s.Coord.Lon, d.Coord.Lat, d.Coord.Lon)
			if bestDist < 0 || dist < bestDist {
				bestDist = dist
				best = key
			}
		}
		if best != "" {
			assignment[s.SiteID] = best
			count++
		}
	}
	return count
}

func cloneAssignment(a model.Assignment) model.Assignment {
	out := make(model.Assignment, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

func cloneOpen(o map[string]bool) map[string]bool {
	out := make(map[string]bool, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}
