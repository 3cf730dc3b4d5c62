// Package postfilter implements the route profitability filter (C5): a
// standalone safety net run after the solver, never folded into the
// solver's own objective (see spec's "don't optimize it away" design note).
package postfilter

import (
	"log"

	"gpsnav/internal/model"
)

// Apply deletes any route whose revenue does not cover its cost, moving
// its stops into dsol.Dropped with reason "route not cost-justified".
// fixedVehicleCostCents is the same per-vehicle activation cost the
// solver used. Routes are evaluated independently; there is no
// re-optimization after a route is dropped. Every drop is logged as a
// *model.PostFilterDrop, per the §7 error taxonomy's informational tier.
func Apply(dsol model.DailySolution, fixedVehicleCostCents int) model.DailySolution {
	kept := dsol.Routes[:0:0]
	for _, r := range dsol.Routes {
		revenueCents := routeRevenueCents(r)
		costCents := r.CostCents(fixedVehicleCostCents)
		if revenueCents < costCents {
			siteIDs := make([]int, 0, len(r.Stops))
			for _, stop := range r.Stops {
				dsol.Dropped = append(dsol.Dropped, model.DroppedVisitNode{Node: stop, Reason: "route not cost-justified"})
				siteIDs = append(siteIDs, stop.SiteRef)
			}
			log.Print((&model.PostFilterDrop{DepotKey: dsol.DepotKey, Weekday: dsol.Weekday, SiteIDs: siteIDs}).Error())
			continue
		}
		kept = append(kept, r)
	}
	dsol.Routes = kept
	return dsol
}

func routeRevenueCents(r model.Route) int {
	total := 0
	for _, stop := range r.Stops {
		c := roundCents(stop.NetContributionPerVisit)
		if c > 0 {
			total += c
		}
	}
	return total
}

func roundCents(dollars float64) int {
	cents := dollars * 100
	if cents < 0 {
		return -int(-cents + 0.5)
	}
	return int(cents + 0.5)
}
