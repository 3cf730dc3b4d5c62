// Package report renders console summaries and a spreadsheet export of a
// solved weekly network.
package report

import (
	"fmt"
	"sort"

	"gpsnav/internal/config"
	"gpsnav/internal/model"
)

var dayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// DaySummary is the return value of PrintDaily, used by callers that want
// to accumulate weekly totals without re-deriving them from the raw
// DailySolution slice.
type DaySummary struct {
	Trucks  int
	Lbs     int
	Km      float64
	Minutes int
	Dropped int
}

// PrintDaily prints one weekday's routes across every open depot.
func PrintDaily(weekday int, byDepot map[string]model.DailySolution) DaySummary {
	fmt.Printf("\n%s\n  %s\n%s\n", sep, dayNames[weekday], sep)

	keys := sortedKeys(byDepot)
	var sum DaySummary
	for _, depotKey := range keys {
		ds := byDepot[depotKey]
		if len(ds.Routes) == 0 && len(ds.Dropped) == 0 {
			continue
		}

		lbs, km, minutes := 0, 0.0, 0
		for _, r := range ds.Routes {
			lbs += r.TotalLbs
			km += r.TotalKm
			minutes += r.TotalMinutes
		}

		fmt.Printf("\n  Depot: %s\n", depotKey)
		fmt.Printf("  Trucks used: %d | Lbs: %d | Km: %.1f | Time: %d min | Dropped: %d\n",
			len(ds.Routes), lbs, km, minutes, len(ds.Dropped))

		for _, r := range ds.Routes {
			fmt.Printf("\n    Truck #%d: %d stops | %d lbs | %.1f km | %d min\n",
				r.VehicleIndex+1, len(r.Stops), r.TotalLbs, r.TotalKm, r.TotalMinutes)
			for _, stop := range r.Stops {
				fmt.Printf("      -> site %-8d visit %d | %5d lbs | %3d min | net $%.2f\n",
					stop.SiteRef, stop.VisitIndex, stop.DemandLbs, stop.ServiceMinutes, stop.NetContributionPerVisit)
			}
		}

		sum.Trucks += len(ds.Routes)
		sum.Lbs += lbs
		sum.Km += km
		sum.Minutes += minutes
		sum.Dropped += len(ds.Dropped)
	}

	fmt.Printf("\n  DAY TOTAL: %d trucks | %d lbs | %.1f km | %d min driving | %d dropped visits\n",
		sum.Trucks, sum.Lbs, sum.Km, sum.Minutes, sum.Dropped)
	return sum
}

// PrintWeeklySummary prints the aggregated weekly totals and cost
// breakdown for the whole network.
func PrintWeeklySummary(days [7]DaySummary, net model.NetworkPnL, cfg config.Config) {
	fmt.Printf("\n%s\n  WEEKLY SUMMARY\n%s\n", sep, sep)

	var totalLbs int
	var totalKm float64
	var totalHours float64
	for d := 0; d < 7; d++ {
		totalLbs += days[d].Lbs
		totalKm += days[d].Km
		totalHours += float64(days[d].Minutes) / 60.0
		fmt.Printf("  %-12s %3d trucks | %10d lbs | %8.1f km | %6.1f hrs\n",
			dayNames[d], days[d].Trucks, days[d].Lbs, days[d].Km, float64(days[d].Minutes)/60.0)
	}

	fmt.Printf("\n%s\n  WEEKLY COST BREAKDOWN\n%s\n", sep, sep)
	fmt.Printf("  Driver cost:        $%14.2f\n", toDollars(net.DriverCostCents))
	fmt.Printf("  Vehicle variable:   $%14.2f\n", toDollars(net.VariableCostCents))
	fmt.Printf("  Fixed truck cost:   $%14.2f\n", toDollars(net.FixedCostCents))
	fmt.Printf("  ──────────────────────────────────────\n")
	fmt.Printf("  TOTAL WEEKLY COST:  $%14.2f\n", toDollars(net.DriverCostCents+net.VariableCostCents+net.FixedCostCents))
	fmt.Printf("  TOTAL WEEKLY REVENUE: $%12.2f\n", toDollars(net.RevenueCents))
	fmt.Printf("  NET WEEKLY CONTRIBUTION: $%9.2f\n", toDollars(net.NetCents))
	fmt.Printf("\n  ANNUALIZED:\n")
	fmt.Printf("    Total cost:      $%14.0f\n", toDollars(net.DriverCostCents+net.VariableCostCents+net.FixedCostCents)*52)
	fmt.Printf("    Total revenue:   $%14.0f\n", toDollars(net.RevenueCents)*52)
	fmt.Printf("    Net contribution: $%13.0f\n", toDollars(net.NetCents)*52)
}

// PrintDepotPNL prints the post-solve per-depot profitability report.
func PrintDepotPNL(net model.NetworkPnL, closedDepots map[string]string) {
	fmt.Printf("\n%s\n  DEPOT PROFITABILITY REPORT (Post-Solve)\n%s\n", sep, sep)

	for _, d := range net.Depots {
		status := "KEEP"
		if d.NetCents < 0 {
			status = "MARGINAL — consider closing"
		}
		fmt.Printf("\n  %s\n", d.DepotKey)
		fmt.Printf("    Revenue:     $%10.2f\n", toDollars(d.RevenueCents))
		fmt.Printf("    Driver cost: $%10.2f\n", toDollars(d.DriverCostCents))
		fmt.Printf("    Vehicle var: $%10.2f\n", toDollars(d.VariableCostCents))
		fmt.Printf("    Fixed cost:  $%10.2f\n", toDollars(d.FixedCostCents))
		fmt.Printf("    NET PROFIT:  $%+10.2f  [%s]\n", toDollars(d.NetCents), status)
	}

	if len(closedDepots) > 0 {
		fmt.Printf("\n  CLOSED DEPOTS:\n")
		keys := make([]string, 0, len(closedDepots))
		for k := range closedDepots {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("    %s: %s\n", k, closedDepots[k])
		}
	}

	fmt.Printf("\n  NETWORK TOTAL NET PROFIT: $%+12.2f/week\n", toDollars(net.NetCents))
	fmt.Printf("  ANNUALIZED:               $%+12.0f/year\n", toDollars(net.NetCents)*52)
}

const sep = "================================================================================"

func toDollars(cents int64) float64 {
	return float64(cents) / 100.0
}

func sortedKeys(m map[string]model.DailySolution) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
