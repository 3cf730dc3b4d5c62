// Package pnl rolls per-route outcomes into weekly and per-depot network
// P&L totals (C6).
package pnl

import (
	"sort"

	"gpsnav/internal/config"
	"gpsnav/internal/model"
)

// vehicleWeek accumulates one vehicle's weekly drive minutes, for the OT
// threshold calculation.
type vehicleWeek struct {
	minutes  int
	dispatched bool
}

// Aggregate rolls one open depot's seven DailySolutions into a DepotPnL.
func Aggregate(depotKey string, days [7]model.DailySolution, cfg config.Config) model.DepotPnL {
	vehicles := map[int]*vehicleWeek{}
	var revenueCents, variableCents int64

	for _, day := range days {
		for _, r := range day.Routes {
			vw := vehicles[r.VehicleIndex]
			if vw == nil {
				vw = &vehicleWeek{}
				vehicles[r.VehicleIndex] = vw
			}
			vw.minutes += r.TotalMinutes
			vw.dispatched = true

			for _, stop := range r.Stops {
				revenueCents += int64(round(float64(stop.DemandLbs) * cfg.RevenuePerLb * 100))
			}
			variableCents += int64(round(r.TotalKm * cfg.VariableCostPerKm() * 100))
		}
	}

	driverCents := int64(0)
	otThresholdMinutes := cfg.OTWeeklyThresholdHours * 60
	regularCentsPerMin := cfg.DriverWagePerHour / 60 * 100
	otCentsPerMin := regularCentsPerMin * cfg.OTMultiplier
	for _, vw := range vehicles {
		regMin := float64(vw.minutes)
		otMin := 0.0
		if regMin > otThresholdMinutes {
			otMin = regMin - otThresholdMinutes
			regMin = otThresholdMinutes
		}
		driverCents += int64(round(regMin*regularCentsPerMin + otMin*otCentsPerMin))
	}

	fixedCents := int64(0)
	for _, vw := range vehicles {
		if vw.dispatched {
			fixedCents += int64(round(cfg.TruckFixedWeekly() * 100))
		}
	}

	net := revenueCents - driverCents - variableCents - fixedCents
	return model.DepotPnL{
		DepotKey:          depotKey,
		RevenueCents:      revenueCents,
		DriverCostCents:   driverCents,
		VariableCostCents: variableCents,
		FixedCostCents:    fixedCents,
		NetCents:          net,
	}
}

// AggregateNetwork sums all open depots' DepotPnL into one NetworkPnL,
// sorted by depot key for deterministic output.
func AggregateNetwork(perDepot map[string]model.DepotPnL) model.NetworkPnL {
	keys := make([]string, 0, len(perDepot))
	for k := range perDepot {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var net model.NetworkPnL
	for _, k := range keys {
		d := perDepot[k]
		net.Depots = append(net.Depots, d)
		net.RevenueCents += d.RevenueCents
		net.DriverCostCents += d.DriverCostCents
		net.VariableCostCents += d.VariableCostCents
		net.FixedCostCents += d.FixedCostCents
		net.NetCents += d.NetCents
	}
	return net
}

func round(x float64) float64 {
	if x < 0 {
		return -float64(int64(-x + 0.5))
	}
	return float64(int64(x + 0.5))
}
