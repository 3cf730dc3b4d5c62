package pnl

import (
	"testing"

	"gpsnav/internal/config"
	"gpsnav/internal/model"
)

func TestAggregateRevenueAndFixedCost(t *testing.T) {
	cfg := config.Default()
	var days [7]model.DailySolution
	days[0] = model.DailySolution{
		DepotKey: "wh",
		Routes: []model.Route{
			{VehicleIndex: 0, Stops: []model.VisitNode{{DemandLbs: 500}}, TotalKm: 20, TotalMinutes: 60},
		},
	}
	pnlOut := Aggregate("wh", days, cfg)
	wantRevenue := int64(round(500 * cfg.RevenuePerLb * 100))
	if pnlOut.RevenueCents != wantRevenue {
		t.Fatalf("want revenue %d, got %d", wantRevenue, pnlOut.RevenueCents)
	}
	if pnlOut.FixedCostCents != int64(round(cfg.TruckFixedWeekly()*100)) {
		t.Fatalf("expected one truck's fixed weekly cost, got %d", pnlOut.FixedCostCents)
	}
}

func TestAggregateNetworkSumsDepots(t *testing.T) {
	perDepot := map[string]model.DepotPnL{
		"wh":     {DepotKey: "wh", RevenueCents: 1000, NetCents: 400},
		"barrie": {DepotKey: "barrie", RevenueCents: 200, NetCents: -50},
	}
	net := AggregateNetwork(perDepot)
	if net.RevenueCents != 1200 {
		t.Fatalf("want 1200, got %d", net.RevenueCents)
	}
	if net.NetCents != 350 {
		t.Fatalf("want 350, got %d", net.NetCents)
	}
	if len(net.Depots) != 2 || net.Depots[0].DepotKey != "barrie" {
		t.Fatalf("expected depots sorted by key, got %+v", net.Depots)
	}
}

func TestAggregateAppliesOvertimeMultiplier(t *testing.T) {
	cfg := config.Default()
	var days [7]model.DailySolution
	// one vehicle dispatched every day, 660 minutes each day = 4620 min/week = 77h, well above the 44h threshold
	for d := 0; d < 7; d++ {
		days[d] = model.DailySolution{
			Routes: []model.Route{{VehicleIndex: 0, TotalMinutes: 660}},
		}
	}
	out := Aggregate("wh", days, cfg)
	if out.DriverCostCents <= 0 {
		t.Fatalf("expected positive driver cost")
	}
	// 44h regular at $24/h = $1056.00, plus 33h overtime at 1.5 x $24/h = $1188.00
	if want := int64(224400); out.DriverCostCents != want {
		t.Fatalf("want driver cost %d cents, got %d", want, out.DriverCostCents)
	}
}
