package report

import (
	"path/filepath"
	"testing"

	"gpsnav/internal/config"
	"gpsnav/internal/model"
)

func sampleDailySolution() map[string]model.DailySolution {
	return map[string]model.DailySolution{
		"wh": {
			DepotKey: "wh",
			Routes: []model.Route{
				{VehicleIndex: 0, TotalLbs: 3000, TotalKm: 80, TotalMinutes: 240,
					Stops: []model.VisitNode{{SiteRef: 1, DemandLbs: 500, ServiceMinutes: 15, NetContributionPerVisit: 10}}},
			},
			Dropped: []model.DroppedVisitNode{{Node: model.VisitNode{SiteRef: 2}, Reason: "unprofitable"}},
		},
	}
}

func TestPrintDailyReturnsAggregatedTotals(t *testing.T) {
	sum := PrintDaily(0, sampleDailySolution())
	if sum.Trucks != 1 || sum.Lbs != 3000 || sum.Dropped != 1 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
}

func TestPrintWeeklySummaryDoesNotPanic(t *testing.T) {
	var days [7]DaySummary
	days[0] = DaySummary{Trucks: 1, Lbs: 3000, Km: 80, Minutes: 240}
	net := model.NetworkPnL{RevenueCents: 90000, DriverCostCents: 20000, VariableCostCents: 5000, FixedCostCents: 10000, NetCents: 55000}
	PrintWeeklySummary(days, net, config.Default())
}

func TestPrintDepotPNLDoesNotPanic(t *testing.T) {
	net := model.NetworkPnL{Depots: []model.DepotPnL{
		{DepotKey: "wh", RevenueCents: 90000, NetCents: 55000},
		{DepotKey: "barrie", RevenueCents: 1000, NetCents: -500},
	}, NetCents: 54500}
	PrintDepotPNL(net, map[string]string{"london": "all non-anchor sites reassigned to wh"})
}

func TestWriteWorkbookProducesFile(t *testing.T) {
	sol := []model.WeeklySolution{
		{
			DepotKey: "wh",
			PnL:      model.DepotPnL{DepotKey: "wh", RevenueCents: 90000, NetCents: 55000},
		},
	}
	sol[0].Days[0] = model.DailySolution{
		DepotKey: "wh",
		Routes: []model.Route{
			{VehicleIndex: 0, TotalLbs: 500,
				Stops: []model.VisitNode{{SiteRef: 1, DemandLbs: 500, ServiceMinutes: 15, NetContributionPerVisit: 10}}},
		},
		Dropped: []model.DroppedVisitNode{{Node: model.VisitNode{SiteRef: 2}, Reason: "unprofitable"}},
	}

	path := filepath.Join(t.TempDir(), "results.xlsx")
	if err := WriteWorkbook(path, sol); err != nil {
		t.Fatalf("WriteWorkbook: %v", err)
	}
}
