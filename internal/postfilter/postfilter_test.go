package postfilter

import (
	"testing"

	"gpsnav/internal/model"
)

func TestApplyKeepsCostJustifiedRoute(t *testing.T) {
	dsol := model.DailySolution{
		DepotKey: "wh",
		Weekday:  0,
		Routes: []model.Route{
			{
				Stops:        []model.VisitNode{{SiteRef: 1, NetContributionPerVisit: 25}},
				ArcCostCents: 1980,
			},
		},
	}
	out := Apply(dsol, 9066)
	if len(out.Routes) != 1 {
		t.Fatalf("expected route to survive, got %d routes", len(out.Routes))
	}
	if len(out.Dropped) != 0 {
		t.Fatalf("expected no dropped stops")
	}
}

func TestApplyDropsUnjustifiedRoute(t *testing.T) {
	dsol := model.DailySolution{
		Routes: []model.Route{
			{
				Stops:        []model.VisitNode{{SiteRef: 1, NetContributionPerVisit: 1}},
				ArcCostCents: 50000,
			},
		},
	}
	out := Apply(dsol, 9066)
	if len(out.Routes) != 0 {
		t.Fatalf("expected route to be dropped")
	}
	if len(out.Dropped) != 1 || out.Dropped[0].Reason != "route not cost-justified" {
		t.Fatalf("expected one dropped stop with reason, got %+v", out.Dropped)
	}
}

func TestApplyIndependentAcrossRoutes(t *testing.T) {
	dsol := model.DailySolution{
		Routes: []model.Route{
			{Stops: []model.VisitNode{{SiteRef: 1, NetContributionPerVisit: 25}}, ArcCostCents: 1980},
			{Stops: []model.VisitNode{{SiteRef: 2, NetContributionPerVisit: 1}}, ArcCostCents: 50000},
		},
	}
	out := Apply(dsol, 9066)
	if len(out.Routes) != 1 {
		t.Fatalf("expected exactly one surviving route, got %d", len(out.Routes))
	}
	if len(out.Dropped) != 1 {
		t.Fatalf("expected exactly one dropped stop, got %d", len(out.Dropped))
	}
}
