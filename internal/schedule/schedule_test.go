package schedule

import (
	"testing"

	"gpsnav/internal/model"
)

func geocodedSite(id int, freq model.Frequency, demand int, revenue, structCost float64) model.Site {
	return model.Site{
		SiteID:                 id,
		Address:                "test",
		Geocoded:               true,
		Frequency:              freq,
		DemandPerVisitLbs:      demand,
		RevenuePerVisit:        revenue,
		StructuralCostPerVisit: structCost,
		ServiceMinutes:         15,
	}
}

func TestBuildSkipsUngeocodedSites(t *testing.T) {
	sites := []model.Site{{SiteID: 1, Geocoded: false, Frequency: model.D1}}
	sched := Build(sites, nil)
	for d := 0; d < 7; d++ {
		if len(sched[d]) != 0 {
			t.Fatalf("expected no visits for ungeocoded site on day %d", d)
		}
	}
}

func TestBuildD1VisitsEveryDay(t *testing.T) {
	sites := []model.Site{geocodedSite(1, model.D1, 100, 30, 5)}
	sched := Build(sites, nil)
	for d := 0; d < 7; d++ {
		if len(sched[d]) != 1 {
			t.Fatalf("expected 1 visit on day %d, got %d", d, len(sched[d]))
		}
	}
}

func TestBuildD3VisitsTuesdayAndThursday(t *testing.T) {
	sites := []model.Site{geocodedSite(1, model.D3, 100, 30, 5)}
	sched := Build(sites, nil)
	for d := 0; d < 7; d++ {
		want := d == 1 || d == 3
		got := len(sched[d]) == 1
		if got != want {
			t.Fatalf("day %d: want visit=%v, got %v", d, want, got)
		}
	}
}

func TestBuildD2SplitsDemandCeilFloor(t *testing.T) {
	sites := []model.Site{geocodedSite(1, model.D2, 51, 30, 5)} // odd per-visit demand; full daily demand is 102
	sched := Build(sites, nil)
	visits := sched[0]
	if len(visits) != 2 {
		t.Fatalf("want 2 visit-nodes for D2, got %d", len(visits))
	}
	full := 51 * 2
	if visits[0].DemandLbs+visits[1].DemandLbs != full {
		t.Fatalf("want visits to sum to %d, got %d+%d", full, visits[0].DemandLbs, visits[1].DemandLbs)
	}
	if visits[0].DemandLbs < visits[1].DemandLbs {
		t.Fatalf("expected first visit to carry the ceiling share, got %d < %d", visits[0].DemandLbs, visits[1].DemandLbs)
	}
}

func TestBuildD5IsDeterministicBySiteID(t *testing.T) {
	site := geocodedSite(14, model.D5, 100, 30, 5) // 14 % 7 == 0 -> Monday
	sched := Build([]model.Site{site}, nil)
	if len(sched[0]) != 1 {
		t.Fatalf("expected D5 site 14 scheduled on Monday, got schedule %v", sched)
	}
	for d := 1; d < 7; d++ {
		if len(sched[d]) != 0 {
			t.Fatalf("expected D5 site 14 only on Monday, found visit on day %d", d)
		}
	}
}

func TestBuildHolidayPolicyDropsUnprofitableSites(t *testing.T) {
	unprofitable := geocodedSite(1, model.D1, 100, 10, 20) // net = -10
	profitable := geocodedSite(2, model.D1, 100, 50, 5)    // net = 45
	sched := Build([]model.Site{unprofitable, profitable}, map[int]bool{0: true})

	if len(sched[0]) != 1 {
		t.Fatalf("want only the profitable site on the holiday, got %d visits", len(sched[0]))
	}
	if sched[0][0].SiteRef != 2 {
		t.Fatalf("want site 2 to remain scheduled, got site %d", sched[0][0].SiteRef)
	}
	// Non-holiday day keeps both sites.
	if len(sched[2]) != 2 {
		t.Fatalf("want both sites scheduled on a non-holiday day, got %d", len(sched[2]))
	}
}
