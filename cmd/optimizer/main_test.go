package main

import (
	"testing"

	"gpsnav/internal/model"
)

func TestHolidaysFlagParsesCommaSeparatedList(t *testing.T) {
	var h holidaysFlag
	if err := h.Set("1,3, 5"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	want := []int{1, 3, 5}
	if len(h) != len(want) {
		t.Fatalf("want %v, got %v", want, h)
	}
	for i, v := range want {
		if h[i] != v {
			t.Fatalf("want %v, got %v", want, h)
		}
	}
}

func TestHolidaysFlagRejectsNonInteger(t *testing.T) {
	var h holidaysFlag
	if err := h.Set("not-a-number"); err == nil {
		t.Fatalf("expected error for non-integer holiday")
	}
}

func TestVisitNodesForDepotFiltersByAssignment(t *testing.T) {
	dayNodes := []model.VisitNode{
		{SiteRef: 1, DemandLbs: 100},
		{SiteRef: 2, DemandLbs: 200},
	}
	assignment := model.Assignment{1: "wh", 2: "barrie"}
	out := visitNodesForDepot(dayNodes, assignment, "wh")
	if len(out) != 1 || out[0].SiteRef != 1 {
		t.Fatalf("want only site 1 assigned to wh, got %+v", out)
	}
}

func TestDropPenaltyCentsIsZeroForNonPositiveContribution(t *testing.T) {
	if got := dropPenaltyCents(model.VisitNode{NetContributionPerVisit: -5}); got != 0 {
		t.Fatalf("want 0, got %d", got)
	}
	if got := dropPenaltyCents(model.VisitNode{NetContributionPerVisit: 12.5}); got != 1250 {
		t.Fatalf("want 1250, got %d", got)
	}
}

func TestOpenDepotKeysPreservesOrder(t *testing.T) {
	depots := []model.Depot{{Key: "wh"}, {Key: "barrie"}}
	got := openDepotKeys(depots)
	if len(got) != 2 || got[0] != "wh" || got[1] != "barrie" {
		t.Fatalf("unexpected order: %v", got)
	}
}
