// Package schedule expands a site catalog's frequency codes into a
// weekday -> visit-node map (C2).
package schedule

import (
	"gpsnav/internal/model"
)

// dayPatterns mirrors the source guide's FREQUENCY_DAY_PATTERNS; D5 has
// no fixed pattern, it is computed per-site in Build.
var dayPatterns = map[model.Frequency][]int{
	model.D1: {0, 1, 2, 3, 4, 5, 6},
	model.D2: {0, 1, 2, 3, 4, 5, 6},
	model.D3: {1, 3},
	model.D4: {0, 2, 4},
}

// Build returns the seven-weekday visit-node schedule for a site catalog.
// holidays names the weekdays on which the holiday policy (§4.2) applies:
// only sites with a positive net contribution are emitted that day.
func Build(sites []model.Site, holidays map[int]bool) model.WeeklySchedule {
	var sched model.WeeklySchedule
	for _, s := range sites {
		if !s.Geocoded {
			continue // excluded from routing entirely; not a scheduling concern
		}
		days := daysFor(s)
		for _, d := range days {
			if holidays[d] && s.NetContributionPerVisit() <= 0 {
				continue
			}
			sched[d] = append(sched[d], visitNodesFor(s)...)
		}
	}
	return sched
}

// daysFor returns the weekdays a site is visited on, given its frequency.
// D5's single day is a deterministic function of site_id, never RNG.
func daysFor(s model.Site) []int {
	if s.Frequency == model.D5 {
		return []int{assignWeeklyDay(s.SiteID)}
	}
	return dayPatterns[s.Frequency]
}

// assignWeeklyDay deterministically maps a D5 site to one weekday.
func assignWeeklyDay(siteID int) int {
	d := siteID % 7
	if d < 0 {
		d += 7
	}
	return d
}

// visitNodesFor returns the one or two visit-nodes a site contributes on
// a scheduled day. D2 sites split their daily demand across two visits:
// the first gets the ceiling, the second the floor, so they always sum
// to the full integer daily demand (resolves the D2 rounding open question).
func visitNodesFor(s model.Site) []model.VisitNode {
	if s.Frequency != model.D2 {
		return []model.VisitNode{{
			SiteRef:                 s.SiteID,
			VisitIndex:              0,
			DemandLbs:               s.DemandPerVisitLbs,
			ServiceMinutes:          s.ServiceMinutes,
			NetContributionPerVisit: s.NetContributionPerVisit(),
		}}
	}
	full := s.DemandPerVisitLbs * 2
	first := (full + 1) / 2  // ceil(full/2)
	second := full / 2       // floor(full/2)
	return []model.VisitNode{
		{SiteRef: s.SiteID, VisitIndex: 0, DemandLbs: first, ServiceMinutes: s.ServiceMinutes, NetContributionPerVisit: s.NetContributionPerVisit()},
		{SiteRef: s.SiteID, VisitIndex: 1, DemandLbs: second, ServiceMinutes: s.ServiceMinutes, NetContributionPerVisit: s.NetContributionPerVisit()},
	}
}
