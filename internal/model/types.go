// Package model holds the domain vocabulary shared by every stage of the
// pipeline: the immutable site catalog, depot configuration, the per-day
// visit-nodes the scheduler produces, and the route/solution types the
// solver and aggregator exchange.
package model

import "fmt"

// Frequency is one of the five symbolic visit-frequency codes.
type Frequency string

const (
	D1 Frequency = "D1"
	D2 Frequency = "D2"
	D3 Frequency = "D3"
	D4 Frequency = "D4"
	D5 Frequency = "D5"
)

// Coord is a geographic point.
type Coord struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Site is immutable after load. Coord is populated by the geocoding
// collaborator before any routing stage runs.
type Site struct {
	SiteID                  int       `json:"siteId"`
	Address                 string    `json:"address"`
	Coord                   Coord     `json:"coord"`
	Geocoded                bool      `json:"geocoded"`
	Frequency               Frequency `json:"frequency"`
	Bins                    int       `json:"bins"`
	DemandPerVisitLbs       int       `json:"demandPerVisitLbs"`
	RevenuePerVisit         float64   `json:"revenuePerVisit"`
	StructuralCostPerVisit  float64   `json:"structuralCostPerVisit"`
	ServiceMinutes          int       `json:"serviceMinutes"`
}

// NetContributionPerVisit is revenue minus structural cost, excluding
// routing cost. May be negative.
func (s Site) NetContributionPerVisit() float64 {
	return s.RevenuePerVisit - s.StructuralCostPerVisit
}

// WeeklyVisits returns how many visit-nodes this site contributes across
// a full (non-holiday) week, per the frequency map.
func (s Site) WeeklyVisits() int {
	switch s.Frequency {
	case D1:
		return 7
	case D2:
		return 14
	case D3:
		return 2
	case D4:
		return 3
	case D5:
		return 1
	default:
		return 0
	}
}

// Depot is a routing origin/terminus. Exactly one depot in a config has
// Anchor == true; it is never a closure candidate.
type Depot struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	Coord     Coord  `json:"coord"`
	MaxTrucks int    `json:"maxTrucks"`
	Anchor    bool   `json:"anchor"`
}

// VisitNode is a per-day, per-visit instance of a site, used as a routing
// node. D2 sites produce two distinct VisitNodes per scheduled day.
type VisitNode struct {
	SiteRef                int     `json:"siteRef"`
	VisitIndex              int     `json:"visitIndex"` // 0 or 1 for D2, else 0
	DemandLbs              int     `json:"demandLbs"`
	ServiceMinutes         int     `json:"serviceMinutes"`
	NetContributionPerVisit float64 `json:"netContributionPerVisit"`
}

// WeeklySchedule maps weekday index 0..6 to the ordered visit-nodes due
// that day, for one site catalog.
type WeeklySchedule [7][]VisitNode

// Assignment maps a site ID to the depot key currently serving it.
// Mutated only by the depot selector.
type Assignment map[int]string

// Route is the output of the daily VRP solver for one vehicle: an
// ordered sequence of visit-nodes starting and ending at the depot.
type Route struct {
	VehicleIndex int         `json:"vehicleIndex"`
	DepotKey     string      `json:"depotKey"`
	Weekday      int         `json:"weekday"`
	Stops        []VisitNode `json:"stops"`
	TotalLbs     int         `json:"totalLbs"`
	TotalKm      float64     `json:"totalKm"`
	TotalMinutes int         `json:"totalMinutes"`
	ArcCostCents int         `json:"arcCostCents"`
	RevenueCents int         `json:"revenueCents"`
}

// CostCents is the route's total cost including the vehicle's fixed
// activation cost (added once the route is non-empty).
func (r Route) CostCents(fixedVehicleCostCents int) int {
	if len(r.Stops) == 0 {
		return 0
	}
	return r.ArcCostCents + fixedVehicleCostCents
}

// DroppedVisitNode records a visit-node that did not make it into any
// route, with the reason it was excluded.
type DroppedVisitNode struct {
	Node   VisitNode `json:"node"`
	Reason string    `json:"reason"`
}

// DailySolution is the result of C4 (and C5) for one (depot, weekday)
// sub-problem.
type DailySolution struct {
	DepotKey string              `json:"depotKey"`
	Weekday  int                 `json:"weekday"`
	Routes   []Route             `json:"routes"`
	Dropped  []DroppedVisitNode  `json:"dropped"`
	Degraded bool                `json:"degraded"` // true if the distance/time matrix for this sub-problem needed the oracle fallback
}

// WeeklySolution bundles the seven DailySolutions for one open depot plus
// that depot's rolled-up P&L.
type WeeklySolution struct {
	DepotKey string          `json:"depotKey"`
	Days     [7]DailySolution `json:"days"`
	PnL      DepotPnL        `json:"pnl"`
}

// DepotPnL is one depot's weekly profit-and-loss breakdown.
type DepotPnL struct {
	DepotKey         string  `json:"depotKey"`
	RevenueCents     int64   `json:"revenueCents"`
	DriverCostCents  int64   `json:"driverCostCents"`
	VariableCostCents int64  `json:"variableCostCents"`
	FixedCostCents   int64   `json:"fixedCostCents"`
	NetCents         int64   `json:"netCents"`
}

// NetworkPnL is the sum of all open depots' DepotPnL.
type NetworkPnL struct {
	Depots       []DepotPnL `json:"depots"`
	RevenueCents int64      `json:"revenueCents"`
	DriverCostCents int64   `json:"driverCostCents"`
	VariableCostCents int64 `json:"variableCostCents"`
	FixedCostCents int64   `json:"fixedCostCents"`
	NetCents     int64      `json:"netCents"`
}

func (c Coord) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lon)
}
