// Package config loads the optimizer's numeric constants and depot table
// from YAML, with CLI-flag overrides layered on top. The depot selector,
// matrix construction, solver wiring and P&L aggregation take their
// parameters from a Config value; internal/importer does not read Config
// and uses its own fixed service minutes per bin and revenue-per-lb fallback.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"gpsnav/internal/model"
)

// Config carries every tunable constant the core components need. Field
// names and values are grounded in the source guide's cost model.
type Config struct {
	Depots []DepotConfig `yaml:"depots"`

	MaxLegalPayloadLbs    int     `yaml:"maxLegalPayloadLbs"`
	TargetDailyPayloadLbs int     `yaml:"targetDailyPayloadLbs"`

	DriverWagePerHour      float64 `yaml:"driverWagePerHour"`
	OTMultiplier           float64 `yaml:"otMultiplier"`
	OTWeeklyThresholdHours float64 `yaml:"otWeeklyThresholdHours"`

	FuelPerKm        float64 `yaml:"fuelPerKm"`
	MaintenancePerKm float64 `yaml:"maintenancePerKm"`
	MileagePerKm     float64 `yaml:"mileagePerKm"`

	TruckLeaseMonthly float64 `yaml:"truckLeaseMonthly"`
	InsuranceAnnual   float64 `yaml:"insuranceAnnual"`

	RevenuePerLb float64 `yaml:"revenuePerLb"`

	MaxShiftHours          float64 `yaml:"maxShiftHours"`
	TotalBreakMinutes      int     `yaml:"totalBreakMinutes"`
	ServiceMinutesPerBin   int     `yaml:"serviceMinutesPerBin"`
	SlackMinutesPerNode    int     `yaml:"slackMinutesPerNode"`

	AverageSpeedKmh float64 `yaml:"averageSpeedKmh"`

	SolverTimeLimitSeconds int `yaml:"solverTimeLimitSeconds"`
	SolverSolutionLimit    int `yaml:"solverSolutionLimit"`

	WarehouseAnchor string `yaml:"warehouseAnchor"`
}

// DepotConfig is the YAML shape of one depot row; geocoding fills in Coord.
type DepotConfig struct {
	Key       string `yaml:"key"`
	Name      string `yaml:"name"`
	Address   string `yaml:"address"`
	MaxTrucks int    `yaml:"maxTrucks"`
}

// VariableCostPerKm is the sum of the three per-km cost components.
func (c Config) VariableCostPerKm() float64 {
	return c.FuelPerKm + c.MaintenancePerKm + c.MileagePerKm
}

// TruckFixedAnnual is the annualized lease + insurance cost of one truck.
func (c Config) TruckFixedAnnual() float64 {
	return c.TruckLeaseMonthly*12 + c.InsuranceAnnual
}

// TruckFixedWeekly is TruckFixedAnnual amortized over 52 weeks.
func (c Config) TruckFixedWeekly() float64 {
	return c.TruckFixedAnnual() / 52
}

// TruckFixedCostSolverCents is the per-vehicle activation cost fed to the
// daily solver's objective, in integer cents.
func (c Config) TruckFixedCostSolverCents() int {
	dailyDollars := c.TruckFixedAnnual() / 365
	return int(dailyDollars*100 + 0.5)
}

// EffectiveDrivingMinutes is the cumulative-time dimension bound per
// vehicle per day.
func (c Config) EffectiveDrivingMinutes() int {
	return int(c.MaxShiftHours*60) - c.TotalBreakMinutes
}

// Default returns the constant set from the source guide, before any
// depot coordinates are resolved.
func Default() Config {
	return Config{
		Depots: []DepotConfig{
			{Key: "wh", Name: "Main Warehouse", Address: "37 Alexdon Rd, North York, ON, Canada", MaxTrucks: 20},
			{Key: "barrie", Name: "Barrie Depot", Address: "320 Bayfield St, Barrie, ON L4M 3C1, Canada", MaxTrucks: 1},
			{Key: "london", Name: "London Depot", Address: "1345 Huron St #1a, London, ON N5V 2E3, Canada", MaxTrucks: 1},
			{Key: "newmarket", Name: "Newmarket Depot", Address: "570 Steven Ct, Newmarket, ON, Canada", MaxTrucks: 1},
			{Key: "ottawa", Name: "Ottawa Depot", Address: "995 Moodie Dr, Ottawa, ON, Canada", MaxTrucks: 2},
			{Key: "hamilton", Name: "Hamilton Depot", Address: "1400 Upper James St, Hamilton, ON L9B 1K3, Canada", MaxTrucks: 1},
			{Key: "kitchener", Name: "Kitchener Depot", Address: "1144 Courtland Ave E, Kitchener, ON N2C 1N2, Canada", MaxTrucks: 1},
		},
		MaxLegalPayloadLbs:     6000,
		TargetDailyPayloadLbs:  4000,
		DriverWagePerHour:      24.0,
		OTMultiplier:           1.5,
		OTWeeklyThresholdHours: 44,
		FuelPerKm:              0.25,
		MaintenancePerKm:       0.05,
		MileagePerKm:           0.09,
		TruckLeaseMonthly:      2077.0,
		InsuranceAnnual:        8166.0,
		RevenuePerLb:           0.30,
		MaxShiftHours:          12,
		TotalBreakMinutes:      60,
		ServiceMinutesPerBin:   15,
		SlackMinutesPerNode:    30,
		AverageSpeedKmh:        40,
		SolverTimeLimitSeconds: 60,
		SolverSolutionLimit:    100,
		WarehouseAnchor:        "wh",
	}
}

// Load reads a YAML file and merges it over Default(); a missing path
// returns Default() unchanged. Zero-valued numeric fields in the file are
// treated as "not overridden" — callers wanting an explicit zero should
// use the programmatic API instead.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	var overlay Config
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	mergeOverlay(&cfg, overlay)
	return cfg, nil
}

func mergeOverlay(base *Config, overlay Config) {
	if len(overlay.Depots) > 0 {
		base.Depots = overlay.Depots
	}
	if overlay.MaxLegalPayloadLbs != 0 {
		base.MaxLegalPayloadLbs = overlay.MaxLegalPayloadLbs
	}
	if overlay.TargetDailyPayloadLbs != 0 {
		base.TargetDailyPayloadLbs = overlay.TargetDailyPayloadLbs
	}
	if overlay.DriverWagePerHour != 0 {
		base.DriverWagePerHour = overlay.DriverWagePerHour
	}
	if overlay.OTMultiplier != 0 {
		base.OTMultiplier = overlay.OTMultiplier
	}
	if overlay.OTWeeklyThresholdHours != 0 {
		base.OTWeeklyThresholdHours = overlay.OTWeeklyThresholdHours
	}
	if overlay.FuelPerKm != 0 {
		base.FuelPerKm = overlay.FuelPerKm
	}
	if overlay.MaintenancePerKm != 0 {
		base.MaintenancePerKm = overlay.MaintenancePerKm
	}
	if overlay.MileagePerKm != 0 {
		base.MileagePerKm = overlay.MileagePerKm
	}
	if overlay.TruckLeaseMonthly != 0 {
		base.TruckLeaseMonthly = overlay.TruckLeaseMonthly
	}
	if overlay.InsuranceAnnual != 0 {
		base.InsuranceAnnual = overlay.InsuranceAnnual
	}
	if overlay.RevenuePerLb != 0 {
		base.RevenuePerLb = overlay.RevenuePerLb
	}
	if overlay.MaxShiftHours != 0 {
		base.MaxShiftHours = overlay.MaxShiftHours
	}
	if overlay.TotalBreakMinutes != 0 {
		base.TotalBreakMinutes = overlay.TotalBreakMinutes
	}
	if overlay.ServiceMinutesPerBin != 0 {
		base.ServiceMinutesPerBin = overlay.ServiceMinutesPerBin
	}
	if overlay.SlackMinutesPerNode != 0 {
		base.SlackMinutesPerNode = overlay.SlackMinutesPerNode
	}
	if overlay.AverageSpeedKmh != 0 {
		base.AverageSpeedKmh = overlay.AverageSpeedKmh
	}
	if overlay.SolverTimeLimitSeconds != 0 {
		base.SolverTimeLimitSeconds = overlay.SolverTimeLimitSeconds
	}
	if overlay.SolverSolutionLimit != 0 {
		base.SolverSolutionLimit = overlay.SolverSolutionLimit
	}
	if overlay.WarehouseAnchor != "" {
		base.WarehouseAnchor = overlay.WarehouseAnchor
	}
}

// ToDepots converts the config's depot rows to model.Depot, marking the
// WarehouseAnchor key as the anchor. Coordinates are left zero; the
// geocoder fills them in before C3 runs.
func (c Config) ToDepots() []model.Depot {
	out := make([]model.Depot, 0, len(c.Depots))
	for _, d := range c.Depots {
		out = append(out, model.Depot{
			Key:       d.Key,
			Name:      d.Name,
			Address:   d.Address,
			MaxTrucks: d.MaxTrucks,
			Anchor:    d.Key == c.WarehouseAnchor,
		})
	}
	return out
}
