package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"gpsnav/internal/model"
)

// WriteWorkbook exports a solved week to a 4-sheet spreadsheet: weekly
// totals by depot, every stop on every route, the sites that were not
// served and why, and the full cost/revenue breakdown. The original
// guide's fifth sheet (a static explanation of the solver's own logic)
// has no run-specific data and is left out.
func WriteWorkbook(path string, solutions []model.WeeklySolution) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeWeeklySummarySheet(f, solutions); err != nil {
		return err
	}
	if err := writeRouteDetailsSheet(f, solutions); err != nil {
		return err
	}
	if err := writeDroppedSitesSheet(f, solutions); err != nil {
		return err
	}
	if err := writeCostBreakdownSheet(f, solutions); err != nil {
		return err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}
	return f.SaveAs(path)
}

func writeWeeklySummarySheet(f *excelize.File, solutions []model.WeeklySolution) error {
	const sheet = "Weekly_Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	header := []any{"Depot", "Day", "Trucks Used", "Total Lbs", "Total Km", "Total Minutes", "Dropped"}
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}
	row := 2
	for _, sol := range solutions {
		for d, ds := range sol.Days {
			if len(ds.Routes) == 0 && len(ds.Dropped) == 0 {
				continue
			}
			lbs, km, minutes := 0, 0.0, 0
			for _, r := range ds.Routes {
				lbs += r.TotalLbs
				km += r.TotalKm
				minutes += r.TotalMinutes
			}
			if err := setRow(f, sheet, row, []any{
				sol.DepotKey, dayNames[d], len(ds.Routes), lbs, km, minutes, len(ds.Dropped),
			}); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func writeRouteDetailsSheet(f *excelize.File, solutions []model.WeeklySolution) error {
	const sheet = "Route_Details"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	header := []any{"Depot", "Day", "Truck", "Stop Order", "Site ID", "Visit Index", "Demand Lbs", "Service Min", "Net Contribution"}
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}
	row := 2
	for _, sol := range solutions {
		for d, ds := range sol.Days {
			for _, r := range ds.Routes {
				for i, stop := range r.Stops {
					if err := setRow(f, sheet, row, []any{
						sol.DepotKey, dayNames[d], r.VehicleIndex + 1, i + 1,
						stop.SiteRef, stop.VisitIndex, stop.DemandLbs, stop.ServiceMinutes, stop.NetContributionPerVisit,
					}); err != nil {
						return err
					}
					row++
				}
			}
		}
	}
	return nil
}

func writeDroppedSitesSheet(f *excelize.File, solutions []model.WeeklySolution) error {
	const sheet = "Dropped_Sites"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	header := []any{"Depot", "Day", "Site ID", "Visit Index", "Demand Lbs", "Net Contribution", "Reason"}
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}
	row := 2
	for _, sol := range solutions {
		for d, ds := range sol.Days {
			for _, dropped := range ds.Dropped {
				if err := setRow(f, sheet, row, []any{
					sol.DepotKey, dayNames[d], dropped.Node.SiteRef, dropped.Node.VisitIndex,
					dropped.Node.DemandLbs, dropped.Node.NetContributionPerVisit, dropped.Reason,
				}); err != nil {
					return err
				}
				row++
			}
		}
	}
	return nil
}

func writeCostBreakdownSheet(f *excelize.File, solutions []model.WeeklySolution) error {
	const sheet = "Cost_Breakdown"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	header := []any{"Depot", "Revenue", "Driver Cost", "Variable Cost", "Fixed Cost", "Net"}
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}
	row := 2
	for _, sol := range solutions {
		p := sol.PnL
		if err := setRow(f, sheet, row, []any{
			p.DepotKey, toDollars(p.RevenueCents), toDollars(p.DriverCostCents),
			toDollars(p.VariableCostCents), toDollars(p.FixedCostCents), toDollars(p.NetCents),
		}); err != nil {
			return err
		}
		row++
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	for col, v := range values {
		cellRef, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cellRef, v); err != nil {
			return fmt.Errorf("set cell %s!%s: %w", sheet, cellRef, err)
		}
	}
	return nil
}
