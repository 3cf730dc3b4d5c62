// Package importer loads the site catalog from the Route_Mapping workbook's
// Site_Table sheet.
package importer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"gpsnav/internal/model"
)

const sheetName = "Site_Table"

// headerRows is the number of leading rows (title + column headers) to
// skip before data begins, matching the workbook's row 3 data-start.
const headerRows = 2

// Column indices (0-based) within each data row, matching the workbook
// layout: Site_ID, Address, FrequencyCode, Bins, AnnualLbs, RentAnnual,
// WasteAnnual, AnnualVisits, LbsPerVisit, RevenuePerVisit, ServiceMinutes,
// AnnualSiteValue.
const (
	colSiteID        = 1
	colAddress       = 2
	colFrequency     = 3
	colBins          = 4
	colAnnualLbs     = 5
	colRentAnnual    = 6
	colWasteAnnual   = 7
	colAnnualVisits  = 8
	colLbsPerVisit   = 9
	colRevenuePerVisit = 10
	colServiceMinutes  = 11
)

var weeklyVisitsByFrequency = map[model.Frequency]int{
	model.D1: 7,
	model.D2: 14,
	model.D3: 2,
	model.D4: 3,
	model.D5: 1,
}

const serviceMinutesPerBin = 15

// LoadSites parses path's Site_Table sheet and returns the derived site
// catalog. Rows with no Site_ID or no address are skipped; a repeated
// Site_ID is skipped too, so the first occurrence wins (this also drops
// trailing stub rows). maxLegalPayloadLbs bounds a single visit's
// demand; a row violating it, or carrying a non-positive bin count
// alongside positive demand, is rejected as a fatal *model.InputError
// rather than coerced.
func LoadSites(path string, maxLegalPayloadLbs int) ([]model.Site, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheetName, err)
	}

	var sites []model.Site
	seen := map[int]bool{}

	for i, row := range rows {
		if i < headerRows {
			continue
		}

		siteIDStr := cell(row, colSiteID)
		address := strings.TrimSpace(cell(row, colAddress))
		if siteIDStr == "" || address == "" {
			continue
		}
		siteID, err := strconv.Atoi(strings.TrimSpace(siteIDStr))
		if err != nil {
			continue
		}

		annualLbs := parseFloat(cell(row, colAnnualLbs))
		if seen[siteID] {
			continue
		}
		seen[siteID] = true

		freqCode := model.Frequency(strings.TrimSpace(cell(row, colFrequency)))
		if _, ok := weeklyVisitsByFrequency[freqCode]; !ok {
			freqCode = model.D1
		}

		bins := int(parseFloat(cell(row, colBins)))
		rentAnnual := parseFloat(cell(row, colRentAnnual))
		wasteAnnual := parseFloat(cell(row, colWasteAnnual))

		annualVisits := int(parseFloat(cell(row, colAnnualVisits)))
		if annualVisits <= 0 {
			annualVisits = weeklyVisitsByFrequency[freqCode] * 52
		}

		lbsPerVisit := parseFloat(cell(row, colLbsPerVisit))
		if lbsPerVisit == 0 && annualVisits > 0 {
			lbsPerVisit = annualLbs / float64(annualVisits)
		}

		if bins <= 0 && lbsPerVisit > 0 {
			return nil, &model.InputError{Reason: fmt.Sprintf("site %d: non-positive bin count with positive demand_per_visit_lbs (%.2f)", siteID, lbsPerVisit)}
		}
		if lbsPerVisit > float64(maxLegalPayloadLbs) {
			return nil, &model.InputError{Reason: fmt.Sprintf("site %d: demand_per_visit_lbs (%.2f) exceeds max legal payload (%d)", siteID, lbsPerVisit, maxLegalPayloadLbs)}
		}

		revenuePerVisit := parseFloat(cell(row, colRevenuePerVisit))
		if revenuePerVisit == 0 {
			revenuePerVisit = lbsPerVisit * 0.30
		}

		// Service time is bins x minutes-per-bin; the workbook's ServiceMinutes
		// column is an annual total and isn't used for per-visit scheduling.
		serviceMinutes := bins * serviceMinutesPerBin

		structuralCostPerVisit := 0.0
		if annualVisits > 0 {
			structuralCostPerVisit = (rentAnnual + wasteAnnual) / float64(annualVisits)
		}

		sites = append(sites, model.Site{
			SiteID:                 siteID,
			Address:                address,
			Frequency:              freqCode,
			Bins:                   bins,
			DemandPerVisitLbs:      int(lbsPerVisit),
			RevenuePerVisit:        revenuePerVisit,
			StructuralCostPerVisit: structuralCostPerVisit,
			ServiceMinutes:         serviceMinutes,
		})
	}

	return sites, nil
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
