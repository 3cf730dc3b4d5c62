package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"gpsnav/internal/model"
)

func writeWorkbook(t *testing.T, rows [][]string) string {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	if err := f.SetSheetName(sheet, sheetName); err != nil {
		t.Fatalf("rename sheet: %v", err)
	}
	for i, row := range rows {
		for j, val := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("cell ref: %v", err)
			}
			if err := f.SetCellStr(sheetName, cellRef, val); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "Route_Mapping.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	return path
}

func TestLoadSitesSkipsEmptyAndStubRows(t *testing.T) {
	rows := [][]string{
		{"title"},
		{"", "Site_ID", "Address", "Freq", "Bins", "AnnualLbs", "Rent", "Waste", "Visits", "LbsPerVisit", "RevPerVisit", "SvcMin", "Value"},
		{"", "101", "123 Main St", "D1", "2", "10400", "1200", "600", "260", "40", "12", "3900", "5000"},
		{"", "", "", "", "", "", "", "", "", "", "", "", ""},
		{"", "101", "", "", "", "", "", "", "", "", "", "", ""},
	}
	path := writeWorkbook(t, rows)

	sites, err := LoadSites(path, 6000)
	if err != nil {
		t.Fatalf("LoadSites: %v", err)
	}
	if len(sites) != 1 {
		t.Fatalf("want 1 site, got %d", len(sites))
	}
	s := sites[0]
	if s.SiteID != 101 || s.Address != "123 Main St" {
		t.Fatalf("unexpected site: %+v", s)
	}
	if s.Frequency != model.D1 {
		t.Fatalf("want D1, got %s", s.Frequency)
	}
	if s.Bins != 2 {
		t.Fatalf("want 2 bins, got %d", s.Bins)
	}
	if s.ServiceMinutes != 30 {
		t.Fatalf("want 30 service minutes (2 bins x 15), got %d", s.ServiceMinutes)
	}
}

func TestLoadSitesDefaultsUnknownFrequencyToD1(t *testing.T) {
	rows := [][]string{
		{"title"},
		{"header"},
		{"", "202", "456 Oak Ave", "ZZ", "1", "5200", "0", "0", "0", "0", "0", "0", "0"},
	}
	path := writeWorkbook(t, rows)

	sites, err := LoadSites(path, 6000)
	if err != nil {
		t.Fatalf("LoadSites: %v", err)
	}
	if len(sites) != 1 || sites[0].Frequency != model.D1 {
		t.Fatalf("want default D1, got %+v", sites)
	}
}

func TestLoadSitesMissingWorkbookReturnsError(t *testing.T) {
	if _, err := LoadSites(filepath.Join(os.TempDir(), "does-not-exist.xlsx"), 6000); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadSitesRejectsNonPositiveBinsWithPositiveDemand(t *testing.T) {
	rows := [][]string{
		{"title"},
		{"header"},
		{"", "303", "789 Pine Rd", "D1", "0", "5200", "0", "0", "260", "20", "0", "0", "0"},
	}
	path := writeWorkbook(t, rows)

	_, err := LoadSites(path, 6000)
	if err == nil {
		t.Fatalf("expected InputError for non-positive bins with positive demand")
	}
	if _, ok := err.(*model.InputError); !ok {
		t.Fatalf("want *model.InputError, got %T", err)
	}
}

func TestLoadSitesRejectsDemandAboveMaxLegalPayload(t *testing.T) {
	rows := [][]string{
		{"title"},
		{"header"},
		{"", "404", "1 Overweight Ln", "D1", "2", "400000", "0", "0", "260", "7000", "0", "0", "0"},
	}
	path := writeWorkbook(t, rows)

	_, err := LoadSites(path, 6000)
	if err == nil {
		t.Fatalf("expected InputError for demand exceeding max legal payload")
	}
	if _, ok := err.(*model.InputError); !ok {
		t.Fatalf("want *model.InputError, got %T", err)
	}
}
