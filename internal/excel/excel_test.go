package excel

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/mirogeorg/Microinvest-Invoice-Pro-import-export/internal/database"
)

func TestWriteItemsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.xlsx")

	items := []database.ExportedItem{
		{Code: "001", Name: "Кашкавал", Measure: "кг", SalePrice: 12.5, VatRateID: 1, GroupID: 1, StatusID: 3, VatTermID: 7},
		{Code: "A2", Name: "Widget", Measure: "бр.", SalePrice: 3, VatRateID: 2, GroupID: 1, StatusID: 3, VatTermID: 7},
	}
	lookups := []LookupSheet{
		{
			Lookup: database.ItemLookups[0],
			Rows: []database.LookupRow{
				{ID: 1, Description: "Standard", Extra: []any{20.0, "S"}},
				{ID: 2, Description: "Reduced", Extra: []any{9.0, "R"}},
			},
		},
	}

	if err := WriteItems(path, items, lookups); err != nil {
		t.Fatalf("WriteItems() error = %v", err)
	}

	table, err := ReadTable(path, []string{ItemSheet}, 0, 0)
	if err != nil {
		t.Fatalf("ReadTable() error = %v", err)
	}
	if table.Sheet != ItemSheet {
		t.Errorf("sheet = %q, want %q", table.Sheet, ItemSheet)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(table.Rows))
	}
	if got := table.Rows[0]["Стока"]; got != "Кашкавал" {
		t.Errorf("name = %q, want %q", got, "Кашкавал")
	}
	if got := table.Rows[1]["Код"]; got != "A2" {
		t.Errorf("code = %q, want %q", got, "A2")
	}
	if got := table.Rows[0]["ДДС Срок ID"]; got != "7" {
		t.Errorf("vat term = %q, want %q", got, "7")
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer f.Close()

	display, err := f.GetCellValue("VatRates", "B2")
	if err != nil {
		t.Fatalf("lookup display cell: %v", err)
	}
	if display != "1 - Standard" {
		t.Errorf("display = %q, want %q", display, "1 - Standard")
	}

	validations, err := f.GetDataValidations(ItemSheet)
	if err != nil {
		t.Fatalf("read validations: %v", err)
	}
	if len(validations) != 1 {
		t.Errorf("validations = %d, want 1", len(validations))
	}
}

func TestWriteItems_EmptyResultKeepsHeaderSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")

	lookups := []LookupSheet{
		{
			Lookup: database.ItemLookups[0],
			Rows:   []database.LookupRow{{ID: 1, Description: "Standard", Extra: []any{20.0, "S"}}},
		},
	}
	if err := WriteItems(path, nil, lookups); err != nil {
		t.Fatalf("WriteItems() error = %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer f.Close()

	header, err := f.GetCellValue(ItemSheet, "A1")
	if err != nil {
		t.Fatalf("header cell: %v", err)
	}
	if header != "Код" {
		t.Errorf("header A1 = %q, want %q", header, "Код")
	}

	// No data rows means no dropdowns, even with populated lookups.
	validations, err := f.GetDataValidations(ItemSheet)
	if err != nil {
		t.Fatalf("read validations: %v", err)
	}
	if len(validations) != 0 {
		t.Errorf("validations = %d, want 0", len(validations))
	}

	if _, err := ReadTable(path, []string{ItemSheet}, 0, 0); !errors.Is(err, ErrEmptySheet) {
		t.Errorf("ReadTable() error = %v, want ErrEmptySheet", err)
	}
}

func TestWritePartnersRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partners.xlsx")

	partners := []database.ExportedPartner{
		{PartnerID: 5, Name: "Фирма ООД", NameEnglish: "Firma OOD", Visible: 1, GroupID: 1, StatusID: 1, MainPartnerID: 5},
	}
	if err := WritePartners(path, partners); err != nil {
		t.Fatalf("WritePartners() error = %v", err)
	}

	table, err := ReadTable(path, []string{PartnerSheet, "Partners"}, 0, 0)
	if err != nil {
		t.Fatalf("ReadTable() error = %v", err)
	}
	if table.Sheet != PartnerSheet {
		t.Errorf("sheet = %q, want %q", table.Sheet, PartnerSheet)
	}
	if got := table.Rows[0]["Име"]; got != "Фирма ООД" {
		t.Errorf("name = %q, want %q", got, "Фирма ООД")
	}
	if got := table.Rows[0]["PartnerID"]; got != "5" {
		t.Errorf("partner id = %q, want %q", got, "5")
	}
	if len(table.Headers) != len(PartnerHeaders) {
		t.Errorf("headers = %d, want %d", len(table.Headers), len(PartnerHeaders))
	}
}

func TestReadTable_SheetNameFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.xlsx")
	rows := [][]any{{"A1", "Widget"}}
	if err := WriteRows(path, "Данни", []string{"Код", "Стока"}, rows); err != nil {
		t.Fatalf("WriteRows() error = %v", err)
	}

	table, err := ReadTable(path, []string{"Items", "Партньори"}, 0, 0)
	if err != nil {
		t.Fatalf("ReadTable() error = %v", err)
	}
	if table.Sheet != "Данни" {
		t.Errorf("fallback sheet = %q, want %q", table.Sheet, "Данни")
	}
}

func TestReadTable_SkipRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skip.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	cells := map[string]string{
		"A1": "Експорт от склад", "A2": "",
		"A3": "Код", "B3": "Стока",
		"A4": "A1", "B4": "Widget",
	}
	for cell, value := range cells {
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			t.Fatalf("seed cell %s: %v", cell, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("seed workbook: %v", err)
	}
	f.Close()

	table, err := ReadTable(path, nil, 0, 2)
	if err != nil {
		t.Fatalf("ReadTable() error = %v", err)
	}
	if len(table.Headers) < 2 || table.Headers[0] != "Код" || table.Headers[1] != "Стока" {
		t.Errorf("headers = %v, want [Код Стока]", table.Headers)
	}
	if len(table.Rows) != 1 || table.Rows[0]["Стока"] != "Widget" {
		t.Errorf("rows = %v", table.Rows)
	}
}

func TestTable_MissingColumns(t *testing.T) {
	table := &Table{Headers: []string{"Код", "Стока", "Мярка"}}

	missing := table.MissingColumns([]string{"Код", "Стока", "Мярка", "Цена"})
	if len(missing) != 1 || missing[0] != "Цена" {
		t.Errorf("missing = %v, want [Цена]", missing)
	}
	if got := table.MissingColumns([]string{"Код"}); got != nil {
		t.Errorf("missing = %v, want nil", got)
	}

	if !table.HasAnyColumn([]string{"Име", "Name", "Стока"}) {
		t.Error("HasAnyColumn should find Стока")
	}
	if table.HasAnyColumn([]string{"Име", "Name", "Company"}) {
		t.Error("HasAnyColumn found a column that is not there")
	}
}

func TestRemoveDestination(t *testing.T) {
	dir := t.TempDir()

	if err := RemoveDestination(filepath.Join(dir, "absent.xlsx")); err != nil {
		t.Errorf("RemoveDestination(absent) error = %v", err)
	}

	path := filepath.Join(dir, "stale.xlsx")
	if err := os.WriteFile(path, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := RemoveDestination(path); err != nil {
		t.Errorf("RemoveDestination() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("destination still exists")
	}
}
