package excel

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/mirogeorg/Microinvest-Invoice-Pro-import-export/internal/database"
)

// ItemSheet is the primary sheet name of an items export.
const ItemSheet = "Items"

// PartnerSheet is the sheet name partners are exported to and imported from.
const PartnerSheet = "Партньори"

// ItemHeaders are the items-sheet headers, in column order A-H.
var ItemHeaders = []string{
	"Код", "Стока", "Мярка", "Цена",
	"ДДС ID", "Група ID", "Статус ID", "ДДС Срок ID",
}

// PartnerHeaders are the partners-sheet headers, column for column against
// the Partners table.
var PartnerHeaders = []string{
	"PartnerID", "Име", "Име (EN)", "Лице за контакт", "Лице за контакт (EN)",
	"EMail", "Булстат", "ДДС Номер", "Банка", "Банков код", "Банкова сметка",
	"Priority", "GroupID", "Visible", "MainPartnerID", "StatusID",
	"IsExported", "IsOSSPartner", "CountryID", "DocumentEndDatePeriod",
}

// lookupSourceRows is the fixed extent of the display range a dropdown is
// bound to, so the validation keeps working when lookup rows are added later.
const lookupSourceRows = 1000

// maxColumnWidth caps auto-sized column widths.
const maxColumnWidth = 50

// LookupSheet pairs one lookup definition with its rows.
type LookupSheet struct {
	Lookup database.Lookup
	Rows   []database.LookupRow
}

// WriteItems writes the items export workbook: the primary Items sheet plus
// one sheet per non-empty lookup, with the ID columns E-H of the primary
// sheet bound to dropdowns over each lookup's display column. An empty item
// set still produces a header-only Items sheet and skips the dropdowns.
func WriteItems(path string, items []database.ExportedItem, lookups []LookupSheet) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ItemSheet); err != nil {
		return fmt.Errorf("name items sheet: %w", err)
	}

	rows := make([][]any, len(items))
	for i, it := range items {
		rows[i] = []any{
			it.Code, it.Name, it.Measure, it.SalePrice,
			it.VatRateID, it.GroupID, it.StatusID, it.VatTermID,
		}
	}
	if err := writeGrid(f, ItemSheet, ItemHeaders, rows); err != nil {
		return err
	}
	if err := formatItemColumns(f, len(items)); err != nil {
		return err
	}

	for _, ls := range lookups {
		if len(ls.Rows) == 0 {
			continue
		}
		if err := writeLookup(f, ls); err != nil {
			return err
		}
		if len(items) > 0 {
			if err := addDropdown(f, ls.Lookup.Column, ls.Lookup.Sheet, len(items)); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %q: %w", path, err)
	}
	return nil
}

// WritePartners writes the partners export workbook: a single sheet, column
// for column against the Partners table.
func WritePartners(path string, partners []database.ExportedPartner) error {
	rows := make([][]any, len(partners))
	for i, p := range partners {
		rows[i] = []any{
			p.PartnerID, p.Name, p.NameEnglish, p.ContactName, p.ContactNameEnglish,
			p.EMail, p.Bulstat, p.VatID, p.BankName, p.BankCode, p.BankAccount,
			p.Priority, p.GroupID, p.Visible, p.MainPartnerID, p.StatusID,
			p.IsExported, p.IsOSSPartner, p.CountryID, p.DocumentEndDatePeriod,
		}
	}
	return WriteRows(path, PartnerSheet, PartnerHeaders, rows)
}

// WriteRows writes a single-sheet workbook with the given headers and rows.
func WriteRows(path, sheet string, headers []string, rows [][]any) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("name sheet %q: %w", sheet, err)
	}
	if err := writeGrid(f, sheet, headers, rows); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %q: %w", path, err)
	}
	return nil
}

// writeGrid fills a sheet with a bold header row, the data rows, and
// content-sized column widths.
func writeGrid(f *excelize.File, sheet string, headers []string, rows [][]any) error {
	widths := make([]float64, len(headers))

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("write header %q: %w", header, err)
		}
		widths[col] = cellWidth(header)
	}

	for r, row := range rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("write cell %s: %w", cell, err)
			}
			if col < len(widths) {
				if w := cellWidth(fmt.Sprint(value)); w > widths[col] {
					widths[col] = w
				}
			}
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return fmt.Errorf("apply header style: %w", err)
	}

	for col, width := range widths {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, width); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}
	return nil
}

// formatItemColumns applies the items-sheet number formats: text on the code
// and measure columns so leading zeros survive, two decimals on the price.
func formatItemColumns(f *excelize.File, n int) error {
	if n == 0 {
		return nil
	}
	text, err := f.NewStyle(&excelize.Style{NumFmt: 49})
	if err != nil {
		return fmt.Errorf("text style: %w", err)
	}
	price, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return fmt.Errorf("price style: %w", err)
	}

	lastRow := strconv.Itoa(n + 1)
	for _, c := range []struct {
		column string
		style  int
	}{
		{"A", text},
		{"C", text},
		{"D", price},
	} {
		if err := f.SetCellStyle(ItemSheet, c.column+"2", c.column+lastRow, c.style); err != nil {
			return fmt.Errorf("format column %s: %w", c.column, err)
		}
	}
	return nil
}

// writeLookup writes one lookup sheet: key, a synthetic "id - description"
// display column, the description, then any extra columns.
func writeLookup(f *excelize.File, ls LookupSheet) error {
	if _, err := f.NewSheet(ls.Lookup.Sheet); err != nil {
		return fmt.Errorf("create sheet %q: %w", ls.Lookup.Sheet, err)
	}

	rows := make([][]any, len(ls.Rows))
	for i, r := range ls.Rows {
		display := strconv.FormatInt(r.ID, 10) + " - " + r.Description
		row := []any{r.ID, display, r.Description}
		rows[i] = append(row, r.Extra...)
	}
	return writeGrid(f, ls.Lookup.Sheet, ls.Lookup.Headers, rows)
}

// addDropdown binds one primary-sheet column to the display column of a
// lookup sheet for data rows 2..n+1.
func addDropdown(f *excelize.File, column, sourceSheet string, n int) error {
	dv := excelize.NewDataValidation(true)
	dv.Sqref = fmt.Sprintf("%s2:%s%d", column, column, n+1)
	dv.SetSqrefDropList(fmt.Sprintf("'%s'!$B$2:$B$%d", sourceSheet, lookupSourceRows))
	dv.SetError(excelize.DataValidationErrorStyleStop,
		"Невалидна стойност", "Моля изберете стойност от списъка")
	dv.SetInput("Справочник", "Изберете от "+sourceSheet)

	if err := f.AddDataValidation(ItemSheet, dv); err != nil {
		return fmt.Errorf("bind dropdown %s -> %s: %w", column, sourceSheet, err)
	}
	return nil
}

func cellWidth(value string) float64 {
	w := float64(len([]rune(value)) + 2)
	if w > maxColumnWidth {
		return maxColumnWidth
	}
	return w
}
