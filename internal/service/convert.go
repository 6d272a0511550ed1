package service

import (
	"strings"

	"github.com/mirogeorg/Microinvest-Invoice-Pro-import-export/internal/catalog"
	"github.com/mirogeorg/Microinvest-Invoice-Pro-import-export/internal/database"
	"github.com/mirogeorg/Microinvest-Invoice-Pro-import-export/internal/excel"
)

// ConvertOutcome summarizes one Warehouse Pro partner conversion.
type ConvertOutcome struct {
	Converted int

	// GeneratedIDs counts rows whose PartnerID had to be synthesized from the
	// row ordinal because the source carried none.
	GeneratedIDs int
}

// partnerIDColumns are the source columns a partner key resolves from, in
// order of preference.
var partnerIDColumns = []string{"PartnerID", "ID", "MainPartnerID"}

// ConvertWarehousePartners turns a Warehouse Pro partner workbook into an
// import-ready Invoice Pro one: the source "Partners" sheet is remapped to
// the Bulgarian import headers and written as a single "Партньори" sheet.
// No database contact happens; the result is meant to be fed to the partner
// import afterwards.
func (s *Service) ConvertWarehousePartners() (ConvertOutcome, error) {
	log := s.runLogger("convert warehouse partners")

	source, ok := s.prompter.PickOpenPath("Изберете Excel файл от Warehouse Pro (sheet Partners)")
	if !ok {
		log.Info("conversion cancelled")
		return ConvertOutcome{}, database.ErrAborted
	}
	target, ok := s.prompter.PickSavePath("Запази готовия файл за импорт",
		s.suggestPath("invoice_pro_partners_import_ready.xlsx"))
	if !ok {
		log.Info("conversion cancelled")
		return ConvertOutcome{}, database.ErrAborted
	}
	if err := excel.RemoveDestination(target); err != nil {
		log.Error("destination file is not writable", "file", target, "error", err)
		return ConvertOutcome{}, err
	}
	log.Info("conversion started", "source", source, "target", target)

	table, err := excel.ReadTable(source, []string{"Partners"}, 0, 0)
	if err != nil {
		log.Error("cannot read the source file", "error", err)
		return ConvertOutcome{}, err
	}

	outcome := ConvertOutcome{}
	rows := make([][]any, 0, len(table.Rows))
	for i, row := range table.Rows {
		partnerID, generated := resolvePartnerID(row, i)
		if generated {
			outcome.GeneratedIDs++
		}
		rows = append(rows, convertedRow(row, partnerID))
	}

	if err := excel.WriteRows(target, excel.PartnerSheet, excel.PartnerHeaders, rows); err != nil {
		log.Error("cannot write the converted file", "error", err)
		return outcome, err
	}

	outcome.Converted = len(rows)
	if outcome.GeneratedIDs > 0 {
		log.Warn("partner keys synthesized from row position", "rows", outcome.GeneratedIDs)
	}
	log.Info("conversion finished", "converted", outcome.Converted)
	return outcome, nil
}

// resolvePartnerID takes the key from the first populated ID-like column, or
// synthesizes it from the row ordinal when none parses.
func resolvePartnerID(row catalog.Row, index int) (int, bool) {
	for _, col := range partnerIDColumns {
		if id, ok := catalog.ParseID(row[col]); ok {
			return id, false
		}
	}
	return index + 1, true
}

// convertedRow maps one source row onto the Invoice Pro partner headers.
// Field order matches excel.PartnerHeaders.
func convertedRow(row catalog.Row, partnerID int) []any {
	return []any{
		partnerID,
		firstValue(row, "Company", "Name"),
		firstValue(row, "NameEnglish"),
		firstValue(row, "MOL", "ContactName"),
		firstValue(row, "ContactNameEnglish"),
		firstValue(row, "EMail", "Email"),
		firstValue(row, "Bulstat"),
		firstValue(row, "TaxNo", "VatId"),
		firstValue(row, "BankName"),
		firstValue(row, "BankCode"),
		firstValue(row, "BankAccount"),
		intValue(row, "Priority", 0),
		intValue(row, "GroupID", catalog.DefaultPartnerGroupID),
		intValue(row, "Visible", 1),
		partnerID,
		intValue(row, "StatusID", catalog.DefaultPartnerStatusID),
		intValue(row, "IsExported", 0),
		intValue(row, "IsOSSPartner", 0),
		intValue(row, "CountryID", 0),
		intValue(row, "DocumentEndDatePeriod", 0),
	}
}

func firstValue(row catalog.Row, candidates ...string) string {
	for _, col := range candidates {
		if v := strings.TrimSpace(row[col]); v != "" {
			return v
		}
	}
	return ""
}

func intValue(row catalog.Row, column string, def int) int {
	if n, ok := catalog.ParseID(row[column]); ok {
		return n
	}
	return def
}
