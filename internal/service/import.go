package service

import (
	"context"
	"fmt"

	"github.com/mirogeorg/Microinvest-Invoice-Pro-import-export/internal/catalog"
	"github.com/mirogeorg/Microinvest-Invoice-Pro-import-export/internal/database"
	"github.com/mirogeorg/Microinvest-Invoice-Pro-import-export/internal/excel"
)

// ImportItems replaces the visible rows of the configured items table with
// the records of an operator-chosen workbook. The replacement is one
// all-or-nothing transaction; rejected source rows are tallied, never
// inserted.
func (s *Service) ImportItems(ctx context.Context) (database.Outcome, error) {
	log := s.runLogger("import items").With("table", s.cfg.Database.Table)

	path, ok := s.prompter.PickOpenPath("Изберете Excel файл за импорт")
	if !ok {
		log.Info("import cancelled")
		return database.Outcome{}, database.ErrAborted
	}
	log.Info("import started", "file", path)

	table, err := excel.ReadTable(path,
		[]string{excel.ItemSheet}, s.cfg.Excel.SheetIndex, s.cfg.Excel.SkipRows)
	if err != nil {
		log.Error("cannot read the import file", "error", err)
		return database.Outcome{}, err
	}
	if missing := table.MissingColumns(catalog.ItemColumns); len(missing) > 0 {
		log.Error("import file rejected", "missing_columns", missing)
		return database.Outcome{}, fmt.Errorf("%w: %v", excel.ErrMissingColumns, missing)
	}

	records, rejected := catalog.NormalizeItems(table.Rows)
	if rejected > 0 {
		log.Warn("rows without code or name rejected", "rejected", rejected)
	}
	if len(records) == 0 {
		log.Error("no valid rows in the import file")
		return database.Outcome{Rejected: rejected}, fmt.Errorf("%w: no valid rows", excel.ErrEmptySheet)
	}

	if !s.prompter.Confirm(fmt.Sprintf(
		"Ще бъдат заменени записите в %s с %d нови. Потвърждавате ли?",
		s.cfg.Database.Table, len(records))) {
		log.Info("import cancelled before replacement")
		return database.Outcome{Rejected: rejected}, database.ErrAborted
	}

	sess, err := s.negotiate(ctx, s.cfg.Database.Table, log)
	if err != nil {
		return database.Outcome{Rejected: rejected}, err
	}
	defer sess.Close()

	outcome, err := database.Replace(ctx, sess, database.ItemsSpec(s.cfg.Database.Table),
		len(records), func(i int, _ int64) []any {
			return records[i].InsertValues()
		})
	outcome.Rejected = rejected
	if err != nil {
		return outcome, err
	}

	log.Info("import finished", "inserted", outcome.Inserted, "rejected", outcome.Rejected)
	return outcome, nil
}

// ImportPartners replaces the visible rows of the Partners table with the
// records of an operator-chosen workbook. Partner keys are assigned
// explicitly, contiguously after the pre-existing maximum.
func (s *Service) ImportPartners(ctx context.Context) (database.Outcome, error) {
	log := s.runLogger("import partners")

	path, ok := s.prompter.PickOpenPath("Изберете Excel файл за импорт на партньори")
	if !ok {
		log.Info("import cancelled")
		return database.Outcome{}, database.ErrAborted
	}
	log.Info("import started", "file", path)

	table, err := excel.ReadTable(path,
		[]string{excel.PartnerSheet, "Partners"}, s.cfg.Excel.SheetIndex, s.cfg.Excel.SkipRows)
	if err != nil {
		log.Error("cannot read the import file", "error", err)
		return database.Outcome{}, err
	}
	if !table.HasAnyColumn(catalog.PartnerNameColumns) {
		log.Error("import file rejected", "missing_columns", catalog.PartnerNameColumns)
		return database.Outcome{}, fmt.Errorf("%w: need one of %v",
			excel.ErrMissingColumns, catalog.PartnerNameColumns)
	}

	records, rejected := catalog.NormalizePartners(table.Rows)
	if rejected > 0 {
		log.Warn("rows without a partner name rejected", "rejected", rejected)
	}
	if len(records) == 0 {
		log.Error("no valid rows in the import file")
		return database.Outcome{Rejected: rejected}, fmt.Errorf("%w: no valid rows", excel.ErrEmptySheet)
	}

	if !s.prompter.Confirm(fmt.Sprintf(
		"Ще бъдат заменени записите в Partners с %d нови. Потвърждавате ли?", len(records))) {
		log.Info("import cancelled before replacement")
		return database.Outcome{Rejected: rejected}, database.ErrAborted
	}

	sess, err := s.negotiate(ctx, "Partners", log)
	if err != nil {
		return database.Outcome{Rejected: rejected}, err
	}
	defer sess.Close()

	outcome, err := database.Replace(ctx, sess, database.PartnersSpec(),
		len(records), func(i int, key int64) []any {
			return records[i].InsertValues(key)
		})
	outcome.Rejected = rejected
	if err != nil {
		return outcome, err
	}

	log.Info("import finished", "inserted", outcome.Inserted, "rejected", outcome.Rejected)
	return outcome, nil
}
