package service

import (
	"context"

	"github.com/mirogeorg/Microinvest-Invoice-Pro-import-export/internal/database"
	"github.com/mirogeorg/Microinvest-Invoice-Pro-import-export/internal/excel"
)

// ExportItems writes the visible rows of the configured items table to an
// operator-chosen workbook, together with the four lookup sheets and the
// dropdown validations bound to them. An empty table still produces a
// header-only Items sheet. A destination that cannot be replaced aborts
// before any database contact.
func (s *Service) ExportItems(ctx context.Context) (int, error) {
	log := s.runLogger("export items").With("table", s.cfg.Database.Table)

	path, ok := s.prompter.PickSavePath("Запази Excel файл като", s.suggestPath("invoice_pro_items_export.xlsx"))
	if !ok {
		log.Info("export cancelled")
		return 0, database.ErrAborted
	}
	if err := excel.RemoveDestination(path); err != nil {
		log.Error("destination file is not writable", "file", path, "error", err)
		return 0, err
	}
	log.Info("export started", "file", path,
		"server", s.cfg.Database.Server, "database", s.cfg.Database.Database)

	sess, err := s.negotiate(ctx, s.cfg.Database.Table, log)
	if err != nil {
		return 0, err
	}
	defer sess.Close()

	items, err := sess.VisibleItems(ctx, s.cfg.Database.Table)
	if err != nil {
		log.Error("cannot read the items table", "error", err)
		return 0, err
	}
	if len(items) == 0 {
		log.Info("no visible rows, writing a header-only sheet")
	}

	lookups := make([]excel.LookupSheet, 0, len(database.ItemLookups))
	for _, l := range database.ItemLookups {
		rows, err := sess.LookupRows(ctx, l)
		if err != nil {
			log.Error("cannot read a lookup table", "sheet", l.Sheet, "error", err)
			return 0, err
		}
		lookups = append(lookups, excel.LookupSheet{Lookup: l, Rows: rows})
	}

	if err := excel.WriteItems(path, items, lookups); err != nil {
		log.Error("cannot write the export file", "error", err)
		return 0, err
	}

	log.Info("export finished", "exported", len(items))
	return len(items), nil
}

// ExportPartners writes the visible rows of the Partners table to an
// operator-chosen workbook as a single sheet.
func (s *Service) ExportPartners(ctx context.Context) (int, error) {
	log := s.runLogger("export partners")

	path, ok := s.prompter.PickSavePath("Запази Excel файл като", s.suggestPath("invoice_pro_partners_export.xlsx"))
	if !ok {
		log.Info("export cancelled")
		return 0, database.ErrAborted
	}
	if err := excel.RemoveDestination(path); err != nil {
		log.Error("destination file is not writable", "file", path, "error", err)
		return 0, err
	}
	log.Info("export started", "file", path,
		"server", s.cfg.Database.Server, "database", s.cfg.Database.Database)

	sess, err := s.negotiate(ctx, "Partners", log)
	if err != nil {
		return 0, err
	}
	defer sess.Close()

	partners, err := sess.VisiblePartners(ctx)
	if err != nil {
		log.Error("cannot read the Partners table", "error", err)
		return 0, err
	}
	if len(partners) == 0 {
		log.Info("no visible rows, writing a header-only sheet")
	}

	if err := excel.WritePartners(path, partners); err != nil {
		log.Error("cannot write the export file", "error", err)
		return 0, err
	}

	log.Info("export finished", "exported", len(partners))
	return len(partners), nil
}
