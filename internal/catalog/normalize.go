package catalog

import (
	"strconv"
	"strings"
)

// ParseID extracts an integer identifier from a loosely-typed cell value.
// Numeric values are truncated to an integer. Values shaped like
// "7 - Standard" — the round-trip export format for dropdown-chosen cells —
// yield the leading integer. Anything else reports ok=false so the caller
// can apply the field's default.
func ParseID(value string) (int, bool) {
	s := strings.TrimSpace(value)
	if s == "" {
		return 0, false
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f), true
	}

	if head, _, found := strings.Cut(s, " - "); found {
		if n, err := strconv.Atoi(strings.TrimSpace(head)); err == nil {
			return n, true
		}
	}

	return 0, false
}

// idOrDefault resolves an ID-like cell, falling back to def when unset.
func idOrDefault(row Row, column string, def int) int {
	if n, ok := ParseID(row[column]); ok {
		return n
	}
	return def
}

// parsePrice converts a price cell. Non-numeric or missing values become 0.
func parsePrice(value string) float64 {
	s := strings.TrimSpace(value)
	if s == "" {
		return 0
	}
	// Tolerate a decimal comma, common in Bulgarian locale spreadsheets.
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// cleanString trims a cell and substitutes def for blank values.
func cleanString(value, def string) string {
	s := strings.TrimSpace(value)
	if s == "" {
		return def
	}
	return s
}

// pickFirst returns the first non-blank value among candidate columns.
func pickFirst(row Row, candidates []string) string {
	for _, col := range candidates {
		if v, ok := row[col]; ok {
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		}
	}
	return ""
}

// toInt converts a loosely-typed cell to an integer. Textual booleans
// (true/yes/да, false/no/не) map to 1/0; otherwise ParseID applies, and
// unparsable values fall back to def.
func toInt(value string, def int) int {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "yes", "да":
		return 1
	case "false", "no", "не":
		return 0
	}
	if n, ok := ParseID(value); ok {
		return n
	}
	return def
}

// NormalizeItems validates and defaults raw item rows. Rows whose identity
// columns (code and name) do not both survive trimming are rejected and
// counted, never defaulted. Normalization always completes: it returns only
// well-formed records plus the total reject tally.
func NormalizeItems(rows []Row) ([]ItemRecord, int) {
	records := make([]ItemRecord, 0, len(rows))
	rejected := 0

	for _, row := range rows {
		code := strings.TrimSpace(row[ColCode])
		name := strings.TrimSpace(row[ColName])
		if code == "" || name == "" {
			rejected++
			continue
		}

		measure := cleanString(row[ColMeasure], DefaultMeasure)
		records = append(records, ItemRecord{
			Code:      code,
			Name:      name,
			Name2:     Transliterate(name),
			Measure:   measure,
			Measure2:  Transliterate(measure),
			SalePrice: parsePrice(row[ColPrice]),
			VatRateID: idOrDefault(row, ColVatRate, DefaultVatRateID),
			GroupID:   idOrDefault(row, ColGroup, DefaultGroupID),
			StatusID:  idOrDefault(row, ColStatus, DefaultStatusID),
			VatTermID: idOrDefault(row, ColVatTerm, DefaultVatTermID),
		})
	}

	return records, rejected
}

// NormalizePartners validates and defaults raw partner rows. The partner name
// resolves from the first populated name-like column; rows without one are
// rejected and counted. English name fields default to the transliteration of
// their Cyrillic source when the sheet carries no explicit value.
func NormalizePartners(rows []Row) ([]PartnerRecord, int) {
	records := make([]PartnerRecord, 0, len(rows))
	rejected := 0

	for _, row := range rows {
		name := pickFirst(row, PartnerNameColumns)
		if name == "" {
			rejected++
			continue
		}

		contactName := pickFirst(row, []string{"Лице за контакт", "ContactName", "MOL"})
		records = append(records, PartnerRecord{
			Name:               name,
			NameEnglish:        cleanString(pickFirst(row, []string{"Име (EN)", "NameEnglish"}), Transliterate(name)),
			ContactName:        contactName,
			ContactNameEnglish: cleanString(pickFirst(row, []string{"Лице за контакт (EN)", "ContactNameEnglish"}), Transliterate(contactName)),
			EMail:              pickFirst(row, []string{"EMail", "Email"}),
			Bulstat:            pickFirst(row, []string{"Булстат", "Bulstat"}),
			VatID:              pickFirst(row, []string{"ДДС Номер", "VatId", "TaxNo"}),
			BankName:           pickFirst(row, []string{"Банка", "BankName"}),
			BankCode:           pickFirst(row, []string{"Банков код", "BankCode"}),
			BankAccount:        pickFirst(row, []string{"Банкова сметка", "BankAccount"}),
			Priority:           toInt(row["Priority"], 0),
			GroupID:            toInt(row["GroupID"], DefaultPartnerGroupID),
			StatusID:           toInt(row["StatusID"], DefaultPartnerStatusID),
			CountryID:          toInt(row["CountryID"], 0),
		})
	}

	return records, rejected
}
