// Package excel reads and writes the xlsx workbooks exchanged with the
// operator: import sources, export destinations, and converted files.
package excel

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/mirogeorg/Microinvest-Invoice-Pro-import-export/internal/catalog"
)

var (
	// ErrFileUnavailable reports a destination that exists but cannot be
	// replaced, typically because another program holds it open.
	ErrFileUnavailable = errors.New("file is open in another program")

	// ErrEmptySheet reports a sheet with no data rows under the header.
	ErrEmptySheet = errors.New("sheet has no data rows")

	// ErrMissingColumns reports an import sheet lacking mandatory columns.
	ErrMissingColumns = errors.New("mandatory columns missing")
)

// Table is one sheet read into header-keyed rows.
type Table struct {
	// Sheet is the name of the sheet actually read, after name fallback.
	Sheet string

	Headers []string
	Rows    []catalog.Row
}

// ReadTable reads the first sheet matching one of the given names, falling
// back to the sheet at fallbackIndex when none matches. skipRows leading rows
// are discarded before the header row is taken.
func ReadTable(path string, names []string, fallbackIndex, skipRows int) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %q: %w", path, err)
	}
	defer f.Close()

	sheet, err := resolveSheet(f, names, fallbackIndex)
	if err != nil {
		return nil, err
	}

	raw, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if skipRows > 0 {
		if skipRows >= len(raw) {
			raw = nil
		} else {
			raw = raw[skipRows:]
		}
	}
	if len(raw) < 2 {
		return nil, fmt.Errorf("%w: %q", ErrEmptySheet, sheet)
	}

	headers := make([]string, len(raw[0]))
	for i, h := range raw[0] {
		headers[i] = strings.TrimSpace(h)
	}

	table := &Table{Sheet: sheet, Headers: headers}
	for _, cells := range raw[1:] {
		if blankRow(cells) {
			continue
		}
		row := make(catalog.Row, len(headers))
		for i, header := range headers {
			if header == "" {
				continue
			}
			if i < len(cells) {
				row[header] = cells[i]
			} else {
				row[header] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}
	if len(table.Rows) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptySheet, sheet)
	}
	return table, nil
}

// MissingColumns returns the required headers absent from the table.
func (t *Table) MissingColumns(required []string) []string {
	var missing []string
	for _, want := range required {
		found := false
		for _, h := range t.Headers {
			if h == want {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, want)
		}
	}
	return missing
}

// HasAnyColumn reports whether at least one of the candidates is present.
func (t *Table) HasAnyColumn(candidates []string) bool {
	for _, c := range candidates {
		if len(t.MissingColumns([]string{c})) == 0 {
			return true
		}
	}
	return false
}

// RemoveDestination deletes path if it exists, so the export writes a fresh
// workbook. A file that cannot be removed is reported as unavailable before
// any database work starts.
func RemoveDestination(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %v", ErrFileUnavailable, err)
	}
	return nil
}

func resolveSheet(f *excelize.File, names []string, fallbackIndex int) (string, error) {
	for _, name := range names {
		if idx, err := f.GetSheetIndex(name); err == nil && idx >= 0 {
			return name, nil
		}
	}
	list := f.GetSheetList()
	if fallbackIndex < 0 || fallbackIndex >= len(list) {
		return "", fmt.Errorf("workbook has no sheet at index %d", fallbackIndex)
	}
	return list[fallbackIndex], nil
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
