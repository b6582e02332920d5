package exporter

import (
	"archive/zip"
	"encoding/csv"
	"io"

	apperrors "claimsdash/internal/errors"
	"claimsdash/pkg/contracts/domain"
)

// utf8BOM prefixes every CSV so spreadsheet applications decode the currency
// and label glyphs correctly.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WritePivotCSV writes a single pivot table as a BOM-prefixed CSV.
func WritePivotCSV(w io.Writer, table domain.PivotTable) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return apperrors.NewExportError("write BOM", err)
	}

	cw := csv.NewWriter(w)
	header := append([]string(nil), pivotHeader...)
	header[0] = table.Category
	if err := cw.Write(header); err != nil {
		return apperrors.NewExportError("write csv header", err)
	}
	for _, row := range table.Rows {
		record := []string{
			row.Key,
			formatCount(row.Rows),
			formatAmount(row.ClaimAmount),
			formatAmount(row.SettledAmount),
		}
		if err := cw.Write(record); err != nil {
			return apperrors.NewExportError("write csv row", err).WithContext("key", row.Key)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return apperrors.NewExportError("flush csv", err)
	}
	return nil
}

// WritePivotCSVZip writes a zip archive holding one BOM-prefixed CSV per
// pivot category.
func WritePivotCSVZip(w io.Writer, dict domain.PivotDict) error {
	zw := zip.NewWriter(w)

	for _, table := range dict {
		entry, err := zw.Create(safeFileName(table.Category) + ".csv")
		if err != nil {
			return apperrors.NewExportError("create archive entry", err).
				WithContext("category", table.Category)
		}
		if err := WritePivotCSV(entry, table); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return apperrors.NewExportError("finalize archive", err)
	}
	return nil
}
