package exporter

import (
	"archive/zip"
	"io"

	"claimsdash/internal/dataprocessing"
	apperrors "claimsdash/internal/errors"
	"claimsdash/pkg/contracts/domain"
)

// skippedChannel is the placeholder channel value excluded from the partner
// breakdown.
const skippedChannel = "Unknown"

// WritePartnerZip writes a zip archive with one pivot workbook per
// distribution channel over the registered subset. Records with an empty or
// placeholder channel are skipped. Partner workbooks use the export pivot
// variant: missing category values read "N/A" and no TOTAL row is added.
func WritePartnerZip(w io.Writer, registered []domain.ClaimRecord, cols interface{ HasColumn(string) bool }) error {
	groups := make(map[string][]domain.ClaimRecord)
	order := make([]string, 0)
	for i := range registered {
		channel := registered[i].Channel
		if channel == "" || channel == skippedChannel {
			continue
		}
		if _, ok := groups[channel]; !ok {
			order = append(order, channel)
		}
		groups[channel] = append(groups[channel], registered[i])
	}

	zw := zip.NewWriter(w)
	for _, channel := range order {
		entry, err := zw.Create(safeFileName(channel) + ".xlsx")
		if err != nil {
			return apperrors.NewExportError("create archive entry", err).
				WithContext("channel", channel)
		}
		if err := writePartnerWorkbook(entry, groups[channel], cols); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return apperrors.NewExportError("finalize archive", err)
	}
	return nil
}

func writePartnerWorkbook(w io.Writer, records []domain.ClaimRecord, cols interface{ HasColumn(string) bool }) error {
	dict := make(domain.PivotDict, 0, len(dataprocessing.PivotCategories))
	for _, category := range dataprocessing.PivotCategories {
		if cols != nil && !cols.HasColumn(category) {
			continue
		}
		dict = append(dict, dataprocessing.BuildExportPivot(records, category))
	}
	return WritePivotWorkbook(w, dict)
}
