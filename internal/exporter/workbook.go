package exporter

import (
	"io"

	"github.com/xuri/excelize/v2"

	apperrors "claimsdash/internal/errors"
	"claimsdash/pkg/contracts/domain"
)

// sourceColumnOrder fixes the left-to-right order of source columns in record
// sheets. Columns absent from the upload are omitted.
var sourceColumnOrder = []string{
	domain.ColClaimStatus,
	domain.ColClaimFileDate,
	domain.ColCloseDate,
	domain.ColClaimIntimationDate,
	domain.ColClaimAmount,
	domain.ColSettledAmount,
	domain.ColBranch,
	domain.ColRegion,
	domain.ColState,
	domain.ColFiledBy,
	domain.ColProduct,
	domain.ColChannel,
	domain.ColPaymentDone,
	domain.ColCustomerGender,
	domain.ColConstructType,
}

// derivedColumnOrder appends the classification output after the source
// columns.
var derivedColumnOrder = []string{
	domain.ColStatus,
	domain.ColRegisteredToInsurer,
	domain.ColTAT,
	domain.ColAgingBucket,
	domain.ColTATGroup,
}

// recordSheet names the workbook tabs of the enriched export, in order.
type recordSheet struct {
	name    string
	records func(*domain.ProcessedData) []domain.ClaimRecord
}

var recordSheets = []recordSheet{
	{name: "MASTER", records: func(d *domain.ProcessedData) []domain.ClaimRecord { return d.All }},
	{name: string(domain.StatusIntimationPending), records: func(d *domain.ProcessedData) []domain.ClaimRecord { return d.Intimation }},
	{name: string(domain.StatusRegistered), records: func(d *domain.ProcessedData) []domain.ClaimRecord { return d.Registered }},
	{name: string(domain.StatusUnderProcess), records: func(d *domain.ProcessedData) []domain.ClaimRecord { return d.UnderProcess }},
}

// exportColumns builds the header row for a record sheet: source columns
// present in the upload, then the derived columns.
func exportColumns(data *domain.ProcessedData) []string {
	cols := make([]string, 0, len(sourceColumnOrder)+len(derivedColumnOrder))
	for _, c := range sourceColumnOrder {
		if data.Columns[c] {
			cols = append(cols, c)
		}
	}
	return append(cols, derivedColumnOrder...)
}

// cellValue returns a record's export cell for a column name. TAT renders as
// a number when known and an empty cell otherwise.
func cellValue(rec *domain.ClaimRecord, col string) interface{} {
	switch col {
	case domain.ColClaimFileDate:
		return rec.ClaimFileDate
	case domain.ColCloseDate:
		return rec.CloseDate
	case domain.ColClaimIntimationDate:
		return rec.ClaimIntimationDate
	case domain.ColClaimAmount:
		return rec.ClaimAmount
	case domain.ColSettledAmount:
		return rec.SettledAmount
	case domain.ColTAT:
		if rec.TAT.Known {
			return rec.TAT.Days
		}
		return ""
	default:
		v, _ := rec.CategoryValue(col)
		return v
	}
}

// WriteEnrichedWorkbook streams the four-sheet enriched export: the full
// classified set on MASTER plus one sheet per status partition, every sheet
// carrying the derived columns.
func WriteEnrichedWorkbook(w io.Writer, data *domain.ProcessedData) error {
	f := excelize.NewFile()
	defer f.Close()

	cols := exportColumns(data)
	for i, sheet := range recordSheets {
		name := safeSheetName(sheet.name)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return apperrors.NewExportError("rename sheet", err)
			}
		} else {
			if _, err := f.NewSheet(name); err != nil {
				return apperrors.NewExportError("create sheet", err)
			}
		}
		if err := writeRecordSheet(f, name, cols, sheet.records(data)); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return apperrors.NewExportError("write workbook", err)
	}
	return nil
}

func writeRecordSheet(f *excelize.File, sheet string, cols []string, records []domain.ClaimRecord) error {
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return apperrors.NewExportError("open stream writer", err).WithContext("sheet", sheet)
	}

	headerRow := make([]interface{}, len(cols))
	for i, c := range cols {
		headerRow[i] = c
	}
	if err := setRow(sw, 1, headerRow); err != nil {
		return err
	}

	for i := range records {
		row := make([]interface{}, len(cols))
		for j, c := range cols {
			row[j] = cellValue(&records[i], c)
		}
		if err := setRow(sw, i+2, row); err != nil {
			return err
		}
	}

	if err := sw.Flush(); err != nil {
		return apperrors.NewExportError("flush sheet", err).WithContext("sheet", sheet)
	}
	return nil
}

func setRow(sw *excelize.StreamWriter, rowNum int, row []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return apperrors.NewExportError("resolve cell coordinates", err)
	}
	if err := sw.SetRow(cell, row); err != nil {
		return apperrors.NewExportError("write row", err)
	}
	return nil
}

// pivotHeader is the column row of every pivot sheet and CSV.
var pivotHeader = []string{"Category", "Rows", "Claim_Amount", "Settled_Amount"}

// WritePivotWorkbook streams one sheet per pivot category, each holding the
// grouped rows as they appear on the dashboard, TOTAL row included.
func WritePivotWorkbook(w io.Writer, dict domain.PivotDict) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, table := range dict {
		name := safeSheetName(table.Category)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return apperrors.NewExportError("rename sheet", err)
			}
		} else {
			if _, err := f.NewSheet(name); err != nil {
				return apperrors.NewExportError("create sheet", err)
			}
		}
		if err := writePivotSheet(f, name, table); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return apperrors.NewExportError("write workbook", err)
	}
	return nil
}

func writePivotSheet(f *excelize.File, sheet string, table domain.PivotTable) error {
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return apperrors.NewExportError("open stream writer", err).WithContext("sheet", sheet)
	}

	header := make([]interface{}, len(pivotHeader))
	for i, c := range pivotHeader {
		header[i] = c
	}
	header[0] = table.Category
	if err := setRow(sw, 1, header); err != nil {
		return err
	}

	for i, row := range table.Rows {
		if err := setRow(sw, i+2, []interface{}{row.Key, row.Rows, row.ClaimAmount, row.SettledAmount}); err != nil {
			return err
		}
	}

	if err := sw.Flush(); err != nil {
		return apperrors.NewExportError("flush sheet", err).WithContext("sheet", sheet)
	}
	return nil
}
