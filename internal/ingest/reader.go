package ingest

import (
	"encoding/csv"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "claimsdash/internal/errors"
	"claimsdash/pkg/contracts/domain"
)

// Format identifies the upload file type.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// knownColumns are the source headers the record model maps; anything else in
// the upload is tolerated and ignored.
var knownColumns = map[string]bool{
	domain.ColClaimStatus:         true,
	domain.ColClaimFileDate:       true,
	domain.ColCloseDate:           true,
	domain.ColClaimIntimationDate: true,
	domain.ColClaimAmount:         true,
	domain.ColSettledAmount:       true,
	domain.ColBranch:              true,
	domain.ColRegion:              true,
	domain.ColState:               true,
	domain.ColFiledBy:             true,
	domain.ColProduct:             true,
	domain.ColChannel:             true,
	domain.ColPaymentDone:         true,
	domain.ColCustomerGender:      true,
	domain.ColConstructType:       true,
}

// DetectFormat maps a filename extension to a Format. The extension is the
// only signal; content sniffing is deliberately not attempted.
func DetectFormat(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx", ".xls":
		return FormatXLSX, nil
	default:
		return "", apperrors.NewParsingError("unsupported file extension", nil).
			WithContext("filename", filename)
	}
}

// header holds the positional mapping from cell index to column name built
// from a file's first row.
type header struct {
	names   []string
	columns map[string]bool
}

func newHeader(cells []string) header {
	h := header{
		names:   make([]string, len(cells)),
		columns: make(map[string]bool, len(cells)),
	}
	for i, name := range cells {
		name = strings.TrimSpace(name)
		h.names[i] = name
		if knownColumns[name] {
			h.columns[name] = true
		}
	}
	return h
}

// record converts one data row using the header mapping. Rows shorter than
// the header leave trailing fields empty; longer rows drop the excess.
func (h header) record(cells []string) domain.ClaimRecord {
	var rec domain.ClaimRecord
	for i, value := range cells {
		if i >= len(h.names) {
			break
		}
		rec.SetColumn(h.names[i], strings.TrimSpace(value))
	}
	return rec
}

// isBlank reports whether every cell in the row is empty, matching the
// skip-blank-lines behavior of the original export tooling.
func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// DecodeCSV reads an entire CSV upload into a Dataset. Blank lines are
// skipped and ragged rows are tolerated.
func DecodeCSV(r io.Reader, source string) (domain.Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	first, err := cr.Read()
	if err == io.EOF {
		return domain.Dataset{}, apperrors.NewEmptyDatasetError(source)
	}
	if err != nil {
		return domain.Dataset{}, apperrors.NewParsingError("read csv header", err).
			WithContext("source", source)
	}
	h := newHeader(first)

	ds := domain.Dataset{SourceName: source, Columns: h.columns}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return domain.Dataset{}, apperrors.NewParsingError("read csv row", err).
				WithContext("source", source)
		}
		if isBlank(row) {
			continue
		}
		ds.Records = append(ds.Records, h.record(row))
	}

	if len(ds.Records) == 0 {
		return domain.Dataset{}, apperrors.NewEmptyDatasetError(source)
	}
	return ds, nil
}

// DecodeXLSX reads the first sheet of a workbook upload into a Dataset. Date
// cells stored as spreadsheet serial numbers surface as numeric strings; the
// date normalizer downstream handles them.
func DecodeXLSX(r io.Reader, source string) (domain.Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return domain.Dataset{}, apperrors.NewParsingError("open workbook", err).
			WithContext("source", source)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return domain.Dataset{}, apperrors.NewEmptyDatasetError(source)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return domain.Dataset{}, apperrors.NewParsingError("read sheet rows", err).
			WithContext("source", source).
			WithContext("sheet", sheets[0])
	}
	if len(rows) == 0 {
		return domain.Dataset{}, apperrors.NewEmptyDatasetError(source)
	}

	h := newHeader(rows[0])
	ds := domain.Dataset{SourceName: source, Columns: h.columns}
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		ds.Records = append(ds.Records, h.record(row))
	}

	if len(ds.Records) == 0 {
		return domain.Dataset{}, apperrors.NewEmptyDatasetError(source)
	}
	return ds, nil
}
