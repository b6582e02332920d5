package exporter

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"claimsdash/pkg/contracts/domain"
)

func TestWritePartnerZip(t *testing.T) {
	data := processedFixture(t)
	// Extra registered records exercising channel grouping and skips.
	registered := append([]domain.ClaimRecord{}, data.Registered...)
	registered = append(registered,
		domain.ClaimRecord{Status: domain.StatusRegistered, Channel: "Beta", Region: "South", ClaimAmount: "300"},
		domain.ClaimRecord{Status: domain.StatusRegistered, Channel: "Unknown", ClaimAmount: "999"},
		domain.ClaimRecord{Status: domain.StatusRegistered, Channel: "", ClaimAmount: "999"},
	)

	var buf bytes.Buffer
	require.NoError(t, WritePartnerZip(&buf, registered, data))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"Acme.xlsx", "Beta.xlsx"}, names, "first-seen channel order, placeholders skipped")
}

func TestPartnerWorkbookUsesExportPivotVariant(t *testing.T) {
	data := processedFixture(t)
	registered := []domain.ClaimRecord{
		{Status: domain.StatusRegistered, Channel: "Acme", ClaimAmount: "100"}, // empty Region
	}

	var buf bytes.Buffer
	require.NoError(t, WritePartnerZip(&buf, registered, data))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 1)

	rc, err := zr.File[0].Open()
	require.NoError(t, err)
	defer rc.Close()
	raw, err := io.ReadAll(rc)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(domain.ColRegion)
	require.NoError(t, err)
	require.NotEmpty(t, rows)

	keys := make([]string, 0, len(rows)-1)
	for _, r := range rows[1:] {
		if len(r) > 0 {
			keys = append(keys, r[0])
		}
	}
	assert.Contains(t, keys, "N/A", "missing values read N/A in partner exports")
	assert.NotContains(t, keys, domain.TotalKey, "partner pivots omit the TOTAL row")
}

func TestWritePartnerZipEmptyRegistered(t *testing.T) {
	data := processedFixture(t)

	var buf bytes.Buffer
	require.NoError(t, WritePartnerZip(&buf, nil, data))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	assert.Empty(t, zr.File)
}
