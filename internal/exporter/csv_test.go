package exporter

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claimsdash/pkg/contracts/domain"
)

func samplePivot() domain.PivotTable {
	return domain.PivotTable{
		Category: domain.ColRegion,
		Rows: []domain.PivotRow{
			{Key: "North", Rows: 2, ClaimAmount: 1500, SettledAmount: 900},
			{Key: "South", Rows: 1, ClaimAmount: 500.5, SettledAmount: 0},
			{Key: domain.TotalKey, Rows: 3, ClaimAmount: 2000.5, SettledAmount: 900},
		},
	}
}

func TestWritePivotCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePivotCSV(&buf, samplePivot()))

	raw := buf.Bytes()
	require.True(t, bytes.HasPrefix(raw, utf8BOM), "CSV must carry a UTF-8 BOM")

	records, err := csv.NewReader(bytes.NewReader(raw[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, []string{domain.ColRegion, "Rows", "Claim_Amount", "Settled_Amount"}, records[0])
	assert.Equal(t, []string{"North", "2", "1500.00", "900.00"}, records[1])
	assert.Equal(t, []string{"South", "1", "500.50", "0.00"}, records[2])
	assert.Equal(t, domain.TotalKey, records[3][0])
}

func TestWritePivotCSVZip(t *testing.T) {
	dict := domain.PivotDict{
		samplePivot(),
		{Category: domain.ColState, Rows: []domain.PivotRow{{Key: "Kerala", Rows: 1}}},
	}

	var buf bytes.Buffer
	require.NoError(t, WritePivotCSVZip(&buf, dict))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)

	assert.Equal(t, "Region.csv", zr.File[0].Name)
	assert.Equal(t, "State.csv", zr.File[1].Name)

	rc, err := zr.File[0].Open()
	require.NoError(t, err)
	defer rc.Close()
	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(content, utf8BOM))
}
