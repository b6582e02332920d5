package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claimsdash/pkg/contracts/domain"
)

func regionRecord(region, claim, settled string) domain.ClaimRecord {
	return domain.ClaimRecord{Region: region, ClaimAmount: claim, SettledAmount: settled}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
		ok   bool
	}{
		{name: "plain", raw: "1000", want: 1000, ok: true},
		{name: "grouped", raw: "1,23,456", want: 123456, ok: true},
		{name: "decimal", raw: "99.50", want: 99.5, ok: true},
		{name: "spaces", raw: " 250 ", want: 250, ok: true},
		{name: "empty", raw: "", ok: false},
		{name: "text", raw: "N/A", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAmount(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestBuildPivotGroupsAndSorts(t *testing.T) {
	records := []domain.ClaimRecord{
		regionRecord("North", "100", "50"),
		regionRecord("South", "200", "150"),
		regionRecord("South", "300", "100"),
		regionRecord("North", "100", "0"),
		regionRecord("South", "x", "y"), // unparseable amounts count the row only
	}

	table := BuildPivot(records, domain.ColRegion)
	require.Len(t, table.Rows, 3, "two groups plus TOTAL")

	assert.Equal(t, "South", table.Rows[0].Key)
	assert.Equal(t, 3, table.Rows[0].Rows)
	assert.InDelta(t, 500, table.Rows[0].ClaimAmount, 1e-9)
	assert.InDelta(t, 250, table.Rows[0].SettledAmount, 1e-9)

	assert.Equal(t, "North", table.Rows[1].Key)
	assert.Equal(t, 2, table.Rows[1].Rows)

	total := table.Rows[2]
	assert.Equal(t, domain.TotalKey, total.Key)
	assert.Equal(t, 5, total.Rows)
	assert.InDelta(t, 700, total.ClaimAmount, 1e-9)
	assert.InDelta(t, 300, total.SettledAmount, 1e-9)
}

func TestBuildPivotTiesKeepFirstSeenOrder(t *testing.T) {
	records := []domain.ClaimRecord{
		regionRecord("West", "1", "1"),
		regionRecord("East", "1", "1"),
	}

	table := BuildPivot(records, domain.ColRegion)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, "West", table.Rows[0].Key)
	assert.Equal(t, "East", table.Rows[1].Key)
}

func TestBuildPivotMissingValueSentinel(t *testing.T) {
	records := []domain.ClaimRecord{
		regionRecord("", "100", "0"),
		regionRecord("North", "50", "0"),
	}

	table := BuildPivot(records, domain.ColRegion)
	keys := make([]string, 0, len(table.Rows))
	for _, r := range table.Rows {
		keys = append(keys, r.Key)
	}
	assert.Contains(t, keys, "Uncategorized")

	export := BuildExportPivot(records, domain.ColRegion)
	keys = keys[:0]
	for _, r := range export.Rows {
		keys = append(keys, r.Key)
	}
	assert.Contains(t, keys, "N/A")
	assert.NotContains(t, keys, domain.TotalKey, "export pivots omit the TOTAL row")
}

func TestBuildPivotEmptyInput(t *testing.T) {
	table := BuildPivot(nil, domain.ColRegion)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, domain.TotalKey, table.Rows[0].Key)
	assert.Equal(t, 0, table.Rows[0].Rows)

	export := BuildExportPivot(nil, domain.ColRegion)
	assert.Empty(t, export.Rows)
}

func TestBuildPivotIdempotent(t *testing.T) {
	records := []domain.ClaimRecord{
		regionRecord("North", "100", "50"),
		regionRecord("South", "200", "150"),
		regionRecord("South", "300", "100"),
	}

	first := BuildPivot(records, domain.ColRegion)
	second := BuildPivot(records, domain.ColRegion)
	assert.Equal(t, first, second)
}

func TestBuildPivotDictSkipsAbsentColumns(t *testing.T) {
	ds := &domain.ProcessedData{
		All: []domain.ClaimRecord{regionRecord("North", "100", "50")},
		Columns: map[string]bool{
			domain.ColRegion: true,
		},
	}

	dict := BuildPivotDict(ds.All, ds)

	_, ok := dict.Get(domain.ColRegion)
	assert.True(t, ok)

	// Source columns absent from the upload are skipped entirely.
	_, ok = dict.Get(domain.ColState)
	assert.False(t, ok)

	// Derived columns are always present.
	_, ok = dict.Get(domain.ColAgingBucket)
	assert.True(t, ok)
	_, ok = dict.Get(domain.ColTATGroup)
	assert.True(t, ok)
	_, ok = dict.Get(domain.ColRegisteredToInsurer)
	assert.True(t, ok)
}

func TestPivotDictCategoryOrderIsStable(t *testing.T) {
	ds := &domain.ProcessedData{
		All: []domain.ClaimRecord{regionRecord("North", "100", "50")},
		Columns: map[string]bool{
			domain.ColRegion: true,
			domain.ColState:  true,
		},
	}

	dict := BuildPivotDict(ds.All, ds)
	cats := dict.Categories()

	var regionIdx, stateIdx int
	for i, c := range cats {
		switch c {
		case domain.ColRegion:
			regionIdx = i
		case domain.ColState:
			stateIdx = i
		}
	}
	assert.Less(t, regionIdx, stateIdx, "categories follow the fixed pivot order")
}

func TestPivotTableTotal(t *testing.T) {
	records := []domain.ClaimRecord{
		regionRecord("North", "100", "50"),
		regionRecord("South", "200", "150"),
	}

	table := BuildPivot(records, domain.ColRegion)
	total, ok := table.Total()
	require.True(t, ok)
	assert.Equal(t, 2, total.Rows)

	export := BuildExportPivot(records, domain.ColRegion)
	_, ok = export.Total()
	assert.False(t, ok)
}
