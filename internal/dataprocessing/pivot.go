package dataprocessing

import (
	"sort"
	"strconv"
	"strings"

	"claimsdash/pkg/contracts/domain"
)

// PivotCategories lists, in serialization order, the categories a pivot table
// is generated for over the Registered subset.
var PivotCategories = []string{
	domain.ColRegisteredToInsurer,
	domain.ColAgingBucket,
	domain.ColTATGroup,
	domain.ColCustomerGender,
	domain.ColConstructType,
	domain.ColBranch,
	domain.ColRegion,
	domain.ColState,
	domain.ColFiledBy,
	domain.ColProduct,
	domain.ColPaymentDone,
}

// ParseAmount parses a monetary cell, stripping thousands separators first.
// Unparseable or blank values report ok=false and contribute 0 to sums.
func ParseAmount(raw string) (float64, bool) {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// BuildPivot aggregates a record subset by one category for the dashboard:
// groups keyed on the category value ("Uncategorized" when missing), sorted
// descending by row count with first-seen order on ties, plus a trailing
// TOTAL row holding the column sums.
func BuildPivot(records []domain.ClaimRecord, category string) domain.PivotTable {
	return buildPivot(records, category, uncategorized, true)
}

// BuildExportPivot is the variant used by the per-partner spreadsheet export:
// missing values map to "N/A" and no TOTAL row is appended.
func BuildExportPivot(records []domain.ClaimRecord, category string) domain.PivotTable {
	return buildPivot(records, category, "N/A", false)
}

func buildPivot(records []domain.ClaimRecord, category, missing string, withTotal bool) domain.PivotTable {
	groups := make(map[string]*domain.PivotRow)
	order := make([]string, 0)

	for i := range records {
		key, _ := records[i].CategoryValue(category)
		if key == "" {
			key = missing
		}
		row, ok := groups[key]
		if !ok {
			row = &domain.PivotRow{Key: key}
			groups[key] = row
			order = append(order, key)
		}
		row.Rows++
		if v, ok := ParseAmount(records[i].ClaimAmount); ok {
			row.ClaimAmount += v
		}
		if v, ok := ParseAmount(records[i].SettledAmount); ok {
			row.SettledAmount += v
		}
	}

	table := domain.PivotTable{
		Category: category,
		Rows:     make([]domain.PivotRow, 0, len(order)+1),
	}
	for _, key := range order {
		table.Rows = append(table.Rows, *groups[key])
	}
	sort.SliceStable(table.Rows, func(i, j int) bool {
		return table.Rows[i].Rows > table.Rows[j].Rows
	})

	if withTotal {
		total := domain.PivotRow{Key: domain.TotalKey}
		for _, row := range table.Rows {
			total.Rows += row.Rows
			total.ClaimAmount += row.ClaimAmount
			total.SettledAmount += row.SettledAmount
		}
		table.Rows = append(table.Rows, total)
	}

	return table
}

// columnSet abstracts ProcessedData and Dataset for the category-skip rule.
type columnSet interface {
	HasColumn(name string) bool
}

// BuildPivotDict builds one pivot table per configured category over the
// given records. A category is skipped entirely when its column was absent
// from the source file (not when its values are merely empty).
func BuildPivotDict(records []domain.ClaimRecord, cols columnSet) domain.PivotDict {
	dict := make(domain.PivotDict, 0, len(PivotCategories))
	for _, category := range PivotCategories {
		if cols != nil && !cols.HasColumn(category) {
			continue
		}
		dict = append(dict, BuildPivot(records, category))
	}
	return dict
}
