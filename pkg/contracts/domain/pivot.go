package domain

// TotalKey is the sentinel key of the synthetic summary row appended to every
// dashboard pivot table.
const TotalKey = "TOTAL"

// PivotRow is one aggregated group within a pivot table. Field order is the
// serialization contract: category key, Rows, Claim_Amount, Settled_Amount.
type PivotRow struct {
	Key           string  `json:"Key"`
	Rows          int     `json:"Rows"`
	ClaimAmount   float64 `json:"Claim_Amount"`
	SettledAmount float64 `json:"Settled_Amount"`
}

// PivotTable is the ordered aggregation of one record subset by one category:
// rows sorted descending by count (stable on ties), with exactly one trailing
// TOTAL row when built for the dashboard.
type PivotTable struct {
	Category string     `json:"category"`
	Rows     []PivotRow `json:"rows"`
}

// Total returns the table's TOTAL row, if present.
func (t PivotTable) Total() (PivotRow, bool) {
	if n := len(t.Rows); n > 0 && t.Rows[n-1].Key == TotalKey {
		return t.Rows[n-1], true
	}
	return PivotRow{}, false
}

// PivotDict holds one pivot table per configured category. It is an ordered
// slice rather than a map so serialization is deterministic; it is rebuilt
// wholesale whenever the underlying subset or filter set changes.
type PivotDict []PivotTable

// Get returns the table for the named category.
func (d PivotDict) Get(category string) (PivotTable, bool) {
	for _, t := range d {
		if t.Category == category {
			return t, true
		}
	}
	return PivotTable{}, false
}

// Categories lists the categories in serialization order.
func (d PivotDict) Categories() []string {
	names := make([]string, len(d))
	for i, t := range d {
		names[i] = t.Category
	}
	return names
}
