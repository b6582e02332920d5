package domain

// KPIData is a point-in-time snapshot of the top-line metrics for one record
// subset: raw numeric values alongside locale-formatted display strings. It is
// recomputed from scratch whenever the subset changes, never patched.
type KPIData struct {
	TotalRows  int     `json:"totalRowsRaw"`
	SumClaim   float64 `json:"sumClaimRaw"`
	SumSettled float64 `json:"sumSettledRaw"`
	AvgTAT     float64 `json:"avgTatRaw"`

	TotalRowsDisplay  string `json:"totalRows"`
	SumClaimDisplay   string `json:"sumClaim"`
	SumSettledDisplay string `json:"sumSettled"`
	AvgTATDisplay     string `json:"avgTat"`
}
