package dataprocessing

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"claimsdash/pkg/contracts/domain"
)

// currencyGlyph prefixes every formatted monetary display value.
const currencyGlyph = "₹"

// kpiPrinter renders display strings with en-IN digit grouping, matching the
// locale the dashboard was built for.
var kpiPrinter = message.NewPrinter(language.MustParse("en-IN"))

// SummarizeKPIs computes the top-line metrics for a record subset: row count,
// Claim/Settled Amount sums, and the average TAT over records whose TAT is
// known (unknown TATs are excluded from numerator and denominator, never
// counted as zero). An empty subset yields all-zero raw values with the
// corresponding zero-formatted display strings.
func SummarizeKPIs(records []domain.ClaimRecord) domain.KPIData {
	kpi := domain.KPIData{TotalRows: len(records)}

	var tatSum, tatCount int
	for i := range records {
		if v, ok := ParseAmount(records[i].ClaimAmount); ok {
			kpi.SumClaim += v
		}
		if v, ok := ParseAmount(records[i].SettledAmount); ok {
			kpi.SumSettled += v
		}
		if records[i].TAT.Known {
			tatSum += records[i].TAT.Days
			tatCount++
		}
	}
	if tatCount > 0 {
		kpi.AvgTAT = float64(tatSum) / float64(tatCount)
	}

	kpi.TotalRowsDisplay = FormatCount(kpi.TotalRows)
	kpi.SumClaimDisplay = FormatCurrency(kpi.SumClaim)
	kpi.SumSettledDisplay = FormatCurrency(kpi.SumSettled)
	kpi.AvgTATDisplay = strconv.FormatFloat(kpi.AvgTAT, 'f', 1, 64)

	return kpi
}

// FormatCurrency renders a monetary value with the currency glyph and en-IN
// digit grouping, no decimal places.
func FormatCurrency(v float64) string {
	return currencyGlyph + kpiPrinter.Sprint(number.Decimal(v, number.MaxFractionDigits(0)))
}

// FormatCount renders a row count with en-IN digit grouping.
func FormatCount(n int) string {
	return kpiPrinter.Sprint(number.Decimal(n))
}
