package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"claimsdash/pkg/contracts/domain"
)

func TestSummarizeKPIs(t *testing.T) {
	records := []domain.ClaimRecord{
		{ClaimAmount: "1,00,000", SettledAmount: "80,000", TAT: domain.TAT{Days: 10, Known: true}},
		{ClaimAmount: "50,000", SettledAmount: "", TAT: domain.TAT{Days: 20, Known: true}},
		{ClaimAmount: "junk", SettledAmount: "20,000"}, // unknown TAT, bad claim amount
	}

	kpi := SummarizeKPIs(records)

	assert.Equal(t, 3, kpi.TotalRows)
	assert.InDelta(t, 150000, kpi.SumClaim, 1e-9)
	assert.InDelta(t, 100000, kpi.SumSettled, 1e-9)
	// Unknown TATs do not drag the average toward zero.
	assert.InDelta(t, 15.0, kpi.AvgTAT, 1e-9)

	assert.Equal(t, "3", kpi.TotalRowsDisplay)
	assert.Equal(t, "₹1,50,000", kpi.SumClaimDisplay)
	assert.Equal(t, "₹1,00,000", kpi.SumSettledDisplay)
	assert.Equal(t, "15.0", kpi.AvgTATDisplay)
}

func TestSummarizeKPIsEmpty(t *testing.T) {
	kpi := SummarizeKPIs(nil)

	assert.Equal(t, 0, kpi.TotalRows)
	assert.Zero(t, kpi.SumClaim)
	assert.Zero(t, kpi.SumSettled)
	assert.Zero(t, kpi.AvgTAT)
	assert.Equal(t, "0", kpi.TotalRowsDisplay)
	assert.Equal(t, "₹0", kpi.SumClaimDisplay)
	assert.Equal(t, "₹0", kpi.SumSettledDisplay)
	assert.Equal(t, "0.0", kpi.AvgTATDisplay)
}

func TestFormatCurrencyIndianGrouping(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{value: 0, want: "₹0"},
		{value: 999, want: "₹999"},
		{value: 1000, want: "₹1,000"},
		{value: 100000, want: "₹1,00,000"},
		{value: 12345678, want: "₹1,23,45,678"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCurrency(tt.value))
	}
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "0", FormatCount(0))
	assert.Equal(t, "1,234", FormatCount(1234))
	assert.Equal(t, "1,00,00,000", FormatCount(10000000))
}
