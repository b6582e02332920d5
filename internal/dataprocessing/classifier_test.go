package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claimsdash/pkg/contracts/domain"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		name   string
		status string
		want   domain.Status
	}{
		{name: "intimation", status: "INTIMATION", want: domain.StatusIntimationPending},
		{name: "info collection", status: "INFO COLLECTION", want: domain.StatusIntimationPending},
		{name: "settled", status: "SETTLED", want: domain.StatusRegistered},
		{name: "rejected", status: "REJECTED", want: domain.StatusRegistered},
		{name: "approved", status: "APPROVED", want: domain.StatusRegistered},
		{name: "raise claimdoc", status: "RAISE_CLAIMDOC_3", want: domain.StatusRegistered},
		{name: "pending approval m-insure", status: "PENDING APPROVAL M-INSURE", want: domain.StatusUnderProcess},
		{name: "submission approval", status: "SUBMISSION APPROVAL INSURANCE", want: domain.StatusUnderProcess},
		{name: "lowercase is normalized", status: "settled", want: domain.StatusRegistered},
		{name: "surrounding spaces trimmed", status: "  SETTLED  ", want: domain.StatusRegistered},
		{name: "unknown", status: "SOMETHING ELSE", want: domain.StatusUnmapped},
		{name: "empty", status: "", want: domain.StatusUnmapped},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyStatus(tt.status))
		})
	}
}

func TestInsurerLabel(t *testing.T) {
	assert.Equal(t, "Settled", InsurerLabel("SETTLED"))
	assert.Equal(t, "Repudiated", InsurerLabel("rejected"))
	assert.Equal(t, "APPROVED", InsurerLabel("APPROVED"))
	assert.Equal(t, "Under-Process with Insurer", InsurerLabel("PENDING APPROVAL INSURANCE"))
	assert.Equal(t,
		"Requirement Raised for Documents – Actionable from Partner",
		InsurerLabel("MORE INFO"))
	assert.Equal(t,
		"Requirement Raised for Documents – Actionable from Partner",
		InsurerLabel("RAISE_CLAIMDOC_3"))
	assert.Equal(t, "Unmapped", InsurerLabel("INTIMATION"))
}

func TestAgingBucket(t *testing.T) {
	tests := []struct {
		days int
		want string
	}{
		{days: 0, want: "0-7 Days"},
		{days: 7, want: "0-7 Days"},
		{days: 8, want: "8-15 Days"},
		{days: 15, want: "8-15 Days"},
		{days: 16, want: "16-30 Days"},
		{days: 30, want: "16-30 Days"},
		{days: 31, want: "Above 30 Days"},
		{days: 365, want: "Above 30 Days"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AgingBucket(domain.TAT{Days: tt.days, Known: true}), "days=%d", tt.days)
	}

	assert.Equal(t, "Uncategorized", AgingBucket(domain.TAT{}))
}

func TestTATGroup(t *testing.T) {
	tests := []struct {
		days int
		want string
	}{
		{days: 0, want: "0-10"},
		{days: 10, want: "0-10"},
		{days: 11, want: "11-20"},
		{days: 20, want: "11-20"},
		{days: 21, want: "21-30"},
		{days: 30, want: "21-30"},
		{days: 31, want: "31-50"},
		{days: 50, want: "31-50"},
		{days: 51, want: "51-100"},
		{days: 100, want: "51-100"},
		{days: 101, want: "100+"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TATGroup(domain.TAT{Days: tt.days, Known: true}), "days=%d", tt.days)
	}

	assert.Equal(t, "Uncategorized", TATGroup(domain.TAT{}))
}

func TestClassifySettledRecord(t *testing.T) {
	rec := Classify(domain.ClaimRecord{
		ClaimStatus:   "SETTLED",
		ClaimFileDate: "01-01-2024",
		CloseDate:     "10-01-2024",
		ClaimAmount:   "1,000",
		SettledAmount: "900",
	})

	assert.Equal(t, domain.StatusRegistered, rec.Status)
	require.True(t, rec.TAT.Known)
	assert.Equal(t, 9, rec.TAT.Days)
	assert.Equal(t, "8-15 Days", rec.AgingBucket)
	assert.Equal(t, "0-10", rec.TATGroup)
	assert.Equal(t, "Settled", rec.RegisteredToInsurer)
}

func TestClassifyUnknownTATPropagates(t *testing.T) {
	rec := Classify(domain.ClaimRecord{
		ClaimStatus:   "SETTLED",
		ClaimFileDate: "01-01-2024",
		CloseDate:     "", // no close date yet
	})

	assert.False(t, rec.TAT.Known)
	assert.Equal(t, "Uncategorized", rec.AgingBucket)
	assert.Equal(t, "Uncategorized", rec.TATGroup)
}

func TestClassifyInsurerLabelOnlyForRegistered(t *testing.T) {
	rec := Classify(domain.ClaimRecord{ClaimStatus: "INTIMATION"})
	assert.Equal(t, domain.StatusIntimationPending, rec.Status)
	assert.Empty(t, rec.RegisteredToInsurer)
}

func TestClassifyParsesIntimationDate(t *testing.T) {
	rec := Classify(domain.ClaimRecord{ClaimIntimationDate: "05-02-2024"})
	require.NotNil(t, rec.IntimationDate)
	assert.Equal(t, "2024-02-05", rec.IntimationDate.Format("2006-01-02"))

	rec = Classify(domain.ClaimRecord{ClaimIntimationDate: "nonsense"})
	assert.Nil(t, rec.IntimationDate)
}
