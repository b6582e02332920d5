package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claimsdash/pkg/contracts/domain"
)

func intimatedOn(day string, region string) domain.ClaimRecord {
	rec := domain.ClaimRecord{ClaimIntimationDate: day, Region: region}
	rec.IntimationDate = NormalizeDate(day)
	return rec
}

func TestApplyFiltersEmptyStateIsIdentity(t *testing.T) {
	records := []domain.ClaimRecord{
		intimatedOn("01-01-2024", "North"),
		intimatedOn("", "South"),
	}

	got := ApplyFilters(records, domain.FilterState{})
	assert.Equal(t, records, got)
}

func TestApplyFiltersDateRange(t *testing.T) {
	records := []domain.ClaimRecord{
		intimatedOn("01-01-2024", "North"),
		intimatedOn("15-01-2024", "North"),
		intimatedOn("01-02-2024", "North"),
	}

	got := ApplyFilters(records, domain.FilterState{DateFrom: "2024-01-10", DateTo: "2024-01-31"})
	require.Len(t, got, 1)
	assert.Equal(t, "15-01-2024", got[0].ClaimIntimationDate)
}

func TestApplyFiltersUpperBoundInclusiveThroughEndOfDay(t *testing.T) {
	rec := domain.ClaimRecord{}
	d := time.Date(2024, time.January, 31, 18, 30, 0, 0, time.UTC)
	rec.IntimationDate = &d

	got := ApplyFilters([]domain.ClaimRecord{rec}, domain.FilterState{DateTo: "2024-01-31"})
	assert.Len(t, got, 1, "a timestamp later the same day still passes")

	got = ApplyFilters([]domain.ClaimRecord{rec}, domain.FilterState{DateTo: "2024-01-30"})
	assert.Empty(t, got)
}

func TestApplyFiltersUnparseableDateExcludedWhenBounded(t *testing.T) {
	records := []domain.ClaimRecord{
		intimatedOn("garbage", "North"),
		intimatedOn("15-01-2024", "North"),
	}

	got := ApplyFilters(records, domain.FilterState{DateFrom: "2024-01-01"})
	require.Len(t, got, 1)
	assert.Equal(t, "15-01-2024", got[0].ClaimIntimationDate)
}

func TestApplyFiltersCategorical(t *testing.T) {
	records := []domain.ClaimRecord{
		intimatedOn("01-01-2024", "North"),
		intimatedOn("01-01-2024", "South"),
		intimatedOn("01-01-2024", "East"),
	}

	got := ApplyFilters(records, domain.FilterState{
		Categories: map[string][]string{domain.ColRegion: {"North", "East"}},
	})
	require.Len(t, got, 2)
	assert.Equal(t, "North", got[0].Region)
	assert.Equal(t, "East", got[1].Region)
}

func TestApplyFiltersConjunction(t *testing.T) {
	a := intimatedOn("01-01-2024", "North")
	a.State = "Delhi"
	b := intimatedOn("01-01-2024", "North")
	b.State = "Kerala"

	got := ApplyFilters([]domain.ClaimRecord{a, b}, domain.FilterState{
		Categories: map[string][]string{
			domain.ColRegion: {"North"},
			domain.ColState:  {"Delhi"},
		},
	})
	require.Len(t, got, 1)
	assert.Equal(t, "Delhi", got[0].State)
}

func TestApplyFiltersDerivedBucketCategory(t *testing.T) {
	a := domain.ClaimRecord{AgingBucket: "0-7 Days"}
	b := domain.ClaimRecord{AgingBucket: "Above 30 Days"}

	got := ApplyFilters([]domain.ClaimRecord{a, b}, domain.FilterState{
		Categories: map[string][]string{domain.ColAgingBucket: {"Above 30 Days"}},
	})
	require.Len(t, got, 1)
	assert.Equal(t, "Above 30 Days", got[0].AgingBucket)
}

func TestIsFilterableCategory(t *testing.T) {
	assert.True(t, IsFilterableCategory(domain.ColRegion))
	assert.True(t, IsFilterableCategory(domain.ColAgingBucket))
	assert.False(t, IsFilterableCategory(domain.ColBranch))
	assert.False(t, IsFilterableCategory("no such category"))
}

func TestFilterOptions(t *testing.T) {
	records := []domain.ClaimRecord{
		intimatedOn("01-01-2024", "South"),
		intimatedOn("01-01-2024", "North"),
		intimatedOn("01-01-2024", "South"),
		intimatedOn("01-01-2024", ""),
	}

	options := FilterOptions(records)

	assert.Equal(t, []string{"North", "South"}, options[domain.ColRegion])
	assert.Empty(t, options[domain.ColState])

	// Every filterable category gets an entry even when empty.
	for _, category := range FilterableCategories {
		_, ok := options[category]
		assert.True(t, ok, category)
	}
}
