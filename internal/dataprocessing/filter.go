package dataprocessing

import (
	"sort"
	"time"

	"claimsdash/pkg/contracts/domain"
)

// FilterableCategories lists the categories the dashboard filter view can
// restrict on.
var FilterableCategories = []string{
	domain.ColRegion,
	domain.ColState,
	domain.ColFiledBy,
	domain.ColProduct,
	domain.ColChannel,
	domain.ColAgingBucket,
}

// filterDateLayout is the wire format of the filter date bounds.
const filterDateLayout = "2006-01-02"

// IsFilterableCategory reports whether the named category can appear in a
// FilterState selection.
func IsFilterableCategory(name string) bool {
	for _, c := range FilterableCategories {
		if c == name {
			return true
		}
	}
	return false
}

// ApplyFilters returns the subset of records passing the date-range and
// categorical filters. A record fails the date filter when a bound is set and
// its normalized intimation date is unknown, or falls outside the bounds (the
// upper bound is inclusive through end of day). A record fails a categorical
// filter when that category has a non-empty selection not containing the
// record's value. An all-empty filter state returns every record.
func ApplyFilters(records []domain.ClaimRecord, f domain.FilterState) []domain.ClaimRecord {
	var from, to *time.Time
	if f.DateFrom != "" {
		if d, err := time.Parse(filterDateLayout, f.DateFrom); err == nil {
			from = &d
		}
	}
	if f.DateTo != "" {
		if d, err := time.Parse(filterDateLayout, f.DateTo); err == nil {
			// Inclusive through end of day.
			d = d.AddDate(0, 0, 1)
			to = &d
		}
	}

	out := make([]domain.ClaimRecord, 0, len(records))
	for i := range records {
		rec := &records[i]
		if !passesDateFilter(rec.IntimationDate, from, to) {
			continue
		}
		if !passesCategoryFilters(rec, f.Categories) {
			continue
		}
		out = append(out, *rec)
	}
	return out
}

func passesDateFilter(date, from, to *time.Time) bool {
	if from == nil && to == nil {
		return true
	}
	if date == nil {
		return false
	}
	if from != nil && date.Before(*from) {
		return false
	}
	if to != nil && !date.Before(*to) {
		return false
	}
	return true
}

func passesCategoryFilters(rec *domain.ClaimRecord, selections map[string][]string) bool {
	for _, category := range FilterableCategories {
		selected := selections[category]
		if len(selected) == 0 {
			continue
		}
		value, _ := rec.CategoryValue(category)
		found := false
		for _, s := range selected {
			if s == value {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// FilterOptions collects the distinct, sorted, non-empty values per
// filterable category over a record subset, for populating the filter UI.
func FilterOptions(records []domain.ClaimRecord) map[string][]string {
	options := make(map[string][]string, len(FilterableCategories))
	for _, category := range FilterableCategories {
		seen := make(map[string]struct{})
		for i := range records {
			v, _ := records[i].CategoryValue(category)
			if v == "" {
				continue
			}
			seen[v] = struct{}{}
		}
		values := make([]string, 0, len(seen))
		for v := range seen {
			values = append(values, v)
		}
		sort.Strings(values)
		options[category] = values
	}
	return options
}
