package domain

// FilterState is the dashboard filter selection applied to the Registered
// subset. Date bounds are yyyy-MM-dd strings (empty = unbounded); the upper
// bound is inclusive through end of day. An empty selection for a category
// places no restriction on it.
type FilterState struct {
	DateFrom   string              `json:"date_from" validate:"omitempty,datetime=2006-01-02"`
	DateTo     string              `json:"date_to" validate:"omitempty,datetime=2006-01-02"`
	Categories map[string][]string `json:"categories"`
}

// IsZero reports whether the state restricts nothing.
func (f FilterState) IsZero() bool {
	if f.DateFrom != "" || f.DateTo != "" {
		return false
	}
	for _, vals := range f.Categories {
		if len(vals) > 0 {
			return false
		}
	}
	return true
}
