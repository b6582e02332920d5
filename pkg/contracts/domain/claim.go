package domain

import (
	"encoding/json"
	"time"
)

// Status is the classification bucket assigned to every claim record.
type Status string

const (
	StatusIntimationPending Status = "Intimation Pending"
	StatusRegistered        Status = "Registered with Insurer"
	StatusUnderProcess      Status = "Under-Process with Insurer"
	StatusUnmapped          Status = "Unmapped"
)

// Column names as they appear in the source export header. Field access by
// category name (pivots, filters) goes through ClaimRecord.CategoryValue.
const (
	ColClaimStatus         = "Claim Status"
	ColClaimFileDate       = "Claim File Date"
	ColCloseDate           = "Close Date"
	ColClaimIntimationDate = "Claim Intimation Date"
	ColClaimAmount         = "Claim Amount"
	ColSettledAmount       = "Settled Amount"
	ColBranch              = "Branch"
	ColRegion              = "Region"
	ColState               = "State"
	ColFiledBy             = "Filed By"
	ColProduct             = "Product"
	ColChannel             = "Channel"
	ColPaymentDone         = "Payment Done"
	ColCustomerGender      = "Customer Gender"
	ColConstructType       = "Construct Type"

	// Derived columns added by classification.
	ColStatus              = "STATUS"
	ColRegisteredToInsurer = "Registered to Insurer"
	ColTAT                 = "TAT (in days)"
	ColAgingBucket         = "Aging Days Bucketing"
	ColTATGroup            = "TAT Group"
)

// TAT is the turnaround time of a claim in whole days. Known is false when
// either boundary date failed to parse; an unknown TAT is never treated as 0.
type TAT struct {
	Days  int
	Known bool
}

// MarshalJSON renders an unknown TAT as null so consumers can distinguish
// "no TAT" from a genuine zero-day turnaround.
func (t TAT) MarshalJSON() ([]byte, error) {
	if !t.Known {
		return []byte("null"), nil
	}
	return json.Marshal(t.Days)
}

// UnmarshalJSON accepts either a number or null.
func (t *TAT) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = TAT{}
		return nil
	}
	var days int
	if err := json.Unmarshal(data, &days); err != nil {
		return err
	}
	*t = TAT{Days: days, Known: true}
	return nil
}

// ClaimRecord is one row of the claims export plus the fields derived during
// classification. Raw columns are carried as strings exactly as decoded; XLSX
// date cells may therefore hold spreadsheet serial numbers.
type ClaimRecord struct {
	ClaimStatus         string `json:"Claim Status"`
	ClaimFileDate       string `json:"Claim File Date"`
	CloseDate           string `json:"Close Date"`
	ClaimIntimationDate string `json:"Claim Intimation Date"`
	ClaimAmount         string `json:"Claim Amount"`
	SettledAmount       string `json:"Settled Amount"`
	Branch              string `json:"Branch,omitempty"`
	Region              string `json:"Region,omitempty"`
	State               string `json:"State,omitempty"`
	FiledBy             string `json:"Filed By,omitempty"`
	Product             string `json:"Product,omitempty"`
	Channel             string `json:"Channel,omitempty"`
	PaymentDone         string `json:"Payment Done,omitempty"`
	CustomerGender      string `json:"Customer Gender,omitempty"`
	ConstructType       string `json:"Construct Type,omitempty"`

	// Derived fields, populated by the classifier.
	Status              Status     `json:"STATUS,omitempty"`
	RegisteredToInsurer string     `json:"Registered to Insurer,omitempty"`
	TAT                 TAT        `json:"TAT (in days)"`
	AgingBucket         string     `json:"Aging Days Bucketing,omitempty"`
	TATGroup            string     `json:"TAT Group,omitempty"`
	IntimationDate      *time.Time `json:"-"`
}

// SetColumn assigns a raw source cell to the matching struct field. Unknown
// headers are ignored so extra export columns are tolerated.
func (r *ClaimRecord) SetColumn(name, value string) {
	switch name {
	case ColClaimStatus:
		r.ClaimStatus = value
	case ColClaimFileDate:
		r.ClaimFileDate = value
	case ColCloseDate:
		r.CloseDate = value
	case ColClaimIntimationDate:
		r.ClaimIntimationDate = value
	case ColClaimAmount:
		r.ClaimAmount = value
	case ColSettledAmount:
		r.SettledAmount = value
	case ColBranch:
		r.Branch = value
	case ColRegion:
		r.Region = value
	case ColState:
		r.State = value
	case ColFiledBy:
		r.FiledBy = value
	case ColProduct:
		r.Product = value
	case ColChannel:
		r.Channel = value
	case ColPaymentDone:
		r.PaymentDone = value
	case ColCustomerGender:
		r.CustomerGender = value
	case ColConstructType:
		r.ConstructType = value
	}
}

// CategoryValue returns the record's string value for a pivot or filter
// category. The second return reports whether the category name is known.
func (r *ClaimRecord) CategoryValue(name string) (string, bool) {
	switch name {
	case ColBranch:
		return r.Branch, true
	case ColRegion:
		return r.Region, true
	case ColState:
		return r.State, true
	case ColFiledBy:
		return r.FiledBy, true
	case ColProduct:
		return r.Product, true
	case ColChannel:
		return r.Channel, true
	case ColPaymentDone:
		return r.PaymentDone, true
	case ColCustomerGender:
		return r.CustomerGender, true
	case ColConstructType:
		return r.ConstructType, true
	case ColStatus:
		return string(r.Status), true
	case ColRegisteredToInsurer:
		return r.RegisteredToInsurer, true
	case ColAgingBucket:
		return r.AgingBucket, true
	case ColTATGroup:
		return r.TATGroup, true
	case ColClaimStatus:
		return r.ClaimStatus, true
	default:
		return "", false
	}
}

// Dataset is the raw decoded file: its records plus the set of header columns
// that were actually present in the source. Column presence drives the
// "skip category when the column is absent" pivot rule.
type Dataset struct {
	SourceName string
	Records    []ClaimRecord
	Columns    map[string]bool
}

// HasColumn reports whether the source file carried the named header. Derived
// columns are always present once classification has run.
func (d *Dataset) HasColumn(name string) bool {
	switch name {
	case ColStatus, ColRegisteredToInsurer, ColTAT, ColAgingBucket, ColTATGroup:
		return true
	}
	return d.Columns[name]
}

// ProcessedData is the immutable-after-construction result of one pipeline
// run: the full classified record set and its three status partitions. It is
// replaced wholesale on every upload or reset, never mutated.
type ProcessedData struct {
	All          []ClaimRecord   `json:"all"`
	Intimation   []ClaimRecord   `json:"intimation"`
	Registered   []ClaimRecord   `json:"registered"`
	UnderProcess []ClaimRecord   `json:"under_process"`
	Columns      map[string]bool `json:"-"`
}

// HasColumn mirrors Dataset.HasColumn for the processed bundle.
func (p *ProcessedData) HasColumn(name string) bool {
	switch name {
	case ColStatus, ColRegisteredToInsurer, ColTAT, ColAgingBucket, ColTATGroup:
		return true
	}
	return p.Columns[name]
}
