package dataprocessing

import (
	"strings"

	"claimsdash/pkg/contracts/domain"
)

// Status-set membership for the STATUS classification. These are fixed
// configuration data from the upstream claims system, not computed.
var (
	intimationStatuses = map[string]struct{}{
		"INTIMATION":      {},
		"INFO COLLECTION": {},
	}

	registeredStatuses = map[string]struct{}{
		"SETTLED":                    {},
		"REJECTED":                   {},
		"PENDING APPROVAL INSURANCE": {},
		"RAISE_CLAIMDOC_3":           {},
		"MORE INFO":                  {},
		"APPROVED":                   {},
	}

	underProcessStatuses = map[string]struct{}{
		"PENDING APPROVAL M-INSURE":     {},
		"SUBMISSION APPROVAL INSURANCE": {},
	}
)

// insurerLabels maps the raw claim status to the "Registered to Insurer"
// display label used within the Registered subset.
var insurerLabels = map[string]string{
	"MORE INFO":                  "Requirement Raised for Documents – Actionable from Partner",
	"RAISE_CLAIMDOC_3":           "Requirement Raised for Documents – Actionable from Partner",
	"PENDING APPROVAL INSURANCE": "Under-Process with Insurer",
	"REJECTED":                   "Repudiated",
	"SETTLED":                    "Settled",
	"APPROVED":                   "APPROVED",
}

const uncategorized = "Uncategorized"

// ClassifyStatus maps a raw Claim Status value onto its status bucket. The
// lookup key is trimmed and upper-cased; anything outside the three fixed
// sets is Unmapped.
func ClassifyStatus(claimStatus string) domain.Status {
	key := strings.ToUpper(strings.TrimSpace(claimStatus))
	if _, ok := intimationStatuses[key]; ok {
		return domain.StatusIntimationPending
	}
	if _, ok := registeredStatuses[key]; ok {
		return domain.StatusRegistered
	}
	if _, ok := underProcessStatuses[key]; ok {
		return domain.StatusUnderProcess
	}
	return domain.StatusUnmapped
}

// InsurerLabel resolves the Registered-to-insurer label for a raw claim
// status. Statuses without a configured label map to "Unmapped".
func InsurerLabel(claimStatus string) string {
	key := strings.ToUpper(strings.TrimSpace(claimStatus))
	if label, ok := insurerLabels[key]; ok {
		return label
	}
	return string(domain.StatusUnmapped)
}

// AgingBucket buckets a turnaround time into the aging ranges. Bounds are
// inclusive on the upper end; an unknown TAT is Uncategorized.
func AgingBucket(t domain.TAT) string {
	if !t.Known {
		return uncategorized
	}
	switch {
	case t.Days <= 7:
		return "0-7 Days"
	case t.Days <= 15:
		return "8-15 Days"
	case t.Days <= 30:
		return "16-30 Days"
	default:
		return "Above 30 Days"
	}
}

// TATGroup buckets a turnaround time into the finer TAT ranges used by the
// dashboard charts.
func TATGroup(t domain.TAT) string {
	if !t.Known {
		return uncategorized
	}
	switch {
	case t.Days <= 10:
		return "0-10"
	case t.Days <= 20:
		return "11-20"
	case t.Days <= 30:
		return "21-30"
	case t.Days <= 50:
		return "31-50"
	case t.Days <= 100:
		return "51-100"
	default:
		return "100+"
	}
}

// Classify produces the enriched record: status bucket, TAT and its derived
// buckets, the normalized intimation date, and (for Registered records) the
// insurer label. It is a pure function of the record and the static tables;
// per-field parse anomalies degrade to sentinels rather than failing.
func Classify(rec domain.ClaimRecord) domain.ClaimRecord {
	rec.Status = ClassifyStatus(rec.ClaimStatus)

	fileDate := NormalizeDate(rec.ClaimFileDate)
	closeDate := NormalizeDate(rec.CloseDate)
	rec.IntimationDate = NormalizeDate(rec.ClaimIntimationDate)

	if fileDate != nil && closeDate != nil {
		rec.TAT = domain.TAT{Days: daysBetween(*fileDate, *closeDate), Known: true}
	} else {
		rec.TAT = domain.TAT{}
	}

	rec.AgingBucket = AgingBucket(rec.TAT)
	rec.TATGroup = TATGroup(rec.TAT)

	if rec.Status == domain.StatusRegistered {
		rec.RegisteredToInsurer = InsurerLabel(rec.ClaimStatus)
	}

	return rec
}
