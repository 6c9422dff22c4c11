package entity

// ClassificationReport is the outcome of reconciling the observed service
// set against the approved catalog. The three sets are disjoint:
// ApprovedInUse ∪ ApprovedNotInUse equals the catalog, and
// ApprovedInUse ∪ UnapprovedInUse equals the observed set.
type ClassificationReport struct {
	ApprovedInUse    []CanonicalService `json:"approved_in_use"`
	ApprovedNotInUse []CanonicalService `json:"approved_not_in_use"`
	UnapprovedInUse  []CanonicalService `json:"unapproved_in_use"`

	// SkippedMalformed conta entradas brutas que normalizaram para vazio e
	// foram puladas em vez de abortar a classificação.
	SkippedMalformed int `json:"skipped_malformed"`

	// Run metadata, filled by the use case for display/export headers.
	Profile     string `json:"profile,omitempty"`
	AccountID   string `json:"account_id,omitempty"`
	Period      string `json:"period,omitempty"`
	Source      string `json:"source,omitempty"`
	ExecutionID string `json:"execution_id,omitempty"`
}

// TotalObserved returns the number of distinct services seen in the window.
func (r ClassificationReport) TotalObserved() int {
	return len(r.ApprovedInUse) + len(r.UnapprovedInUse)
}
