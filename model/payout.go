package model

// PayoutError records why a single affiliate could not be settled in a
// batch. Sibling affiliates are unaffected.
type PayoutError struct {
	AffiliateID string `json:"affiliate_id"`
	Email       string `json:"email,omitempty"`
	Reason      string `json:"reason"`
}

// PayoutBatchResult is the transient outcome of one settlement run. It is
// returned to the caller and never persisted.
type PayoutBatchResult struct {
	Processed   int           `json:"processed"`
	Failed      int           `json:"failed"`
	TotalAmount int64         `json:"total_amount"`
	Errors      []PayoutError `json:"errors,omitempty"`
}

// RecordFailure appends a per-affiliate error and bumps the failed count.
func (r *PayoutBatchResult) RecordFailure(affiliateID, email, reason string) {
	r.Failed++
	r.Errors = append(r.Errors, PayoutError{AffiliateID: affiliateID, Email: email, Reason: reason})
}

// RecordSkip appends an informational error without counting a failure,
// used for below-minimum affiliates whose entries stay pending.
func (r *PayoutBatchResult) RecordSkip(affiliateID, email, reason string) {
	r.Errors = append(r.Errors, PayoutError{AffiliateID: affiliateID, Email: email, Reason: reason})
}
