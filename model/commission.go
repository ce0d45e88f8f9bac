package model

import (
	"time"
)

const (
	PayoutPending    = "pending"
	PayoutProcessing = "processing"
	PayoutPaid       = "paid"
)

// CommissionEntry is one attributed conversion. The rate and amount are
// frozen at creation; later rate changes never retroactively alter an
// entry. Entries are never deleted, only their payout status advances:
// pending -> processing -> paid, with processing -> pending on failure.
type CommissionEntry struct {
	ID             int64                  `json:"-"`
	EntryID        string                 `json:"entry_id"`
	AffiliateID    string                 `json:"affiliate_id"`
	StoreID        string                 `json:"store_id"`
	OrderID        string                 `json:"order_id"`
	OrderValue     int64                  `json:"order_value"`
	CommissionBps  int64                  `json:"commission_bps"`
	CommissionCent int64                  `json:"commission_amount"`
	TrackingCode   string                 `json:"tracking_code"`
	PayoutStatus   string                 `json:"payout_status"`
	ConvertedAt    time.Time              `json:"converted_at"`
	StatusAt       time.Time              `json:"status_at"`
	CreatedAt      time.Time              `json:"created_at"`
	MetaData       map[string]interface{} `json:"meta_data,omitempty"`
}

// SumCommission totals the commission amount of a set of entries in cents.
func SumCommission(entries []*CommissionEntry) int64 {
	var total int64
	for _, e := range entries {
		total += e.CommissionCent
	}
	return total
}

// EntryIDs collects the identifiers of a set of entries.
func EntryIDs(entries []*CommissionEntry) []string {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.EntryID)
	}
	return ids
}
