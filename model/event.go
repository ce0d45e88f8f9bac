package model

import (
	"encoding/json"
	"time"
)

// TrackingCodeMetaKey is the order metadata attribute carrying the
// tracking code through checkout. Absence of the key is normal: most
// orders are organic.
const TrackingCodeMetaKey = "affiliate_tracking_code"

// OrderEvent is an inbound order-settled event. Delivery is at least
// once; attribution must be idempotent on OrderID.
type OrderEvent struct {
	OrderID    string            `json:"order_id"`
	StoreID    string            `json:"store_id"`
	OrderValue int64             `json:"order_value"`
	Currency   string            `json:"currency"`
	SettledAt  time.Time         `json:"settled_at"`
	MetaData   map[string]string `json:"meta_data,omitempty"`
}

// TrackingCode extracts the attribution code from the order metadata.
// The second return is false when the order carries no attribution.
func (e *OrderEvent) TrackingCode() (string, bool) {
	if e.MetaData == nil {
		return "", false
	}
	code, ok := e.MetaData[TrackingCodeMetaKey]
	if !ok || code == "" {
		return "", false
	}
	return code, true
}

// ClickEvent is the analytics record appended for every referral visit.
// It is written off the request path; losing one never fails a redirect.
type ClickEvent struct {
	ClickID      string    `json:"click_id"`
	TrackingCode string    `json:"tracking_code"`
	AffiliateID  string    `json:"affiliate_id"`
	IPAddress    string    `json:"ip_address,omitempty"`
	UserAgent    string    `json:"user_agent,omitempty"`
	Referrer     string    `json:"referrer,omitempty"`
	ClickedAt    time.Time `json:"clicked_at"`
}

func (e *ClickEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}
