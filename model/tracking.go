package model

import (
	"net/url"
	"time"
)

// TrackingLink binds an affiliate to a destination URL under a unique
// tracking code. The code is immutable once issued and links are never
// deleted; only the counters move.
type TrackingLink struct {
	ID           int64                  `json:"-"`
	LinkID       string                 `json:"link_id"`
	AffiliateID  string                 `json:"affiliate_id"`
	StoreID      string                 `json:"store_id"`
	TrackingCode string                 `json:"tracking_code"`
	OriginalURL  string                 `json:"original_url"`
	UTMSource    string                 `json:"utm_source,omitempty"`
	UTMMedium    string                 `json:"utm_medium,omitempty"`
	UTMCampaign  string                 `json:"utm_campaign,omitempty"`
	Clicks       int64                  `json:"clicks"`
	Conversions  int64                  `json:"conversions"`
	Revenue      int64                  `json:"revenue"`
	CreatedAt    time.Time              `json:"created_at"`
	MetaData     map[string]interface{} `json:"meta_data,omitempty"`
}

// Campaign carries the optional UTM metadata supplied at link issuance.
type Campaign struct {
	Source   string `json:"utm_source"`
	Medium   string `json:"utm_medium"`
	Campaign string `json:"utm_campaign"`
}

// RedirectTarget is the outcome of recording a click: the destination URL
// rewritten with attribution parameters. Downstream checkout propagates
// these into the eventual order as opaque metadata.
type RedirectTarget struct {
	URL           string `json:"url"`
	TrackingCode  string `json:"tracking_code"`
	AffiliateID   string `json:"affiliate_id"`
	CommissionPct string `json:"commission_percent"`
}

// BuildRedirectURL rewrites the link's destination with the attribution
// query parameters carried through checkout.
func (l *TrackingLink) BuildRedirectURL() (string, error) {
	u, err := url.Parse(l.OriginalURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("lm_aff", l.AffiliateID)
	q.Set("lm_code", l.TrackingCode)
	if l.UTMSource != "" {
		q.Set("utm_source", l.UTMSource)
	}
	if l.UTMMedium != "" {
		q.Set("utm_medium", l.UTMMedium)
	}
	if l.UTMCampaign != "" {
		q.Set("utm_campaign", l.UTMCampaign)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
