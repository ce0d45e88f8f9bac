package model

import (
	"time"
)

const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusSuspended = "suspended"
	StatusBanned    = "banned"
)

// Affiliate is a participant who refers traffic to a store. Cumulative
// totals are mutated only through atomic increments in the datasource,
// never by overwrite.
type Affiliate struct {
	ID             int64                  `json:"-"`
	AffiliateID    string                 `json:"affiliate_id"`
	StoreID        string                 `json:"store_id"`
	Email          string                 `json:"email"`
	Name           string                 `json:"name"`
	Website        string                 `json:"website,omitempty"`
	CommissionBps  int64                  `json:"commission_bps"`
	Status         string                 `json:"status"`
	TotalEarnings  int64                  `json:"total_earnings"`
	TotalSales     int64                  `json:"total_sales"`
	ClickCount     int64                  `json:"click_count"`
	ConversionRate float64                `json:"conversion_rate"`
	CreatedAt      time.Time              `json:"created_at"`
	MetaData       map[string]interface{} `json:"meta_data,omitempty"`
}

// IsActive reports whether the affiliate can issue links and earn
// commissions. Suspension affects future attribution only.
func (a *Affiliate) IsActive() bool {
	return a.Status == StatusActive
}

// ValidStatus reports whether s is one of the known affiliate statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusActive, StatusSuspended, StatusBanned:
		return true
	}
	return false
}

// AffiliateApplication is the raw material for the recruitment scorer.
// It carries no state and is never persisted as-is.
type AffiliateApplication struct {
	Email           string `json:"email"`
	Website         string `json:"website"`
	SocialFollowers int64  `json:"social_followers"`
	Niche           string `json:"niche"`
	Pitch           string `json:"pitch"`
}
