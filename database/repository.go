/*
Copyright 2024 Linkmint Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package database

import (
	"context"
	"time"

	"github.com/linkmint/linkmint/model"
)

// IDataSource defines the interface for data source operations, grouping related functionalities.
type IDataSource interface {
	affiliate  // Affiliate lifecycle and counters
	tracking   // Tracking link issuance and counters
	commission // Commission ledger and its payout state machine
	analytics  // Click analytics records
}

// affiliate defines methods for handling affiliates. Counter mutations
// are increments executed inside the database, never read-modify-write.
type affiliate interface {
	CreateAffiliate(ctx context.Context, affiliate model.Affiliate) (model.Affiliate, error)
	GetAffiliateByID(ctx context.Context, id string) (*model.Affiliate, error)
	GetAffiliatesByStore(ctx context.Context, storeID string, limit, offset int) ([]model.Affiliate, error)
	UpdateAffiliateStatus(ctx context.Context, id string, status string) error
	UpdateAffiliateCommissionRate(ctx context.Context, id string, commissionBps int64) error
	IncrementAffiliateClicks(ctx context.Context, id string) error
	ApplyConversionToAffiliate(ctx context.Context, id string, commissionCents int64) error
}

// tracking defines methods for handling tracking links.
type tracking interface {
	CreateTrackingLink(ctx context.Context, link model.TrackingLink) (model.TrackingLink, error)
	GetTrackingLinkByCode(ctx context.Context, code string) (*model.TrackingLink, error)
	GetTrackingLinksByAffiliate(ctx context.Context, affiliateID string, limit, offset int) ([]model.TrackingLink, error)
	IncrementTrackingLinkClicks(ctx context.Context, linkID string) error
	ApplyConversionToLink(ctx context.Context, linkID string, revenueCents int64) error
}

// commission defines methods for the commission ledger. Status moves are
// conditional updates so a transition only succeeds from the expected
// prior state; MarkCommissionsProcessing doubles as the payout lease.
type commission interface {
	InsertCommissionEntry(ctx context.Context, entry *model.CommissionEntry) (bool, error)
	GetCommissionByOrderID(ctx context.Context, orderID string) (*model.CommissionEntry, error)
	GetCommissionsByAffiliate(ctx context.Context, affiliateID string, limit, offset int) ([]model.CommissionEntry, error)
	GetPendingCommissions(ctx context.Context, affiliateID string) ([]*model.CommissionEntry, error)
	MarkCommissionsProcessing(ctx context.Context, entryIDs []string) ([]string, error)
	MarkCommissionsPaid(ctx context.Context, entryIDs []string) (int64, error)
	RevertCommissionsToPending(ctx context.Context, entryIDs []string) (int64, error)
	ReclaimStaleProcessing(ctx context.Context, olderThan time.Time) (int64, error)
}

// analytics defines methods for click analytics records.
type analytics interface {
	RecordClickEvent(ctx context.Context, event *model.ClickEvent) error
}
