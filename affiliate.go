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

package linkmint

import (
	"context"

	"go.opentelemetry.io/otel"

	"github.com/linkmint/linkmint/internal/apierror"
	"github.com/linkmint/linkmint/model"
)

var affiliateTracer = otel.Tracer("linkmint.affiliates")

// CreateAffiliate registers a new affiliate in pending status. The
// recruitment score is computed from the application material and kept
// in metadata for the reviewer; it never auto-approves.
func (l *Linkmint) CreateAffiliate(ctx context.Context, affiliate model.Affiliate, application *model.AffiliateApplication) (model.Affiliate, error) {
	ctx, span := affiliateTracer.Start(ctx, "CreateAffiliate")
	defer span.End()

	if affiliate.Email == "" || affiliate.StoreID == "" {
		return model.Affiliate{}, apierror.NewAPIError(apierror.ErrInvalidInput, "store_id and email are required", nil)
	}

	affiliate.Status = model.StatusPending
	if application != nil {
		if affiliate.MetaData == nil {
			affiliate.MetaData = map[string]interface{}{}
		}
		affiliate.MetaData["recruitment_score"] = ScoreApplication(application)
	}

	return l.datasource.CreateAffiliate(ctx, affiliate)
}

// ApproveAffiliate moves a pending affiliate to active so it can issue
// links and earn commissions.
func (l *Linkmint) ApproveAffiliate(ctx context.Context, affiliateID string) error {
	ctx, span := affiliateTracer.Start(ctx, "ApproveAffiliate")
	defer span.End()

	return l.datasource.UpdateAffiliateStatus(ctx, affiliateID, model.StatusActive)
}

// UpdateAffiliateStatus sets an affiliate's status. Suspension and bans
// affect future clicks and conversions only; earned entries are kept.
func (l *Linkmint) UpdateAffiliateStatus(ctx context.Context, affiliateID string, status string) error {
	ctx, span := affiliateTracer.Start(ctx, "UpdateAffiliateStatus")
	defer span.End()

	if !model.ValidStatus(status) {
		return apierror.NewAPIError(apierror.ErrInvalidInput, "unknown affiliate status", status)
	}
	return l.datasource.UpdateAffiliateStatus(ctx, affiliateID, status)
}

// UpdateCommissionRate changes the affiliate's rate for future
// conversions. Existing commission entries keep the rate they were
// attributed under.
func (l *Linkmint) UpdateCommissionRate(ctx context.Context, affiliateID string, commissionBps int64) error {
	ctx, span := affiliateTracer.Start(ctx, "UpdateCommissionRate")
	defer span.End()

	if commissionBps < 0 || commissionBps > 10000 {
		return apierror.NewAPIError(apierror.ErrInvalidInput, "commission rate must be between 0% and 100%", commissionBps)
	}
	return l.datasource.UpdateAffiliateCommissionRate(ctx, affiliateID, commissionBps)
}

// GetAffiliate retrieves a single affiliate by ID.
func (l *Linkmint) GetAffiliate(ctx context.Context, affiliateID string) (*model.Affiliate, error) {
	ctx, span := affiliateTracer.Start(ctx, "GetAffiliate")
	defer span.End()

	return l.datasource.GetAffiliateByID(ctx, affiliateID)
}

// GetAffiliatesByStore lists a store's affiliates, newest first.
func (l *Linkmint) GetAffiliatesByStore(ctx context.Context, storeID string, limit, offset int) ([]model.Affiliate, error) {
	ctx, span := affiliateTracer.Start(ctx, "GetAffiliatesByStore")
	defer span.End()

	if limit <= 0 {
		limit = 50
	}
	return l.datasource.GetAffiliatesByStore(ctx, storeID, limit, offset)
}

// GetCommissionsByAffiliate lists an affiliate's ledger entries, newest
// first.
func (l *Linkmint) GetCommissionsByAffiliate(ctx context.Context, affiliateID string, limit, offset int) ([]model.CommissionEntry, error) {
	ctx, span := affiliateTracer.Start(ctx, "GetCommissionsByAffiliate")
	defer span.End()

	if limit <= 0 {
		limit = 50
	}
	return l.datasource.GetCommissionsByAffiliate(ctx, affiliateID, limit, offset)
}

// GetCommissionByOrderID looks up the ledger entry attributed to an
// order, if any.
func (l *Linkmint) GetCommissionByOrderID(ctx context.Context, orderID string) (*model.CommissionEntry, error) {
	ctx, span := affiliateTracer.Start(ctx, "GetCommissionByOrderID")
	defer span.End()

	return l.datasource.GetCommissionByOrderID(ctx, orderID)
}
