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
	"fmt"
	"net/http"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"

	"github.com/linkmint/linkmint/config"
	redlock "github.com/linkmint/linkmint/internal/lock"
	"github.com/linkmint/linkmint/internal/notification"
	"github.com/linkmint/linkmint/internal/request"
	"github.com/linkmint/linkmint/model"
)

var payoutTracer = otel.Tracer("linkmint.payouts")

// PayoutRequest is one disbursement handed to the gateway: the summed
// pending commission of a single affiliate.
type PayoutRequest struct {
	AffiliateID string   `json:"affiliate_id"`
	Email       string   `json:"email"`
	Amount      int64    `json:"amount"`
	Method      string   `json:"method"`
	EntryIDs    []string `json:"entry_ids"`
}

// PayoutGateway moves money. The production implementation posts to the
// configured provider; tests inject fakes.
type PayoutGateway interface {
	Disburse(ctx context.Context, req *PayoutRequest) error
}

// HTTPPayoutGateway posts disbursements to the configured provider URL.
type HTTPPayoutGateway struct {
	url     string
	headers map[string]string
}

func NewHTTPPayoutGateway(conf *config.Configuration) *HTTPPayoutGateway {
	return &HTTPPayoutGateway{
		url:     conf.Payout.ProviderURL,
		headers: conf.Payout.ProviderHeaders,
	}
}

// Disburse posts one payout to the provider. The caller's context bounds
// the call; a deadline overrun is a failure like any other.
func (g *HTTPPayoutGateway) Disburse(ctx context.Context, payout *PayoutRequest) error {
	if g.url == "" {
		logrus.Warnf("payout provider URL not configured, skipping disbursement for %s", payout.AffiliateID)
		return nil
	}

	payload, err := request.ToJsonReq(payout)
	if err != nil {
		return pkgerrors.Wrap(err, "encoding payout request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, payload)
	if err != nil {
		return pkgerrors.Wrap(err, "building payout request")
	}
	for key, value := range g.headers {
		req.Header.Set(key, value)
	}

	var response map[string]interface{}
	resp, err := request.Call(req, &response)
	if err != nil {
		return pkgerrors.Wrap(err, "calling payout provider")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("payout provider returned status %d", resp.StatusCode)
	}
	return nil
}

// RunPayoutBatch settles the pending commissions of the given affiliates.
//
// Each affiliate is processed in isolation: a failure reverts only that
// affiliate's entries and is recorded in the result, never aborting the
// batch. Exclusion against concurrent batches is layered: a per-affiliate
// redis lock around the select window, and the conditional
// pending→processing lease underneath it. Zero rows claimed means another
// batch owns the entries and the affiliate is skipped.
func (l *Linkmint) RunPayoutBatch(ctx context.Context, storeID string, affiliateIDs []string, minimumCents int64, method string) (*model.PayoutBatchResult, error) {
	ctx, span := payoutTracer.Start(ctx, "RunPayoutBatch")
	defer span.End()

	cfg, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	if minimumCents <= 0 {
		minimumCents = cfg.Payout.DefaultMinimumCents
	}

	result := &model.PayoutBatchResult{}
	for _, affiliateID := range affiliateIDs {
		l.settleAffiliate(ctx, cfg, storeID, affiliateID, minimumCents, method, result)
	}
	return result, nil
}

func (l *Linkmint) settleAffiliate(ctx context.Context, cfg *config.Configuration, storeID, affiliateID string, minimumCents int64, method string, result *model.PayoutBatchResult) {
	affiliate, err := l.datasource.GetAffiliateByID(ctx, affiliateID)
	if err != nil {
		result.RecordFailure(affiliateID, "", err.Error())
		return
	}
	if affiliate.StoreID != storeID {
		result.RecordFailure(affiliateID, affiliate.Email, "affiliate does not belong to store")
		return
	}

	locker := redlock.NewLocker(l.redis, fmt.Sprintf("payout:%s", affiliateID), model.GenerateUUIDWithSuffix("lock"))
	if err := locker.Lock(ctx, 2*time.Minute); err != nil {
		result.RecordFailure(affiliateID, affiliate.Email, ErrPayoutInProgress.Error())
		return
	}
	defer func() {
		if err := locker.Unlock(ctx); err != nil {
			logrus.Warnf("failed to release payout lock for %s: %v", affiliateID, err)
		}
	}()

	pending, err := l.datasource.GetPendingCommissions(ctx, affiliateID)
	if err != nil {
		result.RecordFailure(affiliateID, affiliate.Email, err.Error())
		return
	}
	if len(pending) == 0 {
		result.RecordSkip(affiliateID, affiliate.Email, "no pending commissions")
		return
	}

	total := model.SumCommission(pending)
	if total < minimumCents {
		result.RecordSkip(affiliateID, affiliate.Email, fmt.Sprintf("pending total %s below minimum %s", model.FormatAmount(total), model.FormatAmount(minimumCents)))
		return
	}

	entryIDs := model.EntryIDs(pending)
	claimed, err := l.datasource.MarkCommissionsProcessing(ctx, entryIDs)
	if err != nil {
		result.RecordFailure(affiliateID, affiliate.Email, err.Error())
		return
	}
	if len(claimed) == 0 {
		result.RecordSkip(affiliateID, affiliate.Email, "entries claimed by another batch")
		return
	}
	if len(claimed) < len(entryIDs) {
		// Partial claim: another batch raced us on part of the set.
		// Release only the entries we hold; the rest belong to the
		// other batch and must never be touched from here.
		if _, revertErr := l.datasource.RevertCommissionsToPending(ctx, claimed); revertErr != nil {
			notification.NotifyError(revertErr)
		}
		result.RecordFailure(affiliateID, affiliate.Email, "partial lease claim, entries released")
		return
	}

	disburseCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Payout.TimeoutSeconds)*time.Second)
	defer cancel()

	payout := &PayoutRequest{
		AffiliateID: affiliateID,
		Email:       affiliate.Email,
		Amount:      total,
		Method:      method,
		EntryIDs:    claimed,
	}
	if err := l.gateway.Disburse(disburseCtx, payout); err != nil {
		if _, revertErr := l.datasource.RevertCommissionsToPending(ctx, claimed); revertErr != nil {
			notification.NotifyError(revertErr)
		}
		result.RecordFailure(affiliateID, affiliate.Email, err.Error())
		return
	}

	paid, err := l.datasource.MarkCommissionsPaid(ctx, claimed)
	if err != nil {
		// Money moved but the ledger did not: surface loudly, the
		// reclaim sweep will return the entries to pending.
		notification.NotifyError(err)
		result.RecordFailure(affiliateID, affiliate.Email, err.Error())
		return
	}
	if paid < int64(len(claimed)) {
		// Some entries were no longer in processing when we finalized.
		// The guarded transition kept them from being paid twice.
		notification.NotifyError(pkgerrors.Wrapf(ErrAlreadySettled, "finalized %d of %d entries for %s", paid, len(claimed), affiliateID))
	}

	result.Processed++
	result.TotalAmount += total

	notification.NotifyWebhook("payout.settled", payout)
}

// ReclaimStaleProcessing returns commissions stranded in processing by a
// crashed batch to pending. Run periodically by the workers.
func (l *Linkmint) ReclaimStaleProcessing(ctx context.Context) (int64, error) {
	ctx, span := payoutTracer.Start(ctx, "ReclaimStaleProcessing")
	defer span.End()

	cfg, err := config.Fetch()
	if err != nil {
		return 0, err
	}
	cutoff := time.Now().Add(-time.Duration(cfg.Payout.ReclaimAfterMinutes) * time.Minute)
	reclaimed, err := l.datasource.ReclaimStaleProcessing(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if reclaimed > 0 {
		logrus.Warnf("reclaimed %d commission entries stuck in processing", reclaimed)
	}
	return reclaimed, nil
}
