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
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"

	"github.com/linkmint/linkmint/internal/apierror"
	"github.com/linkmint/linkmint/internal/notification"
	"github.com/linkmint/linkmint/model"
)

var attributionTracer = otel.Tracer("linkmint.attribution")

// AttributeConversion turns a settled order into a commission entry.
//
// Orders without the tracking metadata key are organic: the return is
// (nil, nil), not an error. Delivery is at least once, so the insert is
// idempotent on order ID: a replayed event returns the existing entry
// and moves no counters. The commission rate and amount are frozen into
// the entry at attribution time.
func (l *Linkmint) AttributeConversion(ctx context.Context, event *model.OrderEvent) (*model.CommissionEntry, error) {
	ctx, span := attributionTracer.Start(ctx, "AttributeConversion")
	defer span.End()

	code, ok := event.TrackingCode()
	if !ok {
		return nil, nil
	}

	link, err := l.GetTrackingLinkByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	affiliate, err := l.datasource.GetAffiliateByID(ctx, link.AffiliateID)
	if err != nil {
		return nil, err
	}
	if !affiliate.IsActive() {
		// Idempotency outranks the status gate: an order attributed
		// before the affiliate was suspended still resolves to its
		// entry on redelivery instead of failing forever.
		existing, lookupErr := l.datasource.GetCommissionByOrderID(ctx, event.OrderID)
		if lookupErr == nil {
			logrus.Infof("order %s already attributed, returning existing entry", event.OrderID)
			return existing, nil
		}
		if code, ok := apierror.Code(lookupErr); !ok || code != apierror.ErrNotFound {
			return nil, lookupErr
		}
		return nil, ErrAffiliateNotActive
	}

	if event.OrderValue <= 0 {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "order value must be positive", event.OrderValue)
	}

	convertedAt := event.SettledAt
	if convertedAt.IsZero() {
		convertedAt = time.Now()
	}

	entry := &model.CommissionEntry{
		AffiliateID:    affiliate.AffiliateID,
		StoreID:        event.StoreID,
		OrderID:        event.OrderID,
		OrderValue:     event.OrderValue,
		CommissionBps:  affiliate.CommissionBps,
		CommissionCent: model.ComputeCommission(event.OrderValue, affiliate.CommissionBps),
		TrackingCode:   link.TrackingCode,
		ConvertedAt:    convertedAt,
	}

	inserted, err := l.datasource.InsertCommissionEntry(ctx, entry)
	if err != nil {
		return nil, err
	}
	if !inserted {
		// Replayed delivery: the order already produced its entry.
		logrus.Infof("order %s already attributed, returning existing entry", event.OrderID)
		return l.datasource.GetCommissionByOrderID(ctx, event.OrderID)
	}

	if err := l.datasource.ApplyConversionToLink(ctx, link.LinkID, event.OrderValue); err != nil {
		return nil, err
	}
	if err := l.datasource.ApplyConversionToAffiliate(ctx, affiliate.AffiliateID, entry.CommissionCent); err != nil {
		return nil, err
	}

	notification.NotifyWebhook("commission.created", entry)

	return entry, nil
}
