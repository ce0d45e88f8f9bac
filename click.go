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
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"

	"github.com/linkmint/linkmint/model"
)

var clickTracer = otel.Tracer("linkmint.clicks")

// ClickMeta is the request context captured for analytics when a
// referral link is followed.
type ClickMeta struct {
	IPAddress string
	UserAgent string
	Referrer  string
}

// RecordClick resolves a tracking code, bumps the click counters and
// returns the redirect target. The counters move through single UPDATE
// statements so concurrent clicks never undercount. The analytics
// record is enqueued best-effort: losing it never fails the redirect.
func (l *Linkmint) RecordClick(ctx context.Context, code string, meta ClickMeta) (*model.RedirectTarget, error) {
	ctx, span := clickTracer.Start(ctx, "RecordClick")
	defer span.End()

	link, err := l.GetTrackingLinkByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	affiliate, err := l.datasource.GetAffiliateByID(ctx, link.AffiliateID)
	if err != nil {
		return nil, err
	}

	if err := l.datasource.IncrementTrackingLinkClicks(ctx, link.LinkID); err != nil {
		return nil, err
	}
	if err := l.datasource.IncrementAffiliateClicks(ctx, affiliate.AffiliateID); err != nil {
		return nil, err
	}

	redirectURL, err := link.BuildRedirectURL()
	if err != nil {
		return nil, err
	}

	event := &model.ClickEvent{
		ClickID:      model.GenerateUUIDWithSuffix("clk"),
		TrackingCode: link.TrackingCode,
		AffiliateID:  affiliate.AffiliateID,
		IPAddress:    meta.IPAddress,
		UserAgent:    meta.UserAgent,
		Referrer:     meta.Referrer,
		ClickedAt:    time.Now(),
	}
	if err := l.queue.EnqueueClick(ctx, event); err != nil {
		logrus.Warnf("failed to enqueue click analytics for %s: %v", code, err)
	}

	return &model.RedirectTarget{
		URL:           redirectURL,
		TrackingCode:  link.TrackingCode,
		AffiliateID:   affiliate.AffiliateID,
		CommissionPct: model.FormatPercent(affiliate.CommissionBps),
	}, nil
}

// ProcessClickEvent is the asynq handler persisting one click analytics
// record from the click queue.
func (l *Linkmint) ProcessClickEvent(ctx context.Context, task *asynq.Task) error {
	var event model.ClickEvent
	if err := json.Unmarshal(task.Payload(), &event); err != nil {
		logrus.Errorf("Error unmarshaling click event payload: %v", err)
		return err
	}
	return l.datasource.RecordClickEvent(ctx, &event)
}
