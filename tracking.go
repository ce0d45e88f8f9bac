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
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"

	"github.com/linkmint/linkmint/config"
	"github.com/linkmint/linkmint/database"
	"github.com/linkmint/linkmint/internal/apierror"
	"github.com/linkmint/linkmint/model"
)

var trackingTracer = otel.Tracer("linkmint.tracking")

// IssueTrackingLink creates a tracking link for an active affiliate. The
// code is a truncated digest of the affiliate's email, the destination
// and the issuance instant; on a uniqueness collision the derivation is
// salted and retried a bounded number of times.
func (l *Linkmint) IssueTrackingLink(ctx context.Context, affiliateID, originalURL string, campaign *model.Campaign) (*model.TrackingLink, error) {
	ctx, span := trackingTracer.Start(ctx, "IssueTrackingLink")
	defer span.End()

	cfg, err := config.Fetch()
	if err != nil {
		return nil, err
	}

	if _, err := url.ParseRequestURI(originalURL); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "original URL is not a valid URL", err)
	}

	affiliate, err := l.datasource.GetAffiliateByID(ctx, affiliateID)
	if err != nil {
		return nil, err
	}
	if !affiliate.IsActive() {
		return nil, ErrAffiliateNotActive
	}

	link := model.TrackingLink{
		AffiliateID: affiliate.AffiliateID,
		StoreID:     affiliate.StoreID,
		OriginalURL: originalURL,
	}
	if campaign != nil {
		link.UTMSource = campaign.Source
		link.UTMMedium = campaign.Medium
		link.UTMCampaign = campaign.Campaign
	}

	for attempt := 0; attempt < cfg.Tracking.MaxIssueAttempts; attempt++ {
		salt := ""
		if attempt > 0 {
			salt = fmt.Sprintf("%d|%s", attempt, uuid.New().String())
		}
		link.TrackingCode = model.GenerateTrackingCode(affiliate.Email, originalURL, time.Now(), salt, cfg.Tracking.CodeLength)

		created, err := l.datasource.CreateTrackingLink(ctx, link)
		if err == nil {
			return &created, nil
		}
		if !errors.Is(err, database.ErrDuplicateTrackingCode) {
			return nil, err
		}
		logrus.Warnf("tracking code collision on attempt %d for affiliate %s, retrying with salt", attempt+1, affiliateID)
	}

	return nil, ErrCodeGenerationExhausted
}

// GetTrackingLinkByCode resolves a tracking code.
func (l *Linkmint) GetTrackingLinkByCode(ctx context.Context, code string) (*model.TrackingLink, error) {
	ctx, span := trackingTracer.Start(ctx, "GetTrackingLinkByCode")
	defer span.End()

	link, err := l.datasource.GetTrackingLinkByCode(ctx, code)
	if err != nil {
		if errCode, ok := apierror.Code(err); ok && errCode == apierror.ErrNotFound {
			return nil, ErrInvalidTrackingCode
		}
		return nil, err
	}
	return link, nil
}

// GetTrackingLinksByAffiliate lists an affiliate's links, newest first.
func (l *Linkmint) GetTrackingLinksByAffiliate(ctx context.Context, affiliateID string, limit, offset int) ([]model.TrackingLink, error) {
	ctx, span := trackingTracer.Start(ctx, "GetTrackingLinksByAffiliate")
	defer span.End()

	if limit <= 0 {
		limit = 50
	}
	return l.datasource.GetTrackingLinksByAffiliate(ctx, affiliateID, limit, offset)
}
