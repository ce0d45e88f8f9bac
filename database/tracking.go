package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/linkmint/linkmint/internal/apierror"
	"github.com/linkmint/linkmint/model"
)

// ErrDuplicateTrackingCode is returned when an insert trips the unique
// constraint on tracking_code. Callers retry issuance with a fresh salt.
var ErrDuplicateTrackingCode = errors.New("tracking code already exists")

func (d Datasource) CreateTrackingLink(ctx context.Context, link model.TrackingLink) (model.TrackingLink, error) {
	metaDataJSON, err := json.Marshal(link.MetaData)
	if err != nil {
		return model.TrackingLink{}, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to marshal metadata", err)
	}

	link.LinkID = model.GenerateUUIDWithSuffix("lnk")
	link.CreatedAt = time.Now()

	_, err = d.Conn.ExecContext(ctx,
		`INSERT INTO tracking_links (link_id, affiliate_id, store_id, tracking_code, original_url, utm_source, utm_medium, utm_campaign, created_at, meta_data)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		link.LinkID, link.AffiliateID, link.StoreID, link.TrackingCode, link.OriginalURL, link.UTMSource, link.UTMMedium, link.UTMCampaign, link.CreatedAt, metaDataJSON,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			if pqErr.Constraint == "uq_tracking_links_code" {
				return model.TrackingLink{}, ErrDuplicateTrackingCode
			}
			return model.TrackingLink{}, apierror.NewAPIError(apierror.ErrConflict, "Tracking link already exists", err)
		}
		return model.TrackingLink{}, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create tracking link", err)
	}

	return link, nil
}

// GetTrackingLinkByCode resolves a code to its link, cache-aside. Links
// are immutable after issuance so a short TTL only staleness-bounds the
// counters, which the cached view does not guarantee anyway.
func (d Datasource) GetTrackingLinkByCode(ctx context.Context, code string) (*model.TrackingLink, error) {
	cacheKey := "link:" + code
	if d.Cache != nil {
		cached := &model.TrackingLink{}
		if err := d.Cache.Get(ctx, cacheKey, cached); err == nil && cached.LinkID != "" {
			return cached, nil
		}
	}

	row := d.Conn.QueryRowContext(ctx, `
		SELECT link_id, affiliate_id, store_id, tracking_code, original_url, utm_source, utm_medium, utm_campaign, clicks, conversions, revenue, created_at, meta_data
		FROM tracking_links
		WHERE tracking_code = $1
	`, code)

	link := &model.TrackingLink{}
	var metaDataJSON []byte
	err := row.Scan(&link.LinkID, &link.AffiliateID, &link.StoreID, &link.TrackingCode, &link.OriginalURL, &link.UTMSource, &link.UTMMedium, &link.UTMCampaign, &link.Clicks, &link.Conversions, &link.Revenue, &link.CreatedAt, &metaDataJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Tracking link with code '%s' not found", code), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve tracking link", err)
	}

	if metaDataJSON != nil {
		if err := json.Unmarshal(metaDataJSON, &link.MetaData); err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to unmarshal metadata", err)
		}
	}

	if d.Cache != nil {
		if err := d.Cache.Set(ctx, cacheKey, link, 5*time.Minute); err != nil {
			logrus.Warnf("failed to cache tracking link %s: %v", code, err)
		}
	}

	return link, nil
}

func (d Datasource) GetTrackingLinksByAffiliate(ctx context.Context, affiliateID string, limit, offset int) ([]model.TrackingLink, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT link_id, affiliate_id, store_id, tracking_code, original_url, utm_source, utm_medium, utm_campaign, clicks, conversions, revenue, created_at
		FROM tracking_links
		WHERE affiliate_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, affiliateID, limit, offset)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve tracking links", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	links := []model.TrackingLink{}
	for rows.Next() {
		var l model.TrackingLink
		err := rows.Scan(&l.LinkID, &l.AffiliateID, &l.StoreID, &l.TrackingCode, &l.OriginalURL, &l.UTMSource, &l.UTMMedium, &l.UTMCampaign, &l.Clicks, &l.Conversions, &l.Revenue, &l.CreatedAt)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan tracking link", err)
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error iterating tracking links", err)
	}

	return links, nil
}

func (d Datasource) IncrementTrackingLinkClicks(ctx context.Context, linkID string) error {
	_, err := d.Conn.ExecContext(ctx, `
		UPDATE tracking_links SET clicks = clicks + 1 WHERE link_id = $1
	`, linkID)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to increment link clicks", err)
	}
	return nil
}

func (d Datasource) ApplyConversionToLink(ctx context.Context, linkID string, revenueCents int64) error {
	_, err := d.Conn.ExecContext(ctx, `
		UPDATE tracking_links
		SET conversions = conversions + 1,
		    revenue = revenue + $2
		WHERE link_id = $1
	`, linkID, revenueCents)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to apply conversion to link", err)
	}
	return nil
}
