package database

import (
	"context"
	"time"

	"github.com/linkmint/linkmint/internal/apierror"
	"github.com/linkmint/linkmint/model"
)

// RecordClickEvent appends one click analytics row. Called by the
// workers, never from the redirect path.
func (d Datasource) RecordClickEvent(ctx context.Context, event *model.ClickEvent) error {
	if event.ClickID == "" {
		event.ClickID = model.GenerateUUIDWithSuffix("clk")
	}
	if event.ClickedAt.IsZero() {
		event.ClickedAt = time.Now()
	}

	_, err := d.Conn.ExecContext(ctx,
		`INSERT INTO click_events (click_id, tracking_code, affiliate_id, ip_address, user_agent, referrer, clicked_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		event.ClickID, event.TrackingCode, event.AffiliateID, event.IPAddress, event.UserAgent, event.Referrer, event.ClickedAt,
	)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to record click event", err)
	}
	return nil
}
